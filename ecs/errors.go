package ecs

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// panicCapacityExhausted aborts with a traced diagnostic when a dense
// 32-bit index space (components or archetypes) is exhausted. This
// mirrors warehouse/entity.go and query.go wrapping fatal paths with
// bark.AddTrace before panicking, per spec §7's "fatal, abort with a
// diagnostic" capacity-exhausted category.
func panicCapacityExhausted(what string) {
	panic(bark.AddTrace(fmt.Errorf("archon: %s index space exhausted", what)))
}

// panicContractViolation aborts on a precondition violation the core
// itself detected (e.g. mismatched transfer_elem layouts, a component
// index that does not belong to the destination archetype during
// move_entity). Per spec §7 these are undefined behaviour at release and
// an assertion failure in debug builds. It is reached from a failed
// debugAssert, and from ComponentRegistry.MustGet in every build; it
// always aborts.
func panicContractViolation(msg string) {
	panic(bark.AddTrace(fmt.Errorf("archon: contract violation: %s", msg)))
}
