//go:build archon_release

package ecs

// EnableAssertions reports whether debug contract assertions are
// compiled in.
const EnableAssertions = false

func debugAssert(cond bool, msg string) {}
