package ecs

// Config holds global tuning knobs for the storage core. It mirrors the
// single mutable package-level config struct used throughout the
// TheBitDrifter ECS stack (see warehouse's Config/SetTableEvents), giving
// callers one place to adjust allocation behaviour without threading
// options through every constructor.
var Config config = config{
	growthFactor:          2,
	initialColumnCapacity: 1,
	listenerCapacityHint:  4,
}

type config struct {
	growthFactor          uint32
	initialColumnCapacity uint32
	listenerCapacityHint  int
}

// SetGrowthFactor sets the multiplier used when a column outgrows its
// capacity. The entity-id vector grows through Go's append and does not
// use it. Must be >= 2; values below that are clamped to 2.
func (c *config) SetGrowthFactor(factor uint32) {
	if factor < 2 {
		factor = 2
	}
	c.growthFactor = factor
}

// SetInitialColumnCapacity sets the capacity a non-zero-sized column
// allocates on its first push. Must be >= 1.
func (c *config) SetInitialColumnCapacity(n uint32) {
	if n < 1 {
		n = 1
	}
	c.initialColumnCapacity = n
}

// SetListenerCapacityHint sets the initial backing capacity reserved for
// an archetype's refresh-listener set. Per-event listener lists are not
// presized by it.
func (c *config) SetListenerCapacityHint(n int) {
	if n < 0 {
		n = 0
	}
	c.listenerCapacityHint = n
}
