package ecs

import "github.com/kamstrup/intmap"

// EntityLocation is where an entity currently lives: which archetype and
// which row within it.
type EntityLocation struct {
	Archetype ArchetypeIdx
	Row       ArchetypeRow
}

// EntityIndex is a dense map from entity id to its current
// EntityLocation, updated on every move. It is backed by
// kamstrup/intmap's dense integer-keyed map rather than a builtin Go
// map, grounded on plus3-ooftn/ecs/archetype.go's own
// intmap.Map[EntityId, weak.Pointer[EntityRef]] per-archetype index —
// the entity-id domain this structure lives in is exactly the dense
// integer-key case intmap is built for.
//
// Entity id allocation is external (spec §4.5); this type only ever
// reads and overwrites locations for ids a caller already owns.
type EntityIndex struct {
	locations *intmap.Map[uint32, EntityLocation]
}

// NewEntityIndex creates an empty entity index with capHint as the
// initial backing size hint.
func NewEntityIndex(capHint int) *EntityIndex {
	return &EntityIndex{locations: intmap.New[uint32, EntityLocation](capHint)}
}

// Get returns id's current location, or (zero, false) if id is unknown.
func (idx *EntityIndex) Get(id EntityID) (EntityLocation, bool) {
	return idx.locations.Get(uint32(id))
}

// Set records id's location, overwriting any previous one. This is the
// only entity-index method the core itself calls (from MoveEntity), matching spec
// §4.5's get_mut contract expressed as an explicit read/write pair
// instead of a returned mutable reference, which Go's map types cannot
// express directly.
func (idx *EntityIndex) Set(id EntityID, loc EntityLocation) {
	idx.locations.Put(uint32(id), loc)
}

// Remove deletes id's location entirely (used when an entity is
// destroyed, not merely moved).
func (idx *EntityIndex) Remove(id EntityID) {
	idx.locations.Del(uint32(id))
}

// Len reports how many entities currently have a recorded location.
func (idx *EntityIndex) Len() int {
	return idx.locations.Len()
}
