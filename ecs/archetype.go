package ecs

import (
	"unsafe"

	"github.com/TheBitDrifter/mask"
)

// ArchetypeIdx is a dense 32-bit archetype index.
type ArchetypeIdx uint32

const (
	// EmptyArchetype is reserved for the archetype with no columns.
	EmptyArchetype ArchetypeIdx = 0
	// NullArchetype is a sentinel meaning "no archetype".
	NullArchetype ArchetypeIdx = 1<<32 - 1
)

// ArchetypeRow is a row number within an archetype.
type ArchetypeRow uint32

// EntityID is an opaque entity identifier. Allocation and recycling are
// owned by a collaborator outside this package (spec §4.5); the core
// only ever stores and compares ids.
type EntityID uint32

// Archetype owns the row table for one exact component set: a parallel
// vector of entity ids plus one Column per component, sorted ascending
// by component index, together with this archetype's insert/remove edge
// cache and system listeners.
type Archetype struct {
	idx        ArchetypeIdx
	components []ComponentIdx // sorted ascending, no duplicates
	columns    []*Column       // parallel to components
	signature  mask.Mask

	entityIDs []EntityID

	insertEdges map[ComponentIdx]ArchetypeIdx
	removeEdges map[ComponentIdx]ArchetypeIdx

	refreshListeners listenerSet
	eventListeners   map[EntityEventIdx][]eventListener

	// generation is bumped on every Empty/Nonempty/RefreshPointers
	// notification this archetype emits. It is a student-added,
	// additive freshness check (SPEC_FULL.md §5) layered on top of,
	// never replacing, the listener protocol.
	generation uint64
}

func newArchetype(idx ArchetypeIdx, components []ComponentIdx, registry *ComponentRegistry) *Archetype {
	columns := make([]*Column, len(components))
	for i, c := range components {
		info := registry.MustGet(c)
		columns[i] = NewColumn(c, info.Layout, info.Drop)
	}
	return &Archetype{
		idx:              idx,
		components:       components,
		columns:          columns,
		signature:        signatureOf(components),
		insertEdges:      make(map[ComponentIdx]ArchetypeIdx),
		removeEdges:      make(map[ComponentIdx]ArchetypeIdx),
		refreshListeners: newListenerSet(Config.listenerCapacityHint),
		eventListeners:   make(map[EntityEventIdx][]eventListener),
	}
}

// Idx returns this archetype's dense index.
func (a *Archetype) Idx() ArchetypeIdx { return a.idx }

// Components returns the sorted, deduplicated component-index set this
// archetype holds. The returned slice must not be mutated.
func (a *Archetype) Components() []ComponentIdx { return a.components }

// Columns returns this archetype's columns, parallel to Components().
// The returned slice must not be mutated.
func (a *Archetype) Columns() []*Column { return a.columns }

// EntityCount returns the number of entities (rows) currently stored.
func (a *Archetype) EntityCount() int { return len(a.entityIDs) }

// EntityAt returns the entity id at row.
func (a *Archetype) EntityAt(row ArchetypeRow) EntityID { return a.entityIDs[row] }

// Generation returns the archetype's refresh epoch counter; see the
// generation field doc.
func (a *Archetype) Generation() uint64 { return a.generation }

// HasComponent reports whether c is one of this archetype's columns.
func (a *Archetype) HasComponent(c ComponentIdx) bool {
	return hasComponentMask(a.signature, a.components, c)
}

// ColumnOf returns the column for c via binary search over the sorted
// column list, or (nil, false) if this archetype has no such column.
func (a *Archetype) ColumnOf(c ComponentIdx) (*Column, bool) {
	i := binarySearchComponent(a.components, c)
	if i < 0 {
		return nil, false
	}
	return a.columns[i], true
}

func binarySearchComponent(sorted []ComponentIdx, c ComponentIdx) int {
	lo, hi := 0, len(sorted)
	for lo < hi {
		mid := (lo + hi) / 2
		if sorted[mid] < c {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(sorted) && sorted[lo] == c {
		return lo
	}
	return -1
}

// AddEntity appends id to the archetype's entity-id vector and returns
// its row together with one aligned, uninitialised write pointer per
// column in component-index order, which the caller must fully
// initialise before any other archetype operation runs.
//
// Open question, preserved from spec §9 (see DESIGN.md): this path does not
// itself fire Nonempty or RefreshPointers notifications. It exists only
// for seeding an entity into the empty archetype (entity creation with
// no components) or into a precomputed destination by a raw path;
// ordinary growth goes through the graph's MoveEntity, which does
// notify. A caller using AddEntity directly owns triggering any refresh
// the resulting archetype-population change requires — skipping that is
// a caller contract violation, not something this method can detect.
func (a *Archetype) AddEntity(id EntityID) (ArchetypeRow, []unsafe.Pointer) {
	row := ArchetypeRow(len(a.entityIDs))
	a.entityIDs = append(a.entityIDs, id)
	ptrs := make([]unsafe.Pointer, len(a.columns))
	for i, col := range a.columns {
		ptrs[i] = col.Push()
	}
	return row, ptrs
}

// RegisterSystem evaluates info against this archetype and, if it
// matches, notifies it and records it as a listener, per spec §4.2:
//
//  1. If info.Access touches any column here AND info.StructuralPredicate
//     matches, fire ReasonNew and add info.Handle to refresh_listeners.
//  2. If info.EntityEvent is set and info.EntityEventPredicate matches,
//     insert info.Handle into that event's priority-ordered listener
//     list.
func (a *Archetype) RegisterSystem(info SystemInfo) {
	if info.StructuralPredicate != nil && info.Access != nil &&
		info.Access.Touches(a.components) && info.StructuralPredicate(a) {
		if a.refreshListeners.add(info.Handle) {
			info.Handle.RefreshArchetype(ReasonNew, a)
		}
	}
	if info.EntityEvent != nil && info.EntityEventPredicate != nil && info.EntityEventPredicate(a) {
		idx := *info.EntityEvent
		a.eventListeners[idx] = insertByPriority(a.eventListeners[idx], info.Handle, info.Priority)
	}
}

// EventListeners returns the priority-ordered subscriber list for idx.
// The returned slice must not be mutated.
func (a *Archetype) EventListeners(idx EntityEventIdx) []SystemHandle {
	entries := a.eventListeners[idx]
	if len(entries) == 0 {
		return nil
	}
	out := make([]SystemHandle, len(entries))
	for i, e := range entries {
		out[i] = e.handle
	}
	return out
}

// notifyListeners calls RefreshArchetype(reason, a) on every
// refresh-listening system, in stable insertion order, and bumps the
// archetype's generation counter once.
func (a *Archetype) notifyListeners(reason RefreshReason) {
	a.generation++
	for _, h := range a.refreshListeners.order {
		h.RefreshArchetype(reason, a)
	}
}

// ShrinkToFit releases excess column and entity-id-vector capacity
// without destroying the archetype, per SPEC_FULL.md §5's supplemented
// capacity-reclaim operation. It never removes the archetype from the
// graph's indices and never invalidates cached edges.
func (a *Archetype) ShrinkToFit() {
	for _, col := range a.columns {
		col.ShrinkToFit()
	}
	if cap(a.entityIDs) > len(a.entityIDs) {
		shrunk := make([]EntityID, len(a.entityIDs))
		copy(shrunk, a.entityIDs)
		a.entityIDs = shrunk
	}
}
