package ecs

// SystemID identifies a system handle for the purposes of listener-set
// membership and ordering. Allocation of ids is owned by the caller that
// builds SystemInfo values (typically the scheduler); the core only ever
// compares them.
type SystemID uint32

// RefreshReason is the reason a system's refresh_archetype callback
// fired.
type RefreshReason uint8

const (
	// ReasonNew fires once per archetype a system is found to match: at
	// registration for archetypes that already exist, and on creation for
	// archetypes added to the graph later.
	ReasonNew RefreshReason = iota
	// ReasonNonempty fires when a matched archetype goes from 0 to 1 row.
	ReasonNonempty
	// ReasonEmpty fires when a matched archetype goes to 0 rows.
	ReasonEmpty
	// ReasonRefreshPointers fires when at least one column's base
	// address may have changed (a push reallocated it).
	ReasonRefreshPointers
)

func (r RefreshReason) String() string {
	switch r {
	case ReasonNew:
		return "New"
	case ReasonNonempty:
		return "Nonempty"
	case ReasonEmpty:
		return "Empty"
	case ReasonRefreshPointers:
		return "RefreshPointers"
	default:
		return "Unknown"
	}
}

// EntityEventIdx identifies a kind of entity-scoped event a system can
// subscribe to (the event-queuing subsystem that defines these is an
// external collaborator; the core only stores and ranks subscribers).
type EntityEventIdx uint32

// SystemHandle is the abstract handle the core uses to notify a system.
// Concrete dispatch (the actual method call on whatever a scheduler's
// system object is) lives behind this interface; the archetype and graph
// never hold closure state of their own, per spec §9's "notification
// without callbacks stored as closures."
type SystemHandle interface {
	ID() SystemID
	RefreshArchetype(reason RefreshReason, a *Archetype)
}

// AccessDescriptor reports which component columns a system reads or
// writes, used by register_system to decide whether a system's structural
// predicate is even worth evaluating against an archetype.
type AccessDescriptor interface {
	// Touches reports whether the system accesses any component in ids.
	Touches(ids []ComponentIdx) bool
}

// ComponentAccess is a concrete AccessDescriptor backed by an explicit
// set of component indices.
type ComponentAccess struct {
	ids map[ComponentIdx]struct{}
}

// NewComponentAccess builds an AccessDescriptor over the given component
// indices.
func NewComponentAccess(ids ...ComponentIdx) ComponentAccess {
	m := make(map[ComponentIdx]struct{}, len(ids))
	for _, id := range ids {
		m[id] = struct{}{}
	}
	return ComponentAccess{ids: m}
}

// Touches reports whether any of archetypeIDs is in the access set.
func (a ComponentAccess) Touches(archetypeIDs []ComponentIdx) bool {
	for _, id := range archetypeIDs {
		if _, ok := a.ids[id]; ok {
			return true
		}
	}
	return false
}

// SystemInfo is what a system registers with an archetype/graph via
// RegisterSystem.
type SystemInfo struct {
	Handle SystemHandle
	Access AccessDescriptor

	// StructuralPredicate decides whether the system's component-set
	// expression ("has(A) && has(C)", etc.) matches an archetype. Nil
	// means "never matches structurally."
	StructuralPredicate func(*Archetype) bool

	// EntityEvent, when non-nil, is the event index this system listens
	// for on entities within matching archetypes.
	EntityEvent *EntityEventIdx
	// EntityEventPredicate decides whether this archetype's entities are
	// in scope for the event. Ignored if EntityEvent is nil.
	EntityEventPredicate func(*Archetype) bool
	// Priority orders this system within an archetype's per-event
	// listener list; lower values run first. Ties preserve insertion
	// order (a stable sort).
	Priority int
}

// listenerSet is an insertion-ordered set of system handles. Archetype
// uses it for refresh_listeners so notification order is stable and
// membership checks stay O(1), matching spec §4.3's "set of
// SystemHandle" with the stable-order requirement from spec §5.
type listenerSet struct {
	order []SystemHandle
	index map[SystemID]int
}

func newListenerSet(capHint int) listenerSet {
	return listenerSet{
		order: make([]SystemHandle, 0, capHint),
		index: make(map[SystemID]int, capHint),
	}
}

func (s *listenerSet) add(h SystemHandle) bool {
	if _, ok := s.index[h.ID()]; ok {
		return false
	}
	s.index[h.ID()] = len(s.order)
	s.order = append(s.order, h)
	return true
}

func (s *listenerSet) contains(id SystemID) bool {
	_, ok := s.index[id]
	return ok
}

// eventListener pairs a system handle with its declared priority for one
// EntityEventIdx's subscriber list.
type eventListener struct {
	handle   SystemHandle
	priority int
}

// insertByPriority inserts h at its priority-ordered position, stable
// relative to equal-priority entries already present (it is appended
// after the last entry with priority <= h's).
func insertByPriority(list []eventListener, h SystemHandle, priority int) []eventListener {
	pos := len(list)
	for i, e := range list {
		if e.priority > priority {
			pos = i
			break
		}
	}
	list = append(list, eventListener{})
	copy(list[pos+1:], list[pos:])
	list[pos] = eventListener{handle: h, priority: priority}
	return list
}
