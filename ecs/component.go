package ecs

import "unsafe"

// ComponentIdx is a dense 32-bit index into the component registry.
// Stable for the life of the world.
type ComponentIdx uint32

// Layout describes the runtime memory layout of a component type. Size
// and align are known only at registration time; the core never assumes
// a concrete Go type for component data.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// DropFn runs any cleanup a component type's values require when a row
// is removed. Drop functions are required to be
// thread-safe (spec §5); the core itself never calls them concurrently
// for a single column, but their safety is part of the contract with
// anything that shares column data across threads.
type DropFn func(elem unsafe.Pointer)

// ComponentDescriptor is what a caller supplies to register a component.
// TypeKey is optional: when non-nil it is used to dedupe repeated
// registrations of the same underlying type (the world facade typically
// passes a reflect.Type wrapped as TypeKey; the core treats it as an
// opaque comparable value and never imports reflect itself, keeping this
// package decoupled from the registration surface per spec §1/§6).
type ComponentDescriptor struct {
	Name    string
	TypeKey any
	Layout  Layout
	Drop    DropFn
}

// ComponentInfo is the immutable-after-registration record the registry
// hands back for a ComponentIdx.
type ComponentInfo struct {
	Name    string
	TypeKey any
	Layout  Layout
	Drop    DropFn
}

// ComponentRegistry assigns a stable dense ComponentIdx per distinct
// (type-identity or anonymous) registration.
type ComponentRegistry struct {
	infos    []ComponentInfo
	byType   map[any]ComponentIdx
	byName   map[string]ComponentIdx
}

// NewComponentRegistry creates an empty registry.
func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		byType: make(map[any]ComponentIdx),
		byName: make(map[string]ComponentIdx),
	}
}

// Add assigns a ComponentIdx to desc. If desc.TypeKey is non-nil and
// already known, the existing id is returned with inserted=false.
// Otherwise a fresh slot is allocated, which determines the returned
// ComponentIdx; registering is permanent; panics if the 32-bit index
// space is exhausted.
func (r *ComponentRegistry) Add(desc ComponentDescriptor) (ComponentIdx, bool) {
	if desc.TypeKey != nil {
		if id, ok := r.byType[desc.TypeKey]; ok {
			return id, false
		}
	}
	if len(r.infos) >= 1<<32-1 {
		panicCapacityExhausted("component")
	}
	idx := ComponentIdx(len(r.infos))
	r.infos = append(r.infos, ComponentInfo{
		Name:    desc.Name,
		TypeKey: desc.TypeKey,
		Layout:  desc.Layout,
		Drop:    desc.Drop,
	})
	if desc.TypeKey != nil {
		r.byType[desc.TypeKey] = idx
	}
	if desc.Name != "" {
		r.byName[desc.Name] = idx
	}
	Logger.Debug().Str("component", desc.Name).Uint32("idx", uint32(idx)).Msg("component registered")
	return idx, true
}

// Get returns the info for idx, or (zero, false) if idx is out of range.
func (r *ComponentRegistry) Get(idx ComponentIdx) (ComponentInfo, bool) {
	if int(idx) >= len(r.infos) {
		return ComponentInfo{}, false
	}
	return r.infos[idx], true
}

// MustGet returns the info for idx, panicking if idx is unknown. This is
// the indexing-operator-panics counterpart to Get demanded by spec §7.
func (r *ComponentRegistry) MustGet(idx ComponentIdx) ComponentInfo {
	info, ok := r.Get(idx)
	if !ok {
		panicContractViolation("unknown component index")
	}
	return info
}

// ByTypeKey looks up a previously registered component by its type
// identity key.
func (r *ComponentRegistry) ByTypeKey(key any) (ComponentIdx, bool) {
	if key == nil {
		return 0, false
	}
	idx, ok := r.byType[key]
	return idx, ok
}

// ByName looks up a previously registered component by its name.
func (r *ComponentRegistry) ByName(name string) (ComponentIdx, bool) {
	idx, ok := r.byName[name]
	return idx, ok
}

// Len reports how many components have been registered.
func (r *ComponentRegistry) Len() int {
	return len(r.infos)
}
