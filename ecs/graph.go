package ecs

import (
	"sort"
	"strings"
	"unsafe"
)

// ComponentValue pairs a component index with a pointer to a caller-owned
// source value of that component's layout size, used to seed newly
// added columns during MoveEntity.
type ComponentValue struct {
	Idx ComponentIdx
	Ptr unsafe.Pointer
}

// Graph is the archetype graph: the collection of archetypes keyed both
// by dense numeric index and by their component-index set, exposing
// TraverseInsert, TraverseRemove, and MoveEntity.
type Graph struct {
	registry    *ComponentRegistry
	entityIndex *EntityIndex

	byIdx        []*Archetype
	byComponents map[string]ArchetypeIdx

	systems []SystemInfo
}

// NewGraph creates a graph over registry and entityIndex, pre-seeded
// with the reserved empty archetype at EmptyArchetype (index 0).
func NewGraph(registry *ComponentRegistry, entityIndex *EntityIndex) *Graph {
	g := &Graph{
		registry:     registry,
		entityIndex:  entityIndex,
		byComponents: make(map[string]ArchetypeIdx),
	}
	empty := newArchetype(EmptyArchetype, nil, registry)
	g.byIdx = append(g.byIdx, empty)
	g.byComponents[componentsKey(nil)] = EmptyArchetype
	return g
}

// componentsKey builds the canonical, collision-free map key for a
// sorted component-index set. A plain []ComponentIdx isn't map-keyable
// in Go, and ComponentIdx's 32-bit dense space is wider than any fixed
// bitmask width mask.Mask offers, so — unlike warehouse's
// mask.Mask-keyed idsGroupedByMask — this graph uses an exact encoded
// string as the identity key and reserves mask.Mask (see mask.go) purely
// as a predicate-matching accelerator.
func componentsKey(components []ComponentIdx) string {
	if len(components) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(len(components) * 5)
	for _, c := range components {
		var buf [5]byte
		buf[0] = ','
		buf[1] = byte(c)
		buf[2] = byte(c >> 8)
		buf[3] = byte(c >> 16)
		buf[4] = byte(c >> 24)
		b.Write(buf[:])
	}
	return b.String()
}

// ArchetypeByIndex returns the archetype at idx, or (nil, false) if idx
// is out of range.
func (g *Graph) ArchetypeByIndex(idx ArchetypeIdx) (*Archetype, bool) {
	if int(idx) >= len(g.byIdx) {
		return nil, false
	}
	return g.byIdx[idx], true
}

// ArchetypeByComponents returns the unique archetype for the given
// (not-necessarily-sorted) component set, if one has been created.
func (g *Graph) ArchetypeByComponents(components ...ComponentIdx) (*Archetype, bool) {
	sorted := append([]ComponentIdx(nil), components...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx, ok := g.byComponents[componentsKey(sorted)]
	if !ok {
		return nil, false
	}
	return g.byIdx[idx], true
}

// IterArchetypes returns every archetype currently in the graph, indexed
// by ArchetypeIdx. The returned slice must not be mutated.
func (g *Graph) IterArchetypes() []*Archetype { return g.byIdx }

// RegisterSystem registers info against every existing archetype and
// remembers it so future archetypes (created lazily by TraverseInsert
// or TraverseRemove) evaluate it too, per spec §4.3 bullet 4.
func (g *Graph) RegisterSystem(info SystemInfo) {
	g.systems = append(g.systems, info)
	for _, a := range g.byIdx {
		a.RegisterSystem(info)
	}
}

// TraverseInsert resolves the archetype reached from src by inserting
// component c, creating it on demand. Cached once resolved.
func (g *Graph) TraverseInsert(src ArchetypeIdx, c ComponentIdx) ArchetypeIdx {
	srcA := g.byIdx[src]
	if dst, ok := srcA.insertEdges[c]; ok {
		return dst
	}
	if srcA.HasComponent(c) {
		srcA.insertEdges[c] = src
		return src
	}

	newComponents := insertSorted(srcA.components, c)
	key := componentsKey(newComponents)
	if dstIdx, ok := g.byComponents[key]; ok {
		srcA.insertEdges[c] = dstIdx
		return dstIdx
	}

	dst := g.createArchetype(newComponents)
	dst.removeEdges[c] = src
	srcA.insertEdges[c] = dst.idx
	Logger.Debug().Uint32("src", uint32(src)).Uint32("component", uint32(c)).
		Uint32("dst", uint32(dst.idx)).Msg("insert edge created")
	return dst.idx
}

// TraverseRemove resolves the archetype reached from src by removing
// component c, creating it on demand. Cached once resolved.
func (g *Graph) TraverseRemove(src ArchetypeIdx, c ComponentIdx) ArchetypeIdx {
	srcA := g.byIdx[src]
	if dst, ok := srcA.removeEdges[c]; ok {
		return dst
	}
	if !srcA.HasComponent(c) {
		srcA.removeEdges[c] = src
		return src
	}

	newComponents := removeSorted(srcA.components, c)
	key := componentsKey(newComponents)
	if dstIdx, ok := g.byComponents[key]; ok {
		srcA.removeEdges[c] = dstIdx
		return dstIdx
	}

	dst := g.createArchetype(newComponents)
	dst.insertEdges[c] = src
	srcA.removeEdges[c] = dst.idx
	Logger.Debug().Uint32("src", uint32(src)).Uint32("component", uint32(c)).
		Uint32("dst", uint32(dst.idx)).Msg("remove edge created")
	return dst.idx
}

func (g *Graph) createArchetype(components []ComponentIdx) *Archetype {
	if len(g.byIdx) >= 1<<32-1 {
		panicCapacityExhausted("archetype")
	}
	idx := ArchetypeIdx(len(g.byIdx))
	a := newArchetype(idx, components, g.registry)
	g.byIdx = append(g.byIdx, a)
	g.byComponents[componentsKey(components)] = idx
	for _, info := range g.systems {
		a.RegisterSystem(info)
	}
	return a
}

func insertSorted(sorted []ComponentIdx, c ComponentIdx) []ComponentIdx {
	out := make([]ComponentIdx, 0, len(sorted)+1)
	inserted := false
	for _, v := range sorted {
		if !inserted && c < v {
			out = append(out, c)
			inserted = true
		}
		out = append(out, v)
	}
	if !inserted {
		out = append(out, c)
	}
	return out
}

func removeSorted(sorted []ComponentIdx, c ComponentIdx) []ComponentIdx {
	out := make([]ComponentIdx, 0, len(sorted)-1)
	for _, v := range sorted {
		if v != c {
			out = append(out, v)
		}
	}
	return out
}

// MoveEntity relocates the entity at (src, row) into archetype dst,
// merging in newValues for any component dst has that src does not, and
// dropping any component src has that dst does not. Preconditions: the
// multiset difference dst.components \ src.components must equal, in
// ascending component-index order, the indices carried by newValues; the
// entity at (src, row) must exist.
func (g *Graph) MoveEntity(src ArchetypeIdx, row ArchetypeRow, dst ArchetypeIdx, newValues []ComponentValue) ArchetypeRow {
	if src == dst {
		return row
	}

	srcA := g.byIdx[src]
	dstA := g.byIdx[dst]
	debugAssert(int(row) < len(srcA.entityIDs), "move_entity: row out of range")

	willReallocateDst := dstWillReallocate(dstA)

	si, di, vi := 0, 0, 0
	for si < len(srcA.columns) || di < len(dstA.columns) {
		switch {
		case di >= len(dstA.columns) || (si < len(srcA.columns) && srcA.components[si] < dstA.components[di]):
			srcA.columns[si].SwapRemove(uint32(row))
			si++
		case si >= len(srcA.columns) || dstA.components[di] < srcA.components[si]:
			debugAssert(vi < len(newValues), "move_entity: missing new component value")
			nv := newValues[vi]
			debugAssert(nv.Idx == dstA.components[di], "move_entity: new value out of order")
			dstCol := dstA.columns[di]
			slot := dstCol.Push()
			if dstCol.ElemLayout().Size > 0 {
				size := dstCol.ElemLayout().Size
				srcBytes := unsafe.Slice((*byte)(nv.Ptr), size)
				dstBytes := unsafe.Slice((*byte)(slot), size)
				copy(dstBytes, srcBytes)
			}
			vi++
			di++
		default:
			srcA.columns[si].TransferElem(dstA.columns[di], uint32(row))
			si++
			di++
		}
	}
	debugAssert(vi == len(newValues), "move_entity: leftover new component values")

	movedID := srcA.entityIDs[row]
	lastRow := ArchetypeRow(len(srcA.entityIDs) - 1)
	wasLastRow := row == lastRow
	srcA.entityIDs[row] = srcA.entityIDs[lastRow]
	srcA.entityIDs = srcA.entityIDs[:lastRow]

	dstRow := ArchetypeRow(len(dstA.entityIDs))
	dstA.entityIDs = append(dstA.entityIDs, movedID)

	g.entityIndex.Set(movedID, EntityLocation{Archetype: dst, Row: dstRow})
	if !wasLastRow {
		swappedID := srcA.entityIDs[row]
		g.entityIndex.Set(swappedID, EntityLocation{Archetype: src, Row: row})
	}

	if len(srcA.entityIDs) == 0 {
		srcA.notifyListeners(ReasonEmpty)
	}
	if willReallocateDst {
		dstA.notifyListeners(ReasonRefreshPointers)
	}
	if len(dstA.entityIDs) == 1 {
		dstA.notifyListeners(ReasonNonempty)
	}

	return dstRow
}

// dstWillReallocate reports whether any destination column, or the
// entity-id vector, is at capacity and would therefore reallocate on the
// next push. Detected purely via pre-move length==capacity, never by
// comparing base pointers, per spec §4.3's tie-break rule.
func dstWillReallocate(a *Archetype) bool {
	if len(a.entityIDs) == cap(a.entityIDs) {
		return true
	}
	for _, col := range a.columns {
		if col.ElemLayout().Size == 0 {
			continue
		}
		if col.Len() == col.Cap() {
			return true
		}
	}
	return false
}
