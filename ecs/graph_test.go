package ecs

import (
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGraph() (*Graph, *ComponentRegistry, *EntityIndex) {
	reg := NewComponentRegistry()
	idx := NewEntityIndex(16)
	return NewGraph(reg, idx), reg, idx
}

func TestTraverseInsertCreatesArchetypeAndMoveEntitySeedsRow(t *testing.T) {
	g, reg, entIdx := newTestGraph()
	a, _ := reg.Add(ComponentDescriptor{Name: "A", TypeKey: "A", Layout: positionLayout()})

	dst := g.TraverseInsert(EmptyArchetype, a)
	require.Equal(t, ArchetypeIdx(1), dst)

	pos := position{X: 1, Y: 2}
	empty, _ := g.ArchetypeByIndex(EmptyArchetype)
	seedRow, _ := empty.AddEntity(EntityID(1))
	entIdx.Set(1, EntityLocation{Archetype: EmptyArchetype, Row: seedRow})

	dstArch, _ := g.ArchetypeByIndex(dst)
	moveRow := g.MoveEntity(EmptyArchetype, seedRow, dst, []ComponentValue{
		{Idx: a, Ptr: unsafe.Pointer(&pos)},
	})
	assert.Equal(t, ArchetypeRow(0), moveRow)
	assert.Equal(t, 0, empty.EntityCount())
	assert.Equal(t, 1, dstArch.EntityCount())

	col, ok := dstArch.ColumnOf(a)
	require.True(t, ok)
	assert.Equal(t, pos, *(*position)(col.Get(0)))

	loc, ok := entIdx.Get(1)
	require.True(t, ok)
	assert.Equal(t, EntityLocation{Archetype: dst, Row: 0}, loc)
}

func TestTraverseInsertMemoisesEdge(t *testing.T) {
	g, reg, _ := newTestGraph()
	a, _ := reg.Add(ComponentDescriptor{Name: "A", TypeKey: "A", Layout: positionLayout()})

	dst1 := g.TraverseInsert(EmptyArchetype, a)
	dst2 := g.TraverseInsert(EmptyArchetype, a)
	assert.Equal(t, dst1, dst2)
	assert.Len(t, g.IterArchetypes(), 2)
}

func TestTraverseInsertThenRemove(t *testing.T) {
	g, reg, entIdx := newTestGraph()
	a, _ := reg.Add(ComponentDescriptor{Name: "A", TypeKey: "A", Layout: positionLayout()})
	c, _ := reg.Add(ComponentDescriptor{Name: "C", TypeKey: "C", Layout: Layout{Size: 1, Align: 1}})

	x := g.TraverseInsert(EmptyArchetype, a)
	empty, _ := g.ArchetypeByIndex(EmptyArchetype)
	row, _ := empty.AddEntity(EntityID(1))
	entIdx.Set(1, EntityLocation{Archetype: EmptyArchetype, Row: row})
	pos := position{X: 1, Y: 2}
	g.MoveEntity(EmptyArchetype, row, x, []ComponentValue{{Idx: a, Ptr: unsafe.Pointer(&pos)}})

	y := g.TraverseInsert(x, c)
	xArch, _ := g.ArchetypeByIndex(x)
	yArch, _ := g.ArchetypeByIndex(y)
	assert.Equal(t, x, yArch.removeEdges[c])

	var cVal byte = 9
	g.MoveEntity(x, 0, y, []ComponentValue{{Idx: c, Ptr: unsafe.Pointer(&cVal)}})
	assert.Equal(t, 0, xArch.EntityCount())
	assert.Equal(t, 1, yArch.EntityCount())

	colA, _ := yArch.ColumnOf(a)
	assert.Equal(t, pos, *(*position)(colA.Get(0)))
	colC, _ := yArch.ColumnOf(c)
	assert.Equal(t, byte(9), *(*byte)(colC.Get(0)))

	z := g.TraverseRemove(y, a)
	zArch, _ := g.ArchetypeByIndex(z)
	assert.Equal(t, []ComponentIdx{c}, zArch.Components())

	loc, ok := entIdx.Get(1)
	require.True(t, ok)
	assert.Equal(t, y, loc.Archetype)
}

func TestMoveEntityPatchesSwappedRow(t *testing.T) {
	g, reg, entIdx := newTestGraph()
	a, _ := reg.Add(ComponentDescriptor{Name: "A", TypeKey: "A", Layout: positionLayout()})
	c, _ := reg.Add(ComponentDescriptor{Name: "C", TypeKey: "C", Layout: Layout{Size: 1, Align: 1}})

	x := g.TraverseInsert(EmptyArchetype, a)
	y := g.TraverseInsert(x, c)
	xArch, _ := g.ArchetypeByIndex(x)

	empty, _ := g.ArchetypeByIndex(EmptyArchetype)

	row0, _ := empty.AddEntity(EntityID(0))
	entIdx.Set(0, EntityLocation{Archetype: EmptyArchetype, Row: row0})
	pos0 := position{X: 0}
	g.MoveEntity(EmptyArchetype, row0, x, []ComponentValue{{Idx: a, Ptr: unsafe.Pointer(&pos0)}})

	row1, _ := empty.AddEntity(EntityID(1))
	entIdx.Set(1, EntityLocation{Archetype: EmptyArchetype, Row: row1})
	pos1 := position{X: 1}
	g.MoveEntity(EmptyArchetype, row1, x, []ComponentValue{{Idx: a, Ptr: unsafe.Pointer(&pos1)}})

	var cVal byte = 1
	g.MoveEntity(x, 0, y, []ComponentValue{{Idx: c, Ptr: unsafe.Pointer(&cVal)}})

	assert.Equal(t, 1, xArch.EntityCount())
	loc1, ok := entIdx.Get(1)
	require.True(t, ok)
	assert.Equal(t, EntityLocation{Archetype: x, Row: 0}, loc1)
}

func TestMoveEntityNoOpWhenSrcEqualsDst(t *testing.T) {
	g, reg, _ := newTestGraph()
	a, _ := reg.Add(ComponentDescriptor{Name: "A", TypeKey: "A", Layout: positionLayout()})
	x := g.TraverseInsert(EmptyArchetype, a)

	row := g.MoveEntity(x, 3, x, nil)
	assert.Equal(t, ArchetypeRow(3), row)
}

func TestMoveEntityNotificationOrder(t *testing.T) {
	g, reg, entIdx := newTestGraph()
	a, _ := reg.Add(ComponentDescriptor{Name: "A", TypeKey: "A", Layout: positionLayout()})
	x := g.TraverseInsert(EmptyArchetype, a)
	xArch, _ := g.ArchetypeByIndex(x)
	empty, _ := g.ArchetypeByIndex(EmptyArchetype)

	sysEmpty := &recordingSystem{id: 1}
	sysX := &recordingSystem{id: 2}
	empty.refreshListeners.add(sysEmpty)
	xArch.refreshListeners.add(sysX)

	row, _ := empty.AddEntity(EntityID(1))
	entIdx.Set(1, EntityLocation{Archetype: EmptyArchetype, Row: row})
	pos := position{X: 1}
	g.MoveEntity(EmptyArchetype, row, x, []ComponentValue{{Idx: a, Ptr: unsafe.Pointer(&pos)}})

	require.Len(t, sysEmpty.events, 1)
	assert.Equal(t, ReasonEmpty, sysEmpty.events[0])

	require.Len(t, sysX.events, 2)
	assert.Equal(t, ReasonRefreshPointers, sysX.events[0])
	assert.Equal(t, ReasonNonempty, sysX.events[1])
}

func TestRegisterSystemMatchesOnlyMatchingArchetype(t *testing.T) {
	g, reg, entIdx := newTestGraph()
	a, _ := reg.Add(ComponentDescriptor{Name: "A", TypeKey: "A", Layout: positionLayout()})
	c, _ := reg.Add(ComponentDescriptor{Name: "C", TypeKey: "C", Layout: Layout{Size: 1, Align: 1}})

	x := g.TraverseInsert(EmptyArchetype, a)
	y := g.TraverseInsert(x, c)

	empty, _ := g.ArchetypeByIndex(EmptyArchetype)
	row, _ := empty.AddEntity(EntityID(1))
	entIdx.Set(1, EntityLocation{Archetype: EmptyArchetype, Row: row})
	pos := position{X: 1}
	g.MoveEntity(EmptyArchetype, row, x, []ComponentValue{{Idx: a, Ptr: unsafe.Pointer(&pos)}})
	var cVal byte = 1
	g.MoveEntity(x, 0, y, []ComponentValue{{Idx: c, Ptr: unsafe.Pointer(&cVal)}})

	sys := &recordingSystem{id: 9}
	g.RegisterSystem(SystemInfo{
		Handle: sys,
		Access: NewComponentAccess(a),
		StructuralPredicate: func(ar *Archetype) bool {
			return ar.HasComponent(a) && ar.HasComponent(c)
		},
	})

	require.Len(t, sys.events, 1)
	assert.Equal(t, ReasonNew, sys.events[0])

	yArch, _ := g.ArchetypeByIndex(y)
	xArch, _ := g.ArchetypeByIndex(x)
	assert.True(t, yArch.refreshListeners.contains(9))
	assert.False(t, xArch.refreshListeners.contains(9))
}

// TestDropAccounting exercises spec §8's drop-accounting property: for a
// component type that counts live instances via its drop function, the
// count equals entities created with it minus entities whose transition
// removed it.
func TestDropAccounting(t *testing.T) {
	reg := NewComponentRegistry()
	idx := NewEntityIndex(16)
	g := NewGraph(reg, idx)

	live := 0
	counted, _ := reg.Add(ComponentDescriptor{
		Name:    "Counted",
		TypeKey: "Counted",
		Layout:  Layout{Size: 1, Align: 1},
		Drop:    func(unsafe.Pointer) { live-- },
	})
	other, _ := reg.Add(ComponentDescriptor{Name: "Other", TypeKey: "Other", Layout: positionLayout()})

	withCounted := g.TraverseInsert(EmptyArchetype, counted)

	ids := []EntityID{1, 2, 3}
	for _, id := range ids {
		empty, _ := g.ArchetypeByIndex(EmptyArchetype)
		row, _ := empty.AddEntity(id)
		idx.Set(id, EntityLocation{Archetype: EmptyArchetype, Row: row})
		var v byte = 1
		g.MoveEntity(EmptyArchetype, row, withCounted, []ComponentValue{{Idx: counted, Ptr: unsafe.Pointer(&v)}})
		live++
	}
	assert.Equal(t, 3, live)

	// Adding an unrelated component transfers (not drops) Counted.
	both := g.TraverseInsert(withCounted, other)
	loc, _ := idx.Get(1)
	pos := position{X: 9}
	g.MoveEntity(withCounted, loc.Row, both, []ComponentValue{{Idx: other, Ptr: unsafe.Pointer(&pos)}})
	assert.Equal(t, 3, live, "transferring Counted must not drop it")

	// Removing Counted from entity 1 drops it.
	withoutCounted := g.TraverseRemove(both, counted)
	loc, _ = idx.Get(1)
	g.MoveEntity(both, loc.Row, withoutCounted, nil)
	assert.Equal(t, 2, live)
}
