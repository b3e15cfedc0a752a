package ecs_test

import (
	"fmt"
	"unsafe"

	"github.com/latticeworks/archon/ecs"
)

// Position is a simple 2D component used only to demonstrate the core's
// registration and move flow.
type Position struct {
	X, Y float64
}

// Example_basic shows registering a component, creating an entity in the
// empty archetype, and moving it into the archetype that holds Position
// via the graph's insert edge.
func Example_basic() {
	registry := ecs.NewComponentRegistry()
	entities := ecs.NewEntityIndex(8)
	graph := ecs.NewGraph(registry, entities)

	positionIdx, _ := registry.Add(ecs.ComponentDescriptor{
		Name:    "Position",
		TypeKey: "Position",
		Layout:  ecs.Layout{Size: unsafe.Sizeof(Position{}), Align: unsafe.Alignof(Position{})},
	})

	withPosition := graph.TraverseInsert(ecs.EmptyArchetype, positionIdx)

	empty, _ := graph.ArchetypeByIndex(ecs.EmptyArchetype)
	row, _ := empty.AddEntity(ecs.EntityID(1))
	entities.Set(1, ecs.EntityLocation{Archetype: ecs.EmptyArchetype, Row: row})

	pos := Position{X: 3, Y: 4}
	newRow := graph.MoveEntity(ecs.EmptyArchetype, row, withPosition, []ecs.ComponentValue{
		{Idx: positionIdx, Ptr: unsafe.Pointer(&pos)},
	})

	archetype, _ := graph.ArchetypeByIndex(withPosition)
	col, _ := archetype.ColumnOf(positionIdx)
	stored := (*Position)(col.Get(uint32(newRow)))

	fmt.Printf("row=%d x=%.0f y=%.0f\n", newRow, stored.X, stored.Y)

	// Output:
	// row=0 x=3 y=4
}
