// Package ecs contains archon's archetype storage core.
//
// The outline below summarises its parts.
//
// # Outline
//
//   - [ComponentRegistry] assigns a stable [ComponentIdx] to every
//     registered component and holds its memory layout and drop function.
//   - [Column] is a type-erased, growable, contiguous store for one
//     component's values within one archetype.
//   - [Archetype] is the row table for one exact set of component indices.
//   - [Graph] hosts the archetype collection and the transition edges
//     between archetypes: [Graph.TraverseInsert], [Graph.TraverseRemove],
//     [Graph.MoveEntity].
//   - [EntityIndex] maps an entity id to its current [EntityLocation].
//   - [SystemHandle] and [SystemInfo] implement the refresh-notification
//     protocol systems use to learn about structural changes.
//
// This package is a library substrate, not a wire protocol: it has no
// persisted state and performs no I/O. Callers (a world facade, scheduler,
// or query layer) are expected to uphold the preconditions documented on
// each operation; violating them is undefined behaviour in release builds
// and an assertion failure when built with debug assertions enabled (see
// [EnableAssertions]).
package ecs
