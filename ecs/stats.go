package ecs

import (
	"fmt"
	"strings"
)

// GraphStats is a point-in-time, read-only snapshot of a Graph, adapted
// from delaneyj-arche's ecs/stats.WorldStats for diagnostics and
// testing. Building one walks every archetype, so callers should not
// take a snapshot from a hot path.
type GraphStats struct {
	ComponentCount int
	EntityCount    int
	Archetypes     []ArchetypeStats
}

// ArchetypeStats is a snapshot of one archetype's occupancy.
type ArchetypeStats struct {
	Idx        ArchetypeIdx
	Size       int
	Components []ComponentIdx
}

// Snapshot builds a GraphStats for g.
func (g *Graph) Snapshot() GraphStats {
	archetypes := make([]ArchetypeStats, len(g.byIdx))
	for i, a := range g.byIdx {
		archetypes[i] = ArchetypeStats{
			Idx:        a.idx,
			Size:       a.EntityCount(),
			Components: a.components,
		}
	}
	return GraphStats{
		ComponentCount: g.registry.Len(),
		EntityCount:    g.entityIndex.Len(),
		Archetypes:     archetypes,
	}
}

func (s GraphStats) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Graph -- Components: %d, Entities: %d, Archetypes: %d\n",
		s.ComponentCount, s.EntityCount, len(s.Archetypes))
	for _, a := range s.Archetypes {
		fmt.Fprint(&b, a.String())
	}
	return b.String()
}

func (s ArchetypeStats) String() string {
	ids := make([]string, len(s.Components))
	for i, c := range s.Components {
		ids[i] = fmt.Sprintf("%d", c)
	}
	return fmt.Sprintf("  Archetype %d -- Entities: %d, Components: [%s]\n",
		s.Idx, s.Size, strings.Join(ids, ", "))
}
