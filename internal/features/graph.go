package features

import (
	"structscan/internal/depgraph"
	"structscan/internal/entity"
)

// GraphExtractor surfaces the call-graph metrics spec §4.I computes as
// per-entity features (spec §4.G "Graph", sourced from 4.I).
type GraphExtractor struct {
	graph *depgraph.Graph
}

// NewGraphExtractor wraps an already-built call graph.
func NewGraphExtractor(g *depgraph.Graph) *GraphExtractor {
	return &GraphExtractor{graph: g}
}

func (g *GraphExtractor) Name() string { return "graph" }

func (g *GraphExtractor) Schema() []Schema {
	return []Schema{
		{Name: "graph.fan_in", Description: "incoming call edges", Min: 0, Max: 0, Default: 0, Polarity: PolarityNegative},
		{Name: "graph.fan_out", Description: "outgoing call edges", Min: 0, Max: 0, Default: 0, Polarity: PolarityNegative},
		{Name: "graph.choke_score", Description: "fan_in * fan_out betweenness approximation", Min: 0, Max: 0, Default: 0, Polarity: PolarityNegative},
		{Name: "graph.closeness", Description: "undirected BFS mean-distance reciprocal", Min: 0, Max: 1, Default: 0, Polarity: PolarityPositive},
		{Name: "graph.in_cycle", Description: "1 if the entity is in a non-trivial SCC or self-loop", Min: 0, Max: 1, Default: 0, Polarity: PolarityNegative},
	}
}

func (g *GraphExtractor) Extract(e *entity.Entity, _ Context) map[string]float64 {
	if g.graph == nil {
		return nil
	}
	n, ok := g.graph.Node(e.ID)
	if !ok {
		return nil
	}
	inCycle := 0.0
	if n.InCycle {
		inCycle = 1
	}
	return map[string]float64{
		"graph.fan_in":      float64(n.FanIn),
		"graph.fan_out":     float64(n.FanOut),
		"graph.choke_score": float64(n.ChokeScore),
		"graph.closeness":   n.Closeness,
		"graph.in_cycle":    inCycle,
	}
}
