// Package depgraph builds the directed call graph spec §4.I describes and
// derives fan-in/out, closeness, cycle membership, and chokepoint ranking
// from it. Grounded on ritamzico-pgraph's
// internal/graph/probabilistic_adjacency_list_graph.go adjacency-map shape,
// adapted here to an arena-of-nodes-plus-index-slice layout (spec §9's
// design note: nodes live in a slice, edges reference nodes by index, no
// pointer cycles) and to a presence-only directed graph instead of a
// probabilistic weighted one.
package depgraph

import (
	"sort"
	"strings"

	"structscan/internal/entity"
	"structscan/internal/errs"
)

// Node is one call-graph vertex's computed metrics (spec §4.I /
// "DependencyGraph" in the glossary).
type Node struct {
	ID         entity.ID
	FanIn      int
	FanOut     int
	Closeness  float64
	ChokeScore int
	InCycle    bool
}

// Graph is the arena: nodes in index order, edges as adjacency-index slices.
type Graph struct {
	nodes    []Node
	index    map[entity.ID]int
	outEdges [][]int
	inEdges  [][]int
}

// NormalizeCallName strips a leading receiver token (self., this., cls.) and
// keeps only the last dotted segment, per spec §4.I.
func NormalizeCallName(raw string) string {
	name := raw
	for _, prefix := range []string{"self.", "this.", "cls."} {
		if strings.HasPrefix(name, prefix) {
			name = strings.TrimPrefix(name, prefix)
			break
		}
	}
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return strings.ToLower(strings.TrimSpace(name))
}

// Build resolves every function/method entity's recorded function_calls
// against the entity index by lowercased name, preferring a same-file match
// when more than one candidate resolves, and assembles the directed graph.
// Unresolvable call names are dropped silently — they name externals or
// builtins the index has no entity for, not a contract violation.
func Build(idx *entity.Index) *Graph {
	entities := idx.All()
	g := &Graph{index: make(map[entity.ID]int, len(entities))}
	for _, e := range entities {
		if e.Kind != entity.KindFunction && e.Kind != entity.KindMethod {
			continue
		}
		g.index[e.ID] = len(g.nodes)
		g.nodes = append(g.nodes, Node{ID: e.ID})
	}
	g.outEdges = make([][]int, len(g.nodes))
	g.inEdges = make([][]int, len(g.nodes))

	for _, e := range entities {
		fromIdx, ok := g.index[e.ID]
		if !ok {
			continue
		}
		linked := make(map[int]bool)
		for _, raw := range e.FunctionCalls() {
			name := NormalizeCallName(raw)
			if name == "" {
				continue
			}
			target := resolve(idx, g, name, e.File)
			if target < 0 || linked[target] {
				continue
			}
			linked[target] = true
			g.outEdges[fromIdx] = append(g.outEdges[fromIdx], target)
			g.inEdges[target] = append(g.inEdges[target], fromIdx)
		}
	}
	for i := range g.nodes {
		g.nodes[i].FanOut = len(g.outEdges[i])
		g.nodes[i].FanIn = len(g.inEdges[i])
		g.nodes[i].ChokeScore = g.nodes[i].FanIn * g.nodes[i].FanOut
	}
	computeCloseness(g)
	markCycles(g)
	return g
}

// resolve finds the call-graph index of the best candidate matching name,
// preferring an entity in callerFile when more than one matches.
func resolve(idx *entity.Index, g *Graph, name, callerFile string) int {
	candidates := idx.ByNameLower(name)
	if len(candidates) == 0 {
		return -1
	}
	best := -1
	for _, c := range candidates {
		gi, ok := g.index[c.ID]
		if !ok {
			continue
		}
		if c.File == callerFile {
			return gi
		}
		if best < 0 {
			best = gi
		}
	}
	return best
}

// Nodes returns every computed node, in build order (deterministic: build
// order follows entity.Index.All's insertion order).
func (g *Graph) Nodes() []Node { return g.nodes }

// Node looks up a single node's metrics by entity ID.
func (g *Graph) Node(id entity.ID) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.nodes[i], true
}

// Chokepoints returns the top-K nodes by fan_in*fan_out with score>0,
// sorted by score descending then entity ID for determinism (spec §4.I,
// §8's "Ordering" invariant).
func (g *Graph) Chokepoints(topK int) []Node {
	var candidates []Node
	for _, n := range g.nodes {
		if n.ChokeScore > 0 {
			candidates = append(candidates, n)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].ChokeScore != candidates[j].ChokeScore {
			return candidates[i].ChokeScore > candidates[j].ChokeScore
		}
		return candidates[i].ID < candidates[j].ID
	})
	if topK > 0 && len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return candidates
}

// ResolveIndex returns the arena index for an entity ID, or an
// errs.InternalError if the caller references an ID the graph never saw —
// a contract violation, since every ID a downstream stage hands back here
// must have come from this graph's own Nodes() in the first place.
func (g *Graph) ResolveIndex(id entity.ID) (int, error) {
	i, ok := g.index[id]
	if !ok {
		return 0, errs.InternalError("depgraph: unknown entity id " + string(id))
	}
	return i, nil
}
