package depgraph

// markCycles runs Kosaraju's algorithm on the directed graph and sets
// InCycle on every node belonging to an SCC of size>1, or a size-1 SCC
// whose sole node has a self-loop (spec §4.I).
func markCycles(g *Graph) {
	n := len(g.nodes)
	if n == 0 {
		return
	}
	visited := make([]bool, n)
	var order []int
	var visit func(int)
	visit = func(u int) {
		visited[u] = true
		for _, v := range g.outEdges[u] {
			if !visited[v] {
				visit(v)
			}
		}
		order = append(order, u)
	}
	for i := 0; i < n; i++ {
		if !visited[i] {
			visit(i)
		}
	}

	assigned := make([]int, n)
	for i := range assigned {
		assigned[i] = -1
	}
	component := 0
	var assign func(u, comp int)
	assign = func(u, comp int) {
		assigned[u] = comp
		for _, v := range g.inEdges[u] {
			if assigned[v] < 0 {
				assign(v, comp)
			}
		}
	}
	for i := len(order) - 1; i >= 0; i-- {
		u := order[i]
		if assigned[u] < 0 {
			assign(u, component)
			component++
		}
	}

	sizes := make(map[int]int, component)
	for _, c := range assigned {
		sizes[c]++
	}
	for i := 0; i < n; i++ {
		comp := assigned[i]
		if sizes[comp] > 1 {
			g.nodes[i].InCycle = true
			continue
		}
		if hasSelfLoop(g, i) {
			g.nodes[i].InCycle = true
		}
	}
}

func hasSelfLoop(g *Graph, i int) bool {
	for _, v := range g.outEdges[i] {
		if v == i {
			return true
		}
	}
	return false
}
