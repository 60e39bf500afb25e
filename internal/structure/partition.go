package structure

import "sort"

// Edge is an undirected cross-node dependency weight used by Partition.
type Edge struct {
	A, B   string
	Weight int
}

// Cluster is one partition group.
type Cluster struct {
	Name    string
	Members []string
	LOC     int
}

// Partition computes a balanced k-way partition of nodes (weighted by loc)
// over edges, searching minClusters..maxClusters and keeping the k whose
// partition has the least cross-cluster edge weight (spec §4.J).
// Refinement moves never take a cluster outside tolerance of the mean LOC,
// but the initial greedy assignment is not checked against tolerance and
// the choice of k ignores it, so a returned cluster's LOC can lie outside
// tolerance of total/k. Deterministic: ties are broken by node ID
// throughout.
func Partition(nodes []string, loc map[string]int, edges []Edge, minClusters, maxClusters int, tolerance float64) []Cluster {
	if len(nodes) == 0 {
		return nil
	}
	sortedNodes := append([]string(nil), nodes...)
	sort.Strings(sortedNodes)

	adjacency := make(map[string]map[string]int, len(nodes))
	for _, n := range nodes {
		adjacency[n] = make(map[string]int)
	}
	for _, e := range edges {
		adjacency[e.A][e.B] += e.Weight
		adjacency[e.B][e.A] += e.Weight
	}

	var best []Cluster
	bestCrossEdges := -1
	for k := minClusters; k <= maxClusters && k <= len(sortedNodes); k++ {
		clusters := greedyAssign(sortedNodes, loc, k)
		refine(clusters, adjacency, loc, tolerance)
		cross := crossClusterWeight(clusters, adjacency)
		if bestCrossEdges < 0 || cross < bestCrossEdges {
			bestCrossEdges = cross
			best = clusters
		}
	}
	for i := range best {
		best[i].Name = nameCluster(best[i].Members)
	}
	return best
}

// greedyAssign bin-packs nodes (sorted by descending LOC) into k clusters,
// each time adding the node to the currently lightest cluster.
func greedyAssign(nodes []string, loc map[string]int, k int) []Cluster {
	ordered := append([]string(nil), nodes...)
	sort.Slice(ordered, func(i, j int) bool {
		li, lj := loc[ordered[i]], loc[ordered[j]]
		if li != lj {
			return li > lj
		}
		return ordered[i] < ordered[j]
	})
	clusters := make([]Cluster, k)
	for _, n := range ordered {
		lightest := 0
		for i := 1; i < k; i++ {
			if clusters[i].LOC < clusters[lightest].LOC {
				lightest = i
			}
		}
		clusters[lightest].Members = append(clusters[lightest].Members, n)
		clusters[lightest].LOC += loc[n]
	}
	return clusters
}

// refine performs bounded local-search swaps between cluster pairs that
// reduce cross-cluster edge weight without pushing any cluster's LOC share
// outside tolerance of the mean.
func refine(clusters []Cluster, adjacency map[string]map[string]int, loc map[string]int, tolerance float64) {
	total := 0
	for _, c := range clusters {
		total += c.LOC
	}
	if len(clusters) == 0 || total == 0 {
		return
	}
	meanLOC := float64(total) / float64(len(clusters))
	withinTolerance := func(l int) bool {
		if meanLOC == 0 {
			return true
		}
		delta := (float64(l) - meanLOC) / meanLOC
		return delta >= -tolerance && delta <= tolerance
	}

	const maxPasses = 4
	for pass := 0; pass < maxPasses; pass++ {
		improved := false
		for i := range clusters {
			for j := range clusters {
				if i == j {
					continue
				}
				improved = improved || trySwap(clusters, i, j, adjacency, loc, withinTolerance)
			}
		}
		if !improved {
			break
		}
	}
}

// trySwap looks for a single node move from cluster j into cluster i that
// reduces total cross-cluster weight while keeping both clusters within
// tolerance, applying the best such move found.
func trySwap(clusters []Cluster, i, j int, adjacency map[string]map[string]int, loc map[string]int, withinTolerance func(int) bool) bool {
	bestGain, bestIdx := 0, -1
	for idx, n := range clusters[j].Members {
		gain := crossGainIfMoved(n, clusters[j].Members, clusters[i].Members, adjacency)
		if gain > bestGain {
			newJ := clusters[j].LOC - loc[n]
			newI := clusters[i].LOC + loc[n]
			if withinTolerance(newJ) && withinTolerance(newI) {
				bestGain, bestIdx = gain, idx
			}
		}
	}
	if bestIdx < 0 {
		return false
	}
	n := clusters[j].Members[bestIdx]
	clusters[j].Members = append(clusters[j].Members[:bestIdx], clusters[j].Members[bestIdx+1:]...)
	clusters[i].Members = append(clusters[i].Members, n)
	clusters[j].LOC -= loc[n]
	clusters[i].LOC += loc[n]
	return true
}

// crossGainIfMoved estimates how much cross-cluster weight moving n from
// fromMembers to toMembers would remove: edges to toMembers stop crossing,
// edges to fromMembers start crossing.
func crossGainIfMoved(n string, fromMembers, toMembers []string, adjacency map[string]map[string]int) int {
	neighbors := adjacency[n]
	removed, added := 0, 0
	for _, m := range toMembers {
		removed += neighbors[m]
	}
	for _, m := range fromMembers {
		if m == n {
			continue
		}
		added += neighbors[m]
	}
	return removed - added
}
