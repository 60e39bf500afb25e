package structure

import "strings"

// crossClusterWeight sums edge weight between distinct clusters.
func crossClusterWeight(clusters []Cluster, adjacency map[string]map[string]int) int {
	membership := make(map[string]int, len(adjacency))
	for ci, c := range clusters {
		for _, n := range c.Members {
			membership[n] = ci
		}
	}
	total := 0
	seen := make(map[string]bool)
	for n, neighbors := range adjacency {
		for m, w := range neighbors {
			key := n + "\x00" + m
			revKey := m + "\x00" + n
			if seen[revKey] {
				continue
			}
			seen[key] = true
			if membership[n] != membership[m] {
				total += w
			}
		}
	}
	return total
}

// namePatterns maps a dominant keyword found in a cluster's member names
// to a human-readable cluster label (spec §4.J: "Name clusters by dominant
// entity-name patterns (io / api / util / core / domain)").
var namePatterns = []struct {
	keyword string
	label   string
}{
	{"io", "io"}, {"read", "io"}, {"write", "io"}, {"file", "io"},
	{"api", "api"}, {"handler", "api"}, {"route", "api"}, {"endpoint", "api"},
	{"util", "util"}, {"helper", "util"}, {"common", "util"},
	{"core", "core"}, {"engine", "core"}, {"kernel", "core"},
	{"domain", "domain"}, {"model", "domain"}, {"entity", "domain"},
}

// nameCluster picks the dominant keyword across member names (paths or
// qualified identifiers) and returns its label, falling back to "misc"
// when no keyword matches; a tie goes to the label listed first in
// namePatterns.
func nameCluster(members []string) string {
	counts := make(map[string]int)
	for _, m := range members {
		lower := strings.ToLower(m)
		for _, p := range namePatterns {
			if strings.Contains(lower, p.keyword) {
				counts[p.label]++
			}
		}
	}
	best, bestCount := "misc", 0
	// iterate namePatterns order (not map order) for deterministic ties
	seenLabels := make(map[string]bool)
	for _, p := range namePatterns {
		if seenLabels[p.label] {
			continue
		}
		seenLabels[p.label] = true
		if counts[p.label] > bestCount {
			best, bestCount = p.label, counts[p.label]
		}
	}
	return best
}
