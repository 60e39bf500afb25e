package structure

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"structscan/internal/config"
)

func TestGiniZeroForEqualValues(t *testing.T) {
	assert.InDelta(t, 0.0, Gini([]float64{10, 10, 10, 10}), 1e-9)
}

func TestGiniHighForConcentratedValues(t *testing.T) {
	even := Gini([]float64{25, 25, 25, 25})
	skewed := Gini([]float64{1, 1, 1, 97})
	assert.Greater(t, skewed, even)
}

func TestEntropyMaxForUniformDistribution(t *testing.T) {
	h := Entropy([]float64{10, 10, 10, 10})
	assert.InDelta(t, 2.0, h, 1e-9) // log2(4)
}

func TestEntropyZeroForSingleValue(t *testing.T) {
	assert.Equal(t, 0.0, Entropy([]float64{42}))
}

func TestComputeDirMetricsGroupsByDirectoryAndAppliesPressure(t *testing.T) {
	loc := map[string]int{
		"pkg/a.go": 500,
		"pkg/b.go": 500,
		"pkg/c.go": 10,
	}
	metrics := ComputeDirMetrics(loc, map[string]int{"pkg": 0}, 2, 1000)
	m := metrics["pkg"]
	assert.Equal(t, 3, m.FileCount)
	assert.Equal(t, 1010, m.TotalLOC)
	assert.Greater(t, m.FilePressure, 1.0) // 3 files over max of 2
	assert.Greater(t, m.GiniLOC, 0.0)
}

func TestDirOfHandlesNestedAndTopLevelPaths(t *testing.T) {
	assert.Equal(t, "a/b", dirOf("a/b/c.go"))
	assert.Equal(t, ".", dirOf("c.go"))
}

func TestPartitionBalancesLOCAcrossClusters(t *testing.T) {
	nodes := []string{"a", "b", "c", "d"}
	loc := map[string]int{"a": 100, "b": 100, "c": 10, "d": 10}
	clusters := Partition(nodes, loc, nil, 2, 2, 0.5)
	assert.Len(t, clusters, 2)
	total := 0
	for _, c := range clusters {
		total += c.LOC
		assert.Equal(t, 110, c.LOC) // a+c and b+d
	}
	assert.Equal(t, 220, total)
}

func TestPartitionMinimizesCrossClusterWeight(t *testing.T) {
	nodes := []string{"a", "b", "c", "d"}
	loc := map[string]int{"a": 10, "b": 10, "c": 10, "d": 10}
	edges := []Edge{
		{A: "a", B: "b", Weight: 10},
		{A: "c", B: "d", Weight: 10},
		{A: "b", B: "c", Weight: 1},
	}
	clusters := Partition(nodes, loc, edges, 2, 2, 0.9)
	membership := make(map[string]int)
	for ci, c := range clusters {
		for _, n := range c.Members {
			membership[n] = ci
		}
	}
	assert.Equal(t, membership["a"], membership["b"])
	assert.Equal(t, membership["c"], membership["d"])
}

func TestNameClusterPicksDominantKeyword(t *testing.T) {
	assert.Equal(t, "io", nameCluster([]string{"read_file.go", "write_file.go"}))
	assert.Equal(t, "api", nameCluster([]string{"route_handler.go", "endpoint.go"}))
	assert.Equal(t, "misc", nameCluster([]string{"zzz.go", "qqq.go"}))
}

func TestAnalyzeDirectorySkipsBelowThresholds(t *testing.T) {
	cfg := config.DefaultStructureConfig()
	metrics := DirMetrics{FileCount: 2, Imbalance: 0.9}
	plan, ok := AnalyzeDirectory(metrics, []string{"a.go", "b.go"}, map[string]int{"a.go": 10, "b.go": 10}, nil, cfg)
	assert.False(t, ok)
	assert.Nil(t, plan)
}

func TestAnalyzeDirectoryProducesPlanWhenImbalancedAndLargeEnough(t *testing.T) {
	cfg := config.DefaultStructureConfig()
	files := []string{"a.go", "b.go", "c.go", "d.go", "e.go", "f.go", "g.go", "h.go"}
	loc := map[string]int{}
	for i, f := range files {
		loc[f] = 50 + i*5
	}
	metrics := DirMetrics{FileCount: len(files), Imbalance: 0.5}
	plan, ok := AnalyzeDirectory(metrics, files, loc, nil, cfg)
	assert.True(t, ok)
	assert.NotNil(t, plan)
	assert.GreaterOrEqual(t, len(plan.Clusters), cfg.MinClusters)
}

func TestAnalyzeFileSplitReturnsClustersForEntityGraph(t *testing.T) {
	cfg := config.DefaultStructureConfig()
	entities := []string{"e1", "e2", "e3", "e4"}
	loc := map[string]int{"e1": 20, "e2": 20, "e3": 20, "e4": 20}
	edges := []Edge{{A: "e1", B: "e2", Weight: 5}, {A: "e3", B: "e4", Weight: 5}}
	plan := AnalyzeFileSplit(entities, loc, edges, cfg)
	assert.NotNil(t, plan)
	assert.NotEmpty(t, plan.Clusters)
}
