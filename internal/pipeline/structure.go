package pipeline

import (
	"path/filepath"
	"strings"

	"structscan/internal/depgraph"
	"structscan/internal/entity"
	"structscan/internal/structure"
)

// stageStructure computes per-directory imbalance metrics and, for every
// directory that crosses the configured gain threshold, a balanced split
// plan; it also runs the analogous file-split analysis for any single file
// whose own entities are unbalanced enough to be worth splitting (spec
// §4.J, §4.K stage 6).
func stageStructure(opts Options, b *Bundle) error {
	if b.DepGraph == nil {
		b.DepGraph = depgraph.Build(b.Index)
	}
	files, locByFile, edges := structure.BuildFileEdges(b.Index, b.DepGraph)
	if len(files) == 0 {
		return nil
	}

	subdirsByDir := countSubdirs(files)
	cfg := opts.Config.Structure
	metrics := structure.ComputeDirMetrics(locByFile, subdirsByDir, cfg.MaxFilesPerDir, cfg.MaxLOCPerDir)

	edgesByDir := make(map[string][]structure.Edge)
	filesByDir := make(map[string][]string)
	for _, f := range files {
		dir := filepath.Dir(f)
		filesByDir[dir] = append(filesByDir[dir], f)
	}
	for _, e := range edges {
		da, db := filepath.Dir(e.A), filepath.Dir(e.B)
		if da == db {
			edgesByDir[da] = append(edgesByDir[da], e)
		}
	}

	for dir, m := range metrics {
		plan, ok := structure.AnalyzeDirectory(m, filesByDir[dir], locByFile, edgesByDir[dir], cfg)
		if ok {
			b.SplitPlans["dir:"+dir] = plan
		}
	}

	for _, file := range files {
		entityIDs, locByEntity, fileEdges := fileSplitInputs(b.Index, file)
		if len(entityIDs) < cfg.MinFilesForSplit {
			continue
		}
		plan := structure.AnalyzeFileSplit(entityIDs, locByEntity, fileEdges, cfg)
		if plan != nil && len(plan.Clusters) > 1 {
			b.SplitPlans["file:"+file] = plan
		}
	}
	return nil
}

// countSubdirs counts, for every directory appearing among files, how
// many distinct immediate subdirectories (relative to it) also appear.
func countSubdirs(files []string) map[string]int {
	dirs := make(map[string]bool)
	for _, f := range files {
		dirs[filepath.Dir(f)] = true
	}
	counts := make(map[string]int)
	for d := range dirs {
		parent := filepath.Dir(d)
		if parent != d {
			counts[parent]++
		}
	}
	return counts
}

// fileSplitInputs builds the entity-granularity inputs AnalyzeFileSplit
// needs for one file: entity IDs, their LOC, and same-file call edges.
func fileSplitInputs(idx *entity.Index, file string) (entityIDs []string, locByEntity map[string]int, edges []structure.Edge) {
	ids := idx.ForFile(file)
	locByEntity = make(map[string]int, len(ids))
	byID := make(map[entity.ID]*entity.Entity, len(ids))
	for _, id := range ids {
		e := idx.Get(id)
		if e == nil {
			continue
		}
		entityIDs = append(entityIDs, string(id))
		locByEntity[string(id)] = e.LineRange.End - e.LineRange.Start + 1
		byID[id] = e
	}
	weight := make(map[[2]string]int)
	for _, e := range byID {
		for _, callee := range e.FunctionCalls() {
			for _, cand := range idx.ForFile(file) {
				target := idx.Get(cand)
				if target == nil || target.ID == e.ID {
					continue
				}
				if !strings.EqualFold(target.Name, callee) {
					continue
				}
				key := entityPairKey(string(e.ID), string(target.ID))
				weight[key]++
			}
		}
	}
	for pair, w := range weight {
		edges = append(edges, structure.Edge{A: pair[0], B: pair[1], Weight: w})
	}
	return entityIDs, locByEntity, edges
}

func entityPairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}
