// Package pipeline wires every analysis package into spec §4.K's
// fixed-stage orchestrator: discovery, entity extraction, complexity,
// clone detection, impact analysis, structure analysis, coverage,
// cohesion, documentation, feature aggregation/scoring, and result
// assembly. Each stage reads and extends one shared Bundle rather than
// passing ad-hoc arguments down a call chain, mirroring the teacher's
// shard manager's "stage pipeline over a shared mutable context" shape
// (theRebelliousNerd-codenerd has no single file that is this pipeline's
// direct analog; the worker-pool-per-stage idiom is the part reused).
package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"structscan/internal/astsvc"
	"structscan/internal/cohesion"
	"structscan/internal/config"
	"structscan/internal/coverage"
	"structscan/internal/depgraph"
	"structscan/internal/entity"
	"structscan/internal/errs"
	"structscan/internal/features"
	"structscan/internal/minhash"
	"structscan/internal/obs"
	"structscan/internal/result"
	"structscan/internal/scoring"
	"structscan/internal/structure"
)

// stageNames is the fixed eleven-stage sequence spec §4.K names.
var stageNames = []string{
	"discover", "extract", "complexity", "clones", "impact",
	"structure", "coverage", "cohesion", "documentation", "score", "assemble",
}

// ProgressFunc reports fractional completion (0..1) as each stage finishes.
type ProgressFunc func(stage string, fractionComplete float64)

// Options configures one pipeline run.
type Options struct {
	RootDir           string
	Adapters          []astsvc.LanguageAdapter
	Config            config.Config
	CoveragePaths     []string
	EmbeddingProvider cohesion.Provider
	EmbeddingCache    *cohesion.Cache
	DocSummary        cohesion.DocSummaryFunc
	Progress          ProgressFunc
	Concurrency       int
	ChokepointTopK    int
}

// Bundle is the run's accumulated state, extended by each stage in turn.
// Nothing here is removed once set — a later stage can always see an
// earlier one's output (spec §4.K "bundle-based stage handoff").
type Bundle struct {
	RunID string

	Files       []string
	Sources     map[string]string
	ASTContexts map[string]*astsvc.Context

	Index *entity.Index

	MinHashIndex *minhash.Index
	ClonePairs   []ClonePair

	DepGraph    *depgraph.Graph
	Chokepoints []depgraph.Node

	SplitPlans map[string]*structure.SplitPlan

	Coverage *coverage.Report

	CohesionResults map[entity.ID]*cohesion.Result

	Merged          map[entity.ID]map[string]float64
	Recommendations map[entity.ID][]features.Recommendation
	Scored          []scoring.Scored

	Dictionary *result.Dictionary
	Candidates []*result.Candidate
}

// ClonePair is one verified or LSH-only candidate pair surviving denoise
// ranking, kept for reporting alongside the per-entity lsh.* features
// (spec §4.F's payoff-ranked output).
type ClonePair struct {
	EntityA, EntityB entity.ID
	Similarity       float64
	Payoff           float64
}

func (o *Options) concurrency() int {
	if o.Concurrency > 0 {
		return o.Concurrency
	}
	return 4
}

func (o *Options) chokepointTopK() int {
	if o.ChokepointTopK > 0 {
		return o.ChokepointTopK
	}
	return 20
}

func (o *Options) report(stage string, frac float64) {
	if o.Progress != nil {
		o.Progress(stage, frac)
	}
}

// Run executes the full eleven-stage pipeline against opts, returning the
// accumulated Bundle. Cancellation is checked at every stage boundary, and
// the extract and cohesion stages also pass ctx into their own work, so a
// canceled context can end one of those two stages early. A Bundle returned
// alongside a context error holds every stage that completed, plus whatever
// an interrupted stage had already added.
func Run(ctx context.Context, opts Options) (*Bundle, error) {
	b := &Bundle{
		RunID:           uuid.NewString(),
		Sources:         make(map[string]string),
		ASTContexts:     make(map[string]*astsvc.Context),
		Index:           entity.NewIndex(),
		SplitPlans:      make(map[string]*structure.SplitPlan),
		CohesionResults: make(map[entity.ID]*cohesion.Result),
		Merged:          make(map[entity.ID]map[string]float64),
		Recommendations: make(map[entity.ID][]features.Recommendation),
		Dictionary:      result.NewDictionary(),
	}
	log := obs.For(obs.CategoryPipeline).With(zap.String("run_id", b.RunID))
	log.Info("pipeline run starting", zap.String("root", opts.RootDir))

	registry := astsvc.NewRegistry(opts.Adapters...)
	astService := astsvc.NewService(registry)

	total := float64(len(stageNames))
	for i, stage := range stageNames {
		if err := ctx.Err(); err != nil {
			return b, err
		}
		var err error
		switch stage {
		case "discover":
			err = stageDiscover(opts, registry, b)
		case "extract":
			err = stageExtract(ctx, opts, registry, astService, b)
		case "complexity":
			err = stageComplexity(b)
		case "clones":
			if opts.Config.Analysis.EnableLSH {
				err = stageClones(opts, b)
			}
		case "impact":
			if opts.Config.Analysis.EnableGraph {
				err = stageImpact(opts, b)
			}
		case "structure":
			if opts.Config.Analysis.EnableStructure {
				err = stageStructure(opts, b)
			}
		case "coverage":
			if opts.Config.Analysis.EnableCoverage {
				err = stageCoverage(opts, b)
			}
		case "cohesion":
			if opts.Config.Analysis.EnableCohesion && opts.EmbeddingProvider != nil {
				err = stageCohesion(ctx, opts, b)
			}
		case "documentation":
			err = stageDocumentation(opts, b)
		case "score":
			if opts.Config.Analysis.EnableScoring {
				err = stageScore(opts, b)
			}
		case "assemble":
			err = stageAssemble(opts, b)
		}
		if err != nil {
			log.Error("stage failed", zap.String("stage", stage), zap.Error(err))
			return b, err
		}
		opts.report(stage, float64(i+1)/total)
		log.Debug("stage complete", zap.String("stage", stage))
	}
	log.Info("pipeline run complete", zap.Int("entities", b.Index.Len()), zap.Int("candidates", len(b.Candidates)))
	return b, nil
}

// stageDiscover walks RootDir collecting every file whose extension a
// registered adapter claims (spec §4.K stage 1).
func stageDiscover(opts Options, registry *astsvc.Registry, b *Bundle) error {
	var files []string
	err := filepath.WalkDir(opts.RootDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if registry.For(path) == nil {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return errs.IoError(opts.RootDir, "walking source tree", err)
	}
	sort.Strings(files)
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			return errs.IoError(f, "reading source file", err)
		}
		b.Sources[f] = string(data)
	}
	b.Files = files
	return nil
}

// stageExtract parses every discovered file into entities via its
// registered adapter, fanning out across opts.concurrency() workers, and
// caches each file's AST context for the complexity stage (spec §4.K
// stage 2). entity.Index.Add is internally synchronized, so concurrent
// adds from different files are safe.
func stageExtract(ctx context.Context, opts Options, registry *astsvc.Registry, astService *astsvc.Service, b *Bundle) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.concurrency())

	var mu sync.Mutex
	for _, f := range b.Files {
		f := f
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			source := b.Sources[f]
			adapter := registry.For(f)
			if adapter == nil {
				return nil
			}
			idx, err := adapter.ParseSource(f, source)
			if err != nil {
				obs.For(obs.CategoryPipeline).Warn("skipping file with parse error",
					zap.String("path", f), zap.Error(err))
				return nil
			}
			tree, _ := astService.GetAST(f, f, source)

			mu.Lock()
			defer mu.Unlock()
			if tree != nil {
				b.ASTContexts[f] = astsvc.CreateContext(tree)
			}
			for _, e := range idx.Entities {
				if err := b.Index.Add(e); err != nil {
					obs.For(obs.CategoryPipeline).Warn("dropping entity with invalid range",
						zap.String("path", f), zap.Error(err))
				}
			}
			return nil
		})
	}
	return g.Wait()
}

// stageComplexity runs the complexity extractor over every function/method
// entity (spec §4.K stage 3).
func stageComplexity(b *Bundle) error {
	ex := features.NewComplexityExtractor()
	for _, e := range b.Index.All() {
		feats := ex.Extract(e, features.Context{AST: b.ASTContexts[e.File]})
		mergeFeatures(b, e.ID, feats)
	}
	return nil
}

// stageImpact builds the call graph and its chokepoint ranking, merging
// graph.* features per entity (spec §4.I, §4.K stage 5).
func stageImpact(opts Options, b *Bundle) error {
	if b.DepGraph == nil {
		b.DepGraph = depgraph.Build(b.Index)
	}
	b.Chokepoints = b.DepGraph.Chokepoints(opts.chokepointTopK())
	ex := features.NewGraphExtractor(b.DepGraph)
	for _, e := range b.Index.All() {
		mergeFeatures(b, e.ID, ex.Extract(e, features.Context{}))
	}
	return nil
}

// stageCoverage parses every configured coverage report, merges them, and
// surfaces coverage.* features (spec §4.K stage 7).
func stageCoverage(opts Options, b *Bundle) error {
	if len(opts.CoveragePaths) == 0 {
		return nil
	}
	merged := coverage.NewReport()
	for _, path := range opts.CoveragePaths {
		data, err := os.ReadFile(path)
		if err != nil {
			return errs.IoError(path, "reading coverage report", err)
		}
		rep, err := coverage.Parse(path, data)
		if err != nil {
			return err
		}
		merged.Merge(rep)
	}
	b.Coverage = merged
	ex := features.NewCoverageExtractor(b.Coverage)
	for _, e := range b.Index.All() {
		mergeFeatures(b, e.ID, ex.Extract(e, features.Context{}))
	}
	return nil
}

// stageCohesion runs embedding-based cohesion analysis (spec §4.L, §4.K
// stage 8), skipped entirely when no embedding provider is configured —
// cohesion is the one stage with an external network dependency, so the
// pipeline treats its absence as "disabled", not fatal.
func stageCohesion(ctx context.Context, opts Options, b *Bundle) error {
	docSummary := opts.DocSummary
	if docSummary == nil {
		docSummary = func(e *entity.Entity) string { return "" }
	}
	results, err := cohesion.Analyze(ctx, b.Index.All(), opts.EmbeddingProvider, opts.EmbeddingCache, docSummary, opts.Config.Cohesion)
	if err != nil {
		return err
	}
	b.CohesionResults = results
	ex := features.NewCohesionExtractor(results)
	for _, e := range b.Index.All() {
		mergeFeatures(b, e.ID, ex.Extract(e, features.Context{}))
	}
	return nil
}

// minDocCommentLength is the shortest preceding comment DocumentationExtractor
// accepts as a real doc rather than flagging it incomplete (spec §4.G
// "Documentation"; not itself config-exposed, matching the teacher's own
// small fixed thresholds for secondary signals).
const minDocCommentLength = 20

// stageDocumentation runs the documentation extractor (spec §4.K stage 9).
func stageDocumentation(opts Options, b *Bundle) error {
	ex := features.NewDocumentationExtractor(minDocCommentLength)
	for _, e := range b.Index.All() {
		mergeFeatures(b, e.ID, ex.Extract(e, features.Context{AST: b.ASTContexts[e.File]}))
	}
	return nil
}

// stageScore runs the remaining per-entity extractors that depend on
// context not ready until now (naming, refactoring, lsh), normalizes every
// feature across the corpus, sums the normalized values into weighted
// category scores, and ranks entities by the result (spec §4.H, §4.K stage
// 10). The size-health curve (scoring.Health) is not applied here.
func stageScore(opts Options, b *Bundle) error {
	namingEx := features.NewNamingExtractor(opts.Config.Features)
	refactorEx := features.NewRefactoringExtractor(opts.Config.Features)
	var lshEx *features.LSHExtractor
	if b.MinHashIndex != nil {
		lshEx = features.NewLSHExtractor(b.MinHashIndex, opts.Config.LSH.MaxCandidates)
	}

	entities := b.Index.All()
	for _, e := range entities {
		ctx := features.Context{AST: b.ASTContexts[e.File], FileEntities: entityPtrsForFile(b, e.File)}
		mergeFeatures(b, e.ID, namingEx.Extract(e, ctx))
		mergeFeatures(b, e.ID, refactorEx.Extract(e, ctx))
		if lshEx != nil {
			mergeFeatures(b, e.ID, lshEx.Extract(e, ctx))
		}
		features.ApplyCyclomaticFlag(opts.Config.Features, b.Merged[e.ID])
	}

	for _, e := range entities {
		b.Recommendations[e.ID] = features.BuildRecommendations(e, b.Merged[e.ID])
	}

	statsByFeature := fitStats(entities, b.Merged)
	scored := make([]scoring.Scored, 0, len(entities))
	for _, e := range entities {
		normalized := map[string]float64{}
		for name, v := range b.Merged[e.ID] {
			s, ok := statsByFeature[name]
			if !ok {
				continue
			}
			normalized[categoryOf(name)] += scoring.Normalize(v, s, opts.Config.Scoring)
		}
		overall := scoring.Overall(normalized, opts.Config.Scoring.CategoryWeights)
		_, dominantScore := scoring.DominantCategory(normalized, opts.Config.Scoring.CategoryWeights)
		scored = append(scored, scoring.Scored{
			EntityID:      e.ID,
			Overall:       overall,
			DominantScore: dominantScore,
			Confidence:    confidenceFor(e, b),
		})
	}
	b.Scored = scoring.Rank(scored)
	return nil
}

// stageAssemble builds the unified Candidate set and code dictionary from
// every prior stage's output (spec §4.M, §4.K stage 11).
func stageAssemble(opts Options, b *Bundle) error {
	scoredByID := make(map[entity.ID]scoring.Scored, len(b.Scored))
	for _, s := range b.Scored {
		scoredByID[s.EntityID] = s
	}
	candidates := make([]*result.Candidate, 0, len(b.Scored))
	for _, e := range b.Index.All() {
		s, ok := scoredByID[e.ID]
		if !ok {
			continue
		}
		c := result.BuildCandidate(e, s, b.Recommendations[e.ID], b.Dictionary)
		candidates = append(candidates, c)
	}
	b.Candidates = result.Rank(candidates)
	return nil
}

// mergeFeatures folds a freshly computed feature map into the entity's
// running merged map, creating it on first use.
func mergeFeatures(b *Bundle, id entity.ID, feats map[string]float64) {
	if len(feats) == 0 {
		return
	}
	dst, ok := b.Merged[id]
	if !ok {
		dst = make(map[string]float64)
		b.Merged[id] = dst
	}
	for k, v := range feats {
		dst[k] = v
	}
}

func entityPtrsForFile(b *Bundle, file string) []*entity.Entity {
	ids := b.Index.ForFile(file)
	out := make([]*entity.Entity, 0, len(ids))
	for _, id := range ids {
		if e := b.Index.Get(id); e != nil {
			out = append(out, e)
		}
	}
	return out
}

// fitStats computes scoring.Stats per feature name across the whole corpus
// (spec §4.H "fit(vectors)" — one fit per declared feature, not per
// category).
func fitStats(entities []*entity.Entity, merged map[entity.ID]map[string]float64) map[string]scoring.Stats {
	byFeature := make(map[string][]float64)
	for _, e := range entities {
		for name, v := range merged[e.ID] {
			byFeature[name] = append(byFeature[name], v)
		}
	}
	out := make(map[string]scoring.Stats, len(byFeature))
	for name, values := range byFeature {
		out[name] = scoring.Fit(values)
	}
	return out
}

// categoryOf maps a feature name's dot-prefix to the scoring category it
// rolls up into; naming.* features roll into "refactoring". A category with
// no entry in ScoringConfig.CategoryWeights ("lsh" under the defaults)
// gets weight 0 in Overall.
func categoryOf(feature string) string {
	if strings.HasPrefix(feature, "naming.") {
		return "refactoring"
	}
	if i := strings.IndexByte(feature, '.'); i >= 0 {
		return feature[:i]
	}
	return feature
}

// confidenceFor is a simple completeness-based confidence: the number of
// features merged for the entity divided by 12, capped at 1, so entities
// with more computed features are scored with more evidence behind them.
func confidenceFor(e *entity.Entity, b *Bundle) float64 {
	n := len(b.Merged[e.ID])
	if n == 0 {
		return 0
	}
	c := float64(n) / 12.0
	if c > 1 {
		c = 1
	}
	return c
}
