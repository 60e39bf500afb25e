package features

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structscan/adapters/goadapter"
	"structscan/internal/astsvc"
	"structscan/internal/cohesion"
	"structscan/internal/config"
	"structscan/internal/coverage"
	"structscan/internal/entity"
)

const sample = `package sample

func Complex(a, b, c int) int {
	if a > 0 {
		for i := 0; i < b; i++ {
			if i%2 == 0 {
				c += i
			} else {
				c -= i
			}
		}
	}
	return c
}
`

func parseSample(t *testing.T) (*entity.Entity, *astsvc.Context) {
	t.Helper()
	a := goadapter.New()
	idx, err := a.ParseSource("sample.go", sample)
	require.NoError(t, err)
	require.Len(t, idx.Entities, 1)
	root, err := a.ParseTree(sample)
	require.NoError(t, err)
	e := idx.Entities[0]
	return e, &astsvc.Context{Language: "go", Source: sample, Root: root}
}

func TestComplexityExtractorCountsDecisionsAndNesting(t *testing.T) {
	e, astCtx := parseSample(t)
	ex := NewComplexityExtractor()
	out := ex.Extract(e, Context{AST: astCtx})
	assert.GreaterOrEqual(t, out["complexity.cyclomatic"], 2.0)
	assert.Greater(t, out["complexity.max_nesting_depth"], 0.0)
	assert.Equal(t, 3.0, out["complexity.param_count"])
}

func TestRefactoringExtractorFlagsLongMethod(t *testing.T) {
	cfg := config.DefaultFeaturesConfig()
	cfg.LongMethodLOC = 5
	ex := NewRefactoringExtractor(cfg)
	e := &entity.Entity{Kind: entity.KindFunction, LineRange: entity.LineRange{Start: 1, End: 20}}
	out := ex.Extract(e, Context{})
	assert.Equal(t, 1.0, out["refactoring.long_method"])
}

func TestApplyCyclomaticFlagSetsComplexConditional(t *testing.T) {
	cfg := config.DefaultFeaturesConfig()
	cfg.ComplexConditionalCyclo = 3
	merged := map[string]float64{"complexity.cyclomatic": 5}
	ApplyCyclomaticFlag(cfg, merged)
	assert.Equal(t, 1.0, merged["refactoring.complex_conditional"])
}

func TestNamingExtractorFlagsShortAndMixedCaseNames(t *testing.T) {
	ex := NewNamingExtractor(config.DefaultFeaturesConfig())
	short := &entity.Entity{Kind: entity.KindFunction, Name: "x"}
	out := ex.Extract(short, Context{})
	assert.Greater(t, out["naming.non_idiomatic"], 0.0)

	mixed := &entity.Entity{Kind: entity.KindFunction, Name: "do_Something"}
	out2 := ex.Extract(mixed, Context{})
	assert.Greater(t, out2["naming.non_idiomatic"], 0.0)

	clean := &entity.Entity{Kind: entity.KindFunction, Name: "doSomething"}
	assert.Nil(t, ex.Extract(clean, Context{}))
}

func TestDocumentationExtractorDetectsPrecedingComment(t *testing.T) {
	src := "// Greet says hello to someone by name, in a friendly tone.\nfunc Greet(name string) {}\n"
	ex := NewDocumentationExtractor(10)
	e := &entity.Entity{Kind: entity.KindFunction, Source: src, LineRange: entity.LineRange{Start: 2, End: 2}}
	out := ex.Extract(e, Context{})
	assert.Equal(t, 1.0, out["documentation.has_doc"])
	assert.Zero(t, out["documentation.incomplete"])
}

func TestDocumentationExtractorFlagsMissingDoc(t *testing.T) {
	src := "func Greet(name string) {}\n"
	ex := NewDocumentationExtractor(10)
	e := &entity.Entity{Kind: entity.KindFunction, Source: src, LineRange: entity.LineRange{Start: 1, End: 1}}
	out := ex.Extract(e, Context{})
	assert.Equal(t, 0.0, out["documentation.has_doc"])
}

func TestBuildRecommendationsProducesExpectedTypes(t *testing.T) {
	e := &entity.Entity{ID: "a", Name: "Foo", File: "a.go", Kind: entity.KindFunction, LineRange: entity.LineRange{Start: 1, End: 5}}
	merged := map[string]float64{
		"refactoring.long_method":         1,
		"complexity.loc":                  80,
		"refactoring.complex_conditional": 1,
		"complexity.cyclomatic":           12,
		"complexity.cognitive":            20,
		"lsh.duplication_burden":          2,
		"lsh.clone_group_size":            3,
		"documentation.has_doc":           0,
	}
	recs := BuildRecommendations(e, merged)
	types := map[RecommendationType]bool{}
	byType := map[RecommendationType]Recommendation{}
	for _, r := range recs {
		types[r.Type] = true
		byType[r.Type] = r
	}
	assert.True(t, types[RecommendationLongMethod])
	assert.True(t, types[RecommendationComplexConditional])
	assert.True(t, types[RecommendationDuplicateCode])
	assert.True(t, types[RecommendationMissingDocs])

	// spec §8 scenario 3 (literal): cyclomatic 12 must carry severity >= 0.8.
	assert.GreaterOrEqual(t, byType[RecommendationComplexConditional].Impact, 0.8)
}

func TestRegistryRunAllMergesExtractorOutputs(t *testing.T) {
	reg := NewRegistry(NewComplexityExtractor(), NewNamingExtractor(config.DefaultFeaturesConfig()))
	e := &entity.Entity{Kind: entity.KindFunction, Name: "x", LineRange: entity.LineRange{Start: 1, End: 3}}
	out := reg.RunAll(e, Context{})
	assert.Contains(t, out, "complexity.loc")
	assert.Contains(t, out, "naming.non_idiomatic")
	assert.NotEmpty(t, reg.Schemas())
}

func TestCoverageExtractorComputesLineRateWithinEntityRange(t *testing.T) {
	report := coverage.NewReport()
	report.Merge(&coverage.Report{Files: map[string]*coverage.FileCoverage{
		"a.go": {Path: "a.go", Lines: map[int]int{1: 1, 2: 0, 3: 1, 10: 0}},
	}})
	ex := NewCoverageExtractor(report)
	e := &entity.Entity{File: "a.go", LineRange: entity.LineRange{Start: 1, End: 3}}
	out := ex.Extract(e, Context{})
	assert.InDelta(t, 2.0/3.0, out["coverage.line_rate"], 1e-9)
	assert.Equal(t, 1.0, out["coverage.uncovered_lines"])
}

func TestCoverageExtractorSkipsFilesWithNoReport(t *testing.T) {
	ex := NewCoverageExtractor(nil)
	e := &entity.Entity{File: "a.go", LineRange: entity.LineRange{Start: 1, End: 3}}
	assert.Nil(t, ex.Extract(e, Context{}))
}

func TestCohesionExtractorSurfacesOutlierAndDocFlags(t *testing.T) {
	results := map[entity.ID]*cohesion.Result{
		"e1": {EntityID: "e1", SimilarityToCentroid: 0.1, IsOutlier: true, DocAlignmentScore: 0.1, DocMisaligned: true},
	}
	ex := NewCohesionExtractor(results)
	out := ex.Extract(&entity.Entity{ID: "e1"}, Context{})
	assert.Equal(t, 0.1, out["cohesion.similarity_to_centroid"])
	assert.Equal(t, 1.0, out["cohesion.is_outlier"])
	assert.Equal(t, 1.0, out["cohesion.doc_misaligned"])
}
