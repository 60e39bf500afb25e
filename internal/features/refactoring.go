package features

import (
	"structscan/internal/config"
	"structscan/internal/entity"
)

// RefactoringExtractor flags long-method, complex-conditional, and
// large-type entities via thresholded heuristics over complexity features
// (spec §4.G "Refactoring"). Duplicate-code flagging is a separate signal
// — see LSHExtractor's duplication-burden feature — combined downstream
// when recommendation objects are assembled.
type RefactoringExtractor struct {
	cfg config.FeaturesConfig
}

// NewRefactoringExtractor creates an extractor bound to the configured
// thresholds.
func NewRefactoringExtractor(cfg config.FeaturesConfig) *RefactoringExtractor {
	return &RefactoringExtractor{cfg: cfg}
}

func (r *RefactoringExtractor) Name() string { return "refactoring" }

func (r *RefactoringExtractor) Schema() []Schema {
	return []Schema{
		{Name: "refactoring.long_method", Description: "1 if LOC exceeds the long-method threshold", Min: 0, Max: 1, Default: 0, Polarity: PolarityNegative},
		{Name: "refactoring.complex_conditional", Description: "1 if cyclomatic complexity exceeds the threshold", Min: 0, Max: 1, Default: 0, Polarity: PolarityNegative},
		{Name: "refactoring.large_type", Description: "1 if a struct/class/interface exceeds the member-count threshold", Min: 0, Max: 1, Default: 0, Polarity: PolarityNegative},
	}
}

func (r *RefactoringExtractor) Extract(e *entity.Entity, ctx Context) map[string]float64 {
	out := map[string]float64{}
	loc := e.LineRange.End - e.LineRange.Start + 1
	if loc >= r.cfg.LongMethodLOC {
		out["refactoring.long_method"] = 1
	}
	if e.Kind == entity.KindStruct || e.Kind == entity.KindClass || e.Kind == entity.KindInterface {
		if memberCount(e, ctx) >= r.cfg.LargeTypeMemberCount {
			out["refactoring.large_type"] = 1
		}
	}
	return out
}

// memberCount counts how many of the file's entities declare e as parent
// (struct fields aren't separately extracted as entities, so this counts
// methods bound to the type — a proxy large-type signal, not a field count).
func memberCount(e *entity.Entity, ctx Context) int {
	count := 0
	for _, other := range ctx.FileEntities {
		if other.ParentID == e.ID {
			count++
		}
	}
	return count
}

// ApplyCyclomaticFlag sets refactoring.complex_conditional once the
// complexity extractor's cyclomatic value is known. Kept separate from
// Extract because RefactoringExtractor runs independently of
// ComplexityExtractor in registry order; the registry's RunAll merge makes
// the combined feature map available to this second pass.
func ApplyCyclomaticFlag(cfg config.FeaturesConfig, merged map[string]float64) {
	if merged["complexity.cyclomatic"] >= float64(cfg.ComplexConditionalCyclo) {
		merged["refactoring.complex_conditional"] = 1
	}
}
