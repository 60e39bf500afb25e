package features

import (
	"fmt"

	"structscan/internal/entity"
)

// RecommendationType names one of the refactoring-candidate categories
// spec §4.G's Refactoring extractor produces.
type RecommendationType string

const (
	RecommendationLongMethod          RecommendationType = "long_method"
	RecommendationComplexConditional  RecommendationType = "complex_conditional"
	RecommendationDuplicateCode       RecommendationType = "duplicate_code"
	RecommendationLargeType           RecommendationType = "large_type"
	RecommendationNonIdiomaticNaming  RecommendationType = "non_idiomatic_naming"
	RecommendationMissingDocs         RecommendationType = "missing_docs"
)

// Recommendation is one refactoring-candidate suggestion object (spec §4.G:
// "(type, description, impact, effort, priority, location)"; priority
// itself is assigned by the scoring stage (§4.H), so this struct carries
// everything scoring needs to derive it, not a pre-assigned value).
type Recommendation struct {
	EntityID    entity.ID
	Type        RecommendationType
	Description string
	Impact      float64 // 0..1, rough severity of the underlying signal
	Effort      float64 // 0..1, rough remediation cost
	Location    string
}

// BuildRecommendations turns one entity's merged feature map into zero or
// more recommendation objects. Called after every extractor in the
// registry has run and RefactoringExtractor.Extract/ApplyCyclomaticFlag
// have populated the refactoring.* flags.
func BuildRecommendations(e *entity.Entity, merged map[string]float64) []Recommendation {
	var recs []Recommendation
	loc := fmt.Sprintf("%s:%d", e.File, e.LineRange.Start)

	if merged["refactoring.long_method"] == 1 {
		recs = append(recs, Recommendation{
			EntityID: e.ID, Type: RecommendationLongMethod, Location: loc,
			Description: fmt.Sprintf("%s spans %d lines; consider extracting helper functions", e.Name, int(merged["complexity.loc"])),
			Impact:      clamp01(merged["complexity.loc"] / 200),
			Effort:      clamp01(merged["complexity.loc"] / 300),
		})
	}
	if merged["refactoring.complex_conditional"] == 1 {
		recs = append(recs, Recommendation{
			EntityID: e.ID, Type: RecommendationComplexConditional, Location: loc,
			Description: fmt.Sprintf("%s has cyclomatic complexity %d; simplify branching", e.Name, int(merged["complexity.cyclomatic"])),
			// spec §8 scenario 3: cyclomatic 12 must clear a 0.8 severity
			// floor, so this is steeper than the long-method/LOC curve.
			Impact: clamp01(merged["complexity.cyclomatic"] / 15),
			Effort: clamp01(merged["complexity.cognitive"] / 30),
		})
	}
	if merged["refactoring.large_type"] == 1 {
		recs = append(recs, Recommendation{
			EntityID: e.ID, Type: RecommendationLargeType, Location: loc,
			Description: fmt.Sprintf("%s has too many members; consider splitting responsibilities", e.Name),
			Impact:      0.5, Effort: 0.6,
		})
	}
	if burden := merged["lsh.duplication_burden"]; burden > 0 {
		recs = append(recs, Recommendation{
			EntityID: e.ID, Type: RecommendationDuplicateCode, Location: loc,
			Description: fmt.Sprintf("%s shares structure with %d other entities", e.Name, int(merged["lsh.clone_group_size"])),
			Impact:      clamp01(burden / 5),
			Effort:      clamp01(merged["lsh.clone_group_size"] / 10),
		})
	}
	if merged["naming.non_idiomatic"] > 0 {
		recs = append(recs, Recommendation{
			EntityID: e.ID, Type: RecommendationNonIdiomaticNaming, Location: loc,
			Description: fmt.Sprintf("%s doesn't follow the surrounding naming convention", e.Name),
			Impact:      clamp01(merged["naming.non_idiomatic"]), Effort: 0.1,
		})
	}
	if merged["documentation.has_doc"] == 0 || merged["documentation.incomplete"] == 1 {
		recs = append(recs, Recommendation{
			EntityID: e.ID, Type: RecommendationMissingDocs, Location: loc,
			Description: fmt.Sprintf("%s is missing or has an incomplete doc comment", e.Name),
			Impact:      0.3, Effort: 0.2,
		})
	}
	return recs
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
