package features

import (
	"structscan/internal/cohesion"
	"structscan/internal/entity"
)

// CohesionExtractor surfaces the embedding-derived cohesion signals (spec
// §4.L) as ordinary features, so scoring's "cohesion" category weight has
// something to consume without cohesion.Analyze's richer Result type
// leaking into the scoring package.
type CohesionExtractor struct {
	results map[entity.ID]*cohesion.Result
}

// NewCohesionExtractor wraps the per-entity results cohesion.Analyze
// already computed. A nil/empty map is valid — Extract then returns nil
// for every entity (cohesion analysis is config-gated and may be skipped).
func NewCohesionExtractor(results map[entity.ID]*cohesion.Result) *CohesionExtractor {
	return &CohesionExtractor{results: results}
}

func (c *CohesionExtractor) Name() string { return "cohesion" }

func (c *CohesionExtractor) Schema() []Schema {
	return []Schema{
		{Name: "cohesion.similarity_to_centroid", Description: "cosine similarity to the entity's directory centroid", Min: -1, Max: 1, Default: 1, Polarity: PolarityPositive},
		{Name: "cohesion.is_outlier", Description: "1 if flagged as a directory-cohesion outlier", Min: 0, Max: 1, Default: 0, Polarity: PolarityNegative},
		{Name: "cohesion.doc_alignment", Description: "cosine similarity between code and doc embeddings", Min: -1, Max: 1, Default: 1, Polarity: PolarityPositive},
		{Name: "cohesion.doc_misaligned", Description: "1 if doc alignment fell below the configured floor", Min: 0, Max: 1, Default: 0, Polarity: PolarityNegative},
	}
}

func (c *CohesionExtractor) Extract(e *entity.Entity, _ Context) map[string]float64 {
	r, ok := c.results[e.ID]
	if !ok {
		return nil
	}
	out := map[string]float64{
		"cohesion.similarity_to_centroid": r.SimilarityToCentroid,
	}
	if r.IsOutlier {
		out["cohesion.is_outlier"] = 1
	}
	if r.DocAlignmentScore != 0 {
		out["cohesion.doc_alignment"] = r.DocAlignmentScore
		if r.DocMisaligned {
			out["cohesion.doc_misaligned"] = 1
		}
	}
	return out
}
