package config

// NormalizationScheme selects how raw feature values map to normalized
// scores (spec §4.H).
type NormalizationScheme string

const (
	SchemeZScore     NormalizationScheme = "zscore"
	SchemeRobustZ    NormalizationScheme = "robust_zscore"
	SchemeMinMax     NormalizationScheme = "minmax"
	SchemeBayesian   NormalizationScheme = "bayesian_shrinkage"
)

// HealthShapeParams are the per-entity-kind lognormal+logistic shaping
// parameters spec §4.H's "Health shaping" describes.
type HealthShapeParams struct {
	OptimalLOC   float64 `yaml:"optimal_loc" json:"optimal_loc"`
	P95LOC       float64 `yaml:"p95_loc" json:"p95_loc"`
	Center       float64 `yaml:"center" json:"center"`
	Steepness    float64 `yaml:"steepness" json:"steepness"`
}

// ScoringConfig controls two-pass normalization and priority assignment
// (spec §4.H).
type ScoringConfig struct {
	Scheme               NormalizationScheme          `yaml:"scheme" json:"scheme"`
	UseBayesianFallbacks bool                          `yaml:"use_bayesian_fallbacks" json:"use_bayesian_fallbacks"`
	BayesianPriorMean    float64                       `yaml:"bayesian_prior_mean" json:"bayesian_prior_mean"`
	BayesianPriorWeight  float64                       `yaml:"bayesian_prior_weight" json:"bayesian_prior_weight"`
	CategoryWeights      map[string]float64            `yaml:"category_weights" json:"category_weights"`
	SeverityThreshold    float64                       `yaml:"severity_threshold" json:"severity_threshold"`
	HealthShapes         map[string]HealthShapeParams  `yaml:"health_shapes" json:"health_shapes"`
}

// DefaultScoringConfig matches spec §4.H's priority table and a flat
// category-weight split across the extractor categories spec §4.G defines.
func DefaultScoringConfig() ScoringConfig {
	return ScoringConfig{
		Scheme:               SchemeRobustZ,
		UseBayesianFallbacks: true,
		BayesianPriorMean:    0,
		BayesianPriorWeight:  5,
		CategoryWeights: map[string]float64{
			"complexity":    1.0,
			"graph":         0.8,
			"refactoring":   1.0,
			"cohesion":      0.7,
			"coverage":      0.6,
			"documentation": 0.4,
		},
		SeverityThreshold: 0.8,
		HealthShapes: map[string]HealthShapeParams{
			"function":  {OptimalLOC: 30, P95LOC: 150, Center: 0.6, Steepness: 0.15},
			"method":    {OptimalLOC: 30, P95LOC: 150, Center: 0.6, Steepness: 0.15},
			"class":     {OptimalLOC: 150, P95LOC: 800, Center: 0.6, Steepness: 0.15},
			"struct":    {OptimalLOC: 150, P95LOC: 800, Center: 0.6, Steepness: 0.15},
			"module":    {OptimalLOC: 300, P95LOC: 2000, Center: 0.6, Steepness: 0.15},
		},
	}
}
