// Package config defines the configuration surface the analytical core
// recognizes (spec §6). Loading these structs from a config file or CLI
// flags is the caller's job (out of scope per spec §1); this package only
// defines the namespaced structs, their defaults, and validation.
package config

import "structscan/internal/errs"

// PerformanceProfile selects a preset bundle of LSH/denoise knobs.
type PerformanceProfile string

const (
	ProfileFast     PerformanceProfile = "Fast"
	ProfileBalanced PerformanceProfile = "Balanced"
	ProfileThorough PerformanceProfile = "Thorough"
	ProfileExtreme  PerformanceProfile = "Extreme"
)

// AnalysisConfig is the top-level stage-toggle namespace.
type AnalysisConfig struct {
	EnableLSH         bool `yaml:"enable_lsh" json:"enable_lsh"`
	EnableCoverage    bool `yaml:"enable_coverage" json:"enable_coverage"`
	EnableScoring     bool `yaml:"enable_scoring" json:"enable_scoring"`
	EnableStructure   bool `yaml:"enable_structure" json:"enable_structure"`
	EnableRefactoring bool `yaml:"enable_refactoring" json:"enable_refactoring"`
	EnableGraph       bool `yaml:"enable_graph" json:"enable_graph"`
	EnableCohesion    bool `yaml:"enable_cohesion" json:"enable_cohesion"`
}

// DefaultAnalysisConfig enables every stage.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{
		EnableLSH: true, EnableCoverage: true, EnableScoring: true,
		EnableStructure: true, EnableRefactoring: true, EnableGraph: true,
		EnableCohesion: true,
	}
}

// Config is the full recognized configuration surface.
type Config struct {
	Profile   PerformanceProfile `yaml:"performance_profile" json:"performance_profile"`
	Analysis  AnalysisConfig     `yaml:"analysis" json:"analysis"`
	LSH       LSHConfig          `yaml:"lsh" json:"lsh"`
	Denoise   DenoiseConfig      `yaml:"denoise" json:"denoise"`
	Coverage  CoverageConfig     `yaml:"coverage" json:"coverage"`
	Cohesion  CohesionConfig     `yaml:"cohesion" json:"cohesion"`
	Structure StructureConfig    `yaml:"structure" json:"structure"`
	Features  FeaturesConfig     `yaml:"features" json:"features"`
	Scoring   ScoringConfig      `yaml:"scoring" json:"scoring"`
}

// Default returns the Balanced preset, applied as the baseline before any
// explicit overrides the caller supplies.
func Default() Config {
	cfg := Config{
		Profile:   ProfileBalanced,
		Analysis:  DefaultAnalysisConfig(),
		LSH:       DefaultLSHConfig(),
		Denoise:   DefaultDenoiseConfig(),
		Coverage:  DefaultCoverageConfig(),
		Cohesion:  DefaultCohesionConfig(),
		Structure: DefaultStructureConfig(),
		Features:  DefaultFeaturesConfig(),
		Scoring:   DefaultScoringConfig(),
	}
	cfg.ApplyProfile(cfg.Profile)
	return cfg
}

// ApplyProfile sets (num_hashes, num_bands) and related knobs per spec §6's
// performance_profile table. Applied before explicit per-field overrides.
func (c *Config) ApplyProfile(p PerformanceProfile) {
	c.Profile = p
	switch p {
	case ProfileFast:
		c.LSH.NumHashes, c.LSH.NumBands = 32, 8
		c.LSH.APTEDMaxPairsPerEntity = 4
	case ProfileThorough:
		c.LSH.NumHashes, c.LSH.NumBands = 128, 16
		c.LSH.APTEDMaxPairsPerEntity = 24
	case ProfileExtreme:
		c.LSH.NumHashes, c.LSH.NumBands = 256, 32
		c.LSH.APTEDMaxPairsPerEntity = 64
	default: // Balanced
		c.LSH.NumHashes, c.LSH.NumBands = 64, 16
		c.LSH.APTEDMaxPairsPerEntity = 12
	}
}

// Validate implements the ConfigError checks of spec §7. It is fatal at
// pipeline start when it returns a non-nil error.
func (c *Config) Validate() error {
	if c.LSH.NumBands <= 0 || c.LSH.NumHashes%c.LSH.NumBands != 0 {
		return errs.ConfigError("lsh.num_hashes must be a positive multiple of lsh.num_bands")
	}
	if c.LSH.SimilarityThreshold < 0 || c.LSH.SimilarityThreshold > 1 {
		return errs.ConfigError("lsh.similarity_threshold must be in [0,1]")
	}
	if c.LSH.ShingleSize <= 0 {
		return errs.ConfigError("lsh.shingle_size must be positive")
	}
	if c.Denoise.Enabled {
		if c.Denoise.Ranking.MinSavedTokens < 0 {
			return errs.ConfigError("denoise.ranking.min_saved_tokens must be >= 0")
		}
		if c.Denoise.Ranking.MinRarityGain < 0 {
			return errs.ConfigError("denoise.ranking.min_rarity_gain must be >= 0")
		}
	}
	if c.Cohesion.Thresholds.OutlierPercentile <= 0 || c.Cohesion.Thresholds.OutlierPercentile >= 1 {
		return errs.ConfigError("cohesion.thresholds.outlier_percentile must be in (0,1)")
	}
	if c.Structure.MinClusters <= 0 || c.Structure.MaxClusters < c.Structure.MinClusters {
		return errs.ConfigError("structure.min_clusters/max_clusters are invalid")
	}
	return nil
}
