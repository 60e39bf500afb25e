package config

// DenoiseWeights blends AST, PDG-proxy, and embedding similarity signals
// (spec §6 denoise.weights, SPEC_FULL.md supplemented PDG-weight feature).
type DenoiseWeights struct {
	AST float64 `yaml:"ast" json:"ast"`
	PDG float64 `yaml:"pdg" json:"pdg"`
	Emb float64 `yaml:"emb" json:"emb"`
}

// DenoiseRanking holds the hard floors applied before payoff ranking.
type DenoiseRanking struct {
	MinSavedTokens int     `yaml:"min_saved_tokens" json:"min_saved_tokens"`
	MinRarityGain  float64 `yaml:"min_rarity_gain" json:"min_rarity_gain"`
}

// AutoCalibrationConfig controls the threshold controller (spec §4.F item 3).
type AutoCalibrationConfig struct {
	Enabled        bool          `yaml:"enabled" json:"enabled"`
	TargetPrecision float64      `yaml:"target_precision" json:"target_precision"`
	TargetRecall    float64      `yaml:"target_recall" json:"target_recall"`
	MaxAdjustPct    float64      `yaml:"max_adjust_pct" json:"max_adjust_pct"`
	MinFloor        float64      `yaml:"min_floor" json:"min_floor"`
	MaxFloor        float64      `yaml:"max_floor" json:"max_floor"`
	StabilityFloor  float64      `yaml:"stability_floor" json:"stability_floor"`
	MaxAgeSeconds   int64        `yaml:"max_age_seconds" json:"max_age_seconds"`
}

// DefaultAutoCalibrationConfig matches spec §4.F item 3's literal bounds.
func DefaultAutoCalibrationConfig() AutoCalibrationConfig {
	return AutoCalibrationConfig{
		Enabled: true, TargetPrecision: 0.8, TargetRecall: 0.8,
		MaxAdjustPct: 0.10, MinFloor: 0.1, MaxFloor: 0.95,
		StabilityFloor: 0.7, MaxAgeSeconds: 3600,
	}
}

// DenoiseConfig controls the clone-candidate denoise pipeline (spec §4.F).
type DenoiseConfig struct {
	Enabled          bool                  `yaml:"enabled" json:"enabled"`
	Auto             bool                  `yaml:"auto" json:"auto"`
	MinFunctionTokens int                  `yaml:"min_function_tokens" json:"min_function_tokens"`
	MinMatchTokens   int                   `yaml:"min_match_tokens" json:"min_match_tokens"`
	RequireBlocks    bool                  `yaml:"require_blocks" json:"require_blocks"`
	Similarity       float64               `yaml:"similarity" json:"similarity"`
	Weights          DenoiseWeights        `yaml:"weights" json:"weights"`
	IOMismatchPenalty float64              `yaml:"io_mismatch_penalty" json:"io_mismatch_penalty"`
	ThresholdS       float64               `yaml:"threshold_s" json:"threshold_s"`
	StopMotifsPath   string                `yaml:"stop_motifs" json:"stop_motifs"`
	AutoCalibration  AutoCalibrationConfig `yaml:"auto_calibration" json:"auto_calibration"`
	Ranking          DenoiseRanking        `yaml:"ranking" json:"ranking"`
	DryRun           bool                  `yaml:"dry_run" json:"dry_run"`
	AlphaRenameLocals bool                 `yaml:"alpha_rename_locals" json:"alpha_rename_locals"`
}

// DefaultDenoiseConfig matches spec §4.F's defaults.
func DefaultDenoiseConfig() DenoiseConfig {
	return DenoiseConfig{
		Enabled: true, Auto: true,
		MinFunctionTokens: 15, MinMatchTokens: 20, RequireBlocks: false,
		Similarity:        0.75,
		Weights:           DenoiseWeights{AST: 0.5, PDG: 0.2, Emb: 0.3},
		IOMismatchPenalty: 0.1,
		ThresholdS:        0.75,
		StopMotifsPath:    ".valknut/cache/denoise/stop_motifs.v1.json",
		AutoCalibration:   DefaultAutoCalibrationConfig(),
		Ranking:           DenoiseRanking{MinSavedTokens: 30, MinRarityGain: 0.05},
		DryRun:            false,
		AlphaRenameLocals: true,
	}
}
