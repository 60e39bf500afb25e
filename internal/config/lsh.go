package config

// LSHConfig controls shingle-based clone detection (spec §4.C, §6 lsh.*).
type LSHConfig struct {
	NumHashes              int     `yaml:"num_hashes" json:"num_hashes"`
	NumBands               int     `yaml:"num_bands" json:"num_bands"`
	ShingleSize            int     `yaml:"shingle_size" json:"shingle_size"`
	SimilarityThreshold    float64 `yaml:"similarity_threshold" json:"similarity_threshold"`
	MaxCandidates          int     `yaml:"max_candidates" json:"max_candidates"`
	UseSemanticSimilarity  bool    `yaml:"use_semantic_similarity" json:"use_semantic_similarity"`
	VerifyWithAPTED        bool    `yaml:"verify_with_apted" json:"verify_with_apted"`
	APTEDMaxNodes          int     `yaml:"apted_max_nodes" json:"apted_max_nodes"`
	APTEDMaxPairsPerEntity int     `yaml:"apted_max_pairs_per_entity" json:"apted_max_pairs_per_entity"`
	MinFunctionTokens      int     `yaml:"min_function_tokens" json:"min_function_tokens"`
	MaxEntitiesPerFile     int     `yaml:"max_entities_per_file" json:"max_entities_per_file"`
}

// DefaultLSHConfig matches the Balanced performance profile.
func DefaultLSHConfig() LSHConfig {
	return LSHConfig{
		NumHashes:              64,
		NumBands:               16,
		ShingleSize:            3,
		SimilarityThreshold:    0.75,
		MaxCandidates:          50,
		UseSemanticSimilarity:  false,
		VerifyWithAPTED:        true,
		APTEDMaxNodes:          400,
		APTEDMaxPairsPerEntity: 12,
		MinFunctionTokens:      15,
		MaxEntitiesPerFile:     1500,
	}
}

// ShingleSizeEffective returns 9 when denoise is enabled, per spec §4.C
// item 2 ("k = shingle_size, default 3 or 9 when denoise is on").
func (c LSHConfig) ShingleSizeEffective(denoiseOn bool) int {
	if denoiseOn {
		return 9
	}
	return c.ShingleSize
}
