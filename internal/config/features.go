package config

// FeaturesConfig controls the thresholded heuristics spec §4.G's
// Refactoring extractor applies on top of complexity features and clone
// fingerprints.
type FeaturesConfig struct {
	LongMethodLOC             int     `yaml:"long_method_loc" json:"long_method_loc"`
	ComplexConditionalCyclo   int     `yaml:"complex_conditional_cyclomatic" json:"complex_conditional_cyclomatic"`
	LargeTypeMemberCount      int     `yaml:"large_type_member_count" json:"large_type_member_count"`
	DuplicateGroupMinSize     int     `yaml:"duplicate_group_min_size" json:"duplicate_group_min_size"`
	NamingMinIdentifierLength int     `yaml:"naming_min_identifier_length" json:"naming_min_identifier_length"`
	NamingConventionMismatch  float64 `yaml:"naming_convention_mismatch_weight" json:"naming_convention_mismatch_weight"`
}

// DefaultFeaturesConfig matches the thresholds spec §8's worked examples
// imply (a 10/10-caller/callee function is a chokepoint; a function past a
// few dozen lines reads as a long method in the teacher's own codebase
// conventions).
func DefaultFeaturesConfig() FeaturesConfig {
	return FeaturesConfig{
		LongMethodLOC:             60,
		ComplexConditionalCyclo:   8,
		LargeTypeMemberCount:      20,
		DuplicateGroupMinSize:     2,
		NamingMinIdentifierLength: 2,
		NamingConventionMismatch:  0.5,
	}
}
