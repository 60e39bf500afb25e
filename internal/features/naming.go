package features

import (
	"strings"

	"structscan/internal/config"
	"structscan/internal/entity"
)

// NamingExtractor flags non-idiomatic identifiers — single-letter names on
// entities broad enough that brevity isn't earned, and identifiers mixing
// snake_case and camelCase conventions within the same name. Supplemented
// from original_source/src/detectors/names/generator.rs; spec.md §4.G's
// table doesn't name this as an extractor category, but the original
// treats it as a sibling detector feeding refactoring/doc scoring, which is
// where this extractor's low-weight "naming.non_idiomatic" feature lands.
type NamingExtractor struct {
	cfg config.FeaturesConfig
}

// NewNamingExtractor creates an extractor bound to the configured minimum
// identifier length and mismatch weight.
func NewNamingExtractor(cfg config.FeaturesConfig) *NamingExtractor {
	return &NamingExtractor{cfg: cfg}
}

func (n *NamingExtractor) Name() string { return "naming" }

func (n *NamingExtractor) Schema() []Schema {
	return []Schema{
		{Name: "naming.non_idiomatic", Description: "weighted count of naming-convention violations", Min: 0, Max: 0, Default: 0, Polarity: PolarityNegative},
	}
}

func (n *NamingExtractor) Extract(e *entity.Entity, _ Context) map[string]float64 {
	if e.Kind != entity.KindFunction && e.Kind != entity.KindMethod &&
		e.Kind != entity.KindClass && e.Kind != entity.KindStruct && e.Kind != entity.KindInterface {
		return nil
	}
	violations := 0.0
	if len([]rune(e.Name)) < n.cfg.NamingMinIdentifierLength {
		violations++
	}
	if mixesCaseConventions(e.Name) {
		violations += n.cfg.NamingConventionMismatch
	}
	if violations == 0 {
		return nil
	}
	return map[string]float64{"naming.non_idiomatic": violations}
}

// mixesCaseConventions reports whether a name combines an underscore (the
// snake_case convention) with an internal uppercase letter (camelCase),
// which isn't a valid identifier in either convention's own terms.
func mixesCaseConventions(name string) bool {
	if !strings.Contains(name, "_") {
		return false
	}
	for i, r := range name {
		if i > 0 && r >= 'A' && r <= 'Z' {
			return true
		}
	}
	return false
}
