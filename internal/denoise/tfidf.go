package denoise

import (
	"math"
	"strings"

	"structscan/internal/entity"
)

// NormalizeToken buckets numeric and string literals and, optionally,
// alpha-renames local-looking identifiers, so variable-name diversity alone
// doesn't inflate a term's apparent rarity (spec §4.F item 2).
func NormalizeToken(tok string, alphaRenameLocals bool) string {
	if tok == "" {
		return tok
	}
	if isStringLiteral(tok) {
		return "STRING_LIT"
	}
	if isNumericLiteral(tok) {
		if strings.ContainsAny(tok, ".eE") {
			return "FLOAT_LIT"
		}
		return "INT_LIT"
	}
	if alphaRenameLocals && looksLikeLocalVar(tok) {
		return "LOCAL_VAR"
	}
	return tok
}

func isStringLiteral(tok string) bool {
	if len(tok) < 2 {
		return false
	}
	first, last := tok[0], tok[len(tok)-1]
	return (first == '"' && last == '"') || (first == '\'' && last == '\'')
}

func isNumericLiteral(tok string) bool {
	digits := false
	for _, r := range tok {
		switch {
		case r >= '0' && r <= '9':
			digits = true
		case r == '.' || r == '-' || r == '+' || r == 'e' || r == 'E':
			// allowed as part of a numeric literal
		default:
			return false
		}
	}
	return digits
}

// looksLikeLocalVar is a coarse heuristic — this package has no scope
// analysis, so any short lowercase identifier without underscores is
// treated as a candidate local (loop counters, short-lived bindings);
// qualified or snake_case names are left alone since those usually carry
// domain meaning worth keeping rare.
func looksLikeLocalVar(tok string) bool {
	if len(tok) > 8 || strings.Contains(tok, "_") || strings.Contains(tok, ".") {
		return false
	}
	for _, r := range tok {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// RarityModel is a corpus-wide document-frequency model used to compute
// IDF-based rarity gain for a candidate pair's shared shingles.
type RarityModel struct {
	df            map[string]int
	totalEntities int
	meanIDF       float64
}

// BuildRarityModel computes document frequency for every distinct
// normalized shingle across the given per-entity shingle sets.
func BuildRarityModel(perEntityShingles map[entity.ID][]string) *RarityModel {
	df := make(map[string]int)
	for _, shingles := range perEntityShingles {
		seen := make(map[string]bool, len(shingles))
		for _, s := range shingles {
			if !seen[s] {
				seen[s] = true
				df[s]++
			}
		}
	}
	m := &RarityModel{df: df, totalEntities: len(perEntityShingles)}
	if len(df) > 0 {
		sum := 0.0
		for term := range df {
			sum += m.idf(term)
		}
		m.meanIDF = sum / float64(len(df))
	}
	return m
}

// idf computes ln(N/df) + 1 (spec §4.F item 2).
func (m *RarityModel) idf(term string) float64 {
	df := m.df[term]
	if df == 0 || m.totalEntities == 0 {
		return m.meanIDF
	}
	return math.Log(float64(m.totalEntities)/float64(df)) + 1
}

// RarityGain is the mean IDF of the shared shingles (each scaled by its
// stop-motif weight multiplier, if any) minus the corpus-wide baseline mean
// IDF (spec §4.F item 2).
func (m *RarityModel) RarityGain(sharedShingles []string, motifs *StopMotifCache, language string) float64 {
	if len(sharedShingles) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range sharedShingles {
		weight := motifs.WeightFor(s, language, CategoryTokenSequence)
		sum += m.idf(s) * weight
	}
	mean := sum / float64(len(sharedShingles))
	return mean - m.meanIDF
}
