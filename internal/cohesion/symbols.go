// Package cohesion implements spec §4.L: symbol extraction, embedding-backed
// similarity, and per-directory centroid/outlier analysis. Grounded on the
// teacher's internal/embedding (provider shape, batch ceiling, task-type
// knob) and internal/store (xxhash/LRU cache fronting a sqlite-vec-backed
// persistent store), re-scoped from chat/document retrieval to embedding
// entity "code text" for cohesion scoring.
package cohesion

import (
	"strings"
	"unicode"

	"structscan/internal/entity"
)

// SplitIdentifier breaks an identifier on snake_case underscores and
// camelCase boundaries, lowercasing each part (spec §4.L: "identifier
// tokens split on camelCase/snake_case boundaries").
func SplitIdentifier(name string) []string {
	var parts []string
	var cur strings.Builder
	runes := []rune(name)
	flush := func() {
		if cur.Len() > 0 {
			parts = append(parts, strings.ToLower(cur.String()))
			cur.Reset()
		}
	}
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
		case unicode.IsUpper(r) && i > 0 && !unicode.IsUpper(runes[i-1]):
			flush()
			cur.WriteRune(r)
		case unicode.IsUpper(r) && i > 0 && i+1 < len(runes) && unicode.IsUpper(runes[i-1]) && unicode.IsLower(runes[i+1]):
			flush()
			cur.WriteRune(r)
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return parts
}

// identifierRune reports whether r can appear inside a source identifier.
func identifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// ExtractIdentifiers scans an entity's source text for identifier-like
// tokens (length >= 2, not purely numeric) and splits each into lowercased
// sub-word symbols.
func ExtractIdentifiers(source string) []string {
	var out []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() >= 2 && !isAllDigits(cur.String()) {
			out = append(out, SplitIdentifier(cur.String())...)
		}
		cur.Reset()
	}
	for _, r := range source {
		if identifierRune(r) {
			cur.WriteRune(r)
		} else {
			flush()
		}
	}
	flush()
	return out
}

func isAllDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// BuildCodeText assembles the text that gets embedded for an entity:
// selected symbols, joined, plus an optional qualified-name/signature hint
// and an optional leading doc summary (spec §4.L: "selected symbols +
// optional signature + optional doc summary").
func BuildCodeText(e *entity.Entity, symbols []string, docSummary string) string {
	var b strings.Builder
	if qn, ok := e.Properties["qualified_name"].(string); ok && qn != "" {
		b.WriteString(qn)
		b.WriteByte(' ')
	} else {
		b.WriteString(e.Name)
		b.WriteByte(' ')
	}
	if docSummary != "" {
		b.WriteString(docSummary)
		b.WriteByte(' ')
	}
	b.WriteString(strings.Join(symbols, " "))
	return b.String()
}
