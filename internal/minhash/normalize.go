package minhash

import (
	"strings"

	"structscan/internal/entity"
)

// Normalize implements spec §4.C step 1: drop `//` and `#` comment lines,
// collapse whitespace, lowercase, strip empty lines.
func Normalize(source string) string {
	lines := strings.Split(source, "\n")
	var b strings.Builder
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "//") || strings.HasPrefix(trimmed, "#") {
			continue
		}
		collapsed := strings.Join(strings.Fields(trimmed), " ")
		b.WriteString(strings.ToLower(collapsed))
		b.WriteByte('\n')
	}
	return b.String()
}

// Tokenize splits normalized source on whitespace.
func Tokenize(normalized string) []string {
	return strings.Fields(normalized)
}

// Shingle forms overlapping k-token shingles from a token stream (spec
// §4.C step 2), borrowing its result buffer from the shared vector pools.
// Returns an empty (possibly zero-length) slice when fewer than k tokens
// remain, so callers can still exercise the signature path uniformly.
func Shingle(tokens []string, k int, pools *entity.VectorPools) []string {
	if k <= 0 {
		k = 1
	}
	out := pools.GetShingleBuf(len(tokens))
	if len(tokens) < k {
		return out
	}
	for i := 0; i+k <= len(tokens); i++ {
		out = append(out, strings.Join(tokens[i:i+k], " "))
	}
	return out
}
