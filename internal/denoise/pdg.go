package denoise

import (
	"structscan/internal/minhash"
)

// DefUseEdges is the lightweight program-dependence proxy this package
// substitutes for a real PDG: the set of (identifier, next-distinct-
// identifier) adjacent-use pairs within an entity's normalized token
// stream. Two entities with a similar edge set tend to thread the same
// values through the same operations even when variable names differ,
// which is exactly the signal original_source/src/detectors/clone_detection/pdg_analyzer.rs
// uses a real def-use graph for.
type DefUseEdges map[string]bool

// ExtractDefUseEdges builds the def-use proxy edge set for one entity's
// source. Tokens are normalized the same way minhash shingles are (spec
// §4.C normalization), so literals/comments don't inflate the edge set.
func ExtractDefUseEdges(source string) DefUseEdges {
	tokens := minhash.Tokenize(minhash.Normalize(source))
	edges := make(DefUseEdges)
	last := ""
	for _, tok := range tokens {
		if !looksLikeIdentifierToken(tok) {
			continue
		}
		if last != "" && last != tok {
			edges[last+"->"+tok] = true
		}
		last = tok
	}
	return edges
}

func looksLikeIdentifierToken(tok string) bool {
	if tok == "" {
		return false
	}
	for _, r := range tok {
		isAlnum := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
		if !isAlnum {
			return false
		}
	}
	first := tok[0]
	return !(first >= '0' && first <= '9')
}

// PDGSimilarity is the Jaccard index of two entities' def-use edge sets.
func PDGSimilarity(a, b DefUseEdges) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	shared := 0
	for e := range a {
		if b[e] {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	if union == 0 {
		return 0
	}
	return float64(shared) / float64(union)
}

// Weights blends AST (estimated Jaccard from minhash signatures), PDG-proxy,
// and embedding similarity into one weighted-similarity score (spec §6
// denoise.weights, SPEC_FULL.md's supplemented PDG-weight feature).
type Weights struct {
	AST, PDG, Emb float64
}

// BlendSimilarity computes weights.AST*astSim + weights.PDG*pdgSim +
// weights.Emb*embSim, normalized by the sum of weights actually supplied
// (embSim may be 0/unused when cohesion embeddings aren't enabled).
func BlendSimilarity(w Weights, astSim, pdgSim, embSim float64, embeddingAvailable bool) float64 {
	total := w.AST + w.PDG
	sum := w.AST*astSim + w.PDG*pdgSim
	if embeddingAvailable {
		total += w.Emb
		sum += w.Emb * embSim
	}
	if total == 0 {
		return 0
	}
	return sum / total
}
