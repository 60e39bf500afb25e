// Package clique builds the lexical-affinity pre-filter (spec §4.D): a
// graph over entities connected by shared rare identifiers, reduced to
// connected components so the MinHash/LSH stage only compares structurally
// plausible pairs. Grounded on the teacher's symbol_graph-style identifier
// extraction (internal/world/ast_treesitter.go's getText/walk shape) and on
// ritamzico-pgraph's arena-indexed union-find for component discovery.
package clique

import (
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"

	"structscan/internal/entity"
)

// Config controls clique construction (spec §4.D).
type Config struct {
	MaxTokenBucket  int
	MinSharedTokens int
	MinJaccard      float64
	MaxGroupSize    int
}

// DefaultConfig matches spec §4.D's stated defaults.
func DefaultConfig() Config {
	return Config{
		MaxTokenBucket:  256,
		MinSharedTokens: 2,
		MinJaccard:      0.2,
		MaxGroupSize:    48,
	}
}

var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "def": true, "func": true,
	"return": true, "self": true, "this": true, "import": true, "from": true,
	"class": true, "public": true, "private": true, "static": true, "void": true,
	"true": true, "false": true, "none": true, "null": true, "nil": true,
}

// Input is one entity offered to clique construction.
type Input struct {
	ID     entity.ID
	Source string
}

// Index maps an entity-ID to its peer IDs in the same lexical component
// (spec §3 "Partition / Clique").
type Index struct {
	peers map[entity.ID][]entity.ID
}

// Peers returns the peer IDs for an entity, or nil if it belongs to no
// multi-member component.
func (idx *Index) Peers(id entity.ID) []entity.ID { return idx.peers[id] }

// PeerSet returns Peers(id) as a membership set, convenient for minhash's
// FindSimilar clique-intersection parameter.
func (idx *Index) PeerSet(id entity.ID) map[entity.ID]bool {
	peers := idx.peers[id]
	if len(peers) == 0 {
		return nil
	}
	set := make(map[entity.ID]bool, len(peers))
	for _, p := range peers {
		set[p] = true
	}
	return set
}

// Build runs the full clique pre-filter pipeline: identifier extraction,
// token bucketing, shared-token edge accumulation, connected components,
// and deterministic oversized-component chunking.
func Build(cfg Config, inputs []Input) *Index {
	tokenSets := make(map[entity.ID]map[string]bool, len(inputs))
	order := make([]entity.ID, 0, len(inputs))
	buckets := make(map[uint64][]entity.ID)

	for _, in := range inputs {
		toks := extractIdentifiers(in.Source)
		tokenSets[in.ID] = toks
		order = append(order, in.ID)
		for tok := range toks {
			h := xxhash.Sum64String(tok)
			buckets[h] = append(buckets[h], in.ID)
		}
	}

	shared := make(map[entity.ID]map[entity.ID]int)
	addShared := func(a, b entity.ID) {
		if a == b {
			return
		}
		if shared[a] == nil {
			shared[a] = make(map[entity.ID]int)
		}
		shared[a][b]++
	}

	for _, ids := range buckets {
		if len(ids) > cfg.MaxTokenBucket {
			continue
		}
		for i := 0; i < len(ids); i++ {
			for j := i + 1; j < len(ids); j++ {
				addShared(ids[i], ids[j])
				addShared(ids[j], ids[i])
			}
		}
	}

	uf := newUnionFind(order)
	for a, counts := range shared {
		for b, n := range counts {
			if n < cfg.MinSharedTokens {
				continue
			}
			if jaccard(tokenSets[a], tokenSets[b]) >= cfg.MinJaccard {
				uf.union(a, b)
			}
		}
	}

	components := uf.components()
	peers := make(map[entity.ID][]entity.ID)
	for _, members := range components {
		if len(members) < 2 {
			continue
		}
		for _, chunk := range chunkDeterministic(members, cfg.MaxGroupSize) {
			for _, id := range chunk {
				var p []entity.ID
				for _, other := range chunk {
					if other != id {
						p = append(p, other)
					}
				}
				peers[id] = p
			}
		}
	}
	return &Index{peers: peers}
}

func jaccard(a, b map[string]bool) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for tok := range a {
		if b[tok] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}

// extractIdentifiers pulls normalized identifiers (len>=3, alnum+underscore,
// not a stopword) out of raw source text.
func extractIdentifiers(source string) map[string]bool {
	out := make(map[string]bool)
	var cur strings.Builder
	flush := func() {
		if cur.Len() == 0 {
			return
		}
		tok := strings.ToLower(cur.String())
		cur.Reset()
		if len(tok) < 3 || stopwords[tok] {
			return
		}
		if tok[0] >= '0' && tok[0] <= '9' {
			return
		}
		out[tok] = true
	}
	for _, r := range source {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			cur.WriteRune(r)
		default:
			flush()
		}
	}
	flush()
	return out
}

// chunkDeterministic splits a component larger than max into fixed-size,
// ID-sorted chunks, so chunking is reproducible across runs.
func chunkDeterministic(members []entity.ID, max int) [][]entity.ID {
	sorted := make([]entity.ID, len(members))
	copy(sorted, members)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	if max <= 0 || len(sorted) <= max {
		return [][]entity.ID{sorted}
	}
	var chunks [][]entity.ID
	for i := 0; i < len(sorted); i += max {
		end := i + max
		if end > len(sorted) {
			end = len(sorted)
		}
		chunks = append(chunks, sorted[i:end])
	}
	return chunks
}
