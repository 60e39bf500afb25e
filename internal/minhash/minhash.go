// Package minhash implements the MinHash/LSH clone-candidate index (§4.C):
// shingle normalization, per-entity signatures, band bucketing, and
// symmetric candidate retrieval. Grounded on the teacher's embedding engine
// (internal/embedding/engine.go) for the cache-then-compute shape, adapted
// from an embedding cache to a deterministic hash-signature index, and on
// internal/world/code_elements.go for entity-by-ID borrowing semantics.
package minhash

import (
	"math"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"structscan/internal/config"
	"structscan/internal/entity"
	"structscan/internal/obs"
)

// Signature is a fixed-length MinHash signature: one u64 minimum per hash
// function (spec §3 "Signature").
type Signature []uint64

// Candidate is one LSH query result (spec §4.C "find_similar").
type Candidate struct {
	ID         entity.ID
	Similarity float64
}

// Input is one entity offered to the index build phase.
type Input struct {
	ID     entity.ID
	File   string
	Source string
}

// Index is the built MinHash/LSH structure for one analysis run. Never
// persisted across file mutations (spec §3 "LSH index" lifetime note).
type Index struct {
	cfg        config.LSHConfig
	seeds      []uint64
	signatures map[entity.ID]Signature
	buckets    map[bandKey][]entity.ID
	order      []entity.ID
}

type bandKey struct {
	band int
	hash uint64
}

// Build indexes a batch of entities (spec §4.C "index(entities)"). Entities
// whose normalized token count is below MinFunctionTokens are excluded with
// an empty signature; files exceeding MaxEntitiesPerFile are skipped
// entirely with a log note.
func Build(cfg config.LSHConfig, pools *entity.VectorPools, inputs []Input) *Index {
	return build(cfg, pools, inputs, false)
}

// BuildWithDenoise is Build with the wider shingle size used when denoise
// filtering is active (spec §4.C item 2: "k = shingle_size ... or 9 when
// denoise is on").
func BuildWithDenoise(cfg config.LSHConfig, pools *entity.VectorPools, inputs []Input, denoiseOn bool) *Index {
	return build(cfg, pools, inputs, denoiseOn)
}

func build(cfg config.LSHConfig, pools *entity.VectorPools, inputs []Input, denoiseOn bool) *Index {
	idx := &Index{
		cfg:        cfg,
		seeds:      seeds(cfg.NumHashes),
		signatures: make(map[entity.ID]Signature, len(inputs)),
		buckets:    make(map[bandKey][]entity.ID),
	}

	perFile := make(map[string]int, len(inputs))
	for _, in := range inputs {
		perFile[in.File]++
	}
	skippedFiles := make(map[string]bool)
	for file, count := range perFile {
		if count > cfg.MaxEntitiesPerFile {
			skippedFiles[file] = true
			obs.For(obs.CategoryMinHash).Warn("skipping oversize file for clone indexing",
				zap.String("file", file), zap.Int("entity_count", count))
		}
	}

	shingleK := cfg.ShingleSizeEffective(denoiseOn)

	for _, in := range inputs {
		if skippedFiles[in.File] {
			continue
		}
		tokens := Tokenize(Normalize(in.Source))
		if len(tokens) < cfg.MinFunctionTokens {
			idx.signatures[in.ID] = nil
			idx.order = append(idx.order, in.ID)
			continue
		}
		shingles := Shingle(tokens, shingleK, pools)
		sig := idx.computeSignature(shingles, pools)
		pools.PutShingleBuf(shingles)

		idx.signatures[in.ID] = sig
		idx.order = append(idx.order, in.ID)
		idx.insertBands(in.ID, sig)
	}
	return idx
}

func (idx *Index) computeSignature(shingles []string, pools *entity.VectorPools) Signature {
	sig := pools.GetSigBuf(len(idx.seeds))
	for h := range sig {
		sig[h] = math.MaxUint64
	}
	for _, sh := range shingles {
		b := []byte(sh)
		for h, seed := range idx.seeds {
			v := xxhash.Sum64(append(b, byte(seed), byte(seed>>8))) // seed-salted shingle hash
			if v < sig[h] {
				sig[h] = v
			}
		}
	}
	out := make(Signature, len(sig))
	copy(out, sig)
	pools.PutSigBuf(sig)
	return out
}

func (idx *Index) insertBands(id entity.ID, sig Signature) {
	r := idx.cfg.NumHashes / idx.cfg.NumBands
	for band := 0; band < idx.cfg.NumBands; band++ {
		slice := sig[band*r : (band+1)*r]
		h := bandHash(slice)
		key := bandKey{band: band, hash: h}
		idx.buckets[key] = append(idx.buckets[key], id)
	}
}

func bandHash(slice []uint64) uint64 {
	d := xxhash.New()
	for _, v := range slice {
		var b [8]byte
		for i := 0; i < 8; i++ {
			b[i] = byte(v >> (8 * i))
		}
		_, _ = d.Write(b[:])
	}
	return d.Sum64()
}

// FindSimilar returns entities sharing at least one LSH band with id, above
// SimilarityThreshold, optionally restricted to a clique peer set (§4.D),
// sorted descending by similarity and truncated to limit candidates.
// limit == 0 is the explicit "emit no pairs" boundary from spec §8 (callers
// pass MaxCandidates straight through, so a configured 0 must mean none, not
// unlimited); limit < 0 means unbounded. Candidates are symmetric by
// construction (spec §4.C invariant): membership depends only on shared
// band buckets.
func (idx *Index) FindSimilar(id entity.ID, limit int, cliquePeers map[entity.ID]bool) []Candidate {
	sig, ok := idx.signatures[id]
	if !ok || sig == nil {
		return nil
	}
	r := idx.cfg.NumHashes / idx.cfg.NumBands
	seen := make(map[entity.ID]bool)
	var candidateIDs []entity.ID
	for band := 0; band < idx.cfg.NumBands; band++ {
		slice := sig[band*r : (band+1)*r]
		key := bandKey{band: band, hash: bandHash(slice)}
		for _, other := range idx.buckets[key] {
			if other == id || seen[other] {
				continue
			}
			seen[other] = true
			candidateIDs = append(candidateIDs, other)
		}
	}

	if limit == 0 {
		return nil
	}

	var out []Candidate
	for _, other := range candidateIDs {
		if cliquePeers != nil && !cliquePeers[other] {
			continue
		}
		otherSig := idx.signatures[other]
		if otherSig == nil {
			continue
		}
		sim := estimatedJaccard(sig, otherSig)
		if sim >= idx.cfg.SimilarityThreshold {
			out = append(out, Candidate{ID: other, Similarity: sim})
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Similarity != out[j].Similarity {
			return out[i].Similarity > out[j].Similarity
		}
		return out[i].ID < out[j].ID
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func estimatedJaccard(a, b Signature) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	matching := 0
	for h := range a {
		if a[h] == b[h] {
			matching++
		}
	}
	return float64(matching) / float64(len(a))
}

// Signature returns the stored signature for an entity, or nil if excluded.
func (idx *Index) Signature(id entity.ID) Signature {
	return idx.signatures[id]
}

// Len returns the number of entities offered to the index, including those
// excluded for low token count.
func (idx *Index) Len() int { return len(idx.order) }

// seeds produces n deterministic, distinct hash-function seeds (spec §4.C
// "hash function family must be seeded deterministically").
func seeds(n int) []uint64 {
	out := make([]uint64, n)
	for i := range out {
		out[i] = uint64(i+1)*0x9E3779B97F4A7C15 + 0xA24BAED4963EE407
	}
	return out
}
