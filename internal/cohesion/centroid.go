package cohesion

import (
	"math"
	"sort"

	"structscan/internal/config"
)

// CosineSimilarity computes cosine similarity between two equal-length
// vectors, returning 0 for a zero-magnitude vector (grounded on the
// teacher's embedding.CosineSimilarity).
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// TrimmedMeanCentroid computes a centroid over vectors, first computing a
// naive mean, ranking members by similarity-to-that-mean, discarding the
// bottom trimFraction by similarity, then averaging the remainder (spec
// §4.L: "trimmed mean (bottom-15% by similarity-to-centroid discarded)").
func TrimmedMeanCentroid(vectors [][]float32, trimFraction float64) []float32 {
	if len(vectors) == 0 {
		return nil
	}
	dim := len(vectors[0])
	naive := meanVector(vectors, dim)
	if len(vectors) <= 2 || trimFraction <= 0 {
		return naive
	}
	type scored struct {
		v   []float32
		sim float64
	}
	scoredVecs := make([]scored, len(vectors))
	for i, v := range vectors {
		scoredVecs[i] = scored{v, CosineSimilarity(v, naive)}
	}
	sort.Slice(scoredVecs, func(i, j int) bool { return scoredVecs[i].sim > scoredVecs[j].sim })
	drop := int(math.Floor(float64(len(scoredVecs)) * trimFraction))
	if drop >= len(scoredVecs) {
		drop = len(scoredVecs) - 1
	}
	kept := make([][]float32, 0, len(scoredVecs)-drop)
	for _, s := range scoredVecs[:len(scoredVecs)-drop] {
		kept = append(kept, s.v)
	}
	if len(kept) == 0 {
		return naive
	}
	return meanVector(kept, dim)
}

func meanVector(vectors [][]float32, dim int) []float32 {
	sum := make([]float64, dim)
	for _, v := range vectors {
		for i := 0; i < dim && i < len(v); i++ {
			sum[i] += float64(v[i])
		}
	}
	out := make([]float32, dim)
	n := float64(len(vectors))
	for i, s := range sum {
		out[i] = float32(s / n)
	}
	return out
}

// Percentile returns the cosine similarities below which a fraction p of
// the distribution falls (linear interpolation over the sorted values).
func Percentile(values []float64, p float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	if p <= 0 {
		return sorted[0]
	}
	if p >= 1 {
		return sorted[len(sorted)-1]
	}
	idx := p * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

// OutlierFlag reports whether an entity's embedding is cohesion-poor
// relative to its bucket's centroid: similarity below the absolute
// min_cohesion floor, or below the configured outlier percentile of the
// bucket's similarity distribution (spec §4.L / §6 cohesion thresholds).
func OutlierFlag(similarityToCentroid float64, bucketSimilarities []float64, cfg config.CohesionThresholds) bool {
	if similarityToCentroid < cfg.MinCohesion {
		return true
	}
	threshold := Percentile(bucketSimilarities, cfg.OutlierPercentile)
	return similarityToCentroid < threshold
}

// DocAlignment scores how well an entity's doc summary embedding aligns
// with its code-text embedding, and flags misalignment below the
// configured floor.
func DocAlignment(codeVec, docVec []float32, cfg config.CohesionThresholds) (score float64, misaligned bool) {
	score = CosineSimilarity(codeVec, docVec)
	return score, score < cfg.MinDocAlignment
}
