package features

import (
	"structscan/internal/entity"
	"structscan/internal/minhash"
)

// LSHExtractor surfaces a per-entity "duplication burden" feature derived
// from the clone-candidate index (spec §4.G "LSH": "contributes a
// per-entity duplication burden feature").
type LSHExtractor struct {
	index *minhash.Index
	limit int
}

// NewLSHExtractor wraps an already-built clone-candidate index. limit
// bounds how many candidates FindSimilar considers per entity.
func NewLSHExtractor(index *minhash.Index, limit int) *LSHExtractor {
	return &LSHExtractor{index: index, limit: limit}
}

func (l *LSHExtractor) Name() string { return "lsh" }

func (l *LSHExtractor) Schema() []Schema {
	return []Schema{
		{Name: "lsh.duplication_burden", Description: "count of clone candidates weighted by similarity", Min: 0, Max: 0, Default: 0, Polarity: PolarityNegative},
		{Name: "lsh.clone_group_size", Description: "number of candidates found", Min: 0, Max: 0, Default: 0, Polarity: PolarityNegative},
	}
}

func (l *LSHExtractor) Extract(e *entity.Entity, _ Context) map[string]float64 {
	if l.index == nil {
		return nil
	}
	candidates := l.index.FindSimilar(e.ID, l.limit, nil)
	if len(candidates) == 0 {
		return nil
	}
	burden := 0.0
	for _, c := range candidates {
		burden += c.Similarity
	}
	return map[string]float64{
		"lsh.duplication_burden": burden,
		"lsh.clone_group_size":   float64(len(candidates)),
	}
}
