package cohesion

import (
	"math"
	"sort"

	"structscan/internal/config"
	"structscan/internal/entity"
)

// Corpus holds the document-frequency model needed to weight a symbol's
// rarity across all entities being analyzed in a run.
type Corpus struct {
	df    map[string]int
	total int
}

// BuildCorpus computes document frequency for every distinct symbol across
// the given per-entity symbol lists.
func BuildCorpus(perEntitySymbols map[entity.ID][]string) *Corpus {
	df := make(map[string]int)
	for _, symbols := range perEntitySymbols {
		seen := make(map[string]bool, len(symbols))
		for _, s := range symbols {
			if !seen[s] {
				seen[s] = true
				df[s]++
			}
		}
	}
	return &Corpus{df: df, total: len(perEntitySymbols)}
}

// idf computes ln(N/df) + 1, matching the IDF formula used elsewhere in
// this module for rarity weighting (spec §4.F/§4.L share the formula).
func (c *Corpus) idf(term string) float64 {
	df := c.df[term]
	if df == 0 || c.total == 0 {
		return 1
	}
	return math.Log(float64(c.total)/float64(df)) + 1
}

type weightedSymbol struct {
	term   string
	weight float64
}

// SelectSymbols picks the TF-IDF-heaviest symbols from an entity's raw
// symbol occurrences, keeping symbols (in descending weight order) until
// their cumulative weight reaches tfidf_mass_threshold of the total, then
// clamps the count to [min_symbols, max_symbols] and to a sublinear cap
// ceil(a*sqrt(m)) over the distinct symbol count m (spec §4.L).
func (c *Corpus) SelectSymbols(symbols []string, cfg config.CohesionConfig) []string {
	tf := make(map[string]int)
	for _, s := range symbols {
		tf[s]++
	}
	if len(tf) == 0 {
		return nil
	}
	weighted := make([]weightedSymbol, 0, len(tf))
	total := 0.0
	for term, freq := range tf {
		w := float64(freq) * c.idf(term)
		weighted = append(weighted, weightedSymbol{term, w})
		total += w
	}
	sort.Slice(weighted, func(i, j int) bool {
		if weighted[i].weight != weighted[j].weight {
			return weighted[i].weight > weighted[j].weight
		}
		return weighted[i].term < weighted[j].term
	})

	capLimit := int(math.Ceil(cfg.SublinearCapA * math.Sqrt(float64(len(tf)))))
	maxSymbols := cfg.MaxSymbols
	if capLimit < maxSymbols {
		maxSymbols = capLimit
	}
	if maxSymbols < cfg.MinSymbols {
		maxSymbols = cfg.MinSymbols
	}

	var selected []string
	cumulative := 0.0
	for i, ws := range weighted {
		if i >= maxSymbols {
			break
		}
		selected = append(selected, ws.term)
		cumulative += ws.weight
		if len(selected) >= cfg.MinSymbols && total > 0 && cumulative/total >= cfg.TFIDFMassThreshold {
			break
		}
	}
	if len(selected) > len(weighted) {
		selected = selected[:len(weighted)]
	}
	return selected
}
