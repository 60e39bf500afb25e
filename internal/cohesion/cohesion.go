package cohesion

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"

	"go.uber.org/zap"

	"structscan/internal/config"
	"structscan/internal/entity"
	"structscan/internal/obs"
)

// Result is one entity's cohesion analysis outcome.
type Result struct {
	EntityID             entity.ID
	Symbols              []string
	SimilarityToCentroid float64
	IsOutlier            bool
	DocAlignmentScore    float64
	DocMisaligned        bool
}

// DocSummaryFunc returns a short doc summary for an entity (empty if none),
// supplied by the caller so this package stays independent of the
// documentation extractor.
type DocSummaryFunc func(e *entity.Entity) string

// Analyze runs spec §4.L end to end over a set of entities bucketed by
// directory: extracts symbols, embeds code text (via cache-then-provider),
// computes per-directory trimmed-mean centroids, and flags outliers and
// doc-misaligned entities.
func Analyze(ctx context.Context, entities []*entity.Entity, provider Provider, cache *Cache, docSummary DocSummaryFunc, cfg config.CohesionConfig) (map[entity.ID]*Result, error) {
	perEntitySymbols := make(map[entity.ID][]string, len(entities))
	for _, e := range entities {
		perEntitySymbols[e.ID] = ExtractIdentifiers(e.Source)
	}
	corpus := BuildCorpus(perEntitySymbols)

	results := make(map[entity.ID]*Result, len(entities))
	codeTexts := make(map[entity.ID]string, len(entities))
	var textsToEmbed []string
	seen := make(map[string]bool)

	for _, e := range entities {
		symbols := corpus.SelectSymbols(perEntitySymbols[e.ID], cfg)
		doc := ""
		if docSummary != nil {
			doc = docSummary(e)
		}
		text := BuildCodeText(e, symbols, doc)
		codeTexts[e.ID] = text
		results[e.ID] = &Result{EntityID: e.ID, Symbols: symbols}
		if !seen[text] {
			seen[text] = true
			if cache == nil {
				textsToEmbed = append(textsToEmbed, text)
				continue
			}
			if _, ok := cache.Get(text); !ok {
				textsToEmbed = append(textsToEmbed, text)
			}
		}
	}

	if len(textsToEmbed) > 0 {
		vecs, err := provider.EmbedBatch(ctx, textsToEmbed)
		if err != nil {
			return nil, fmt.Errorf("cohesion: embedding batch: %w", err)
		}
		if len(vecs) != len(textsToEmbed) {
			return nil, fmt.Errorf("cohesion: provider returned %d embeddings for %d texts", len(vecs), len(textsToEmbed))
		}
		for i, t := range textsToEmbed {
			if cache != nil {
				cache.Put(t, vecs[i])
			}
		}
		obs.For(obs.CategoryCohesion).Info("embedded code texts", zap.Int("count", len(textsToEmbed)), zap.String("provider", provider.Name()))
	}

	vecByEntity := make(map[entity.ID][]float32, len(entities))
	for _, e := range entities {
		text := codeTexts[e.ID]
		var vec []float32
		if cache != nil {
			if v, ok := cache.Get(text); ok {
				vec = v
			}
		}
		if vec == nil {
			v, err := provider.Embed(ctx, text)
			if err != nil {
				return nil, fmt.Errorf("cohesion: embedding entity %s: %w", e.ID, err)
			}
			vec = v
			if cache != nil {
				cache.Put(text, v)
			}
		}
		vecByEntity[e.ID] = vec
	}

	byDir := make(map[string][]*entity.Entity)
	for _, e := range entities {
		dir := filepath.Dir(e.File)
		byDir[dir] = append(byDir[dir], e)
	}

	for _, bucket := range byDir {
		vecs := make([][]float32, 0, len(bucket))
		for _, e := range bucket {
			vecs = append(vecs, vecByEntity[e.ID])
		}
		centroid := TrimmedMeanCentroid(vecs, cfg.TrimFractionBottom)
		sims := make([]float64, 0, len(bucket))
		for _, e := range bucket {
			sims = append(sims, CosineSimilarity(vecByEntity[e.ID], centroid))
		}
		for i, e := range bucket {
			r := results[e.ID]
			r.SimilarityToCentroid = sims[i]
			r.IsOutlier = OutlierFlag(sims[i], sims, cfg.Thresholds)
			if docSummary != nil {
				if doc := docSummary(e); doc != "" {
					docVec, err := provider.Embed(ctx, doc)
					if err == nil {
						r.DocAlignmentScore, r.DocMisaligned = DocAlignment(vecByEntity[e.ID], docVec, cfg.Thresholds)
					}
				}
			}
		}
	}

	return results, nil
}

// SortedDirs returns the directories of a set of entities in stable order,
// useful for deterministic reporting.
func SortedDirs(entities []*entity.Entity) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, e := range entities {
		d := filepath.Dir(e.File)
		if !seen[d] {
			seen[d] = true
			dirs = append(dirs, d)
		}
	}
	sort.Strings(dirs)
	return dirs
}
