package denoise

import "structscan/internal/entity"

// MineFloor is the minimum distinct-file occurrence count a token-sequence
// shingle needs before it's folded into the stop-motif cache as a
// corpus-mined motif (original_source/src/io/cache/ast_stop_motif_miner.rs;
// spec.md §4.F is silent on how a cache is first populated).
const MineFloor = 3

// MineWeightMultiplier is the dampening weight assigned to a freshly mined
// motif — gentler than a hand-curated motif's typical weight, since a
// mined pattern is only a frequency signal, not a vetted idiom.
const MineWeightMultiplier = 0.5

// MineStopMotifs scans the corpus's per-entity normalized shingles and
// folds any shingle occurring in at least MineFloor distinct files into
// cache as a TokenSequence motif. The cache is changed in memory only; the
// pipeline's clone stage mines before it builds the rarity model and does
// not save the cache, so mined motifs dampen rarity scores within the run
// that mined them and are not carried over to later runs.
func MineStopMotifs(cache *StopMotifCache, perEntityShingles map[entity.ID][]string, fileOf map[entity.ID]string, language string) int {
	fileSetByShingle := make(map[string]map[string]bool)
	for id, shingles := range perEntityShingles {
		file := fileOf[id]
		seen := make(map[string]bool, len(shingles))
		for _, s := range shingles {
			if seen[s] {
				continue
			}
			seen[s] = true
			set, ok := fileSetByShingle[s]
			if !ok {
				set = make(map[string]bool)
				fileSetByShingle[s] = set
			}
			set[file] = true
		}
	}
	mined := 0
	for shingle, files := range fileSetByShingle {
		if len(files) < MineFloor {
			continue
		}
		if cache.WeightFor(shingle, language, CategoryTokenSequence) != 1.0 {
			continue // already a known motif, don't overwrite a curated weight
		}
		cache.Add(Motif{
			Pattern: shingle, Language: language,
			Category: CategoryTokenSequence, WeightMultiplier: MineWeightMultiplier,
		})
		mined++
	}
	return mined
}
