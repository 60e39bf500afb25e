package denoise

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structscan/internal/config"
	"structscan/internal/entity"
)

func TestStopMotifCacheSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stop_motifs.v1.json")

	c := NewStopMotifCache()
	c.Add(Motif{Pattern: "for i in range", Language: "python", Category: CategoryTokenSequence, WeightMultiplier: 0.2})
	require.NoError(t, c.Save(path))

	loaded, err := LoadStopMotifCache(path)
	require.NoError(t, err)
	assert.Equal(t, 0.2, loaded.WeightFor("for i in range", "python", CategoryTokenSequence))
	assert.Equal(t, 1.0, loaded.WeightFor("unseen pattern", "python", CategoryTokenSequence))
}

func TestLoadStopMotifCacheMissingFileIsEmpty(t *testing.T) {
	c, err := LoadStopMotifCache(filepath.Join(t.TempDir(), "nope.json"))
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.WeightFor("x", "go", CategoryNodeType))
}

func TestLoadStopMotifCacheVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "stop_motifs.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"version": 99, "motifs": []}`), 0o644))
	_, err := LoadStopMotifCache(path)
	require.Error(t, err)
}

func TestNormalizeTokenBucketsLiterals(t *testing.T) {
	assert.Equal(t, "INT_LIT", NormalizeToken("42", false))
	assert.Equal(t, "FLOAT_LIT", NormalizeToken("3.14", false))
	assert.Equal(t, "STRING_LIT", NormalizeToken(`"hello"`, false))
	assert.Equal(t, "identifier_name", NormalizeToken("identifier_name", false))
}

func TestNormalizeTokenAlphaRenamesShortLocals(t *testing.T) {
	assert.Equal(t, "LOCAL_VAR", NormalizeToken("x", true))
	assert.Equal(t, "qualified_name", NormalizeToken("qualified_name", true))
}

func TestRarityGainRewardsRareSharedTerms(t *testing.T) {
	model := BuildRarityModel(map[entity.ID][]string{
		"a": {"common term", "rare unique term"},
		"b": {"common term"},
		"c": {"common term"},
	})
	motifs := NewStopMotifCache()
	rare := model.RarityGain([]string{"rare unique term"}, motifs, "go")
	common := model.RarityGain([]string{"common term"}, motifs, "go")
	assert.Greater(t, rare, common)
}

func TestControllerRaisesFloorsOnLowPrecision(t *testing.T) {
	cfg := config.DefaultAutoCalibrationConfig()
	ctrl := NewController(cfg, Floors{Similarity: 0.5, Confidence: 0.5})
	ctrl.Recalibrate(0.5, 0.9)
	f := ctrl.Floors()
	assert.Greater(t, f.Similarity, 0.5)
}

func TestControllerLowersFloorsOnLowRecall(t *testing.T) {
	cfg := config.DefaultAutoCalibrationConfig()
	ctrl := NewController(cfg, Floors{Similarity: 0.5, Confidence: 0.5})
	ctrl.Recalibrate(0.95, 0.5)
	f := ctrl.Floors()
	assert.Less(t, f.Similarity, 0.5)
}

func TestControllerStabilityDropsWithVariance(t *testing.T) {
	cfg := config.DefaultAutoCalibrationConfig()
	ctrl := NewController(cfg, Floors{Similarity: 0.5, Confidence: 0.5})
	for _, f1 := range []float64{0.9, 0.1, 0.9, 0.1, 0.9} {
		ctrl.Observe(f1)
	}
	assert.Less(t, ctrl.Stability(), 1.0)
}

func TestPDGSimilarityRewardsSharedDefUseEdges(t *testing.T) {
	a := ExtractDefUseEdges("x = y + z\nreturn x")
	b := ExtractDefUseEdges("x = y + z\nreturn x")
	c := ExtractDefUseEdges("totally unrelated token stream here")
	assert.Equal(t, 1.0, PDGSimilarity(a, b))
	assert.Less(t, PDGSimilarity(a, c), 1.0)
}

func TestBlendSimilarityIgnoresEmbeddingWeightWhenUnavailable(t *testing.T) {
	w := Weights{AST: 0.5, PDG: 0.2, Emb: 0.3}
	withEmb := BlendSimilarity(w, 1.0, 1.0, 0.0, true)
	withoutEmb := BlendSimilarity(w, 1.0, 1.0, 0.0, false)
	assert.Less(t, withEmb, withoutEmb)
	assert.Equal(t, 1.0, withoutEmb)
}

func TestMineStopMotifsFoldsFrequentSharedShingles(t *testing.T) {
	shingles := map[entity.ID][]string{
		"a": {"for i in range"},
		"b": {"for i in range"},
		"c": {"for i in range"},
		"d": {"unique to d"},
	}
	files := map[entity.ID]string{"a": "a.py", "b": "b.py", "c": "c.py", "d": "d.py"}
	cache := NewStopMotifCache()
	mined := MineStopMotifs(cache, shingles, files, "python")
	assert.Equal(t, 1, mined)
	assert.Equal(t, MineWeightMultiplier, cache.WeightFor("for i in range", "python", CategoryTokenSequence))
	assert.Equal(t, 1.0, cache.WeightFor("unique to d", "python", CategoryTokenSequence))
}

func TestRankAppliesHardFloorsAndOrdersByPayoff(t *testing.T) {
	floors := RankingFloors{MinSavedTokens: 10, MinRarityGain: 0.1, MinConfidence: 0.5, MinQuality: 0.5}
	candidates := []Candidate{
		{EntityA: "a", EntityB: "b", SavedTokens: 5, RarityGain: 1, LiveReachBoost: 1, QualityScore: 1, Confidence: 1},
		{EntityA: "c", EntityB: "d", SavedTokens: 100, RarityGain: 0.5, LiveReachBoost: 1, QualityScore: 1, Confidence: 0.9},
		{EntityA: "e", EntityB: "f", SavedTokens: 50, RarityGain: 0.9, LiveReachBoost: 1, QualityScore: 1, Confidence: 0.95},
	}
	ranked := Rank(candidates, floors)
	require.Len(t, ranked, 2)
	assert.Equal(t, entity.ID("c"), ranked[0].EntityA)
}
