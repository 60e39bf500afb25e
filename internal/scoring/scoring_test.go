package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"structscan/internal/config"
	"structscan/internal/entity"
)

func TestFitComputesStatsAndDiscardsNaN(t *testing.T) {
	s := Fit([]float64{1, 2, 3, 4, 5, math.NaN()})
	assert.Equal(t, 5, s.N)
	assert.Equal(t, 3.0, s.Mean)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
}

func TestNormalizeZScore(t *testing.T) {
	cfg := config.DefaultScoringConfig()
	cfg.Scheme = config.SchemeZScore
	s := Fit([]float64{1, 2, 3, 4, 5})
	z := Normalize(5, s, cfg)
	assert.Greater(t, z, 0.0)
}

func TestNormalizeFallsBackToBayesianOnZeroSpread(t *testing.T) {
	cfg := config.DefaultScoringConfig()
	cfg.Scheme = config.SchemeZScore
	cfg.UseBayesianFallbacks = true
	s := Fit([]float64{3, 3, 3})
	v := Normalize(3, s, cfg)
	assert.False(t, math.IsNaN(v))
}

func TestNormalizeMinMax(t *testing.T) {
	cfg := config.DefaultScoringConfig()
	cfg.Scheme = config.SchemeMinMax
	s := Fit([]float64{0, 5, 10})
	assert.Equal(t, 1.0, Normalize(10, s, cfg))
	assert.Equal(t, 0.0, Normalize(0, s, cfg))
}

func TestPriorityForThresholds(t *testing.T) {
	assert.Equal(t, PriorityCritical, PriorityFor(2.5))
	assert.Equal(t, PriorityHigh, PriorityFor(1.5))
	assert.Equal(t, PriorityMedium, PriorityFor(1.0))
	assert.Equal(t, PriorityLow, PriorityFor(0.5))
	assert.Equal(t, PriorityNone, PriorityFor(0.1))
}

func TestNeedsRefactoringEitherCondition(t *testing.T) {
	assert.True(t, NeedsRefactoring(1.2, 0, 0.8))
	assert.True(t, NeedsRefactoring(0, 0.9, 0.8))
	assert.False(t, NeedsRefactoring(0.5, 0.5, 0.8))
}

func TestRankOrdersByOverallThenDominantThenConfidenceThenID(t *testing.T) {
	scored := []Scored{
		{EntityID: "b", Overall: 1.0, DominantScore: 0.5, Confidence: 0.9},
		{EntityID: "a", Overall: 1.0, DominantScore: 0.5, Confidence: 0.9},
		{EntityID: "c", Overall: 2.0, DominantScore: 0.1, Confidence: 0.1},
	}
	ranked := Rank(scored)
	assert.Equal(t, entity.ID("c"), ranked[0].EntityID)
	assert.Equal(t, entity.ID("a"), ranked[1].EntityID)
	assert.Equal(t, entity.ID("b"), ranked[2].EntityID)
}

func TestHealthPenalizesOversizeEntities(t *testing.T) {
	cfg := config.DefaultScoringConfig()
	optimal := Health(30, "function", cfg)
	huge := Health(2000, "function", cfg)
	assert.Greater(t, optimal, huge)
}
