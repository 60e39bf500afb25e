package denoise

import (
	"sort"

	"structscan/internal/entity"
)

// Candidate is one clone-candidate pair carrying every signal payoff
// ranking needs (spec §4.F "Payoff ranking").
type Candidate struct {
	EntityA        entity.ID
	EntityB        entity.ID
	SavedTokens    int
	RarityGain     float64
	LiveReachBoost float64
	QualityScore   float64
	Confidence     float64
}

// Payoff computes spec §4.F's ranking score:
// SavedTokens × RarityGain × LiveReachBoost × QualityScore × Confidence.
func Payoff(c Candidate) float64 {
	return float64(c.SavedTokens) * c.RarityGain * c.LiveReachBoost * c.QualityScore * c.Confidence
}

// Rank applies the hard floors (saved-tokens, rarity gain, confidence,
// quality) and returns survivors sorted descending by payoff, ties broken
// by entity-ID pair for determinism.
func Rank(candidates []Candidate, ranking RankingFloors) []Candidate {
	var survivors []Candidate
	for _, c := range candidates {
		if c.SavedTokens < ranking.MinSavedTokens {
			continue
		}
		if c.RarityGain < ranking.MinRarityGain {
			continue
		}
		if c.Confidence < ranking.MinConfidence {
			continue
		}
		if c.QualityScore < ranking.MinQuality {
			continue
		}
		survivors = append(survivors, c)
	}
	sort.Slice(survivors, func(i, j int) bool {
		pi, pj := Payoff(survivors[i]), Payoff(survivors[j])
		if pi != pj {
			return pi > pj
		}
		if survivors[i].EntityA != survivors[j].EntityA {
			return survivors[i].EntityA < survivors[j].EntityA
		}
		return survivors[i].EntityB < survivors[j].EntityB
	})
	return survivors
}

// RankingFloors are the hard floors applied before payoff ranking (spec
// §4.F: "Hard floors reject anything with saved-tokens < min, confidence <
// min, or quality < min before ranking"), plus the rarity-gain floor from
// item 2.
type RankingFloors struct {
	MinSavedTokens int
	MinRarityGain  float64
	MinConfidence  float64
	MinQuality     float64
}
