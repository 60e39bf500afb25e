package scoring

import (
	"math"

	"structscan/internal/config"
)

// z95 is the standard normal quantile at the 95th percentile, used to
// solve for a lognormal's sigma from a (median, p95) pair.
const z95 = 1.6448536269514722

// fitLognormal solves mu/sigma for a lognormal distribution whose median
// is optimal and whose 95th percentile is p95 (spec §4.H: "lognormal
// fitted to (optimal, 95th-pct) params per entity kind").
func fitLognormal(optimal, p95 float64) (mu, sigma float64) {
	if optimal <= 0 {
		optimal = 1
	}
	if p95 <= optimal {
		p95 = optimal * 2
	}
	mu = math.Log(optimal)
	sigma = (math.Log(p95) - mu) / z95
	if sigma <= 0 {
		sigma = 0.5
	}
	return mu, sigma
}

// lognormalCDF evaluates the fitted lognormal's CDF at x.
func lognormalCDF(x, mu, sigma float64) float64 {
	if x <= 0 {
		return 0
	}
	return 0.5 * (1 + math.Erf((math.Log(x)-mu)/(sigma*math.Sqrt2)))
}

func sigmoid(t float64) float64 { return 1 / (1 + math.Exp(-t)) }

// Health computes spec §4.H's "Health shaping" value for an entity's size
// (LOC) given its kind's configured shape params: the lognormal CDF value
// feeds a logistic penalty curve, flat near the optimum, steep around the
// transition, and saturating for extreme outliers.
func Health(loc float64, kind string, cfg config.ScoringConfig) float64 {
	params, ok := cfg.HealthShapes[kind]
	if !ok {
		return 1
	}
	mu, sigma := fitLognormal(params.OptimalLOC, params.P95LOC)
	u := lognormalCDF(loc, mu, sigma)
	steepness := params.Steepness
	if steepness == 0 {
		steepness = 0.15
	}
	return 1 - sigmoid((u-params.Center)/steepness)
}
