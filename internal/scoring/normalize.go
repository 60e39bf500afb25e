package scoring

import "structscan/internal/config"

// Normalize maps one raw value to a normalized score given the fitted
// stats and configured scheme (spec §4.H "normalize(vectors)"). When the
// selected scheme's denominator degenerates (zero spread) and
// UseBayesianFallbacks is set, falls back to Bayesian shrinkage so a
// feature with too little observed variance doesn't produce a divide-by-
// zero NaN or an arbitrarily large score.
func Normalize(v float64, s Stats, cfg config.ScoringConfig) float64 {
	switch cfg.Scheme {
	case config.SchemeMinMax:
		if s.Max == s.Min {
			return fallback(v, s, cfg)
		}
		return (v - s.Min) / (s.Max - s.Min)
	case config.SchemeRobustZ:
		if s.MAD == 0 {
			return fallback(v, s, cfg)
		}
		return (v - s.Median) / (1.4826 * s.MAD)
	case config.SchemeBayesian:
		return bayesianShrinkage(v, s, cfg)
	default: // SchemeZScore
		if s.StdDev == 0 {
			return fallback(v, s, cfg)
		}
		return (v - s.Mean) / s.StdDev
	}
}

func fallback(v float64, s Stats, cfg config.ScoringConfig) float64 {
	if cfg.UseBayesianFallbacks {
		return bayesianShrinkage(v, s, cfg)
	}
	return 0
}

// bayesianShrinkage blends the observed mean toward a configured prior
// mean, weighted by sample size vs. a configured prior weight, then scores
// against the shrunk mean using stddev (or 1 when that's also degenerate).
func bayesianShrinkage(v float64, s Stats, cfg config.ScoringConfig) float64 {
	if s.N == 0 {
		return 0
	}
	n := float64(s.N)
	shrunkMean := (n*s.Mean + cfg.BayesianPriorWeight*cfg.BayesianPriorMean) / (n + cfg.BayesianPriorWeight)
	spread := s.StdDev
	if spread == 0 {
		spread = 1
	}
	return (v - shrunkMean) / spread
}
