package denoise

import (
	"time"

	"structscan/internal/config"
)

// Floors are the two thresholds the auto-calibration controller adjusts.
type Floors struct {
	Similarity float64
	Confidence float64
}

// Controller is the auto-calibration threshold controller (spec §4.F item
// 3): observes precision/recall feedback and nudges the similarity and
// confidence floors, bounded and rate-limited, recalibrating only when the
// rolling F1 stability drops or the thresholds have aged out. Grounded on
// original_source/src/detectors/clone_detection/calibration_engine.rs,
// implemented with the exact numeric bounds that file and spec §4.F item 3
// specify.
type Controller struct {
	cfg    config.AutoCalibrationConfig
	floors Floors

	f1History      []float64
	lastCalibrated time.Time
}

// NewController creates a controller seeded with initial floor values.
func NewController(cfg config.AutoCalibrationConfig, initial Floors) *Controller {
	return &Controller{cfg: cfg, floors: initial, lastCalibrated: time.Now()}
}

// Floors returns the current similarity/confidence floors.
func (c *Controller) Floors() Floors { return c.floors }

// Observe records one round's F1 feedback, keeping only the last 10 F1
// samples for the stability metric.
func (c *Controller) Observe(f1 float64) {
	c.f1History = append(c.f1History, f1)
	if len(c.f1History) > 10 {
		c.f1History = c.f1History[len(c.f1History)-10:]
	}
}

// Stability is 1/(1+var(last-10 F1)) (spec §4.F item 3).
func (c *Controller) Stability() float64 {
	n := len(c.f1History)
	if n == 0 {
		return 1
	}
	mean := 0.0
	for _, v := range c.f1History {
		mean += v
	}
	mean /= float64(n)
	variance := 0.0
	for _, v := range c.f1History {
		d := v - mean
		variance += d * d
	}
	variance /= float64(n)
	return 1 / (1 + variance)
}

// ShouldRecalibrate reports whether recalibration is due: stability below
// the configured floor, or the current floors have aged past MaxAgeSeconds.
func (c *Controller) ShouldRecalibrate() bool {
	if !c.cfg.Enabled {
		return false
	}
	if c.Stability() < c.cfg.StabilityFloor {
		return true
	}
	age := time.Since(c.lastCalibrated)
	return age.Seconds() > float64(c.cfg.MaxAgeSeconds)
}

// Recalibrate applies spec §4.F item 3's adjustment rule: precision below
// target raises both floors by at most MaxAdjustPct; recall below target
// lowers them by at most MaxAdjustPct; both clamp to [MinFloor, MaxFloor].
// Precision takes precedence when both conditions hold, since the spec
// never states a deliberate tie-break and over-tightening is the safer
// default for a denoise filter.
func (c *Controller) Recalibrate(precision, recall float64) {
	adjust := 0.0
	switch {
	case precision < c.cfg.TargetPrecision:
		adjust = c.cfg.MaxAdjustPct
	case recall < c.cfg.TargetRecall:
		adjust = -c.cfg.MaxAdjustPct
	}
	if adjust != 0 {
		c.floors.Similarity = clamp(c.floors.Similarity*(1+adjust), c.cfg.MinFloor, c.cfg.MaxFloor)
		c.floors.Confidence = clamp(c.floors.Confidence*(1+adjust), c.cfg.MinFloor, c.cfg.MaxFloor)
	}
	c.lastCalibrated = time.Now()
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
