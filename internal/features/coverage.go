package features

import (
	"structscan/internal/coverage"
	"structscan/internal/entity"
)

// CoverageExtractor surfaces per-entity line coverage as a feature (spec
// §4.G "Coverage"), sourced from whichever coverage report the pipeline
// parsed for the entity's file. Entities in files the coverage report
// never saw (no report supplied, or the file wasn't instrumented) produce
// no features rather than a misleading zero.
type CoverageExtractor struct {
	report *coverage.Report
}

// NewCoverageExtractor wraps an already-parsed/merged coverage report. A
// nil report is valid — Extract then always returns nil.
func NewCoverageExtractor(report *coverage.Report) *CoverageExtractor {
	return &CoverageExtractor{report: report}
}

func (c *CoverageExtractor) Name() string { return "coverage" }

func (c *CoverageExtractor) Schema() []Schema {
	return []Schema{
		{Name: "coverage.line_rate", Description: "fraction of the entity's lines hit at least once", Min: 0, Max: 1, Default: 1, Polarity: PolarityPositive},
		{Name: "coverage.uncovered_lines", Description: "count of instrumented lines never hit", Min: 0, Max: 0, Default: 0, Polarity: PolarityNegative},
	}
}

func (c *CoverageExtractor) Extract(e *entity.Entity, _ Context) map[string]float64 {
	if c.report == nil {
		return nil
	}
	fc, ok := c.report.Files[e.File]
	if !ok || len(fc.Lines) == 0 {
		return nil
	}
	instrumented, hit := 0, 0
	for line, count := range fc.Lines {
		if line < e.LineRange.Start || line > e.LineRange.End {
			continue
		}
		instrumented++
		if count > 0 {
			hit++
		}
	}
	if instrumented == 0 {
		return nil
	}
	return map[string]float64{
		"coverage.line_rate":        float64(hit) / float64(instrumented),
		"coverage.uncovered_lines":  float64(instrumented - hit),
	}
}
