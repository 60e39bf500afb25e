package features

import (
	"strings"

	"structscan/internal/entity"
)

// commentPrefixes covers the line-comment and docstring-leading tokens of
// every adapter language the pack's reference adapters support.
var commentPrefixes = []string{"//", "#", "/*", "\"\"\"", "'''"}

// DocumentationExtractor scans for missing or thin docstrings per entity
// by looking at the source lines immediately preceding the entity's range
// (spec §4.G "Documentation": "scans for missing/incomplete docstrings per
// language"). README staleness detection is commit-graph-aware and out of
// this extractor's per-entity scope — it runs at the structure/pipeline
// level where git history is available, not per entity.
type DocumentationExtractor struct {
	minDocLength int
}

// NewDocumentationExtractor creates an extractor; minDocLength is the
// minimum doc-comment character count before a doc counts as "complete"
// rather than a stub (e.g. a lone "// TODO").
func NewDocumentationExtractor(minDocLength int) *DocumentationExtractor {
	return &DocumentationExtractor{minDocLength: minDocLength}
}

func (d *DocumentationExtractor) Name() string { return "documentation" }

func (d *DocumentationExtractor) Schema() []Schema {
	return []Schema{
		{Name: "documentation.has_doc", Description: "1 if a doc comment immediately precedes the entity", Min: 0, Max: 1, Default: 0, Polarity: PolarityPositive},
		{Name: "documentation.doc_length", Description: "character count of the preceding doc comment block", Min: 0, Max: 0, Default: 0, Polarity: PolarityPositive},
		{Name: "documentation.incomplete", Description: "1 if a doc exists but is shorter than the minimum length", Min: 0, Max: 1, Default: 0, Polarity: PolarityNegative},
	}
}

func (d *DocumentationExtractor) Extract(e *entity.Entity, ctx Context) map[string]float64 {
	if e.Kind != entity.KindFunction && e.Kind != entity.KindMethod &&
		e.Kind != entity.KindClass && e.Kind != entity.KindStruct &&
		e.Kind != entity.KindInterface && e.Kind != entity.KindModule {
		return nil
	}
	source := ""
	if ctx.AST != nil {
		source = ctx.AST.Source
	}
	if source == "" {
		source = e.Source
	}
	if source == "" {
		return map[string]float64{"documentation.has_doc": 0}
	}
	lines := strings.Split(source, "\n")
	docLen := precedingDocLength(lines, e.LineRange.Start)
	if docLen == 0 {
		return map[string]float64{"documentation.has_doc": 0}
	}
	out := map[string]float64{
		"documentation.has_doc":  1,
		"documentation.doc_length": float64(docLen),
	}
	if docLen < d.minDocLength {
		out["documentation.incomplete"] = 1
	}
	return out
}

// precedingDocLength walks upward from the line just above startLine
// (1-indexed, inclusive of comment/blank lines) accumulating comment-line
// character counts, stopping at the first non-comment, non-blank line.
func precedingDocLength(lines []string, startLine int) int {
	total := 0
	for i := startLine - 2; i >= 0 && i < len(lines); i-- {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			if total > 0 {
				break
			}
			continue
		}
		if !hasCommentPrefix(trimmed) {
			break
		}
		total += len(trimmed)
	}
	return total
}

func hasCommentPrefix(line string) bool {
	for _, p := range commentPrefixes {
		if strings.HasPrefix(line, p) || strings.HasSuffix(line, p) {
			return true
		}
	}
	return false
}
