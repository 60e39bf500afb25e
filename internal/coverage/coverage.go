// Package coverage parses the five coverage report formats spec §6 lists
// (LCOV, Cobertura, JaCoCo, Istanbul, Tarpaulin) into a single per-file
// per-line hit-count model, auto-detected by magic bytes plus extension. No
// teacher file parses coverage formats; these are bespoke line-oriented and
// XML/JSON grammars with no general-purpose parser library anywhere in the
// pack addressing them, so this package is stdlib encoding/xml and
// encoding/json only — the justification-required exception applies
// because the formats are small, fixed, and not a general parsing need.
package coverage

import (
	"strings"

	"structscan/internal/errs"
)

// FileCoverage holds one source file's per-line hit counts.
type FileCoverage struct {
	Path  string
	Lines map[int]int // 1-indexed line -> hit count
}

// Report is the merged coverage model across every file a run discovered.
type Report struct {
	Files map[string]*FileCoverage
}

// NewReport creates an empty report.
func NewReport() *Report {
	return &Report{Files: make(map[string]*FileCoverage)}
}

// fileFor returns (creating if needed) the FileCoverage for path.
func (r *Report) fileFor(path string) *FileCoverage {
	fc, ok := r.Files[path]
	if !ok {
		fc = &FileCoverage{Path: path, Lines: make(map[int]int)}
		r.Files[path] = fc
	}
	return fc
}

// Merge folds src into r, taking the max hit count per (file, line) — spec
// §8: "parsers are idempotent on their own output of the same file set;
// line hits are merged by max."
func (r *Report) Merge(src *Report) {
	for path, fc := range src.Files {
		dst := r.fileFor(path)
		for line, hits := range fc.Lines {
			if hits > dst.Lines[line] {
				dst.Lines[line] = hits
			}
		}
	}
}

// Format names a recognized coverage report format.
type Format string

const (
	FormatLCOV      Format = "lcov"
	FormatCobertura Format = "cobertura"
	FormatJaCoCo    Format = "jacoco"
	FormatIstanbul  Format = "istanbul"
	FormatTarpaulin Format = "tarpaulin"
	FormatUnknown   Format = "unknown"
)

// DetectFormat classifies raw report content by magic bytes/structure and
// falls back to extension when content alone is ambiguous (spec §6:
// "auto-detected by magic + extension").
func DetectFormat(path string, content []byte) Format {
	trimmed := strings.TrimSpace(string(content))
	switch {
	case strings.HasPrefix(trimmed, "TN:") || strings.HasPrefix(trimmed, "SF:") || strings.Contains(trimmed, "end_of_record"):
		return FormatLCOV
	case strings.Contains(trimmed, "<coverage") && strings.Contains(trimmed, "line-rate"):
		return FormatCobertura
	case strings.Contains(trimmed, "<report") && strings.Contains(trimmed, "<sourcefile"):
		return FormatJaCoCo
	case strings.HasPrefix(trimmed, "{") && strings.Contains(trimmed, "\"traces\""):
		return FormatTarpaulin
	case strings.HasPrefix(trimmed, "{") && (strings.Contains(trimmed, "\"statementMap\"") || strings.Contains(trimmed, "\"l\":")):
		return FormatIstanbul
	}
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".lcov") || strings.HasSuffix(lower, ".info"):
		return FormatLCOV
	case strings.Contains(lower, "cobertura"):
		return FormatCobertura
	case strings.Contains(lower, "jacoco"):
		return FormatJaCoCo
	case strings.HasSuffix(lower, ".json"):
		return FormatIstanbul
	}
	return FormatUnknown
}

// Parse dispatches to the detected format's parser and returns a Report.
func Parse(path string, content []byte) (*Report, error) {
	switch DetectFormat(path, content) {
	case FormatLCOV:
		return ParseLCOV(content)
	case FormatCobertura:
		return ParseCobertura(content)
	case FormatJaCoCo:
		return ParseJaCoCo(content)
	case FormatTarpaulin:
		return ParseTarpaulin(content)
	case FormatIstanbul:
		return ParseIstanbul(content)
	default:
		return nil, errs.ParseError(path, "unrecognized coverage report format", nil)
	}
}
