package coverage

import (
	"encoding/json"
	"strings"

	"structscan/internal/errs"
)

type tarpaulinDoc struct {
	Files []tarpaulinFile `json:"files"`
}

type tarpaulinFile struct {
	Path   []string         `json:"path"`
	Traces []tarpaulinTrace `json:"traces"`
}

type tarpaulinTrace struct {
	Line  int                `json:"line"`
	Stats *tarpaulinLineStat `json:"stats"`
}

type tarpaulinLineStat struct {
	Line *int `json:"Line"`
}

// ParseTarpaulin parses cargo-tarpaulin's JSON grammar (spec §6):
// {files:[{path:[segments], traces:[{line, stats:{Line:hits}|null}]}]}.
// path is joined with "/" to form the file key; a null stats object means
// the line wasn't instrumented and is skipped.
func ParseTarpaulin(content []byte) (*Report, error) {
	var doc tarpaulinDoc
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, errs.ParseError("", "parsing Tarpaulin JSON", err)
	}
	r := NewReport()
	for _, f := range doc.Files {
		fc := r.fileFor(strings.Join(f.Path, "/"))
		for _, tr := range f.Traces {
			if tr.Stats == nil || tr.Stats.Line == nil {
				continue
			}
			hits := *tr.Stats.Line
			if hits > fc.Lines[tr.Line] {
				fc.Lines[tr.Line] = hits
			}
		}
	}
	return r, nil
}
