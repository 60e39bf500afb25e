package coverage

import (
	"encoding/json"
	"strconv"

	"structscan/internal/errs"
)

type istanbulFile struct {
	Path          string                     `json:"path"`
	L             map[string]int             `json:"l"`
	StatementMap  map[string]istanbulStmtLoc `json:"statementMap"`
	S             map[string]int             `json:"s"`
}

type istanbulStmtLoc struct {
	Start struct {
		Line int `json:"line"`
	} `json:"start"`
}

// ParseIstanbul parses Istanbul JSON coverage (spec §6): either a flat
// per-file `l: {line: hits}` map, or the nested `statementMap` + `s` form
// where statement IDs must be resolved to their starting line first.
func ParseIstanbul(content []byte) (*Report, error) {
	var raw map[string]istanbulFile
	if err := json.Unmarshal(content, &raw); err != nil {
		return nil, errs.ParseError("", "parsing Istanbul JSON", err)
	}
	r := NewReport()
	for key, f := range raw {
		path := f.Path
		if path == "" {
			path = key
		}
		fc := r.fileFor(path)
		for lineStr, hits := range f.L {
			line, err := strconv.Atoi(lineStr)
			if err != nil {
				continue
			}
			if hits > fc.Lines[line] {
				fc.Lines[line] = hits
			}
		}
		for stmtID, hits := range f.S {
			loc, ok := f.StatementMap[stmtID]
			if !ok {
				continue
			}
			if hits > fc.Lines[loc.Start.Line] {
				fc.Lines[loc.Start.Line] = hits
			}
		}
	}
	return r, nil
}
