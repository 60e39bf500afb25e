package coverage

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"

	"structscan/internal/errs"
)

// ParseLCOV parses the LCOV tracefile grammar (spec §6): SF: opens a file
// record, DA:line,hits records a line's hit count, end_of_record closes it.
func ParseLCOV(content []byte) (*Report, error) {
	r := NewReport()
	scanner := bufio.NewScanner(bytes.NewReader(content))
	var current *FileCoverage
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "SF:"):
			current = r.fileFor(strings.TrimPrefix(line, "SF:"))
		case strings.HasPrefix(line, "DA:"):
			if current == nil {
				continue
			}
			fields := strings.SplitN(strings.TrimPrefix(line, "DA:"), ",", 2)
			if len(fields) != 2 {
				continue
			}
			lineNo, err1 := strconv.Atoi(fields[0])
			hits, err2 := strconv.Atoi(strings.SplitN(fields[1], ",", 2)[0])
			if err1 != nil || err2 != nil {
				continue
			}
			if hits > current.Lines[lineNo] {
				current.Lines[lineNo] = hits
			}
		case line == "end_of_record":
			current = nil
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errs.ParseError("", "scanning LCOV content", err)
	}
	return r, nil
}
