package coverage

import (
	"encoding/xml"

	"structscan/internal/errs"
)

type jacocoDoc struct {
	Packages []jacocoPackage `xml:"package"`
}

type jacocoPackage struct {
	Name        string            `xml:"name,attr"`
	SourceFiles []jacocoSourceFile `xml:"sourcefile"`
}

type jacocoSourceFile struct {
	Name  string       `xml:"name,attr"`
	Lines []jacocoLine `xml:"line"`
}

type jacocoLine struct {
	Nr int `xml:"nr,attr"`
	CI int `xml:"ci,attr"` // instructions covered
	MI int `xml:"mi,attr"` // instructions missed
}

// ParseJaCoCo parses the JaCoCo XML grammar (spec §6):
// <report><package><sourcefile><line nr ci mi .../>. A line's hit count is
// derived as 1 if any instruction on it was covered (ci>0), else 0 — JaCoCo
// doesn't carry an explicit per-line invocation count.
func ParseJaCoCo(content []byte) (*Report, error) {
	var doc jacocoDoc
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, errs.ParseError("", "parsing JaCoCo XML", err)
	}
	r := NewReport()
	for _, pkg := range doc.Packages {
		for _, sf := range pkg.SourceFiles {
			path := sf.Name
			if pkg.Name != "" {
				path = pkg.Name + "/" + sf.Name
			}
			fc := r.fileFor(path)
			for _, ln := range sf.Lines {
				hits := 0
				if ln.CI > 0 {
					hits = 1
				}
				if hits > fc.Lines[ln.Nr] {
					fc.Lines[ln.Nr] = hits
				}
			}
		}
	}
	return r, nil
}
