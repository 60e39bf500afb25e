package coverage

import (
	"encoding/xml"

	"structscan/internal/errs"
)

type coberturaDoc struct {
	Packages []coberturaPackage `xml:"packages>package"`
}

type coberturaPackage struct {
	Classes []coberturaClass `xml:"classes>class"`
}

type coberturaClass struct {
	Filename string          `xml:"filename,attr"`
	Lines    []coberturaLine `xml:"lines>line"`
}

type coberturaLine struct {
	Number int `xml:"number,attr"`
	Hits   int `xml:"hits,attr"`
}

// ParseCobertura parses the Cobertura/python-coverage XML grammar (spec
// §6): <coverage>...<line number hits .../>, grouped per class/filename.
func ParseCobertura(content []byte) (*Report, error) {
	var doc coberturaDoc
	if err := xml.Unmarshal(content, &doc); err != nil {
		return nil, errs.ParseError("", "parsing Cobertura XML", err)
	}
	r := NewReport()
	for _, pkg := range doc.Packages {
		for _, cls := range pkg.Classes {
			fc := r.fileFor(cls.Filename)
			for _, ln := range cls.Lines {
				if ln.Hits > fc.Lines[ln.Number] {
					fc.Lines[ln.Number] = ln.Hits
				}
			}
		}
	}
	return r, nil
}
