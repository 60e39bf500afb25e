package coverage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLCOV(t *testing.T) {
	content := "TN:\nSF:src/a.go\nDA:1,5\nDA:2,0\nend_of_record\n"
	r, err := ParseLCOV([]byte(content))
	require.NoError(t, err)
	fc := r.Files["src/a.go"]
	require.NotNil(t, fc)
	assert.Equal(t, 5, fc.Lines[1])
	assert.Equal(t, 0, fc.Lines[2])
}

func TestParseCobertura(t *testing.T) {
	xmlDoc := `<coverage line-rate="0.5"><packages><package><classes>
		<class filename="src/a.py"><lines><line number="1" hits="3"/><line number="2" hits="0"/></lines></class>
	</classes></package></packages></coverage>`
	r, err := ParseCobertura([]byte(xmlDoc))
	require.NoError(t, err)
	assert.Equal(t, 3, r.Files["src/a.py"].Lines[1])
}

func TestParseJaCoCo(t *testing.T) {
	xmlDoc := `<report><package name="com/x"><sourcefile name="A.java">
		<line nr="10" ci="4" mi="0"/><line nr="11" ci="0" mi="2"/>
	</sourcefile></package></report>`
	r, err := ParseJaCoCo([]byte(xmlDoc))
	require.NoError(t, err)
	fc := r.Files["com/x/A.java"]
	require.NotNil(t, fc)
	assert.Equal(t, 1, fc.Lines[10])
	assert.Equal(t, 0, fc.Lines[11])
}

func TestParseIstanbulFlatForm(t *testing.T) {
	doc := `{"/src/a.js": {"path": "/src/a.js", "l": {"1": 2, "2": 0}}}`
	r, err := ParseIstanbul([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, r.Files["/src/a.js"].Lines[1])
}

func TestParseIstanbulNestedForm(t *testing.T) {
	doc := `{"/src/b.js": {"path": "/src/b.js", "statementMap": {"0": {"start": {"line": 5}}}, "s": {"0": 7}}}`
	r, err := ParseIstanbul([]byte(doc))
	require.NoError(t, err)
	assert.Equal(t, 7, r.Files["/src/b.js"].Lines[5])
}

func TestParseTarpaulin(t *testing.T) {
	doc := `{"files": [{"path": ["src", "a.rs"], "traces": [{"line": 3, "stats": {"Line": 9}}, {"line": 4, "stats": null}]}]}`
	r, err := ParseTarpaulin([]byte(doc))
	require.NoError(t, err)
	fc := r.Files["src/a.rs"]
	require.NotNil(t, fc)
	assert.Equal(t, 9, fc.Lines[3])
	_, ok := fc.Lines[4]
	assert.False(t, ok)
}

func TestDetectFormatByContentAndExtension(t *testing.T) {
	assert.Equal(t, FormatLCOV, DetectFormat("x.info", []byte("TN:\nSF:a\n")))
	assert.Equal(t, FormatCobertura, DetectFormat("coverage.xml", []byte(`<coverage line-rate="1"></coverage>`)))
	assert.Equal(t, FormatUnknown, DetectFormat("x.bin", []byte("garbage")))
}

func TestReportMergeTakesMax(t *testing.T) {
	a := NewReport()
	a.fileFor("x.go").Lines[1] = 2
	b := NewReport()
	b.fileFor("x.go").Lines[1] = 5
	a.Merge(b)
	assert.Equal(t, 5, a.Files["x.go"].Lines[1])
}
