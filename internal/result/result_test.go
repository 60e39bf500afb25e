package result

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structscan/internal/entity"
	"structscan/internal/features"
	"structscan/internal/scoring"
)

func TestDictionaryRegisterIsIdempotentPerCode(t *testing.T) {
	d := NewDictionary()
	d.Register("ISS.X", "First", "first desc")
	d.Register("ISS.X", "Second", "second desc")
	entry, ok := d.Lookup("ISS.X")
	require.True(t, ok)
	assert.Equal(t, "First", entry.Title)
}

func TestDictionaryEntriesSortedByCode(t *testing.T) {
	d := NewDictionary()
	d.Register("ISS.B", "B", "")
	d.Register("ISS.A", "A", "")
	entries := d.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "ISS.A", entries[0].Code)
	assert.Equal(t, "ISS.B", entries[1].Code)
}

func TestBuildCandidateRegistersIssueAndSuggestionCodes(t *testing.T) {
	e := &entity.Entity{ID: "e1", Name: "DoThing", File: "a.go", LineRange: entity.LineRange{Start: 1, End: 80}}
	scored := scoring.Scored{EntityID: "e1", Overall: 1.7, DominantScore: 1.0, Confidence: 0.9}
	recs := []features.Recommendation{
		{EntityID: "e1", Type: features.RecommendationLongMethod, Description: "too long", Impact: 0.8, Effort: 0.5, Location: "a.go:1"},
	}
	dict := NewDictionary()
	c := BuildCandidate(e, scored, recs, dict)

	assert.Equal(t, scoring.PriorityHigh, c.Priority)
	require.Len(t, c.Issues, 1)
	assert.Equal(t, "ISS.SIZE.METHOD.LONG", c.Issues[0].Code)
	require.Len(t, c.Suggestions, 1)
	assert.Equal(t, "SUG.EXTRACT.METHOD", c.Suggestions[0].Code)
	_, ok := dict.Lookup("ISS.SIZE.METHOD.LONG")
	assert.True(t, ok)
	_, ok = dict.Lookup("SUG.EXTRACT.METHOD")
	assert.True(t, ok)
}

func TestCandidateNeedsRefactoringChecksIssueSeverity(t *testing.T) {
	c := &Candidate{Issues: []Issue{{Severity: 0.9}}}
	assert.True(t, c.NeedsRefactoring(0.8))
	assert.False(t, c.NeedsRefactoring(0.95))
}

func TestRankOrdersByScoreThenEntityID(t *testing.T) {
	candidates := []*Candidate{
		{EntityID: "b", Score: 1.0},
		{EntityID: "a", Score: 1.0},
		{EntityID: "c", Score: 2.0},
	}
	ranked := Rank(candidates)
	assert.Equal(t, entity.ID("c"), ranked[0].EntityID)
	assert.Equal(t, entity.ID("a"), ranked[1].EntityID)
	assert.Equal(t, entity.ID("b"), ranked[2].EntityID)
}
