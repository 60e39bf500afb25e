package result

import (
	"structscan/internal/entity"
	"structscan/internal/features"
	"structscan/internal/scoring"
)

// BuildCandidate assembles one entity's unified RefactoringCandidate from
// its scoring outcome and the recommendations its feature extractors
// produced, registering every emitted code in dict as it goes (spec §4.M).
func BuildCandidate(e *entity.Entity, scored scoring.Scored, recs []features.Recommendation, dict *Dictionary) *Candidate {
	c := &Candidate{
		EntityID:   e.ID,
		Name:       e.Name,
		File:       e.File,
		LineStart:  e.LineRange.Start,
		LineEnd:    e.LineRange.End,
		Priority:   scoring.PriorityFor(scored.Overall),
		Score:      scored.Overall,
		Confidence: scored.Confidence,
	}
	for _, rec := range recs {
		if entry, ok := issueCode[rec.Type]; ok {
			dict.Register(entry.Code, entry.Title, entry.Description)
			c.Issues = append(c.Issues, Issue{
				Code:        entry.Code,
				Category:    string(rec.Type),
				Severity:    rec.Impact,
				Description: rec.Description,
			})
		}
		if entry, ok := suggestionCode[rec.Type]; ok {
			dict.Register(entry.Code, entry.Title, entry.Description)
			c.Suggestions = append(c.Suggestions, Suggestion{
				Code:        entry.Code,
				Type:        string(rec.Type),
				Priority:    c.Priority,
				Effort:      rec.Effort,
				Description: entry.Description,
			})
		}
	}
	return c
}

// Rank sorts candidates by Score descending, ties broken by entity ID
// ascending; unlike scoring.Rank it does not break ties on dominant-category
// score or confidence. Callers
// that already have scoring.Scored values should sort those directly via
// scoring.Rank instead; this helper covers the case where only built
// Candidates remain (e.g. after filtering by needs_refactoring).
func Rank(candidates []*Candidate) []*Candidate {
	out := append([]*Candidate(nil), candidates...)
	for i := 1; i < len(out); i++ {
		j := i
		for j > 0 && less(out[j], out[j-1]) {
			out[j], out[j-1] = out[j-1], out[j]
			j--
		}
	}
	return out
}

func less(a, b *Candidate) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	return a.EntityID < b.EntityID
}
