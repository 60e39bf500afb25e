// Package result implements spec §4.M: the unified refactoring-candidate
// model and a lazily populated code dictionary mapping short stable codes
// to long-form titles/descriptions. Grounded on the teacher's CodeElement
// (internal/world/code_elements.go) for the "stable ref + typed record"
// shape, stripped of its Mangle-fact emission — this module has no
// Datalog reasoning kernel, so issues/suggestions carry plain struct
// fields instead of derived facts.
package result

import (
	"sort"
	"sync"

	"structscan/internal/entity"
	"structscan/internal/scoring"
)

// Issue is a single detected problem attached to a candidate.
type Issue struct {
	Code        string
	Category    string
	Severity    float64
	Description string
}

// Suggestion is a single proposed remediation attached to a candidate.
type Suggestion struct {
	Code        string
	Type        string
	Priority    scoring.Priority
	Effort      float64
	Description string
}

// Candidate is spec §3's RefactoringCandidate: one entity's refactoring
// assessment, ready for external report/oracle collaborators to render.
type Candidate struct {
	EntityID    entity.ID
	Name        string
	File        string
	LineStart   int
	LineEnd     int
	Priority    scoring.Priority
	Score       float64
	Confidence  float64
	Issues      []Issue
	Suggestions []Suggestion
}

// NeedsRefactoring reports whether any attached issue meets or exceeds the
// given severity threshold, matching spec §4.H's OR condition (the Overall
// >= 1.0 half is evaluated by the caller via scoring.NeedsRefactoring).
func (c *Candidate) NeedsRefactoring(severityThreshold float64) bool {
	for _, iss := range c.Issues {
		if iss.Severity >= severityThreshold {
			return true
		}
	}
	return false
}

// DictionaryEntry is one code's long-form rendering.
type DictionaryEntry struct {
	Code        string
	Title       string
	Description string
}

// Dictionary maps short, namespaced codes (e.g. "ISS.COMPLEXITY.CYCLO.HIGH",
// "SUG.EXTRACT.METHOD") to their long-form text. Populated lazily as
// issues/suggestions are produced; consumers reference codes only and
// resolve them once, at render time (spec §4.M).
type Dictionary struct {
	mu      sync.RWMutex
	entries map[string]DictionaryEntry
}

// NewDictionary returns an empty code dictionary.
func NewDictionary() *Dictionary {
	return &Dictionary{entries: make(map[string]DictionaryEntry)}
}

// Register adds a code's long-form text if not already present; re-registering
// the same code with a different title/description is a no-op so the first
// producer wins (codes are meant to carry one canonical meaning).
func (d *Dictionary) Register(code, title, description string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.entries[code]; exists {
		return
	}
	d.entries[code] = DictionaryEntry{Code: code, Title: title, Description: description}
}

// Lookup returns a code's dictionary entry, if registered.
func (d *Dictionary) Lookup(code string) (DictionaryEntry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.entries[code]
	return e, ok
}

// Entries returns all registered entries sorted by code, for a single
// once-per-report serialization (spec §4.M).
func (d *Dictionary) Entries() []DictionaryEntry {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]DictionaryEntry, 0, len(d.entries))
	for _, e := range d.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
