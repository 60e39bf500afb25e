// Package denoise implements the three interlocking clone-candidate
// filters of spec §4.F: a persisted stop-motif cache, TF-IDF rarity
// scoring, and an auto-calibration threshold controller, feeding a final
// payoff ranking. Grounded on the teacher's vector_store.go atomic
// temp-then-rename cache-write pattern for the stop-motif cache, and on
// original_source/src/io/cache/ast_stop_motif_miner.rs and
// calibration_engine.rs for the supplemented mining/calibration behavior.
package denoise

import (
	"encoding/json"
	"os"
	"path/filepath"

	"structscan/internal/errs"
)

// Category classifies a stop motif's pattern kind (spec §4.F item 1).
type Category string

const (
	CategoryNodeType           Category = "NodeType"
	CategorySubtreePattern     Category = "SubtreePattern"
	CategoryTokenSequence      Category = "TokenSequence"
	CategoryControlFlowPattern Category = "ControlFlowPattern"
	CategoryFrameworkPattern   Category = "FrameworkPattern"
)

// CurrentStopMotifVersion is the on-disk cache schema version this package
// writes and expects to read.
const CurrentStopMotifVersion = 1

// Motif is one recorded common structural pattern.
type Motif struct {
	Pattern          string   `json:"pattern"`
	Language         string   `json:"language"`
	Category         Category `json:"category"`
	WeightMultiplier float64  `json:"weight_multiplier"`
}

type motifKey struct {
	pattern  string
	language string
	category Category
}

// StopMotifCache is the persisted index of common patterns (spec §3
// "Stop-motif cache"). Versioned JSON, written atomically via a
// temp-file-then-rename so a crash never leaves a half-written cache.
type StopMotifCache struct {
	Version int     `json:"version"`
	Motifs  []Motif `json:"motifs"`

	byKey map[motifKey]float64
}

// NewStopMotifCache creates an empty cache at the current schema version.
func NewStopMotifCache() *StopMotifCache {
	return &StopMotifCache{Version: CurrentStopMotifVersion, byKey: make(map[motifKey]float64)}
}

// Add records a motif, overwriting any existing weight for the same key.
func (c *StopMotifCache) Add(m Motif) {
	if c.byKey == nil {
		c.byKey = make(map[motifKey]float64)
	}
	c.Motifs = append(c.Motifs, m)
	c.byKey[motifKey{m.Pattern, m.Language, m.Category}] = m.WeightMultiplier
}

// WeightFor returns the recorded weight_multiplier for a pattern, or 1.0
// (no dampening) when no motif matches.
func (c *StopMotifCache) WeightFor(pattern, language string, category Category) float64 {
	if c == nil || c.byKey == nil {
		return 1.0
	}
	if w, ok := c.byKey[motifKey{pattern, language, category}]; ok {
		return w
	}
	return 1.0
}

// LoadStopMotifCache reads a cache file, rejecting a schema version other
// than CurrentStopMotifVersion with errs.CacheVersionMismatch. A missing
// file is not an error: callers get a fresh empty cache.
func LoadStopMotifCache(path string) (*StopMotifCache, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return NewStopMotifCache(), nil
	}
	if err != nil {
		return nil, errs.IoError(path, "reading stop motif cache", err)
	}
	var c StopMotifCache
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, errs.ParseError(path, "corrupt stop motif cache JSON", err)
	}
	if c.Version != CurrentStopMotifVersion {
		return nil, errs.CacheVersionMismatch(path, c.Version)
	}
	c.byKey = make(map[motifKey]float64, len(c.Motifs))
	for _, m := range c.Motifs {
		c.byKey[motifKey{m.Pattern, m.Language, m.Category}] = m.WeightMultiplier
	}
	return &c, nil
}

// Save writes the cache to path atomically: marshal to a sibling temp file,
// fsync, then rename over the destination.
func (c *StopMotifCache) Save(path string) error {
	c.Version = CurrentStopMotifVersion
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errs.InternalError("marshaling stop motif cache: " + err.Error())
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errs.IoError(dir, "creating stop motif cache directory", err)
	}
	tmp, err := os.CreateTemp(dir, ".stop_motifs-*.tmp")
	if err != nil {
		return errs.IoError(path, "creating temp cache file", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errs.IoError(path, "writing temp cache file", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errs.IoError(path, "syncing temp cache file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errs.IoError(path, "closing temp cache file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errs.IoError(path, "renaming temp cache file into place", err)
	}
	return nil
}
