// Package entity defines the addressable unit of source (spec §3) and the
// interner/pool machinery that gives tokens and shingles stable IDs within
// a parse session. Grounded on the teacher's CodeElement struct
// (internal/world/code_elements.go), stripped of its Mangle-fact emission
// and generalized to the spec's open-ended property map and parent/children
// tree.
package entity

import (
	"fmt"
	"sync"
)

// Kind is the semantic category of an entity.
type Kind string

const (
	KindFunction  Kind = "function"
	KindMethod    Kind = "method"
	KindClass     Kind = "class"
	KindStruct    Kind = "struct"
	KindEnum      Kind = "enum"
	KindInterface Kind = "interface"
	KindModule    Kind = "module"
	KindVariable  Kind = "variable"
	KindConstant  Kind = "constant"
)

// LineRange is an inclusive 1-indexed line span.
type LineRange struct {
	Start int
	End   int
}

// Valid reports whether the range satisfies the spec §3 invariant
// line_range.start <= line_range.end.
func (r LineRange) Valid() bool { return r.Start <= r.End }

// ByteRange is an optional half-open byte span into the source file.
type ByteRange struct {
	Start int
	End   int
}

// ID uniquely identifies an entity within a parse session.
type ID string

// Entity is an addressable unit of source extracted by the (external) AST
// adapter.
type Entity struct {
	ID         ID
	Kind       Kind
	Name       string
	File       string
	LineRange  LineRange
	ByteRange  *ByteRange
	NodeKind   string // optional recorded AST node kind, used by astsvc.FindEntityNode
	Source     string
	Properties map[string]any // qualified name, parameters, is_async, function_calls, ...

	ParentID ID
	Children []ID
}

// FunctionCalls extracts the normalized callee names an adapter recorded
// under the "function_calls" property, tolerating both []string and
// []interface{} (adapters may populate this from dynamically typed JSON).
func (e *Entity) FunctionCalls() []string {
	raw, ok := e.Properties["function_calls"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// Index owns entities for the duration of a pipeline run and is the single
// point downstream components borrow entities by ID from (spec §3
// "Ownership").
type Index struct {
	mu       sync.RWMutex
	entities map[ID]*Entity
	byFile   map[string][]ID
	order    []ID
}

// NewIndex creates an empty entity index.
func NewIndex() *Index {
	return &Index{
		entities: make(map[ID]*Entity),
		byFile:   make(map[string][]ID),
	}
}

// Add inserts an entity. Returns an error if the range invariant is violated
// or the ID is already present (spec §3: id unique within a parse session).
func (idx *Index) Add(e *Entity) error {
	if !e.LineRange.Valid() {
		return fmt.Errorf("entity %s: invalid line range %d..%d", e.ID, e.LineRange.Start, e.LineRange.End)
	}
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if _, exists := idx.entities[e.ID]; exists {
		return fmt.Errorf("entity %s: duplicate ID in parse session", e.ID)
	}
	idx.entities[e.ID] = e
	idx.byFile[e.File] = append(idx.byFile[e.File], e.ID)
	idx.order = append(idx.order, e.ID)
	return nil
}

// Get returns the entity for an ID, or nil if absent.
func (idx *Index) Get(id ID) *Entity {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return idx.entities[id]
}

// All returns every entity in insertion order (deterministic iteration is
// required for the reproducibility invariants in spec §8).
func (idx *Index) All() []*Entity {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	out := make([]*Entity, 0, len(idx.order))
	for _, id := range idx.order {
		out = append(out, idx.entities[id])
	}
	return out
}

// ForFile returns the entity IDs recorded for a given file.
func (idx *Index) ForFile(file string) []ID {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	ids := idx.byFile[file]
	out := make([]ID, len(ids))
	copy(out, ids)
	return out
}

// Len returns the number of entities in the index.
func (idx *Index) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entities)
}

// ByNameLower returns every entity whose Name, lowercased, matches. Used by
// the dependency analyzer's call-name resolution (spec §4.I).
func (idx *Index) ByNameLower(nameLower string) []*Entity {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var out []*Entity
	for _, id := range idx.order {
		e := idx.entities[id]
		if lower(e.Name) == nameLower {
			out = append(out, e)
		}
	}
	return out
}

func lower(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c + ('a' - 'A')
		}
	}
	return string(b)
}
