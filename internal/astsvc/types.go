// Package astsvc implements the AST service (spec §4.A): it caches parsed
// trees by key and hands out read-only views and node-range lookups to the
// rest of the pipeline. The actual parsing is delegated to an external
// LanguageAdapter (spec §6) — this package treats language parsers as a
// black box, exactly as spec §1 scopes them.
package astsvc

import "structscan/internal/entity"

// ImportType classifies how a module was imported (spec §6).
type ImportType string

const (
	ImportDefault ImportType = "default"
	ImportNamed   ImportType = "named"
	ImportStar    ImportType = "star"
	ImportRequire ImportType = "require"
)

// ImportStatement is one import/require recorded by a language adapter.
type ImportStatement struct {
	Module     string
	Imports    []string
	ImportType ImportType
}

// CallRef is a single observed call site, keyed by the caller entity and
// the raw (unresolved) callee text as written in source. Resolution to a
// target entity happens in internal/depgraph, not here.
type CallRef struct {
	CallerID entity.ID
	Callee   string // raw text, e.g. "self.foo", "pkg.Bar", "this.baz"
	Line     int
}

// ParseIndex is the typed parse result a language adapter produces for one
// file (spec §6: parse_source(source, path) -> ParseIndex).
type ParseIndex struct {
	Entities []*entity.Entity
	Calls    []CallRef
	Imports  []ImportStatement
}

// Node is a simplified, language-agnostic AST node: a kind label plus a
// byte range and children. It is deliberately minimal — just enough for
// node-range lookup (FindEntityNode) and for internal/apted to build its
// own restricted simplified tree from it.
type Node struct {
	Kind      string
	ByteStart int
	ByteEnd   int
	Children  []*Node
}

// Contains reports whether the node's byte range fully covers [start,end).
func (n *Node) Contains(start, end int) bool {
	return n.ByteStart <= start && end <= n.ByteEnd
}

// Width returns the node's byte-range width.
func (n *Node) Width() int { return n.ByteEnd - n.ByteStart }

// ParseError is the adapter failure kind (spec §4.A / §7): callers may fall
// back to entity-local source when this occurs.
type ParseError struct {
	Path   string
	Detail string
}

func (e *ParseError) Error() string { return "parse error in " + e.Path + ": " + e.Detail }
