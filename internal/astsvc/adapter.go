package astsvc

// LanguageAdapter is the external contract every language plugin satisfies
// (spec §6). The AST service and pipeline depend only on this interface;
// adapters/goadapter and adapters/pyadapter are reference implementations.
type LanguageAdapter interface {
	// Language returns the adapter's language identifier, e.g. "go", "python".
	Language() string

	// Extensions lists the file extensions this adapter claims, including
	// the leading dot, e.g. []string{".go"}.
	Extensions() []string

	// ParseSource parses one file's source into entities, calls, and
	// imports (spec §6 parse_source). path is recorded on the returned
	// entities (their File and ID).
	ParseSource(path, source string) (*ParseIndex, error)

	// ParseTree returns the raw simplified AST for source, used by the AST
	// service's node-range lookups and by internal/apted's tree-edit-distance
	// comparisons. Adapters that cannot produce a tree economically may
	// return (nil, nil); the clone stage then keeps the LSH-estimated
	// similarity for that pair instead of a tree-edit-distance score.
	ParseTree(source string) (*Node, error)

	// NormalizeSource strips comments/whitespace noise for shingling (spec
	// §4.C "normalize_source").
	NormalizeSource(source string) string

	// CountASTNodes and CountDistinctBlocks report the AST-node and block
	// counts of source. No extractor or pipeline stage in this module calls
	// them.
	CountASTNodes(source string) int
	CountDistinctBlocks(source string) int
}

// Registry resolves a file path to the adapter that owns its extension.
type Registry struct {
	byExt map[string]LanguageAdapter
}

// NewRegistry builds a registry from a set of adapters, last-registration-wins
// on extension collision.
func NewRegistry(adapters ...LanguageAdapter) *Registry {
	r := &Registry{byExt: make(map[string]LanguageAdapter)}
	for _, a := range adapters {
		for _, ext := range a.Extensions() {
			r.byExt[ext] = a
		}
	}
	return r
}

// For returns the adapter registered for path's extension, or nil.
func (r *Registry) For(path string) LanguageAdapter {
	ext := extOf(path)
	return r.byExt[ext]
}

func extOf(path string) string {
	dot := -1
	for i := len(path) - 1; i >= 0; i-- {
		if path[i] == '/' {
			break
		}
		if path[i] == '.' {
			dot = i
			break
		}
	}
	if dot < 0 {
		return ""
	}
	return path[dot:]
}
