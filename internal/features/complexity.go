package features

import (
	"sync"

	"structscan/internal/astsvc"
	"structscan/internal/entity"
)

// decisionKinds names AST node kinds that add one decision point to
// cyclomatic complexity, covering both the Go reflect-derived kind names
// (adapters/goadapter) and tree-sitter's python grammar node types
// (adapters/pyadapter), since a single feature extractor runs over every
// language (spec §4.G complexity: "decision points + 1").
var decisionKinds = map[string]bool{
	"IfStmt": true, "ForStmt": true, "RangeStmt": true,
	"SwitchStmt": true, "TypeSwitchStmt": true, "CaseClause": true,
	"CommClause": true, "SelectStmt": true,
	"if_statement": true, "elif_clause": true, "for_statement": true,
	"while_statement": true, "case_clause": true, "except_clause": true,
	"conditional_expression": true, "boolean_operator": true,
}

// nestingKinds are the subset of decisionKinds that also open a new
// nesting level for cognitive-complexity weighting (loops and
// conditionals, not switch arms).
var nestingKinds = map[string]bool{
	"IfStmt": true, "ForStmt": true, "RangeStmt": true,
	"SwitchStmt": true, "TypeSwitchStmt": true, "SelectStmt": true,
	"if_statement": true, "elif_clause": true, "for_statement": true,
	"while_statement": true,
}

// ComplexityExtractor computes cyclomatic/cognitive complexity, max
// nesting depth, parameter count, and LOC for function/method entities
// (spec §4.G "Complexity"). Results are cached per file since scanning the
// whole file's AST once and deriving every entity's features from the
// deepest covering node is cheaper than re-walking per entity.
type ComplexityExtractor struct {
	cacheMu sync.Mutex
	cache   map[string]*fileComplexity
}

// NewComplexityExtractor creates an extractor with an empty per-file cache.
func NewComplexityExtractor() *ComplexityExtractor {
	return &ComplexityExtractor{cache: make(map[string]*fileComplexity)}
}

func (c *ComplexityExtractor) Name() string { return "complexity" }

func (c *ComplexityExtractor) Schema() []Schema {
	return []Schema{
		{Name: "complexity.cyclomatic", Description: "decision points + 1", Min: 1, Max: 0, Default: 1, Polarity: PolarityNegative},
		{Name: "complexity.cognitive", Description: "nesting-weighted decision count", Min: 0, Max: 0, Default: 0, Polarity: PolarityNegative},
		{Name: "complexity.max_nesting_depth", Description: "deepest nested decision level", Min: 0, Max: 0, Default: 0, Polarity: PolarityNegative},
		{Name: "complexity.param_count", Description: "declared parameter count", Min: 0, Max: 0, Default: 0, Polarity: PolarityNegative},
		{Name: "complexity.loc", Description: "lines spanned by the entity", Min: 0, Max: 0, Default: 0, Polarity: PolarityNegative},
	}
}

func (c *ComplexityExtractor) Extract(e *entity.Entity, ctx Context) map[string]float64 {
	out := map[string]float64{
		"complexity.param_count": float64(len(paramList(e))),
		"complexity.loc":         float64(e.LineRange.End - e.LineRange.Start + 1),
	}
	if e.Kind != entity.KindFunction && e.Kind != entity.KindMethod {
		return out
	}
	if ctx.AST == nil || ctx.AST.Root == nil || e.ByteRange == nil {
		out["complexity.cyclomatic"] = 1
		return out
	}
	node := c.fileMetrics(e.File, ctx.AST.Root).nodeFor(e.ByteRange.Start, e.ByteRange.End)
	if node == nil {
		out["complexity.cyclomatic"] = 1
		return out
	}
	decisions, cognitive, depth := walkComplexity(node, 0)
	out["complexity.cyclomatic"] = float64(decisions + 1)
	out["complexity.cognitive"] = float64(cognitive)
	out["complexity.max_nesting_depth"] = float64(depth)
	return out
}

func paramList(e *entity.Entity) []string {
	raw, ok := e.Properties["parameters"]
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

// walkComplexity returns (decision-point count, cognitive score, max
// nesting depth) over the subtree rooted at n (spec §4.G).
func walkComplexity(n *astsvc.Node, depth int) (decisions, cognitive, maxDepth int) {
	isDecision := decisionKinds[n.Kind]
	isNesting := nestingKinds[n.Kind]
	if isDecision {
		decisions++
		cognitive += 1 + depth
	}
	childDepth := depth
	if isNesting {
		childDepth = depth + 1
		if childDepth > maxDepth {
			maxDepth = childDepth
		}
	}
	if depth > maxDepth {
		maxDepth = depth
	}
	for _, child := range n.Children {
		d, cog, md := walkComplexity(child, childDepth)
		decisions += d
		cognitive += cog
		if md > maxDepth {
			maxDepth = md
		}
	}
	return decisions, cognitive, maxDepth
}

type fileComplexity struct {
	root *astsvc.Node
}

func (f *fileComplexity) nodeFor(start, end int) *astsvc.Node {
	return narrowest(f.root, start, end)
}

// narrowest finds the smallest node whose byte range contains [start,end),
// mirroring astsvc.Context.FindEntityNode's own narrowing search.
func narrowest(n *astsvc.Node, start, end int) *astsvc.Node {
	if n == nil || !n.Contains(start, end) {
		return nil
	}
	best := n
	for _, c := range n.Children {
		if found := narrowest(c, start, end); found != nil && found.Width() < best.Width() {
			best = found
		}
	}
	return best
}

func (c *ComplexityExtractor) fileMetrics(file string, root *astsvc.Node) *fileComplexity {
	c.cacheMu.Lock()
	defer c.cacheMu.Unlock()
	if cached, ok := c.cache[file]; ok {
		return cached
	}
	fc := &fileComplexity{root: root}
	c.cache[file] = fc
	return fc
}
