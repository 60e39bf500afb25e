// Package pyadapter is the reference Python language adapter (spec §6),
// grounded on the teacher's PythonCodeParser (internal/world/python_parser.go):
// same tree-sitter walk over class_definition/function_definition/
// decorated_definition with class-to-method parent linking, adapted to the
// spec's Entity/ParseIndex shape instead of CodeElement/Mangle facts.
package pyadapter

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"structscan/internal/astsvc"
	"structscan/internal/entity"
)

// Adapter implements astsvc.LanguageAdapter for Python source.
type Adapter struct{}

// New creates a Python language adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Language() string     { return "python" }
func (a *Adapter) Extensions() []string { return []string{".py", ".pyw"} }

func (a *Adapter) parser() *sitter.Parser {
	p := sitter.NewParser()
	p.SetLanguage(python.GetLanguage())
	return p
}

func (a *Adapter) ParseSource(path, source string) (*astsvc.ParseIndex, error) {
	content := []byte(source)
	tree, err := a.parser().ParseCtx(context.Background(), nil, content)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	idx := &astsvc.ParseIndex{}
	classRefs := make(map[string]entity.ID)
	a.walk(tree.RootNode(), path, content, "", classRefs, idx)
	return idx, nil
}

func (a *Adapter) walk(node *sitter.Node, path string, content []byte, parentID entity.ID, classRefs map[string]entity.ID, idx *astsvc.ParseIndex) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "class_definition":
			e := a.entityFromDef(child, path, content, entity.KindClass, parentID)
			idx.Entities = append(idx.Entities, e)
			classRefs[e.Name] = e.ID
			if body := child.ChildByFieldName("body"); body != nil {
				a.walk(body, path, content, e.ID, classRefs, idx)
			}
		case "function_definition":
			e, calls := a.funcEntity(child, path, content, parentID, false)
			idx.Entities = append(idx.Entities, e)
			idx.Calls = append(idx.Calls, calls...)
		case "decorated_definition":
			for j := 0; j < int(child.NamedChildCount()); j++ {
				inner := child.NamedChild(j)
				if inner.Type() == "function_definition" {
					e, calls := a.funcEntity(inner, path, content, parentID, true)
					idx.Entities = append(idx.Entities, e)
					idx.Calls = append(idx.Calls, calls...)
				}
			}
		case "import_statement", "import_from_statement":
			idx.Imports = append(idx.Imports, a.importStatement(child, content))
		default:
			a.walk(child, path, content, parentID, classRefs, idx)
		}
	}
}

func (a *Adapter) entityFromDef(n *sitter.Node, path string, content []byte, kind entity.Kind, parentID entity.ID) *entity.Entity {
	nameNode := n.ChildByFieldName("name")
	name := ""
	if nameNode != nil {
		name = text(nameNode, content)
	}
	start, end := int(n.StartByte()), int(n.EndByte())
	return &entity.Entity{
		ID:        entity.ID(fmt.Sprintf("%s:%d:%s", path, n.StartPoint().Row+1, name)),
		Kind:      kind,
		Name:      name,
		File:      path,
		LineRange: entity.LineRange{Start: int(n.StartPoint().Row) + 1, End: int(n.EndPoint().Row) + 1},
		ByteRange: &entity.ByteRange{Start: start, End: end},
		NodeKind:  n.Type(),
		Source:    string(content[start:end]),
		ParentID:  parentID,
		Properties: map[string]any{
			"qualified_name": name,
		},
	}
}

func (a *Adapter) funcEntity(n *sitter.Node, path string, content []byte, parentID entity.ID, decorated bool) (*entity.Entity, []astsvc.CallRef) {
	kind := entity.KindFunction
	if parentID != "" {
		kind = entity.KindMethod
	}
	e := a.entityFromDef(n, path, content, kind, parentID)
	e.Properties["is_async"] = isAsyncDef(n, content)
	e.Properties["decorated"] = decorated

	var calls []astsvc.CallRef
	var callNames []string
	if body := n.ChildByFieldName("body"); body != nil {
		calls = collectCalls(e.ID, body, content)
		for _, c := range calls {
			callNames = append(callNames, c.Callee)
		}
	}
	e.Properties["function_calls"] = callNames
	return e, calls
}

func isAsyncDef(n *sitter.Node, content []byte) bool {
	if n.ChildCount() == 0 {
		return false
	}
	return strings.HasPrefix(text(n, content), "async ")
}

func (a *Adapter) importStatement(n *sitter.Node, content []byte) astsvc.ImportStatement {
	raw := text(n, content)
	module := raw
	importType := astsvc.ImportDefault
	if strings.HasPrefix(raw, "from ") {
		importType = astsvc.ImportNamed
		parts := strings.SplitN(raw, " import ", 2)
		if len(parts) == 2 {
			module = strings.TrimPrefix(parts[0], "from ")
		}
	}
	return astsvc.ImportStatement{Module: strings.TrimSpace(module), Imports: nil, ImportType: importType}
}

func collectCalls(callerID entity.ID, node *sitter.Node, content []byte) []astsvc.CallRef {
	var calls []astsvc.CallRef
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "call" {
			if fn := n.ChildByFieldName("function"); fn != nil {
				calls = append(calls, astsvc.CallRef{
					CallerID: callerID,
					Callee:   text(fn, content),
					Line:     int(n.StartPoint().Row) + 1,
				})
			}
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(node)
	return calls
}

// ParseTree builds a language-agnostic simplified tree from tree-sitter's
// concrete syntax tree.
func (a *Adapter) ParseTree(source string) (*astsvc.Node, error) {
	tree, err := a.parser().ParseCtx(context.Background(), nil, []byte(source))
	if err != nil {
		return nil, err
	}
	defer tree.Close()
	return convert(tree.RootNode()), nil
}

func convert(n *sitter.Node) *astsvc.Node {
	node := &astsvc.Node{
		Kind:      n.Type(),
		ByteStart: int(n.StartByte()),
		ByteEnd:   int(n.EndByte()),
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		node.Children = append(node.Children, convert(n.NamedChild(i)))
	}
	return node
}

// NormalizeSource strips comments via a tree-sitter walk, keeping only
// non-comment leaf text, with a raw fallback on parse failure.
func (a *Adapter) NormalizeSource(source string) string {
	tree, err := a.parser().ParseCtx(context.Background(), nil, []byte(source))
	if err != nil {
		return source
	}
	defer tree.Close()
	content := []byte(source)
	var b strings.Builder
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "comment" {
			return
		}
		if n.NamedChildCount() == 0 {
			b.Write(content[n.StartByte():n.EndByte()])
			b.WriteByte(' ')
			return
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(tree.RootNode())
	return b.String()
}

func (a *Adapter) CountASTNodes(source string) int {
	tree, err := a.parser().ParseCtx(context.Background(), nil, []byte(source))
	if err != nil {
		return 0
	}
	defer tree.Close()
	count := 0
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		count++
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(tree.RootNode())
	return count
}

func (a *Adapter) CountDistinctBlocks(source string) int {
	tree, err := a.parser().ParseCtx(context.Background(), nil, []byte(source))
	if err != nil {
		return 0
	}
	defer tree.Close()
	count := 0
	var walk func(*sitter.Node)
	walk = func(n *sitter.Node) {
		if n.Type() == "block" {
			count++
		}
		for i := 0; i < int(n.NamedChildCount()); i++ {
			walk(n.NamedChild(i))
		}
	}
	walk(tree.RootNode())
	return count
}

func text(n *sitter.Node, content []byte) string {
	return string(content[n.StartByte():n.EndByte()])
}
