// Package goadapter is the reference Go language adapter (spec §6),
// grounded on the teacher's GoCodeParser (internal/world/go_parser.go):
// same declaration walk and receiver/struct linking, built on go/ast
// instead of emitting Mangle facts, and returning the spec's open-ended
// Entity/ParseIndex shape instead of CodeElement.
package goadapter

import (
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"
	"strings"

	"structscan/internal/astsvc"
	"structscan/internal/entity"
)

// Adapter implements astsvc.LanguageAdapter for Go source.
type Adapter struct{}

// New creates a Go language adapter.
func New() *Adapter { return &Adapter{} }

func (a *Adapter) Language() string     { return "go" }
func (a *Adapter) Extensions() []string { return []string{".go"} }

// ParseSource walks a Go file's top-level declarations into entities
// (functions, methods, structs, interfaces), recording receiver-to-struct
// linkage the way the teacher's buildRef/structRefs pass does.
func (a *Adapter) ParseSource(path, source string) (*astsvc.ParseIndex, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, source, parser.ParseComments)
	if err != nil {
		return nil, err
	}
	pkgName := file.Name.Name

	structRefs := make(map[string]entity.ID)
	for _, decl := range file.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.TYPE {
			continue
		}
		for _, spec := range gd.Specs {
			ts, ok := spec.(*ast.TypeSpec)
			if !ok {
				continue
			}
			if _, isStruct := ts.Type.(*ast.StructType); isStruct {
				structRefs[ts.Name.Name] = entity.ID(fmt.Sprintf("struct:%s.%s", pkgName, ts.Name.Name))
			}
		}
	}

	idx := &astsvc.ParseIndex{}
	for _, decl := range file.Decls {
		switch d := decl.(type) {
		case *ast.FuncDecl:
			e, calls := a.parseFuncDecl(fset, d, path, pkgName, source, structRefs)
			idx.Entities = append(idx.Entities, e)
			idx.Calls = append(idx.Calls, calls...)
		case *ast.GenDecl:
			idx.Entities = append(idx.Entities, a.parseGenDecl(fset, d, path, pkgName, source)...)
			if d.Tok == token.IMPORT {
				idx.Imports = append(idx.Imports, a.parseImports(d)...)
			}
		}
	}
	return idx, nil
}

func (a *Adapter) parseFuncDecl(fset *token.FileSet, d *ast.FuncDecl, path, pkgName, source string, structRefs map[string]entity.ID) (*entity.Entity, []astsvc.CallRef) {
	kind := entity.KindFunction
	parent := entity.ID("")
	if d.Recv != nil && len(d.Recv.List) > 0 {
		kind = entity.KindMethod
		if ref, ok := structRefs[receiverTypeName(d.Recv.List[0].Type)]; ok {
			parent = ref
		}
	}

	startPos := fset.Position(d.Pos())
	endPos := fset.Position(d.End())
	id := entity.ID(fmt.Sprintf("%s:%d:%s.%s", path, startPos.Line, pkgName, d.Name.Name))

	calls := collectCalls(id, d.Body, fset)
	callNames := make([]string, 0, len(calls))
	for _, c := range calls {
		callNames = append(callNames, c.Callee)
	}

	e := &entity.Entity{
		ID:        id,
		Kind:      kind,
		Name:      d.Name.Name,
		File:      path,
		LineRange: entity.LineRange{Start: startPos.Line, End: endPos.Line},
		ByteRange: &entity.ByteRange{Start: startPos.Offset, End: endPos.Offset},
		NodeKind:  "FuncDecl",
		Source:    sliceSource(source, startPos.Offset, endPos.Offset),
		ParentID:  parent,
		Properties: map[string]any{
			"qualified_name": fmt.Sprintf("%s.%s", pkgName, d.Name.Name),
			"parameters":     paramNames(d.Type.Params),
			"is_async":       false,
			"is_exported":    d.Name.IsExported(),
			"function_calls": callNames,
			"returns_error":  returnsError(d.Type),
		},
	}
	return e, calls
}

func (a *Adapter) parseGenDecl(fset *token.FileSet, d *ast.GenDecl, path, pkgName, source string) []*entity.Entity {
	if d.Tok != token.TYPE {
		return nil
	}
	var out []*entity.Entity
	for _, spec := range d.Specs {
		ts, ok := spec.(*ast.TypeSpec)
		if !ok {
			continue
		}
		kind := entity.KindStruct
		if _, isIface := ts.Type.(*ast.InterfaceType); isIface {
			kind = entity.KindInterface
		}
		startPos := fset.Position(ts.Pos())
		endPos := fset.Position(ts.End())
		out = append(out, &entity.Entity{
			ID:        entity.ID(fmt.Sprintf("%s:%s.%s", path, pkgName, ts.Name.Name)),
			Kind:      kind,
			Name:      ts.Name.Name,
			File:      path,
			LineRange: entity.LineRange{Start: startPos.Line, End: endPos.Line},
			ByteRange: &entity.ByteRange{Start: startPos.Offset, End: endPos.Offset},
			NodeKind:  "TypeSpec",
			Source:    sliceSource(source, startPos.Offset, endPos.Offset),
			Properties: map[string]any{
				"qualified_name": fmt.Sprintf("%s.%s", pkgName, ts.Name.Name),
				"is_exported":    ts.Name.IsExported(),
			},
		})
	}
	return out
}

func (a *Adapter) parseImports(d *ast.GenDecl) []astsvc.ImportStatement {
	var out []astsvc.ImportStatement
	for _, spec := range d.Specs {
		is, ok := spec.(*ast.ImportSpec)
		if !ok {
			continue
		}
		path := strings.Trim(is.Path.Value, `"`)
		importType := astsvc.ImportDefault
		name := path
		if is.Name != nil {
			name = is.Name.Name
			if is.Name.Name == "_" {
				importType = astsvc.ImportStar
			} else {
				importType = astsvc.ImportNamed
			}
		}
		out = append(out, astsvc.ImportStatement{Module: path, Imports: []string{name}, ImportType: importType})
	}
	return out
}

// ParseTree builds a language-agnostic simplified tree mirroring go/ast's
// node structure, byte-ranged via the file set's Position.Offset.
func (a *Adapter) ParseTree(source string) (*astsvc.Node, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", source, parser.ParseComments)
	if err != nil {
		return nil, err
	}

	var root *astsvc.Node
	var stack []*astsvc.Node
	ast.Inspect(file, func(n ast.Node) bool {
		if n == nil {
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			return true
		}
		node := &astsvc.Node{
			Kind:      reflect.TypeOf(n).Elem().Name(),
			ByteStart: fset.Position(n.Pos()).Offset,
			ByteEnd:   fset.Position(n.End()).Offset,
		}
		if len(stack) == 0 {
			root = node
		} else {
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, node)
		}
		stack = append(stack, node)
		return true
	})
	return root, nil
}

// NormalizeSource reduces a file to the source text of its top-level
// declarations for shingling (spec §4.C), which drops the package clause
// and comments between declarations; comments inside a declaration's
// source range are kept. It falls back to the raw source on parse failure
// so a malformed file never blocks shingling entirely.
func (a *Adapter) NormalizeSource(source string) string {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", source, 0)
	if err != nil {
		return source
	}
	var b strings.Builder
	for _, decl := range file.Decls {
		start := fset.Position(decl.Pos()).Offset
		end := fset.Position(decl.End()).Offset
		if start >= 0 && end <= len(source) && start <= end {
			b.WriteString(source[start:end])
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (a *Adapter) CountASTNodes(source string) int {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", source, 0)
	if err != nil {
		return 0
	}
	count := 0
	ast.Inspect(file, func(n ast.Node) bool {
		if n != nil {
			count++
		}
		return true
	})
	return count
}

func (a *Adapter) CountDistinctBlocks(source string) int {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, "", source, 0)
	if err != nil {
		return 0
	}
	count := 0
	ast.Inspect(file, func(n ast.Node) bool {
		if _, ok := n.(*ast.BlockStmt); ok {
			count++
		}
		return true
	})
	return count
}

func receiverTypeName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return receiverTypeName(t.X)
	case *ast.Ident:
		return t.Name
	default:
		return ""
	}
}

func paramNames(fl *ast.FieldList) []string {
	if fl == nil {
		return nil
	}
	var out []string
	for _, f := range fl.List {
		if len(f.Names) == 0 {
			out = append(out, "_")
			continue
		}
		for _, n := range f.Names {
			out = append(out, n.Name)
		}
	}
	return out
}

func returnsError(ft *ast.FuncType) bool {
	if ft.Results == nil {
		return false
	}
	for _, f := range ft.Results.List {
		if id, ok := f.Type.(*ast.Ident); ok && id.Name == "error" {
			return true
		}
	}
	return false
}

func sliceSource(source string, start, end int) string {
	if start < 0 || end > len(source) || start > end {
		return ""
	}
	return source[start:end]
}

func collectCalls(callerID entity.ID, body *ast.BlockStmt, fset *token.FileSet) []astsvc.CallRef {
	if body == nil {
		return nil
	}
	var calls []astsvc.CallRef
	ast.Inspect(body, func(n ast.Node) bool {
		call, ok := n.(*ast.CallExpr)
		if !ok {
			return true
		}
		name := calleeText(call.Fun)
		if name == "" {
			return true
		}
		calls = append(calls, astsvc.CallRef{
			CallerID: callerID,
			Callee:   name,
			Line:     fset.Position(call.Pos()).Line,
		})
		return true
	})
	return calls
}

func calleeText(expr ast.Expr) string {
	switch f := expr.(type) {
	case *ast.Ident:
		return f.Name
	case *ast.SelectorExpr:
		if base := calleeText(f.X); base != "" {
			return base + "." + f.Sel.Name
		}
		return f.Sel.Name
	default:
		return ""
	}
}
