package goadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `package sample

import "fmt"

type Greeter struct {
	Name string
}

func (g *Greeter) Greet() string {
	return fmt.Sprintf("hello %s", g.Name)
}

func main() {
	g := &Greeter{Name: "world"}
	fmt.Println(g.Greet())
}
`

func TestParseSourceExtractsEntitiesAndCalls(t *testing.T) {
	a := New()
	idx, err := a.ParseSource("sample.go", sample)
	require.NoError(t, err)
	require.Len(t, idx.Entities, 3) // struct, method, func

	names := map[string]bool{}
	for _, e := range idx.Entities {
		names[e.Name] = true
	}
	assert.True(t, names["Greeter"])
	assert.True(t, names["Greet"])
	assert.True(t, names["main"])

	require.Len(t, idx.Imports, 1)
	assert.Equal(t, "fmt", idx.Imports[0].Module)

	require.NotEmpty(t, idx.Calls)
}

func TestParseTreeBuildsNestedNode(t *testing.T) {
	a := New()
	root, err := a.ParseTree(sample)
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Equal(t, "File", root.Kind)
	assert.True(t, len(root.Children) > 0)
}

func TestNormalizeSourceStripsToDecls(t *testing.T) {
	a := New()
	norm := a.NormalizeSource(sample)
	assert.NotContains(t, norm, "package sample")
}

func TestCountASTNodesAndBlocks(t *testing.T) {
	a := New()
	assert.Greater(t, a.CountASTNodes(sample), 0)
	assert.Equal(t, 2, a.CountDistinctBlocks(sample))
}

func TestExtensionsAndLanguage(t *testing.T) {
	a := New()
	assert.Equal(t, "go", a.Language())
	assert.Equal(t, []string{".go"}, a.Extensions())
}
