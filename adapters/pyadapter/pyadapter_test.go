package pyadapter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `import os
from collections import OrderedDict


class Greeter:
    def greet(self, name):
        return "hello " + name.upper()


def main():
    g = Greeter()
    print(g.greet("world"))
`

func TestParseSourceExtractsClassAndMethods(t *testing.T) {
	a := New()
	idx, err := a.ParseSource("sample.py", sample)
	require.NoError(t, err)
	require.NotEmpty(t, idx.Entities)

	var sawClass, sawMethod, sawFunc bool
	for _, e := range idx.Entities {
		switch e.Name {
		case "Greeter":
			sawClass = e.Kind == "class"
		case "greet":
			sawMethod = e.Kind == "method"
		case "main":
			sawFunc = e.Kind == "function"
		}
	}
	assert.True(t, sawClass)
	assert.True(t, sawMethod)
	assert.True(t, sawFunc)

	require.Len(t, idx.Imports, 2)
}

func TestParseTreeAndCounts(t *testing.T) {
	a := New()
	root, err := a.ParseTree(sample)
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Greater(t, a.CountASTNodes(sample), 0)
	assert.Greater(t, a.CountDistinctBlocks(sample), 0)
}

func TestNormalizeSourceDropsComments(t *testing.T) {
	a := New()
	withComment := sample + "\n# a trailing comment\n"
	norm := a.NormalizeSource(withComment)
	assert.NotContains(t, norm, "trailing comment")
}

func TestExtensionsAndLanguage(t *testing.T) {
	a := New()
	assert.Equal(t, "python", a.Language())
	assert.Equal(t, []string{".py", ".pyw"}, a.Extensions())
}
