package astsvc

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structscan/internal/entity"
)

// fakeAdapter is a minimal LanguageAdapter for tests: it builds a two-level
// tree (one child node spanning bytes [5,15)) regardless of source content.
type fakeAdapter struct {
	parses atomic
}

type atomic struct {
	mu sync.Mutex
	n  int
}

func (a *atomic) inc() {
	a.mu.Lock()
	a.n++
	a.mu.Unlock()
}

func (a *atomic) get() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.n
}

func (f *fakeAdapter) Language() string     { return "fake" }
func (f *fakeAdapter) Extensions() []string { return []string{".fk"} }

func (f *fakeAdapter) ParseSource(path, source string) (*ParseIndex, error) {
	return &ParseIndex{}, nil
}

func (f *fakeAdapter) ParseTree(source string) (*Node, error) {
	f.parses.inc()
	return &Node{
		Kind:      "file",
		ByteStart: 0,
		ByteEnd:   len(source),
		Children: []*Node{
			{Kind: "func", ByteStart: 5, ByteEnd: 15},
		},
	}, nil
}

func (f *fakeAdapter) NormalizeSource(source string) string  { return source }
func (f *fakeAdapter) CountASTNodes(source string) int       { return 2 }
func (f *fakeAdapter) CountDistinctBlocks(source string) int { return 1 }

func TestServiceGetASTCachesAndParsesOnce(t *testing.T) {
	fa := &fakeAdapter{}
	reg := NewRegistry(fa)
	svc := NewService(reg)

	source := "0123456789abcdefghij"
	t1, err := svc.GetAST("k1", "f.fk", source)
	require.NoError(t, err)
	require.NotNil(t, t1.Root)

	t2, err := svc.GetAST("k1", "f.fk", source)
	require.NoError(t, err)
	assert.Same(t, t1, t2)
	assert.Equal(t, 1, fa.parses.get())
}

func TestServiceGetASTConcurrentDedup(t *testing.T) {
	fa := &fakeAdapter{}
	reg := NewRegistry(fa)
	svc := NewService(reg)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.GetAST("shared", "f.fk", "source")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, fa.parses.get())
}

func TestServiceUnknownExtensionIsParseError(t *testing.T) {
	svc := NewService(NewRegistry())
	_, err := svc.GetAST("k", "f.unknown", "x")
	require.Error(t, err)
}

func TestFindEntityNodeNarrowest(t *testing.T) {
	fa := &fakeAdapter{}
	reg := NewRegistry(fa)
	svc := NewService(reg)

	tree, err := svc.GetAST("k1", "f.fk", "0123456789abcdefghij")
	require.NoError(t, err)

	ctx := CreateContext(tree)
	e := &entity.Entity{ByteRange: &entity.ByteRange{Start: 6, End: 10}}
	node := ctx.FindEntityNode(e)
	require.NotNil(t, node)
	assert.Equal(t, "func", node.Kind)

	eOutside := &entity.Entity{ByteRange: &entity.ByteRange{Start: 16, End: 18}}
	assert.Nil(t, ctx.FindEntityNode(eOutside))

	eNoRange := &entity.Entity{}
	assert.Nil(t, ctx.FindEntityNode(eNoRange))
}

func TestRegistryExtensionRouting(t *testing.T) {
	fa := &fakeAdapter{}
	reg := NewRegistry(fa)
	assert.NotNil(t, reg.For("a/b/c.fk"))
	assert.Nil(t, reg.For("a/b/c.other"))
	assert.Nil(t, reg.For("noext"))
}
