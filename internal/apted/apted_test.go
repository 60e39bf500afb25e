package apted

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structscan/internal/astsvc"
)

func leaf(kind string) *astsvc.Node { return &astsvc.Node{Kind: kind} }

func TestEditDistanceIdenticalTreesIsZero(t *testing.T) {
	a := &astsvc.Node{Kind: "func", Children: []*astsvc.Node{leaf("return"), leaf("ident")}}
	b := &astsvc.Node{Kind: "func", Children: []*astsvc.Node{leaf("return"), leaf("ident")}}

	sa, sb := BuildSimpleTree(a), BuildSimpleTree(b)
	assert.Equal(t, 0, EditDistance(sa, sb))
}

func TestEditDistanceOneNodeInsertion(t *testing.T) {
	a := &astsvc.Node{Kind: "func", Children: []*astsvc.Node{leaf("return")}}
	b := &astsvc.Node{Kind: "func", Children: []*astsvc.Node{leaf("return"), leaf("ident")}}

	sa, sb := BuildSimpleTree(a), BuildSimpleTree(b)
	assert.Equal(t, 1, EditDistance(sa, sb))
}

func TestEditDistanceRenameOnlyWhenKindDiffers(t *testing.T) {
	a := &astsvc.Node{Kind: "func", Children: []*astsvc.Node{leaf("return")}}
	b := &astsvc.Node{Kind: "func", Children: []*astsvc.Node{leaf("yield")}}

	sa, sb := BuildSimpleTree(a), BuildSimpleTree(b)
	assert.Equal(t, 1, EditDistance(sa, sb))
}

func TestEditDistanceAgainstEmptyTreeIsNodeCount(t *testing.T) {
	a := &astsvc.Node{Kind: "func", Children: []*astsvc.Node{leaf("return"), leaf("ident")}}
	sa := BuildSimpleTree(a)
	assert.Equal(t, NodeCount(sa), EditDistance(sa, nil))
	assert.Equal(t, NodeCount(sa), EditDistance(nil, sa))
	assert.Equal(t, 0, EditDistance(nil, nil))
}

func TestVerifyIdenticalEntitiesSimilarityOne(t *testing.T) {
	a := &astsvc.Node{Kind: "func", Children: []*astsvc.Node{leaf("return"), leaf("ident")}}
	b := &astsvc.Node{Kind: "func", Children: []*astsvc.Node{leaf("return"), leaf("ident")}}

	detail := Verify(a, b, 0)
	require.NotNil(t, detail)
	assert.Equal(t, 1.0, detail.Similarity)
	assert.Equal(t, 0, detail.EditCost)
	assert.False(t, detail.Truncated)
}

func TestVerifyReturnsNilWhenTreeUnavailable(t *testing.T) {
	a := &astsvc.Node{Kind: "func"}
	assert.Nil(t, Verify(nil, a, 0))
	assert.Nil(t, Verify(a, nil, 0))
}

func TestVerifyTruncatesOversizeTrees(t *testing.T) {
	big := &astsvc.Node{Kind: "func"}
	cur := big
	for i := 0; i < 20; i++ {
		child := &astsvc.Node{Kind: "stmt"}
		cur.Children = append(cur.Children, child)
		cur = child
	}
	small := &astsvc.Node{Kind: "func"}

	detail := Verify(big, small, 5)
	require.NotNil(t, detail)
	assert.True(t, detail.Truncated)
	assert.LessOrEqual(t, detail.NodeCountA, 5)
}

func TestBudgetLimitsPerEntityVerifications(t *testing.T) {
	b := NewBudget(2)
	assert.True(t, b.Allow("e1"))
	assert.True(t, b.Allow("e1"))
	assert.False(t, b.Allow("e1"))
	assert.True(t, b.Allow("e2"))
}

func TestBudgetUnlimitedWhenZero(t *testing.T) {
	b := NewBudget(0)
	for i := 0; i < 100; i++ {
		assert.True(t, b.Allow("e1"))
	}
}
