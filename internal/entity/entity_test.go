package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIndexAddRejectsInvalidRange(t *testing.T) {
	idx := NewIndex()
	err := idx.Add(&Entity{ID: "a", File: "a.go", LineRange: LineRange{Start: 10, End: 5}})
	require.Error(t, err)
}

func TestIndexAddRejectsDuplicateID(t *testing.T) {
	idx := NewIndex()
	e := &Entity{ID: "a", File: "a.go", LineRange: LineRange{Start: 1, End: 2}}
	require.NoError(t, idx.Add(e))
	require.Error(t, idx.Add(e))
}

func TestIndexDeterministicOrder(t *testing.T) {
	idx := NewIndex()
	for i, name := range []string{"c", "a", "b"} {
		require.NoError(t, idx.Add(&Entity{
			ID:        ID(name),
			Name:      name,
			File:      "f.go",
			LineRange: LineRange{Start: i + 1, End: i + 1},
		}))
	}
	all := idx.All()
	require.Len(t, all, 3)
	assert.Equal(t, []ID{"c", "a", "b"}, []ID{all[0].ID, all[1].ID, all[2].ID})
}

func TestFunctionCallsBothShapes(t *testing.T) {
	e1 := &Entity{Properties: map[string]any{"function_calls": []string{"foo", "bar"}}}
	assert.Equal(t, []string{"foo", "bar"}, e1.FunctionCalls())

	e2 := &Entity{Properties: map[string]any{"function_calls": []interface{}{"foo", 42, "bar"}}}
	assert.Equal(t, []string{"foo", "bar"}, e2.FunctionCalls())

	e3 := &Entity{}
	assert.Nil(t, e3.FunctionCalls())
}

func TestInternerStableAndConcurrentSafe(t *testing.T) {
	in := NewInterner()
	id1 := in.Intern("hello")
	id2 := in.Intern("world")
	id3 := in.Intern("hello")
	assert.Equal(t, id1, id3)
	assert.NotEqual(t, id1, id2)
	assert.Equal(t, "hello", in.Lookup(id1))
	assert.Equal(t, 2, in.Len())
}

func TestVectorPoolsRoundTrip(t *testing.T) {
	p := NewVectorPoolsWithSize(2)
	buf := p.GetShingleBuf(4)
	assert.Len(t, buf, 0)
	buf = append(buf, "x", "y")
	p.PutShingleBuf(buf)

	buf2 := p.GetShingleBuf(4)
	assert.Len(t, buf2, 0)
	stats := p.Stats()
	assert.Equal(t, int64(1), stats.ShingleHits)
	assert.Equal(t, int64(1), stats.ShingleMisses)
}
