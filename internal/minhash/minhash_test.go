package minhash

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structscan/internal/config"
	"structscan/internal/entity"
)

func cfg() config.LSHConfig {
	c := config.DefaultLSHConfig()
	c.MinFunctionTokens = 3
	return c
}

const fnA = "def f(x):\n    return x * 2 + 3\n"
const fnB = "def f(y):\n    return y * 2 + 3\n"
const fnC = "def totally_unrelated():\n    connect_to_database_and_log_metrics()\n"

func TestBuildExactDuplicatesAreSymmetricCandidates(t *testing.T) {
	pools := entity.NewVectorPools()
	idx := Build(cfg(), pools, []Input{
		{ID: "a", File: "a.py", Source: fnA},
		{ID: "b", File: "b.py", Source: fnB},
		{ID: "c", File: "c.py", Source: fnC},
	})

	resA := idx.FindSimilar("a", 10, nil)
	resB := idx.FindSimilar("b", 10, nil)

	var aHasB, bHasA bool
	for _, c := range resA {
		if c.ID == "b" {
			aHasB = true
		}
	}
	for _, c := range resB {
		if c.ID == "a" {
			bHasA = true
		}
	}
	assert.Equal(t, aHasB, bHasA)
}

func TestFindSimilarWithZeroLimitEmitsNoPairs(t *testing.T) {
	pools := entity.NewVectorPools()
	idx := Build(cfg(), pools, []Input{
		{ID: "a", File: "a.py", Source: fnA},
		{ID: "b", File: "b.py", Source: fnB},
	})

	// spec §8: max_candidates = 0 emits no pairs, distinct from an unset
	// limit falling back to the configured default.
	assert.Nil(t, idx.FindSimilar("a", 0, nil))
	assert.NotNil(t, idx.Signature("a"))
}

func TestBuildExcludesLowTokenCountEntities(t *testing.T) {
	pools := entity.NewVectorPools()
	idx := Build(cfg(), pools, []Input{
		{ID: "tiny", File: "f.py", Source: "x"},
	})
	assert.Nil(t, idx.Signature("tiny"))
	assert.Nil(t, idx.FindSimilar("tiny", 10, nil))
}

func TestBuildSkipsOversizeFiles(t *testing.T) {
	c := cfg()
	c.MaxEntitiesPerFile = 1
	pools := entity.NewVectorPools()
	idx := Build(c, pools, []Input{
		{ID: "a", File: "big.py", Source: fnA},
		{ID: "b", File: "big.py", Source: fnB},
	})
	assert.Nil(t, idx.Signature("a"))
	assert.Nil(t, idx.Signature("b"))
}

func TestSignatureLengthMatchesNumHashes(t *testing.T) {
	pools := entity.NewVectorPools()
	idx := Build(cfg(), pools, []Input{{ID: "a", File: "a.py", Source: fnA}})
	require.Len(t, idx.Signature("a"), cfg().NumHashes)
}

func TestNormalizeDropsCommentsAndLowercases(t *testing.T) {
	out := Normalize("// comment\nHELLO World\n# another\n\n")
	assert.Equal(t, "hello world\n", out)
}

func TestShingleOverlap(t *testing.T) {
	pools := entity.NewVectorPools()
	tokens := []string{"a", "b", "c", "d"}
	shingles := Shingle(tokens, 2, pools)
	assert.Equal(t, []string{"a b", "b c", "c d"}, shingles)
}
