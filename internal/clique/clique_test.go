package clique

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"structscan/internal/entity"
)

func TestBuildGroupsSharedVocabulary(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSharedTokens = 1
	cfg.MinJaccard = 0.1

	idx := Build(cfg, []Input{
		{ID: "a", Source: "connect_to_database and query_records with timeout_seconds"},
		{ID: "b", Source: "connect_to_database then query_records using timeout_seconds value"},
		{ID: "c", Source: "render_widget on screen at animation_frame"},
	})

	peersA := idx.PeerSet("a")
	require.NotNil(t, peersA)
	assert.True(t, peersA["b"])
	assert.False(t, peersA["c"])
	assert.Nil(t, idx.PeerSet("c"))
}

func TestBuildChunksOversizedComponents(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MinSharedTokens = 1
	cfg.MinJaccard = 0.05
	cfg.MaxGroupSize = 3

	var inputs []Input
	for i := 0; i < 10; i++ {
		inputs = append(inputs, Input{
			ID:     entity.ID(fmt.Sprintf("e%d", i)),
			Source: "shared_vocabulary_token another_shared_token",
		})
	}
	idx := Build(cfg, inputs)

	for i := 0; i < 10; i++ {
		peers := idx.Peers(entity.ID(fmt.Sprintf("e%d", i)))
		assert.LessOrEqual(t, len(peers), cfg.MaxGroupSize-1)
	}
}

func TestExtractIdentifiersFiltersStopwordsAndShortTokens(t *testing.T) {
	toks := extractIdentifiers("def self return x ab longenoughtoken")
	assert.False(t, toks["def"])
	assert.False(t, toks["self"])
	assert.False(t, toks["return"])
	assert.False(t, toks["x"])
	assert.False(t, toks["ab"])
	assert.True(t, toks["longenoughtoken"])
}
