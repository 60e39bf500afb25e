package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"structscan/adapters/goadapter"
	"structscan/internal/astsvc"
	"structscan/internal/config"
	"structscan/internal/result"
)

const sourceA = `package sample

// Greet prints a friendly greeting for name.
func Greet(name string) string {
	if name == "" {
		name = "friend"
	}
	return "hello, " + name
}

func Dispatch(name string) string {
	return Greet(name)
}
`

const sourceB = `package sample

// GreetLoudly is a near-duplicate of Greet with a different suffix.
func GreetLoudly(name string) string {
	if name == "" {
		name = "friend"
	}
	return "HELLO, " + name
}
`

func writeTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.go"), []byte(sourceA), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.go"), []byte(sourceB), 0o644))
	return dir
}

func adapters() []astsvc.LanguageAdapter {
	return []astsvc.LanguageAdapter{goadapter.New()}
}

func TestRunProducesScoredCandidatesAcrossAllStages(t *testing.T) {
	defer goleak.VerifyNone(t)
	dir := writeTree(t)
	cfg := config.Default()
	cfg.LSH.MinFunctionTokens = 3

	var stages []string
	opts := Options{
		RootDir:  dir,
		Adapters: adapters(),
		Config:   cfg,
		Progress: func(stage string, frac float64) { stages = append(stages, stage) },
	}

	b, err := Run(context.Background(), opts)
	require.NoError(t, err)
	require.NotNil(t, b)

	assert.Equal(t, stageNames, stages)
	assert.GreaterOrEqual(t, b.Index.Len(), 3)
	assert.NotNil(t, b.DepGraph)
	assert.NotEmpty(t, b.Scored)
	assert.NotEmpty(t, b.Candidates)
	assert.NotEmpty(t, b.RunID)
}

func TestRunRespectsContextCancellationBetweenStages(t *testing.T) {
	dir := writeTree(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, Options{RootDir: dir, Adapters: adapters(), Config: config.Default()})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunSkipsClonesWhenLSHDisabled(t *testing.T) {
	dir := writeTree(t)
	cfg := config.Default()
	cfg.Analysis.EnableLSH = false

	b, err := Run(context.Background(), Options{RootDir: dir, Adapters: adapters(), Config: cfg})
	require.NoError(t, err)
	assert.Nil(t, b.MinHashIndex)
}

// TestRunIsDeterministicAcrossRuns exercises spec §8's round-trip invariant:
// re-running the pipeline over an unchanged tree yields identical candidates
// once sorted by (path, id); only the run ID is allowed to differ.
func TestRunIsDeterministicAcrossRuns(t *testing.T) {
	dir := writeTree(t)
	cfg := config.Default()
	cfg.LSH.MinFunctionTokens = 3
	opts := Options{RootDir: dir, Adapters: adapters(), Config: cfg}

	first, err := Run(context.Background(), opts)
	require.NoError(t, err)
	second, err := Run(context.Background(), opts)
	require.NoError(t, err)

	sortCandidates := func(cs []*result.Candidate) []*result.Candidate {
		out := append([]*result.Candidate(nil), cs...)
		sort.Slice(out, func(i, j int) bool {
			if out[i].File != out[j].File {
				return out[i].File < out[j].File
			}
			return out[i].EntityID < out[j].EntityID
		})
		return out
	}

	if diff := cmp.Diff(sortCandidates(first.Candidates), sortCandidates(second.Candidates)); diff != "" {
		t.Fatalf("candidates differ across identical runs (-first +second):\n%s", diff)
	}
}
