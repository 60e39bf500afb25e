package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"structscan/internal/config"
	"structscan/internal/obs"
)

const sampleGoSource = `package sample

func Greet(name string) string {
	return "hi " + name
}
`

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	orig := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w
	fn()
	require.NoError(t, w.Close())
	os.Stdout = orig

	var buf bytes.Buffer
	_, err = io.Copy(&buf, r)
	require.NoError(t, err)
	return buf.String()
}

func TestRunScanWritesJSONResultsToStdout(t *testing.T) {
	obs.Init(zap.NewNop())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sample.go"), []byte(sampleGoSource), 0o644))

	workspace = dir
	profile = "Fast"
	coverageFlag = nil
	outputPath = ""
	embedAPIKey = ""
	timeout = 30 * time.Second

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	output := captureStdout(t, func() {
		require.NoError(t, runScan(cmd, nil))
	})

	var decoded struct {
		RunID       string `json:"run_id"`
		EntityCount int    `json:"entity_count"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &decoded))
	assert.NotEmpty(t, decoded.RunID)
	assert.GreaterOrEqual(t, decoded.EntityCount, 1)
}

func TestRunScanAppliesYAMLConfigOverride(t *testing.T) {
	obs.Init(zap.NewNop())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sample.go"), []byte(sampleGoSource), 0o644))

	cfgFile := filepath.Join(dir, "structscan.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("analysis:\n  enable_lsh: false\n"), 0o644))

	workspace = dir
	profile = "Fast"
	configPath = cfgFile
	coverageFlag = nil
	outputPath = ""
	embedAPIKey = ""
	timeout = 30 * time.Second
	defer func() { configPath = "" }()

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())

	output := captureStdout(t, func() {
		require.NoError(t, runScan(cmd, nil))
	})

	var decoded struct {
		RunID string `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &decoded))
	assert.NotEmpty(t, decoded.RunID)
}

func TestLoadConfigOverrideRejectsMalformedYAML(t *testing.T) {
	dir := t.TempDir()
	cfgFile := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte("analysis: [this, is, not, a, map]\n"), 0o644))

	cfg := config.Default()
	err := loadConfigOverride(&cfg, cfgFile)
	assert.Error(t, err)
}

func TestRunScanWritesToOutputFileWhenSet(t *testing.T) {
	obs.Init(zap.NewNop())

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sample.go"), []byte(sampleGoSource), 0o644))
	out := filepath.Join(dir, "result.json")

	workspace = dir
	profile = "Fast"
	coverageFlag = nil
	outputPath = out
	embedAPIKey = ""
	timeout = 30 * time.Second
	defer func() { outputPath = "" }()

	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	require.NoError(t, runScan(cmd, nil))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "run_id")
}
