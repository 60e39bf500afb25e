// Package main implements the structscan CLI: a thin cobra command wiring
// configuration, language adapters, the analysis pipeline, and result
// output together for manual and example runs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"structscan/adapters/goadapter"
	"structscan/adapters/pyadapter"
	"structscan/internal/astsvc"
	"structscan/internal/cohesion"
	"structscan/internal/config"
	"structscan/internal/obs"
	"structscan/internal/pipeline"
)

var (
	verbose      bool
	workspace    string
	profile      string
	configPath   string
	coverageFlag []string
	outputPath   string
	embedAPIKey  string
	embedModel   string
	embedCache   string
	timeout      time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "structscan",
	Short: "Multi-language static analysis, clone detection, and refactoring recommendations",
	Long: `structscan walks a source tree, extracts entities for every registered
language adapter, computes complexity/duplication/structural/cohesion
signals, and ranks the results into a prioritized refactoring worklist.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := zapcore.InfoLevel
		if verbose {
			level = zapcore.DebugLevel
		}
		logCfg := zap.NewProductionConfig()
		logCfg.Level = zap.NewAtomicLevelAt(level)
		logger, err := logCfg.Build()
		if err != nil {
			return fmt.Errorf("initializing logger: %w", err)
		}
		obs.Init(logger)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		obs.Sync()
	},
	RunE: runScan,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.Flags().StringVarP(&workspace, "workspace", "w", ".", "root directory to scan")
	rootCmd.Flags().StringVar(&profile, "profile", "Balanced", "performance profile: Fast, Balanced, Thorough, Extreme")
	rootCmd.Flags().StringVar(&configPath, "config", "", "YAML file overriding the recognized config surface (see internal/config)")
	rootCmd.Flags().StringSliceVar(&coverageFlag, "coverage", nil, "coverage report paths (LCOV/Cobertura/JaCoCo/Istanbul/Tarpaulin, auto-detected)")
	rootCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write JSON results here instead of stdout")
	rootCmd.Flags().StringVar(&embedAPIKey, "embed-api-key", os.Getenv("STRUCTSCAN_EMBED_API_KEY"), "embedding provider API key, enables cohesion analysis")
	rootCmd.Flags().StringVar(&embedModel, "embed-model", "gemini-embedding-001", "embedding model name")
	rootCmd.Flags().StringVar(&embedCache, "embed-cache", "", "sqlite-vec embedding cache path (empty disables persistence)")
	rootCmd.Flags().DurationVar(&timeout, "timeout", 10*time.Minute, "overall run timeout")
}

func runScan(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	root, err := filepath.Abs(workspace)
	if err != nil {
		return fmt.Errorf("resolving workspace: %w", err)
	}

	cfg := config.Default()
	if configPath != "" {
		if err := loadConfigOverride(&cfg, configPath); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("profile") || configPath == "" {
		cfg.ApplyProfile(config.PerformanceProfile(profile))
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	opts := pipeline.Options{
		RootDir:       root,
		Adapters:      []astsvc.LanguageAdapter{goadapter.New(), pyadapter.New()},
		Config:        cfg,
		CoveragePaths: coverageFlag,
		Progress: func(stage string, frac float64) {
			obs.For(obs.CategoryPipeline).Info("stage progress",
				zap.String("stage", stage), zap.Float64("fraction", frac))
		},
	}

	if embedAPIKey != "" {
		provider, err := cohesion.NewGenAIProvider(ctx, embedAPIKey, embedModel, "", 0)
		if err != nil {
			return fmt.Errorf("initializing embedding provider: %w", err)
		}
		cache, err := cohesion.NewCache(embedCache, cfg.Cohesion.EmbeddingCacheSize, 0)
		if err != nil {
			return fmt.Errorf("opening embedding cache: %w", err)
		}
		opts.EmbeddingProvider = provider
		opts.EmbeddingCache = cache
	}

	bundle, err := pipeline.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("running analysis: %w", err)
	}

	return writeResults(bundle)
}

// loadConfigOverride reads a YAML document at path and unmarshals it onto
// cfg, which already carries the Balanced-preset defaults. Fields absent
// from the document keep their default value, since yaml.v3 only assigns
// keys it finds (spec §6's config surface, mirrored by the yaml tags on
// internal/config's structs).
func loadConfigOverride(cfg *config.Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return nil
}

func writeResults(b *pipeline.Bundle) error {
	enc := struct {
		RunID      string      `json:"run_id"`
		EntityCount int        `json:"entity_count"`
		Candidates interface{} `json:"candidates"`
	}{
		RunID:       b.RunID,
		EntityCount: b.Index.Len(),
		Candidates:  b.Candidates,
	}

	data, err := json.MarshalIndent(enc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}

	if outputPath == "" {
		_, err = os.Stdout.Write(append(data, '\n'))
		return err
	}
	return os.WriteFile(outputPath, data, 0o644)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
