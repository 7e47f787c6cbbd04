package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/graftlabs/graft"
	"github.com/graftlabs/graft/internal/adapters/genai"
	"github.com/graftlabs/graft/internal/adapters/memory"
	redisadapter "github.com/graftlabs/graft/internal/adapters/redis"
	"github.com/graftlabs/graft/internal/config"
	"github.com/graftlabs/graft/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "graft",
	Short: "Graft is a decision workflow engine for conversational answering",
	Long: `Graft routes natural-language questions through a compiled decision
workflow: it classifies whether the question carries enough context, looks up
reference material, and either streams a generated answer or refuses politely.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// buildEngine assembles the engine from environment configuration. The
// returned options already carry the retriever and, if configured, the
// Redis trace sink.
func buildEngine(ctx context.Context, cfg *config.Config, extra ...graft.Option) (*graft.Engine, error) {
	logger := logging.New(logging.ParseLevel(cfg.LogLevel))

	gateway, err := genai.New(ctx, cfg.APIKey, cfg.ModelID,
		genai.WithTemperature(float32(cfg.Temperature)))
	if err != nil {
		return nil, fmt.Errorf("model gateway: %w", err)
	}

	opts := []graft.Option{
		graft.WithLogger(logger),
		graft.WithTemperature(cfg.Temperature),
	}

	if cfg.CorpusFile != "" {
		entries, err := config.LoadCorpus(cfg.CorpusFile)
		if err != nil {
			return nil, err
		}
		opts = append(opts, graft.WithRetriever(memory.NewCorpus(entries)))
	}

	if cfg.RedisAddr != "" {
		sink := redisadapter.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		opts = append(opts, graft.WithTraceSink(sink))
	}

	opts = append(opts, extra...)
	return graft.New(gateway, opts...)
}
