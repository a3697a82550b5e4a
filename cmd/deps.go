package cmd

import (
	"context"
	"fmt"
	stdlog "log"

	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/assessment-recommender/internal/ai/gemini"
	"github.com/spigell/assessment-recommender/internal/catalog"
	"github.com/spigell/assessment-recommender/internal/filtering"
	"github.com/spigell/assessment-recommender/internal/heuristics"
	"github.com/spigell/assessment-recommender/internal/logger"
	"github.com/spigell/assessment-recommender/internal/recommend"
	"github.com/spigell/assessment-recommender/internal/secrets"
)

// setup builds the logger and reads the config, exiting on failure.
func setup() (*zap.Logger, *Config) {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		stdlog.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		log.Fatal("getting a config", zap.Error(err))
	}

	log.Debug("starting", zap.String("app", app), zap.String("version", version), zap.Any("config", redacted(config)))

	return log, config
}

func redacted(config *Config) Config {
	c := *config
	if c.AI.Gemini.APIKey != "" {
		c.AI.Gemini.APIKey = "***"
	}
	return c
}

func newEngine(config *Config, log *zap.Logger) (*recommend.Engine, error) {
	maps, err := heuristics.Load(config.HeuristicsFile)
	if err != nil {
		return nil, err
	}
	log.Debug("heuristics loaded", zap.String("version", maps.Version))

	cat, err := catalog.Load(config.Catalog.Path, catalog.Options{
		Encoding: config.Catalog.Encoding,
		Logger:   log,
	})
	if err != nil {
		return nil, err
	}

	excluded, err := filtering.LoadExcludedTitles(config.Exclude.File)
	if err != nil {
		return nil, err
	}

	return recommend.New(cat, recommend.Options{
		Maps:           maps,
		Weights:        config.Scoring.Weights,
		Limit:          config.Recommend.Limit,
		ExcludedTitles: append(excluded, config.Exclude.Titles...),
		Logger:         log,
	})
}

func newExtractor(ctx context.Context, config *Config, log *zap.Logger) (*gemini.Extractor, error) {
	cfg := config.AI.Gemini

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.APIKey,
		File:  cfg.APIKeyFile,
		Env:   []string{"GEMINI_API_KEY"},
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set GOOGLE_API_KEY, ai.gemini.api-key or ai.gemini.api-key-file)", err)
	}

	generator, err := gemini.NewGenerator(ctx, gemini.Config{
		APIKey:            apiKey,
		Model:             cfg.Model,
		MaxRetries:        cfg.MaxRetries,
		RequestsPerMinute: cfg.RequestsPerMinute,
	}, logger.WithCommonFields(log, "gemini", cfg.Model))
	if err != nil {
		return nil, err
	}

	return gemini.NewExtractor(generator, log, cfg.MaxLogLength), nil
}
