package cmd

import (
	"errors"
	"io/fs"
	"log"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/assessment-recommender/internal/scoring"
	"github.com/spigell/assessment-recommender/internal/server"
)

const (
	app = "assessment-recommender"

	defaultCatalogPath = "shl_catalog.csv"
)

type Config struct {
	Catalog        CatalogConfig   `mapstructure:"catalog"`
	HeuristicsFile string          `mapstructure:"heuristics-file"`
	Scoring        ScoringConfig   `mapstructure:"scoring"`
	Recommend      RecommendConfig `mapstructure:"recommend"`
	Exclude        ExcludeConfig   `mapstructure:"exclude"`
	AI             AIConfig        `mapstructure:"ai"`
	Server         server.Config   `mapstructure:"server"`
}

type CatalogConfig struct {
	Path     string `mapstructure:"path" validate:"required"`
	Encoding string `mapstructure:"encoding" validate:"omitempty,oneof=latin1 utf8"`
}

type ScoringConfig struct {
	Weights scoring.Weights `mapstructure:"weights"`
}

type RecommendConfig struct {
	Limit int `mapstructure:"limit" validate:"gte=0,lte=10"`
}

type ExcludeConfig struct {
	Titles []string `mapstructure:"titles"`
	File   string   `mapstructure:"file"`
}

type AIConfig struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey            string `mapstructure:"api-key"`
	APIKeyFile        string `mapstructure:"api-key-file"`
	Model             string `mapstructure:"model"`
	MaxRetries        int    `mapstructure:"max-retries" validate:"gte=0"`
	MaxLogLength      int    `mapstructure:"max-log-length" validate:"gte=0"`
	RequestsPerMinute int    `mapstructure:"requests-per-minute" validate:"gte=0"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "assessment-recommender ranks a catalog of assessments against a hiring query",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	envs := map[string]string{
		"ai.gemini.api-key":      "GOOGLE_API_KEY",
		"ai.gemini.api-key-file": "GEMINI_API_KEY_FILE",
		"catalog.path":           "CATALOG_PATH",
	}
	for key, env := range envs {
		if err := viper.BindEnv(key, env); err != nil {
			log.Fatalf("binding %s environment variable: %v", env, err)
		}
	}

	viper.SetDefault("catalog.path", defaultCatalogPath)
	viper.SetDefault("catalog.encoding", "latin1")

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is assessment-recommender.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")
	rootCmd.PersistentFlags().String("catalog", "", "path to the catalog file (.csv or .json)")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	viper.BindPFlag("catalog.path", rootCmd.PersistentFlags().Lookup("catalog"))
}

func initConfig() {
	// .env is optional; values already in the environment win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless given explicitly, but a broken one is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}
	if config == nil {
		config = &Config{}
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, err
	}
	if err := config.Scoring.Weights.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}
