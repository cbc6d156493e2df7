package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spigell/job-scorer/internal/ai"
	"github.com/spigell/job-scorer/internal/ai/gemini"
	"github.com/spigell/job-scorer/internal/jobs"
	"github.com/spigell/job-scorer/internal/logger"
	"github.com/spigell/job-scorer/internal/profile"
	"github.com/spigell/job-scorer/internal/secrets"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	app = "job-scorer"
)

type Config struct {
	Database string    `mapstructure:"database"`
	Profile  string    `mapstructure:"profile"`
	AI       *AIConfig `mapstructure:"ai"`
}

type AIConfig struct {
	Provider        string        `mapstructure:"provider"`
	RequestInterval time.Duration `mapstructure:"request-interval"`
	Gemini          *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string        `mapstructure:"api-key-file"`
	Model        string        `mapstructure:"model"`
	MaxRetries   int           `mapstructure:"max-retries"`
	BackoffBase  time.Duration `mapstructure:"backoff-base"`
	MaxLogLength int           `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-scorer scores scraped job postings against your profile with an AI matcher",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-scorer.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	viper.SetDefault("database", "jobs.db")
	viper.SetDefault("profile", "user_profile.json")
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.request-interval", 2*time.Second)

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// The defaults are enough to run without a config file, but an
		// explicitly requested or malformed one is fatal.
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

	if config.AI == nil {
		config.AI = &AIConfig{Provider: "gemini"}
	}
	if config.AI.Gemini == nil {
		config.AI.Gemini = &GeminiConfig{}
	}

	return config, nil
}

func newLogger() *zap.Logger {
	l, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	return l
}

func openJobStore(config *Config, logger *zap.Logger) *jobs.Store {
	store, err := jobs.Open(config.Database)
	if err != nil {
		logger.Fatal("opening the job database",
			zap.String("path", config.Database),
			zap.Error(err),
		)
	}
	return store
}

func profileStore(config *Config) *profile.Store {
	return profile.NewStore(config.Profile)
}

// loadProfile is the scoring precondition: without an active profile every
// scoring command fails before any remote call.
func loadProfile(config *Config, logger *zap.Logger) *profile.Profile {
	p, err := profileStore(config).Load()
	if err != nil {
		if errors.Is(err, profile.ErrNotFound) {
			logger.Fatal("no profile found",
				zap.String("path", config.Profile),
				zap.String("hint", "create one with: job-scorer profile create"),
			)
		}
		logger.Fatal("loading the profile", zap.Error(err))
	}
	return p
}

func newMatcher(ctx context.Context, cfg *AIConfig, logger *zap.Logger) (ai.Matcher, error) {
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	genLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", cfg.Gemini.Model),
		zap.Int("ai_retry_attempts", cfg.Gemini.MaxRetries),
		zap.Duration("request_interval", cfg.RequestInterval),
	)

	generator, err := gemini.NewGenerator(ctx, gemini.GeneratorConfig{
		APIKey:          apiKey,
		Model:           cfg.Gemini.Model,
		MaxRetries:      cfg.Gemini.MaxRetries,
		RequestInterval: cfg.RequestInterval,
		BackoffBase:     cfg.Gemini.BackoffBase,
	}, genLogger)
	if err != nil {
		return nil, err
	}

	return gemini.NewMatcher(generator, genLogger, cfg.Gemini.MaxLogLength), nil
}
