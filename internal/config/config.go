// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config represents the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Storage struct {
		Backend string `mapstructure:"backend" yaml:"backend"`
		Path    string `mapstructure:"path" yaml:"path"`
	} `mapstructure:"storage" yaml:"storage"`

	Owner struct {
		ID string `mapstructure:"id" yaml:"id"`
	} `mapstructure:"owner" yaml:"owner"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Seed struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"seed" yaml:"seed"`
}

var loadEnvOnce sync.Once

// LoadEnv loads environment variables from a .env file if one exists in the
// working directory or the project root.
func LoadEnv() {
	loadEnvOnce.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				return
			}
		}
		_ = godotenv.Load(envFile)
	})
}

// Initialize builds the configuration from defaults, an optional config
// file, and FINANZAS_* environment variables, in increasing precedence.
func Initialize() (*Config, error) {
	LoadEnv()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.finanzas")
	v.AddConfigPath(".finanzas")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FINANZAS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Continue with defaults and env vars; a broken file is not fatal.
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("storage.backend", "sqlite")
	v.SetDefault("storage.path", "data/finanzas.db")

	v.SetDefault("owner.id", "local")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("seed.file", "seed.yaml")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	switch config.Storage.Backend {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("invalid storage backend: %s (must be 'sqlite' or 'memory')", config.Storage.Backend)
	}

	if config.Storage.Backend == "sqlite" && config.Storage.Path == "" {
		return fmt.Errorf("storage.path required for the sqlite backend")
	}

	if config.Owner.ID == "" {
		return fmt.Errorf("owner.id must not be empty")
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	return nil
}

// ConfigureLogging builds a logrus logger from the Log section.
func ConfigureLogging(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
