package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Version is the SDK release, reported in the X-Client-Info header and by
// the CLI.
const Version = "0.1.0"

// Config holds application-wide configuration
type Config struct {
	Project ProjectConfig `mapstructure:"project"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Metrics MetricsConfig `mapstructure:"metrics"`
}

// ProjectConfig identifies the Supabase project and how to reach it.
type ProjectConfig struct {
	URL     string        `mapstructure:"url"`
	Key     string        `mapstructure:"key"`
	Schema  string        `mapstructure:"schema"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// AuthConfig carries optional credentials for CLI sign-in.
type AuthConfig struct {
	Email    string `mapstructure:"email"`
	Password string `mapstructure:"password"`
}

// MetricsConfig controls the optional Prometheus endpoint.
type MetricsConfig struct {
	Enabled    bool   `mapstructure:"enabled"`
	ListenAddr string `mapstructure:"listenAddr"`
}

func DefaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Schema:  "public",
		Timeout: 5 * time.Second,
	}
}

// Load reads config from file or environment
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("supago")
		v.SetConfigType("yaml")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config"))
		}
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("SUPAGO")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else {
		fmt.Println("Using config file:", v.ConfigFileUsed())
	}

	cfg := Config{Project: DefaultProjectConfig()}
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if env := os.Getenv("SUPABASE_URL"); env != "" && cfg.Project.URL == "" {
		cfg.Project.URL = env
	}
	if env := os.Getenv("SUPABASE_KEY"); env != "" && cfg.Project.Key == "" {
		cfg.Project.Key = env
	}

	return &cfg, nil
}
