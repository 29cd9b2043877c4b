package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of every environment variable read by Load.
const EnvPrefix = "POSTDESK"

// ConfigPathEnv names an explicit config file to read.
const ConfigPathEnv = "POSTDESK_CONFIG"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadAuth loads and validates only the auth group, for tools that mint or
// inspect session tokens without touching the database.
func LoadAuth() (*AuthConfig, error) {
	v, err := newViper()
	if err != nil {
		return nil, err
	}

	var cfg AuthConfig
	if err := v.UnmarshalKey("auth", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal auth config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// newViper reads defaults, the optional config file and the environment.
func newViper() (*viper.Viper, error) {
	v := viper.New()

	setDefaults(v)

	if path := os.Getenv(ConfigPathEnv); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvs(v)

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.read_timeout_seconds", 15)
	v.SetDefault("server.write_timeout_seconds", 15)

	v.SetDefault("database.driver", DriverPostgres)
	v.SetDefault("database.mongo_database", "postdesk")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("auth.session_cookie", "session-token")
	v.SetDefault("auth.token_lifetime_minutes", 60)
}

// bindEnvs registers every key so that Unmarshal sees environment values even
// for keys that have no default and no config file entry.
func bindEnvs(v *viper.Viper) {
	keys := []string{
		"server.port",
		"server.log_level",
		"server.read_timeout_seconds",
		"server.write_timeout_seconds",
		"database.driver",
		"database.url",
		"database.mongo_uri",
		"database.mongo_database",
		"database.auto_migrate",
		"auth.session_secret",
		"auth.session_cookie",
		"auth.token_lifetime_minutes",
		"web.posts_api_url",
	}
	for _, key := range keys {
		// BindEnv only fails when called without a key.
		_ = v.BindEnv(key)
	}
}
