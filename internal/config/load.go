package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable the loader reads.
const EnvPrefix = "TASKS"

// ConfigFileEnv names the environment variable holding an explicit config file path.
const ConfigFileEnv = "TASKS_CONFIG_FILE"

// setDefaults registers the default value of every optional setting.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.cors_allowed_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.shutdown_timeout_seconds", 10)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.max_open_conns", 10)

	v.SetDefault("cache.driver", "redis")
	v.SetDefault("cache.ttl_seconds", 300)
	v.SetDefault("cache.key_prefix", "tasks")
	v.SetDefault("cache.write_strategy", "patch")
}

// Load configuration from environment variables and optionally a config file.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	return LoadFile(os.Getenv(ConfigFileEnv))
}

// LoadFile is Load with an explicit config file path. An empty path searches
// for config.yaml in the working directory; a missing file is not an error.
func LoadFile(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !(configPath == "" && os.IsNotExist(err)) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees keys viper knows about, so bind every key explicitly
	bindEnvs := []string{
		"server.port",
		"server.log_level",
		"server.cors_allowed_origins",
		"server.shutdown_timeout_seconds",
		"database.driver",
		"database.url",
		"database.max_open_conns",
		"cache.driver",
		"cache.url",
		"cache.ttl_seconds",
		"cache.key_prefix",
		"cache.write_strategy",
	}
	for _, key := range bindEnvs {
		envVar := EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
		if err := v.BindEnv(key, envVar); err != nil {
			return nil, fmt.Errorf("error binding environment variable %s: %w", envVar, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}
