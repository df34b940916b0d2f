package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Cache    CacheConfig    `mapstructure:"cache"    validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// CORSAllowedOrigins lists the web frontend origins allowed to call the API.
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins" validate:"dive,required"`

	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	// Driver selects the task store: "postgres" or "memory".
	Driver       string `mapstructure:"driver"         validate:"required,oneof=postgres memory"`
	URL          string `mapstructure:"url"            validate:"required_if=Driver postgres"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gt=0"`
}

// CacheConfig contains the look-aside cache settings.
type CacheConfig struct {
	// Driver selects the cache backend: "redis" or "memory".
	Driver     string `mapstructure:"driver"      validate:"required,oneof=redis memory"`
	URL        string `mapstructure:"url"         validate:"required_if=Driver redis"`
	TTLSeconds int    `mapstructure:"ttl_seconds" validate:"gt=0"`
	KeyPrefix  string `mapstructure:"key_prefix"  validate:"required"`

	// WriteStrategy is "patch" (update the snapshot in place after writes)
	// or "invalidate" (drop it and let the next read repopulate).
	WriteStrategy string `mapstructure:"write_strategy" validate:"required,oneof=patch invalidate"`
}
