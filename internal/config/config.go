package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Web      WebConfig      `mapstructure:"web"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port                int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel            string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds" validate:"gte=0"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds" validate:"gte=0"`
}

// Supported values for DatabaseConfig.Driver.
const (
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
	DriverMemory   = "memory"
)

// DatabaseConfig selects and configures the post store backend.
type DatabaseConfig struct {
	Driver        string `mapstructure:"driver" validate:"required,oneof=postgres mongo memory"`
	URL           string `mapstructure:"url" validate:"required_if=Driver postgres"`
	MongoURI      string `mapstructure:"mongo_uri" validate:"required_if=Driver mongo"`
	MongoDatabase string `mapstructure:"mongo_database" validate:"required_if=Driver mongo"`
	AutoMigrate   bool   `mapstructure:"auto_migrate"`
}

// AuthConfig contains the session token settings.
type AuthConfig struct {
	// SessionSecret is the HMAC key shared with whatever issues session tokens.
	SessionSecret        string `mapstructure:"session_secret" validate:"required,min=32"`
	SessionCookie        string `mapstructure:"session_cookie" validate:"required"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"gt=0"`
}

// WebConfig configures the server-rendered listing page.
type WebConfig struct {
	// PostsAPIURL, when set, makes the listing page fetch posts over HTTP from
	// this URL instead of reading the store directly.
	PostsAPIURL string `mapstructure:"posts_api_url" validate:"omitempty,url"`
}
