package config

// Config holds all application configuration.
// It is loaded once at process start and treated as immutable afterwards;
// components receive the sub-config they need rather than reading globals.
type Config struct {
	Server     ServerConfig     `mapstructure:"server"     validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database"   validate:"required"`
	Auth       AuthConfig       `mapstructure:"auth"       validate:"required"`
	Pagination PaginationConfig `mapstructure:"pagination" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains authentication settings. Token lifetimes are
// expressed in minutes so they can be tuned from the environment.
type AuthConfig struct {
	JWTSecret                   string `mapstructure:"jwt_secret"                     validate:"required,min=32"`
	TokenLifetimeMinutes        int    `mapstructure:"token_lifetime_minutes"         validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int    `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// PaginationConfig bounds list responses. MaxPageSize caps what callers
// may request via page_size; DefaultPageSize applies when they request
// nothing.
type PaginationConfig struct {
	DefaultPageSize int `mapstructure:"default_page_size" validate:"required,gt=0,ltefield=MaxPageSize"`
	MaxPageSize     int `mapstructure:"max_page_size"     validate:"required,gt=0"`
}
