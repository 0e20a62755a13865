package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Events   EventsConfig   `mapstructure:"events"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port               int      `mapstructure:"port"                 validate:"required,gt=0,lt=65536"`
	LogLevel           string   `mapstructure:"log_level"            validate:"required,oneof=debug info warn error fatal"`
	CORSAllowedOrigins []string `mapstructure:"cors_allowed_origins" validate:"required,min=1"`
}

// DatabaseConfig selects and configures the storage backend. Driver is
// "postgres" for production or "memory" for a process-local store.
type DatabaseConfig struct {
	Driver       string `mapstructure:"driver"         validate:"required,oneof=postgres memory"`
	URL          string `mapstructure:"url"            validate:"required_if=Driver postgres"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gt=0"`
	AutoMigrate  bool   `mapstructure:"auto_migrate"`
}

// AuthConfig contains all authentication and authorization settings.
// BootstrapAdminEmail always receives the admin role at registration;
// AllowRoleRequest lets other registrants pick their own role.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	BcryptCost           int    `mapstructure:"bcrypt_cost"            validate:"gte=4,lte=31"`
	BootstrapAdminEmail  string `mapstructure:"bootstrap_admin_email"  validate:"required,email"`
	AllowRoleRequest     bool   `mapstructure:"allow_role_request"`
}

// TokenLifetime returns the access token lifetime as a duration.
func (c AuthConfig) TokenLifetime() time.Duration {
	return time.Duration(c.TokenLifetimeMinutes) * time.Minute
}

// EventsConfig controls publishing of domain events to a message broker.
// An empty AMQPURL disables publishing. Workers and QueueSize size the
// background delivery pool in front of the broker.
type EventsConfig struct {
	AMQPURL   string `mapstructure:"amqp_url"`
	Exchange  string `mapstructure:"exchange"   validate:"required_with=AMQPURL"`
	Workers   int    `mapstructure:"workers"    validate:"gt=0"`
	QueueSize int    `mapstructure:"queue_size" validate:"gt=0"`
}
