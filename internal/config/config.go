package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server        ServerConfig        `mapstructure:"server" validate:"required"`
	Database      DatabaseConfig      `mapstructure:"database" validate:"required"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Auth          AuthConfig          `mapstructure:"auth" validate:"required"`
	Authorization AuthorizationConfig `mapstructure:"authorization" validate:"required"`
	Negotiation   NegotiationConfig   `mapstructure:"negotiation" validate:"required"`
	Versioning    VersioningConfig    `mapstructure:"versioning"`
	Account       AccountConfig       `mapstructure:"account" validate:"required"`
	Mail          MailConfig          `mapstructure:"mail" validate:"required"`
	ErrorReport   ErrorReportConfig   `mapstructure:"error_report"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port            int           `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel        string        `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url" validate:"required,url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" validate:"gte=0"`
}

// RedisConfig configures the refresh token registry.
// An empty Addr selects the in-process registry.
type RedisConfig struct {
	Addr      string `mapstructure:"addr" validate:"omitempty,hostname_port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db" validate:"gte=0"`
	KeyPrefix string `mapstructure:"key_prefix" validate:"required"`
}

// AuthConfig contains token issuance settings and the registered OAuth clients.
type AuthConfig struct {
	JWTSecret            string                   `mapstructure:"jwt_secret" validate:"required,min=32"`
	AccessTokenLifetime  time.Duration            `mapstructure:"access_token_lifetime" validate:"gt=0"`
	RefreshTokenLifetime time.Duration            `mapstructure:"refresh_token_lifetime" validate:"gt=0"`
	Clients              ClientsConfig            `mapstructure:"clients" validate:"required"`
	InvalidCredentials   InvalidCredentialsConfig `mapstructure:"invalid_credentials" validate:"required"`
}

// ClientsConfig holds the secrets of the two token-issuing clients.
type ClientsConfig struct {
	Admin    string `mapstructure:"admin" validate:"required"`
	Frontend string `mapstructure:"frontend" validate:"required"`
}

// InvalidCredentialsConfig is the body returned for a failed password grant.
type InvalidCredentialsConfig struct {
	Error            string `mapstructure:"error" validate:"required"`
	ErrorDescription string `mapstructure:"error_description" validate:"required"`
	Message          string `mapstructure:"message" validate:"required"`
}

// AuthorizationConfig selects the policy engine and describes the role graph.
//
// Inherits maps a role to the roles whose permissions it also receives.
// Permissions maps a role to the route names it may access.
type AuthorizationConfig struct {
	Engine      string              `mapstructure:"engine" validate:"required,oneof=rbac opa"`
	PolicyPath  string              `mapstructure:"policy_path"`
	Inherits    map[string][]string `mapstructure:"inherits"`
	Permissions map[string][]string `mapstructure:"permissions" validate:"required,min=1"`
}

// NegotiationConfig is the media type table consulted by the content negotiation gate.
type NegotiationConfig struct {
	Default MediaTypesConfig   `mapstructure:"default" validate:"required"`
	Routes  []RouteMediaConfig `mapstructure:"routes" validate:"dive"`
}

// MediaTypesConfig lists acceptable request and response media types.
// A scalar value in a config file decodes to a one-element list.
type MediaTypesConfig struct {
	Accept      []string `mapstructure:"accept"`
	ContentType []string `mapstructure:"content_type"`
}

// RouteMediaConfig overrides the default media types for a single route.
type RouteMediaConfig struct {
	Route       string   `mapstructure:"route" validate:"required"`
	Accept      []string `mapstructure:"accept"`
	ContentType []string `mapstructure:"content_type"`
}

// VersioningConfig holds the fallback documentation link for deprecated endpoints.
type VersioningConfig struct {
	DocumentationURL string `mapstructure:"documentation_url" validate:"omitempty,url"`
}

// AccountConfig contains account lifecycle settings.
type AccountConfig struct {
	BcryptCost            int           `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
	ResetPasswordLifetime time.Duration `mapstructure:"reset_password_lifetime" validate:"gt=0"`
	// FrontendURL is the base of the links sent in account mails.
	FrontendURL string `mapstructure:"frontend_url" validate:"required,url"`
}

// MailConfig sizes the background mail outbox.
type MailConfig struct {
	Workers     int           `mapstructure:"workers" validate:"gte=1"`
	QueueSize   int           `mapstructure:"queue_size" validate:"gte=1"`
	SendTimeout time.Duration `mapstructure:"send_timeout" validate:"gt=0"`
}

// ErrorReportConfig controls the remote error reporting endpoint.
// A whitelist entry of "*" matches any origin host or address.
type ErrorReportConfig struct {
	Enabled         bool     `mapstructure:"enabled"`
	Path            string   `mapstructure:"path" validate:"required_if=Enabled true"`
	Tokens          []string `mapstructure:"tokens"`
	DomainWhitelist []string `mapstructure:"domain_whitelist"`
	IPWhitelist     []string `mapstructure:"ip_whitelist"`
}
