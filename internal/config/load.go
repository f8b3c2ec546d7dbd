package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable read by Load.
const EnvPrefix = "ACCOUNT"

// configFileEnv names an explicit config file, overriding the ./config.yaml lookup.
const configFileEnv = EnvPrefix + "_CONFIG_FILE"

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Keys without defaults are invisible to AutomaticEnv during Unmarshal.
	for _, key := range []string{
		"database.url",
		"redis.password",
		"auth.jwt_secret",
		"auth.clients.admin",
		"auth.clients.frontend",
		"authorization.policy_path",
		"versioning.documentation_url",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind env for %s: %w", key, err)
		}
	}
	if err := v.BindEnv("config_file", configFileEnv); err != nil {
		return nil, fmt.Errorf("failed to bind env for config file: %w", err)
	}

	if path := v.GetString("config_file"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate runs struct validation on a loaded configuration.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	for role, parents := range cfg.Authorization.Inherits {
		for _, parent := range parents {
			if parent == role {
				return fmt.Errorf("config validation failed: role %q inherits itself", role)
			}
		}
	}
	if cfg.ErrorReport.Enabled && len(cfg.ErrorReport.Tokens) == 0 {
		return fmt.Errorf("config validation failed: error_report.tokens is required when error reporting is enabled")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 25)
	v.SetDefault("database.conn_max_lifetime", "5m")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.key_prefix", "account-api")

	v.SetDefault("auth.access_token_lifetime", "1h")
	v.SetDefault("auth.refresh_token_lifetime", "720h")
	v.SetDefault("auth.invalid_credentials.error", "Invalid credentials.")
	v.SetDefault("auth.invalid_credentials.error_description", "Invalid credentials.")
	v.SetDefault("auth.invalid_credentials.message", "Invalid credentials.")

	v.SetDefault("authorization.engine", "rbac")
	v.SetDefault("authorization.inherits", DefaultInherits())
	v.SetDefault("authorization.permissions", DefaultPermissions())

	v.SetDefault("negotiation.default.accept", []string{"application/json", "application/hal+json"})
	v.SetDefault("negotiation.default.content_type", []string{"application/json", "application/hal+json"})
	v.SetDefault("negotiation.routes", []map[string]interface{}{
		{
			"route":        "security.generate-token",
			"content_type": []string{"application/json", "application/x-www-form-urlencoded"},
		},
		{
			"route":        "security.refresh-token",
			"content_type": []string{"application/json", "application/x-www-form-urlencoded"},
		},
	})

	v.SetDefault("versioning.documentation_url", "")

	v.SetDefault("account.bcrypt_cost", 10)
	v.SetDefault("account.reset_password_lifetime", "1h")
	v.SetDefault("account.frontend_url", "http://localhost:8080")

	v.SetDefault("mail.workers", 2)
	v.SetDefault("mail.queue_size", 100)
	v.SetDefault("mail.send_timeout", "30s")

	v.SetDefault("error_report.enabled", false)
	v.SetDefault("error_report.path", "log/error-report.log")
	v.SetDefault("error_report.tokens", []string{})
	v.SetDefault("error_report.domain_whitelist", []string{})
	v.SetDefault("error_report.ip_whitelist", []string{})
}

// DefaultInherits is the built-in role graph.
func DefaultInherits() map[string][]string {
	return map[string][]string{
		"superuser": {"admin"},
		"admin":     {"guest"},
		"user":      {"guest"},
	}
}

// DefaultPermissions is the built-in route grant table.
func DefaultPermissions() map[string][]string {
	return map[string][]string{
		"guest": {
			"home",
			"security.generate-token",
			"security.refresh-token",
			"account.register",
			"account.activate",
			"account.activate.request",
			"account.recover-identity",
			"account.reset-password.request",
			"account.reset-password.validate",
			"account.reset-password.modify",
			"error.report",
		},
		"user": {
			"user.my-account.view",
			"user.my-account.update",
			"user.my-account.delete",
		},
		"admin": {
			"admin.my-account.view",
			"admin.my-account.update",
			"admin.list",
			"admin.view",
			"admin.role.list",
			"admin.role.view",
			"user.create",
			"user.list",
			"user.view",
			"user.update",
			"user.delete",
			"user.activate",
			"user.role.list",
			"user.role.view",
		},
		"superuser": {
			"admin.create",
			"admin.update",
			"admin.delete",
		},
	}
}
