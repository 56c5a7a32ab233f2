// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Deployment modes. Hosted deployments assign every workspace a unique hostname.
const (
	ModeSingle = "single"
	ModeHosted = "hosted"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// GRPCAddr is the address the gRPC server listens on (e.g. :8080).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// HTTPAddr is the address of the HTTP surface (hostname resolution, healthz).
	HTTPAddr string `mapstructure:"HTTP_ADDR"`
	// DatabaseURL is the Postgres DSN.
	DatabaseURL string `mapstructure:"DATABASE_URL"`

	// DeploymentMode is "single" or "hosted".
	DeploymentMode string `mapstructure:"DEPLOYMENT_MODE"`
	// HostnameBaseDomain is appended to a hostname when resolving it to a URL (e.g. "example.com").
	HostnameBaseDomain string `mapstructure:"HOSTNAME_BASE_DOMAIN"`
	// HostnameScheme is the scheme of resolved URLs.
	HostnameScheme string `mapstructure:"HOSTNAME_SCHEME"`
	// HostnameMaxAttempts bounds suffix retries in the hostname allocator.
	HostnameMaxAttempts int `mapstructure:"HOSTNAME_MAX_ATTEMPTS"`
	// ProvisionMaxAttempts bounds how often workspace creation retries after a hostname conflict at insert.
	ProvisionMaxAttempts int `mapstructure:"PROVISION_MAX_ATTEMPTS"`
	// OwnerGuardLocking when true runs role updates in a transaction holding row locks on the workspace owners.
	OwnerGuardLocking bool `mapstructure:"OWNER_GUARD_LOCKING"`

	// JWTPrivateKey is the PEM-encoded private key (RSA or ECDSA) or path to file. Only cmd/seed signs tokens.
	JWTPrivateKey string `mapstructure:"JWT_PRIVATE_KEY"`
	// JWTPublicKey is the PEM-encoded public key or path to file; enables bearer verification when set.
	JWTPublicKey string `mapstructure:"JWT_PUBLIC_KEY"`
	// JWTIssuer is the iss claim (e.g. "wcp-auth").
	JWTIssuer string `mapstructure:"JWT_ISSUER"`
	// JWTAudience is the aud claim (e.g. "wcp-api").
	JWTAudience string `mapstructure:"JWT_AUDIENCE"`
	// JWTAccessTTL is the lifetime of dev access tokens (e.g. "15m").
	JWTAccessTTL string `mapstructure:"JWT_ACCESS_TTL"`

	// Hostname resolution cache (optional). Enabled when RedisAddr is set.
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisDB          int    `mapstructure:"REDIS_DB"`
	HostnameCacheTTL string `mapstructure:"HOSTNAME_CACHE_TTL"`

	// Domain events (optional). When Kafka brokers are set, workspace events are published to Kafka.
	// KafkaBrokers is a comma-separated list of Kafka broker addresses (e.g. "localhost:9092").
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// EventsKafkaTopic is the topic for workspace events.
	EventsKafkaTopic string `mapstructure:"EVENTS_KAFKA_TOPIC"`
	// KafkaGroupID is the consumer group ID for the event worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
	// Worker-only: Loki URL for the event worker to push logs (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`

	// OTLP export is enabled when the endpoint is set.
	OTelEndpoint    string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTelInsecure    bool   `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	OTelServiceName string `mapstructure:"OTEL_SERVICE_NAME"`

	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string `mapstructure:"LOG_LEVEL"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("GRPC_ADDR", ":8080")
	v.SetDefault("HTTP_ADDR", ":8081")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("DEPLOYMENT_MODE", ModeSingle)
	v.SetDefault("HOSTNAME_BASE_DOMAIN", "")
	v.SetDefault("HOSTNAME_SCHEME", "https")
	v.SetDefault("HOSTNAME_MAX_ATTEMPTS", 20)
	v.SetDefault("PROVISION_MAX_ATTEMPTS", 5)
	v.SetDefault("OWNER_GUARD_LOCKING", true)
	v.SetDefault("JWT_PRIVATE_KEY", "")
	v.SetDefault("JWT_PUBLIC_KEY", "")
	v.SetDefault("JWT_ISSUER", "wcp-auth")
	v.SetDefault("JWT_AUDIENCE", "wcp-api")
	v.SetDefault("JWT_ACCESS_TTL", "15m")
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("HOSTNAME_CACHE_TTL", "5m")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("EVENTS_KAFKA_TOPIC", "wcp-workspace-events")
	v.SetDefault("KAFKA_GROUP_ID", "wcp-event-archiver")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "workspace-control-plane")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_ENV", "")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.GRPCAddr == "" {
		return nil, errors.New("config: GRPC_ADDR must be set")
	}

	cfg.DeploymentMode = strings.ToLower(strings.TrimSpace(cfg.DeploymentMode))
	switch cfg.DeploymentMode {
	case "":
		cfg.DeploymentMode = ModeSingle
	case ModeSingle, ModeHosted:
	default:
		return nil, errors.New("config: DEPLOYMENT_MODE must be single or hosted")
	}
	if cfg.IsHosted() && cfg.HostnameBaseDomain == "" {
		return nil, errors.New("config: HOSTNAME_BASE_DOMAIN must be set when DEPLOYMENT_MODE=hosted")
	}

	if cfg.HostnameMaxAttempts < 1 {
		return nil, errors.New("config: HOSTNAME_MAX_ATTEMPTS must be at least 1")
	}
	if cfg.ProvisionMaxAttempts < 1 {
		return nil, errors.New("config: PROVISION_MAX_ATTEMPTS must be at least 1")
	}

	return &cfg, nil
}

// IsHosted reports whether workspaces receive hostnames.
func (c *Config) IsHosted() bool {
	return c != nil && c.DeploymentMode == ModeHosted
}

// AccessTTL parses JWTAccessTTL as a time.Duration. Returns 15m if unset or invalid.
func (c *Config) AccessTTL() time.Duration {
	d, err := time.ParseDuration(c.JWTAccessTTL)
	if err != nil || d <= 0 {
		return 15 * time.Minute
	}
	return d
}

// CacheTTL parses HostnameCacheTTL as a time.Duration. Returns 5m if unset or invalid.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.HostnameCacheTTL)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if event publishing is enabled (non-empty list) and to create the producer.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
