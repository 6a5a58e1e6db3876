package config

import (
	"os"
	"strconv"
	"time"
)

// Config captures everything the server needs from the environment so main
// stays lean. Session and token lifetimes are independent by design: a
// provider binding usually outlives a single local browsing session.
type Config struct {
	Addr          string
	JWTSigningKey string

	OperatorUser     string
	OperatorPassword string

	SessionTTL    time.Duration
	TokenCacheTTL time.Duration
	SweepInterval time.Duration

	Provider ProviderConfig
	Peer     PeerConfig
	Audit    AuditConfig
	Redis    RedisConfig
}

// ProviderConfig addresses the national-identity provider.
type ProviderConfig struct {
	BaseURL string
	Timeout time.Duration
}

// PeerConfig addresses the device-control service driving the fingerprint
// scanner.
type PeerConfig struct {
	BaseURL string
	Timeout time.Duration
}

// AuditConfig selects the audit sink. Sink is one of "memory", "redis",
// "postgres", "kafka".
type AuditConfig struct {
	Sink        string
	BufferSize  int
	PostgresDSN string
	KafkaSeeds  string
	KafkaTopic  string
}

// RedisConfig configures the optional Redis connection used by the audit sink.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv builds a Config from environment variables with development
// defaults. Production deployments must override the signing key.
func FromEnv() Config {
	return Config{
		Addr:          envStr("NIDBRIDGE_ADDR", ":8080"),
		JWTSigningKey: envStr("NIDBRIDGE_JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),

		OperatorUser:     envStr("NIDBRIDGE_OPERATOR_USER", "operator"),
		OperatorPassword: envStr("NIDBRIDGE_OPERATOR_PASSWORD", "operator-dev-password"),

		SessionTTL:    envDuration("NIDBRIDGE_SESSION_TTL", 3600*time.Second),
		TokenCacheTTL: envDuration("NIDBRIDGE_TOKEN_TTL", 43200*time.Second),
		SweepInterval: envDuration("NIDBRIDGE_SWEEP_INTERVAL", 5*time.Minute),

		Provider: ProviderConfig{
			BaseURL: envStr("NIDBRIDGE_PROVIDER_URL", "http://localhost:9000"),
			Timeout: envDuration("NIDBRIDGE_PROVIDER_TIMEOUT", 30*time.Second),
		},
		Peer: PeerConfig{
			BaseURL: envStr("NIDBRIDGE_PEER_URL", "http://localhost:9100"),
			Timeout: envDuration("NIDBRIDGE_PEER_TIMEOUT", 60*time.Second),
		},
		Audit: AuditConfig{
			Sink:        envStr("NIDBRIDGE_AUDIT_SINK", "memory"),
			BufferSize:  envInt("NIDBRIDGE_AUDIT_BUFFER", 256),
			PostgresDSN: os.Getenv("NIDBRIDGE_AUDIT_POSTGRES_DSN"),
			KafkaSeeds:  os.Getenv("NIDBRIDGE_AUDIT_KAFKA_SEEDS"),
			KafkaTopic:  envStr("NIDBRIDGE_AUDIT_KAFKA_TOPIC", "nidbridge.audit"),
		},
		Redis: RedisConfig{
			URL:          os.Getenv("NIDBRIDGE_REDIS_URL"),
			PoolSize:     envInt("NIDBRIDGE_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("NIDBRIDGE_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("NIDBRIDGE_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("NIDBRIDGE_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("NIDBRIDGE_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
	}
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
