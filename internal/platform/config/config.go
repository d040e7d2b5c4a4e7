// Package config reads process configuration from the environment so main
// stays lean.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	identityconfig "sybilguard/internal/identity/config"
	"sybilguard/internal/identity/models"
	pstrings "sybilguard/pkg/platform/strings"
)

const devSigningKey = "dev-secret-key-change-in-production"

// Server captures HTTP server level configuration and every backing service.
type Server struct {
	Addr            string
	Environment     string
	LogLevel        string
	ShutdownTimeout time.Duration

	JWTSigningKey string
	JWTIssuer     string
	JWTAudience   string
	JWTLeeway     time.Duration

	Redis    RedisConfig
	Postgres PostgresConfig
	Neo4j    Neo4jConfig
	Kafka    KafkaConfig
	Activity ActivityConfig
	Identity identityconfig.Config

	// HoneypotDecoys are seeded as suspects when the honeypot is enabled.
	HoneypotDecoys []string
}

// RedisConfig backs the verdict store. An empty URL keeps verdicts in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	KeyPrefix    string
}

// PostgresConfig backs the matrix store. An empty URL keeps matrices in memory.
type PostgresConfig struct {
	URL             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Neo4jConfig backs the relationship graph. An empty URI keeps the graph in memory.
type Neo4jConfig struct {
	URI      string
	Username string
	Password string
}

// KafkaConfig enables the Kafka audit publisher when brokers are set.
type KafkaConfig struct {
	Brokers  []string
	Topic    string
	ClientID string
}

// ActivityConfig points at the account activity API.
type ActivityConfig struct {
	URL              string
	APIKey           string
	MaxRetries       int
	RetryDelay       time.Duration
	FailureThreshold int
	Cooldown         time.Duration
}

// IsProduction reports whether development fallbacks must be refused.
func (s Server) IsProduction() bool {
	return s.Environment == "production"
}

// FromEnv builds a Server config from environment variables. Every parse
// failure is reported at once.
func FromEnv() (Server, error) {
	p := &envParser{}

	cfg := Server{
		Addr:            p.str("SYBILGUARD_ADDR", ":8080"),
		Environment:     p.str("ENVIRONMENT", "development"),
		LogLevel:        p.str("LOG_LEVEL", "info"),
		ShutdownTimeout: p.duration("SHUTDOWN_TIMEOUT", 10*time.Second),
		JWTSigningKey:   p.str("JWT_SIGNING_KEY", ""),
		JWTIssuer:       p.str("JWT_ISSUER", "sybilguard"),
		JWTAudience:     p.str("JWT_AUDIENCE", "sybilguard-admin"),
		JWTLeeway:       p.duration("JWT_LEEWAY", 30*time.Second),
		Redis: RedisConfig{
			URL:          p.str("REDIS_URL", ""),
			PoolSize:     p.integer("REDIS_POOL_SIZE", 10),
			MinIdleConns: p.integer("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  p.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  p.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: p.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			KeyPrefix:    p.str("REDIS_KEY_PREFIX", "sybil:"),
		},
		Postgres: PostgresConfig{
			URL:             p.str("DATABASE_URL", ""),
			MaxOpenConns:    p.integer("DATABASE_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    p.integer("DATABASE_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: p.duration("DATABASE_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Neo4j: Neo4jConfig{
			URI:      p.str("NEO4J_URI", ""),
			Username: p.str("NEO4J_USERNAME", ""),
			Password: p.str("NEO4J_PASSWORD", ""),
		},
		Kafka: KafkaConfig{
			Brokers:  p.list("KAFKA_BROKERS"),
			Topic:    p.str("KAFKA_AUDIT_TOPIC", "sybilguard.audit"),
			ClientID: p.str("KAFKA_CLIENT_ID", "sybilguard"),
		},
		Activity: ActivityConfig{
			URL:              p.str("ACTIVITY_API_URL", ""),
			APIKey:           p.str("ACTIVITY_API_KEY", ""),
			MaxRetries:       p.integer("ACTIVITY_MAX_RETRIES", 0),
			RetryDelay:       p.duration("ACTIVITY_RETRY_DELAY", 200*time.Millisecond),
			FailureThreshold: p.integer("ACTIVITY_BREAKER_FAILURES", 5),
			Cooldown:         p.duration("ACTIVITY_BREAKER_COOLDOWN", 30*time.Second),
		},
		Identity:       identityFromEnv(p),
		HoneypotDecoys: p.list("SYBIL_HONEYPOT_DECOYS"),
	}

	if cfg.JWTSigningKey == "" {
		if cfg.IsProduction() {
			p.fail(errors.New("JWT_SIGNING_KEY is required in production"))
		}
		cfg.JWTSigningKey = devSigningKey
	}
	if err := cfg.Identity.Validate(); err != nil {
		p.fail(err)
	}

	if err := errors.Join(p.errs...); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

func identityFromEnv(p *envParser) identityconfig.Config {
	def := identityconfig.DefaultConfig()
	cfg := identityconfig.Config{
		Enabled:                 p.boolean("SYBIL_ENABLED", def.Enabled),
		Mode:                    def.Mode,
		MinimumIdentityStrength: def.MinimumIdentityStrength,
		AnalysisInterval:        p.duration("SYBIL_ANALYSIS_INTERVAL", def.AnalysisInterval),
		MaxClusterSize:          p.integer("SYBIL_MAX_CLUSTER_SIZE", def.MaxClusterSize),
		RetentionPeriodDays:     p.integer("SYBIL_RETENTION_DAYS", def.RetentionPeriodDays),
		HoneypotEnabled:         p.boolean("SYBIL_HONEYPOT_ENABLED", def.HoneypotEnabled),
		ProviderTimeout:         p.duration("SYBIL_PROVIDER_TIMEOUT", def.ProviderTimeout),
		Workers:                 p.integer("SYBIL_WORKERS", def.Workers),
		StalenessWindow:         p.duration("SYBIL_STALENESS_WINDOW", def.StalenessWindow),
		MatrixDimensions:        p.integer("SYBIL_MATRIX_DIMENSIONS", def.MatrixDimensions),
		TrustThreshold:          p.float("SYBIL_TRUST_THRESHOLD", def.TrustThreshold),
		RequireProofOfHumanity:  p.boolean("SYBIL_REQUIRE_PROOF_OF_HUMANITY", def.RequireProofOfHumanity),
	}
	if v := os.Getenv("SYBIL_MODE"); v != "" {
		mode, err := identityconfig.ParseMode(v)
		if err != nil {
			p.fail(err)
		} else {
			cfg.Mode = mode
		}
	}
	if v := os.Getenv("SYBIL_MIN_STRENGTH"); v != "" {
		strength, err := models.ParseStrength(v)
		if err != nil {
			p.fail(fmt.Errorf("SYBIL_MIN_STRENGTH: %w", err))
		} else {
			cfg.MinimumIdentityStrength = strength
		}
	}
	return cfg
}

// envParser collects parse errors so a bad deployment reports them together.
type envParser struct {
	errs []error
}

func (p *envParser) fail(err error) {
	p.errs = append(p.errs, err)
}

func (p *envParser) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func (p *envParser) list(key string) []string {
	return pstrings.SplitList(os.Getenv(key), ",")
}

func (p *envParser) integer(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.fail(fmt.Errorf("%s: %q is not an integer", key, v))
		return def
	}
	return n
}

func (p *envParser) float(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		p.fail(fmt.Errorf("%s: %q is not a number", key, v))
		return def
	}
	return f
}

func (p *envParser) boolean(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.fail(fmt.Errorf("%s: %q is not a boolean", key, v))
		return def
	}
	return b
}

func (p *envParser) duration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.fail(fmt.Errorf("%s: %q is not a duration", key, v))
		return def
	}
	return d
}
