package config

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// MinJWTSecretLen mirrors the signing key floor enforced by the token codec.
const MinJWTSecretLen = 32

type Config struct {
	Port     string `env:"PORT,      default=8080"`
	Env      string `env:"ENV,       default=development"`
	LogLevel string `env:"LOG_LEVEL, default=info"`

	Auth     AuthConfig
	Database DatabaseConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Audit    AuditConfig
}

type AuthConfig struct {
	JWTSecret string        `env:"JWT_SECRET, required"`
	JWTIssuer string        `env:"JWT_ISSUER, default=taskhub-api"`
	TokenTTL  time.Duration `env:"TOKEN_TTL,  default=24h"`

	PasswordHash    string `env:"PASSWORD_HASH,     default=argon2id"`
	BcryptCost      int    `env:"BCRYPT_COST,       default=10"`
	Argon2MemoryKiB uint32 `env:"ARGON2_MEMORY_KIB, default=65536"`
	Argon2Time      uint32 `env:"ARGON2_TIME,       default=3"`
	Argon2Threads   uint8  `env:"ARGON2_THREADS,    default=2"`

	LoginMaxAttempts int           `env:"LOGIN_MAX_ATTEMPTS, default=5"`
	LoginLockout     time.Duration `env:"LOGIN_LOCKOUT,      default=15m"`
}

type DatabaseConfig struct {
	Driver string `env:"DB_DRIVER, default=sqlite3"`
	DSN    string `env:"DB_DSN"`
}

// MongoConfig is optional: an empty URI disables the Mongo audit store.
type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB, default=taskhub"`
}

// RedisConfig is optional: an empty address disables login throttling.
type RedisConfig struct {
	Addr     string `env:"REDIS_ADDR"`
	Password string `env:"REDIS_PASSWORD"`
	DB       int    `env:"REDIS_DB, default=0"`
}

type AuditConfig struct {
	Workers int `env:"AUDIT_WORKERS, default=4"`
}

// Load reads configuration from environment variables and validates it.
func Load(ctx context.Context) (*Config, error) {
	return LoadWith(ctx, envconfig.OsLookuper())
}

// LoadWith reads configuration through lookuper. Tests pass an
// envconfig.MapLookuper.
func LoadWith(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// Validate rejects settings the service cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if p, err := strconv.Atoi(c.Port); err != nil || p <= 0 || p > 65535 {
		errs = append(errs, fmt.Errorf("PORT %q is not a valid port", c.Port))
	}
	if len(c.Auth.JWTSecret) < MinJWTSecretLen {
		errs = append(errs, fmt.Errorf("JWT_SECRET must be at least %d bytes", MinJWTSecretLen))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, fmt.Errorf("TOKEN_TTL must be positive, got %s", c.Auth.TokenTTL))
	}
	switch strings.ToLower(c.Auth.PasswordHash) {
	case "argon2id", "bcrypt":
	default:
		errs = append(errs, fmt.Errorf("PASSWORD_HASH %q is not one of argon2id, bcrypt", c.Auth.PasswordHash))
	}
	switch c.Database.Driver {
	case "sqlite3":
	case "pgx":
		if c.Database.DSN == "" {
			errs = append(errs, errors.New("DB_DSN is required when DB_DRIVER=pgx"))
		}
	default:
		errs = append(errs, fmt.Errorf("DB_DRIVER %q is not one of sqlite3, pgx", c.Database.Driver))
	}

	return errors.Join(errs...)
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}
