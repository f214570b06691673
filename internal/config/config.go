package config

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-envconfig"
)

// Config holds runtime configuration for the bookly service and mail worker.
type Config struct {
	Addr  string `env:"ADDR,default=:8000"`
	DBDSN string `env:"DB_DSN,required"`

	RedisAddr     string `env:"REDIS_ADDR,default=localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB,default=0"`

	NATSURL string `env:"NATS_URL,default=nats://localhost:4222"`

	JWTSigningKey   string        `env:"JWT_SIGNING_KEY,required"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,default=30m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL,default=48h"`
	EmailTokenTTL   time.Duration `env:"EMAIL_TOKEN_TTL,default=24h"`

	SMTPHost     string `env:"SMTP_HOST"`
	SMTPPort     int    `env:"SMTP_PORT,default=587"`
	SMTPUser     string `env:"SMTP_USER"`
	SMTPPassword string `env:"SMTP_PASS"`
	MailFrom     string `env:"MAIL_FROM"`
	MailFromName string `env:"MAIL_FROM_NAME,default=Bookly"`

	// Domain is the externally reachable base URL used in email links.
	Domain string `env:"DOMAIN,default=http://localhost:8000"`

	OTLPEndpoint   string   `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS,default=*"`
}

// Load returns a Config populated from environment variables.
func Load(ctx context.Context) (Config, error) {
	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFrom populates a Config from the given lookuper. Used by tests.
func LoadFrom(ctx context.Context, lookuper envconfig.Lookuper) (Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if len(c.JWTSigningKey) < 16 {
		return errors.New("JWT_SIGNING_KEY must be at least 16 bytes")
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return errors.New("token TTLs must be positive")
	}
	if c.RefreshTokenTTL < c.AccessTokenTTL {
		return errors.New("REFRESH_TOKEN_TTL must not be shorter than ACCESS_TOKEN_TTL")
	}
	return nil
}
