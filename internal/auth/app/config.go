package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/aussiebroadwan/otpauth/pkg/jwtx"
	"github.com/caarlos0/env/v11"
)

// Store drivers.
const (
	DriverSQLite = "sqlite"
	DriverMongo  = "mongo"
)

var ErrInvalidConfig = errors.New("invalid config")

type Config struct {
	Env                 string        `env:"ENV"                   envDefault:"dev"`  // dev, staging, prod
	LogLevel            string        `env:"LOG_LEVEL"             envDefault:"info"` // debug, info, warn, error
	LogFormat           string        `env:"LOG_FORMAT"            envDefault:"json"` // json, text
	Port                int           `env:"PORT"                  envDefault:"8080"`
	ShutdownGracePeriod time.Duration `env:"SHUTDOWN_GRACE_PERIOD" envDefault:"10s"`

	StoreDriver   string `env:"AUTH_STORE_DRIVER"  envDefault:"sqlite"`
	DatabaseFile  string `env:"AUTH_DATABASE_FILE" envDefault:"auth.db"`
	MongoURL      string `env:"MONGODB_URL"`
	MongoDatabase string `env:"MONGODB_DATABASE"   envDefault:"otpauth"`
	PepperFile    string `env:"AUTH_PEPPER_FILE"   envDefault:"pepper"`
	OTELEndpoint  string `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	JWTSecret  string        `env:"JWT_SECRET,required,notEmpty"`
	JWTTimeout time.Duration `env:"JWT_TIMEOUT_DURATION" envDefault:"2h"`
	Issuer     string        `env:"AUTH_ISSUER"          envDefault:"otpauth"`

	Mail MailConfig
}

type MailConfig struct {
	From     string `env:"EMAIL_SMTP_FROM" envDefault:"noreply@localhost"`
	Host     string `env:"EMAIL_SMTP_HOST"` // empty selects the log mailer
	Port     int    `env:"EMAIL_SMTP_PORT" envDefault:"587"`
	Username string `env:"EMAIL_SMTP_USERNAME"`
	Password string `env:"EMAIL_SMTP_PASSWORD"`
	TLS      string `env:"EMAIL_SMTP_TLS"  envDefault:"mandatory"`
}

// LoadConfig reads Config from the environment and validates it.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if len(c.JWTSecret) < jwtx.MinSecretLength {
		return fmt.Errorf("%w: JWT_SECRET must be at least %d bytes", ErrInvalidConfig, jwtx.MinSecretLength)
	}
	if c.JWTTimeout <= 0 {
		return fmt.Errorf("%w: JWT_TIMEOUT_DURATION must be positive", ErrInvalidConfig)
	}
	switch c.StoreDriver {
	case DriverSQLite:
		if c.DatabaseFile == "" {
			return fmt.Errorf("%w: AUTH_DATABASE_FILE is required for sqlite", ErrInvalidConfig)
		}
	case DriverMongo:
		if c.MongoURL == "" {
			return fmt.Errorf("%w: MONGODB_URL is required for mongo", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown AUTH_STORE_DRIVER %q", ErrInvalidConfig, c.StoreDriver)
	}
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("%w: PORT out of range", ErrInvalidConfig)
	}
	return nil
}

// ExposeErrors reports whether dependency error text may reach clients.
func (c Config) ExposeErrors() bool { return c.Env == "dev" }
