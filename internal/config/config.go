package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config é carregada uma única vez no start e passada para os construtores.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	CORS       CORSConfig       `yaml:"cors"`
	RabbitMQ   RabbitMQConfig   `yaml:"rabbitmq"`
	Redis      RedisConfig      `yaml:"redis"`
	Mail       MailConfig       `yaml:"mail"`
	Log        LogConfig        `yaml:"log"`
	Onboarding OnboardingConfig `yaml:"onboarding"`
	Reconcile  ReconcileConfig  `yaml:"reconcile"`
}

type ServerConfig struct {
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// Addr returns the listen address for http.Server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

type DatabaseConfig struct {
	URL             string        `yaml:"url"               env:"DATABASE_URL"               env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"         env:"DATABASE_MAX_CONNS"         env-default:"10"`
	MinConns        int32         `yaml:"min_conns"         env:"DATABASE_MIN_CONNS"         env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime" env:"DATABASE_MAX_CONN_LIFETIME" env-default:"5m"`
	AutoMigrate     bool          `yaml:"auto_migrate"      env:"DATABASE_AUTO_MIGRATE"      env-default:"false"`
}

type AuthConfig struct {
	JWTSecret string `yaml:"jwt_secret" env:"AUTH_JWT_SECRET" env-required:"true"`
}

type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	AllowedHeaders []string `yaml:"allowed_headers" env:"CORS_ALLOWED_HEADERS" env-default:"authorization,x-client-info,apikey,content-type"`
}

// RabbitMQConfig configura o log de follow-ups. URL vazia desliga a fila.
type RabbitMQConfig struct {
	URL         string `yaml:"url"          env:"RABBITMQ_URL"`
	MaxAttempts int    `yaml:"max_attempts" env:"FOLLOWUP_MAX_ATTEMPTS" env-default:"5"`
}

func (r RabbitMQConfig) Enabled() bool { return r.URL != "" }

// RedisConfig configura o lock por operação. URL vazia usa lock no-op.
type RedisConfig struct {
	URL     string        `yaml:"url"      env:"REDIS_URL"`
	LockTTL time.Duration `yaml:"lock_ttl" env:"REDIS_LOCK_TTL" env-default:"30s"`
}

func (r RedisConfig) Enabled() bool { return r.URL != "" }

type MailConfig struct {
	Host     string `yaml:"host"     env:"MAIL_HOST"`
	Port     int    `yaml:"port"     env:"MAIL_PORT" env-default:"587"`
	User     string `yaml:"user"     env:"MAIL_USER"`
	Password string `yaml:"password" env:"MAIL_PASS"`
	From     string `yaml:"from"     env:"MAIL_FROM" env-default:"nao-responda@liguemedicina.com"`
}

func (m MailConfig) Enabled() bool { return m.Host != "" }

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// OnboardingConfig holds the defaults applied to template items that omit them.
type OnboardingConfig struct {
	DefaultDueDays  int    `yaml:"default_due_days" env:"ONBOARDING_DEFAULT_DUE_DAYS" env-default:"1"`
	DefaultPriority string `yaml:"default_priority" env:"ONBOARDING_DEFAULT_PRIORITY" env-default:"Medium"`
	DefaultCategory string `yaml:"default_category" env:"ONBOARDING_DEFAULT_CATEGORY" env-default:"Setup"`
}

// ReconcileConfig controls the sweep that marks converted leads as Won.
// Interval zero disables it.
type ReconcileConfig struct {
	Interval time.Duration `yaml:"interval" env:"RECONCILE_INTERVAL" env-default:"5m"`
}

// Validate checks business rules that struct tags can't express.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Auth.JWTSecret) < 32 {
		errs = append(errs, fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret)))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port out of range: %d", c.Server.Port))
	}
	if c.RabbitMQ.MaxAttempts < 1 {
		errs = append(errs, fmt.Errorf("rabbitmq.max_attempts must be >= 1 (got %d)", c.RabbitMQ.MaxAttempts))
	}
	if c.Onboarding.DefaultDueDays < 0 {
		errs = append(errs, fmt.Errorf("onboarding.default_due_days must be >= 0 (got %d)", c.Onboarding.DefaultDueDays))
	}
	if c.Reconcile.Interval < 0 {
		errs = append(errs, fmt.Errorf("reconcile.interval must be >= 0 (got %s)", c.Reconcile.Interval))
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		errs = append(errs, fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format))
	}

	return errors.Join(errs...)
}
