package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix namespaces every TemplHub environment variable.
const EnvPrefix = "templhub"

const (
	AppEnvDev  = "dev"
	AppEnvProd = "prod"
)

type Config struct {
	App     AppConfig
	DB      DBConfig
	Redis   RedisConfig
	JWT     JWTConfig
	GCP     GCPConfig
	PubSub  PubSubConfig
	Outbox  OutboxConfig
	Tickets TicketsConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"TEMPLHUB_APP_ENV" required:"true"`
	Port         string `envconfig:"TEMPLHUB_APP_PORT" default:"8080"`
	LogLevel     string `envconfig:"TEMPLHUB_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"TEMPLHUB_LOG_WARN_STACK" default:"false"`
	AutoMigrate  bool   `envconfig:"TEMPLHUB_AUTO_MIGRATE" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

type DBConfig struct {
	DSN    string `envconfig:"TEMPLHUB_DB_DSN" required:"true"`
	Driver string `envconfig:"TEMPLHUB_DB_DRIVER" default:"postgres"`

	MaxOpenConns    int           `envconfig:"TEMPLHUB_DB_MAX_OPEN_CONNS" default:"20"`
	MaxIdleConns    int           `envconfig:"TEMPLHUB_DB_MAX_IDLE_CONNS" default:"10"`
	ConnMaxLifetime time.Duration `envconfig:"TEMPLHUB_DB_CONN_MAX_LIFETIME" default:"1h"`
	ConnMaxIdleTime time.Duration `envconfig:"TEMPLHUB_DB_CONN_MAX_IDLE_TIME" default:"10m"`
}

type RedisConfig struct {
	URL          string        `envconfig:"TEMPLHUB_REDIS_URL"`
	Address      string        `envconfig:"TEMPLHUB_REDIS_ADDR"`
	Password     string        `envconfig:"TEMPLHUB_REDIS_PASSWORD"`
	DB           int           `envconfig:"TEMPLHUB_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"TEMPLHUB_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"TEMPLHUB_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"TEMPLHUB_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"TEMPLHUB_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"TEMPLHUB_REDIS_WRITE_TIMEOUT" default:"5s"`
}

type JWTConfig struct {
	Secret            string `envconfig:"TEMPLHUB_JWT_SECRET" required:"true"`
	Issuer            string `envconfig:"TEMPLHUB_JWT_ISSUER" required:"true"`
	ExpirationMinutes int    `envconfig:"TEMPLHUB_JWT_EXPIRATION_MINUTES" default:"60"`
}

// AccessTokenTTL returns the configured access token lifetime.
func (j JWTConfig) AccessTokenTTL() time.Duration {
	if j.ExpirationMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(j.ExpirationMinutes) * time.Minute
}

type GCPConfig struct {
	ProjectID string `envconfig:"TEMPLHUB_GCP_PROJECT_ID"`
}

type PubSubConfig struct {
	TicketTopic string `envconfig:"TEMPLHUB_PUBSUB_TICKET_TOPIC" default:"templhub-ticket-events"`
}

type OutboxConfig struct {
	BatchSize      int `envconfig:"TEMPLHUB_OUTBOX_PUBLISH_BATCH_SIZE" default:"50"`
	PollIntervalMS int `envconfig:"TEMPLHUB_OUTBOX_PUBLISH_POLL_MS" default:"500"`
	MaxAttempts    int `envconfig:"TEMPLHUB_OUTBOX_MAX_ATTEMPTS" default:"10"`
}

type TicketsConfig struct {
	NumberPrefix string `envconfig:"TEMPLHUB_TICKET_NUMBER_PREFIX" default:"TH"`
}
