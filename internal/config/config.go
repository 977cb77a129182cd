package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"
)

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Log      LogConfig      `mapstructure:"log"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Mongo    MongoConfig    `mapstructure:"mongo"`
	Auth     AuthConfig     `mapstructure:"auth"`
}

type HTTPConfig struct {
	Addr           string   `mapstructure:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type StorageConfig struct {
	Driver        string        `mapstructure:"driver"`
	Key           string        `mapstructure:"key"`
	Dir           string        `mapstructure:"dir"`
	RetryAttempts uint          `mapstructure:"retry_attempts"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

type PostgresConfig struct {
	Host        string `mapstructure:"host"`
	Port        string `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DB          string `mapstructure:"db"`
	SSLMode     string `mapstructure:"sslmode"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type MongoConfig struct {
	URI string `mapstructure:"uri"`
	DB  string `mapstructure:"db"`
}

type AuthConfig struct {
	JWTSecret      string        `mapstructure:"jwt_secret"`
	GoogleClientID string        `mapstructure:"google_client_id"`
	RedirectURL    string        `mapstructure:"redirect_url"`
	CookieDomain   string        `mapstructure:"cookie_domain"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
}

// settings maps every config key to its environment variable and default.
var settings = []struct {
	key string
	env string
	def any
}{
	{"http.addr", "HTTP_ADDR", "0.0.0.0:8080"},
	{"http.allowed_origins", "ALLOWED_ORIGINS", []string{}},
	{"log.level", "LOG_LEVEL", "info"},
	{"log.format", "LOG_FORMAT", "json"},
	{"storage.driver", "STORAGE_DRIVER", DriverFile},
	{"storage.key", "STORAGE_KEY", "fuse_collective_pool_v1"},
	{"storage.dir", "STORAGE_DIR", "data"},
	{"storage.retry_attempts", "STORAGE_RETRY_ATTEMPTS", uint(5)},
	{"storage.retry_delay", "STORAGE_RETRY_DELAY", time.Second},
	{"postgres.host", "POSTGRES_HOST", "localhost"},
	{"postgres.port", "POSTGRES_PORT", "5432"},
	{"postgres.user", "POSTGRES_USER", ""},
	{"postgres.password", "POSTGRES_PASSWORD", ""},
	{"postgres.db", "POSTGRES_DB", ""},
	{"postgres.sslmode", "POSTGRES_SSLMODE", "disable"},
	{"postgres.auto_migrate", "POSTGRES_AUTO_MIGRATE", false},
	{"mongo.uri", "MONGO_URI", ""},
	{"mongo.db", "MONGO_DB", "collective_pool"},
	{"auth.jwt_secret", "JWT_SECRET", ""},
	{"auth.google_client_id", "GOOGLE_CLIENT_ID", ""},
	{"auth.redirect_url", "AUTH_REDIRECT_URL", "/"},
	{"auth.cookie_domain", "COOKIE_DOMAIN", ""},
	{"auth.token_ttl", "AUTH_TOKEN_TTL", 24 * time.Hour},
}

// New reads configuration from the environment, optionally layered over the
// YAML file at cfgPath. An empty cfgPath skips the file.
func New(cfgPath string) (*Config, error) {
	v := viper.New()

	for _, s := range settings {
		v.SetDefault(s.key, s.def)
		if err := v.BindEnv(s.key, s.env); err != nil {
			return nil, fmt.Errorf("bind %s: %w", s.env, err)
		}
	}

	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", cfgPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	cfg.Storage.Driver = strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (cfg *Config) Validate() error {
	if err := cfg.Storage.Validate(); err != nil {
		return err
	}

	switch cfg.Storage.Driver {
	case DriverPostgres:
		return cfg.Postgres.Validate()
	case DriverMongo:
		return cfg.Mongo.Validate()
	}

	return nil
}

// ValidateServer adds the checks that only matter when serving HTTP.
func (cfg *Config) ValidateServer() error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.HTTP.Addr == "" {
		return errors.New("http addr must be set")
	}
	if cfg.Auth.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}
	return nil
}

func (cfg *StorageConfig) Validate() error {
	switch cfg.Driver {
	case DriverMemory, DriverPostgres, DriverMongo:
	case DriverFile:
		if cfg.Dir == "" {
			return errors.New("storage dir must be set for the file driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	if strings.TrimSpace(cfg.Key) == "" {
		return errors.New("storage key must not be empty")
	}
	if cfg.RetryAttempts == 0 {
		return errors.New("storage retry attempts must be positive")
	}

	return nil
}

func (cfg *PostgresConfig) Validate() error {
	if cfg.Host == "" || cfg.Port == "" {
		return errors.New("postgres host and port must be set")
	}
	if cfg.User == "" {
		return errors.New("postgres user must be set")
	}
	if cfg.DB == "" {
		return errors.New("postgres db must be set")
	}
	return nil
}

// DSN builds a lib/pq connection URL.
func (cfg *PostgresConfig) DSN() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     cfg.Host + ":" + cfg.Port,
		Path:     "/" + cfg.DB,
		RawQuery: "sslmode=" + url.QueryEscape(cfg.SSLMode),
	}
	return u.String()
}

func (cfg *MongoConfig) Validate() error {
	if cfg.URI == "" {
		return errors.New("mongo uri must be set")
	}
	if cfg.DB == "" {
		return errors.New("mongo db must be set")
	}
	return nil
}
