// Package config loads the application settings from .env, an optional
// config.yaml and the environment, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Session  SessionConfig  `mapstructure:"session"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Storage  StorageConfig  `mapstructure:"storage"`
	PDF      PDFConfig      `mapstructure:"pdf"`
	Log      LogConfig      `mapstructure:"log"`
	App      AppConfig      `mapstructure:"app"`
	Admin    AdminConfig    `mapstructure:"admin"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// Addr is the listen address for http.Server.
func (s ServerConfig) Addr() string { return fmt.Sprintf(":%d", s.Port) }

type DatabaseConfig struct {
	Driver        string        `mapstructure:"driver"`
	DSN           string        `mapstructure:"dsn"`
	Debug         bool          `mapstructure:"debug"`
	Migrations    bool          `mapstructure:"migrations"`
	MigrationsDir string        `mapstructure:"migrations_dir"`
	MaxOpenConns  int           `mapstructure:"max_open_conns"`
	MaxIdleConns  int           `mapstructure:"max_idle_conns"`
	ConnRetries   int           `mapstructure:"conn_retries"`
	RetryDelay    time.Duration `mapstructure:"retry_delay"`
}

type SessionConfig struct {
	Store  string        `mapstructure:"store"`
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
	Secure bool          `mapstructure:"secure"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	PoolSize int    `mapstructure:"pool_size"`
}

type StorageConfig struct {
	Backend  string      `mapstructure:"backend"`
	LocalDir string      `mapstructure:"local_dir"`
	MaxBytes int64       `mapstructure:"max_bytes"`
	MinIO    MinIOConfig `mapstructure:"minio"`
}

type MinIOConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	Bucket    string `mapstructure:"bucket"`
	UseSSL    bool   `mapstructure:"use_ssl"`
}

type PDFConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type AppConfig struct {
	Name string `mapstructure:"name"`
	Env  string `mapstructure:"env"`
}

// IsProduction reports whether the app runs with production settings.
func (a AppConfig) IsProduction() bool { return a.Env == "production" }

type AdminConfig struct {
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

const (
	SessionCookie = "cookie"
	SessionRedis  = "redis"

	StorageLocal = "local"
	StorageMinIO = "minio"

	devSessionSecret = "dev-insecure-secret-change-me"
)

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 10000)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.driver", "")
	v.SetDefault("database.dsn", "backoffice.db")
	v.SetDefault("database.debug", false)
	v.SetDefault("database.migrations", false)
	v.SetDefault("database.migrations_dir", "migrations")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_retries", 10)
	v.SetDefault("database.retry_delay", time.Second)

	v.SetDefault("session.store", SessionCookie)
	v.SetDefault("session.secret", devSessionSecret)
	v.SetDefault("session.ttl", 14*24*time.Hour)
	v.SetDefault("session.secure", false)

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)

	v.SetDefault("storage.backend", StorageLocal)
	v.SetDefault("storage.local_dir", "uploads")
	v.SetDefault("storage.max_bytes", 10<<20)
	v.SetDefault("storage.minio.endpoint", "localhost:9000")
	v.SetDefault("storage.minio.access_key", "")
	v.SetDefault("storage.minio.secret_key", "")
	v.SetDefault("storage.minio.bucket", "backoffice")
	v.SetDefault("storage.minio.use_ssl", false)

	v.SetDefault("pdf.enabled", true)
	v.SetDefault("log.level", "info")
	v.SetDefault("app.name", "backoffice")
	v.SetDefault("app.env", "development")
	v.SetDefault("admin.username", "admin")
	v.SetDefault("admin.password", "admin")
}

// bindEnvVariables keeps the flat variable names used by deployments.
func bindEnvVariables(v *viper.Viper) {
	_ = v.BindEnv("server.port", "PORT")
	_ = v.BindEnv("database.driver", "DB_DRIVER")
	_ = v.BindEnv("database.dsn", "DATABASE_URL")
	_ = v.BindEnv("database.debug", "DB_DEBUG")
	_ = v.BindEnv("database.migrations", "MIGRATIONS")
	_ = v.BindEnv("session.store", "SESSION_STORE")
	_ = v.BindEnv("session.secret", "SESSION_SECRET")
	_ = v.BindEnv("session.secure", "SESSION_SECURE")
	_ = v.BindEnv("redis.addr", "REDIS_ADDR")
	_ = v.BindEnv("redis.password", "REDIS_PASSWORD")
	_ = v.BindEnv("storage.backend", "STORAGE_BACKEND")
	_ = v.BindEnv("storage.local_dir", "UPLOAD_DIR")
	_ = v.BindEnv("storage.minio.endpoint", "MINIO_ENDPOINT")
	_ = v.BindEnv("storage.minio.access_key", "MINIO_ACCESS_KEY")
	_ = v.BindEnv("storage.minio.secret_key", "MINIO_SECRET_KEY")
	_ = v.BindEnv("storage.minio.bucket", "MINIO_BUCKET")
	_ = v.BindEnv("storage.minio.use_ssl", "MINIO_USE_SSL")
	_ = v.BindEnv("pdf.enabled", "PDF_ENABLED")
	_ = v.BindEnv("log.level", "LOG_LEVEL")
	_ = v.BindEnv("app.env", "APP_ENV")
	_ = v.BindEnv("admin.username", "ADMIN_USERNAME")
	_ = v.BindEnv("admin.password", "ADMIN_PASSWORD")
}

// Load reads configuration. Extra search paths for config.yaml may be given
// and take precedence over "./configs" and ".".
func Load(paths ...string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}
	bindEnvVariables(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects combinations that cannot start.
func (c *Config) Validate() error {
	switch c.Session.Store {
	case SessionCookie, SessionRedis:
	default:
		return fmt.Errorf("unknown session store %q", c.Session.Store)
	}
	switch c.Storage.Backend {
	case StorageLocal, StorageMinIO:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	if c.App.IsProduction() && c.Session.Secret == devSessionSecret {
		return errors.New("SESSION_SECRET must be set in production")
	}
	if c.Server.Port <= 0 {
		return fmt.Errorf("invalid port %d", c.Server.Port)
	}
	return nil
}
