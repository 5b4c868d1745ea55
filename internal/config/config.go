package config

import (
	"fmt"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	Session   SessionConfig
	Reset     ResetConfig
	Storage   StorageConfig
	Tracing   TracingConfig   `mapstructure:"tracing"`
	CORS      CORSConfig      `mapstructure:"cors"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
	Quiz      QuizConfig      `mapstructure:"quiz"`

	// set from command line flags
	ForceMigrate bool `mapstructure:"-"`
	MigrateOnly  bool `mapstructure:"-"`
	Seed         bool `mapstructure:"-"`
}

type ServerConfig struct {
	Port string
	Mode string
	// BaseURL is used to build absolute password reset links.
	BaseURL string `mapstructure:"base_url"`
}

type DatabaseConfig struct {
	Driver    string
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	Charset   string
	ParseTime bool
	// Path is the database file for the sqlite driver.
	Path string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type SessionConfig struct {
	// Store is "redis" or "memory".
	Store      string        `mapstructure:"store"`
	TTL        time.Duration `mapstructure:"ttl_hours"`
	CookieName string        `mapstructure:"cookie_name"`
	HashKey    string        `mapstructure:"hash_key"`
	BlockKey   string        `mapstructure:"block_key"`
}

type ResetConfig struct {
	Secret string        `mapstructure:"secret"`
	MaxAge time.Duration `mapstructure:"max_age_minutes"`
}

type StorageConfig struct {
	Type          string `mapstructure:"type"`
	LocalPath     string `mapstructure:"local_path"`
	MinioEndpoint string `mapstructure:"minio_endpoint"`
	MinioAccessID string `mapstructure:"minio_access_key"`
	MinioSecret   string `mapstructure:"minio_secret_key"`
	MinioBucket   string `mapstructure:"minio_bucket"`
	MinioSecure   bool   `mapstructure:"minio_secure"`
	OSSEndpoint   string `mapstructure:"oss_endpoint"`
	OSSAccessKey  string `mapstructure:"oss_access_key"`
	OSSSecretKey  string `mapstructure:"oss_secret_key"`
	OSSBucket     string `mapstructure:"oss_bucket"`
}

type TracingConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	ServiceName       string `mapstructure:"service_name"`
	CollectorEndpoint string `mapstructure:"collector_endpoint"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

type RateLimitConfig struct {
	MaxRequests   int `mapstructure:"max_requests"`
	WindowMinutes int `mapstructure:"window_minutes"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	// File is the rotated JSON log. Empty keeps logging on stdout only.
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

type QuizConfig struct {
	LeaderboardSize  int  `mapstructure:"leaderboard_size"`
	ExposeAnswerKeys bool `mapstructure:"expose_answer_keys"`
	// AllowEmptyBank lets a submission against an empty question bank record a zero score.
	AllowEmptyBank bool `mapstructure:"allow_empty_bank"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.base_url", "http://localhost:8080")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", "biokuiz.db")
	v.SetDefault("database.charset", "utf8mb4")
	v.SetDefault("database.parsetime", true)

	v.SetDefault("session.store", "memory")
	v.SetDefault("session.ttl_hours", 24)
	v.SetDefault("session.cookie_name", "biokuiz_session")

	v.SetDefault("reset.max_age_minutes", 10)

	v.SetDefault("storage.type", "local")
	v.SetDefault("storage.local_path", "uploads")

	v.SetDefault("tracing.service_name", "biokuiz")

	v.SetDefault("rate_limit.max_requests", 600)
	v.SetDefault("rate_limit.window_minutes", 1)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "logs/app.log")
	v.SetDefault("log.max_size_mb", 50)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 14)

	v.SetDefault("quiz.leaderboard_size", 20)
	v.SetDefault("quiz.expose_answer_keys", true)
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.AddConfigPath(path)
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	v.SetEnvPrefix("BIOKUIZ")
	v.AutomaticEnv()

	v.BindEnv("server.mode", "SERVER_MODE")
	v.BindEnv("server.port", "PORT")

	v.BindEnv("database.driver", "DATABASE_DRIVER")
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.dbname", "DATABASE_NAME")

	v.BindEnv("redis.host", "REDIS_HOST")
	v.BindEnv("redis.port", "REDIS_PORT")
	v.BindEnv("redis.password", "REDIS_PASSWORD")

	v.BindEnv("session.hash_key", "SESSION_HASH_KEY")
	v.BindEnv("session.block_key", "SESSION_BLOCK_KEY")
	v.BindEnv("reset.secret", "RESET_SECRET")

	v.BindEnv("storage.type", "STORAGE_TYPE")
	v.BindEnv("storage.minio_endpoint", "MINIO_ENDPOINT")
	v.BindEnv("storage.minio_access_key", "MINIO_ACCESS_KEY")
	v.BindEnv("storage.minio_secret_key", "MINIO_SECRET_KEY")
	v.BindEnv("storage.minio_bucket", "MINIO_BUCKET")
	v.BindEnv("storage.oss_endpoint", "OSS_ENDPOINT")
	v.BindEnv("storage.oss_access_key", "OSS_ACCESS_KEY")
	v.BindEnv("storage.oss_secret_key", "OSS_SECRET_KEY")
	v.BindEnv("storage.oss_bucket", "OSS_BUCKET")

	v.BindEnv("tracing.enabled", "TRACING_ENABLED")
	v.BindEnv("tracing.collector_endpoint", "TRACING_COLLECTOR_ENDPOINT")

	setDefaults(v)
	return v
}

func decode(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	cfg.Session.TTL = cfg.Session.TTL * time.Hour
	cfg.Reset.MaxAge = cfg.Reset.MaxAge * time.Minute

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Mode == "release" {
		if len(c.Reset.Secret) < 32 {
			return fmt.Errorf("reset secret is too short (%d chars), must be at least 32 characters in release mode", len(c.Reset.Secret))
		}
		if len(c.Session.HashKey) < 32 {
			return fmt.Errorf("session hash key is too short (%d chars), must be at least 32 characters in release mode", len(c.Session.HashKey))
		}
	}
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Session.Store {
	case "redis", "memory":
	default:
		return fmt.Errorf("unsupported session store %q", c.Session.Store)
	}
	if c.RateLimit.MaxRequests <= 0 || c.RateLimit.WindowMinutes <= 0 {
		return fmt.Errorf("rate_limit.max_requests and rate_limit.window_minutes must be positive")
	}
	if c.Quiz.LeaderboardSize <= 0 {
		return fmt.Errorf("quiz.leaderboard_size must be positive, got %d", c.Quiz.LeaderboardSize)
	}
	return nil
}

// LoadConfig reads config.yaml from path. A .env file in the working
// directory is loaded into the environment first if present.
func LoadConfig(path string) (*Config, error) {
	_ = godotenv.Load()

	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	cfg, err := decode(v)
	if err != nil {
		return nil, err
	}

	if cfg.Storage.Type == "local" {
		if _, err := os.Stat(cfg.Storage.LocalPath); os.IsNotExist(err) {
			os.MkdirAll(cfg.Storage.LocalPath, 0755)
		}
	}

	return cfg, nil
}

// Watch reloads the config file on every write and hands the new value to
// onChange. Reloads that fail validation are passed to onError and dropped.
func Watch(path string, onChange func(*Config), onError func(error)) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		onError(err)
		return
	}

	v.OnConfigChange(func(e fsnotify.Event) {
		if !e.Has(fsnotify.Write) {
			return
		}
		cfg, err := decode(v)
		if err != nil {
			onError(fmt.Errorf("reload %s: %w", e.Name, err))
			return
		}
		onChange(cfg)
	})
	v.WatchConfig()
}
