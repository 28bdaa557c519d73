package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultJWTSecret is only acceptable outside production.
const DefaultJWTSecret = "your-secret-key"

// Config holds all configuration for the application
type Config struct {
	Env Environment `koanf:"env"`

	Server    ServerConfig    `koanf:"server"`
	Database  DatabaseConfig  `koanf:"db"`
	Redis     RedisConfig     `koanf:"redis"`
	JWT       JWTConfig       `koanf:"jwt"`
	Storage   StorageConfig   `koanf:"storage"`
	RateLimit RateLimitConfig `koanf:"rate_limit"`
	Log       LogConfig       `koanf:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            string        `koanf:"port"`
	ReadTimeout     time.Duration `koanf:"read_timeout"`
	WriteTimeout    time.Duration `koanf:"write_timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	CORSOrigins     []string      `koanf:"cors_origins"`
}

// Addr returns the host:port the server listens on.
func (s ServerConfig) Addr() string {
	return s.Host + ":" + s.Port
}

// DatabaseConfig configures the primary database. URL takes precedence over
// the individual fields; a sqlite:// URL selects the embedded driver.
type DatabaseConfig struct {
	URL      string `koanf:"url"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"ssl_mode"`
	MaxConns int    `koanf:"max_conns"`
}

// DSN returns a libpq keyword/value connection string.
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

// RedisConfig configures the Redis client used for rate limiting.
type RedisConfig struct {
	URL      string `koanf:"url"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// JWTConfig configures token signing.
type JWTConfig struct {
	Secret string        `koanf:"secret"`
	Expiry time.Duration `koanf:"expiry"`
}

// StorageConfig configures the S3 bucket recipe images are uploaded to.
// An empty bucket disables uploads.
type StorageConfig struct {
	BucketName string `koanf:"bucket_name"`
	Region     string `koanf:"region"`
	Endpoint   string `koanf:"endpoint"`
	PublicURL  string `koanf:"public_url"`
}

// Enabled reports whether image uploads are configured.
func (s StorageConfig) Enabled() bool {
	return s.BucketName != ""
}

// RateLimitConfig bounds the expensive write endpoints per user.
type RateLimitConfig struct {
	ShoppingListRequests int           `koanf:"shopping_list_requests"`
	ShoppingListWindow   time.Duration `koanf:"shopping_list_window"`
	ReviewRequests       int           `koanf:"review_requests"`
	ReviewWindow         time.Duration `koanf:"review_window"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Level string `koanf:"level"`
}

func defaultConfig() *Config {
	return &Config{
		Env: Development,
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			CORSOrigins:     []string{"http://localhost:3000"},
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     "5432",
			User:     "postgres",
			Password: "postgres",
			Name:     "tastetrail",
			SSLMode:  "disable",
			MaxConns: 25,
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: "6379",
		},
		JWT: JWTConfig{
			Secret: DefaultJWTSecret,
			Expiry: 30 * 24 * time.Hour,
		},
		Storage: StorageConfig{
			Region: "us-east-1",
		},
		RateLimit: RateLimitConfig{
			ShoppingListRequests: 10,
			ShoppingListWindow:   15 * time.Minute,
			ReviewRequests:       5,
			ReviewWindow:         15 * time.Minute,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// envKeys maps environment variables onto koanf paths.
var envKeys = map[string]string{
	"SERVER_HOST":             "server.host",
	"SERVER_PORT":             "server.port",
	"SERVER_READ_TIMEOUT":     "server.read_timeout",
	"SERVER_WRITE_TIMEOUT":    "server.write_timeout",
	"SERVER_SHUTDOWN_TIMEOUT": "server.shutdown_timeout",
	"CORS_ORIGINS":            "server.cors_origins",
	"DATABASE_URL":            "db.url",
	"DB_HOST":                 "db.host",
	"DB_PORT":                 "db.port",
	"DB_USER":                 "db.user",
	"DB_PASSWORD":             "db.password",
	"DB_NAME":                 "db.name",
	"DB_SSL_MODE":             "db.ssl_mode",
	"DB_MAX_CONNS":            "db.max_conns",
	"REDIS_URL":               "redis.url",
	"REDIS_HOST":              "redis.host",
	"REDIS_PORT":              "redis.port",
	"REDIS_PASSWORD":          "redis.password",
	"REDIS_DB":                "redis.db",
	"JWT_SECRET":              "jwt.secret",
	"JWT_EXPIRY":              "jwt.expiry",
	"S3_BUCKET_NAME":          "storage.bucket_name",
	"AWS_REGION":              "storage.region",
	"S3_ENDPOINT":             "storage.endpoint",
	"S3_PUBLIC_URL":           "storage.public_url",
	"SHOPPING_LIST_RATE":      "rate_limit.shopping_list_requests",
	"SHOPPING_LIST_WINDOW":    "rate_limit.shopping_list_window",
	"REVIEW_RATE":             "rate_limit.review_requests",
	"REVIEW_WINDOW":           "rate_limit.review_window",
	"LOG_LEVEL":               "log.level",
}

func envTransform(key string) string {
	return envKeys[key]
}

// LoadConfig builds the configuration from defaults, an optional YAML file
// named by CONFIG_FILE, environment variables and finally Docker secrets.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransform), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.Env = GetEnvironment()
	cfg.Server.CORSOrigins = splitList(cfg.Server.CORSOrigins)

	applySecrets(cfg, secretsDir())

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// splitList flattens comma-joined entries coming from a single env value.
func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
