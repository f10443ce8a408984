// Package config: значения по умолчанию, затем YAML-файл, затем переменные окружения.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr string `yaml:"http_addr"`
	// Storage memory | mongo
	Storage string      `yaml:"storage"`
	Mongo   MongoConfig `yaml:"mongo"`
	// LogStore primary | postgres
	LogStore        string           `yaml:"log_store"`
	PostgresDSN     string           `yaml:"postgres_dsn"`
	Auth            AuthConfig       `yaml:"auth"`
	CORSOrigin      string           `yaml:"cors_origin"`
	Cloudinary      CloudinaryConfig `yaml:"cloudinary"`
	AMQP            AMQPConfig       `yaml:"amqp"`
	Bootstrap       BootstrapConfig  `yaml:"bootstrap"`
	ShutdownTimeout time.Duration    `yaml:"shutdown_timeout"`
}

type MongoConfig struct {
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
	MaxPool  int    `yaml:"max_pool"`
}

type AuthConfig struct {
	JWTSecret string        `yaml:"jwt_secret"`
	TokenTTL  time.Duration `yaml:"token_ttl"`
}

type CloudinaryConfig struct {
	CloudName string `yaml:"cloud_name"`
	APIKey    string `yaml:"api_key"`
	APISecret string `yaml:"api_secret"`
	Folder    string `yaml:"folder"`
}

func (c CloudinaryConfig) Enabled() bool {
	return c.CloudName != "" && c.APIKey != "" && c.APISecret != ""
}

type AMQPConfig struct {
	URL   string `yaml:"url"`
	Queue string `yaml:"queue"`
}

// BootstrapConfig первый superadmin, создаётся при старте, если его нет
type BootstrapConfig struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
}

func Default() Config {
	return Config{
		HTTPAddr: ":9091",
		Storage:  "memory",
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "backoffice",
			MaxPool:  20,
		},
		LogStore:        "primary",
		Auth:            AuthConfig{TokenTTL: 24 * time.Hour},
		CORSOrigin:      "http://localhost:5173",
		Cloudinary:      CloudinaryConfig{Folder: "products"},
		AMQP:            AMQPConfig{Queue: "order-events"},
		ShutdownTimeout: 5 * time.Second,
	}
}

// Load читает файл path (если задан) и применяет переменные окружения
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.HTTPAddr = env("HTTP_ADDR", c.HTTPAddr)
	c.Storage = env("STORAGE", c.Storage)
	c.Mongo.URI = env("MONGO_URI", c.Mongo.URI)
	c.Mongo.Database = env("MONGO_DB", c.Mongo.Database)
	c.Mongo.MaxPool = intEnv("MONGO_MAX_POOL", c.Mongo.MaxPool)
	c.LogStore = env("LOG_STORE", c.LogStore)
	c.PostgresDSN = env("DATABASE_URL", c.PostgresDSN)
	c.Auth.JWTSecret = env("JWT_SECRET", c.Auth.JWTSecret)
	c.Auth.TokenTTL = durationEnv("JWT_TTL", c.Auth.TokenTTL)
	c.CORSOrigin = env("CORS_ORIGIN", c.CORSOrigin)
	c.Cloudinary.CloudName = env("CLOUDINARY_CLOUD_NAME", c.Cloudinary.CloudName)
	c.Cloudinary.APIKey = env("CLOUDINARY_API_KEY", c.Cloudinary.APIKey)
	c.Cloudinary.APISecret = env("CLOUDINARY_API_SECRET", c.Cloudinary.APISecret)
	c.Cloudinary.Folder = env("CLOUDINARY_FOLDER", c.Cloudinary.Folder)
	c.AMQP.URL = env("AMQP_URL", c.AMQP.URL)
	c.AMQP.Queue = env("AMQP_QUEUE", c.AMQP.Queue)
	c.Bootstrap.Name = env("ADMIN_NAME", c.Bootstrap.Name)
	c.Bootstrap.Email = env("ADMIN_EMAIL", c.Bootstrap.Email)
	c.Bootstrap.Password = env("ADMIN_PASSWORD", c.Bootstrap.Password)
	c.ShutdownTimeout = durationEnv("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
}

func (c Config) Validate() error {
	var errs []error
	switch c.Storage {
	case "memory", "mongo":
	default:
		errs = append(errs, fmt.Errorf("storage: unknown backend %q", c.Storage))
	}
	switch c.LogStore {
	case "primary":
	case "postgres":
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("log_store=postgres requires postgres_dsn"))
		}
	default:
		errs = append(errs, fmt.Errorf("log_store: unknown value %q", c.LogStore))
	}
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	return errors.Join(errs...)
}

func env(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func intEnv(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}

func durationEnv(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return def
	}
	return d
}
