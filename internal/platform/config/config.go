// Package config loads the process-wide configuration once at startup.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// environment variables (a local .env file is loaded into the environment first).
// The resulting Config is treated as immutable and injected into the components
// that need it.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// ConfigPathEnvVar overrides the YAML config file location.
const ConfigPathEnvVar = "CONFIG_PATH"

// Store drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// defaultConfigPaths are searched in order when CONFIG_PATH is not set.
var defaultConfigPaths = []string{"config.yaml", "config.yml"}

// Config is the root configuration.
type Config struct {
	App       AppConfig       `koanf:"app"`
	Server    ServerConfig    `koanf:"server"`
	JWT       JWTConfig       `koanf:"jwt"`
	Store     StoreConfig     `koanf:"store"`
	Mongo     MongoConfig     `koanf:"mongo"`
	DB        DBConfig        `koanf:"db"`
	Redis     RedisConfig     `koanf:"redis"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Log       LogConfig       `koanf:"log"`
}

// AppConfig holds environment-wide settings.
type AppConfig struct {
	// Env is "development" or "production".
	Env string `koanf:"env"`
}

// IsDevelopment reports whether detailed error output is allowed.
func (a AppConfig) IsDevelopment() bool {
	return a.Env == "development"
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	CORSOrigin      string        `koanf:"cors_origin"`
	StaticDir       string        `koanf:"static_dir"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf(":%d", s.Port)
}

// JWTConfig holds the token codec settings.
type JWTConfig struct {
	Secret string        `koanf:"secret"`
	Expire time.Duration `koanf:"expire"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	Driver string `koanf:"driver"`
}

// MongoConfig holds document store settings.
type MongoConfig struct {
	URI            string        `koanf:"uri"`
	Database       string        `koanf:"database"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// DBConfig holds relational store settings.
type DBConfig struct {
	Host           string        `koanf:"host"`
	Port           string        `koanf:"port"`
	User           string        `koanf:"user"`
	Password       string        `koanf:"password"`
	Name           string        `koanf:"name"`
	SSLMode        string        `koanf:"sslmode"`
	SQLitePath     string        `koanf:"sqlite_path"`
	RunMigrations  bool          `koanf:"run_migrations"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// RedisConfig holds the optional Redis connection. An empty Host disables Redis.
type RedisConfig struct {
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	Password string `koanf:"password"`
}

// Addr returns host:port.
func (r RedisConfig) Addr() string {
	return r.Host + ":" + r.Port
}

// Enabled reports whether Redis is configured.
func (r RedisConfig) Enabled() bool {
	return r.Host != ""
}

// RateLimitConfig controls throttling of the credential endpoints.
type RateLimitConfig struct {
	LoginPerMinute int `koanf:"login_per_minute"`
}

// LogConfig controls the logger.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

func defaultConfig() Config {
	return Config{
		App: AppConfig{Env: "development"},
		Server: ServerConfig{
			Port:            5000,
			CORSOrigin:      "http://localhost:3000",
			ShutdownTimeout: 10 * time.Second,
		},
		JWT: JWTConfig{
			Expire: 7 * 24 * time.Hour,
		},
		Store: StoreConfig{Driver: DriverMongo},
		Mongo: MongoConfig{
			URI:            "mongodb://localhost:27017",
			Database:       "leadhub",
			ConnectTimeout: 10 * time.Second,
		},
		DB: DBConfig{
			Host:           "localhost",
			Port:           "5432",
			SSLMode:        "disable",
			SQLitePath:     "leadhub.db",
			RunMigrations:  true,
			ConnectTimeout: 60 * time.Second,
		},
		Redis: RedisConfig{Port: "6379"},
		RateLimit: RateLimitConfig{
			LoginPerMinute: 10,
		},
		Log: LogConfig{Level: "info", Format: "json"},
	}
}

// envMappings maps environment variable names to koanf paths.
var envMappings = map[string]string{
	"app_env":               "app.env",
	"node_env":              "app.env",
	"port":                  "server.port",
	"cors_origin":           "server.cors_origin",
	"static_dir":            "server.static_dir",
	"shutdown_timeout":      "server.shutdown_timeout",
	"jwt_secret":            "jwt.secret",
	"jwt_expire":            "jwt.expire",
	"store_driver":          "store.driver",
	"mongodb_uri":           "mongo.uri",
	"mongodb_database":      "mongo.database",
	"db_host":               "db.host",
	"db_port":               "db.port",
	"db_user":               "db.user",
	"db_password":           "db.password",
	"db_name":               "db.name",
	"db_sslmode":            "db.sslmode",
	"sqlite_path":           "db.sqlite_path",
	"run_migrations":        "db.run_migrations",
	"redis_host":            "redis.host",
	"redis_port":            "redis.port",
	"redis_password":        "redis.password",
	"login_rate_per_minute": "ratelimit.login_per_minute",
	"log_level":             "log.level",
	"log_format":            "log.format",
}

// envTransformFunc maps PORT -> server.port etc. Unknown variables are ignored.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}

// Load reads .env (if present), the optional YAML file and the environment.
func Load() (*Config, error) {
	// .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func findConfigFile() string {
	if p := os.Getenv(ConfigPathEnvVar); p != "" {
		return p
	}
	for _, p := range defaultConfigPaths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// Validate checks the settings that would otherwise fail late.
func (c *Config) Validate() error {
	var errs []error

	switch c.Store.Driver {
	case DriverMongo, DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("unknown store driver %q", c.Store.Driver))
	}
	if c.JWT.Secret == "" && !c.App.IsDevelopment() {
		errs = append(errs, errors.New("jwt secret must be set outside development"))
	}
	if c.JWT.Expire <= 0 {
		errs = append(errs, errors.New("jwt expire must be positive"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("invalid server port %d", c.Server.Port))
	}
	if c.RateLimit.LoginPerMinute < 0 {
		errs = append(errs, errors.New("login rate limit cannot be negative"))
	}

	return errors.Join(errs...)
}
