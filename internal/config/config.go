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

const insecureJWTSecret = "supersecretkey"

type Config struct {
	Addr           string          `yaml:"addr"`
	JWTSecret      string          `yaml:"jwt_secret"`
	APITimeout     time.Duration   `yaml:"timeout"`
	TokenDuration  time.Duration   `yaml:"token_duration"`
	MigrateOnStart bool            `yaml:"migrate_on_start"`
	Database       DatabaseConfig  `yaml:"database"`
	RateLimit      RateLimitConfig `yaml:"rate_limit"`
}

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	URL    string `yaml:"url"`
}

// RateLimitConfig bounds the credential endpoints per client address. When RedisAddr is
// set the window is shared through Redis, otherwise it is kept in process memory.
type RateLimitConfig struct {
	Requests      int           `yaml:"requests"`
	Window        time.Duration `yaml:"window"`
	Burst         int           `yaml:"burst"`
	RedisAddr     string        `yaml:"redis_addr"`
	RedisPassword string        `yaml:"redis_password"`
	RedisDB       int           `yaml:"redis_db"`
}

func LoadConfig(path string) (*Config, error) {
	apiTimeout := 15 * time.Second
	tokenDuration := 360000 * time.Second

	addr := getEnv("DEVCONNECT_ADDR", ":5000")
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	cfg := &Config{
		Addr:           addr,
		JWTSecret:      getEnv("DEVCONNECT_JWT_SECRET", insecureJWTSecret),
		APITimeout:     apiTimeout,
		TokenDuration:  tokenDuration,
		MigrateOnStart: getEnvBool("DEVCONNECT_MIGRATE_ON_START", true),
		Database: DatabaseConfig{
			Driver: getEnv("DEVCONNECT_DATABASE_DRIVER", "sqlite"),
			Path:   getEnv("DEVCONNECT_DATABASE_PATH", "devconnect.db"),
			URL:    os.Getenv("DEVCONNECT_DATABASE_URL"),
		},
		RateLimit: RateLimitConfig{
			RedisAddr:     os.Getenv("DEVCONNECT_REDIS_ADDR"),
			RedisPassword: os.Getenv("DEVCONNECT_REDIS_PASSWORD"),
		},
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// Validate checks the loaded configuration and fills defaults for optional sections.
func (c *Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("addr is required"))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("jwt_secret is required"))
	}
	if c.JWTSecret == insecureJWTSecret && !strings.EqualFold(os.Getenv("DEVCONNECT_ENV"), "development") {
		errs = append(errs, errors.New("jwt_secret uses the insecure default; set DEVCONNECT_JWT_SECRET or DEVCONNECT_ENV=development"))
	}
	if c.APITimeout <= 0 {
		errs = append(errs, errors.New("timeout must be positive"))
	}
	if c.TokenDuration <= 0 {
		errs = append(errs, errors.New("token_duration must be positive"))
	}

	switch c.Database.Driver {
	case "", "sqlite":
		c.Database.Driver = "sqlite"
		if c.Database.Path == "" {
			errs = append(errs, errors.New("database.path is required for sqlite"))
		}
	case "postgres":
		if c.Database.URL == "" {
			errs = append(errs, errors.New("database.url is required for postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported database.driver %q", c.Database.Driver))
	}

	if c.RateLimit.Requests <= 0 {
		c.RateLimit.Requests = 20
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = c.RateLimit.Requests
	}
	if c.RateLimit.RedisDB < 0 {
		errs = append(errs, errors.New("rate_limit.redis_db must not be negative"))
	}

	return errors.Join(errs...)
}

// DSN returns the connection string for the configured driver.
func (c *Config) DSN() string {
	if c.Database.Driver == "postgres" {
		return c.Database.URL
	}
	return c.Database.Path
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvBool(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
