package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds application level configuration loaded from environment variables.
type Config struct {
	ServerPort  string `env:"PORT" env-default:"3000"`
	Environment string `env:"APP_ENV" env-default:"development"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`

	DBDriver    string `env:"DB_DRIVER" env-default:"mysql"`
	DatabaseDSN string `env:"DATABASE_DSN" env-default:"user:password@tcp(localhost:3306)/mestodb?charset=utf8mb4&parseTime=True&loc=Local"`

	RedisAddr string `env:"REDIS_ADDR" env-default:"localhost:6379"`
	RedisDB   int    `env:"REDIS_DB" env-default:"0"`
	RedisPass string `env:"REDIS_PASSWORD"`

	JWTSecret string        `env:"JWT_SECRET" env-required:"true"`
	JWTTTL    time.Duration `env:"JWT_TTL" env-default:"168h"`

	RateLimitMax    int           `env:"RATE_LIMIT_MAX" env-default:"100"`
	RateLimitWindow time.Duration `env:"RATE_LIMIT_WINDOW" env-default:"10m"`

	SwaggerHost string `env:"SWAGGER_HOST"`
}

// Load builds Config from the environment. It fails when a required
// variable is missing or a value cannot be parsed.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must not be empty")
	}
	if cfg.DBDriver != "mysql" && cfg.DBDriver != "sqlite" {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.RateLimitMax <= 0 || cfg.RateLimitWindow <= 0 {
		return nil, fmt.Errorf("rate limit must be positive, got %d per %s", cfg.RateLimitMax, cfg.RateLimitWindow)
	}
	return &cfg, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
