package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port      string `env:"PORT,      default=8080"`
	Env       string `env:"ENV,       default=development"`
	JWTSecret string `env:"JWT_SECRET"`
	LogLevel  string `env:"LOG_LEVEL, default=info"`

	Auth   AuthConfig
	Mongo  MongoConfig
	Redis  RedisConfig
	Upload UploadConfig
}

type AuthConfig struct {
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL,  default=24h"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL, default=168h"`
	// LoginAttempts requests per LoginWindow are allowed per client before
	// credential endpoints start returning 429.
	LoginAttempts int64         `env:"LOGIN_ATTEMPTS, default=10"`
	LoginWindow   time.Duration `env:"LOGIN_WINDOW,   default=1m"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI, default=mongodb://localhost:27017"`
	Database string `env:"MONGO_DB,  default=taskhive"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR, default=localhost:6379"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

type UploadConfig struct {
	Dir string `env:"UPLOAD_DIR, default=./uploads"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load() *Config {
	var cfg Config
	if err := envconfig.Process(context.Background(), &cfg); err != nil {
		panic(fmt.Sprintf("config: failed to load configuration: %v", err))
	}
	return &cfg
}
