package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	Port       string        `env:"PORT,       default=8080"`
	Env        string        `env:"ENV,        default=development"`
	LogLevel   string        `env:"LOG_LEVEL,  default=info"`
	JWTSecret  string        `env:"JWT_SECRET, required"`
	SessionTTL time.Duration `env:"SESSION_TTL, default=24h"`
	CORSOrigin string        `env:"CORS_ORIGIN, default=http://localhost:3000"`

	Upstream UpstreamConfig
	Tracking TrackingConfig
	Mongo    MongoConfig
	Redis    RedisConfig
	Storage  StorageConfig
	Tracing  TracingConfig
}

// UpstreamConfig locates the backend services the storefront composes.
type UpstreamConfig struct {
	UserServiceURL  string        `env:"USER_SERVICE_URL,  default=http://localhost:8081"`
	MenuServiceURL  string        `env:"MENU_SERVICE_URL,  default=http://localhost:8082"`
	OrderServiceURL string        `env:"ORDER_SERVICE_URL, default=http://localhost:8083"`
	Timeout         time.Duration `env:"UPSTREAM_TIMEOUT,  default=10s"`
}

type TrackingConfig struct {
	PollInterval         time.Duration `env:"ORDER_POLL_INTERVAL,    default=30s"`
	SessionCheckInterval time.Duration `env:"SESSION_CHECK_INTERVAL, default=60s"`
	NotificationWorkers  int           `env:"NOTIFICATION_WORKERS,   default=4"`
}

type MongoConfig struct {
	URI      string        `env:"MONGO_URI,     default=mongodb://localhost:27017"`
	Database string        `env:"MONGO_DB,      default=storefront"`
	Timeout  time.Duration `env:"MONGO_TIMEOUT, default=10s"`
}

type RedisConfig struct {
	Addr         string        `env:"REDIS_ADDR,     default=localhost:6379"`
	DB           int           `env:"REDIS_DB,       default=0"`
	Password     string        `env:"REDIS_PASSWORD"`
	Timeout      time.Duration `env:"REDIS_TIMEOUT,  default=5s"`
	MenuCacheTTL time.Duration `env:"MENU_CACHE_TTL, default=5m"`
}

// StorageConfig selects the disk uploaded images are written to.
type StorageConfig struct {
	Driver    string `env:"STORAGE_DRIVER,     default=local"`
	LocalRoot string `env:"STORAGE_LOCAL_ROOT, default=./public/images"`
	PublicURL string `env:"STORAGE_PUBLIC_URL, default=/images"`

	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION, default=us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY_ID"`
	S3SecretKey string `env:"S3_SECRET_ACCESS_KEY"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`
}

type TracingConfig struct {
	Enabled     bool   `env:"TRACING_ENABLED,   default=false"`
	ServiceName string `env:"OTEL_SERVICE_NAME, default=storefront"`
}

// IsDevelopment reports whether the service runs in the development profile.
func (c *Config) IsDevelopment() bool { return c.Env == "development" }

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Storage.Driver != "local" && cfg.Storage.Driver != "s3" {
		return nil, fmt.Errorf("config: unknown STORAGE_DRIVER %q", cfg.Storage.Driver)
	}
	if cfg.Storage.Driver == "s3" && cfg.Storage.S3Bucket == "" {
		return nil, fmt.Errorf("config: S3_BUCKET is required for the s3 storage driver")
	}
	return &cfg, nil
}
