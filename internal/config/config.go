package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	"lending_docs/internal/config/connections"
	"lending_docs/internal/config/connections/mongo"
	"lending_docs/internal/config/connections/postgres"
	"lending_docs/internal/config/connections/redis"
	"lending_docs/internal/config/connections/s3"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type GeminiSettings struct {
	APIKey string
	Model  string
}

func (g GeminiSettings) Enabled() bool { return g.APIKey != "" }

// Settings is everything read from the environment, before any connection
// is opened.
type Settings struct {
	Env          string
	Port         string
	ProgramsFile string
	ImportDir    string
	APORRate     float64

	Postgres postgres.ConnectionInfo
	Mongo    mongo.ConnectionInfo
	S3       s3.ConnectionInfo
	Redis    redis.ConnectionInfo
	Gemini   GeminiSettings
}

type Config struct {
	Settings

	S3       *s3.S3
	Mongo    *mongo.Mongo
	Postgres *postgres.Postgres
	Redis    *redis.Redis
}

// Load reads .env (if present) and the process environment.
func Load() (Settings, error) {
	_ = godotenv.Load()

	var errs []error

	redisDB, err := strconv.Atoi(getenv("REDIS_DB", "0"))
	if err != nil {
		errs = append(errs, fmt.Errorf("REDIS_DB: %w", err))
	}
	apor, err := strconv.ParseFloat(getenv("APOR_RATE", "0"), 64)
	if err != nil {
		errs = append(errs, fmt.Errorf("APOR_RATE: %w", err))
	}
	maxConns, err := strconv.ParseInt(getenv("PG_MAX_CONNS", "10"), 10, 32)
	if err != nil {
		errs = append(errs, fmt.Errorf("PG_MAX_CONNS: %w", err))
	}

	s := Settings{
		Env:          getenv("APP_ENV", "local"),
		Port:         getenv("SERVER_PORT", "8070"),
		ProgramsFile: os.Getenv("PROGRAMS_FILE"),
		ImportDir:    os.Getenv("IMPORT_DIR"),
		APORRate:     apor,
		Postgres: postgres.ConnectionInfo{
			Host:     getenv("PG_HOST", "127.0.0.1"),
			Port:     getenv("PG_PORT", "5432"),
			User:     getenv("PG_USER", "root"),
			Password: getenv("PG_PASSWORD", "hello-world"),
			DB:       getenv("PG_DB", "lending"),
			SSLMode:  getenv("PG_SSLMODE", "disable"),
			MaxConns: int32(maxConns),
		},
		Mongo: mongo.ConnectionInfo{
			Scheme:     getenv("MONGO_SCHEME", "mongodb"),
			User:       getenv("MONGO_USER", "root"),
			Password:   getenv("MONGO_PASSWORD", "secret"),
			Host:       getenv("MONGO_HOST", "127.0.0.1"),
			Port:       getenv("MONGO_PORT", "27017"),
			DB:         getenv("MONGO_DB", "lending_docs"),
			AuthSource: getenv("MONGO_AUTH_SOURCE", "admin"),
			AppName:    "lending_docs",
		},
		S3: s3.ConnectionInfo{
			Endpoint:  getenv("AWS_ENDPOINT", "localhost:9000"),
			AccessKey: getenv("AWS_ACCESS_KEY_ID", "minioadmin"),
			SecretKey: getenv("AWS_SECRET_ACCESS_KEY", "minioadmin"),
			Region:    getenv("AWS_DEFAULT_REGION", "us-east-1"),
			Bucket:    getenv("AWS_BUCKET", "lending-docs"),
			UseSSL:    getenv("AWS_USE_SSL", "false") == "true",
		},
		Redis: redis.ConnectionInfo{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Gemini: GeminiSettings{
			APIKey: os.Getenv("GEMINI_API_KEY"),
			Model:  getenv("GEMINI_MODEL", "gemini-2.5-flash"),
		},
	}
	return s, errors.Join(errs...)
}

// Init loads settings and opens every backend. Postgres, Mongo and S3 are
// required; redis is skipped when REDIS_ADDR is empty.
func Init(ctx context.Context, log *zap.Logger) *Config {
	s, err := Load()
	if err != nil {
		log.Fatal("[CFG] invalid settings", zap.Error(err))
	}

	s3c, err := s3.NewConnection(s.S3)
	if err != nil {
		log.Fatal("[CFG] S3 connect error", zap.Error(err))
	}

	mg, err := mongo.NewConnection(ctx, s.Mongo)
	if err != nil {
		log.Fatal("[CFG] Mongo connect error", zap.Error(err))
	}

	pg, err := postgres.NewConnection(ctx, s.Postgres)
	if err != nil {
		log.Fatal("[CFG] Postgres connect error", zap.Error(err))
	}

	var rd *redis.Redis
	if s.Redis.Addr != "" {
		rd, err = redis.NewConnection(ctx, s.Redis)
		if err != nil {
			log.Warn("[CFG] redis unavailable, prose cache disabled", zap.String("addr", s.Redis.Addr), zap.Error(err))
			rd = nil
		}
	}

	return &Config{
		Settings: s,
		S3:       s3c,
		Mongo:    mg,
		Postgres: pg,
		Redis:    rd,
	}
}

// Checks lists the backends to ping. Redis appears only when configured.
func (c *Config) Checks() []connections.Check {
	checks := []connections.Check{
		{Name: "postgres", Target: c.Postgres},
		{Name: "mongo", Target: c.Mongo},
		{Name: "s3", Target: c.S3},
	}
	if c.Redis != nil {
		checks = append(checks, connections.Check{Name: "redis", Target: c.Redis})
	}
	return checks
}

// CheckConnections creates the document bucket when missing, then pings
// every backend.
func (c *Config) CheckConnections(ctx context.Context) error {
	if c.S3 != nil {
		if err := c.S3.EnsureBucket(ctx); err != nil {
			return fmt.Errorf("s3 bucket %q: %w", c.S3.Bucket, err)
		}
	}
	return errors.Join(connections.PingAll(ctx, c.Checks()...)...)
}

func (c *Config) Close(ctx context.Context) {
	c.Postgres.Close()
	_ = c.Mongo.Close(ctx)
	_ = c.Redis.Close()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
