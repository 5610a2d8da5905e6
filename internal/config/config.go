package config

import (
	"os"
	"strconv"
	"time"

	"tutorpay/internal/logger"

	"github.com/joho/godotenv"
)

type Config struct {
	AppPort     string
	DatabaseURL string
	JWTSecret   string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Provider verification calls and side-effect pushes are bounded;
	// the store mutation itself never is.
	VerifyTimeout     time.Duration
	SideEffectTimeout time.Duration

	// Side-effect worker pool
	SideEffectWorkers int

	// Reference generation retry cap
	ReferenceMaxAttempts int

	LogLevel string
	LogJSON  bool
}

// Load reads configuration from the environment (.env honoured).
func Load() *Config {
	_ = godotenv.Load()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		logger.Fatal("DATABASE_URL is not set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}

	redisAddr := os.Getenv("REDIS_ADDR")
	redisPassword := os.Getenv("REDIS_PASSWORD")

	redisDB := 0
	if v := os.Getenv("REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			redisDB = n
		}
	}

	verifyTimeout := 15 * time.Second
	if v := os.Getenv("VERIFY_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			verifyTimeout = time.Duration(n) * time.Second
		}
	}

	sideEffectTimeout := 5 * time.Second
	if v := os.Getenv("SIDE_EFFECT_TIMEOUT_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			sideEffectTimeout = time.Duration(n) * time.Second
		}
	}

	workers := 4
	if v := os.Getenv("SIDE_EFFECT_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			workers = n
		}
	}

	refAttempts := 8
	if v := os.Getenv("REFERENCE_MAX_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			refAttempts = n
		}
	}

	return &Config{
		AppPort:              port,
		DatabaseURL:          dbURL,
		JWTSecret:            jwtSecret,
		RedisAddr:            redisAddr,
		RedisPassword:        redisPassword,
		RedisDB:              redisDB,
		VerifyTimeout:        verifyTimeout,
		SideEffectTimeout:    sideEffectTimeout,
		SideEffectWorkers:    workers,
		ReferenceMaxAttempts: refAttempts,
		LogLevel:             envOr("LOG_LEVEL", "info"),
		LogJSON:              os.Getenv("LOG_JSON") == "true",
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
