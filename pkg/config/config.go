package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	AppEnv   string
	LogLevel string

	HTTPPort   string
	BackendURL string

	// Cart persistence. RedisAddr empty means the file store is used.
	CartFile  string
	RedisAddr string
	CartOwner string

	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	RefDataTTL      time.Duration
}

func Load() *Config {
	return &Config{
		AppEnv:          getEnv("APP_ENV", "dev"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		BackendURL:      getEnv("BACKEND_URL", "http://localhost:5000"),
		CartFile:        getEnv("CART_FILE", "cart.json"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		CartOwner:       getEnv("CART_OWNER", "local"),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		ShutdownTimeout: getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		RefDataTTL:      getEnvDuration("REFDATA_TTL", 5*time.Minute),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}
