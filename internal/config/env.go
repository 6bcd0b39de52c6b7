package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const DefaultAPIURL = "http://localhost:8001"

type Config struct {
	APIURL            string
	Locale            string
	HTTPTimeout       time.Duration
	UploadConcurrency int
	LogLevel          slog.Level
	FakeAPIPort       string
	AllowedOrigins    []string
}

// LoadConfig loads the environment variables and return config
func LoadConfig() *Config {

	_ = godotenv.Load()

	cfg := &Config{
		APIURL:            strings.TrimRight(getEnv("CHATDESK_API_URL", DefaultAPIURL), "/"),
		Locale:            getEnv("CHATDESK_LOCALE", "zh"),
		HTTPTimeout:       time.Duration(getEnvInt("CHATDESK_HTTP_TIMEOUT", 0)) * time.Second,
		UploadConcurrency: getEnvInt("CHATDESK_UPLOAD_CONCURRENCY", 4),
		LogLevel:          parseLevel(getEnv("CHATDESK_LOG_LEVEL", "info")),
		FakeAPIPort:       getEnv("FAKEAPI_PORT", "8001"),
		AllowedOrigins:    splitList(getEnv("FAKEAPI_ALLOWED_ORIGINS", "http://localhost:5173")),
	}

	if cfg.UploadConcurrency < 1 {
		slog.Warn("CHATDESK_UPLOAD_CONCURRENCY must be positive, using 1", "value", cfg.UploadConcurrency)
		cfg.UploadConcurrency = 1
	}

	return cfg
}

// Helper to read environment variables with a default fallback
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvInt(key string, def int) int {
	v := getEnv(key, "")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		slog.Warn("env value is not an int, using default", "key", key, "value", v, "default", def)
		return def
	}
	return n
}

func parseLevel(s string) slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		slog.Warn("unknown log level, using info", "value", s)
		return slog.LevelInfo
	}
	return lvl
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
