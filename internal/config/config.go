package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	// Common
	Env      string
	LogLevel string
	// API
	Port        string
	DatabaseURL string
	// Auth
	JWTSecret string
	JWTTTL    time.Duration
	// Scraping
	ScrapeConcurrency int
	SourceTimeout     time.Duration
	BrowserTimeout    time.Duration
	ChromePath        string
	// Reference data
	CitiesPath string
	// Redis (run lock)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RunLockTTL    time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func atoiDef(s string, def int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// Load reads environment variables and applies defaults.
func Load() Config {
	return Config{
		Env:               getEnv("ENV", "local"),
		LogLevel:          getEnv("LOG_LEVEL", "info"),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		JWTTTL:            time.Duration(atoiDef(getEnv("JWT_TTL_MIN", "1440"), 1440)) * time.Minute,
		ScrapeConcurrency: atoiDef(getEnv("SCRAPE_CONCURRENCY", "1"), 1),
		SourceTimeout:     time.Duration(atoiDef(getEnv("SOURCE_TIMEOUT_MS", "10000"), 10000)) * time.Millisecond,
		BrowserTimeout:    time.Duration(atoiDef(getEnv("BROWSER_TIMEOUT_MS", "30000"), 30000)) * time.Millisecond,
		ChromePath:        getEnv("CHROME_PATH", ""),
		CitiesPath:        getEnv("CITIES_PATH", "config/cities.json"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           atoiDef(getEnv("REDIS_DB", "0"), 0),
		RunLockTTL:        time.Duration(atoiDef(getEnv("RUN_LOCK_TTL_MS", "600000"), 600000)) * time.Millisecond,
	}
}
