package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	BaseURL     string // Base URL used to build short links and QR codes
	RedisURL    string

	KafkaBrokers []string // empty means run with the in-process click bus
	KafkaTopic   string
	KafkaGroupID string

	ClickWorkers   int           // concurrent batch consumers
	ClickBatchSize int           // max events per processed batch
	ClickBatchWait time.Duration // max time a worker waits to fill a batch
	ClickBusSize   int           // buffer of the in-process bus fallback

	GeoCacheTTL time.Duration // how long one IP lookup result is kept

	RateLimitRPS           float64 // Rate limit for general API endpoints (requests per second)
	RateLimitBurst         int     // Burst size for rate limiting
	RateLimitShortenRPS    float64 // Rate limit for URL shortening (stricter)
	RateLimitShortenBurst  int     // Burst size for URL shortening
	RateLimitRedirectRPS   float64 // Rate limit for redirects (lenient)
	RateLimitRedirectBurst int     // Burst size for redirects
}

func Load() *Config {
	// Try to load .env file (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		RedisURL:    getEnv("REDIS_URL", ""),

		KafkaBrokers: splitList(getEnv("KAFKA_BROKERS", "")),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "click-events"),
		KafkaGroupID: getEnv("KAFKA_GROUP_ID", "click-tracking-group"),

		ClickWorkers:   getEnvInt("CLICK_WORKERS", 10),
		ClickBatchSize: getEnvInt("CLICK_BATCH_SIZE", 100),
		ClickBatchWait: time.Duration(getEnvInt("CLICK_BATCH_WAIT_MS", 250)) * time.Millisecond,
		ClickBusSize:   getEnvInt("CLICK_BUS_SIZE", 4096),

		GeoCacheTTL: time.Duration(getEnvInt("GEOIP_CACHE_TTL_HOURS", 12)) * time.Hour,

		RateLimitRPS:           getEnvFloat("RATE_LIMIT_RPS", 10),
		RateLimitBurst:         getEnvInt("RATE_LIMIT_BURST", 20),
		RateLimitShortenRPS:    getEnvFloat("RATE_LIMIT_SHORTEN_RPS", 2),
		RateLimitShortenBurst:  getEnvInt("RATE_LIMIT_SHORTEN_BURST", 5),
		RateLimitRedirectRPS:   getEnvFloat("RATE_LIMIT_REDIRECT_RPS", 30),
		RateLimitRedirectBurst: getEnvInt("RATE_LIMIT_REDIRECT_BURST", 60),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
