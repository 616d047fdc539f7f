package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port          string
	MongoURI      string
	MongoDatabase string
	NATSUrl       string

	NewsAPIKey     string
	NewsAPIBaseURL string
	NewsAPICountry string
	NewsAPISources string

	JWTSecret string
	TokenTTL  time.Duration

	PageSize      int
	FetchTimeout  time.Duration
	FetchInterval time.Duration
	UpsertQueue   int
}

func Load() *Config {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		MongoURI:      getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "algocom"),
		NATSUrl:       getEnv("NATS_URL", ""),

		NewsAPIKey:     getEnv("NEWS_API_KEY", ""),
		NewsAPIBaseURL: getEnv("NEWS_API_BASE_URL", "https://newsapi.org/v2/top-headlines"),
		NewsAPICountry: getEnv("NEWS_API_COUNTRY", "us"),
		NewsAPISources: getEnv("NEWS_API_SOURCES", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),
		TokenTTL:  getDurationEnv("TOKEN_TTL", "24h"),

		PageSize:      getIntEnv("FEED_PAGE_SIZE", 10),
		FetchTimeout:  getDurationEnv("FETCH_TIMEOUT", "8s"),
		FetchInterval: getDurationEnv("FETCH_INTERVAL", "2h"),
		UpsertQueue:   getIntEnv("UPSERT_QUEUE_SIZE", 256),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	if cfg.NewsAPIKey == "" {
		log.Println("[WARN] NEWS_API_KEY not set, feed will serve local articles only")
	}

	log.Printf("Config loaded - PageSize: %d, FetchTimeout: %v, FetchInterval: %v",
		cfg.PageSize, cfg.FetchTimeout, cfg.FetchInterval)

	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue string) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
