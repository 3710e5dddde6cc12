package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Cfg is the global configuration loaded at startup.
var Cfg Config

// Config holds all application configuration.
type Config struct {
	// Server
	Port    string
	BaseURL string

	// Sentry
	SentryDSN         string
	SentryEnvironment string
	SentryRelease     string

	// Provider API keys
	SerperAPIKey       string
	OpenAIAPIKey       string
	MapboxAccessToken  string
	TicketmasterAPIKey string

	// Rate limiter
	RateLimitRPS   int
	RateLimitBurst int

	// Discovery
	ProbeTimeout         time.Duration // per candidate-URL validation GET
	FetchTimeout         time.Duration // dataset payload download
	SearchTimeout        time.Duration // web-search round trip
	StrictRecencyWindow  time.Duration // generic portal discovery path
	RelaxedRecencyWindow time.Duration // known-pattern / municipal path
	MaxSearchQueries     int           // cap per search-driven strategy
	MaxResultsPerQuery   int

	// POIs
	MaxPOIs       int
	EventsMaxPOIs int

	// LLM
	LLMModel string

	// HTTP
	UserAgent string

	// Gzip
	GzipEnabled bool
}

// Load reads .env (if present) and populates Cfg from environment variables.
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println("config: no .env file found, using environment variables")
	}

	Cfg = Config{
		Port:    envOr("PORT", "8080"),
		BaseURL: envOr("BASE_URL", "http://localhost:8080"),

		SentryDSN:         os.Getenv("SENTRY_DSN"),
		SentryEnvironment: envOr("SENTRY_ENVIRONMENT", "production"),
		SentryRelease:     envOr("SENTRY_RELEASE", "cityscout@1.0.0"),

		SerperAPIKey:       os.Getenv("SERPER_API_KEY"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		MapboxAccessToken:  os.Getenv("MAPBOX_ACCESS_TOKEN"),
		TicketmasterAPIKey: os.Getenv("TICKETMASTER_API_KEY"),

		RateLimitRPS:   envInt("RATE_LIMIT_RPS", 30),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 60),

		ProbeTimeout:         envDuration("PROBE_TIMEOUT", 10*time.Second),
		FetchTimeout:         envDuration("FETCH_TIMEOUT", 30*time.Second),
		SearchTimeout:        envDuration("SEARCH_TIMEOUT", 10*time.Second),
		StrictRecencyWindow:  envDuration("STRICT_RECENCY_WINDOW", 90*24*time.Hour),
		RelaxedRecencyWindow: envDuration("RELAXED_RECENCY_WINDOW", 365*24*time.Hour),
		MaxSearchQueries:     envInt("MAX_SEARCH_QUERIES", 5),
		MaxResultsPerQuery:   envInt("MAX_RESULTS_PER_QUERY", 2),

		MaxPOIs:       envInt("MAX_POIS", 25),
		EventsMaxPOIs: envInt("EVENTS_MAX_POIS", 15),

		LLMModel: envOr("LLM_MODEL", "gpt-4o-mini"),

		UserAgent: envOr("USER_AGENT", "Mozilla/5.0 (compatible; CityScoutBot/1.0)"),

		GzipEnabled: envBool("GZIP_ENABLED", true),
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
