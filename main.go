package main

import (
	"cityscout/internal/config"
	"cityscout/internal/events"
	"cityscout/internal/geo"
	"cityscout/internal/handlers"
	"cityscout/internal/llm"
	"cityscout/internal/logger"
	"cityscout/internal/middleware"
	"cityscout/internal/news"
	"cityscout/internal/search"
	sentryutil "cityscout/internal/sentry"
	"cityscout/internal/three11"
	"fmt"
	"log"
	"net/http"
	"time"
)

func main() {
	// Load configuration from .env and environment variables
	config.Load()

	// Initialize Sentry (non-blocking if SENTRY_DSN is empty)
	sentryutil.Init()
	defer sentryutil.Flush()

	// Wire the POI sources
	table := geo.LoadTable()
	provider := search.NewSerper(config.Cfg.SerperAPIKey, config.Cfg.SearchTimeout)
	var inference llm.Inference
	if oai := llm.NewOpenAI(config.Cfg.OpenAIAPIKey, config.Cfg.LLMModel); oai != nil {
		inference = oai
	}

	three11Svc := three11.New(provider, inference, table, three11.Options{
		UserAgent:            config.Cfg.UserAgent,
		ProbeTimeout:         config.Cfg.ProbeTimeout,
		FetchTimeout:         config.Cfg.FetchTimeout,
		StrictRecencyWindow:  config.Cfg.StrictRecencyWindow,
		RelaxedRecencyWindow: config.Cfg.RelaxedRecencyWindow,
		MaxSearchQueries:     config.Cfg.MaxSearchQueries,
		MaxResultsPerQuery:   config.Cfg.MaxResultsPerQuery,
		MaxPOIs:              config.Cfg.MaxPOIs,
	})
	eventsSvc := events.New(config.Cfg.TicketmasterAPIKey, 10*time.Second)
	newsSvc := news.New(15 * time.Second)
	geocoder := geo.NewMapbox(config.Cfg.MapboxAccessToken, 10*time.Second)

	handlers.SetServices(three11Svc, eventsSvc, newsSvc, geocoder)

	// Rate limiter from config
	limiter := handlers.NewRateLimiter(
		config.Cfg.RateLimitRPS,
		config.Cfg.RateLimitBurst,
		time.Second,
	)

	// Create mux
	mux := http.NewServeMux()
	mux.HandleFunc("/api/locations", handlers.LocationsHandler)
	mux.HandleFunc("/api/health", handlers.HealthHandler)
	mux.HandleFunc("/api/status", handlers.StatusHandler)

	// Middleware chain, outermost first: Recovery, SecurityHeaders, Gzip
	// (if enabled), rate limiter.
	var handler http.Handler = limiter.Middleware(mux)
	if config.Cfg.GzipEnabled {
		handler = middleware.Gzip(handler)
	}
	handler = middleware.SecurityHeaders(handler)
	handler = middleware.Recovery(handler)

	logger.Info("server starting", map[string]interface{}{"port": config.Cfg.Port})
	fmt.Printf("CityScout running on http://localhost:%s\n", config.Cfg.Port)
	log.Fatal(http.ListenAndServe(":"+config.Cfg.Port, handler))
}
