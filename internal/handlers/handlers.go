package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"cityscout/internal/config"
	"cityscout/internal/events"
	"cityscout/internal/geo"
	"cityscout/internal/logger"
	"cityscout/internal/models"
	"cityscout/internal/news"
	"cityscout/internal/three11"
)

var startTime = time.Now()

// Services are wired once at startup by main.
var (
	three11Svc *three11.Service
	eventsSvc  *events.Client
	newsSvc    *news.Client
	geocoder   *geo.Mapbox
)

// SetServices wires the POI sources and the geocoder into the handlers.
func SetServices(t *three11.Service, e *events.Client, n *news.Client, m *geo.Mapbox) {
	three11Svc = t
	eventsSvc = e
	newsSvc = n
	geocoder = m
}

type locationsResponse struct {
	City     string       `json:"city"`
	Province string       `json:"province"`
	Country  string       `json:"country"`
	Count    int          `json:"count"`
	POIs     []models.POI `json:"pois"`
}

// LocationsHandler aggregates POIs around a coordinate: 311 service requests,
// ticketed events, and local news. Sources that find nothing contribute
// nothing; the response is always a list.
func LocationsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, lonErr := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if latErr != nil || lonErr != nil {
		http.Error(w, "lat and lon query parameters are required", http.StatusBadRequest)
		return
	}
	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		http.Error(w, "coordinates out of range", http.StatusBadRequest)
		return
	}

	maxPOIs := config.Cfg.MaxPOIs
	if v := r.URL.Query().Get("max"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 100 {
			maxPOIs = n
		}
	}

	loc := geocoder.Locate(lat, lon)

	// The three sources are independent network pipelines; run them together.
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		pois []models.POI
	)
	collect := func(fetch func() []models.POI) {
		defer wg.Done()
		found := fetch()
		mu.Lock()
		pois = append(pois, found...)
		mu.Unlock()
	}

	wg.Add(3)
	go collect(func() []models.POI {
		return three11Svc.GetPOIs(loc.City, loc.Province, loc.Country, maxPOIs)
	})
	go collect(func() []models.POI {
		return eventsSvc.GetPOIs(lat, lon, config.Cfg.EventsMaxPOIs)
	})
	go collect(func() []models.POI {
		return newsSvc.GetPOIs(loc.City, loc.Province, lat, lon, 8)
	})
	wg.Wait()

	logger.Info("locations: request served", map[string]interface{}{
		"city": loc.City, "pois": len(pois),
	})

	if pois == nil {
		pois = []models.POI{}
	}
	writeJSON(w, locationsResponse{
		City:     loc.City,
		Province: loc.Province,
		Country:  loc.Country,
		Count:    len(pois),
		POIs:     pois,
	})
}

// HealthHandler reports liveness and uptime.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status": "ok",
		"uptime": time.Since(startTime).Round(time.Second).String(),
	})
}

// StatusHandler reports which upstream providers are configured, without
// leaking key material.
func StatusHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"search_configured":       config.Cfg.SerperAPIKey != "",
		"llm_configured":          config.Cfg.OpenAIAPIKey != "",
		"geocoder_configured":     config.Cfg.MapboxAccessToken != "",
		"ticketmaster_configured": config.Cfg.TicketmasterAPIKey != "",
	})
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("handlers: encode failed", map[string]interface{}{"error": err.Error()})
	}
}
