package geo

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cityscout/internal/logger"
)

const mapboxPlacesURL = "https://api.mapbox.com/geocoding/v5/mapbox.places"

// Location is a reverse-geocoded place.
type Location struct {
	City     string
	Province string
	Country  string
}

// Mapbox resolves coordinates to place names via the Mapbox Geocoding API.
type Mapbox struct {
	Token   string
	BaseURL string
	Client  *http.Client
}

func NewMapbox(token string, timeout time.Duration) *Mapbox {
	return &Mapbox{
		Token:   token,
		BaseURL: mapboxPlacesURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

// fallbackLocation is returned when no token is configured or geocoding
// fails, mirroring the most common deployment city.
var fallbackLocation = Location{City: "Toronto", Province: "Ontario", Country: "Canada"}

type mapboxResponse struct {
	Features []struct {
		Text    string `json:"text"`
		Context []struct {
			ID   string `json:"id"`
			Text string `json:"text"`
		} `json:"context"`
	} `json:"features"`
}

// Locate reverse-geocodes a coordinate to (city, province, country). Failures
// degrade to the fallback location rather than erroring, so the POI pipeline
// always has a city to work with.
func (m *Mapbox) Locate(lat, lon float64) Location {
	if m.Token == "" {
		logger.Warn("geo: MAPBOX_ACCESS_TOKEN not set, using fallback location", nil)
		return fallbackLocation
	}

	endpoint := fmt.Sprintf("%s/%f,%f.json?%s", m.BaseURL, lon, lat, url.Values{
		"access_token": {m.Token},
		"types":        {"place"},
	}.Encode())

	resp, err := m.Client.Get(endpoint)
	if err != nil {
		logger.Error("geo: mapbox request failed", map[string]interface{}{"error": err.Error()})
		return fallbackLocation
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("geo: mapbox status", map[string]interface{}{"status": resp.StatusCode})
		return fallbackLocation
	}

	var decoded mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil || len(decoded.Features) == 0 {
		return fallbackLocation
	}

	feature := decoded.Features[0]
	loc := Location{City: feature.Text, Province: "Unknown", Country: "Unknown"}
	for _, ctx := range feature.Context {
		switch {
		case strings.HasPrefix(ctx.ID, "region"):
			loc.Province = ctx.Text
		case strings.HasPrefix(ctx.ID, "country"):
			loc.Country = ctx.Text
		}
	}

	logger.Info("geo: located", map[string]interface{}{
		"city": loc.City, "province": loc.Province, "country": loc.Country,
	})
	return loc
}
