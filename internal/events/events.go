// Package events fetches nearby ticketed events from the Ticketmaster
// Discovery API and reshapes them into POIs.
package events

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"cityscout/internal/logger"
	"cityscout/internal/models"
	sentryutil "cityscout/internal/sentry"
)

const discoveryURL = "https://app.ticketmaster.com/discovery/v2/events.json"

// Client queries the Ticketmaster Discovery API.
type Client struct {
	APIKey  string
	BaseURL string
	HTTP    *http.Client
}

func New(apiKey string, timeout time.Duration) *Client {
	return &Client{
		APIKey:  apiKey,
		BaseURL: discoveryURL,
		HTTP:    &http.Client{Timeout: timeout},
	}
}

type discoveryResponse struct {
	Embedded struct {
		Events []tmEvent `json:"events"`
	} `json:"_embedded"`
}

type tmEvent struct {
	Name  string `json:"name"`
	Info  string `json:"info"`
	URL   string `json:"url"`
	Dates struct {
		Start struct {
			LocalDate string `json:"localDate"`
			LocalTime string `json:"localTime"`
		} `json:"start"`
	} `json:"dates"`
	Embedded struct {
		Venues []tmVenue `json:"venues"`
	} `json:"_embedded"`
}

type tmVenue struct {
	Location struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"location"`
	Address struct {
		Line1 string `json:"line1"`
	} `json:"address"`
	City struct {
		Name string `json:"name"`
	} `json:"city"`
	State struct {
		Name string `json:"name"`
	} `json:"state"`
}

// GetPOIs returns upcoming events within 30 miles of the user over the next
// 90 days. Events without a venue or coordinates are skipped; a missing API
// key degrades to an empty list.
func (c *Client) GetPOIs(userLat, userLon float64, maxPOIs int) []models.POI {
	if c.APIKey == "" {
		logger.Warn("events: TICKETMASTER_API_KEY not set", nil)
		return []models.POI{}
	}

	now := time.Now().UTC()
	params := url.Values{
		"apikey":        {c.APIKey},
		"latlong":       {fmt.Sprintf("%f,%f", userLat, userLon)},
		"radius":        {"30"},
		"unit":          {"miles"},
		"size":          {strconv.Itoa(maxPOIs)},
		"sort":          {"date,asc"},
		"startDateTime": {now.Format("2006-01-02T15:04:05Z")},
		"endDateTime":   {now.AddDate(0, 0, 90).Format("2006-01-02T15:04:05Z")},
	}

	resp, err := c.HTTP.Get(c.BaseURL + "?" + params.Encode())
	if err != nil {
		logger.Error("events: request failed", map[string]interface{}{"error": err.Error()})
		sentryutil.CaptureError(err, map[string]string{"stage": "events"})
		return []models.POI{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		logger.Error("events: bad status", map[string]interface{}{"status": resp.StatusCode})
		sentryutil.CaptureMessage("ticketmaster returned bad status", sentryutil.LevelWarning(), map[string]string{
			"status": strconv.Itoa(resp.StatusCode),
		})
		return []models.POI{}
	}

	var decoded discoveryResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		logger.Error("events: decode failed", map[string]interface{}{"error": err.Error()})
		return []models.POI{}
	}

	var pois []models.POI
	for _, event := range decoded.Embedded.Events {
		poi, ok := eventToPOI(event)
		if !ok {
			continue
		}
		pois = append(pois, poi)
		if len(pois) >= maxPOIs {
			break
		}
	}

	logger.Info("events: fetched", map[string]interface{}{"pois": len(pois)})
	return pois
}

func eventToPOI(event tmEvent) (models.POI, bool) {
	if len(event.Embedded.Venues) == 0 {
		return models.POI{}, false
	}
	venue := event.Embedded.Venues[0]

	lat, latErr := strconv.ParseFloat(venue.Location.Latitude, 64)
	lng, lngErr := strconv.ParseFloat(venue.Location.Longitude, 64)
	if latErr != nil || lngErr != nil {
		return models.POI{}, false
	}

	summary := "Event: " + event.Name
	if venue.Address.Line1 != "" {
		summary += "\nLocation: " + venue.Address.Line1
	}
	if venue.City.Name != "" && venue.State.Name != "" {
		summary += "\nCity: " + venue.City.Name + ", " + venue.State.Name
	}
	if event.Dates.Start.LocalDate != "" {
		summary += "\nDate: " + event.Dates.Start.LocalDate
		if event.Dates.Start.LocalTime != "" {
			summary += " at " + event.Dates.Start.LocalTime
		}
	}
	if event.Info != "" {
		info := event.Info
		if len(info) > 500 {
			info = info[:500] + "..."
		}
		summary += "\nDescription: " + info
	}

	return models.POI{
		Name:      event.Name,
		Lat:       lat,
		Lng:       lng,
		Type:      "event",
		Summary:   summary,
		Source:    "ticketmaster",
		URL:       event.URL,
		StartDate: event.Dates.Start.LocalDate,
	}, true
}
