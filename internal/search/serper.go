package search

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"cityscout/internal/logger"
)

const serperURL = "https://google.serper.dev/search"

// Serper queries the Serper.dev Google search API.
type Serper struct {
	APIKey  string
	BaseURL string
	Client  *http.Client
}

// NewSerper builds a Serper provider. An empty key is allowed; searches then
// return empty results so discovery degrades instead of failing.
func NewSerper(apiKey string, timeout time.Duration) *Serper {
	return &Serper{
		APIKey:  apiKey,
		BaseURL: serperURL,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (s *Serper) Search(query string) (Results, error) {
	if s.APIKey == "" {
		logger.Warn("search: SERPER_API_KEY not set, returning empty results", nil)
		return Results{}, nil
	}

	payload, err := json.Marshal(map[string]string{"q": query})
	if err != nil {
		return Results{}, err
	}

	req, err := http.NewRequest(http.MethodPost, s.BaseURL, bytes.NewReader(payload))
	if err != nil {
		return Results{}, err
	}
	req.Header.Set("X-API-KEY", s.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.Client.Do(req)
	if err != nil {
		return Results{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Results{}, fmt.Errorf("serper: status %d", resp.StatusCode)
	}

	var results Results
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return Results{}, err
	}
	return results, nil
}
