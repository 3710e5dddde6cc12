package three11

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"cityscout/internal/logger"
)

// Content types an open-data endpoint may legitimately serve.
var validContentTypes = []string{
	"application/json",
	"text/json",
	"text/csv",
	"application/csv",
	"application/geo+json",
	"text/plain",
}

// Keywords that mark a payload as an archive or library catalog rather than a
// live dataset. Government archive search pages are the classic false
// positive: they return well-formed JSON that has nothing to do with 311.
var archivalKeywords = []string{
	"1896",
	"archive",
	"historical",
	"manuscript",
	"order in council",
}

// Keys whose presence marks an Open311-shaped response.
var open311Keys = []string{"service_requests", "service_definitions", "requests", "services"}

const validateBodyLimit = 512 * 1024

// IsValidEndpoint fetches a candidate URL and classifies the response as a
// usable dataset or API. Every call is a live network round trip, so callers
// bound how many candidates they probe.
func (s *Service) IsValidEndpoint(rawURL string) bool {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)

	resp, err := s.probe.Do(req)
	if err != nil {
		logger.Debug("validate: probe failed", map[string]interface{}{"url": rawURL, "error": err.Error()})
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false
	}

	contentType := strings.ToLower(resp.Header.Get("Content-Type"))
	if !acceptableContentType(contentType) {
		logger.Debug("validate: rejected content type", map[string]interface{}{"url": rawURL, "content_type": contentType})
		return false
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, validateBodyLimit))
	if err != nil {
		return false
	}

	lower := strings.ToLower(string(body))
	for _, kw := range archivalKeywords {
		if strings.Contains(lower, kw) {
			logger.Debug("validate: archival content", map[string]interface{}{"url": rawURL, "keyword": kw})
			return false
		}
	}

	var decoded interface{}
	if err := json.Unmarshal(body, &decoded); err == nil {
		switch v := decoded.(type) {
		case map[string]interface{}:
			for _, key := range open311Keys {
				if _, ok := v[key]; ok {
					return true
				}
			}
			return len(v) > 0
		case []interface{}:
			return len(v) > 0
		default:
			return false
		}
	}

	// Not JSON: accept text that looks like a CSV with location columns.
	head := lower
	if len(head) > 1000 {
		head = head[:1000]
	}
	return strings.Contains(head, "latitude") || strings.Contains(head, "lat")
}

func acceptableContentType(contentType string) bool {
	for _, valid := range validContentTypes {
		if strings.Contains(contentType, valid) {
			return true
		}
	}
	return false
}

// looksLikeAPIURL is the cheap pre-filter used before spending a live probe
// on a search result.
func looksLikeAPIURL(rawURL string) bool {
	lower := strings.ToLower(rawURL)

	indicators := []string{".json", ".xml", "/api/", "/v1/", "/v2/", "resource"}
	hasIndicator := false
	for _, ind := range indicators {
		if strings.Contains(lower, ind) {
			hasIndicator = true
			break
		}
	}
	if !hasIndicator {
		return false
	}

	excluded := []string{"open311.org", "docs", "documentation", "wiki", "help", "blog"}
	for _, ex := range excluded {
		if strings.Contains(lower, ex) {
			return false
		}
	}
	return true
}
