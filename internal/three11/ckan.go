package three11

import (
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"cityscout/internal/logger"
)

// Search terms ordered from the most specific dataset slug seen in the wild
// down to generic keywords. The first term that yields a selectable dataset
// wins.
var ckanSearchTerms = []string{
	"311-service-requests-customer-initiated",
	"311 service requests",
	"311",
	"service request",
	"complaint",
}

// A dataset qualifies as a 311 candidate only if it matches one of these…
var serviceRequestKeywords = []string{"311", "service request", "complaint", "incident", "customer initiated"}

// …and none of these. Cities publish "311 performance metrics" datasets that
// contain aggregates, not geolocated requests.
var metricsKeywords = []string{"metric", "statistic", "performance"}

// Resource formats in preference order. First available wins.
var resourceFormatPreference = []string{"JSON", "GEOJSON", "ZIP", "CSV", "XLSX"}

type ckanResource struct {
	Format string `json:"format"`
	URL    string `json:"url"`
}

type ckanDataset struct {
	Title            string         `json:"title"`
	Name             string         `json:"name"`
	MetadataModified string         `json:"metadata_modified"`
	Resources        []ckanResource `json:"resources"`
}

type ckanSearchResponse struct {
	Success bool `json:"success"`
	Result  struct {
		Results []ckanDataset `json:"results"`
	} `json:"result"`
}

type ckanPackageListResponse struct {
	Success bool     `json:"success"`
	Result  []string `json:"result"`
}

type ckanPackageShowResponse struct {
	Success bool        `json:"success"`
	Result  ckanDataset `json:"result"`
}

// searchCKAN looks for a 311 dataset on a CKAN portal and returns the best
// resource URL. window is the recency policy of the calling discovery path.
func (s *Service) searchCKAN(baseURL string, window time.Duration) (string, bool) {
	base := strings.TrimRight(baseURL, "/")

	for _, term := range ckanSearchTerms {
		searchURL := base + "/api/3/action/package_search?q=" + url.QueryEscape(term)

		var decoded ckanSearchResponse
		if !s.getJSON(searchURL, &decoded) || !decoded.Success {
			continue
		}

		for i := range decoded.Result.Results {
			if resource, ok := s.selectCKANResource(&decoded.Result.Results[i], window); ok {
				logger.Info("ckan: selected dataset", map[string]interface{}{
					"portal": base, "title": decoded.Result.Results[i].Title, "resource": resource,
				})
				return resource, true
			}
		}
	}

	// Some portals index poorly; enumerate package names and substring-match.
	return s.ckanPackageListFallback(base, window)
}

func (s *Service) ckanPackageListFallback(base string, window time.Duration) (string, bool) {
	var list ckanPackageListResponse
	if !s.getJSON(base+"/api/3/action/package_list", &list) || !list.Success {
		return "", false
	}

	for _, name := range list.Result {
		if !strings.Contains(strings.ToLower(name), "311") {
			continue
		}
		var show ckanPackageShowResponse
		if !s.getJSON(base+"/api/3/action/package_show?id="+url.QueryEscape(name), &show) || !show.Success {
			continue
		}
		if resource, ok := s.selectCKANResource(&show.Result, window); ok {
			logger.Info("ckan: selected dataset via package_list", map[string]interface{}{
				"portal": base, "name": name, "resource": resource,
			})
			return resource, true
		}
	}
	return "", false
}

// selectCKANResource applies the 311 keyword filters, the recency window, and
// the format preference order to a dataset.
func (s *Service) selectCKANResource(ds *ckanDataset, window time.Duration) (string, bool) {
	title := strings.ToLower(ds.Title + " " + ds.Name)

	matched := false
	for _, kw := range serviceRequestKeywords {
		if strings.Contains(title, kw) {
			matched = true
			break
		}
	}
	if !matched {
		return "", false
	}
	for _, kw := range metricsKeywords {
		if strings.Contains(title, kw) {
			return "", false
		}
	}

	if ds.MetadataModified != "" {
		if modified, err := parseCKANTime(ds.MetadataModified); err == nil {
			if s.now().Sub(modified) > window {
				logger.Debug("ckan: dataset too old", map[string]interface{}{
					"title": ds.Title, "modified": ds.MetadataModified,
				})
				return "", false
			}
		}
	}

	for _, preferred := range resourceFormatPreference {
		for _, res := range ds.Resources {
			if strings.EqualFold(res.Format, preferred) && res.URL != "" {
				return res.URL, true
			}
		}
	}
	return "", false
}

// parseCKANTime handles the timestamp shapes CKAN portals emit: RFC 3339 with
// or without zone, with or without fractional seconds.
func parseCKANTime(value string) (time.Time, error) {
	value = strings.TrimSuffix(value, "Z")
	for _, layout := range []string{
		"2006-01-02T15:04:05.999999",
		"2006-01-02T15:04:05",
		"2006-01-02",
	} {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &time.ParseError{Layout: time.RFC3339, Value: value}
}

// getJSON probes a URL and decodes a JSON body into out. Returns false on any
// network, status, or decode failure; probing errors are never fatal.
func (s *Service) getJSON(rawURL string, out interface{}) bool {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)

	resp, err := s.probe.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 4*1024*1024))
	if err != nil {
		return false
	}
	return json.Unmarshal(body, out) == nil
}
