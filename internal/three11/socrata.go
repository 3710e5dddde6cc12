package three11

import (
	"strings"

	"cityscout/internal/logger"
)

type socrataView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Dataset-name slugs worth probing directly when a Socrata portal's view
// listing is unavailable or too large.
var socrataSlugCatalog = []string{
	"311-requests",
	"311-service-requests",
	"service-requests",
	"complaints",
}

// searchSocrata enumerates a Socrata portal's dataset listing and returns the
// resource URL of the first 311 dataset.
func (s *Service) searchSocrata(baseURL string) (string, bool) {
	base := strings.TrimRight(baseURL, "/")

	var views []socrataView
	if s.getJSON(base+"/api/views.json", &views) {
		for _, view := range views {
			haystack := strings.ToLower(view.Name + " " + view.Description)
			for _, kw := range serviceRequestKeywords {
				if strings.Contains(haystack, kw) && view.ID != "" {
					resource := base + "/resource/" + view.ID + ".json"
					logger.Info("socrata: selected dataset", map[string]interface{}{
						"portal": base, "name": view.Name, "resource": resource,
					})
					return resource, true
				}
			}
		}
	}

	// Listing gave nothing; probe the usual dataset slugs live.
	for _, slug := range socrataSlugCatalog {
		candidate := base + "/resource/" + slug + ".json"
		if s.IsValidEndpoint(candidate) {
			logger.Info("socrata: slug probe hit", map[string]interface{}{"resource": candidate})
			return candidate, true
		}
	}
	return "", false
}

// searchArcGIS is detection-only: ArcGIS dataset enumeration is not
// implemented, so a detected ArcGIS portal yields no endpoint.
func (s *Service) searchArcGIS(baseURL string) (string, bool) {
	logger.Warn("arcgis: portal detected but dataset search is not implemented", map[string]interface{}{
		"portal": baseURL,
	})
	return "", false
}
