package three11

import (
	"cityscout/internal/logger"
	"cityscout/internal/models"
)

// GetPOIs returns a city's recent 311 service requests as POIs: discover the
// endpoint, fetch its payload, parse into normalized records. An empty slice
// is the normal answer for cities without a discoverable portal; it is never
// an error.
func (s *Service) GetPOIs(city, province, country string, maxPOIs int) []models.POI {
	if maxPOIs <= 0 {
		maxPOIs = s.opts.MaxPOIs
	}

	endpoint, ok := s.Discover(city, province, country)
	if !ok {
		logger.Info("three11: no endpoint for city", map[string]interface{}{"city": city})
		return []models.POI{}
	}

	raw, ok := s.FetchPayload(endpoint)
	if !ok {
		logger.Warn("three11: endpoint discovered but payload fetch failed", map[string]interface{}{
			"endpoint": endpoint,
		})
		return []models.POI{}
	}

	pois := s.ParsePayload(raw, city, province, country, maxPOIs)
	logger.Info("three11: done", map[string]interface{}{
		"city": city, "endpoint": endpoint, "pois": len(pois),
	})
	return pois
}
