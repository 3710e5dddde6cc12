package three11

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"cityscout/internal/logger"
	"cityscout/internal/models"
)

const coordsSystemPrompt = `You are a location interpretation specialist for municipal 311 service requests.
Your task is to analyze location information from 311 data and provide approximate coordinates.

Given the location information, you should:
1. Use your knowledge of the city's geography and postal code areas
2. Consider the ward boundaries and typical locations for different service types
3. Provide realistic coordinates within the city limits
4. If you can't determine a specific location, provide coordinates for the general area

Return ONLY the coordinates in the format: "latitude,longitude" (e.g., "43.6548,-79.3883")
If you cannot determine coordinates, return "UNKNOWN".`

const coordsResponseUnknown = "UNKNOWN"

// resolveCoordinates infers approximate coordinates for a row that carries no
// explicit lat/lng, from its secondary location fields. The inferred pair is
// accepted only if it survives the per-city bounding-box check. Rows the
// model cannot place are dropped by the caller; there is no jitter fallback.
func (s *Service) resolveCoordinates(record *models.ServiceRequest, city, province, country string) (float64, float64, bool) {
	if s.llm == nil {
		return 0, 0, false
	}

	description := locationDescription(record)

	userPrompt := fmt.Sprintf(`Analyze this 311 service request location and provide approximate coordinates:

City: %s, %s, %s
Service Type: %s
Location Information: %s

IMPORTANT: The location information may be in French, English, or other languages. Please interpret it appropriately for the city.

Based on this information, what would be the approximate latitude and longitude coordinates for this location?

Return ONLY the coordinates in format "latitude,longitude" or "UNKNOWN" if you cannot determine.`,
		city, province, country, record.ServiceType, description)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	response, err := s.llm.Complete(ctx, coordsSystemPrompt, userPrompt)
	if err != nil {
		logger.Warn("coords: inference failed", map[string]interface{}{"error": err.Error()})
		return 0, 0, false
	}

	lat, lng, ok := parseCoordinatePair(response)
	if !ok {
		logger.Debug("coords: no usable coordinates in response", map[string]interface{}{"response": response})
		return 0, 0, false
	}

	if !s.geo.ValidCoordinates(lat, lng, city, province, country) {
		logger.Warn("coords: inferred pair outside city bounds", map[string]interface{}{
			"lat": lat, "lng": lng, "city": city,
		})
		return 0, 0, false
	}

	return lat, lng, true
}

// locationDescription builds the short location summary handed to the model,
// preferring ward over postal code over intersection.
func locationDescription(record *models.ServiceRequest) string {
	var parts []string
	if record.Ward != "" {
		parts = append(parts, "Ward: "+record.Ward)
	}
	if record.PostalCode != "" {
		parts = append(parts, "Postal Code: "+record.PostalCode)
	}
	switch {
	case record.Intersection1 != "" && record.Intersection2 != "":
		parts = append(parts, "Intersection: "+record.Intersection1+" & "+record.Intersection2)
	case record.Intersection1 != "":
		parts = append(parts, "Street: "+record.Intersection1)
	}
	if len(parts) == 0 {
		return "General area"
	}
	return strings.Join(parts, ", ")
}

// parseCoordinatePair accepts "lat,lng" and rejects UNKNOWN or anything
// malformed.
func parseCoordinatePair(response string) (float64, float64, bool) {
	response = strings.TrimSpace(response)
	if strings.EqualFold(response, coordsResponseUnknown) {
		return 0, 0, false
	}

	parts := strings.Split(response, ",")
	if len(parts) != 2 {
		return 0, 0, false
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return 0, 0, false
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return 0, 0, false
	}
	return lat, lng, true
}
