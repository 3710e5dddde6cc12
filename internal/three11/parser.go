package three11

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"cityscout/internal/logger"
	"cityscout/internal/models"
)

// Column-name variants per semantic field. Cities publish the same data under
// English or French headers depending on the province; matching is
// case-insensitive against this table.
var (
	latitudeColumns  = []string{"latitude", "lat", "y", "y_coordinate", "loc_lat", "latitud", "latitude_"}
	longitudeColumns = []string{"longitude", "lng", "long", "x", "x_coordinate", "loc_long", "longitud", "longitude_"}
	serviceColumns   = []string{"service request type", "original_service_request_type", "nature", "acti_nom"}
	statusColumns    = []string{"status", "service_request_status", "dernier_statut"}
	wardColumns      = []string{"ward", "arrondissement"}
	postalColumns    = []string{"first 3 chars of postal code", "lin_code_postal"}
	street1Columns   = []string{"intersection street 1", "rue_intersection1", "rue"}
	street2Columns   = []string{"intersection street 2", "rue_intersection2"}
	divisionColumns  = []string{"division"}
	sectionColumns   = []string{"section"}
	dateColumns      = []string{"creation date", "created_date", "date_created", "created", "date", "timestamp", "created_at"}
)

// Date keys tried on JSON entries, most specific first.
var jsonDateKeys = []string{"created_date", "date_created", "created", "date", "timestamp", "created_at", "creation_date"}

// ParsePayload turns raw endpoint text into POIs. Format detection is by
// attempt order: JSON first, CSV otherwise.
func (s *Service) ParsePayload(raw, city, province, country string, maxPOIs int) []models.POI {
	if maxPOIs <= 0 {
		maxPOIs = s.opts.MaxPOIs
	}

	var decoded interface{}
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		if pois := parseJSONData(decoded, city, maxPOIs); len(pois) > 0 {
			return pois
		}
	}

	return s.parseCSVData(raw, city, province, country, maxPOIs)
}

// parseJSONData handles the two JSON shapes seen in the wild: an Open311
// object keyed by service_requests, and a bare array of records with
// latitude/longitude keys (the large Socrata exports).
func parseJSONData(decoded interface{}, city string, maxPOIs int) []models.POI {
	var pois []models.POI

	switch data := decoded.(type) {
	case map[string]interface{}:
		if requests, ok := data["service_requests"].([]interface{}); ok {
			for _, entry := range requests {
				if len(pois) >= maxPOIs {
					break
				}
				request, ok := entry.(map[string]interface{})
				if !ok {
					continue
				}
				lat, latOK := asFloat(request["lat"])
				lng, lngOK := asFloat(request["long"])
				if !latOK || !lngOK {
					continue
				}
				pois = append(pois, models.POI{
					Name:         stringOr(request["service_name"], city+" Service Request"),
					Lat:          lat,
					Lng:          lng,
					Type:         "311_service",
					Summary:      stringOr(request["description"], "City service request in "+city),
					Source:       "311_api",
					Status:       stringOr(request["status"], "unknown"),
					CreationDate: firstJSONDate(request),
				})
			}
		} else if _, ok := data["service_definitions"]; ok {
			// Definitions carry no coordinates; nothing to place on a map.
			logger.Info("parse: service definitions only, skipping", nil)
		}

	case []interface{}:
		for _, entry := range data {
			if len(pois) >= maxPOIs {
				break
			}
			item, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			lat, latOK := asFloat(item["latitude"])
			lng, lngOK := asFloat(item["longitude"])
			if !latOK || !lngOK {
				continue
			}
			pois = append(pois, models.POI{
				Name:         stringOr(item["complaint_type"], city+" Service Request"),
				Lat:          lat,
				Lng:          lng,
				Type:         "311_service",
				Summary:      stringOr(item["descriptor"], "City service request in "+city),
				Source:       "311_api",
				Status:       stringOr(item["status"], "unknown"),
				CreationDate: firstJSONDate(item),
			})
		}
	}

	return pois
}

// parseCSVData parses a CSV export with the first row as header. When the
// dataset exceeds maxPOIs the most recently appended rows win: civic datasets
// are append-only, so the tail is the freshest.
func (s *Service) parseCSVData(raw, city, province, country string, maxPOIs int) []models.POI {
	reader := csv.NewReader(strings.NewReader(raw))
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil || len(rows) < 2 {
		if err != nil {
			logger.Error("parse: csv read failed", map[string]interface{}{"error": err.Error()})
		}
		return nil
	}

	header := newHeaderIndex(rows[0])
	var pois []models.POI
	skipped := 0

	for i := len(rows) - 1; i >= 1 && len(pois) < maxPOIs; i-- {
		row := rows[i]
		record := buildRecord(header, row)

		if !record.HasCoordinates() {
			lat, lng, ok := s.resolveCoordinates(&record, city, province, country)
			if !ok {
				skipped++
				continue
			}
			record.Latitude, record.Longitude = &lat, &lng
		}

		pois = append(pois, assemblePOI(&record, city, province))
	}

	logger.Info("parse: csv complete", map[string]interface{}{
		"rows": len(rows) - 1, "pois": len(pois), "skipped_no_coords": skipped,
	})
	return pois
}

// buildRecord maps one CSV row through the bilingual column table.
func buildRecord(header headerIndex, row []string) models.ServiceRequest {
	record := models.ServiceRequest{
		ServiceType:   header.getOr(row, serviceColumns, "Service Request"),
		Status:        header.getOr(row, statusColumns, "Unknown"),
		Ward:          header.get(row, wardColumns),
		PostalCode:    header.get(row, postalColumns),
		Intersection1: header.get(row, street1Columns),
		Intersection2: header.get(row, street2Columns),
		Division:      header.get(row, divisionColumns),
		Section:       header.get(row, sectionColumns),
		CreationDate:  header.get(row, dateColumns),
	}

	if v := header.get(row, latitudeColumns); v != "" {
		if lat, err := strconv.ParseFloat(v, 64); err == nil {
			record.Latitude = &lat
		}
	}
	if v := header.get(row, longitudeColumns); v != "" {
		if lng, err := strconv.ParseFloat(v, 64); err == nil {
			record.Longitude = &lng
		}
	}

	return record
}

// assemblePOI builds the normalized output record with its multi-part
// human-readable summary.
func assemblePOI(record *models.ServiceRequest, city, province string) models.POI {
	var locationParts []string
	if record.Ward != "" {
		locationParts = append(locationParts, record.Ward)
	}
	if record.PostalCode != "" {
		locationParts = append(locationParts, "Postal Code: "+record.PostalCode)
	}
	switch {
	case record.Intersection1 != "" && record.Intersection2 != "":
		locationParts = append(locationParts, record.Intersection1+" & "+record.Intersection2)
	case record.Intersection1 != "":
		locationParts = append(locationParts, record.Intersection1)
	}

	location := strings.Join(locationParts, ", ")
	if location == "" {
		location = city + ", " + province
	}

	summaryParts := []string{record.ServiceType}
	if record.Division != "" {
		summaryParts = append(summaryParts, "Division: "+record.Division)
	}
	if record.Section != "" {
		summaryParts = append(summaryParts, "Section: "+record.Section)
	}
	summaryParts = append(summaryParts, "Status: "+record.Status)
	if len(locationParts) > 0 {
		summaryParts = append(summaryParts, "Location: "+location)
	}

	return models.POI{
		Name:         city + " " + record.ServiceType,
		Lat:          *record.Latitude,
		Lng:          *record.Longitude,
		Type:         "311_service",
		Summary:      strings.Join(summaryParts, ". "),
		Source:       "311_csv",
		Status:       record.Status,
		Ward:         record.Ward,
		PostalCode:   record.PostalCode,
		Division:     record.Division,
		Section:      record.Section,
		CreationDate: record.CreationDate,
	}
}

// headerIndex resolves semantic fields to row positions case-insensitively.
type headerIndex map[string]int

func newHeaderIndex(headerRow []string) headerIndex {
	idx := make(headerIndex, len(headerRow))
	for i, name := range headerRow {
		key := strings.ToLower(strings.TrimSpace(name))
		if _, exists := idx[key]; !exists {
			idx[key] = i
		}
	}
	return idx
}

func (h headerIndex) get(row []string, candidates []string) string {
	for _, name := range candidates {
		if i, ok := h[name]; ok && i < len(row) {
			if v := strings.TrimSpace(row[i]); v != "" {
				return v
			}
		}
	}
	return ""
}

func (h headerIndex) getOr(row []string, candidates []string, fallback string) string {
	if v := h.get(row, candidates); v != "" {
		return v
	}
	return fallback
}

// asFloat accepts the numeric shapes JSON payloads use for coordinates:
// numbers, or numbers serialized as strings (NYC's Socrata export does this).
func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f, err == nil
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func stringOr(v interface{}, fallback string) string {
	if s, ok := v.(string); ok && s != "" {
		return s
	}
	return fallback
}

func firstJSONDate(entry map[string]interface{}) string {
	for _, key := range jsonDateKeys {
		if v, ok := entry[key]; ok {
			switch d := v.(type) {
			case string:
				if d != "" {
					return d
				}
			case float64:
				return fmt.Sprintf("%v", d)
			}
		}
	}
	return ""
}
