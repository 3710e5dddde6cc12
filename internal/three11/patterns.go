package three11

import (
	"strings"

	"cityscout/internal/logger"
)

// URL templates for the platforms municipalities commonly deploy. {slug} is
// the lowercased city name with spaces and hyphens stripped.
var knownPatterns = map[string][]string{
	"open311": {
		"https://{slug}.open311.io/v2/services.json",
		"https://secure.{slug}.ca/open311/v2/services.json",
		"https://open311.{slug}.gov/v2/services.json",
		"https://api.{slug}.gov/open311/v2/services.json",
	},
	"socrata": {
		"https://data.{slug}.gov",
		"https://{slug}-data.gov",
		"https://data.{slug}.ca",
	},
	"ckan": {
		"https://{slug}-opendata.ca",
		"https://opendata.{slug}.gov",
		"https://data.{slug}.gov",
	},
}

// citySlug lowercases and strips spaces and hyphens, so "Los Angeles"
// becomes "losangeles".
func citySlug(city string) string {
	slug := strings.ToLower(city)
	slug = strings.ReplaceAll(slug, " ", "")
	slug = strings.ReplaceAll(slug, "-", "")
	return slug
}

// tryKnownPatterns probes the fixed catalog of platform URL templates built
// from the city slug, validating each candidate live. This is the cheapest
// strategy that needs no web search at all.
func (s *Service) tryKnownPatterns(city string) (string, bool) {
	slug := citySlug(city)
	fill := func(pattern string) string {
		return strings.ReplaceAll(pattern, "{slug}", slug)
	}

	for _, pattern := range knownPatterns["open311"] {
		candidate := fill(pattern)
		if s.IsValidEndpoint(candidate) {
			logger.Info("patterns: open311 hit", map[string]interface{}{"endpoint": candidate})
			return candidate, true
		}
	}

	for _, pattern := range knownPatterns["socrata"] {
		if endpoint, ok := s.searchSocrata(fill(pattern)); ok {
			return endpoint, true
		}
	}

	// CKAN pattern hits search the portal with the relaxed municipal window:
	// city portals republish less often than the big aggregators.
	for _, pattern := range knownPatterns["ckan"] {
		if endpoint, ok := s.searchCKAN(fill(pattern), s.opts.RelaxedRecencyWindow); ok {
			return endpoint, true
		}
	}

	return "", false
}
