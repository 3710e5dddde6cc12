package three11

import (
	"fmt"
	"net/url"
	"strings"

	"cityscout/internal/logger"
)

// Discover runs the discovery strategies in priority order and returns the
// first validated 311 endpoint. Finding nothing is the normal outcome for
// most cities, not an error.
func (s *Service) Discover(city, province, country string) (string, bool) {
	logger.Info("discovery: start", map[string]interface{}{
		"city": city, "province": province, "country": country,
	})

	if endpoint, ok := s.officialPortalSearch(city, province); ok {
		return endpoint, true
	}
	if endpoint, ok := s.genericPortalDiscovery(city, province); ok {
		return endpoint, true
	}
	if endpoint, ok := s.tryKnownPatterns(city); ok {
		return endpoint, true
	}
	if endpoint, ok := s.domainRestrictedSearch(city, country); ok {
		return endpoint, true
	}

	logger.Info("discovery: no valid endpoint found", map[string]interface{}{"city": city})
	return "", false
}

// officialPortalSearch looks for the city's own 311 page and mines it for
// API endpoints, data downloads, or links into a data portal. The relaxed
// recency window applies: a city's own portal republishing slowly is still
// the authoritative source.
func (s *Service) officialPortalSearch(city, province string) (string, bool) {
	queries := []string{
		fmt.Sprintf(`"%s" "%s" "311" "api"`, city, province),
		fmt.Sprintf(`"%s" "%s" "311"`, city, province),
	}

	for _, query := range queries {
		results, err := s.search.Search(query)
		if err != nil {
			logger.Warn("discovery: search failed", map[string]interface{}{"query": query, "error": err.Error()})
			continue
		}
		if len(results.Organic) == 0 {
			continue
		}

		first := results.Organic[0]
		if !s.isOfficialGovernmentPortal(first.Link, city) {
			logger.Debug("discovery: first result not an official portal", map[string]interface{}{"link": first.Link})
			continue
		}

		if endpoint, ok := s.mineOfficialPage(first.Link); ok {
			return endpoint, true
		}
	}
	return "", false
}

// mineOfficialPage extracts candidate URLs from a government page in order of
// directness: API endpoints, then downloadable files, then data-portal links
// searched as portals.
func (s *Service) mineOfficialPage(pageURL string) (string, bool) {
	body := s.fetchPage(pageURL)
	if body == nil {
		return "", false
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}

	for _, candidate := range extractCandidateURLs(body, base, contextAPI) {
		if s.IsValidEndpoint(candidate) {
			logger.Info("discovery: extracted API endpoint", map[string]interface{}{"endpoint": candidate})
			return candidate, true
		}
	}
	for _, candidate := range extractCandidateURLs(body, base, contextDownload) {
		if s.IsValidEndpoint(candidate) {
			logger.Info("discovery: extracted download link", map[string]interface{}{"endpoint": candidate})
			return candidate, true
		}
	}
	for _, candidate := range extractCandidateURLs(body, base, contextPortal) {
		detected := s.detectPortalType(candidate, "")
		if detected == portalUnknown {
			continue
		}
		if endpoint, ok := s.searchPortal(portalCandidate{url: candidate, detectedType: detected}, s.opts.RelaxedRecencyWindow); ok {
			return endpoint, true
		}
	}
	return "", false
}

// isOfficialGovernmentPortal accepts only URLs on a government TLD that
// mention the city and are not a social or reference site.
func (s *Service) isOfficialGovernmentPortal(rawURL, city string) bool {
	if rawURL == "" {
		return false
	}
	if !s.geo.IsGovernmentHost(rawURL) {
		return false
	}
	if s.geo.IsBlocklisted(rawURL) {
		return false
	}
	lower := strings.ToLower(rawURL)
	return strings.Contains(lower, citySlug(city)) || strings.Contains(lower, strings.ToLower(city))
}

// genericPortalDiscovery runs broad open-data searches and classifies the top
// results into portal technologies. The strict recency window applies: this
// path surfaces aggregator datasets where staleness means the portal moved on.
func (s *Service) genericPortalDiscovery(city, province string) (string, bool) {
	queries := []string{
		fmt.Sprintf(`"%s" "%s" "open data" site:*.gov`, city, province),
		fmt.Sprintf(`"%s" "%s" "open data" site:*.ca`, city, province),
		fmt.Sprintf(`"%s" "open data portal"`, city),
		fmt.Sprintf(`"%s" "data portal"`, city),
		fmt.Sprintf(`"%s" "opendata"`, city),
	}
	if len(queries) > s.opts.MaxSearchQueries {
		queries = queries[:s.opts.MaxSearchQueries]
	}

	for _, query := range queries {
		results, err := s.search.Search(query)
		if err != nil {
			continue
		}

		organic := results.Organic
		if len(organic) > s.opts.MaxResultsPerQuery {
			organic = organic[:s.opts.MaxResultsPerQuery]
		}

		for _, result := range organic {
			if result.Link == "" {
				continue
			}

			detected := s.detectPortalType(result.Link, result.Title)
			if detected != portalUnknown {
				candidate := portalCandidate{url: result.Link, detectedType: detected, title: result.Title}
				if endpoint, ok := s.searchPortal(candidate, s.opts.StrictRecencyWindow); ok {
					return endpoint, true
				}
				continue
			}

			// Not a recognizable portal; the page itself may embed an API URL.
			if endpoint, ok := s.extractValidatedAPI(result.Link); ok {
				return endpoint, true
			}
		}
	}
	return "", false
}

// extractValidatedAPI scans a page for embedded API-pattern URLs and returns
// the first that validates.
func (s *Service) extractValidatedAPI(pageURL string) (string, bool) {
	body := s.fetchPage(pageURL)
	if body == nil {
		return "", false
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}
	for _, candidate := range extractCandidateURLs(body, base, contextAPI) {
		if s.IsValidEndpoint(candidate) {
			logger.Info("discovery: extracted API from page", map[string]interface{}{
				"page": pageURL, "endpoint": candidate,
			})
			return candidate, true
		}
	}
	return "", false
}

// domainRestrictedSearch scopes queries to the country's government domains
// to cut SEO junk, accepting results that either validate directly as APIs or
// embed extractable endpoints.
func (s *Service) domainRestrictedSearch(city, country string) (string, bool) {
	domain := s.geo.SearchDomain(country)

	queries := []string{
		fmt.Sprintf(`site:%s "%s" ("311" OR "service request" OR "open data" OR "municipal data") (api OR json OR endpoint)`, domain, city),
		fmt.Sprintf(`site:%s "%s" "open311" (api OR endpoint)`, domain, city),
		fmt.Sprintf(`site:%s "%s" "municipal services" (api OR json)`, domain, city),
		fmt.Sprintf(`site:%s "%s" "city services" (api OR json)`, domain, city),
		fmt.Sprintf(`site:%s "%s" "public works" (api OR json)`, domain, city),
	}
	if len(queries) > 10 {
		queries = queries[:10]
	}

	for _, query := range queries {
		results, err := s.search.Search(query)
		if err != nil {
			continue
		}

		organic := results.Organic
		if len(organic) > 5 {
			organic = organic[:5]
		}

		for _, result := range organic {
			link := result.Link
			if link == "" {
				continue
			}

			if looksLikeAPIURL(link) && s.IsValidEndpoint(link) {
				logger.Info("discovery: domain-restricted hit", map[string]interface{}{"endpoint": link})
				return link, true
			}

			if endpoint, ok := s.extractValidatedAPI(link); ok {
				return endpoint, true
			}
			if endpoint, ok := s.extractCKANPortal(link); ok {
				return endpoint, true
			}
		}
	}
	return "", false
}

// extractCKANPortal scans a page for CKAN portal signatures and searches any
// confirmed portal for a 311 dataset.
func (s *Service) extractCKANPortal(pageURL string) (string, bool) {
	body := s.fetchPage(pageURL)
	if body == nil {
		return "", false
	}
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", false
	}
	for _, candidate := range extractCandidateURLs(body, base, contextPortal) {
		if !s.probeCKAN(candidate) {
			continue
		}
		if endpoint, ok := s.searchCKAN(candidate, s.opts.RelaxedRecencyWindow); ok {
			return endpoint, true
		}
	}
	return "", false
}
