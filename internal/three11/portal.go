package three11

import (
	"net/http"
	"strings"
	"time"
)

// Portal technologies discovery can classify.
const (
	portalCKAN      = "ckan"
	portalSocrata   = "socrata"
	portalArcGIS    = "arcgis"
	portalExtracted = "extracted"
	portalUnknown   = "unknown"
)

// portalCandidate is an ephemeral discovery result: a portal URL plus the
// technology it was classified as.
type portalCandidate struct {
	url          string
	detectedType string
	title        string
}

// Hosts that rank for open-data queries but are library or archive catalogs.
var junkPortalHosts = []string{"pubmed", "ncbi", "library", "archive", "bac-lac"}

// detectPortalType classifies a search result into a portal technology,
// first by URL and title heuristics, then by live-probing each platform's
// signature endpoint.
func (s *Service) detectPortalType(rawURL, title string) string {
	urlLower := strings.ToLower(rawURL)
	titleLower := strings.ToLower(title)

	for _, junk := range junkPortalHosts {
		if strings.Contains(urlLower, junk) {
			return portalUnknown
		}
	}

	switch {
	case containsAny(urlLower, "/api/3/action", "ckan", "opendata"):
		return portalCKAN
	case containsAny(urlLower, "socrata", "data.city", "data.gov", "/resource/"):
		return portalSocrata
	case containsAny(urlLower, "arcgis", "rest/services", "gis"):
		return portalArcGIS
	}

	if containsAny(titleLower, "open data", "data portal", "opendata") {
		base := strings.TrimRight(rawURL, "/")
		switch {
		case s.probeCKAN(base):
			return portalCKAN
		case s.probeSocrata(base):
			return portalSocrata
		case s.probeArcGIS(base):
			return portalArcGIS
		}
	}
	return portalUnknown
}

// searchPortal dispatches a classified portal to its platform searcher. The
// window applies only to CKAN, the one platform whose datasets expose a
// last-modified date.
func (s *Service) searchPortal(candidate portalCandidate, window time.Duration) (string, bool) {
	switch candidate.detectedType {
	case portalCKAN:
		return s.searchCKAN(portalBase(candidate.url), window)
	case portalSocrata:
		return s.searchSocrata(portalBase(candidate.url))
	case portalArcGIS:
		return s.searchArcGIS(portalBase(candidate.url))
	case portalExtracted:
		return candidate.url, true
	default:
		return "", false
	}
}

func (s *Service) probeCKAN(base string) bool {
	var decoded struct {
		Success bool `json:"success"`
	}
	return s.getJSON(base+"/api/3/action/package_list", &decoded) && decoded.Success
}

func (s *Service) probeSocrata(base string) bool {
	var views []socrataView
	return s.getJSON(base+"/api/views.json", &views)
}

func (s *Service) probeArcGIS(base string) bool {
	req, err := http.NewRequest(http.MethodGet, base+"/arcgis/rest/services", nil)
	if err != nil {
		return false
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)
	resp, err := s.probe.Do(req)
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func containsAny(haystack string, needles ...string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
