// Package geo holds the per-city knowledge base (bounding boxes, country
// search-domain conventions, government host heuristics) and the Mapbox
// reverse-geocoding client.
package geo

import (
	_ "embed"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed cities.yaml
var citiesYAML []byte

// Bounds is a lat/lng bounding box for a city.
type Bounds struct {
	City     string  `yaml:"city"`
	Province string  `yaml:"province"`
	Country  string  `yaml:"country"`
	LatMin   float64 `yaml:"lat_min"`
	LatMax   float64 `yaml:"lat_max"`
	LngMin   float64 `yaml:"lng_min"`
	LngMax   float64 `yaml:"lng_max"`
}

// Contains reports whether the coordinate falls inside the box.
func (b Bounds) Contains(lat, lng float64) bool {
	return b.LatMin <= lat && lat <= b.LatMax && b.LngMin <= lng && lng <= b.LngMax
}

// Table is the loaded per-city knowledge base. It is injectable so tests can
// supply their own entries.
type Table struct {
	Cities              []Bounds          `yaml:"cities"`
	SearchDomains       map[string]string `yaml:"search_domains"`
	GovernmentFragments []string          `yaml:"government_fragments"`
	PortalBlocklist     []string          `yaml:"portal_blocklist"`
}

// LoadTable parses the embedded knowledge base. It panics on a malformed
// embed since that is a build defect, not a runtime condition.
func LoadTable() *Table {
	var t Table
	if err := yaml.Unmarshal(citiesYAML, &t); err != nil {
		panic("geo: embedded cities.yaml is malformed: " + err.Error())
	}
	return &t
}

// BoundsFor returns the bounding box for a city, if known. Lookup keys are
// case-insensitive.
func (t *Table) BoundsFor(city, province, country string) (Bounds, bool) {
	city, province, country = norm(city), norm(province), norm(country)
	for _, b := range t.Cities {
		if b.City == city && b.Province == province && b.Country == country {
			return b, true
		}
	}
	return Bounds{}, false
}

// ValidCoordinates checks a coordinate against the city's bounding box when
// one is known. Unknown cities only get the full valid Earth range, which is
// effectively no check.
func (t *Table) ValidCoordinates(lat, lng float64, city, province, country string) bool {
	if b, ok := t.BoundsFor(city, province, country); ok {
		return b.Contains(lat, lng)
	}
	return -90 <= lat && lat <= 90 && -180 <= lng && lng <= 180
}

// SearchDomain returns the site: restriction for domain-restricted searches
// in a country ("*.gov" for USA, "*.ca" for Canada, the default otherwise).
func (t *Table) SearchDomain(country string) string {
	if d, ok := t.SearchDomains[norm(country)]; ok {
		return d
	}
	return t.SearchDomains["default"]
}

// IsGovernmentHost reports whether a URL carries a recognized government TLD
// fragment.
func (t *Table) IsGovernmentHost(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, frag := range t.GovernmentFragments {
		if strings.Contains(lower, frag) {
			return true
		}
	}
	return false
}

// IsBlocklisted reports whether a URL belongs to a social or reference site
// that can never be a municipal portal.
func (t *Table) IsBlocklisted(rawURL string) bool {
	lower := strings.ToLower(rawURL)
	for _, host := range t.PortalBlocklist {
		if strings.Contains(lower, host) {
			return true
		}
	}
	return false
}

func norm(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
