package geo

import "testing"

func TestBoundsFor(t *testing.T) {
	table := LoadTable()

	b, ok := table.BoundsFor("Toronto", "Ontario", "Canada")
	if !ok {
		t.Fatal("Toronto should be in the knowledge base")
	}
	if b.LatMin != 43.5 || b.LatMax != 43.9 || b.LngMin != -79.7 || b.LngMax != -79.1 {
		t.Errorf("unexpected Toronto bounds: %+v", b)
	}

	if _, ok := table.BoundsFor("Springfield", "Illinois", "USA"); ok {
		t.Error("unknown city should have no bounds")
	}
}

func TestBoundsForCaseInsensitive(t *testing.T) {
	table := LoadTable()
	if _, ok := table.BoundsFor("NEW YORK", " New York ", "usa"); !ok {
		t.Error("lookup should ignore case and surrounding whitespace")
	}
}

func TestValidCoordinates(t *testing.T) {
	table := LoadTable()

	tests := []struct {
		name     string
		lat, lng float64
		city     string
		province string
		country  string
		want     bool
	}{
		{"downtown toronto", 43.6548, -79.3883, "Toronto", "Ontario", "Canada", true},
		{"montreal coords for toronto", 45.5017, -73.5673, "Toronto", "Ontario", "Canada", false},
		{"unknown city accepts anything on earth", 51.5, -0.12, "London", "England", "UK", true},
		{"unknown city rejects off-earth", 120.0, -0.12, "London", "England", "UK", false},
		{"vancouver", 49.28, -123.12, "Vancouver", "British Columbia", "Canada", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := table.ValidCoordinates(tt.lat, tt.lng, tt.city, tt.province, tt.country); got != tt.want {
				t.Errorf("ValidCoordinates() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSearchDomain(t *testing.T) {
	table := LoadTable()

	tests := []struct {
		country string
		want    string
	}{
		{"USA", "*.gov"},
		{"Canada", "*.ca"},
		{"France", "*.gov"},
	}
	for _, tt := range tests {
		if got := table.SearchDomain(tt.country); got != tt.want {
			t.Errorf("SearchDomain(%q) = %q, want %q", tt.country, got, tt.want)
		}
	}
}

func TestIsGovernmentHost(t *testing.T) {
	table := LoadTable()

	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.toronto.ca/311", true},
		{"https://www.chicago.gov/311", true},
		{"https://montreal.gouv.qc.ca", true},
		{"https://www.example.com/311", false},
	}
	for _, tt := range tests {
		if got := table.IsGovernmentHost(tt.url); got != tt.want {
			t.Errorf("IsGovernmentHost(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestIsBlocklisted(t *testing.T) {
	table := LoadTable()

	if !table.IsBlocklisted("https://www.reddit.com/r/toronto") {
		t.Error("reddit should be blocklisted")
	}
	if table.IsBlocklisted("https://data.toronto.ca") {
		t.Error("a municipal data host should not be blocklisted")
	}
}
