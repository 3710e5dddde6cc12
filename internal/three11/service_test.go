package three11

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"cityscout/internal/geo"
	"cityscout/internal/search"
)

// End to end across the package: a search result pointing at an official page
// whose API endpoint serves Open311 JSON must come back as POIs.
func TestGetPOIs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/311", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprint(w, `<html><a href="/api/311/requests.json">API</a></html>`)
	})
	mux.HandleFunc("/api/311/requests.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"service_requests": [
			{"service_name": "Pothole", "description": "Deep pothole", "status": "open", "lat": 43.66, "long": -79.38},
			{"service_name": "Graffiti", "status": "open", "lat": 43.70, "long": -79.40}
		]}`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	provider := &stubSearch{results: search.Results{Organic: []search.Result{
		{Title: "Toronto 311", Link: srv.URL + "/311"},
	}}}
	svc := New(provider, nil, geo.LoadTable(), testOptions())

	// The stub page is not on a government host, so the official-portal
	// strategy skips it and generic discovery extracts the API instead.
	pois := svc.GetPOIs("Toronto", "Ontario", "Canada", 10)
	if len(pois) != 2 {
		t.Fatalf("got %d POIs, want 2", len(pois))
	}
	if pois[0].Name != "Pothole" || pois[0].Source != "311_api" {
		t.Errorf("unexpected first POI: %+v", pois[0])
	}
}

func TestGetPOIsNoEndpoint(t *testing.T) {
	svc := New(&stubSearch{}, nil, geo.LoadTable(), testOptions())
	svc.probe = &http.Client{Transport: &failingTransport{}}
	svc.fetch = &http.Client{Transport: &failingTransport{}}

	pois := svc.GetPOIs("Nowhereville", "Ontario", "Canada", 10)
	if pois == nil {
		t.Fatal("GetPOIs must return an empty slice, never nil")
	}
	if len(pois) != 0 {
		t.Errorf("got %d POIs, want 0", len(pois))
	}
}

func TestGetPOIsRespectsMax(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/resource/abc123.json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"complaint_type": "Noise", "latitude": 43.66, "longitude": -79.38},
			{"complaint_type": "Rodent", "latitude": 43.67, "longitude": -79.39},
			{"complaint_type": "Litter", "latitude": 43.68, "longitude": -79.40}
		]`)
	})
	mux.HandleFunc("/api/views.json", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"name": "311 Service Requests", "id": "abc123"}]`)
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	provider := &stubSearch{results: search.Results{Organic: []search.Result{
		{Title: "Toronto Open Data", Link: srv.URL},
	}}}
	svc := New(provider, nil, geo.LoadTable(), testOptions())

	pois := svc.GetPOIs("Toronto", "Ontario", "Canada", 2)
	if len(pois) != 2 {
		t.Errorf("got %d POIs, want the requested cap of 2", len(pois))
	}
}
