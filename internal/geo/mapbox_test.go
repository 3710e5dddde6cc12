package geo

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLocateWithoutToken(t *testing.T) {
	m := NewMapbox("", time.Second)
	loc := m.Locate(43.6548, -79.3883)
	if loc != fallbackLocation {
		t.Errorf("Locate() without token = %+v, want the fallback", loc)
	}
}

func TestLocate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("access_token") != "test-token" {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		fmt.Fprint(w, `{"features": [{"text": "Toronto", "context": [
			{"id": "region.123", "text": "Ontario"},
			{"id": "country.456", "text": "Canada"},
			{"id": "postcode.789", "text": "M5V"}
		]}]}`)
	}))
	defer srv.Close()

	m := NewMapbox("test-token", time.Second)
	m.BaseURL = srv.URL

	loc := m.Locate(43.6548, -79.3883)
	if loc.City != "Toronto" || loc.Province != "Ontario" || loc.Country != "Canada" {
		t.Errorf("Locate() = %+v", loc)
	}
}

func TestLocateDegradesToFallback(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		}},
		{"no features", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"features": []}`)
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `<html>rate limited</html>`)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			m := NewMapbox("test-token", time.Second)
			m.BaseURL = srv.URL

			if loc := m.Locate(43.65, -79.38); loc != fallbackLocation {
				t.Errorf("Locate() = %+v, want the fallback", loc)
			}
		})
	}
}
