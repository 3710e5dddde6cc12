package search

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s, want POST", r.Method)
		}
		if key := r.Header.Get("X-API-KEY"); key != "serper-key" {
			t.Errorf("X-API-KEY = %q", key)
		}

		body, _ := io.ReadAll(r.Body)
		var payload map[string]string
		if err := json.Unmarshal(body, &payload); err != nil || payload["q"] == "" {
			t.Errorf("bad request body: %s", body)
		}

		fmt.Fprint(w, `{"organic": [
			{"title": "Toronto Open Data", "link": "https://open.toronto.ca", "snippet": "Explore city datasets"}
		]}`)
	}))
	defer srv.Close()

	s := NewSerper("serper-key", time.Second)
	s.BaseURL = srv.URL

	results, err := s.Search(`"Toronto" "Ontario" "311" "api"`)
	if err != nil {
		t.Fatal(err)
	}
	if len(results.Organic) != 1 {
		t.Fatalf("got %d results, want 1", len(results.Organic))
	}
	if results.Organic[0].Link != "https://open.toronto.ca" {
		t.Errorf("link = %q", results.Organic[0].Link)
	}
}

func TestSearchWithoutKey(t *testing.T) {
	s := NewSerper("", time.Second)
	results, err := s.Search("anything")
	if err != nil {
		t.Fatalf("missing key should not error: %v", err)
	}
	if len(results.Organic) != 0 {
		t.Errorf("got %d results, want none", len(results.Organic))
	}
}

func TestSearchBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusForbidden)
	}))
	defer srv.Close()

	s := NewSerper("serper-key", time.Second)
	s.BaseURL = srv.URL

	if _, err := s.Search("anything"); err == nil {
		t.Error("non-200 status should surface as an error")
	}
}
