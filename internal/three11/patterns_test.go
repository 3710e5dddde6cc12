package three11

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func TestCitySlug(t *testing.T) {
	tests := []struct {
		city string
		want string
	}{
		{"Toronto", "toronto"},
		{"Los Angeles", "losangeles"},
		{"Trois-Rivières", "troisrivières"},
		{"New York", "newyork"},
	}
	for _, tt := range tests {
		if got := citySlug(tt.city); got != tt.want {
			t.Errorf("citySlug(%q) = %q, want %q", tt.city, got, tt.want)
		}
	}
}

func jsonResponse(req *http.Request, body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(strings.NewReader(body)),
		Request:    req,
	}
}

func TestTryKnownPatternsOpen311(t *testing.T) {
	svc := newTestService()
	svc.probe = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Host == "springfield.open311.io" && req.URL.Path == "/v2/services.json" {
			return jsonResponse(req, `{"services": [{"service_code": "001", "service_name": "Pothole"}]}`), nil
		}
		return nil, io.ErrUnexpectedEOF
	})}

	endpoint, ok := svc.tryKnownPatterns("Springfield")
	if !ok {
		t.Fatal("expected the open311 pattern to validate")
	}
	if endpoint != "https://springfield.open311.io/v2/services.json" {
		t.Errorf("endpoint = %q", endpoint)
	}
}

func TestTryKnownPatternsSocrata(t *testing.T) {
	svc := newTestService()
	svc.probe = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		if req.URL.Host == "data.springfield.gov" && req.URL.Path == "/api/views.json" {
			return jsonResponse(req, `[{"name": "311 Service Requests", "id": "abc123"}]`), nil
		}
		return nil, io.ErrUnexpectedEOF
	})}

	endpoint, ok := svc.tryKnownPatterns("Springfield")
	if !ok {
		t.Fatal("expected the socrata pattern to find the dataset")
	}
	if endpoint != "https://data.springfield.gov/resource/abc123.json" {
		t.Errorf("endpoint = %q", endpoint)
	}
}

func TestTryKnownPatternsNothingAnswers(t *testing.T) {
	svc := newTestService()
	transport := &failingTransport{}
	svc.probe = &http.Client{Transport: transport}

	if _, ok := svc.tryKnownPatterns("Springfield"); ok {
		t.Error("no pattern should validate when nothing answers")
	}
	if transport.calls == 0 {
		t.Error("pattern probing should have attempted live requests")
	}
}
