package three11

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"time"

	"cityscout/internal/geo"
	"cityscout/internal/search"
)

// roundTripFunc lets tests stub an http.Client transport.
type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

// failingTransport refuses every request and counts them, standing in for a
// network where nothing answers.
type failingTransport struct {
	calls int64
}

func (t *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	atomic.AddInt64(&t.calls, 1)
	return nil, errors.New("connection refused")
}

// stubSearch returns canned results for every query and counts queries.
type stubSearch struct {
	results search.Results
	queries int64
}

func (s *stubSearch) Search(string) (search.Results, error) {
	atomic.AddInt64(&s.queries, 1)
	return s.results, nil
}

// stubInference returns a fixed completion.
type stubInference struct {
	response string
	err      error
}

func (s *stubInference) Complete(context.Context, string, string) (string, error) {
	return s.response, s.err
}

func testOptions() Options {
	opts := DefaultOptions()
	opts.ProbeTimeout = 2 * time.Second
	opts.FetchTimeout = 2 * time.Second
	return opts
}

// newTestService builds a Service with an empty search provider and the
// embedded geo table.
func newTestService() *Service {
	return New(&stubSearch{}, nil, geo.LoadTable(), testOptions())
}
