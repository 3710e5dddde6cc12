// Package three11 discovers municipal 311 open-data endpoints for a city,
// fetches their payloads, and normalizes service requests into POIs.
//
// Discovery copes with genuine unknowns at runtime: unknown portal
// technology (CKAN, Socrata, ArcGIS, Open311, ad hoc), unknown payload
// schema and encoding, and rows without coordinates. Each layer validates
// its candidates live before the next layer runs.
package three11

import (
	"net/http"
	"time"

	"cityscout/internal/geo"
	"cityscout/internal/llm"
	"cityscout/internal/search"
)

// Options bounds discovery work and tunes the two recency policies. The
// strict window guards the generic portal-discovery path, the relaxed window
// the known-pattern municipal path; the two evolved separately upstream and
// are kept distinct on purpose.
type Options struct {
	UserAgent            string
	ProbeTimeout         time.Duration
	FetchTimeout         time.Duration
	StrictRecencyWindow  time.Duration
	RelaxedRecencyWindow time.Duration
	MaxSearchQueries     int
	MaxResultsPerQuery   int
	MaxPOIs              int

	// Transport, when set, replaces the default transport of both HTTP
	// clients. Nil means http.DefaultTransport.
	Transport http.RoundTripper
}

// DefaultOptions mirror the production configuration defaults.
func DefaultOptions() Options {
	return Options{
		UserAgent:            "Mozilla/5.0 (compatible; CityScoutBot/1.0)",
		ProbeTimeout:         10 * time.Second,
		FetchTimeout:         30 * time.Second,
		StrictRecencyWindow:  90 * 24 * time.Hour,
		RelaxedRecencyWindow: 365 * 24 * time.Hour,
		MaxSearchQueries:     5,
		MaxResultsPerQuery:   2,
		MaxPOIs:              25,
	}
}

// Service wires the discovery pipeline to its collaborators. All state is
// per-call; a Service is safe for concurrent use.
type Service struct {
	probe  *http.Client // validation probes, short timeout
	fetch  *http.Client // payload downloads, long timeout
	search search.Provider
	llm    llm.Inference // nil disables coordinate inference
	geo    *geo.Table
	opts   Options

	now func() time.Time // injectable for recency-window tests
}

// New builds a Service. inference may be nil; rows without coordinates are
// then dropped instead of inferred.
func New(provider search.Provider, inference llm.Inference, table *geo.Table, opts Options) *Service {
	if opts.MaxPOIs <= 0 {
		opts.MaxPOIs = 25
	}
	if opts.MaxSearchQueries <= 0 {
		opts.MaxSearchQueries = 5
	}
	if opts.MaxResultsPerQuery <= 0 {
		opts.MaxResultsPerQuery = 2
	}
	return &Service{
		probe:  &http.Client{Timeout: opts.ProbeTimeout, Transport: opts.Transport},
		fetch:  &http.Client{Timeout: opts.FetchTimeout, Transport: opts.Transport},
		search: provider,
		llm:    inference,
		geo:    table,
		opts:   opts,
		now:    time.Now,
	}
}
