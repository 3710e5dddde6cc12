// Package search provides web search with pluggable providers.
package search

// Result is a single organic search result.
type Result struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
}

// Results is a complete search response.
type Results struct {
	Organic []Result `json:"organic"`
}

// Provider is the interface discovery strategies search through. A provider
// with no configured credentials returns empty results, not an error.
type Provider interface {
	Search(query string) (Results, error)
}
