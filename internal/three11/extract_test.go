package three11

import (
	"net/url"
	"testing"
)

const samplePage = `<html><body>
<a href="/api/311/requests.json">Requests API</a>
<a href="/downloads/311-requests.zip">Download archive</a>
<a href="https://data.springfield.gov/dataset/311-requests">Open data portal</a>
<a href="/about">About</a>
<a href="#top">Back to top</a>
<a href="mailto:311@springfield.gov">Contact</a>
<script src="https://cdn.springfield.gov/assets/app.js"></script>
<script>
var endpoint = "https://api.springfield.gov/open311/v2/requests.json";
</script>
</body></html>`

func TestExtractCandidateURLs(t *testing.T) {
	base, _ := url.Parse("https://www.springfield.gov/311")

	tests := []struct {
		context string
		want    []string
	}{
		{contextAPI, []string{
			"https://www.springfield.gov/api/311/requests.json",
			"https://api.springfield.gov/open311/v2/requests.json",
		}},
		{contextDownload, []string{
			"https://www.springfield.gov/downloads/311-requests.zip",
		}},
		{contextPortal, []string{
			"https://data.springfield.gov",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.context, func(t *testing.T) {
			got := extractCandidateURLs([]byte(samplePage), base, tt.context)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d candidates %v, want %d", len(got), got, len(tt.want))
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("candidate[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestExtractCandidateURLsCap(t *testing.T) {
	var page string
	for i := 0; i < 30; i++ {
		page += `<a href="/api/dataset-` + string(rune('a'+i)) + `.json">x</a>`
	}
	base, _ := url.Parse("https://city.gov/data")

	got := extractCandidateURLs([]byte(page), base, contextAPI)
	if len(got) > maxExtractedURLs {
		t.Errorf("got %d candidates, cap is %d", len(got), maxExtractedURLs)
	}
}

// URLs scraped out of inline script and prose carry trailing punctuation from
// the surrounding syntax; candidates must come out clean or they either waste
// a live probe or miss the suffix patterns entirely.
func TestExtractCandidateURLsTrimsTrailingPunctuation(t *testing.T) {
	page := `<html><body>
<p>Query the API at https://api.city.gov/v2/requests.json; older exports live elsewhere.</p>
<script>
load("rows", [https://data.city.gov/api/3/rows.json, https://city.gov/api/311/requests,]);
</script>
</body></html>`
	base, _ := url.Parse("https://www.city.gov/311")

	got := extractCandidateURLs([]byte(page), base, contextAPI)
	want := []string{
		"https://api.city.gov/v2/requests.json",
		"https://data.city.gov/api/3/rows.json",
		"https://city.gov/api/311/requests",
	}
	if len(got) != len(want) {
		t.Fatalf("got %d candidates %v, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("candidate[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExtractCandidateURLsUnknownContext(t *testing.T) {
	if got := extractCandidateURLs([]byte(samplePage), nil, "nonsense"); got != nil {
		t.Errorf("unknown context should extract nothing, got %v", got)
	}
}

func TestResolveURL(t *testing.T) {
	base, _ := url.Parse("https://city.gov/311/")

	tests := []struct {
		candidate string
		want      string
	}{
		{"/api/requests.json", "https://city.gov/api/requests.json"},
		{"data.csv", "https://city.gov/311/data.csv"},
		{"https://other.gov/x.json", "https://other.gov/x.json"},
		{"#section", ""},
		{"mailto:hello@city.gov", ""},
		{"ftp://files.city.gov/data", ""},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := resolveURL(base, tt.candidate); got != tt.want {
			t.Errorf("resolveURL(%q) = %q, want %q", tt.candidate, got, tt.want)
		}
	}
}

func TestPortalBase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://data.city.gov/dataset/311?page=2", "https://data.city.gov"},
		{"http://localhost:8080/api/3/action/package_list", "http://localhost:8080"},
		{"not a url", ""},
	}
	for _, tt := range tests {
		if got := portalBase(tt.in); got != tt.want {
			t.Errorf("portalBase(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
