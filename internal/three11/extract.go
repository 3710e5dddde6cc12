package three11

import (
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// Candidate-URL extraction is table-driven: each context names the regex
// patterns that mark a link as interesting and how to normalize it before
// validation. Adding a new portal signature is a table entry, not a new
// scraping function.
type extractRule struct {
	context   string
	patterns  []*regexp.Regexp
	normalize func(string) string
}

const (
	contextAPI      = "api"
	contextDownload = "download"
	contextPortal   = "portal"
)

var extractRules = []extractRule{
	{
		context: contextAPI,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)/api/`),
			regexp.MustCompile(`(?i)\.json($|\?)`),
			regexp.MustCompile(`(?i)/v[12]/`),
			regexp.MustCompile(`(?i)/resource/`),
			regexp.MustCompile(`(?i)/rest/services`),
		},
		normalize: stripFragment,
	},
	{
		context: contextDownload,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)\.csv($|\?)`),
			regexp.MustCompile(`(?i)\.zip($|\?)`),
			regexp.MustCompile(`(?i)\.geojson($|\?)`),
			regexp.MustCompile(`(?i)\.xlsx($|\?)`),
			regexp.MustCompile(`(?i)/download`),
		},
		normalize: stripFragment,
	},
	{
		context: contextPortal,
		patterns: []*regexp.Regexp{
			regexp.MustCompile(`(?i)/api/3/action/`),
			regexp.MustCompile(`(?i)ckan`),
			regexp.MustCompile(`(?i)socrata`),
			regexp.MustCompile(`(?i)opendata`),
			regexp.MustCompile(`(?i)^https?://data\.`),
		},
		// Portal links are probed at their base, not the deep page.
		normalize: portalBase,
	},
}

const maxExtractedURLs = 10

// fetchPage downloads an HTML page for link extraction. Any failure returns
// nil; extraction is always best-effort.
func (s *Service) fetchPage(rawURL string) []byte {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", s.opts.UserAgent)

	resp, err := s.probe.Do(req)
	if err != nil {
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 2*1024*1024))
	if err != nil {
		return nil
	}
	return body
}

// extractCandidateURLs pulls absolute URLs matching the rule table for a
// context out of an HTML page, deduplicated and capped.
func extractCandidateURLs(body []byte, base *url.URL, context string) []string {
	var rule *extractRule
	for i := range extractRules {
		if extractRules[i].context == context {
			rule = &extractRules[i]
			break
		}
	}
	if rule == nil {
		return nil
	}

	seen := make(map[string]bool)
	var out []string
	add := func(candidate string) {
		if len(out) >= maxExtractedURLs {
			return
		}
		u := resolveURL(base, candidate)
		if u == "" {
			return
		}
		for _, p := range rule.patterns {
			if p.MatchString(u) {
				normalized := rule.normalize(u)
				if normalized != "" && !seen[normalized] {
					seen[normalized] = true
					out = append(out, normalized)
				}
				return
			}
		}
	}

	doc, err := html.Parse(strings.NewReader(string(body)))
	if err == nil {
		var visit func(*html.Node)
		visit = func(n *html.Node) {
			if n.Type == html.ElementNode && (n.Data == "a" || n.Data == "link" || n.Data == "script") {
				if href := getAttr(n, "href"); href != "" {
					add(href)
				}
				if src := getAttr(n, "src"); src != "" {
					add(src)
				}
			}
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				visit(c)
			}
		}
		visit(doc)
	}

	// Pages also embed endpoint URLs in inline script and config blobs that
	// never appear as anchors. Matches from surrounding JS or prose keep
	// trailing list and call punctuation, which no endpoint URL ends with.
	for _, raw := range rawURLRegex.FindAllString(string(body), -1) {
		add(strings.TrimRight(raw, ",;)]}"))
	}

	return out
}

var rawURLRegex = regexp.MustCompile(`https?://[^\s"'<>\\]+`)

func resolveURL(base *url.URL, candidate string) string {
	candidate = strings.TrimSpace(candidate)
	if candidate == "" || strings.HasPrefix(candidate, "#") || strings.HasPrefix(candidate, "mailto:") {
		return ""
	}
	ref, err := url.Parse(candidate)
	if err != nil {
		return ""
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if ref.Scheme != "http" && ref.Scheme != "https" {
		return ""
	}
	return ref.String()
}

func stripFragment(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	u.Fragment = ""
	return u.String()
}

// portalBase reduces a deep portal link to scheme://host, the level CKAN and
// Socrata probes operate on.
func portalBase(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
