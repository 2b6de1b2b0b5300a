package scraper

import "strings"

// Classifier decides whether a target URL counts as a strict site, one
// known to run aggressive bot checks. Strict targets are always scraped
// with a visible browser window.
type Classifier struct {
	hosts []string
}

// NewClassifier builds a classifier from a list of host substrings.
func NewClassifier(hosts []string) *Classifier {
	lowered := make([]string, len(hosts))
	for i, h := range hosts {
		lowered[i] = strings.ToLower(strings.TrimSpace(h))
	}
	return &Classifier{hosts: lowered}
}

// IsStrict reports whether the raw URL matches any configured strict
// host substring. Matching is a case-insensitive substring check over
// the whole URL, so "cloudflare" also catches challenge-hosting paths.
func (c *Classifier) IsStrict(rawURL string) bool {
	u := strings.ToLower(rawURL)
	for _, h := range c.hosts {
		if h != "" && strings.Contains(u, h) {
			return true
		}
	}
	return false
}
