package scraper

import (
	"log/slog"
	"strings"

	"github.com/go-rod/rod"
)

// ChallengeState describes where the pipeline stands with respect to a
// bot challenge on the current page.
type ChallengeState int

const (
	// ChallengeNone means no challenge was ever detected.
	ChallengeNone ChallengeState = iota

	// ChallengeResolved means a challenge was detected and is no longer
	// present after a resolution attempt.
	ChallengeResolved

	// ChallengeUnresolved means a challenge was detected and survived the
	// resolution attempt. Extraction still proceeds.
	ChallengeUnresolved

	// ChallengeSkipped means a challenge was detected but resolution was
	// disabled for this request.
	ChallengeSkipped
)

func (c ChallengeState) String() string {
	switch c {
	case ChallengeNone:
		return "none"
	case ChallengeResolved:
		return "resolved"
	case ChallengeUnresolved:
		return "unresolved"
	case ChallengeSkipped:
		return "skipped"
	}
	return "unknown"
}

// Challenge page signatures. A page is challenge-hosted when any body
// marker, the title marker, or the interstitial container is present.
var (
	challengeBodyMarkers = []string{
		"Checking your browser",
		"DDoS protection by Cloudflare",
	}
	challengeTitleMarker = "Cloudflare"
)

// matchChallengeSignals is the pure signature check. hasInterstitial
// reports whether a div with a "cf-" class prefix exists in the DOM.
func matchChallengeSignals(bodyText, title string, hasInterstitial bool) bool {
	for _, marker := range challengeBodyMarkers {
		if strings.Contains(bodyText, marker) {
			return true
		}
	}
	if strings.Contains(title, challengeTitleMarker) {
		return true
	}
	return hasInterstitial
}

// detectJS gathers the three challenge signals in one page round trip.
const detectJS = `() => ({
	body: document.body ? document.body.textContent : "",
	title: document.title,
	cf: document.querySelector('div[class*="cf-"]') !== null,
})`

// detectChallenge probes the current page for challenge signatures.
// Probe failures are treated as "no challenge": a page that cannot be
// inspected is handed to extraction as-is.
func detectChallenge(page *rod.Page) bool {
	res, err := page.Eval(detectJS)
	if err != nil {
		slog.Warn("challenge probe failed", "error", err)
		return false
	}
	return matchChallengeSignals(
		res.Value.Get("body").Str(),
		res.Value.Get("title").Str(),
		res.Value.Get("cf").Bool(),
	)
}
