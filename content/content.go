// Package content post-processes scraped pages: visible-text recovery
// from raw HTML, truncation for LLM prompts, readability extraction,
// Markdown rendering, and token estimation.
package content

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

// MaxLLMInputChars is the default prompt-input cap. Scraped text beyond
// this length is truncated before summarization.
const MaxLLMInputChars = 15000

// Truncate caps text at limit bytes, appending an ellipsis marker when
// anything was cut. The cut lands on a rune boundary so multibyte
// characters are never split. A non-positive limit means no cap.
func Truncate(text string, limit int) string {
	if limit <= 0 || len(text) <= limit {
		return text
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	return text[:cut] + "..."
}

// skippedTags contribute no visible text.
var skippedTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"head":     true,
	"template": true,
}

// VisibleText recovers the user-visible text from raw HTML, the
// server-side equivalent of reading body.innerText from a live page.
// Block boundaries collapse to single newlines.
func VisibleText(rawHTML string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return "", err
	}
	doc.Find("script, style, noscript, head, template").Remove()

	text := doc.Find("body").Text()
	if strings.TrimSpace(text) == "" {
		text = doc.Text()
	}

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return strings.Join(out, "\n"), nil
}

// EstimateTokens is a fast token-count heuristic: utf8 rune count / 3.
// English averages ~4 chars per token and CJK ~1.5, so dividing by 3
// over-estimates slightly for mostly-English pages.
func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	if n == 0 {
		return 0
	}
	est := n / 3
	if est < 1 {
		return 1
	}
	return est
}
