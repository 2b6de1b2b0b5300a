package content

import (
	"log/slog"
	nurl "net/url"
	"strings"

	readability "github.com/go-shiori/go-readability"
)

// minArticleLength is the minimum TextContent length for readability
// output to be considered valid. Below it the algorithm is assumed to
// have missed the main content and the raw text is used instead.
const minArticleLength = 50

// ReadableText runs the Mozilla Readability algorithm on rendered HTML
// and returns the main article text. It falls back to the supplied
// fullText when extraction fails or produces too little; the second
// return reports whether readability output was used.
func ReadableText(rawHTML, sourceURL, fullText string) (string, bool) {
	parsedURL, err := nurl.Parse(sourceURL)
	if err != nil {
		slog.Warn("readability: invalid source URL, using full text",
			"url", sourceURL, "error", err,
		)
		return fullText, false
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), parsedURL)
	if err != nil {
		slog.Warn("readability: extraction failed, using full text",
			"url", sourceURL, "error", err,
		)
		return fullText, false
	}

	text := strings.TrimSpace(article.TextContent)
	if len(text) < minArticleLength {
		slog.Warn("readability: extracted content too short, using full text",
			"url", sourceURL, "length", len(text),
		)
		return fullText, false
	}
	return text, true
}
