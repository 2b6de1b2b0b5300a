package scraper

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-rod/rod"

	"github.com/simba-tools/simbadesk/content"
	"github.com/simba-tools/simbadesk/models"
)

// extractTextJS strips script and style elements, then reads the
// rendered visible text.
const extractTextJS = `() => {
	document.querySelectorAll('script, style').forEach((el) => el.remove());
	return document.body ? document.body.innerText : "";
}`

// extractText returns the page's visible text with scripts and styles
// removed. An empty result is reported as ErrCodeEmptyContent.
func extractText(page *rod.Page) (string, error) {
	res, err := page.Eval(extractTextJS)
	if err != nil {
		return "", categorizeError(err, "failed to extract page text")
	}
	text := res.Value.Str()
	if strings.TrimSpace(text) == "" {
		return "", models.NewScrapeError(
			models.ErrCodeEmptyContent,
			"no content could be scraped from the page",
			nil,
		)
	}
	return text, nil
}

// extractHTML returns the rendered document HTML.
func extractHTML(page *rod.Page) (string, error) {
	html, err := page.HTML()
	if err != nil {
		return "", categorizeError(err, "failed to extract page HTML")
	}
	return html, nil
}

// recoverVisibleText is the fallback when in-page innerText extraction
// yields nothing: pull the rendered HTML and parse the visible text
// server-side instead.
func recoverVisibleText(page *rod.Page) (string, error) {
	html, err := extractHTML(page)
	if err != nil {
		return "", err
	}
	return visibleTextFromHTML(html)
}

// visibleTextFromHTML parses raw HTML into visible text, reporting an
// empty result as ErrCodeEmptyContent.
func visibleTextFromHTML(rawHTML string) (string, error) {
	text, err := content.VisibleText(rawHTML)
	if err != nil || strings.TrimSpace(text) == "" {
		return "", models.NewScrapeError(
			models.ErrCodeEmptyContent,
			"no content could be scraped from the page",
			err,
		)
	}
	return text, nil
}

// isEmptyContent reports whether err carries the empty-content code.
func isEmptyContent(err error) bool {
	var scrapeErr *models.ScrapeError
	return errors.As(err, &scrapeErr) && scrapeErr.Code == models.ErrCodeEmptyContent
}

// extractFields reads every field in the schema from the page. A
// locator that matches nothing is not an error: the field is filled
// with its default, nil for nullable fields, or the current time for
// timestamp fields. Every schema field appears in the result.
func extractFields(page *rod.Page, schema []FieldSpec, now func() time.Time) map[string]any {
	out := make(map[string]any, len(schema))
	for _, f := range schema {
		raw, found := fieldText(page, f.Selector)
		out[f.Name] = applyDefault(f, raw, found, now)
	}
	return out
}

// fieldText returns the trimmed text of the first element matching the
// selector. Probe errors count as absence.
func fieldText(page *rod.Page, selector string) (string, bool) {
	has, el, err := page.Has(selector)
	if err != nil || !has {
		return "", false
	}
	text, err := el.Text()
	if err != nil {
		return "", false
	}
	return strings.TrimSpace(text), true
}

// applyDefault resolves one extracted value against the field's
// absence policy.
func applyDefault(f FieldSpec, raw string, found bool, now func() time.Time) any {
	present := found && raw != ""
	switch f.Kind {
	case FieldNullable:
		if !present {
			return nil
		}
		return raw
	case FieldTimestamp:
		return normalizeTimestamp(raw, now)
	default:
		if !present {
			return f.Default
		}
		return raw
	}
}

// timestampLayouts are tried in order when parsing a scraped date.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123,
	time.RFC1123Z,
	"Jan 2, 2006 3:04 PM",
	"Jan 2, 2006",
	"01/02/2006 15:04",
	"01/02/2006",
}

// normalizeTimestamp parses a scraped date string and renders it as
// RFC 3339 UTC. Absent or unparsable values become the current time.
func normalizeTimestamp(raw string, now func() time.Time) string {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				return t.UTC().Format(time.RFC3339)
			}
		}
	}
	return now().UTC().Format(time.RFC3339)
}

// TicketDetailURL builds the detail-page address for a ticket id.
func TicketDetailURL(baseURL, simbaID string) string {
	return fmt.Sprintf("%s/tickets/%s", strings.TrimRight(baseURL, "/"), simbaID)
}
