// Package handler holds the HTTP endpoint implementations. Each
// handler is a constructor taking its collaborators and returning a
// gin.HandlerFunc, so tests can wire in fakes.
package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/simba-tools/simbadesk/models"
	"github.com/simba-tools/simbadesk/scraper"
	"github.com/simba-tools/simbadesk/store"
)

// URLScraper runs the scrape pipeline against an arbitrary URL.
type URLScraper interface {
	ScrapeURL(ctx context.Context, target string, opts scraper.Options) (*scraper.Result, error)
}

// TicketScraper scrapes a ticket detail page into the fixed schema.
type TicketScraper interface {
	ScrapeTicketPage(ctx context.Context, baseURL, simbaID string) (*scraper.FieldsResult, error)
}

// Summarizer produces an LLM summary of scraped text.
type Summarizer interface {
	Summarize(ctx context.Context, text, provider string) (string, error)
	ResolveProvider(provider string) string
}

// respondError maps an error to the correct HTTP status code and
// writes a structured JSON failure envelope.
func respondError(c *gin.Context, err error) {
	var scrapeErr *models.ScrapeError
	switch {
	case errors.As(err, &scrapeErr):
	case errors.Is(err, store.ErrNotFound):
		scrapeErr = models.NewScrapeError(models.ErrCodeTicketNotFound, "Ticket not found", err)
	default:
		scrapeErr = models.NewScrapeError(models.ErrCodeInternal, "Server Error", err)
	}
	c.JSON(mapErrorToStatus(scrapeErr), models.Fail(scrapeErr.ToDetail()))
}

// mapErrorToStatus translates error codes to HTTP status codes.
func mapErrorToStatus(e *models.ScrapeError) int {
	switch e.Code {
	case models.ErrCodeInvalidInput, models.ErrCodeEmptyContent:
		return http.StatusBadRequest // 400
	case models.ErrCodeTicketNotFound, models.ErrCodeScrapeNotFound:
		return http.StatusNotFound // 404
	case models.ErrCodeTimeout:
		return http.StatusGatewayTimeout // 504
	case models.ErrCodeNavigation:
		return http.StatusBadGateway // 502
	case models.ErrCodeRateLimited:
		return http.StatusTooManyRequests // 429
	case models.ErrCodeUnauthorized:
		return http.StatusUnauthorized // 401
	default:
		return http.StatusInternalServerError // 500
	}
}
