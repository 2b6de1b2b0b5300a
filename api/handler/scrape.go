package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simba-tools/simbadesk/config"
	"github.com/simba-tools/simbadesk/models"
	"github.com/simba-tools/simbadesk/store"
	"github.com/simba-tools/simbadesk/webhook"
)

// ScrapeTicket returns a handler for POST /api/scrape/:id.
//
// Orchestration flow:
//  1. Resolve the ticket; unknown ids are 404.
//  2. Build the detail-page URL from the configured base address, or
//     from the incoming request when none is configured.
//  3. Run the browser pipeline against the detail page.
//  4. Persist the snapshot and notify the webhook, if configured.
func ScrapeTicket(st store.Store, sc TicketScraper, serverCfg config.ServerConfig, webhookCfg config.WebhookConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ticket, err := st.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}

		baseURL := serverCfg.BaseURL
		if baseURL == "" {
			scheme := "http"
			if c.Request.TLS != nil {
				scheme = "https"
			}
			baseURL = scheme + "://" + c.Request.Host
		}

		result, err := sc.ScrapeTicketPage(c.Request.Context(), baseURL, ticket.SimbaID)
		if err != nil {
			respondError(c, err)
			return
		}

		snapshot := &models.ScrapedTicket{
			OriginalTicketID: ticket.SimbaID,
			ScrapedData:      result.Fields,
			SourceURL:        result.SourceURL,
			ScrapedAt:        time.Now().UTC(),
		}
		if err := st.PutScrape(c.Request.Context(), snapshot); err != nil {
			respondError(c, models.NewScrapeError(models.ErrCodeStoreFailure, "failed to save scraped ticket", err))
			return
		}

		if webhookCfg.URL != "" {
			webhook.DeliverAsync(webhookCfg.URL, webhookCfg.Secret, &webhook.Event{
				Type:      webhook.EventTicketScraped,
				TicketID:  ticket.SimbaID,
				Timestamp: time.Now().Unix(),
				Data:      snapshot,
			})
		}

		c.JSON(http.StatusOK, models.OK(models.ScrapeTicketResponse{
			ScrapedTicket: snapshot,
			ScrapedData:   result.Fields,
		}))
	}
}

// GetScrapedTickets returns a handler for GET /api/scraped-tickets.
func GetScrapedTickets(st store.ScrapeStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		scrapes, err := st.ListScrapes(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.OKCount(len(scrapes), scrapes))
	}
}

// GetScrapedTicket returns a handler for GET /api/scraped-tickets/:id,
// where :id is the original ticket id.
func GetScrapedTicket(st store.ScrapeStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		scrape, err := st.GetScrape(c.Request.Context(), c.Param("id"))
		if errors.Is(err, store.ErrNotFound) {
			respondError(c, models.NewScrapeError(models.ErrCodeScrapeNotFound, "Scraped ticket not found", err))
			return
		}
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.OK(scrape))
	}
}
