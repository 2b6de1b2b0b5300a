// Package api assembles the HTTP surface: routes, middleware, and the
// handler wiring.
package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simba-tools/simbadesk/api/handler"
	"github.com/simba-tools/simbadesk/api/middleware"
	"github.com/simba-tools/simbadesk/cache"
	"github.com/simba-tools/simbadesk/config"
	"github.com/simba-tools/simbadesk/scraper"
	"github.com/simba-tools/simbadesk/store"
)

// NewRouter creates a configured Gin engine with all routes and
// middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// The health endpoint sits outside auth so monitoring probes always
// work.
func NewRouter(st store.Store, sc *scraper.Scraper, sum handler.Summarizer, cc *cache.Cache, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	apiGroup := r.Group("/api")

	// Health — no auth required.
	apiGroup.GET("/health", handler.Health(st, startTime))

	// Protected group — auth + rate limit.
	protected := apiGroup.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Tickets
	protected.POST("/tickets", handler.CreateTicket(st))
	protected.GET("/tickets", handler.GetTickets(st))
	protected.GET("/tickets/:id", handler.GetTicket(st))
	protected.PUT("/tickets/:id", handler.UpdateTicket(st))
	protected.DELETE("/tickets/:id", handler.DeleteTicket(st))
	protected.POST("/tickets/:id/art", handler.SubmitArtForm(st))

	// Ticket scraping
	protected.POST("/scrape/:id", handler.ScrapeTicket(st, sc, cfg.Server, cfg.Webhook))
	protected.GET("/scraped-tickets", handler.GetScrapedTickets(st))
	protected.GET("/scraped-tickets/:id", handler.GetScrapedTicket(st))

	// Content analysis
	protected.POST("/scrape-url", handler.ScrapeURL(sc, sum, cc))
	protected.POST("/analyze-text", handler.AnalyzeText(sum))

	return r
}
