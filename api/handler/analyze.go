package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/simba-tools/simbadesk/cache"
	"github.com/simba-tools/simbadesk/content"
	"github.com/simba-tools/simbadesk/models"
	"github.com/simba-tools/simbadesk/scraper"
)

// ScrapeURL returns a handler for POST /api/scrape-url.
//
// Orchestration flow:
//  1. Parse & validate request, apply defaults.
//  2. Cache lookup when the caller allows stale results.
//  3. Scrape: browser pipeline with challenge handling.
//  4. Shape output: markdown conversion, readability extraction.
//  5. Summarize with the selected LLM provider.
func ScrapeURL(sc URLScraper, sum Summarizer, cc *cache.Cache) gin.HandlerFunc {
	return func(c *gin.Context) {
		// ── 1. Parse request ──────────────────────────────────────────
		var req models.ScrapeURLRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, err.Error(), err))
			return
		}
		req.Defaults()
		provider := sum.ResolveProvider(req.Provider)

		// ── 2. Cache lookup ───────────────────────────────────────────
		cacheKey := cache.Key(req.URL, provider, req.OutputFormat, req.ExtractMode)
		if cc != nil && req.MaxAgeMs > 0 {
			if cached, hit := cc.Get(cacheKey, req.MaxAgeMs); hit {
				out := *cached
				out.CacheStatus = "hit"
				c.JSON(http.StatusOK, models.OK(out))
				return
			}
		}

		// ── 3. Scrape ─────────────────────────────────────────────────
		headless := req.Headless
		wantHTML := req.OutputFormat == "markdown" || req.ExtractMode == "readability"
		result, err := sc.ScrapeURL(c.Request.Context(), req.URL, scraper.Options{
			Headless:        &headless,
			BypassChallenge: req.BypassChallenge,
			WantHTML:        wantHTML,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		// ── 4. Shape output ───────────────────────────────────────────
		scraped := result.Text
		if req.OutputFormat == "markdown" && result.HTML != "" {
			if md, mdErr := content.ToMarkdown(result.HTML, hostOf(req.URL)); mdErr == nil {
				scraped = md
			}
		}

		llmInput := result.Text
		if req.ExtractMode == "readability" && result.HTML != "" {
			llmInput, _ = content.ReadableText(result.HTML, req.URL, result.Text)
		}

		// ── 5. Summarize ──────────────────────────────────────────────
		summary, err := sum.Summarize(c.Request.Context(), llmInput, provider)
		if err != nil {
			respondError(c, err)
			return
		}

		resp := models.ScrapeURLResponse{
			ScrapedText:   scraped,
			LLMResponse:   summary,
			Provider:      provider,
			TokenEstimate: content.EstimateTokens(llmInput),
		}
		if cc != nil {
			// Store a snapshot: the cached struct is shared with every
			// future hit, so it must not alias the response we are
			// about to mutate.
			cp := resp
			cc.Set(cacheKey, &cp)
		}
		if req.MaxAgeMs > 0 {
			resp.CacheStatus = "miss"
		}
		c.JSON(http.StatusOK, models.OK(resp))
	}
}

// AnalyzeText returns a handler for POST /api/analyze-text.
func AnalyzeText(sum Summarizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req models.AnalyzeTextRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, "Text content is required", err))
			return
		}
		if strings.TrimSpace(req.Text) == "" {
			respondError(c, models.NewScrapeError(models.ErrCodeInvalidInput, "Text content is required", nil))
			return
		}

		provider := sum.ResolveProvider(req.Provider)
		summary, err := sum.Summarize(c.Request.Context(), req.Text, provider)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, models.OK(models.AnalyzeTextResponse{
			LLMResponse: summary,
			Provider:    provider,
		}))
	}
}

func hostOf(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil {
		return u.Host
	}
	return ""
}
