package scraper

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/simba-tools/simbadesk/models"
)

// ValidateURL checks that a target is an absolute http(s) URL.
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return models.NewScrapeError(models.ErrCodeInvalidInput, "invalid URL format", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return models.NewScrapeError(models.ErrCodeInvalidInput, "URL must use http or https", nil)
	}
	if u.Host == "" {
		return models.NewScrapeError(models.ErrCodeInvalidInput, "URL is missing a host", nil)
	}
	return nil
}

// navigate loads the target URL and waits until the network is almost
// idle, bounded by the navigation timeout. The bound is generous so a
// challenge interstitial can run its course during the load.
func (s *Scraper) navigate(ctx context.Context, page *rod.Page, target string) error {
	navCtx, cancel := context.WithTimeout(ctx, s.scrapeCfg.NavigationTimeout)
	defer cancel()

	p := page.Context(navCtx)

	// The idle waiter must be registered before Navigate or early
	// requests are missed and the wait returns a false idle.
	wait := p.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)

	slog.Info("navigating", "url", target)
	return driveNavigation(navCtx, func() error { return p.Navigate(target) }, wait)
}

// driveNavigation starts a prepared navigation and holds for its idle
// wait, mapping start failures and deadline expiry to typed errors.
// The wait must honor navCtx so the bound also caps how long this
// blocks.
func driveNavigation(navCtx context.Context, start func() error, wait func()) error {
	if err := start(); err != nil {
		return categorizeError(err, "navigation to target URL failed")
	}
	wait()

	if navCtx.Err() != nil {
		return categorizeError(navCtx.Err(), "navigation timed out")
	}
	return nil
}

// categorizeError wraps raw errors into typed ScrapeErrors so the API
// layer can map them to appropriate HTTP status codes.
func categorizeError(err error, msg string) *models.ScrapeError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewScrapeError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewScrapeError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewScrapeError(models.ErrCodeNavigation, msg, err)
	}
}
