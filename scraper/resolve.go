package scraper

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/simba-tools/simbadesk/config"
)

// challengeSelectors are probed in order on a challenge-hosted page.
// Only the checkbox and iframe entries are interactive; the rest
// confirm which challenge variant is on screen.
var challengeSelectors = []string{
	`input[type="checkbox"]`,
	`iframe[src*="cloudflare"]`,
	`#challenge-form`,
	`.ray_id`,
	`#cf-please-wait`,
	`#cf-content`,
	`#challenge-running`,
	`#challenge-stage`,
	`#challenge-error-title`,
}

// challengeSurface is the slice of page behavior a resolution attempt
// drives. The live implementation wraps a rod page; tests substitute a
// scripted surface.
type challengeSurface interface {
	probe(sel string) (bool, *rod.Element, error)
	clickCheckbox(ctx context.Context, el *rod.Element) error
	clickIframe(el *rod.Element)
	wander(ctx context.Context)
	awaitNavigation(ctx context.Context)
	challengePresent() bool
}

// Resolver attempts to clear a detected challenge through human-like
// interaction. It never fails the scrape: every error inside a
// resolution attempt is logged and absorbed, and the page is handed
// back to the pipeline in whatever state it reached.
type Resolver struct {
	cfg       config.ScrapeConfig
	humanizer *Humanizer
}

// NewResolver creates a resolver with the given timing policy.
func NewResolver(cfg config.ScrapeConfig, h *Humanizer) *Resolver {
	return &Resolver{cfg: cfg, humanizer: h}
}

// Resolve runs one resolution attempt against a live page and reports
// whether the challenge is still present afterwards.
func (r *Resolver) Resolve(ctx context.Context, page *rod.Page) (stillPresent bool) {
	return r.run(ctx, &pageSurface{
		page:      page,
		humanizer: r.humanizer,
		navBound:  r.cfg.ResolveNavTimeout,
	})
}

// run executes the resolution attempt against a challenge surface.
//
// Lifecycle (numbered steps match the inline comments):
//
//  1. Grace wait       – let challenge widgets finish rendering
//  2. Selector sweep   – probe known challenge elements, interact with
//                        the checkbox and iframe variants
//  3. Pointer noise    – random wander across the viewport
//  4. Navigation race  – wait for a post-challenge redirect, bounded
//  5. Settle + recheck – re-run detection on the settled page
//  6. Last grace       – extra wait if the challenge survived
func (r *Resolver) run(ctx context.Context, page challengeSurface) (stillPresent bool) {
	// ── 1. Grace wait ─────────────────────────────────────────────────
	if !sleepWithContext(ctx, r.cfg.ChallengeGrace) {
		return true
	}

	// ── 2. Selector sweep ─────────────────────────────────────────────
	for _, sel := range challengeSelectors {
		has, el, err := page.probe(sel)
		if err != nil {
			slog.Debug("challenge selector probe failed", "selector", sel, "error", err)
			continue
		}
		if !has {
			continue
		}
		slog.Info("challenge element found", "selector", sel)

		switch sel {
		case `input[type="checkbox"]`:
			if err := page.clickCheckbox(ctx, el); err != nil {
				slog.Warn("checkbox interaction failed", "error", err)
			}
			if !sleepWithContext(ctx, r.cfg.InteractionPause) {
				return true
			}
		case `iframe[src*="cloudflare"]`:
			page.clickIframe(el)
			if !sleepWithContext(ctx, r.cfg.InteractionPause) {
				return true
			}
		}
	}

	// ── 3. Pointer noise ──────────────────────────────────────────────
	page.wander(ctx)

	// ── 4. Navigation race ────────────────────────────────────────────
	page.awaitNavigation(ctx)

	// ── 5. Settle + recheck ───────────────────────────────────────────
	if !sleepWithContext(ctx, r.cfg.ResolveSettle) {
		return true
	}
	stillPresent = page.challengePresent()

	// ── 6. Last grace ─────────────────────────────────────────────────
	if stillPresent {
		slog.Info("challenge still present after resolution attempt, waiting longer")
		sleepWithContext(ctx, r.cfg.UnresolvedExtraWait)
	} else {
		slog.Info("challenge cleared")
	}
	return stillPresent
}

// pageSurface adapts a live rod page to the challengeSurface the
// resolver drives.
type pageSurface struct {
	page      *rod.Page
	humanizer *Humanizer
	navBound  time.Duration
}

func (p *pageSurface) probe(sel string) (bool, *rod.Element, error) {
	return p.page.Has(sel)
}

func (p *pageSurface) clickCheckbox(ctx context.Context, el *rod.Element) error {
	return p.humanizer.ClickElement(ctx, p.page, el)
}

// clickIframe clicks the checkbox inside a challenge iframe via a
// direct DOM click. Curved pointer movement cannot reach into a
// cross-origin frame, so this variant skips the humanizer.
func (p *pageSurface) clickIframe(iframeEl *rod.Element) {
	src, err := iframeEl.Attribute("src")
	if err != nil || src == nil || !strings.Contains(*src, "cloudflare") {
		return
	}
	slog.Info("challenge iframe found", "src", *src)

	frame, err := iframeEl.Frame()
	if err != nil {
		slog.Debug("failed to enter challenge iframe", "error", err)
		return
	}
	has, checkbox, err := frame.Has(`input[type="checkbox"]`)
	if err != nil || !has {
		return
	}
	if _, err := checkbox.Eval(`() => this.click()`); err != nil {
		slog.Debug("iframe checkbox click failed", "error", err)
	}
}

func (p *pageSurface) wander(ctx context.Context) {
	p.humanizer.MoveRandomly(ctx, p.page)
}

// awaitNavigation waits for a page load triggered by the challenge
// clearing, giving up after the configured bound. Not navigating is a
// normal outcome; some challenges resolve in place.
func (p *pageSurface) awaitNavigation(ctx context.Context) {
	navCtx, cancel := context.WithTimeout(ctx, p.navBound)
	defer cancel()

	wait := p.page.Context(navCtx).WaitNavigation(proto.PageLifecycleEventNameLoad)
	done := make(chan struct{})
	go func() {
		defer close(done)
		wait()
	}()

	select {
	case <-done:
		slog.Debug("post-challenge navigation observed")
	case <-navCtx.Done():
		slog.Debug("no navigation after challenge interaction")
	}
}

func (p *pageSurface) challengePresent() bool {
	return detectChallenge(p.page)
}
