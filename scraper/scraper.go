// Package scraper drives a headless Chromium through the full scrape
// pipeline: launch, stealth setup, navigation, challenge detection and
// resolution, and text or field extraction. Every scrape gets its own
// browser process which is always torn down, success or failure.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/ysmood/gson"

	"github.com/simba-tools/simbadesk/config"
	"github.com/simba-tools/simbadesk/models"
)

// Scraper builds per-request browser sessions. It holds only
// configuration and is safe for concurrent use.
type Scraper struct {
	browserCfg config.BrowserConfig
	scrapeCfg  config.ScrapeConfig
	stealthCfg config.StealthConfig
	classifier *Classifier
	humanizer  *Humanizer
	preflight  *preflightProbe
}

// NewScraper creates a scraper from static configuration. The stealth
// configuration is bound here and applied to every session it creates.
func NewScraper(browserCfg config.BrowserConfig, scrapeCfg config.ScrapeConfig, stealthCfg config.StealthConfig) *Scraper {
	s := &Scraper{
		browserCfg: browserCfg,
		scrapeCfg:  scrapeCfg,
		stealthCfg: stealthCfg,
		classifier: NewClassifier(scrapeCfg.StrictHosts),
		humanizer:  NewHumanizer(),
	}
	if scrapeCfg.PreflightProbe {
		s.preflight = newPreflightProbe(stealthCfg.UserAgent)
	}
	return s
}

// session owns one browser process and its single page. Close is
// idempotent and always kills the browser.
type session struct {
	browser *rod.Browser
	page    *rod.Page
	strict  bool

	closeOnce sync.Once
	cleanup   func()
}

// sessionOptions control one session launch.
type sessionOptions struct {
	// headless requests a hidden window. Ignored for strict targets,
	// which always run visible.
	headless bool

	// strict marks the target as hard-protected.
	strict bool
}

// newSession launches a fresh browser process, connects to it, creates a
// page, and arms the stealth layer. The caller must Close the session.
//
// Lifecycle (numbered steps match the inline comments):
//
//  1. Launch     – fresh Chromium with anti-detection flags
//  2. Connect    – attach over the DevTools protocol
//  3. Page       – single tab per session
//  4. Stealth    – patch script + UA override + realistic headers
func (s *Scraper) newSession(ctx context.Context, opts sessionOptions) (*session, error) {
	// ── 1. Launch ─────────────────────────────────────────────────────
	headless := effectiveHeadless(opts)

	l := launcher.New().
		Headless(headless).
		NoSandbox(s.browserCfg.NoSandbox)

	if s.browserCfg.BrowserBin != "" {
		l = l.Bin(s.browserCfg.BrowserBin)
	}

	l.Set(flags.Flag("disable-blink-features"), "AutomationControlled")
	l.Delete(flags.Flag("enable-automation"))
	l.Set(flags.Flag("disable-web-security"))
	l.Set(flags.Flag("disable-features"), "IsolateOrigins,site-per-process")
	l.Set(flags.Flag("window-size"), windowSize(s.browserCfg))
	l.Set(flags.Flag("disable-infobars"))
	l.Set(flags.Flag("disable-dev-shm-usage"))
	l.Set(flags.Flag("disable-accelerated-2d-canvas"))
	l.Set(flags.Flag("no-first-run"))
	l.Set(flags.Flag("no-zygote"))
	l.Set(flags.Flag("disable-gpu"))
	l.Set(flags.Flag("hide-scrollbars"))
	l.Set(flags.Flag("mute-audio"))

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Debug("browser launched", "controlURL", controlURL, "headless", headless, "strict", opts.strict)

	// ── 2. Connect ────────────────────────────────────────────────────
	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	sess := &session{
		browser: browser,
		strict:  opts.strict,
		cleanup: func() {
			_ = browser.Close()
			l.Kill()
		},
	}

	// ── 3. Page ───────────────────────────────────────────────────────
	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		sess.Close()
		return nil, models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to create page",
			err,
		)
	}
	sess.page = page.Context(ctx)

	// ── 4. Stealth ────────────────────────────────────────────────────
	if err := s.armStealth(sess.page); err != nil {
		sess.Close()
		return nil, err
	}

	return sess, nil
}

// armStealth installs the anti-detection layer on a page. It must run
// before the first navigation; the patch script only affects documents
// created after it is registered.
func (s *Scraper) armStealth(page *rod.Page) error {
	if s.stealthCfg.Enabled {
		if _, err := page.EvalOnNewDocument(stealth.JS); err != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", err)
		}
	}

	if err := (proto.NetworkSetUserAgentOverride{
		UserAgent:      s.stealthCfg.UserAgent,
		AcceptLanguage: s.stealthCfg.AcceptLanguage,
	}).Call(page); err != nil {
		return models.NewScrapeError(
			models.ErrCodeBrowserCrash,
			"failed to override user agent",
			err,
		)
	}

	headers := map[string]string{
		"Accept-Language":           s.stealthCfg.AcceptLanguage,
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
		"Accept-Encoding":           "gzip, deflate, br",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Sec-Fetch-User":            "?1",
	}
	if err := (proto.NetworkSetExtraHTTPHeaders{
		Headers: toHeadersMap(headers),
	}).Call(page); err != nil {
		slog.Warn("failed to set extra headers", "error", err)
	}

	return nil
}

// Close tears down the session's browser process. Safe to call more
// than once; repeat calls are no-ops.
func (sess *session) Close() {
	sess.closeOnce.Do(func() {
		if sess.cleanup != nil {
			sess.cleanup()
		}
	})
}

// effectiveHeadless resolves the window mode for a launch. Strict
// edges fingerprint headless windows aggressively, so strict targets
// always run visible regardless of what was requested.
func effectiveHeadless(opts sessionOptions) bool {
	if opts.strict {
		return false
	}
	return opts.headless
}

func windowSize(cfg config.BrowserConfig) string {
	w, h := cfg.WindowWidth, cfg.WindowHeight
	if w <= 0 {
		w = 1920
	}
	if h <= 0 {
		h = 1080
	}
	return fmt.Sprintf("%d,%d", w, h)
}

// toHeadersMap converts a plain string map to the proto.NetworkHeaders
// type required by NetworkSetExtraHTTPHeaders.
func toHeadersMap(headers map[string]string) proto.NetworkHeaders {
	m := make(proto.NetworkHeaders, len(headers))
	for k, v := range headers {
		m[k] = gson.New(v)
	}
	return m
}
