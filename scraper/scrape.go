package scraper

import (
	"context"
	"log/slog"
	"time"
)

// Options control one scrape.
type Options struct {
	// Headless requests a hidden window. nil means use the configured
	// default. Strict targets ignore this and run visible.
	Headless *bool

	// BypassChallenge enables detection and resolution of bot
	// challenges. nil means enabled.
	BypassChallenge *bool

	// WantHTML additionally captures the rendered document HTML.
	WantHTML bool
}

func (o Options) headless(fallback bool) bool {
	if o.Headless == nil {
		return fallback
	}
	return *o.Headless
}

func (o Options) bypass() bool {
	return o.BypassChallenge == nil || *o.BypassChallenge
}

// Result is the outcome of a text scrape.
type Result struct {
	Text      string
	HTML      string
	Challenge ChallengeState
	Strict    bool
	Duration  time.Duration
}

// FieldsResult is the outcome of a structured-field scrape.
type FieldsResult struct {
	Fields    map[string]any
	SourceURL string
	Challenge ChallengeState
	Duration  time.Duration
}

// ScrapeURL runs the full pipeline against an arbitrary URL and
// returns the page's visible text.
//
// Lifecycle (numbered steps match the inline comments):
//
//  1. Validate + classify  – URL check, strict-site decision
//  2. Session              – fresh browser, torn down on every path
//  3. Navigate + settle    – bounded load, then a fixed settle delay
//  4. Challenge phase      – detect, then resolve if enabled
//  5. Extract              – visible text (and HTML when asked)
func (s *Scraper) ScrapeURL(ctx context.Context, target string, opts Options) (*Result, error) {
	start := time.Now()

	// ── 1. Validate + classify ────────────────────────────────────────
	if err := ValidateURL(target); err != nil {
		return nil, err
	}
	strict := s.classifier.IsStrict(target)
	if !strict && s.preflight != nil {
		strict = s.preflight.looksProtected(ctx, target)
	}
	slog.Info("starting scrape",
		"url", target,
		"strict", strict,
		"headless", opts.headless(s.browserCfg.Headless),
		"bypass", opts.bypass(),
	)

	// ── 2. Session ────────────────────────────────────────────────────
	sess, err := s.newSession(ctx, sessionOptions{
		headless: opts.headless(s.browserCfg.Headless),
		strict:   strict,
	})
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	// ── 3. Navigate + settle ──────────────────────────────────────────
	if err := s.navigate(ctx, sess.page, target); err != nil {
		return nil, err
	}
	sleepWithContext(ctx, s.scrapeCfg.SettleDelay)

	// ── 4. Challenge phase ────────────────────────────────────────────
	state := s.challengePhase(ctx, sess, opts.bypass())

	// ── 5. Extract ────────────────────────────────────────────────────
	text, err := extractText(sess.page)
	if err != nil {
		if !isEmptyContent(err) {
			return nil, err
		}
		slog.Debug("innerText extraction empty, recovering from document HTML", "url", target)
		if text, err = recoverVisibleText(sess.page); err != nil {
			return nil, err
		}
	}
	res := &Result{
		Text:      text,
		Challenge: state,
		Strict:    strict,
		Duration:  time.Since(start),
	}
	if opts.WantHTML {
		if html, err := extractHTML(sess.page); err == nil {
			res.HTML = html
		}
	}
	slog.Info("scrape complete",
		"url", target,
		"challenge", state.String(),
		"chars", len(text),
		"duration", res.Duration,
	)
	return res, nil
}

// ScrapeTicketPage scrapes a ticket detail page into the fixed field
// schema. Absent fields resolve to their documented defaults.
func (s *Scraper) ScrapeTicketPage(ctx context.Context, baseURL, simbaID string) (*FieldsResult, error) {
	start := time.Now()
	target := TicketDetailURL(baseURL, simbaID)
	if err := ValidateURL(target); err != nil {
		return nil, err
	}

	sess, err := s.newSession(ctx, sessionOptions{headless: true})
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	if err := s.navigate(ctx, sess.page, target); err != nil {
		return nil, err
	}
	sleepWithContext(ctx, s.scrapeCfg.SettleDelay)

	state := s.challengePhase(ctx, sess, true)

	fields := extractFields(sess.page, TicketFieldSchema, time.Now)
	slog.Info("ticket page scraped",
		"ticket", simbaID,
		"challenge", state.String(),
		"duration", time.Since(start),
	)
	return &FieldsResult{
		Fields:    fields,
		SourceURL: target,
		Challenge: state,
		Duration:  time.Since(start),
	}, nil
}

// challengePhase runs detection and, when enabled, one resolution
// attempt. It never fails the scrape.
func (s *Scraper) challengePhase(ctx context.Context, sess *session, bypass bool) ChallengeState {
	if !detectChallenge(sess.page) {
		return ChallengeNone
	}
	if !bypass {
		slog.Info("challenge detected but bypass is disabled, continuing without resolution")
		return ChallengeSkipped
	}

	slog.Info("challenge detected, attempting resolution")
	resolver := NewResolver(s.scrapeCfg, s.humanizer)
	if resolver.Resolve(ctx, sess.page) {
		return ChallengeUnresolved
	}
	return ChallengeResolved
}
