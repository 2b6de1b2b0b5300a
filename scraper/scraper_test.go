package scraper

import (
	"testing"

	"github.com/simba-tools/simbadesk/config"
)

func TestSessionCloseIsIdempotent(t *testing.T) {
	var closes int
	sess := &session{cleanup: func() { closes++ }}

	sess.Close()
	sess.Close()
	sess.Close()

	if closes != 1 {
		t.Errorf("expected cleanup to run exactly once, ran %d times", closes)
	}
}

func TestSessionCloseWithoutCleanup(t *testing.T) {
	sess := &session{}
	sess.Close() // must not panic
}

func TestWindowSize(t *testing.T) {
	tests := []struct {
		cfg  config.BrowserConfig
		want string
	}{
		{config.BrowserConfig{WindowWidth: 1920, WindowHeight: 1080}, "1920,1080"},
		{config.BrowserConfig{WindowWidth: 1366, WindowHeight: 768}, "1366,768"},
		{config.BrowserConfig{}, "1920,1080"},
		{config.BrowserConfig{WindowWidth: -1, WindowHeight: 0}, "1920,1080"},
	}
	for _, tt := range tests {
		if got := windowSize(tt.cfg); got != tt.want {
			t.Errorf("windowSize(%+v) = %q, want %q", tt.cfg, got, tt.want)
		}
	}
}

func TestEffectiveHeadless(t *testing.T) {
	tests := []struct {
		name string
		opts sessionOptions
		want bool
	}{
		{"plain headless", sessionOptions{headless: true}, true},
		{"plain visible", sessionOptions{headless: false}, false},
		{"strict overrides headless", sessionOptions{headless: true, strict: true}, false},
		{"strict visible stays visible", sessionOptions{headless: false, strict: true}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := effectiveHeadless(tt.opts); got != tt.want {
				t.Errorf("effectiveHeadless(%+v) = %v, want %v", tt.opts, got, tt.want)
			}
		})
	}
}

func TestScrapeOptionsDefaults(t *testing.T) {
	var opts Options
	if !opts.headless(true) {
		t.Error("nil Headless should fall back to configured default")
	}
	if opts.headless(false) {
		t.Error("nil Headless should fall back to configured default")
	}
	if !opts.bypass() {
		t.Error("nil BypassChallenge should default to enabled")
	}

	off := false
	opts.BypassChallenge = &off
	if opts.bypass() {
		t.Error("explicit false should disable bypass")
	}

	visible := false
	opts.Headless = &visible
	if opts.headless(true) {
		t.Error("explicit Headless=false must win over the default")
	}
}

func TestNewScraperWiresStrictHosts(t *testing.T) {
	s := NewScraper(
		config.BrowserConfig{Headless: true},
		config.ScrapeConfig{StrictHosts: []string{"bonfirehub.com", "cloudflare"}},
		config.StealthConfig{Enabled: true},
	)
	if !s.classifier.IsStrict("https://www.bonfirehub.com/x") {
		t.Error("strict host from config not honored")
	}
	if s.preflight != nil {
		t.Error("preflight probe should be nil unless enabled")
	}

	s = NewScraper(
		config.BrowserConfig{},
		config.ScrapeConfig{PreflightProbe: true},
		config.StealthConfig{UserAgent: config.DefaultUserAgent},
	)
	if s.preflight == nil {
		t.Error("preflight probe should be constructed when enabled")
	}
}
