package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != 5000 {
		t.Errorf("expected default port 5000, got %d", cfg.Server.Port)
	}
	if !cfg.Browser.Headless {
		t.Error("expected headless default true")
	}
	if cfg.Scrape.NavigationTimeout != 90*time.Second {
		t.Errorf("expected 90s navigation timeout, got %v", cfg.Scrape.NavigationTimeout)
	}
	if len(cfg.Scrape.StrictHosts) != 2 {
		t.Errorf("expected 2 default strict hosts, got %v", cfg.Scrape.StrictHosts)
	}
	if cfg.Scrape.InteractionPause != 2*time.Second {
		t.Errorf("expected 2s interaction pause, got %v", cfg.Scrape.InteractionPause)
	}
	if !cfg.Stealth.Enabled {
		t.Error("expected stealth enabled by default")
	}
	if cfg.Store.Backend != "memory" {
		t.Errorf("expected memory store default, got %q", cfg.Store.Backend)
	}
	if cfg.Auth.Enabled {
		t.Error("expected auth disabled by default")
	}
	if cfg.LLM.MaxInputChars != 15000 {
		t.Errorf("expected 15000 max input chars, got %d", cfg.LLM.MaxInputChars)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SIMBADESK_PORT", "8080")
	t.Setenv("SIMBADESK_HEADLESS", "false")
	t.Setenv("SIMBADESK_NAV_TIMEOUT", "30s")
	t.Setenv("SIMBADESK_STRICT_HOSTS", "example.com, internal.test ,")
	t.Setenv("SIMBADESK_RATE_RPS", "2.5")

	cfg := Load()

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Browser.Headless {
		t.Error("expected headless false")
	}
	if cfg.Scrape.NavigationTimeout != 30*time.Second {
		t.Errorf("expected 30s, got %v", cfg.Scrape.NavigationTimeout)
	}
	want := []string{"example.com", "internal.test"}
	if len(cfg.Scrape.StrictHosts) != len(want) {
		t.Fatalf("expected %v, got %v", want, cfg.Scrape.StrictHosts)
	}
	for i, h := range want {
		if cfg.Scrape.StrictHosts[i] != h {
			t.Errorf("strict host %d: expected %q, got %q", i, h, cfg.Scrape.StrictHosts[i])
		}
	}
	if cfg.RateLimit.RequestsPerSecond != 2.5 {
		t.Errorf("expected 2.5 rps, got %v", cfg.RateLimit.RequestsPerSecond)
	}
}

func TestInvalidEnvFallsBack(t *testing.T) {
	t.Setenv("SIMBADESK_PORT", "not-a-number")
	t.Setenv("SIMBADESK_NAV_TIMEOUT", "bogus")

	cfg := Load()

	if cfg.Server.Port != 5000 {
		t.Errorf("expected fallback port 5000, got %d", cfg.Server.Port)
	}
	if cfg.Scrape.NavigationTimeout != 90*time.Second {
		t.Errorf("expected fallback 90s, got %v", cfg.Scrape.NavigationTimeout)
	}
}
