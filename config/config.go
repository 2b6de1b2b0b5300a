package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Scrape    ScrapeConfig
	Stealth   StealthConfig
	Store     StoreConfig
	LLM       LLMConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Webhook   WebhookConfig
	Cache     CacheConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 5000
	Mode string // "debug", "release", "test"; default: "release"

	// BaseURL is the externally reachable address of this service, used to
	// build ticket detail-page URLs for the ticket scraper. When empty, the
	// scrape handler derives it from the incoming request.
	BaseURL string
}

// BrowserConfig controls browser process launch.
type BrowserConfig struct {
	// Headless is the default window mode. Strict targets always run
	// visible regardless of this setting.
	Headless bool // default: true

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: true

	// BrowserBin overrides the Chromium binary path.
	BrowserBin string

	// WindowWidth/WindowHeight set the viewport and window size.
	WindowWidth  int // default: 1920
	WindowHeight int // default: 1080
}

// ScrapeConfig controls the scrape pipeline's timing policy.
type ScrapeConfig struct {
	// NavigationTimeout bounds the initial page load, long enough to sit
	// through a challenge interstitial.
	NavigationTimeout time.Duration // default: 90s

	// SettleDelay runs unconditionally after navigation so late challenge
	// redirects can land.
	SettleDelay time.Duration // default: 5s

	// ChallengeGrace is the wait before probing challenge UI elements.
	ChallengeGrace time.Duration // default: 3s

	// InteractionPause follows each challenge-widget interaction so the
	// widget can react before the next step.
	InteractionPause time.Duration // default: 2s

	// ResolveNavTimeout caps the wait for a post-interaction navigation.
	ResolveNavTimeout time.Duration // default: 15s

	// ResolveSettle runs after the navigation race before re-detection.
	ResolveSettle time.Duration // default: 5s

	// UnresolvedExtraWait is the final grace period when the challenge is
	// still present after a resolution attempt.
	UnresolvedExtraWait time.Duration // default: 10s

	// StrictHosts lists host substrings that classify a target as strict
	// (forced-visible browser window).
	StrictHosts []string // default: ["bonfirehub.com", "cloudflare"]

	// PreflightProbe enables an HTTP probe of the target (Chrome TLS
	// fingerprint) that marks the site strict when the response advertises
	// a challenge-serving edge.
	PreflightProbe bool // default: false
}

// StealthConfig controls anti-detection behavior for browser sessions.
// It is passed explicitly into session creation; nothing is registered
// globally.
type StealthConfig struct {
	// Enabled injects the stealth patch script before navigation.
	Enabled bool // default: true

	// UserAgent is the navigator user agent presented to the page.
	UserAgent string

	// AcceptLanguage is sent with every request.
	AcceptLanguage string // default: "en-US,en;q=0.9"
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Backend is "memory" or "redis".
	Backend string // default: "memory"

	// RedisAddr is the host:port of the Redis server.
	RedisAddr string // default: "localhost:6379"

	// RedisDB is the Redis logical database number.
	RedisDB int // default: 0
}

// LLMConfig controls the summarization client.
type LLMConfig struct {
	// DefaultProvider is used when a request does not name one.
	DefaultProvider string // "openai" or "gemini"; default: "openai"

	// APIKey authenticates against the provider.
	APIKey string

	// BaseURL is the OpenAI-compatible endpoint root.
	BaseURL string // default: "https://api.openai.com/v1"

	// GeminiBaseURL is the OpenAI-compatible endpoint for the gemini provider.
	GeminiBaseURL string // default: "https://generativelanguage.googleapis.com/v1beta/openai"

	// Model / GeminiModel name the chat models per provider.
	Model       string // default: "gpt-4o-mini"
	GeminiModel string // default: "gemini-2.0-flash"

	// MaxInputChars truncates scraped text before prompting.
	MaxInputChars int // default: 15000
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication. The API is open by default.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-identity rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per identity.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per identity.
	Burst int // default: 10
}

// WebhookConfig controls the scrape-completed notification.
type WebhookConfig struct {
	// URL receives a signed event after each ticket scrape persists.
	// Empty disables delivery.
	URL string

	// Secret signs the event body with HMAC-SHA256.
	Secret string
}

// CacheConfig controls the scrape-url response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached analyses.
	MaxEntries int // default: 500
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// DefaultUserAgent is a realistic desktop Chrome user agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36"

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host:    envOr("SIMBADESK_HOST", "0.0.0.0"),
			Port:    envIntOr("SIMBADESK_PORT", 5000),
			Mode:    envOr("SIMBADESK_MODE", "release"),
			BaseURL: os.Getenv("SIMBADESK_BASE_URL"),
		},
		Browser: BrowserConfig{
			Headless:     envBoolOr("SIMBADESK_HEADLESS", true),
			NoSandbox:    envBoolOr("SIMBADESK_NO_SANDBOX", true),
			BrowserBin:   os.Getenv("SIMBADESK_BROWSER_BIN"),
			WindowWidth:  envIntOr("SIMBADESK_WINDOW_WIDTH", 1920),
			WindowHeight: envIntOr("SIMBADESK_WINDOW_HEIGHT", 1080),
		},
		Scrape: ScrapeConfig{
			NavigationTimeout:   envDurationOr("SIMBADESK_NAV_TIMEOUT", 90*time.Second),
			SettleDelay:         envDurationOr("SIMBADESK_SETTLE_DELAY", 5*time.Second),
			ChallengeGrace:      envDurationOr("SIMBADESK_CHALLENGE_GRACE", 3*time.Second),
			InteractionPause:    envDurationOr("SIMBADESK_INTERACTION_PAUSE", 2*time.Second),
			ResolveNavTimeout:   envDurationOr("SIMBADESK_RESOLVE_NAV_TIMEOUT", 15*time.Second),
			ResolveSettle:       envDurationOr("SIMBADESK_RESOLVE_SETTLE", 5*time.Second),
			UnresolvedExtraWait: envDurationOr("SIMBADESK_UNRESOLVED_WAIT", 10*time.Second),
			StrictHosts: envSliceOr("SIMBADESK_STRICT_HOSTS", []string{
				"bonfirehub.com", "cloudflare",
			}),
			PreflightProbe: envBoolOr("SIMBADESK_PREFLIGHT_PROBE", false),
		},
		Stealth: StealthConfig{
			Enabled:        envBoolOr("SIMBADESK_STEALTH", true),
			UserAgent:      envOr("SIMBADESK_USER_AGENT", DefaultUserAgent),
			AcceptLanguage: envOr("SIMBADESK_ACCEPT_LANGUAGE", "en-US,en;q=0.9"),
		},
		Store: StoreConfig{
			Backend:   envOr("SIMBADESK_STORE", "memory"),
			RedisAddr: envOr("SIMBADESK_REDIS_ADDR", "localhost:6379"),
			RedisDB:   envIntOr("SIMBADESK_REDIS_DB", 0),
		},
		LLM: LLMConfig{
			DefaultProvider: envOr("DEFAULT_AI_PROVIDER", "openai"),
			APIKey:          os.Getenv("SIMBADESK_LLM_API_KEY"),
			BaseURL:         envOr("SIMBADESK_LLM_BASE_URL", "https://api.openai.com/v1"),
			GeminiBaseURL:   envOr("SIMBADESK_GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/openai"),
			Model:           envOr("SIMBADESK_LLM_MODEL", "gpt-4o-mini"),
			GeminiModel:     envOr("SIMBADESK_GEMINI_MODEL", "gemini-2.0-flash"),
			MaxInputChars:   envIntOr("SIMBADESK_LLM_MAX_INPUT", 15000),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SIMBADESK_AUTH_ENABLED", false),
			APIKeys: envSliceOr("SIMBADESK_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SIMBADESK_RATE_RPS", 5.0),
			Burst:             envIntOr("SIMBADESK_RATE_BURST", 10),
		},
		Webhook: WebhookConfig{
			URL:    os.Getenv("SIMBADESK_WEBHOOK_URL"),
			Secret: os.Getenv("SIMBADESK_WEBHOOK_SECRET"),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("SIMBADESK_CACHE_MAX_ENTRIES", 500),
		},
		Log: LogConfig{
			Level:  envOr("SIMBADESK_LOG_LEVEL", "info"),
			Format: envOr("SIMBADESK_LOG_FORMAT", "json"),
		},
	}
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
