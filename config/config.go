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
	Fetch     FetchConfig
	Analyzer  AnalyzerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// BrowserConfig controls the Rod browser instance.
type BrowserConfig struct {
	// Headless controls whether the browser runs headless.
	Headless bool // default: true

	// MaxPages is the page pool capacity (max concurrent tabs).
	MaxPages int // default: 10

	// NoSandbox disables Chrome's sandbox (needed in Docker).
	NoSandbox bool // default: false

	// Bin overrides the Chromium binary path.
	Bin string

	// Proxy is the proxy URL for browser traffic.
	Proxy string

	// Stealth enables anti-bot-detection evasions before navigation.
	Stealth bool // default: false

	// BlockedResourceTypes lists resource types to block during rendering.
	// Stylesheets are never blocked: the analyzer needs them. Blocking
	// anything switches the wait strategy from network idle to DOM stable
	// (the hijack router and the idle waiter share the Fetch domain).
	// default: none
	BlockedResourceTypes []string
}

// FetchConfig controls the document fetch strategy.
type FetchConfig struct {
	// Mode selects the default fetcher: "browser" (headless rendering,
	// sees script-injected stylesheets and trackers) or "http"
	// (lightweight fetch with stylesheet prefetch, no JS).
	Mode string // default: "browser"

	// HTTPTimeout is the deadline for the lightweight HTTP fetcher.
	HTTPTimeout time.Duration // default: 10s

	// Proxy is the proxy URL for the HTTP fetcher.
	Proxy string
}

// AnalyzerConfig controls per-stage deadlines of the analysis pipeline.
type AnalyzerConfig struct {
	// RenderTimeout is the default deadline for the render stage.
	RenderTimeout time.Duration // default: 30s

	// MaxRenderTimeout is the maximum render deadline a client may request.
	MaxRenderTimeout time.Duration // default: 120s

	// StylesheetTimeout bounds the whole stylesheet aggregation stage.
	StylesheetTimeout time.Duration // default: 15s

	// RobotsTimeout bounds the crawl-policy fetch.
	RobotsTimeout time.Duration // default: 5s
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: false

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("SITELENS_HOST", "0.0.0.0"),
			Port: envIntOr("SITELENS_PORT", 8080),
			Mode: envOr("SITELENS_MODE", "release"),
		},
		Browser: BrowserConfig{
			Headless:             envBoolOr("SITELENS_HEADLESS", true),
			MaxPages:             envIntOr("SITELENS_MAX_PAGES", 10),
			NoSandbox:            envBoolOr("SITELENS_NO_SANDBOX", false),
			Bin:                  os.Getenv("SITELENS_BROWSER_BIN"),
			Proxy:                os.Getenv("SITELENS_PROXY"),
			Stealth:              envBoolOr("SITELENS_STEALTH", false),
			BlockedResourceTypes: envSliceOr("SITELENS_BLOCKED_RESOURCES", nil),
		},
		Fetch: FetchConfig{
			Mode:        envFetchModeOr("SITELENS_FETCH_MODE", "browser"),
			HTTPTimeout: envDurationOr("SITELENS_HTTP_TIMEOUT", 10*time.Second),
			Proxy:       os.Getenv("SITELENS_PROXY"),
		},
		Analyzer: AnalyzerConfig{
			RenderTimeout:     envDurationOr("SITELENS_RENDER_TIMEOUT", 30*time.Second),
			MaxRenderTimeout:  envDurationOr("SITELENS_MAX_RENDER_TIMEOUT", 120*time.Second),
			StylesheetTimeout: envDurationOr("SITELENS_STYLESHEET_TIMEOUT", 15*time.Second),
			RobotsTimeout:     envDurationOr("SITELENS_ROBOTS_TIMEOUT", 5*time.Second),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("SITELENS_AUTH_ENABLED", false),
			APIKeys: envSliceOr("SITELENS_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("SITELENS_RATE_RPS", 5.0),
			Burst:             envIntOr("SITELENS_RATE_BURST", 10),
		},
		Log: LogConfig{
			Level:  envOr("SITELENS_LOG_LEVEL", "info"),
			Format: envOr("SITELENS_LOG_FORMAT", "json"),
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

// envFetchModeOr reads a fetch mode, falling back when the value names
// no known fetcher.
func envFetchModeOr(key, fallback string) string {
	switch os.Getenv(key) {
	case "browser":
		return "browser"
	case "http":
		return "http"
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
