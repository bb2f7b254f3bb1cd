package renderer

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
	"github.com/sitelens/sitelens/config"
	"github.com/sitelens/sitelens/models"
	"github.com/ysmood/gson"
)

// BrowserFetcher renders pages in a shared headless browser with a reusable
// page pool. It is safe for concurrent use.
type BrowserFetcher struct {
	browser     *rod.Browser
	pagePool    rod.Pool[rod.Page]
	cfg         config.BrowserConfig
	activePages atomic.Int32
}

// NewBrowserFetcher launches the headless browser and initialises the page
// pool. The returned fetcher owns the browser process; Close must be called
// on shutdown to avoid leaving it behind.
func NewBrowserFetcher(cfg config.BrowserConfig) (*BrowserFetcher, error) {
	l := launcher.New().
		Headless(cfg.Headless).
		NoSandbox(cfg.NoSandbox)

	if cfg.Bin != "" {
		l = l.Bin(cfg.Bin)
	}
	if cfg.Proxy != "" {
		l = l.Proxy(cfg.Proxy)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, models.NewAnalysisError(
			models.ErrCodeBrowserCrash,
			"failed to launch browser",
			err,
		)
	}
	slog.Info("browser launched", "controlURL", controlURL)

	browser := rod.New().ControlURL(controlURL)
	if err := browser.Connect(); err != nil {
		return nil, models.NewAnalysisError(
			models.ErrCodeBrowserCrash,
			"failed to connect to browser",
			err,
		)
	}

	pool := rod.NewPagePool(cfg.MaxPages)
	slog.Info("page pool created", "maxPages", cfg.MaxPages)

	return &BrowserFetcher{
		browser:  browser,
		pagePool: pool,
		cfg:      cfg,
	}, nil
}

func (f *BrowserFetcher) Name() string { return "browser" }

// Stats returns a snapshot of the pool's current state.
func (f *BrowserFetcher) Stats() models.PoolStats {
	return models.PoolStats{
		MaxPages:    f.cfg.MaxPages,
		ActivePages: int(f.activePages.Load()),
	}
}

// Close drains the page pool and kills the browser process.
// Call this on graceful shutdown to prevent zombie Chrome processes.
func (f *BrowserFetcher) Close() {
	slog.Info("browser fetcher shutting down: draining page pool")
	f.pagePool.Cleanup(func(p *rod.Page) {
		_ = p.Close()
	})
	f.browser.MustClose()
	slog.Info("browser fetcher shutdown complete")
}

// Fetch renders one page and snapshots its DOM.
//
// Lifecycle:
//
//  1. Acquire page          – borrow a tab from the pool (or create one)
//  2. DEFER: cleanup        – about:blank + return to pool; this runs on
//     every exit path (success, error, timeout, panic) so a failed render
//     can never strand a tab
//  3. Stealth injection     – optional, before navigation
//  4. Hijack mount          – optional resource blocking, before navigation
//  5. Header capture        – Network listener registered before Navigate so
//     the primary response is never missed; skipped when the hijack router
//     is mounted (see step 8)
//  6. Idle waiter setup     – also before Navigate, for the same reason
//  7. Navigate              – triggers page load
//  8. Wait                  – network request idle, or DOM stable when the
//     hijack router is mounted (it occupies the Fetch domain the idle
//     waiter needs)
//  9. Snapshot              – rendered HTML, final URL, captured headers
func (f *BrowserFetcher) Fetch(ctx context.Context, url string) (*Document, error) {
	f.activePages.Add(1)
	defer f.activePages.Add(-1)

	page, acquireErr := f.pagePool.Get(func() (*rod.Page, error) {
		return f.browser.Page(proto.TargetCreateTarget{})
	})
	if acquireErr != nil {
		return nil, models.NewAnalysisError(
			models.ErrCodeBrowserCrash,
			"failed to acquire page from pool",
			acquireErr,
		)
	}

	// Cleanup uses the ORIGINAL page reference (without request context),
	// so the tab is reset and returned even if the context has expired.
	defer func() {
		if navErr := page.Navigate("about:blank"); navErr != nil {
			slog.Warn("cleanup: failed to navigate to about:blank", "error", navErr)
		}
		f.pagePool.Put(page)
	}()

	if f.cfg.Stealth {
		if _, evalErr := page.EvalOnNewDocument(stealth.JS); evalErr != nil {
			slog.Warn("stealth injection failed, proceeding without stealth", "error", evalErr)
		}
	}

	_ = proto.NetworkSetExtraHTTPHeaders{
		Headers: proto.NetworkHeaders{
			"Accept-Language": gson.New("en-US,en;q=0.9"),
		},
	}.Call(page)

	router := setupHijack(page, f.cfg.BlockedResourceTypes)
	if router != nil {
		defer func() { _ = router.Stop() }()
	}

	p := page.Context(ctx)

	// The hijack router occupies the CDP Fetch domain, which on Chromium
	// 145+ conflicts with Network-domain listeners and with the idle
	// waiter. With the router mounted, both are skipped: the wait falls
	// back to DOM-stable and only the headers field degrades.
	var capture *headerCapture
	var waitIdle func()
	if router == nil {
		capture = captureHeaders(p, url)
		waitIdle = p.WaitRequestIdle(500*time.Millisecond, nil, nil, nil)
	}

	if navErr := p.Navigate(url); navErr != nil {
		return nil, categorizeError(navErr, "navigation to target URL failed")
	}

	if waitIdle != nil {
		waitIdle()
	} else {
		if stableErr := p.WaitDOMStable(300*time.Millisecond, 0.1); stableErr != nil {
			slog.Debug("WaitDOMStable did not converge, proceeding with current DOM",
				"error", stableErr)
		}
	}

	rawHTML, htmlErr := p.HTML()
	if htmlErr != nil {
		return nil, categorizeError(htmlErr, "failed to extract page HTML")
	}

	finalURL := evalStringOrEmpty(p, `() => window.location.href`)
	if finalURL == "" {
		finalURL = url
	}

	return &Document{
		HTML:     rawHTML,
		Headers:  capture.Headers(),
		FinalURL: finalURL,
	}, nil
}

// headerCapture collects the response headers of the primary document
// request, correlated by URL so redirect targets and sub-resources are
// ignored regardless of response arrival order.
type headerCapture struct {
	mu      sync.Mutex
	headers http.Header
}

// captureHeaders registers a Network listener on the page. It must run
// before Navigate; a listener installed afterwards can miss the primary
// response entirely. The listener goroutine exits on the first match or
// when the page context is done.
func captureHeaders(p *rod.Page, targetURL string) *headerCapture {
	c := &headerCapture{}
	go p.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Response == nil || !matchesNavigation(e.Response.URL, targetURL) {
			return false
		}
		c.mu.Lock()
		c.headers = headersFromProto(e.Response.Headers)
		c.mu.Unlock()
		return true
	})()
	return c
}

// Headers returns the captured headers, or nil when capture was disabled
// or the primary response was never observed (e.g. navigation failed
// before any response).
func (c *headerCapture) Headers() http.Header {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.headers
}

// matchesNavigation reports whether a response URL reported over CDP refers
// to the requested navigation target. Chrome canonicalizes URLs before
// reporting them, most visibly giving bare-origin requests a "/" path, so
// plain string equality would miss the primary response for inputs like
// "https://example.com".
func matchesNavigation(responseURL, targetURL string) bool {
	if responseURL == targetURL {
		return true
	}
	return canonicalURL(responseURL) == canonicalURL(targetURL)
}

func canonicalURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if u.Path == "" {
		u.Path = "/"
	}
	return u.String()
}

// headersFromProto converts CDP headers (map[string]gson.JSON) to the
// net/http representation used by the rest of the pipeline.
func headersFromProto(h proto.NetworkHeaders) http.Header {
	out := make(http.Header, len(h))
	for k, v := range h {
		out.Set(k, v.Str())
	}
	return out
}

// evalStringOrEmpty evaluates a JS expression and returns the string result,
// swallowing any errors (useful for optional metadata extraction).
func evalStringOrEmpty(page *rod.Page, js string) string {
	res, err := page.Eval(js)
	if err != nil {
		return ""
	}
	return res.Value.Str()
}

// categorizeError wraps raw errors into typed AnalysisErrors so the
// analyzer can decide between degrading the result and failing the request.
func categorizeError(err error, msg string) *models.AnalysisError {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return models.NewAnalysisError(models.ErrCodeTimeout, msg, err)
	case errors.Is(err, context.Canceled):
		return models.NewAnalysisError(models.ErrCodeTimeout, "request canceled", err)
	default:
		return models.NewAnalysisError(models.ErrCodeNavigation, msg, err)
	}
}
