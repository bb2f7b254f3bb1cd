// Package analyzer orchestrates the site analysis pipeline: validate the
// URL, fetch the rendered document, extract structural signals, then run
// classification, stylesheet aggregation, and the crawl-policy fetch
// concurrently and merge the results field by field.
package analyzer

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sitelens/sitelens/config"
	"github.com/sitelens/sitelens/models"
	"github.com/sitelens/sitelens/renderer"
	"github.com/sitelens/sitelens/robots"
	"github.com/sitelens/sitelens/signature"
	"github.com/sitelens/sitelens/styles"
	"golang.org/x/sync/errgroup"
)

// Service runs one analysis per call. It holds no per-request state and is
// safe for concurrent use.
type Service struct {
	cfg         config.AnalyzerConfig
	fetchers    map[string]renderer.Fetcher
	defaultMode string
	styles      *styles.Aggregator
	robots      *robots.Client
}

// NewService wires the pipeline. defaultMode selects which fetcher serves
// requests that do not override fetch_mode; when it names none of the
// registered fetchers, the first fetcher becomes the default so a
// misconfigured mode cannot leave the service without one.
func NewService(cfg config.AnalyzerConfig, defaultMode string, fetchers []renderer.Fetcher, agg *styles.Aggregator, rc *robots.Client) *Service {
	byName := make(map[string]renderer.Fetcher, len(fetchers))
	for _, f := range fetchers {
		byName[f.Name()] = f
	}
	if _, ok := byName[defaultMode]; !ok && len(fetchers) > 0 {
		slog.Warn("unknown default fetch mode, using first registered fetcher",
			"mode", defaultMode, "fallback", fetchers[0].Name())
		defaultMode = fetchers[0].Name()
	}
	return &Service{
		cfg:         cfg,
		fetchers:    byName,
		defaultMode: defaultMode,
		styles:      agg,
		robots:      rc,
	}
}

// Analyze runs the full pipeline for one request.
//
// Error policy: only two classes reach the caller — INVALID_INPUT for a
// rejected URL and BROWSER_CRASH when the rendering subsystem itself is
// broken. Every other stage failure degrades its own fields and the request
// still returns a partial result; in particular a failed render does not
// skip the crawl-policy fetch, which is independent of rendering.
func (s *Service) Analyze(ctx context.Context, req *models.AnalyzeRequest) (*models.AnalyzeResponse, error) {
	totalStart := time.Now()

	normalized, err := Normalize(req.URL)
	if err != nil {
		return nil, err
	}

	fetcher := s.fetcher(req.FetchMode)

	timeout := time.Duration(req.Timeout) * time.Second
	if timeout <= 0 {
		timeout = s.cfg.RenderTimeout
	}
	if timeout > s.cfg.MaxRenderTimeout {
		timeout = s.cfg.MaxRenderTimeout
	}

	renderStart := time.Now()
	renderCtx, renderCancel := context.WithTimeout(ctx, timeout)
	doc, renderErr := fetcher.Fetch(renderCtx, normalized)
	renderCancel()
	renderMs := time.Since(renderStart).Milliseconds()

	resp := &models.AnalyzeResponse{RobotsTxt: models.RobotsUnavailable}

	if renderErr != nil {
		var ae *models.AnalysisError
		if errors.As(renderErr, &ae) && ae.Code == models.ErrCodeBrowserCrash {
			return nil, ae
		}
		slog.Warn("render failed, returning partial result",
			"url", normalized, "fetcher", fetcher.Name(), "error", renderErr)
		resp.RobotsTxt = s.fetchRobots(ctx, normalized)
		resp.Timing = models.TimingInfo{
			TotalMs:  time.Since(totalStart).Milliseconds(),
			RenderMs: renderMs,
		}
		return resp, nil
	}

	signals := Extract(doc.HTML)
	resp.Title = signals.Title
	resp.MetaTags = signals.MetaTags()
	resp.Headers = HeaderSubset(doc.Headers)
	resp.FinalURL = doc.FinalURL

	// The three remaining stages have no data dependency on each other.
	// Each carries its own deadline and degrades to its zero value alone:
	// the goroutines always return nil so no stage can cancel a sibling.
	var g errgroup.Group

	g.Go(func() error {
		result := signature.Classify(doc.HTML)
		resp.CMS = result.Platform
		resp.Trackers = result.TrackerList()
		return nil
	})

	g.Go(func() error {
		var raw string
		if doc.PrefetchedCSS != "" {
			raw = s.styles.AggregateRaw(doc.PrefetchedCSS)
		} else {
			cssCtx, cancel := context.WithTimeout(ctx, s.cfg.StylesheetTimeout)
			defer cancel()
			raw = s.styles.Aggregate(cssCtx, doc.FinalURL, signals.Stylesheets)
		}
		resp.CSS = styles.Format(raw)
		return nil
	})

	g.Go(func() error {
		resp.RobotsTxt = s.fetchRobots(ctx, doc.FinalURL)
		return nil
	})

	_ = g.Wait()

	resp.Timing = models.TimingInfo{
		TotalMs:  time.Since(totalStart).Milliseconds(),
		RenderMs: renderMs,
	}
	return resp, nil
}

func (s *Service) fetchRobots(ctx context.Context, pageURL string) string {
	rctx, cancel := context.WithTimeout(ctx, s.cfg.RobotsTimeout)
	defer cancel()
	return s.robots.Fetch(rctx, pageURL)
}

// fetcher resolves the per-request fetch mode, falling back to the default
// when the mode is unset or not configured.
func (s *Service) fetcher(mode string) renderer.Fetcher {
	if mode != "" {
		if f, ok := s.fetchers[mode]; ok {
			return f
		}
	}
	return s.fetchers[s.defaultMode]
}
