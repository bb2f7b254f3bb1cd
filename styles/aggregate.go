// Package styles aggregates a page's stylesheets and reformats the result
// into a stable, readable representation.
package styles

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// maxStylesheetBytes caps each individual stylesheet body.
const maxStylesheetBytes = 5 << 20

// Aggregator fetches stylesheet references and concatenates their bodies.
type Aggregator struct {
	client *http.Client
}

// NewAggregator creates an Aggregator. Deadlines come from the caller's
// context, one per aggregation stage.
func NewAggregator() *Aggregator {
	return &Aggregator{client: &http.Client{}}
}

// Aggregate resolves each reference against baseURL, fetches it, and
// concatenates the bodies in reference order. A failing fetch drops only
// that stylesheet's contribution; it never aborts the remaining ones.
// Repeated references are refetched and reconcatenated — no deduplication.
func (a *Aggregator) Aggregate(ctx context.Context, baseURL string, refs []string) string {
	if len(refs) == 0 {
		return ""
	}
	base, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}

	var sb strings.Builder
	for _, ref := range refs {
		resolved, err := base.Parse(ref)
		if err != nil {
			slog.Debug("unresolvable stylesheet reference, skipping",
				"base", baseURL, "ref", ref, "error", err)
			continue
		}
		body, err := a.fetch(ctx, resolved.String())
		if err != nil {
			slog.Debug("stylesheet fetch failed, skipping",
				"url", resolved.String(), "error", err)
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(body)
	}
	return sb.String()
}

// AggregateRaw passes already-fetched CSS through the same output contract,
// for fetch strategies that prefetch stylesheet content themselves.
func (a *Aggregator) AggregateRaw(css string) string {
	return css
}

func (a *Aggregator) fetch(ctx context.Context, target string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "text/css,*/*;q=0.1")

	resp, err := a.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxStylesheetBytes))
	if err != nil {
		return "", err
	}
	return string(body), nil
}
