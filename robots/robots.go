// Package robots retrieves a site's crawl-policy file.
package robots

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/sitelens/sitelens/models"
)

// maxPolicyBytes caps the robots.txt body; real policy files are tiny.
const maxPolicyBytes = 512 << 10

// Client fetches robots.txt under a page's origin.
type Client struct {
	http *http.Client
}

// NewClient creates a Client. The per-fetch deadline comes from the
// caller's context.
func NewClient() *Client {
	return &Client{http: &http.Client{}}
}

// Fetch retrieves <origin>/robots.txt for the given page URL. It is
// strictly best-effort: on any failure — bad URL, network error, non-2xx
// status, unreadable body — it returns models.RobotsUnavailable and never
// an error.
func (c *Client) Fetch(ctx context.Context, pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil || u.Host == "" {
		return models.RobotsUnavailable
	}
	target := u.Scheme + "://" + u.Host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return models.RobotsUnavailable
	}
	req.Header.Set("Accept", "text/plain,*/*;q=0.5")

	resp, err := c.http.Do(req)
	if err != nil {
		slog.Debug("robots.txt fetch failed", "url", target, "error", err)
		return models.RobotsUnavailable
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return models.RobotsUnavailable
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPolicyBytes))
	if err != nil {
		return models.RobotsUnavailable
	}
	// An empty body on a 2xx is a valid (allow-everything) policy, not a
	// failure; the sentinel is reserved for fetches that did not succeed.
	return string(body)
}
