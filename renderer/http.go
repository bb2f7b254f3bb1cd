package renderer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	tls "github.com/refraction-networking/utls"
	"github.com/sitelens/sitelens/config"
	"github.com/sitelens/sitelens/models"
	"golang.org/x/net/html"
)

const chromeUA = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// maxBodyBytes caps response bodies read by the HTTP fetcher.
const maxBodyBytes = 10 << 20

// chromeH1Spec is a Chrome-like TLS ClientHello with ALPN forced to http/1.1
// only. Computed once at init time and reused for every connection.
var chromeH1Spec tls.ClientHelloSpec

func init() {
	spec, err := tls.UTLSIdToSpec(tls.HelloChrome_Auto)
	if err != nil {
		// Fallback: if spec generation fails, HelloCustom connections will
		// error and the fetcher degrades. Should never happen with a valid
		// utls version.
		return
	}
	// Replace h2 with http/1.1 only in the ALPN extension so the server
	// never negotiates HTTP/2 (which Go's http.Transport cannot handle
	// over a utls connection).
	for i, ext := range spec.Extensions {
		if alpn, ok := ext.(*tls.ALPNExtension); ok {
			alpn.AlpnProtocols = []string{"http/1.1"}
			spec.Extensions[i] = alpn
			break
		}
	}
	chromeH1Spec = spec
}

// HTTPFetcher is the lightweight strategy: one plain HTTP request with a
// Chrome TLS fingerprint, no JavaScript execution. It prefetches the page's
// stylesheets itself so the analyzer receives CSS directly instead of
// resolving rendered link elements.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with a Chrome-like TLS fingerprint.
func NewHTTPFetcher(cfg config.FetchConfig) *HTTPFetcher {
	transport := &http.Transport{
		DialTLSContext: func(ctx context.Context, network, addr string) (net.Conn, error) {
			dialer := &net.Dialer{Timeout: 10 * time.Second}
			conn, err := dialer.DialContext(ctx, network, addr)
			if err != nil {
				return nil, err
			}
			host, _, _ := net.SplitHostPort(addr)
			tlsConn := tls.UClient(conn, &tls.Config{ServerName: host}, tls.HelloCustom)
			if err := tlsConn.ApplyPreset(&chromeH1Spec); err != nil {
				conn.Close()
				return nil, fmt.Errorf("httpfetch: apply tls spec: %w", err)
			}
			if err := tlsConn.HandshakeContext(ctx); err != nil {
				conn.Close()
				return nil, err
			}
			return tlsConn, nil
		},
		ForceAttemptHTTP2: false,
	}
	if cfg.Proxy != "" {
		if proxyURL, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
	return &HTTPFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   cfg.HTTPTimeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

func (f *HTTPFetcher) Close() {
	f.client.CloseIdleConnections()
}

func (f *HTTPFetcher) Fetch(ctx context.Context, targetURL string) (*Document, error) {
	body, resp, err := f.get(ctx, targetURL)
	if err != nil {
		return nil, categorizeError(err, "http fetch failed")
	}

	ct := resp.Header.Get("Content-Type")
	if resp.StatusCode >= 400 || !isHTMLContentType(ct) {
		return nil, models.NewAnalysisError(
			models.ErrCodeNavigation,
			fmt.Sprintf("non-html or error status %d (content-type: %s)", resp.StatusCode, ct),
			nil,
		)
	}

	finalURL := resp.Request.URL.String()

	return &Document{
		HTML:          string(body),
		Headers:       resp.Header,
		FinalURL:      finalURL,
		PrefetchedCSS: f.prefetchStylesheets(ctx, finalURL, body),
	}, nil
}

// get performs one GET with browser-like headers and a capped body read.
func (f *HTTPFetcher) get(ctx context.Context, targetURL string) ([]byte, *http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("httpfetch: build request: %w", err)
	}
	req.Header.Set("User-Agent", chromeUA)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,text/css,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Accept-Encoding", "identity") // no compression for simplicity

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("httpfetch: do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, nil, fmt.Errorf("httpfetch: read body: %w", err)
	}
	return body, resp, nil
}

// prefetchStylesheets scans the raw markup for stylesheet links, fetches
// each with the same Chrome-fingerprinted client, and concatenates the
// bodies in document order. Individual failures are skipped; the worst case
// is an empty string, never an error.
func (f *HTTPFetcher) prefetchStylesheets(ctx context.Context, baseURL string, body []byte) string {
	refs := stylesheetRefs(body)
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
			continue
		}
		css, cssResp, err := f.get(ctx, resolved.String())
		if err != nil || cssResp.StatusCode >= 400 {
			slog.Debug("stylesheet prefetch failed, skipping",
				"url", resolved.String(), "error", err)
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte('\n')
		}
		sb.Write(css)
	}
	return sb.String()
}

// stylesheetRefs extracts <link rel="stylesheet"> href values in document
// order using the streaming tokenizer; a full DOM parse is not needed here
// and the tokenizer tolerates arbitrarily broken markup.
func stylesheetRefs(body []byte) []string {
	var refs []string
	tokenizer := html.NewTokenizer(strings.NewReader(string(body)))
	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			return refs
		}
		if tt != html.StartTagToken && tt != html.SelfClosingTagToken {
			continue
		}
		name, hasAttr := tokenizer.TagName()
		if string(name) != "link" || !hasAttr {
			continue
		}
		var rel, href string
		for {
			key, val, more := tokenizer.TagAttr()
			switch string(key) {
			case "rel":
				rel = string(val)
			case "href":
				href = string(val)
			}
			if !more {
				break
			}
		}
		if strings.EqualFold(rel, "stylesheet") && href != "" {
			refs = append(refs, href)
		}
	}
}

// isHTMLContentType returns true if the content-type header looks like HTML.
func isHTMLContentType(ct string) bool {
	ct = strings.ToLower(ct)
	return strings.Contains(ct, "text/html") || strings.Contains(ct, "application/xhtml+xml")
}
