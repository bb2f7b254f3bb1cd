// Package renderer provides the document fetch strategies behind the
// analysis pipeline: a full headless-browser renderer and a lightweight
// HTTP fetcher with stylesheet prefetch. Both produce the same Document
// shape so the analyzer is agnostic to the strategy in use.
package renderer

import (
	"context"
	"net/http"
)

// Document is one fetched page, discarded after signal extraction.
type Document struct {
	// HTML is the raw markup. For the browser fetcher this is the
	// rendered DOM, including script-injected elements.
	HTML string

	// Headers are the response headers of the primary document request
	// only, never of redirects or sub-resources.
	Headers http.Header

	// FinalURL is the document URL after following all redirects.
	FinalURL string

	// PrefetchedCSS carries stylesheet contents fetched as part of the
	// document fetch itself. Only the HTTP fetcher fills it; when set,
	// the analyzer skips link resolution and uses it as-is.
	PrefetchedCSS string
}

// Fetcher retrieves one document for an already-normalized URL.
type Fetcher interface {
	// Fetch retrieves the document. The context carries the stage
	// deadline; implementations must honor cancellation.
	Fetch(ctx context.Context, url string) (*Document, error)

	// Name identifies the strategy in logs and config ("browser", "http").
	Name() string

	// Close releases any resources held by the fetcher.
	Close()
}
