package models

// RobotsUnavailable is the sentinel returned when the crawl-policy file
// cannot be retrieved for any reason.
const RobotsUnavailable = "Not Available"

// AnalyzeResponse is the response for POST /api/v1/analyze.
//
// Every field is populated independently; a recovered stage failure leaves
// its field empty (or at its sentinel) without affecting the others.
type AnalyzeResponse struct {
	// Title is the page title from the rendered document.
	Title string `json:"title"`

	// CMS is the detected content-management platform, "Unknown" when no
	// signature matched, empty when rendering failed entirely.
	CMS string `json:"cms"`

	// Trackers is the comma-separated list of detected tracking scripts.
	Trackers string `json:"trackers"`

	// RobotsTxt is the site's robots.txt content, or RobotsUnavailable.
	RobotsTxt string `json:"robotsTxt"`

	// MetaTags is the tracked subset of meta tags. Pointer fields so the
	// caller can distinguish an absent tag from one present but blank.
	MetaTags MetaTags `json:"metaTags"`

	// Headers is the tracked subset of response headers for the primary
	// document request.
	Headers Headers `json:"headers"`

	// CSS is the aggregated, reformatted stylesheet text.
	CSS string `json:"css"`

	// FinalURL is the document URL after following all redirects.
	FinalURL string `json:"finalUrl,omitempty"`

	// Timing provides duration breakdowns for the operation.
	Timing TimingInfo `json:"timing"`
}

// MetaTags holds the tracked meta tags extracted from the document head.
type MetaTags struct {
	Description *string `json:"description,omitempty"`
	Keywords    *string `json:"keywords,omitempty"`
	Author      *string `json:"author,omitempty"`
}

// Headers holds the tracked response headers of the primary request.
type Headers struct {
	ContentType  *string `json:"contentType,omitempty"`
	CacheControl *string `json:"cacheControl,omitempty"`
	Server       *string `json:"server,omitempty"`
}

// TimingInfo breaks down the time spent in each phase.
type TimingInfo struct {
	// TotalMs is the end-to-end duration in milliseconds.
	TotalMs int64 `json:"total_ms"`

	// RenderMs is the time spent fetching and rendering the page.
	RenderMs int64 `json:"render_ms"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "degraded"
	Uptime    string    `json:"uptime"`
	PoolStats PoolStats `json:"pool_stats"`
	Version   string    `json:"version"`
}

// PoolStats reports the state of the browser page pool.
type PoolStats struct {
	MaxPages    int `json:"max_pages"`
	ActivePages int `json:"active_pages"`
}
