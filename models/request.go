package models

// AnalyzeRequest is the payload for POST /api/v1/analyze.
type AnalyzeRequest struct {
	// URL is the target page to analyze. Required. Validation beyond
	// presence is the normalizer's job so the API can answer with the
	// "unacceptable" contract instead of a generic binding error.
	URL string `json:"url" binding:"required"`

	// Timeout is the maximum duration in seconds for the render stage.
	// Default: 30. Max: 120.
	Timeout int `json:"timeout,omitempty" binding:"omitempty,min=1,max=120"`

	// FetchMode overrides the configured fetch strategy for this request.
	// "browser": full headless rendering (sees script-injected markup).
	// "http": lightweight fetch with stylesheet prefetch, no JS execution.
	FetchMode string `json:"fetch_mode,omitempty" binding:"omitempty,oneof=browser http"`
}

// Defaults applies default values to unset fields.
func (r *AnalyzeRequest) Defaults() {
	if r.Timeout == 0 {
		r.Timeout = 30
	}
}
