package renderer

import "testing"

func TestMatchesNavigation(t *testing.T) {
	tests := []struct {
		name     string
		response string
		target   string
		want     bool
	}{
		{
			name:     "exact match",
			response: "https://example.com/page",
			target:   "https://example.com/page",
			want:     true,
		},
		{
			name:     "bare origin gains slash in report",
			response: "https://example.com/",
			target:   "https://example.com",
			want:     true,
		},
		{
			name:     "bare origin both sides",
			response: "https://example.com",
			target:   "https://example.com",
			want:     true,
		},
		{
			name:     "query survives canonicalization",
			response: "https://example.com/?q=1",
			target:   "https://example.com?q=1",
			want:     true,
		},
		{
			name:     "different path is not the navigation",
			response: "https://example.com/style.css",
			target:   "https://example.com/",
			want:     false,
		},
		{
			name:     "different host",
			response: "https://cdn.example.com/",
			target:   "https://example.com/",
			want:     false,
		},
		{
			name:     "redirect target is not the original request",
			response: "https://example.com/home",
			target:   "https://example.com",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesNavigation(tt.response, tt.target); got != tt.want {
				t.Errorf("matchesNavigation(%q, %q) = %v, want %v", tt.response, tt.target, got, tt.want)
			}
		})
	}
}

func TestHeaderCapture_NilWhenDisabled(t *testing.T) {
	// When resource blocking mounts the hijack router, header capture is
	// skipped entirely and the document carries no headers.
	var c *headerCapture
	if got := c.Headers(); got != nil {
		t.Errorf("Headers() on disabled capture = %v, want nil", got)
	}
}
