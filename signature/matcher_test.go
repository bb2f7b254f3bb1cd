package signature

import (
	"reflect"
	"testing"
)

func TestClassify_Platforms(t *testing.T) {
	tests := []struct {
		name string
		html string
		want string
	}{
		{"wordpress", `<link href="/wp-content/themes/x/style.css">`, "WordPress"},
		{"joomla", `<script src="/media/com_finder/js/finder.js"></script>`, "Joomla"},
		{"drupal", `<script src="/misc/drupal.js"></script>`, "Drupal"},
		{"drupal minified", `<script src="/misc/drupal.min.js"></script>`, "Drupal"},
		{"magento skin", `<img src="/skin/frontend/default/logo.png">`, "Magento"},
		{"magento mage", `<script src="/js/mage/cookies.js"></script>`, "Magento"},
		{"shopify", `<script src="https://cdn.shopify.com/s/files/1/app.js"></script>`, "Shopify"},
		{"no match", `<html><body>plain page</body></html>`, UnknownPlatform},
		{"empty", "", UnknownPlatform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.html)
			if got.Platform != tt.want {
				t.Errorf("Classify(%q).Platform = %q, want %q", tt.html, got.Platform, tt.want)
			}
		})
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	// WordPress precedes Shopify in the catalog, so a page containing both
	// fragments classifies as WordPress.
	html := `<link href="/wp-content/style.css"><script src="https://cdn.shopify.com/x.js"></script>`
	got := Classify(html)
	if got.Platform != "WordPress" {
		t.Errorf("Platform = %q, want WordPress (first match in catalog order)", got.Platform)
	}
}

func TestClassify_Trackers(t *testing.T) {
	html := `
		<script src="https://www.google-analytics.com/analytics.js"></script>
		<script src="https://static.hotjar.com/c/hotjar.com.js"></script>
		<script>window.hotjar.com</script>`
	got := Classify(html)
	want := []string{"Google Analytics", "Hotjar"}
	if !reflect.DeepEqual(got.Trackers, want) {
		t.Errorf("Trackers = %v, want %v", got.Trackers, want)
	}
}

func TestClassify_TrackerDedup(t *testing.T) {
	// google-analytics.com and gtag( both map to Google Analytics; the label
	// must appear once even when both patterns match repeatedly.
	html := `
		<script src="https://www.google-analytics.com/analytics.js"></script>
		<script>gtag('config', 'G-1'); gtag('event', 'view');</script>
		<script src="https://www.google-analytics.com/ga.js"></script>`
	got := Classify(html)
	want := []string{"Google Analytics"}
	if !reflect.DeepEqual(got.Trackers, want) {
		t.Errorf("Trackers = %v, want %v", got.Trackers, want)
	}
}

func TestClassify_NoTrackers(t *testing.T) {
	got := Classify("<html><body>nothing here</body></html>")
	if len(got.Trackers) != 0 {
		t.Errorf("Trackers = %v, want none", got.Trackers)
	}
	if got.TrackerList() != "" {
		t.Errorf("TrackerList() = %q, want empty", got.TrackerList())
	}
}

func TestTrackerList(t *testing.T) {
	r := Result{Trackers: []string{"Google Analytics", "Hotjar"}}
	if got := r.TrackerList(); got != "Google Analytics, Hotjar" {
		t.Errorf("TrackerList() = %q", got)
	}
}

func TestFirstMatch_NoMatch(t *testing.T) {
	label, ok := FirstMatch(Platforms, "no signatures at all")
	if ok || label != "" {
		t.Errorf("FirstMatch = (%q, %v), want (\"\", false)", label, ok)
	}
}

func TestMatching_CaseSensitive(t *testing.T) {
	// Signatures are literal fragments; matching must not fold case.
	got := Classify("<link href='/WP-CONTENT/style.css'>")
	if got.Platform != UnknownPlatform {
		t.Errorf("Platform = %q, want %q for case-mismatched fragment", got.Platform, UnknownPlatform)
	}
}
