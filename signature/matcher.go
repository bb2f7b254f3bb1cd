package signature

import "strings"

// FirstMatch scans the table in order and returns the label of the first
// signature whose pattern occurs in content. The second return value is
// false when nothing matched.
func FirstMatch(table []Signature, content string) (string, bool) {
	for _, sig := range table {
		if strings.Contains(content, sig.Pattern) {
			return sig.Label, true
		}
	}
	return "", false
}

// AllMatches scans the whole table and returns the labels of every matching
// signature, deduplicated, in first-seen order. Repeated occurrences of a
// pattern and multiple patterns sharing a label both contribute the label
// exactly once.
func AllMatches(table []Signature, content string) []string {
	var labels []string
	seen := make(map[string]struct{})
	for _, sig := range table {
		if !strings.Contains(content, sig.Pattern) {
			continue
		}
		if _, dup := seen[sig.Label]; dup {
			continue
		}
		seen[sig.Label] = struct{}{}
		labels = append(labels, sig.Label)
	}
	return labels
}

// Result holds the classification of one document.
type Result struct {
	// Platform is the detected CMS label, UnknownPlatform when no
	// platform signature matched.
	Platform string

	// Trackers lists detected tracking scripts in catalog order.
	Trackers []string
}

// Classify matches the raw markup against the platform and tracker catalogs.
// It is pure and safe for concurrent use: the catalogs are immutable.
func Classify(rawHTML string) Result {
	platform, ok := FirstMatch(Platforms, rawHTML)
	if !ok {
		platform = UnknownPlatform
	}
	return Result{
		Platform: platform,
		Trackers: AllMatches(Trackers, rawHTML),
	}
}

// TrackerList renders the detected trackers in the comma-separated transport
// form. Empty when no tracker matched.
func (r Result) TrackerList() string {
	return strings.Join(r.Trackers, ", ")
}
