package analyzer

import (
	"net/url"
	"strings"

	"github.com/sitelens/sitelens/models"
)

// Normalize validates and canonicalizes a caller-supplied URL. It is pure:
// no network access, no side effects. The result always carries an http(s)
// scheme and a host, with credentials and fragment stripped, and
// re-normalizes to itself.
//
// Bare hostnames without a scheme are rejected rather than auto-prefixed:
// guessing a scheme silently changes what the caller asked us to analyze.
func Normalize(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", invalidURL()
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", invalidURL()
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", invalidURL()
	}
	if u.Hostname() == "" {
		return "", invalidURL()
	}

	u.User = nil
	u.Fragment = ""
	u.RawFragment = ""

	return u.String(), nil
}

func invalidURL() error {
	return models.NewAnalysisError(models.ErrCodeInvalidInput, "invalid url", nil)
}
