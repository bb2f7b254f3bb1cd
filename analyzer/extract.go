package analyzer

import (
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sitelens/sitelens/models"
)

// trackedMetaNames is the subset of meta tags surfaced in responses.
var trackedMetaNames = map[string]struct{}{
	"description": {},
	"keywords":    {},
	"author":      {},
}

// Signals is the read-only view derived from one rendered document.
type Signals struct {
	// Title is the first <title> element's text, possibly empty.
	Title string

	// Meta maps tracked meta-tag names to their content. A key is present
	// iff the tag exists in the document, so callers can tell an absent
	// tag from one present with blank content.
	Meta map[string]string

	// Stylesheets holds <link rel="stylesheet"> hrefs in document order,
	// possibly relative, duplicates preserved.
	Stylesheets []string
}

// Extract parses the rendered markup into Signals. It is a pure parse step:
// no network access, and it never fails — target markup is untrusted and
// often invalid, so the worst case is a best-effort partial Signals.
func Extract(rawHTML string) Signals {
	sig := Signals{Meta: make(map[string]string)}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return sig
	}

	sig.Title = strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("meta[name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("name")
		name = strings.ToLower(strings.TrimSpace(name))
		if _, tracked := trackedMetaNames[name]; !tracked {
			return
		}
		// First occurrence wins.
		if _, ok := sig.Meta[name]; ok {
			return
		}
		content, _ := s.Attr("content")
		sig.Meta[name] = content
	})

	doc.Find("link[href]").Each(func(_ int, s *goquery.Selection) {
		rel, _ := s.Attr("rel")
		if !strings.EqualFold(strings.TrimSpace(rel), "stylesheet") {
			return
		}
		href, _ := s.Attr("href")
		if href == "" {
			return
		}
		sig.Stylesheets = append(sig.Stylesheets, href)
	})

	return sig
}

// MetaTags converts the presence-preserving meta map to the wire shape.
func (s Signals) MetaTags() models.MetaTags {
	var out models.MetaTags
	if v, ok := s.Meta["description"]; ok {
		out.Description = ptr(v)
	}
	if v, ok := s.Meta["keywords"]; ok {
		out.Keywords = ptr(v)
	}
	if v, ok := s.Meta["author"]; ok {
		out.Author = ptr(v)
	}
	return out
}

// HeaderSubset picks the tracked response headers of the primary request.
func HeaderSubset(h http.Header) models.Headers {
	var out models.Headers
	if h == nil {
		return out
	}
	if vs := h.Values("Content-Type"); len(vs) > 0 {
		out.ContentType = ptr(vs[0])
	}
	if vs := h.Values("Cache-Control"); len(vs) > 0 {
		out.CacheControl = ptr(vs[0])
	}
	if vs := h.Values("Server"); len(vs) > 0 {
		out.Server = ptr(vs[0])
	}
	return out
}

func ptr(s string) *string { return &s }
