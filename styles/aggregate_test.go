package styles

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAggregate_SkipsFailedFetches(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a.css", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("a{x:1}"))
	})
	mux.HandleFunc("/b.css", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	mux.HandleFunc("/c.css", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("c{x:3}"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := NewAggregator()
	got := a.Aggregate(context.Background(), srv.URL+"/page", []string{"/a.css", "/b.css", "/c.css"})

	want := "a{x:1}\nc{x:3}"
	if got != want {
		t.Errorf("Aggregate = %q, want %q (failed fetch must drop only its own contribution)", got, want)
	}
}

func TestAggregate_ResolvesRelativeRefs(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/assets/site.css", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("nav{top:0}"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := NewAggregator()
	got := a.Aggregate(context.Background(), srv.URL+"/blog/post", []string{"/assets/site.css"})
	if got != "nav{top:0}" {
		t.Errorf("Aggregate = %q", got)
	}
}

func TestAggregate_RepeatedRefsRefetched(t *testing.T) {
	hits := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		_, _ = w.Write([]byte("x{y:z}"))
	}))
	defer srv.Close()

	a := NewAggregator()
	got := a.Aggregate(context.Background(), srv.URL, []string{"/s.css", "/s.css"})
	if got != "x{y:z}\nx{y:z}" {
		t.Errorf("Aggregate = %q", got)
	}
	if hits != 2 {
		t.Errorf("hits = %d, want 2 (no deduplication)", hits)
	}
}

func TestAggregate_EmptyRefs(t *testing.T) {
	a := NewAggregator()
	if got := a.Aggregate(context.Background(), "http://example.com", nil); got != "" {
		t.Errorf("Aggregate = %q, want empty", got)
	}
}

func TestAggregate_ContextDeadline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte("slow{a:b}"))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	a := NewAggregator()
	if got := a.Aggregate(ctx, srv.URL, []string{"/slow.css"}); got != "" {
		t.Errorf("Aggregate = %q, want empty after deadline", got)
	}
}

func TestAggregateRaw(t *testing.T) {
	a := NewAggregator()
	if got := a.AggregateRaw("p{m:0}"); got != "p{m:0}" {
		t.Errorf("AggregateRaw = %q", got)
	}
}
