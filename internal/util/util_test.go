package util

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:3128", "http://secure.local:3129", "internal.example")

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"http uses http proxy", "http://api.alquran.cloud/v1/quran", "http://proxy.local:3128"},
		{"https uses https proxy", "https://api.alquran.cloud/v1/quran", "http://secure.local:3129"},
		{"no_proxy host bypassed", "https://internal.example/data", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, _ := url.Parse(tt.target)
			got, err := proxy(&http.Request{URL: u})
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if tt.want == "" {
				if got != nil {
					t.Errorf("Expected direct connection, got %v", got)
				}
				return
			}
			if got == nil || got.String() != tt.want {
				t.Errorf("Expected proxy %s, got %v", tt.want, got)
			}
		})
	}
}

func TestNormalizeUserAgent(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"quizgen/0.1 (+https://github.com/AkmelFed12/quizgen)", "quizgen"},
		{"quizgen", "quizgen"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := NormalizeUserAgent(tt.in); got != tt.want {
			t.Errorf("NormalizeUserAgent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRobotsChecker_CanFetch(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/robots.txt" {
			http.NotFound(w, r)
			return
		}
		hits.Add(1)
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /private\nCrawl-delay: 2\n"))
	}))
	defer server.Close()

	checker := NewRobotsChecker("quizgen/0.1", server.Client())
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/v1/quran/quran-uthmani")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !allowed {
		t.Error("Expected public path allowed")
	}
	if delay != 2*time.Second {
		t.Errorf("Expected 2s crawl delay, got %v", delay)
	}

	allowed, _, err = checker.CanFetch(ctx, server.URL+"/private/data")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if allowed {
		t.Error("Expected private path disallowed")
	}

	if hits.Load() != 1 {
		t.Errorf("Expected robots.txt fetched once, got %d", hits.Load())
	}
}

func TestRobotsChecker_MissingRobotsAllows(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	defer server.Close()

	checker := NewRobotsChecker("quizgen", server.Client())
	allowed, _, err := checker.CanFetch(context.Background(), server.URL+"/anything")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !allowed {
		t.Error("Expected missing robots.txt to allow fetching")
	}
}
