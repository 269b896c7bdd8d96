package apihttp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
)

func TestPosterProxyRejectsMissingURL(t *testing.T) {
	server := NewServer(&fakeSearchService{})
	req := httptest.NewRequest(http.MethodGet, "/api/poster", nil)
	rec := httptest.NewRecorder()

	server.Handler().ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestPosterProxyRejectsBlockedHosts(t *testing.T) {
	server := NewServer(&fakeSearchService{})
	for _, raw := range []string{
		"http://localhost/poster.jpg",
		"http://127.0.0.1:8080/poster.jpg",
		"http://10.0.0.5/poster.jpg",
		"http://redis/poster.jpg",
		"http://internal.local/poster.jpg",
		"ftp://example.com/poster.jpg",
	} {
		req := httptest.NewRequest(http.MethodGet, "/api/poster?url="+url.QueryEscape(raw), nil)
		rec := httptest.NewRecorder()
		server.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("url %q: expected 400, got %d", raw, rec.Code)
		}
	}
}

func TestValidateProxyURL(t *testing.T) {
	cases := []struct {
		raw     string
		blocked bool
	}{
		// IP literals avoid DNS lookups in the test environment.
		{"http://93.184.216.34/x.jpg", false},
		{"https://203.0.113.9/x.jpg", false},
		{"https://localhost/x.jpg", true},
		{"https://[::1]/x.jpg", true},
		{"http://192.168.1.10/x.jpg", true},
		{"http://169.254.169.254/latest/meta-data", true},
		{"gopher://example.com/x", true},
		{"https:///x.jpg", true},
	}
	for _, tc := range cases {
		target, err := url.Parse(tc.raw)
		if err != nil {
			t.Fatalf("parse %q: %v", tc.raw, err)
		}
		err = validateProxyURL(context.Background(), target)
		if tc.blocked && err == nil {
			t.Fatalf("url %q: expected block", tc.raw)
		}
		if !tc.blocked && err != nil {
			t.Fatalf("url %q: unexpected block: %v", tc.raw, err)
		}
	}
}
