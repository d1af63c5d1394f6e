package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/chatpane/chatpane/internal/metrics"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/api/message", "/api/message"},
		{"/health", "/health"},
		{"/metrics", "/metrics"},
		{"/", "static"},
		{"/index.html", "static"},
		{"/static/asset-17.js", "static"},
		{"/does/not/exist", "static"},
	}
	for _, tt := range tests {
		if got := normalizePath(tt.path); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestMetrics_ArbitraryPathsShareOneLabel(t *testing.T) {
	srv := httptest.NewServer(Metrics(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})))
	defer srv.Close()

	before := testutil.CollectAndCount(metrics.HTTPRequestsTotal)
	for i := 0; i < 50; i++ {
		resp, err := http.Get(fmt.Sprintf("%s/static/asset-%d.js", srv.URL, i))
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		resp.Body.Close()
	}
	after := testutil.CollectAndCount(metrics.HTTPRequestsTotal)

	// All fifty requests share the normalized bucket, so at most one new
	// series appears.
	if grown := after - before; grown > 1 {
		t.Fatalf("arbitrary paths minted %d new series, want at most 1", grown)
	}
}
