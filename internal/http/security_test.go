package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestExtractClientIP(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.9:1234",
			want:       "203.0.113.9",
		},
		{
			name:       "forwarded header from untrusted peer is ignored",
			remoteAddr: "203.0.113.9:1234",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.7"},
			want:       "203.0.113.9",
		},
		{
			name:       "forwarded header from trusted proxy wins",
			remoteAddr: "10.0.0.5:443",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.7, 10.0.0.5"},
			want:       "198.51.100.7",
		},
		{
			name:       "real ip header as fallback",
			remoteAddr: "127.0.0.1:8080",
			headers:    map[string]string{"X-Real-IP": "198.51.100.8"},
			want:       "198.51.100.8",
		},
		{
			name:       "garbage forwarded value falls back to peer",
			remoteAddr: "192.168.1.2:9000",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			want:       "192.168.1.2",
		},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/filters", nil)
		req.RemoteAddr = tc.remoteAddr
		for k, v := range tc.headers {
			req.Header.Set(k, v)
		}
		if got := extractClientIP(req); got != tc.want {
			t.Errorf("%s: got %q, want %q", tc.name, got, tc.want)
		}
	}
}

func TestDetectSuspiciousRequest(t *testing.T) {
	cases := []struct {
		name   string
		target string
		want   bool
	}{
		{"chart read", "/api/charts/location?view=percent", false},
		{"filter state read", "/api/filters", false},
		{"excluded names with accents", "/api/filters?excluded=Jos%C3%A9%20Q.", false},
		{"traversal", "/api/charts/../../etc/passwd", true},
		{"wordpress scan", "/wp-admin/setup.php", true},
		{"env lookup", "/.env", true},
		{"injection in query", "/api/charts/location?view=1%20union%20select", true},
		{"oversized url", "/api/charts/location?x=" + strings.Repeat("a", 2100), true},
	}

	for _, tc := range cases {
		metrics := &securityMetrics{}
		req := httptest.NewRequest(http.MethodGet, tc.target, nil)
		got := detectSuspiciousRequest(req, metrics)
		if got != tc.want {
			t.Errorf("%s: got %v, want %v", tc.name, got, tc.want)
		}
		if tc.want && metrics.suspiciousRequests != 1 {
			t.Errorf("%s: suspiciousRequests = %d, want 1", tc.name, metrics.suspiciousRequests)
		}
	}
}
