package security

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractClientIP(t *testing.T) {
	resolver := NewResolver()

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "direct connection",
			remoteAddr: "203.0.113.7:5123",
			want:       "203.0.113.7",
		},
		{
			name:       "forwarded header from untrusted peer is ignored",
			remoteAddr: "203.0.113.7:5123",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.1"},
			want:       "203.0.113.7",
		},
		{
			name:       "forwarded header from trusted proxy",
			remoteAddr: "10.0.0.5:80",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.1"},
			want:       "198.51.100.1",
		},
		{
			name:       "first hop wins in forwarded chain",
			remoteAddr: "127.0.0.1:80",
			headers:    map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.5"},
			want:       "198.51.100.1",
		},
		{
			name:       "x-real-ip fallback from trusted proxy",
			remoteAddr: "192.168.1.1:80",
			headers:    map[string]string{"X-Real-IP": "198.51.100.2"},
			want:       "198.51.100.2",
		},
		{
			name:       "garbage forwarded value falls back to peer",
			remoteAddr: "10.0.0.5:80",
			headers:    map[string]string{"X-Forwarded-For": "not-an-ip"},
			want:       "10.0.0.5",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			if got := resolver.ExtractClientIP(req); got != tt.want {
				t.Errorf("ExtractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAddTrustedProxy(t *testing.T) {
	resolver := NewResolver()
	if err := resolver.AddTrustedProxy("203.0.113.0/24"); err != nil {
		t.Fatalf("AddTrustedProxy() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:443"
	req.Header.Set("X-Forwarded-For", "198.51.100.1")
	if got := resolver.ExtractClientIP(req); got != "198.51.100.1" {
		t.Errorf("ExtractClientIP() = %q, want forwarded ip", got)
	}

	if err := resolver.AddTrustedProxy("bogus"); err == nil {
		t.Error("invalid CIDR accepted")
	}
}

func TestHeadersMiddleware(t *testing.T) {
	handler := NewHeadersMiddleware(DefaultHeadersConfig()).Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, header := range []string{
		"Content-Security-Policy",
		"X-Content-Type-Options",
		"X-Frame-Options",
	} {
		if rr.Header().Get(header) == "" {
			t.Errorf("%s not set", header)
		}
	}
}
