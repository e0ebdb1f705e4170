package server

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_BurstThenDeny(t *testing.T) {
	rl := newRateLimiter(0.001, 2)

	assert.True(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"), "bucket exhausted")
}

func TestRateLimiter_PerIPIsolation(t *testing.T) {
	rl := newRateLimiter(0.001, 1)

	assert.True(t, rl.allow("10.0.0.1"))
	assert.False(t, rl.allow("10.0.0.1"))
	assert.True(t, rl.allow("10.0.0.2"), "second IP has its own bucket")
}

func TestClientIP_RemoteAddr(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:4321"

	assert.Equal(t, "192.0.2.7", clientIP(r, false))
}

func TestClientIP_IgnoresHeadersWithoutTrust(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.7:4321"
	r.Header.Set("X-Real-IP", "203.0.113.9")
	r.Header.Set("X-Forwarded-For", "203.0.113.9")

	assert.Equal(t, "192.0.2.7", clientIP(r, false),
		"spoofable headers must be ignored when proxy is not trusted")
}

func TestClientIP_TrustProxy(t *testing.T) {
	tests := []struct {
		name string
		set  map[string]string
		want string
	}{
		{"x-real-ip", map[string]string{"X-Real-IP": "203.0.113.9"}, "203.0.113.9"},
		{"x-forwarded-for first hop", map[string]string{"X-Forwarded-For": "203.0.113.9, 198.51.100.1"}, "203.0.113.9"},
		{"invalid header falls back", map[string]string{"X-Real-IP": "not-an-ip"}, "192.0.2.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = "192.0.2.7:4321"
			for k, v := range tt.set {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, clientIP(r, true))
		})
	}
}
