package http_test

import (
	"net/http/httptest"
	"testing"

	pkghttp "github.com/BradenHooton/storefront/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestClientIP(t *testing.T) {
	proxies := pkghttp.ParseTrustedProxies([]string{"10.0.0.0/8", "fd00::/8", "not-a-cidr"})

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		proxies    pkghttp.TrustedProxies
		expected   string
	}{
		{
			name:       "direct client ignores forwarding headers",
			remoteAddr: "203.0.113.10:54321",
			headers:    map[string]string{"X-Forwarded-For": "1.2.3.4", "X-Real-IP": "192.168.1.1"},
			proxies:    proxies,
			expected:   "203.0.113.10",
		},
		{
			name:       "trusted proxy uses first forwarded address",
			remoteAddr: "10.0.0.5:54321",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.42, 10.0.0.5"},
			proxies:    proxies,
			expected:   "203.0.113.42",
		},
		{
			name:       "trusted proxy skips garbage entries",
			remoteAddr: "10.0.0.5:54321",
			headers:    map[string]string{"X-Forwarded-For": "garbage, 198.51.100.7"},
			proxies:    proxies,
			expected:   "198.51.100.7",
		},
		{
			name:       "trusted proxy falls back to X-Real-IP",
			remoteAddr: "10.1.2.3:80",
			headers:    map[string]string{"X-Real-IP": "198.51.100.9"},
			proxies:    proxies,
			expected:   "198.51.100.9",
		},
		{
			name:       "ipv6 trusted proxy",
			remoteAddr: "[fd00::1]:443",
			headers:    map[string]string{"X-Forwarded-For": "2001:db8::5"},
			proxies:    proxies,
			expected:   "2001:db8::5",
		},
		{
			name:       "zero value trusts nobody",
			remoteAddr: "10.0.0.5:54321",
			headers:    map[string]string{"X-Forwarded-For": "203.0.113.42"},
			expected:   "10.0.0.5",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "203.0.113.77",
			proxies:    proxies,
			expected:   "203.0.113.77",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			assert.Equal(t, tt.expected, pkghttp.ClientIP(req, tt.proxies))
		})
	}
}

func TestTrustedProxies_Contains(t *testing.T) {
	proxies := pkghttp.ParseTrustedProxies([]string{"127.0.0.1/32"})

	assert.True(t, proxies.Contains("127.0.0.1"))
	assert.True(t, proxies.Contains("::ffff:127.0.0.1"))
	assert.False(t, proxies.Contains("127.0.0.2"))
	assert.False(t, proxies.Contains("unknown"))
}
