package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/castellanoconmh/aula/http/middleware"
	"github.com/stretchr/testify/require"
)

func TestGetIPAddress(t *testing.T) {
	tcs := []struct {
		name     string
		header   string
		value    string
		remote   string
		expected string
	}{
		{"No-Header-Remote", "", "", "203.0.113.9:4242", "203.0.113.9"},
		{"No-Match", "", "", "not-an-addr", middleware.UnknownIP},
		{"Only-Private-IP", "X-Forwarded-For", "192.168.0.7", "bad", middleware.UnknownIP},
		{"CGNAT", "X-Forwarded-For", "100.64.1.1", "bad", middleware.UnknownIP},
		{"Only-Public-IP", "X-Forwarded-For", "1.1.1.1", "", "1.1.1.1"},
		{"Get-Before-Proxy", "X-Real-Ip", "10.0.0.1,1.1.1.1", "", "1.1.1.1"},
		{"Get-Last-Public", "X-Real-Ip", "10.255.255.255,8.8.8.8,1.1.1.1,172.16.0.0", "", "1.1.1.1"},
		{"IPv6", "X-Forwarded-For", "2001:4860:4860::8888", "", "2001:4860:4860::8888"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tc.remote
			if tc.header != "" {
				r.Header.Set(tc.header, tc.value)
			}

			// Act + Assert
			require.Equal(t, tc.expected, middleware.GetIPAddress(r))
		})
	}
}

func TestInjectIPAddress(t *testing.T) {
	// Arrange
	var got string
	h := middleware.InjectIPAddress()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = middleware.IPAddress(r.Context())
	}))

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", "8.8.4.4")

	// Act
	h.ServeHTTP(httptest.NewRecorder(), r)

	// Assert
	require.Equal(t, "8.8.4.4", got)
	require.Equal(t, middleware.UnknownIP, middleware.IPAddress(r.Context()))
}
