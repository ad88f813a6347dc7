package template

import (
	"net/url"
	"testing"
	"time"

	"github.com/castellanoconmh/aula"
	"github.com/stretchr/testify/require"
)

func TestAddFn(t *testing.T) {
	// Arrange
	tcs := []struct {
		name   string
		first  string
		second any
		length int
	}{
		{"zero-first", "", nil, 1},
		{"struct-second", "still nil", struct{}{}, 2},
		{"one-good", "one", func() {}, 3},
		{"repeat", "one", func() {}, 3},
	}

	p := &Parse{}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			require.NotPanics(t, func() { p.AddFn(tc.first, tc.second) })

			// Assert
			require.Len(t, p.fns, tc.length)
		})
	}
}

func TestCurrentUser(t *testing.T) {
	// Arrange
	u := aula.User{Email: "ana@example.com"}

	// Act
	name, fn := CurrentUser(u)

	// Assert
	require.Equal(t, "currentUser", name)
	require.Equal(t, u, fn())
}

func TestEnv(t *testing.T) {
	// Act
	name, fn := Env(aula.Testing)

	// Assert
	require.Equal(t, "env", name)
	require.Equal(t, "TESTING", fn())
}

func TestISODate(t *testing.T) {
	// Arrange
	name, fn := ISODate()
	madrid := time.FixedZone("CET", 3600)

	// Act + Assert
	require.Equal(t, "isoDate", name)
	require.Equal(t, "", fn(time.Time{}))
	require.Equal(t, "2026-01-02T09:04:05Z", fn(time.Date(2026, 1, 2, 10, 4, 5, 0, madrid)))
}

func TestNonce(t *testing.T) {
	// Arrange + Act
	name, fn := Nonce()

	// Assert
	require.Equal(t, "nonce", name)
	require.NotEqual(t, fn(), fn())
}

func TestRootUrl(t *testing.T) {
	// Arrange
	example, err := url.ParseRequestURI("https://example.com")
	require.Nil(t, err)

	tcs := []struct {
		name     string
		actual   *url.URL
		expected string
	}{
		{"nil", nil, ""},
		{"zero-value", new(url.URL), ""},
		{"example.com", example, "https://example.com"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Act
			name, fn := RootUrl(tc.actual)

			// Assert
			require.Equal(t, "rootUrl", name)
			require.Equal(t, tc.expected, fn())
		})
	}
}
