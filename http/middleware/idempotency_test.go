package middleware_test

import (
	"bytes"
	"context"
	"encoding/gob"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/castellanoconmh/aula/http/middleware"
	"github.com/stretchr/testify/require"
)

func TestIdempotent(t *testing.T) {
	var calls atomic.Int32
	created := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
	})

	t.Run("Not-Post", func(t *testing.T) {
		// Arrange
		h := middleware.Idempotent(nil)(created)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/codes", nil))

		// Assert
		require.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("No-Key", func(t *testing.T) {
		// Arrange
		h := middleware.Idempotent(nil)(created)
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/codes", nil))

		// Assert
		require.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Form-Key-Replays", func(t *testing.T) {
		// Arrange
		calls.Store(0)
		h := middleware.Idempotent(middleware.NewIdemResMap())(created)
		form := url.Values{middleware.IdempotencyField: {"abc"}}.Encode()
		post := func() *httptest.ResponseRecorder {
			r := httptest.NewRequest(http.MethodPost, "/admin/codes", strings.NewReader(form))
			r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			return w
		}

		// Act
		first := post()
		second := post()

		// Assert
		require.Equal(t, int32(1), calls.Load())
		require.Equal(t, http.StatusSeeOther, first.Code)
		require.Equal(t, http.StatusSeeOther, second.Code)
		require.Equal(t, "/admin", second.Header().Get("Location"))
		require.Equal(t, first.Body.String(), second.Body.String())
	})

	t.Run("Header-Key-Body-Mismatch", func(t *testing.T) {
		// Arrange
		h := middleware.Idempotent(middleware.NewIdemResMap())(created)
		post := func(body string) int {
			r := httptest.NewRequest(http.MethodPost, "/admin/videos", strings.NewReader(body))
			r.Header.Set(middleware.IdempotencyHeader, "k1")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			return w.Code
		}

		// Act
		first := post(`{"title":"a"}`)
		second := post(`{"title":"b"}`)

		// Assert
		require.Equal(t, http.StatusSeeOther, first)
		require.Equal(t, http.StatusUnprocessableEntity, second)
	})

	t.Run("URI-Mismatch", func(t *testing.T) {
		// Arrange
		h := middleware.Idempotent(middleware.NewIdemResMap())(created)
		post := func(target string) int {
			r := httptest.NewRequest(http.MethodPost, target, nil)
			r.Header.Set(middleware.IdempotencyHeader, "k1")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			return w.Code
		}

		// Act
		post("/admin/videos")
		actual := post("/admin/exams")

		// Assert
		require.Equal(t, http.StatusUnprocessableEntity, actual)
	})

	t.Run("Still-Processing", func(t *testing.T) {
		// Arrange
		cache := middleware.NewIdemResMap()
		cache.Set(context.Background(), "0:k1", middleware.NewIdemRes("/admin/codes", nil))
		h := middleware.Idempotent(cache)(created)
		r := httptest.NewRequest(http.MethodPost, "/admin/codes", nil)
		r.Header.Set(middleware.IdempotencyHeader, "k1")
		w := httptest.NewRecorder()

		// Act
		h.ServeHTTP(w, r)

		// Assert
		require.Equal(t, http.StatusConflict, w.Code)
	})
}

func TestIdemResGob(t *testing.T) {
	// Arrange
	expected := middleware.NewIdemRes("/redeem", []byte("sum"))
	expected.Body.WriteString("hola")
	expected.Location = "/dashboard"
	expected.Status = http.StatusSeeOther

	// Act
	buf := bytes.NewBuffer(nil)
	require.Nil(t, gob.NewEncoder(buf).Encode(expected))
	var actual middleware.IdemRes
	require.Nil(t, gob.NewDecoder(buf).Decode(&actual))

	// Assert
	require.Equal(t, "hola", actual.Body.String())
	require.Equal(t, expected.Location, actual.Location)
	require.Equal(t, expected.Req, actual.Req)
	require.Equal(t, expected.Status, actual.Status)
	require.Equal(t, expected.URI, actual.URI)
}

func TestIdemResMap(t *testing.T) {
	// Arrange
	cache := middleware.NewIdemResMap()
	ctx, cancel := context.WithCancel(context.Background())

	// Act
	cache.Set(ctx, "1:a", middleware.NewIdemRes("/a", nil))
	_, okEmpty := cache.Get(ctx, "")
	got, ok := cache.Get(ctx, "1:a")
	cancel()
	_, okCanceled := cache.Get(ctx, "1:a")

	// Assert
	require.False(t, okEmpty)
	require.True(t, ok)
	require.Equal(t, "/a", got.URI)
	require.False(t, okCanceled)
}
