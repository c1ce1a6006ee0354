package muxhandlers

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecoveryMiddleware(t *testing.T) {
	tests := []struct {
		name     string
		handler  http.HandlerFunc
		wantCode int
		wantLog  bool
	}{
		{
			name: "no panic passes through",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "panic returns 500",
			handler: func(_ http.ResponseWriter, _ *http.Request) {
				panic("something went wrong")
			},
			wantCode: http.StatusInternalServerError,
			wantLog:  true,
		},
		{
			name: "panic with integer value",
			handler: func(_ http.ResponseWriter, _ *http.Request) {
				panic(42)
			},
			wantCode: http.StatusInternalServerError,
			wantLog:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := slog.New(slog.NewJSONHandler(&buf, nil))

			w, _ := serveIndex(RecoveryMiddleware(RecoveryConfig{Logger: logger}), httptest.NewRequest(http.MethodGet, "/", nil), tt.handler)

			assert.Equal(t, tt.wantCode, w.Code)
			assert.Equal(t, tt.wantLog, buf.Len() > 0)
		})
	}

	t.Run("log record carries request attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		router := newScriptRouter("/index.php", RecoveryMiddleware(RecoveryConfig{Logger: logger, Stack: true}), new(string))
		router.Use(RequestIDMiddleware(RequestIDConfig{GenerateFunc: func(_ *http.Request) string { return "req-1" }}))
		router.HandleFunc("cart", "checkout", func(_ http.ResponseWriter, _ *http.Request) {
			panic("boom")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/cart/checkout", nil))
		require.Equal(t, http.StatusInternalServerError, w.Code)

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

		assert.Equal(t, "ERROR", record["level"])
		assert.Equal(t, "panic recovered", record["msg"])
		assert.Equal(t, "boom", record["panic"])
		assert.Equal(t, "cart/checkout", record["route"])
		assert.Equal(t, http.MethodPost, record["method"])
		assert.Equal(t, "req-1", record["unique_id"])
		assert.Contains(t, record["stack"], "runtime/debug.Stack")
	})

	t.Run("without captured request logs path", func(t *testing.T) {
		var buf bytes.Buffer
		logger := slog.New(slog.NewJSONHandler(&buf, nil))

		h := RecoveryMiddleware(RecoveryConfig{Logger: logger})(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			panic("boom")
		}))

		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/plain", nil))
		require.Equal(t, http.StatusInternalServerError, w.Code)

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "/plain", record["path"])
		assert.NotContains(t, record, "stack")
	})

	t.Run("abort handler is re-raised", func(t *testing.T) {
		h := RecoveryMiddleware(RecoveryConfig{Logger: slog.New(slog.DiscardHandler)})(http.HandlerFunc(func(_ http.ResponseWriter, _ *http.Request) {
			panic(http.ErrAbortHandler)
		}))

		assert.PanicsWithValue(t, http.ErrAbortHandler, func() {
			h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}
