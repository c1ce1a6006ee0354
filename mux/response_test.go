package mux

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResponseJSON(t *testing.T) {
	type item struct {
		Name  string `json:"name"`
		Value int    `json:"value"`
	}

	t.Run("writes JSON with status code", func(t *testing.T) {
		w := httptest.NewRecorder()
		ResponseJSON(w, http.StatusCreated, item{Name: "test", Value: 42})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"name":"test","value":42}`, w.Body.String())
	})

	t.Run("writes null for nil", func(t *testing.T) {
		w := httptest.NewRecorder()
		ResponseJSON(w, http.StatusOK, nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "null\n", w.Body.String())
	})

	t.Run("writes 500 on encode error", func(t *testing.T) {
		w := httptest.NewRecorder()
		ResponseJSON(w, http.StatusOK, make(chan int))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotEqual(t, "application/json", w.Header().Get("Content-Type"))
	})
}

func TestURLFor(t *testing.T) {
	t.Run("below the base url", func(t *testing.T) {
		r := NewRouter(Config{ScriptName: "/app/webroot/index.php"})

		var urls []string
		r.HandleFunc("", "", func(_ http.ResponseWriter, req *http.Request) {
			urls = append(urls, URLFor(req, "user/view/1"), URLFor(req, "/about/"), URLFor(req, ""))
		})

		req := httptest.NewRequest(http.MethodGet, "/app/webroot/index.php", nil)
		r.ServeHTTP(httptest.NewRecorder(), req)

		assert.Equal(t, []string{
			"http://example.com/app/webroot/user/view/1",
			"http://example.com/app/webroot/about",
			"http://example.com/app/webroot",
		}, urls)
	})

	t.Run("outside a router", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		assert.Equal(t, "/user", URLFor(req, "user"))
		assert.Equal(t, "/", URLFor(req, ""))
	})
}

func TestRedirect(t *testing.T) {
	r := NewRouter(Config{ScriptName: "/app/index.php"})
	r.HandleFunc("old", "", func(w http.ResponseWriter, req *http.Request) {
		Redirect(w, req, "new", http.StatusFound)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/app/old", nil))

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "http://example.com/app/new", w.Header().Get("Location"))
}
