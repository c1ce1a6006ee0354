package muxhandlers

import (
	"net/http"
	"net/http/httptest"

	"github.com/vitalvas/frontctl/mux"
	"github.com/vitalvas/frontctl/request"
)

// serveIndex runs r through a front controller with mw installed and
// records the captured request seen by the index action.
func serveIndex(mw mux.MiddlewareFunc, r *http.Request, h http.HandlerFunc) (*httptest.ResponseRecorder, *request.Request) {
	var seen *request.Request

	router := mux.NewRouter(mux.Config{ScriptName: "/index.php"})
	router.Use(mw)
	router.HandleFunc("", "", func(w http.ResponseWriter, req *http.Request) {
		seen = mux.Current(req)
		if h != nil {
			h(w, req)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)

	return w, seen
}

// newScriptRouter returns a router for scriptName whose cart action stores
// the base URL in got.
func newScriptRouter(scriptName string, mw mux.MiddlewareFunc, got *string) *mux.Router {
	router := mux.NewRouter(mux.Config{ScriptName: scriptName})
	router.Use(mw)
	router.HandleFunc("cart", "", func(w http.ResponseWriter, req *http.Request) {
		*got = mux.Current(req).BaseURL()
		w.WriteHeader(http.StatusOK)
	})

	return router
}
