package mux

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strings"
)

// ResponseJSON encodes v as JSON and writes it to the response with the given
// status code. The Content-Type header is set to "application/json".
// If encoding fails, an HTTP 500 Internal Server Error is written instead.
func ResponseJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(buf.Bytes())
}

// URLFor returns the absolute URL of route below the base URL of the
// captured request. Without a known base URL a root relative path is
// returned.
func URLFor(r *http.Request, route string) string {
	route = strings.Trim(route, "/")

	base := ""
	if req := Current(r); req != nil {
		base = req.BaseURL()
	}

	if route == "" {
		if base == "" {
			return "/"
		}
		return base
	}

	return base + "/" + route
}

// Redirect replies with a redirect to route below the base URL.
func Redirect(w http.ResponseWriter, r *http.Request, route string, code int) {
	http.Redirect(w, r, URLFor(r, route), code)
}
