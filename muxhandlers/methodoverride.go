package muxhandlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/vitalvas/frontctl/mux"
	"github.com/vitalvas/frontctl/request"
)

// ErrInvalidOverrideMethod is returned when MethodOverrideConfig.AllowedMethods
// or MethodOverrideConfig.OriginalMethods contains an invalid HTTP method.
var ErrInvalidOverrideMethod = errors.New("method override: allowed methods must be valid HTTP methods")

// DefaultMethodField is the post variable checked for an override when
// MethodOverrideConfig.FormField is empty.
const DefaultMethodField = "_method"

// MethodOverrideConfig configures the Method Override middleware behaviour.
type MethodOverrideConfig struct {
	// HeaderNames is the list of header names checked in order.
	// The first non-empty header value is used as the override.
	// When nil, defaults to
	// ["X-HTTP-Method-Override", "X-Method-Override", "X-HTTP-Method"].
	HeaderNames []string

	// FormField is the post variable consulted when no header is present.
	// Defaults to DefaultMethodField.
	FormField string

	// DisableFormField turns off the post variable lookup.
	DisableFormField bool

	// OriginalMethods is the set of HTTP methods eligible for override.
	// When nil, defaults to [POST].
	OriginalMethods []string

	// AllowedMethods restricts which methods can be used as overrides.
	// When nil, defaults to PUT, PATCH, DELETE, HEAD, OPTIONS.
	AllowedMethods []string
}

var defaultOverrideHeaders = []string{
	"X-HTTP-Method-Override",
	"X-Method-Override",
	"X-HTTP-Method",
}

var defaultOriginalMethods = []string{http.MethodPost}

var defaultOverrideMethods = []string{
	http.MethodPut,
	http.MethodPatch,
	http.MethodDelete,
	http.MethodHead,
	http.MethodOptions,
}

// MethodOverrideMiddleware returns a middleware that lets HTML forms and
// limited clients tunnel other methods through POST. The override comes from
// the first non-empty header in HeaderNames or, failing that, from the
// FormField post variable. When the uppercased value is allowed, both
// r.Method and the REQUEST_METHOD server variable are replaced, so action
// method restrictions see the overridden method.
//
// It returns ErrInvalidOverrideMethod if AllowedMethods or OriginalMethods
// contains an invalid method.
func MethodOverrideMiddleware(cfg MethodOverrideConfig) (mux.MiddlewareFunc, error) {
	headers := cfg.HeaderNames
	if len(headers) == 0 {
		headers = defaultOverrideHeaders
	}

	originals := cfg.OriginalMethods
	if originals == nil {
		originals = defaultOriginalMethods
	}

	methods := cfg.AllowedMethods
	if methods == nil {
		methods = defaultOverrideMethods
	}

	for _, m := range append(append([]string{}, originals...), methods...) {
		if m == "" || m != strings.ToUpper(m) {
			return nil, ErrInvalidOverrideMethod
		}
	}

	field := cfg.FormField
	if field == "" {
		field = DefaultMethodField
	}
	if cfg.DisableFormField {
		field = ""
	}

	headerNames := make([]string, len(headers))
	copy(headerNames, headers)

	originalSet := make(map[string]struct{}, len(originals))
	for _, m := range originals {
		originalSet[m] = struct{}{}
	}

	allowed := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		allowed[m] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := mux.Current(r)

			method := r.Method
			if req != nil {
				method = req.Method()
			}

			if _, ok := originalSet[method]; ok {
				override, header := overrideValue(r, req, headerNames, field)
				if override != "" {
					override = strings.ToUpper(strings.TrimSpace(override))
					if _, ok := allowed[override]; ok {
						r.Method = override
						if req != nil {
							req.SetServer(request.KeyRequestMethod, override)
						}
						if header != "" {
							r.Header.Del(header)
						}
					}
				}
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

// overrideValue returns the requested method and the header it came from.
// The header name is empty when the value came from the post variables.
func overrideValue(r *http.Request, req *request.Request, headers []string, field string) (string, string) {
	for _, h := range headers {
		if v := r.Header.Get(h); v != "" {
			return v, h
		}
	}

	if field != "" && req != nil {
		return req.Post(field, ""), ""
	}

	return "", ""
}
