// Package mux implements a front controller: a single http.Handler that
// receives every request of an application, extracts the route below the
// front controller script and dispatches it to a controller action.
//
// # Router
//
// Create a router for the script the web server routes requests to and
// register actions by controller and action name:
//
//	r := mux.NewRouter(mux.Config{ScriptName: "/app/webroot/index.php"})
//	r.HandleFunc("", "", HomeHandler)            // /app/webroot/
//	r.HandleFunc("user", "", UserListHandler)    // /app/webroot/user
//	r.HandleFunc("user", "view", UserHandler)    // /app/webroot/user/view/42
//	http.Handle("/", r)
//
// The same route is reached through clean URLs and through URLs that
// name the script, e.g. /app/webroot/index.php/user/view/42.
//
// # Route Segments
//
// The first route segment selects the controller and the second the
// action; both default to "index". The remaining segments are passed to
// the action as arguments:
//
//	func UserHandler(w http.ResponseWriter, r *http.Request) {
//	    id, ok := mux.Arg(r, 0) // "42"
//	    ...
//	}
//
// # Captured Request
//
// Every request is captured into a request.Request before middleware
// run. Handlers and middleware read it with Current:
//
//	req := mux.Current(r)
//	req.Route()    // "user/view/42"
//	req.BaseURL()  // "http://example.com/app/webroot"
//	req.Get("tab", "profile")
//
// Middleware may change server variables and call Init again; the action
// is resolved from the request as it is when the middleware chain ends.
//
// # Methods
//
// Actions accept every method unless restricted with Methods. A request
// for a known action with another method gets 405 Method Not Allowed with
// an Allow header; an unknown action gets 404 Not Found.
//
//	r.HandleFunc("user", "save", SaveHandler).Methods(http.MethodPost)
//
// Methods are compared with REQUEST_METHOD, so method override middleware
// apply.
//
// # URLs
//
// URLFor and Redirect build absolute URLs below the base URL of the
// captured request.
package mux
