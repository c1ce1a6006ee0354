// Package request extracts routing information from a single HTTP request
// for a front controller: the route below the front controller script,
// the absolute URLs of the site, and access to query, form, server and
// body data.
//
// # Environment
//
// A Request works on an explicit snapshot of CGI style server variables
// (REQUEST_URI, SCRIPT_NAME, SERVER_NAME, ...), query parameters and form
// parameters. The snapshot is either captured from an *http.Request:
//
//	req := request.FromHTTPRequest(r, request.CaptureConfig{
//	    ScriptName: "/app/webroot/index.php",
//	})
//
// or supplied directly, which is convenient in tests:
//
//	req := request.New(request.Globals{
//	    Server: map[string]string{
//	        "REQUEST_URI": "/app/webroot/index.php/user/view/1",
//	        "SCRIPT_NAME": "/app/webroot/index.php",
//	        "SERVER_NAME": "example.com",
//	        "SERVER_PORT": "80",
//	    },
//	}).Init()
//
//	req.Route()      // "user/view/1"
//	req.RouteParts() // ["user" "view" "1"]
//	req.SiteURL()    // "http://example.com"
//	req.BaseURL()    // "http://example.com/app/webroot"
//
// Snapshots can also be loaded from YAML with LoadGlobals.
//
// # Route
//
// The route is the part of the request URI after the directory of the
// front controller script. A leading script file name and the query
// string are removed, so clean URLs produced by rewrite rules and direct
// script URLs give the same route. An empty route has one empty part.
//
// # URLs
//
// CurrentURL rebuilds the absolute URL from HTTPS, REQUEST_SCHEME,
// SERVER_NAME (or HTTP_HOST), SERVER_PORT and REQUEST_URI, leaving out
// default ports. The result is HTML escaped. SiteURL and BaseURL are set
// by Init and stay empty when no host is known.
//
// # Body
//
// The body stream is read at most once and cached. SetBody installs a
// fixed body instead. BodyAsJSON returns an error wrapping
// ErrMalformedBody for invalid JSON.
package request
