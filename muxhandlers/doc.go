// Package muxhandlers provides middleware for the mux front controller.
//
// The middleware run after the router has captured the request, so they
// work on the server variables of mux.Current(r) rather than on the raw
// *http.Request fields.
//
// # Proxy Headers Middleware
//
// ProxyHeadersMiddleware rewrites REMOTE_ADDR, HTTPS, REQUEST_SCHEME,
// SERVER_NAME, HTTP_HOST and SERVER_PORT from reverse proxy headers when
// REMOTE_ADDR belongs to a trusted proxy, then re-runs Init so SiteURL and
// BaseURL point at the public address. When EnableForwarded is true, the
// RFC 7239 Forwarded header is parsed as a lowest-priority fallback. When
// TrustedProxies is empty, DefaultTrustedProxies is used.
//
//	mw, err := muxhandlers.ProxyHeadersMiddleware(muxhandlers.ProxyHeadersConfig{
//	    TrustedProxies:  []string{"10.0.0.0/8", "172.16.0.0/12"},
//	    EnableForwarded: true,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	r.Use(mw)
//
// # Request ID Middleware
//
// RequestIDMiddleware stores a per-request ID in the UNIQUE_ID server
// variable, the request context and the X-Request-ID response header.
//
//	r.Use(muxhandlers.RequestIDMiddleware(muxhandlers.RequestIDConfig{
//	    GenerateFunc: muxhandlers.GenerateUUIDv7,
//	}))
//
// # Method Override Middleware
//
// MethodOverrideMiddleware lets POST requests carry another method in an
// override header or in the _method form field. REQUEST_METHOD is updated
// so action method restrictions apply to the overridden method.
//
// # Recovery Middleware
//
// RecoveryMiddleware turns panics into 500 responses and logs them with
// the route, method and request ID.
//
//	r.Use(muxhandlers.RecoveryMiddleware(muxhandlers.RecoveryConfig{Logger: logger}))
package muxhandlers
