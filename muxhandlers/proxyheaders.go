package muxhandlers

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strconv"
	"strings"

	"github.com/vitalvas/frontctl/mux"
	"github.com/vitalvas/frontctl/request"
	"golang.org/x/net/http/httpguts"
)

// ErrInvalidProxy is returned when a TrustedProxies entry is neither a valid
// IP address nor a valid CIDR range.
var ErrInvalidProxy = errors.New("proxy headers: invalid proxy entry")

// DefaultTrustedProxies is the set of private and loopback ranges used when
// ProxyHeadersConfig.TrustedProxies is empty.
var DefaultTrustedProxies = []string{
	"127.0.0.0/8",
	"10.0.0.0/8",
	"172.16.0.0/12",
	"192.168.0.0/16",
	"100.64.0.0/10",
	"::1/128",
	"fc00::/7",
}

// ProxyHeadersConfig configures the ProxyHeaders middleware behaviour.
type ProxyHeadersConfig struct {
	// TrustedProxies is a list of IP addresses and CIDR ranges.
	// Forwarding headers are only honoured when REMOTE_ADDR is in this set.
	// When empty, DefaultTrustedProxies is used.
	TrustedProxies []string

	// EnableForwarded enables the RFC 7239 Forwarded header as a fallback
	// after the X-Forwarded-* and X-Real-IP headers.
	EnableForwarded bool
}

// ProxyHeadersMiddleware returns a middleware that rewrites the server
// variables of the captured request from reverse proxy headers when the
// peer is a trusted proxy, then runs Init again so that the URLs reflect
// the address the client used.
//
//   - REMOTE_ADDR:              X-Forwarded-For > X-Real-IP [> Forwarded for=]
//   - HTTPS, REQUEST_SCHEME:    X-Forwarded-Proto > X-Forwarded-Scheme [> Forwarded proto=]
//   - SERVER_NAME, HTTP_HOST:   X-Forwarded-Host [> Forwarded host=]
//   - SERVER_PORT:              X-Forwarded-Port > port of the forwarded host > scheme default
//
// A forwarded host without a port and without a forwarded scheme falls
// back to the default port of the current scheme.
//
// Bracketed entries require EnableForwarded.
//
// It returns an error if the configuration contains unparseable IP/CIDR entries.
func ProxyHeadersMiddleware(cfg ProxyHeadersConfig) (mux.MiddlewareFunc, error) {
	proxies := cfg.TrustedProxies
	if len(proxies) == 0 {
		proxies = DefaultTrustedProxies
	}

	trusted, err := parseTrustedProxies(proxies)
	if err != nil {
		return nil, err
	}

	enableFwd := cfg.EnableForwarded

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			req := mux.Current(r)
			if req == nil || !isTrustedPeer(req.Server(request.KeyRemoteAddr, ""), trusted) {
				next.ServeHTTP(w, r)
				return
			}

			var fwd forwardedParams
			if enableFwd {
				fwd = parseForwarded(r.Header.Get("Forwarded"))
			}

			if applyProxyHeaders(req, r.Header, fwd) {
				req.Init()
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

// applyProxyHeaders updates the server variables and reports whether any
// of them changed.
func applyProxyHeaders(req *request.Request, h http.Header, fwd forwardedParams) bool {
	changed := false

	if ip := clientIP(h, fwd); ip != "" {
		req.SetServer(request.KeyRemoteAddr, ip)
		changed = true
	}

	var port string

	scheme := proxyScheme(h)
	if scheme == "" {
		scheme = fwd.proto
	}
	if scheme != "" {
		if scheme == "https" {
			req.SetServer(request.KeyHTTPS, "on")
			port = "443"
		} else {
			req.SetServer(request.KeyHTTPS, "off")
			port = "80"
		}
		req.SetServer(request.KeyRequestScheme, scheme)
		changed = true
	}

	host := h.Get("X-Forwarded-Host")
	if host == "" {
		host = fwd.host
	}
	if host != "" && httpguts.ValidHostHeader(host) {
		name, hostPort := splitHostPort(host)
		req.SetServer(request.KeyHTTPHost, host)
		req.SetServer(request.KeyServerName, name)
		switch {
		case hostPort != "":
			port = hostPort
		case port == "":
			port = defaultPort(req)
		}
		changed = true
	}

	if p := h.Get("X-Forwarded-Port"); p != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(p)); err == nil && n > 0 && n < 65536 {
			port = strconv.Itoa(n)
		}
	}

	if port != "" {
		req.SetServer(request.KeyServerPort, port)
		changed = true
	}

	return changed
}

// defaultPort returns the default port of the scheme the request
// currently uses.
func defaultPort(req *request.Request) string {
	if req.Server(request.KeyHTTPS, "") == "on" {
		return "443"
	}
	return "80"
}

// clientIP returns the client address from X-Forwarded-For, X-Real-IP or
// the Forwarded for= directive, in that order.
func clientIP(h http.Header, fwd forwardedParams) string {
	if xff := h.Get("X-Forwarded-For"); xff != "" {
		return parseXForwardedFor(xff)
	}

	if realIP := strings.TrimSpace(h.Get("X-Real-IP")); realIP != "" {
		if _, err := netip.ParseAddr(realIP); err == nil {
			return realIP
		}
		return ""
	}

	return fwd.forIP
}

// proxyScheme returns the normalized scheme from X-Forwarded-Proto or
// X-Forwarded-Scheme. Values other than http and https are ignored.
func proxyScheme(h http.Header) string {
	for _, header := range []string{"X-Forwarded-Proto", "X-Forwarded-Scheme"} {
		if val := h.Get(header); val != "" {
			normalized := strings.ToLower(strings.TrimSpace(val))
			if normalized == "http" || normalized == "https" {
				return normalized
			}

			return ""
		}
	}

	return ""
}

// splitHostPort splits a Host value into a URL ready host name and an
// optional port.
func splitHostPort(hostport string) (host, port string) {
	h, p, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport, ""
	}

	if strings.Contains(h, ":") {
		h = "[" + h + "]"
	}

	return h, p
}

// parseTrustedProxies parses a list of IP addresses and CIDR ranges. Bare
// addresses become single address prefixes.
func parseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))

	for _, entry := range entries {
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, entry)
			}

			prefixes = append(prefixes, p.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrInvalidProxy, entry)
		}

		prefixes = append(prefixes, netip.PrefixFrom(addr.Unmap(), addr.Unmap().BitLen()))
	}

	return prefixes, nil
}

// isTrustedPeer reports whether addr is inside one of the trusted prefixes.
func isTrustedPeer(addr string, trusted []netip.Prefix) bool {
	ip, err := netip.ParseAddr(strings.Trim(addr, "[]"))
	if err != nil {
		return false
	}
	ip = ip.Unmap()

	for _, p := range trusted {
		if p.Contains(ip) {
			return true
		}
	}

	return false
}

// parseXForwardedFor returns the leftmost valid IP from a comma-separated
// X-Forwarded-For header value.
func parseXForwardedFor(xff string) string {
	for part := range strings.SplitSeq(xff, ",") {
		candidate := strings.TrimSpace(part)
		if _, err := netip.ParseAddr(candidate); err == nil {
			return candidate
		}
	}

	return ""
}

// forwardedParams holds the directives of the first element of an
// RFC 7239 Forwarded header.
type forwardedParams struct {
	forIP string // validated IP from "for="
	proto string // http or https from "proto="
	host  string // raw value from "host="
}

// parseForwarded extracts for=, proto= and host= from the first element
// of a Forwarded header (the client-facing proxy).
func parseForwarded(header string) forwardedParams {
	if header == "" {
		return forwardedParams{}
	}

	if idx := strings.IndexByte(header, ','); idx != -1 {
		header = header[:idx]
	}

	var result forwardedParams

	for param := range strings.SplitSeq(header, ";") {
		key, val, ok := strings.Cut(strings.TrimSpace(param), "=")
		if !ok {
			continue
		}

		key = strings.ToLower(strings.TrimSpace(key))
		val = strings.Trim(strings.TrimSpace(val), `"`)

		switch key {
		case "for":
			result.forIP = parseForwardedIP(val)
		case "proto":
			val = strings.ToLower(val)
			if val == "http" || val == "https" {
				result.proto = val
			}
		case "host":
			result.host = val
		}
	}

	return result
}

// parseForwardedIP validates a for= value such as 192.0.2.60,
// [2001:db8::1] or [2001:db8::1]:4711. Obfuscated identifiers yield "".
func parseForwardedIP(val string) string {
	if host, _, err := net.SplitHostPort(val); err == nil {
		val = host
	} else {
		val = strings.TrimSuffix(strings.TrimPrefix(val, "["), "]")
	}

	if _, err := netip.ParseAddr(val); err == nil {
		return val
	}

	return ""
}
