package request

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// CurrentURL rebuilds the absolute URL of the request from the server
// variables. Scheme, host and path are HTML escaped since both HTTP_HOST
// and REQUEST_URI are client controlled and the result is often echoed
// into pages. Trailing slashes are removed from the path.
//
// The host is SERVER_NAME, falling back to HTTP_HOST when it is empty.
// Port 80, and port 443 over HTTPS, are left out.
func (r *Request) CurrentURL(includeQuery bool) string {
	https := r.server.Get(KeyHTTPS, "") == "on"

	scheme := r.server.Get(KeyRequestScheme, "http")
	if https {
		scheme = "https"
	}

	host := r.server.Get(KeyServerName, "")
	if host == "" {
		host = r.server.Get(KeyHTTPHost, "")
	}

	uri := rawURLDecode(r.server.Get(KeyRequestURI, ""))
	if !includeQuery {
		if i := strings.IndexByte(uri, '?'); i >= 0 {
			uri = uri[:i]
		}
	}
	uri = strings.TrimRight(uri, "/")

	return htmlEscaper.Replace(scheme) + "://" +
		htmlEscaper.Replace(host) + portSuffix(r.server.Get(KeyServerPort, ""), https) +
		htmlEscaper.Replace(uri)
}

// htmlEscaper escapes the five HTML special characters. Double quotes
// become &quot; and single quotes the zero padded &#039;.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#039;",
)

// portSuffix returns ":port" unless the port is the default one for the
// scheme or not known at all.
func portSuffix(port string, https bool) string {
	if port == "" || port == "80" {
		return ""
	}

	if https {
		if n, err := strconv.Atoi(strings.TrimSpace(port)); err == nil && n == 443 {
			return ""
		}
	}

	return ":" + port
}

// siteURLFrom reduces an absolute URL to scheme, host and port. Only the
// part before the path is parsed, so any decoded path is accepted.
func siteURLFrom(current string) (string, error) {
	u, err := url.Parse(authority(current))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrUndeterminableURL, err)
	}

	host := u.Hostname()
	if u.Scheme == "" || host == "" {
		return "", fmt.Errorf("%w: missing scheme or host in %q", ErrUndeterminableURL, current)
	}

	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}

	site := u.Scheme + "://" + host
	if port := u.Port(); port != "" {
		site += ":" + port
	}

	return site, nil
}

// authority returns s cut at the first "/" or "?" after the scheme
// separator.
func authority(s string) string {
	i := strings.Index(s, "://")
	if i < 0 {
		return s
	}

	if j := strings.IndexAny(s[i+3:], "/?"); j >= 0 {
		return s[:i+3+j]
	}

	return s
}
