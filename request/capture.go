package request

import (
	"mime"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"golang.org/x/net/http/httpguts"
)

// DefaultScriptName is the front controller script assumed when
// CaptureConfig.ScriptName is empty.
const DefaultScriptName = "/index.php"

// CaptureConfig describes the server side of the environment, which an
// *http.Request does not carry.
type CaptureConfig struct {
	// ScriptName is the URL path of the front controller script, e.g.
	// "/app/webroot/index.php". Defaults to DefaultScriptName.
	ScriptName string

	// ServerName is the canonical host name. When empty the host part
	// of a valid Host header is used.
	ServerName string

	// ServerPort overrides the port. When empty it is taken from the
	// local address of the connection, then from the Host header, then
	// from the scheme default.
	ServerPort string
}

func (cfg CaptureConfig) scriptName() string {
	if cfg.ScriptName == "" {
		return DefaultScriptName
	}
	return cfg.ScriptName
}

// Capture builds a globals snapshot from r using CGI variable names.
// Query parameters are stored in Get using the first value of each key.
// The body is not read.
func Capture(r *http.Request, cfg CaptureConfig) Globals {
	server := make(map[string]string, len(r.Header)+16)

	for name, values := range r.Header {
		server[cgiHeaderKey(name)] = strings.Join(values, ", ")
	}

	server[KeyRequestMethod] = r.Method
	server[KeyRequestURI] = requestURI(r)
	server[KeyScriptName] = cfg.scriptName()
	server[KeyQueryString] = r.URL.RawQuery
	server[KeyServerProtocol] = r.Proto
	server[KeyRequestScheme] = "http"

	if r.TLS != nil {
		server[KeyHTTPS] = "on"
		server[KeyRequestScheme] = "https"
	}

	validHost := r.Host != "" && httpguts.ValidHostHeader(r.Host)
	if validHost {
		server[KeyHTTPHost] = r.Host
	} else {
		delete(server, KeyHTTPHost)
	}

	switch {
	case cfg.ServerName != "":
		server[KeyServerName] = cfg.ServerName
	case validHost:
		server[KeyServerName] = hostOnly(r.Host)
	}

	server[KeyServerPort] = serverPort(r, cfg, validHost)

	if host, port, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		server[KeyRemoteAddr] = host
		server[KeyRemotePort] = port
	} else if r.RemoteAddr != "" {
		server[KeyRemoteAddr] = r.RemoteAddr
	}

	if ct := r.Header.Get("Content-Type"); ct != "" {
		server[KeyContentType] = ct
	}
	if r.ContentLength > 0 {
		server[KeyContentLength] = strconv.FormatInt(r.ContentLength, 10)
	}

	return Globals{
		Server: server,
		Get:    firstValues(r.URL.Query()),
		Post:   map[string]string{},
	}
}

// FromHTTPRequest captures r, attaches its body and runs Init. URL encoded
// form bodies are read and their fields stored as form parameters; the
// raw body stays available through Body.
func FromHTTPRequest(r *http.Request, cfg CaptureConfig, opts ...Option) *Request {
	opts = append([]Option{WithBodyStream(r.Body)}, opts...)
	req := New(Capture(r, cfg), opts...)

	if isFormEncoded(r.Header.Get("Content-Type")) {
		req.parseFormBody()
	}

	return req.Init()
}

func (r *Request) parseFormBody() {
	data, err := r.Body()
	if err != nil {
		r.logger.Debug("form body not read", "error", err)
		return
	}

	values, err := url.ParseQuery(data)
	if err != nil {
		r.logger.Debug("form body not parsed", "error", err)
		return
	}

	r.ambient.Post = firstValues(values)
	r.post = NewVars(r.ambient.Post)
}

func isFormEncoded(contentType string) bool {
	if contentType == "" {
		return false
	}

	mt, _, err := mime.ParseMediaType(contentType)
	return err == nil && mt == "application/x-www-form-urlencoded"
}

// requestURI returns the raw request target as sent by the client.
// Absolute-form targets are reduced to path and query.
func requestURI(r *http.Request) string {
	if strings.HasPrefix(r.RequestURI, "/") || r.RequestURI == "*" {
		return r.RequestURI
	}
	return r.URL.RequestURI()
}

// serverPort resolves SERVER_PORT, see CaptureConfig.ServerPort.
func serverPort(r *http.Request, cfg CaptureConfig, validHost bool) string {
	if cfg.ServerPort != "" {
		return cfg.ServerPort
	}

	if addr, ok := r.Context().Value(http.LocalAddrContextKey).(net.Addr); ok && addr != nil {
		if _, port, err := net.SplitHostPort(addr.String()); err == nil && port != "" {
			return port
		}
	}

	if validHost {
		if _, port, err := net.SplitHostPort(r.Host); err == nil && port != "" {
			return port
		}
	}

	if r.TLS != nil {
		return "443"
	}

	return "80"
}

// hostOnly strips the port from a Host header value. IPv6 literals keep
// their brackets so the name can be embedded in a URL.
func hostOnly(hostport string) string {
	host, _, err := net.SplitHostPort(hostport)
	if err != nil {
		return hostport
	}

	if strings.Contains(host, ":") {
		return "[" + host + "]"
	}

	return host
}

// cgiHeaderKey maps a header name to its CGI variable, e.g.
// "X-Forwarded-For" to "HTTP_X_FORWARDED_FOR".
func cgiHeaderKey(name string) string {
	return "HTTP_" + strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
}

func firstValues(values url.Values) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
