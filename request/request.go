package request

import (
	"io"
	"log/slog"
	"slices"
)

// Server variable names read by Init and CurrentURL. They follow the CGI
// naming used by web servers.
const (
	KeyRequestURI     = "REQUEST_URI"
	KeyScriptName     = "SCRIPT_NAME"
	KeyRequestMethod  = "REQUEST_METHOD"
	KeyRequestScheme  = "REQUEST_SCHEME"
	KeyHTTPS          = "HTTPS"
	KeyServerName     = "SERVER_NAME"
	KeyHTTPHost       = "HTTP_HOST"
	KeyServerPort     = "SERVER_PORT"
	KeyQueryString    = "QUERY_STRING"
	KeyRemoteAddr     = "REMOTE_ADDR"
	KeyRemotePort     = "REMOTE_PORT"
	KeyServerProtocol = "SERVER_PROTOCOL"
	KeyContentType    = "CONTENT_TYPE"
	KeyContentLength  = "CONTENT_LENGTH"
	KeyUniqueID       = "UNIQUE_ID"
)

// Globals is an explicit snapshot of the transport variables of one
// request. A nil map means "no value supplied for this group".
type Globals struct {
	Server map[string]string
	Get    map[string]string
	Post   map[string]string

	// Body, when non-nil, is used as a fixed request body.
	Body *string
}

// Option configures a Request.
type Option func(*Request)

// WithBodyStream attaches the live request body. It is read at most once.
func WithBodyStream(rd io.Reader) Option {
	return func(r *Request) {
		r.body = body{state: bodyUnread, stream: rd}
	}
}

// WithMaxBodyBytes limits how many bytes are read from the body stream.
// Values <= 0 disable the limit.
func WithMaxBodyBytes(n int64) Option {
	return func(r *Request) {
		r.maxBodyBytes = n
	}
}

// WithLogger sets the logger used for diagnostics. Nil keeps the default,
// which discards everything.
func WithLogger(l *slog.Logger) Option {
	return func(r *Request) {
		if l != nil {
			r.logger = l
		}
	}
}

// Request holds the routing relevant data of a single HTTP request.
//
// A Request is not safe for concurrent use. Derived values are computed
// by Init and stay frozen until Init is called again.
type Request struct {
	ambient Globals

	server *Vars
	get    *Vars
	post   *Vars

	body         body
	maxBodyBytes int64

	requestURI string
	scriptPath string
	scriptName string

	route      string
	routeParts []string

	currentURL string
	siteURL    string
	baseURL    string

	logger *slog.Logger
}

// New returns a Request seeded from the ambient snapshot. Init must be
// called before the derived values are available. A body in the ambient
// snapshot takes precedence over WithBodyStream.
func New(ambient Globals, opts ...Option) *Request {
	r := &Request{
		ambient: ambient,
		server:  &Vars{},
		get:     &Vars{},
		post:    &Vars{},
		logger:  slog.New(slog.DiscardHandler),
	}

	for _, opt := range opts {
		opt(r)
	}

	if ambient.Body != nil {
		r.body = body{state: bodyFixed, data: *ambient.Body}
	}

	r.SetGlobals(Globals{})

	return r
}

// SetGlobals replaces the server, query and form variables. For each
// group the override map, when given, is merged over the ambient
// snapshot; otherwise the ambient snapshot is used as is. A body in
// overrides replaces the current body.
func (r *Request) SetGlobals(overrides Globals) {
	r.server = mergeGroup(r.ambient.Server, overrides.Server)
	r.get = mergeGroup(r.ambient.Get, overrides.Get)
	r.post = mergeGroup(r.ambient.Post, overrides.Post)

	if overrides.Body != nil {
		r.SetBody(*overrides.Body)
	}
}

func mergeGroup(ambient, override map[string]string) *Vars {
	v := NewVars(ambient)
	if override != nil {
		v.Merge(override)
	}
	return v
}

// UnsetGlobals empties the server, query and form variables.
func (r *Request) UnsetGlobals() {
	r.server.reset()
	r.get.reset()
	r.post.reset()
}

// Init derives the route and the URLs from the server variables.
// When no absolute URL can be built the site and base URLs are left
// empty; Init itself never fails.
func (r *Request) Init() *Request {
	r.requestURI = rawURLDecode(r.server.Get(KeyRequestURI, ""))
	r.scriptPath, r.scriptName = splitScriptName(rawURLDecode(r.server.Get(KeyScriptName, "")))

	r.ExtractRoute()

	r.currentURL = r.CurrentURL(true)
	r.siteURL = ""
	r.baseURL = ""

	site, err := siteURLFrom(r.currentURL)
	if err != nil {
		r.logger.Debug("site url not available", "url", r.currentURL, "error", err)
		return r
	}

	r.siteURL = site
	r.baseURL = site + r.scriptPath

	return r
}

// SiteURL returns scheme, host and non-default port, e.g.
// "http://example.com:8080". It is empty before a successful Init.
func (r *Request) SiteURL() string {
	return r.siteURL
}

// BaseURL returns the site URL followed by the directory of the front
// controller script. It is empty before a successful Init.
func (r *Request) BaseURL() string {
	return r.baseURL
}

// ScriptName returns the file name of the front controller script.
func (r *Request) ScriptName() string {
	return r.scriptName
}

// ScriptPath returns the decoded directory of the front controller
// script without a trailing slash.
func (r *Request) ScriptPath() string {
	return r.scriptPath
}

// RequestURI returns the decoded request URI seen by the last Init.
func (r *Request) RequestURI() string {
	return r.requestURI
}

// Route returns the route extracted by the last Init.
func (r *Request) Route() string {
	return r.route
}

// RouteParts returns the route split on "/". An empty route yields a
// single empty part. It returns nil before the first Init.
func (r *Request) RouteParts() []string {
	return slices.Clone(r.routeParts)
}

// Method returns the REQUEST_METHOD server variable.
func (r *Request) Method() string {
	return r.server.Get(KeyRequestMethod, "")
}

// Server returns a server variable or def when it is not set.
func (r *Request) Server(key, def string) string {
	return r.server.Get(key, def)
}

// ServerVars returns a copy of all server variables.
func (r *Request) ServerVars() map[string]string {
	return r.server.All()
}

// HasServer reports whether the server variable exists.
func (r *Request) HasServer(key string) bool {
	return r.server.Has(key)
}

// SetServer sets a single server variable.
func (r *Request) SetServer(key, value string) *Request {
	r.server.Set(key, value)
	return r
}

// MergeServer merges m over the server variables.
func (r *Request) MergeServer(m map[string]string) *Request {
	r.server.Merge(m)
	return r
}

// Get returns a query string parameter or def when it is not set.
func (r *Request) Get(key, def string) string {
	return r.get.Get(key, def)
}

// GetVars returns a copy of all query string parameters.
func (r *Request) GetVars() map[string]string {
	return r.get.All()
}

// HasGet reports whether the query string parameter exists.
func (r *Request) HasGet(key string) bool {
	return r.get.Has(key)
}

// SetGet sets a single query string parameter.
func (r *Request) SetGet(key, value string) *Request {
	r.get.Set(key, value)
	return r
}

// MergeGet merges m over the query string parameters.
func (r *Request) MergeGet(m map[string]string) *Request {
	r.get.Merge(m)
	return r
}

// Post returns a form parameter or def when it is not set.
func (r *Request) Post(key, def string) string {
	return r.post.Get(key, def)
}

// PostVars returns a copy of all form parameters.
func (r *Request) PostVars() map[string]string {
	return r.post.All()
}

// HasPost reports whether the form parameter exists.
func (r *Request) HasPost(key string) bool {
	return r.post.Has(key)
}

// SetPost sets a single form parameter.
func (r *Request) SetPost(key, value string) *Request {
	r.post.Set(key, value)
	return r
}

// MergePost merges m over the form parameters.
func (r *Request) MergePost(m map[string]string) *Request {
	r.post.Merge(m)
	return r
}
