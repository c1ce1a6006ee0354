package mux

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/vitalvas/frontctl/request"
)

// DefaultName is used for a missing controller or action segment.
const DefaultName = "index"

// Config configures how the Router captures requests.
type Config struct {
	// ScriptName is the URL path of the front controller script.
	// Defaults to request.DefaultScriptName.
	ScriptName string

	// ServerName and ServerPort override the values derived from the
	// Host header and the connection.
	ServerName string
	ServerPort string

	// MaxBodyBytes limits how much of the body is read. Zero disables
	// the limit.
	MaxBodyBytes int64

	// Logger receives dispatch diagnostics at debug level. When nil,
	// nothing is logged.
	Logger *slog.Logger
}

// Router is a front controller. For every request it captures the
// environment into a request.Request, stores it in the request context,
// runs the middleware and dispatches on the route segments
// controller/action/args...
//
//	r := mux.NewRouter(mux.Config{ScriptName: "/app/index.php"})
//	r.HandleFunc("user", "view", viewUser).Methods(http.MethodGet)
//	http.ListenAndServe(":8080", r)
type Router struct {
	// NotFoundHandler is called when no action matches the route.
	// If nil, http.NotFoundHandler() is used.
	NotFoundHandler http.Handler

	// MethodNotAllowedHandler is called when an action matches but not
	// its methods. The Allow header is set before it is invoked.
	// If nil, a plain 405 response is written.
	MethodNotAllowedHandler http.Handler

	capture      request.CaptureConfig
	maxBodyBytes int64
	logger       *slog.Logger

	mu          sync.RWMutex
	actions     map[string]map[string]*Action
	middlewares []MiddlewareFunc
}

// NewRouter returns a new front controller.
func NewRouter(cfg Config) *Router {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Router{
		capture: request.CaptureConfig{
			ScriptName: cfg.ScriptName,
			ServerName: cfg.ServerName,
			ServerPort: cfg.ServerPort,
		},
		maxBodyBytes: cfg.MaxBodyBytes,
		logger:       logger,
		actions:      make(map[string]map[string]*Action),
	}
}

// Handle registers h for controller and action. Empty names mean
// DefaultName. Registering the same pair again replaces the action.
func (rt *Router) Handle(controller, action string, h http.Handler) *Action {
	a := &Action{
		controller: normalizeName(controller),
		action:     normalizeName(action),
		handler:    h,
	}

	rt.mu.Lock()
	defer rt.mu.Unlock()

	byAction, ok := rt.actions[a.controller]
	if !ok {
		byAction = make(map[string]*Action)
		rt.actions[a.controller] = byAction
	}
	byAction[a.action] = a

	return a
}

// HandleFunc registers f for controller and action.
func (rt *Router) HandleFunc(controller, action string, f func(http.ResponseWriter, *http.Request)) *Action {
	return rt.Handle(controller, action, http.HandlerFunc(f))
}

// Use appends middleware. They run in the order added, after the request
// has been captured and before the action is resolved.
func (rt *Router) Use(mwf ...MiddlewareFunc) {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	rt.middlewares = append(rt.middlewares, mwf...)
}

// ServeHTTP captures the request and dispatches it.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	opts := []request.Option{request.WithLogger(rt.logger)}
	if rt.maxBodyBytes > 0 {
		opts = append(opts, request.WithMaxBodyBytes(rt.maxBodyBytes))
	}

	req := request.FromHTTPRequest(r, rt.capture, opts...)
	r = r.WithContext(request.NewContext(r.Context(), req))

	rt.mu.RLock()
	handler := applyMiddleware(http.HandlerFunc(rt.dispatch), rt.middlewares)
	rt.mu.RUnlock()

	handler.ServeHTTP(w, r)
}

// dispatch resolves the action from the request stored in the context.
// Middleware may have changed it, so the route is read here.
func (rt *Router) dispatch(w http.ResponseWriter, r *http.Request) {
	req, ok := request.FromContext(r.Context())
	if !ok {
		req = request.FromHTTPRequest(r, rt.capture)
		r = r.WithContext(request.NewContext(r.Context(), req))
	}

	var match Match
	if !rt.Match(req, &match) {
		if errors.Is(match.MatchErr, ErrMethodMismatch) {
			rt.logger.Debug("method not allowed",
				"route", req.Route(), "method", req.Method(), "allow", match.Allowed)

			w.Header().Set("Allow", strings.Join(match.Allowed, ", "))
			handler := rt.MethodNotAllowedHandler
			if handler == nil {
				handler = defaultMethodNotAllowedHandler
			}
			handler.ServeHTTP(w, r)
			return
		}

		rt.logger.Debug("no action for route", "route", req.Route(), "method", req.Method())

		handler := rt.NotFoundHandler
		if handler == nil {
			handler = defaultNotFoundHandler
		}
		handler.ServeHTTP(w, r)
		return
	}

	rt.logger.Debug("dispatch",
		"controller", match.Action.controller,
		"action", match.Action.action,
		"args", match.Args,
		"method", req.Method())

	match.Action.handler.ServeHTTP(w, setMatchContext(r, match.Action, match.Args))
}

// Match resolves the action for req. On failure match.MatchErr is
// ErrNotFound or ErrMethodMismatch; in the latter case match.Allowed
// lists the registered methods.
func (rt *Router) Match(req *request.Request, match *Match) bool {
	controller, action, args := splitRoute(req.RouteParts())

	rt.mu.RLock()
	a := rt.actions[controller][action]
	rt.mu.RUnlock()

	if a == nil || a.handler == nil {
		match.MatchErr = ErrNotFound
		return false
	}

	if !a.allows(req.Method()) {
		match.Action = a
		match.MatchErr = ErrMethodMismatch
		match.Allowed = a.GetMethods()
		return false
	}

	match.Action = a
	match.Args = args
	match.MatchErr = nil

	return true
}

// splitRoute maps route parts to controller, action and arguments.
func splitRoute(parts []string) (controller, action string, args []string) {
	controller, action = DefaultName, DefaultName
	args = []string{}

	if len(parts) > 0 {
		controller = normalizeName(parts[0])
	}
	if len(parts) > 1 {
		action = normalizeName(parts[1])
	}
	if len(parts) > 2 {
		args = parts[2:]
	}

	return controller, action, args
}

func normalizeName(name string) string {
	if name == "" {
		return DefaultName
	}
	return name
}

var (
	defaultNotFoundHandler         = http.NotFoundHandler()
	defaultMethodNotAllowedHandler = http.HandlerFunc(methodNotAllowed)
)

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusMethodNotAllowed)
}
