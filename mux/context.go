package mux

import (
	"context"
	"errors"
	"net/http"
	"slices"

	"github.com/vitalvas/frontctl/request"
)

// matchContextKey is an unexported type for the single context key.
type matchContextKey struct{}

// matchContext holds the dispatched action and its arguments.
type matchContext struct {
	action *Action
	args   []string
}

// Current returns the captured request, if any. It is available to
// middleware and handlers served by a Router.
func Current(r *http.Request) *request.Request {
	if req, ok := request.FromContext(r.Context()); ok {
		return req
	}
	return nil
}

// Args returns the route segments after controller and action.
func Args(r *http.Request) []string {
	if mc, ok := r.Context().Value(matchContextKey{}).(*matchContext); ok {
		return slices.Clone(mc.args)
	}
	return nil
}

// Arg returns the argument at index i and whether it exists.
func Arg(r *http.Request, i int) (string, bool) {
	if mc, ok := r.Context().Value(matchContextKey{}).(*matchContext); ok && i >= 0 && i < len(mc.args) {
		return mc.args[i], true
	}
	return "", false
}

// CurrentAction returns the dispatched action. This only works inside
// the handler of the action.
func CurrentAction(r *http.Request) *Action {
	if mc, ok := r.Context().Value(matchContextKey{}).(*matchContext); ok {
		return mc.action
	}
	return nil
}

// SetArgs sets the action arguments for the given request, returning the
// modified request. This is intended for testing action handlers.
func SetArgs(r *http.Request, args []string) *http.Request {
	return setMatchContext(r, CurrentAction(r), args)
}

func setMatchContext(r *http.Request, action *Action, args []string) *http.Request {
	ctx := context.WithValue(r.Context(), matchContextKey{}, &matchContext{action: action, args: args})
	return r.WithContext(ctx)
}

// Match stores the result of resolving a route.
type Match struct {
	// Action is the resolved action. It is also set on a method mismatch.
	Action *Action

	// Args are the route segments after controller and action.
	Args []string

	// MatchErr is ErrNotFound or ErrMethodMismatch when matching failed.
	MatchErr error

	// Allowed lists the methods of Action on ErrMethodMismatch.
	Allowed []string
}

// ErrMethodMismatch is reported when the action exists but does not
// accept the request method. Triggers 405 Method Not Allowed.
var ErrMethodMismatch = errors.New("method is not allowed")

// ErrNotFound is reported when no action is registered for the route.
// Triggers 404 Not Found.
var ErrNotFound = errors.New("no matching action was found")
