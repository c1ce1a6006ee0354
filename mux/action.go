package mux

import (
	"net/http"
	"slices"
	"strings"
)

// Action is a handler registered for a controller and action pair.
type Action struct {
	controller string
	action     string
	handler    http.Handler
	methods    []string
}

// Methods restricts the action to the given request methods. Methods
// are matched case-insensitively against REQUEST_METHOD. Without a call
// to Methods every method is accepted.
func (a *Action) Methods(methods ...string) *Action {
	for _, m := range methods {
		m = strings.ToUpper(m)
		if !slices.Contains(a.methods, m) {
			a.methods = append(a.methods, m)
		}
	}
	return a
}

// GetMethods returns the sorted methods of the action, or nil when every
// method is accepted.
func (a *Action) GetMethods() []string {
	if len(a.methods) == 0 {
		return nil
	}

	out := slices.Clone(a.methods)
	slices.Sort(out)

	return out
}

// Controller returns the controller name.
func (a *Action) Controller() string {
	return a.controller
}

// Name returns the action name.
func (a *Action) Name() string {
	return a.action
}

// Handler returns the registered handler.
func (a *Action) Handler() http.Handler {
	return a.handler
}

func (a *Action) allows(method string) bool {
	if len(a.methods) == 0 {
		return true
	}
	return slices.Contains(a.methods, strings.ToUpper(method))
}
