package request

import "context"

// contextKey is an unexported type for the context key.
type contextKey struct{}

// NewContext returns a copy of ctx carrying req.
func NewContext(ctx context.Context, req *Request) context.Context {
	return context.WithValue(ctx, contextKey{}, req)
}

// FromContext returns the Request stored by NewContext, if any.
func FromContext(ctx context.Context) (*Request, bool) {
	req, ok := ctx.Value(contextKey{}).(*Request)
	return req, ok && req != nil
}
