package request

import "errors"

// ErrMalformedBody is returned when a non-empty request body can not be
// decoded as JSON. The decoder error is wrapped and available via
// errors.Unwrap.
var ErrMalformedBody = errors.New("request: malformed body")

// ErrBodyTooLarge is returned when the body stream is longer than the
// limit configured with WithMaxBodyBytes.
var ErrBodyTooLarge = errors.New("request: body too large")

// ErrUndeterminableURL is reported when the absolute site URL can not be
// derived from the server variables. Init never returns it; the site and
// base URLs are left empty instead.
var ErrUndeterminableURL = errors.New("request: undeterminable url")

// ErrBindVars is returned when query or form variables can not be
// decoded into the destination struct.
var ErrBindVars = errors.New("request: cannot bind variables")

// ErrInvalidFixture is returned when a globals fixture can not be parsed.
var ErrInvalidFixture = errors.New("request: invalid fixture")
