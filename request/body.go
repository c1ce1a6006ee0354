package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

type bodyState int

const (
	// bodyUnread is backed by a live stream that has not been read yet.
	bodyUnread bodyState = iota
	// bodyConsumed holds the cached result of reading the stream.
	bodyConsumed
	// bodyFixed holds a body set explicitly by the caller.
	bodyFixed
)

type body struct {
	state  bodyState
	stream io.Reader
	data   string
	err    error
}

// SetBody replaces the request body with a fixed value that can be read
// any number of times. Any attached stream is no longer read.
func (r *Request) SetBody(s string) *Request {
	r.body = body{state: bodyFixed, data: s}
	return r
}

// Body returns the request body. A live stream is read once on the first
// call; the result, including a read error, is returned by later calls.
// Without a stream or a fixed body the body is empty.
func (r *Request) Body() (string, error) {
	if r.body.state != bodyUnread {
		return r.body.data, r.body.err
	}

	data, err := r.readStream()
	r.body = body{state: bodyConsumed, data: data, err: err}

	return data, err
}

func (r *Request) readStream() (string, error) {
	if r.body.stream == nil {
		return "", nil
	}

	rd := r.body.stream
	if r.maxBodyBytes > 0 {
		rd = io.LimitReader(rd, r.maxBodyBytes+1)
	}

	b, err := io.ReadAll(rd)
	if err != nil {
		return "", fmt.Errorf("request: read body: %w", err)
	}

	if r.maxBodyBytes > 0 && int64(len(b)) > r.maxBodyBytes {
		return "", fmt.Errorf("%w: limit is %d bytes", ErrBodyTooLarge, r.maxBodyBytes)
	}

	return string(b), nil
}

// BodyAsJSON decodes the body as JSON. It returns nil for an empty body
// and an error wrapping ErrMalformedBody when the body is not a single
// valid JSON value.
func (r *Request) BodyAsJSON() (any, error) {
	data, err := r.Body()
	if err != nil {
		return nil, err
	}

	if data == "" {
		return nil, nil
	}

	var v any
	if err := decodeJSON(data, &v, true); err != nil {
		return nil, err
	}

	return v, nil
}

// BindJSON decodes the body as JSON into v. Unknown object fields are
// rejected unless allowUnknownFields is true. An empty body is malformed.
func (r *Request) BindJSON(v any, allowUnknownFields ...bool) error {
	data, err := r.Body()
	if err != nil {
		return err
	}

	allow := len(allowUnknownFields) > 0 && allowUnknownFields[0]

	return decodeJSON(data, v, allow)
}

// decodeJSON requires exactly one JSON value in data.
func decodeJSON(data string, v any, allowUnknownFields bool) error {
	dec := json.NewDecoder(strings.NewReader(data))
	if !allowUnknownFields {
		dec.DisallowUnknownFields()
	}

	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedBody, err)
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected trailing data after JSON value", ErrMalformedBody)
	}

	return nil
}
