package api

import "errors"

var (
	// ErrTransport means the request never completed (connection refused,
	// timeout, DNS). Callers map it to a generic failure notice.
	ErrTransport = errors.New("transport failure")
	// ErrBadStatus means the server answered outside the 2xx range.
	ErrBadStatus = errors.New("unexpected response status")
	// ErrBadBody means the response body was not a valid envelope.
	ErrBadBody = errors.New("malformed response body")
)
