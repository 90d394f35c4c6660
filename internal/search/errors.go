package search

import "errors"

var (
	// ErrInvalidRequest is returned before any index call when the request
	// cannot be served (empty term). It is the only error callers see.
	ErrInvalidRequest = errors.New("invalid search request")
	// ErrIndexUnavailable wraps a kind's index failure. The kind contributes
	// no results; other kinds are unaffected.
	ErrIndexUnavailable = errors.New("index unavailable")
)
