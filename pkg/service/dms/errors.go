package dms

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrUnauthorized is returned for 401 and 403 responses
	ErrUnauthorized = goerr.New("backend rejected credentials")

	// ErrUnexpectedStatus is returned for any other non-2xx response
	ErrUnexpectedStatus = goerr.New("unexpected response status")
)

const (
	StatusKey    = "status"
	BodyKey      = "body"
	MethodKey    = "method"
	PathKey      = "path"
	RequestIDKey = "request_id"
)
