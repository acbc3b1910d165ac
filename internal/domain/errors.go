package domain

import "errors"

var (
	// ErrNotFound indicates resource not found
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidRequest indicates invalid request
	ErrInvalidRequest = errors.New("invalid request")
	// ErrUpstreamUnavailable indicates a retrieval or completion collaborator failure
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
)
