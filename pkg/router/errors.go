package router

import (
	"github.com/vango-dev/routestate/internal/errors"
)

// Navigation errors. Errors returned by Navigate and Href carry one of
// these codes and match through errors.Is.
var (
	// ErrUnknownTarget is returned when a path matches no endpoint.
	ErrUnknownTarget error = errors.New("E200")

	// ErrInvalidParam is returned when a segment cannot be parsed with the
	// param's type, or when a required param has no value.
	ErrInvalidParam error = errors.New("E201")

	// ErrInvalidPath is returned for paths that cannot be canonicalized.
	ErrInvalidPath error = errors.New("E202")

	// ErrSegmentMismatch is returned by Href when a segment has the wrong
	// kind for its position.
	ErrSegmentMismatch error = errors.New("E203")
)
