package stretch

import "errors"

var (
	// ErrInvalidParameter indicates an invalid construction or rate parameter.
	ErrInvalidParameter = errors.New("stretch: invalid parameter")
	// ErrInvalidRequest indicates an invalid Pull request.
	ErrInvalidRequest = errors.New("stretch: invalid request")
	// ErrRangeUnavailable indicates the source could not supply a requested
	// absolute sample range in full.
	ErrRangeUnavailable = errors.New("stretch: source range unavailable")
)
