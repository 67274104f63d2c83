package guard

import "errors"

// Sentinel errors returned by rule loading and compilation helpers.
// The evaluation path itself never returns an error: malformed rules
// are skipped and evaluation degrades to the least-surprising default.
var (
	ErrInvalidPattern = errors.New("guard: invalid pattern")
	ErrInvalidRule    = errors.New("guard: invalid rule")
)
