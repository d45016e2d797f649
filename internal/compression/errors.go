package compression

import "errors"

var (
	// ErrJudgeFailed wraps any error returned by a Judge.
	ErrJudgeFailed = errors.New("judge failed")

	// ErrUnknownProbeType is returned when parsing an unrecognized probe type.
	ErrUnknownProbeType = errors.New("unknown probe type")
)
