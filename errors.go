package vocdata

import (
	"github.com/pkg/errors"
)

// Sentinel errors. Returned errors wrap these with the offending file, id or field, so test them
// with errors.Is.
var (
	ErrUnknownClass    = errors.New("unknown class name")
	ErrMissingField    = errors.New("missing annotation field")
	ErrInvalidField    = errors.New("invalid annotation field")
	ErrIndexOutOfRange = errors.New("sample index out of range")
)
