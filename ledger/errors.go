package ledger

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	ErrUnknownOutputType  = errors.New("unknown output type")
	ErrUnknownInputType   = errors.New("unknown input type")
	ErrUnknownUnlockBlock = errors.New("unknown unlock block type")
	ErrUnknownAddressType = errors.New("unknown address type")
	ErrLengthMismatch     = errors.New("declared length does not match content")
	ErrTooLarge           = errors.New("length exceeds limit")
)

// DecodeError reports malformed or truncated binary input. What names the
// artifact being decoded and Offset is the byte position where decoding stopped.
type DecodeError struct {
	What   string
	Offset int64
	Err    error
}

func NewDecodeError(what string, offset int64, err error) *DecodeError {
	return &DecodeError{What: what, Offset: offset, Err: err}
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s failed at offset %d: %v", e.What, e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

func (e *DecodeError) Cause() error {
	return e.Err
}

// IsDecodeError reports whether err is, or wraps, a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
