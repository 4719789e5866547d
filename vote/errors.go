package vote

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/vitelabs/go-referendum/common/types"
)

// Extraction outcomes. ErrNoSignal and ErrMalformedSignal classify an output
// as not voted, ErrUnsupportedEssence aborts the tally.
var (
	ErrNoSignal           = errors.New("message carries no vote signal")
	ErrMalformedSignal    = errors.New("vote signal is not valid utf-8")
	ErrUnsupportedEssence = errors.New("unsupported transaction essence")
	ErrUnknownOutput      = errors.New("unknown output variant")
)

// Integrity violations. An IntegrityError unwraps to one of these.
var (
	ErrMissingMessage = errors.New("missing message")
	ErrTreasuryVoted  = errors.New("treasury output can't vote")
	ErrOverflow       = errors.New("amount overflow")
	ErrSupplyMismatch = errors.New("supply mismatch")
)

// IntegrityError means the snapshot and the message cache do not belong
// together, or the snapshot is corrupted. No partial result is returned with it.
type IntegrityError struct {
	Kind      error
	MessageID types.Hash
	OutputID  types.OutputID
	Bucket    Bucket
	Have      uint64
	Want      uint64
}

func (e *IntegrityError) Error() string {
	switch e.Kind {
	case ErrMissingMessage:
		return fmt.Sprintf("%v %s for output %s", e.Kind, e.MessageID, e.OutputID)
	case ErrTreasuryVoted:
		return fmt.Sprintf("%v: output %s of message %s", e.Kind, e.OutputID, e.MessageID)
	case ErrOverflow:
		if e.OutputID == (types.OutputID{}) {
			return fmt.Sprintf("%v in supply total", e.Kind)
		}
		return fmt.Sprintf("%v in %s bucket at output %s", e.Kind, e.Bucket, e.OutputID)
	case ErrSupplyMismatch:
		return fmt.Sprintf("%v: counted %d, total supply is %d", e.Kind, e.Have, e.Want)
	default:
		return fmt.Sprintf("integrity violation: %v", e.Kind)
	}
}

func (e *IntegrityError) Unwrap() error {
	return e.Kind
}

func (e *IntegrityError) Cause() error {
	return e.Kind
}
