package ledger

import (
	"github.com/pkg/errors"
)

type OutputType = byte

const (
	OutputSigLockedSingle        OutputType = 0
	OutputSigLockedDustAllowance OutputType = 1
	OutputTreasury               OutputType = 2

	AddressEd25519 byte = 0

	Ed25519AddressSize = 32
)

// TokenSupply is the total amount of tokens that exist on the ledger.
const TokenSupply uint64 = 2_779_530_283_277_761

type Ed25519Address [Ed25519AddressSize]byte

// Output is one of *SigLockedSingleOutput, *SigLockedDustAllowanceOutput
// or *TreasuryOutput.
type Output interface {
	Type() OutputType
	pack(e *Encoder)
}

// SigLockedSingleOutput holds a plain amount of tokens.
type SigLockedSingleOutput struct {
	Address Ed25519Address
	Amount  uint64
}

// SigLockedDustAllowanceOutput holds tokens and allows its address to receive
// dust outputs.
type SigLockedDustAllowanceOutput struct {
	Address Ed25519Address
	Amount  uint64
}

// TreasuryOutput holds protocol-reserved funds.
type TreasuryOutput struct {
	Amount uint64
}

func (o *SigLockedSingleOutput) Type() OutputType        { return OutputSigLockedSingle }
func (o *SigLockedDustAllowanceOutput) Type() OutputType { return OutputSigLockedDustAllowance }
func (o *TreasuryOutput) Type() OutputType               { return OutputTreasury }

// Deposit is the amount held by a value output.
func (o *SigLockedSingleOutput) Deposit() uint64        { return o.Amount }
func (o *SigLockedDustAllowanceOutput) Deposit() uint64 { return o.Amount }

func (o *SigLockedSingleOutput) pack(e *Encoder) {
	e.Uint8(OutputSigLockedSingle)
	packAddress(e, o.Address)
	e.Uint64(o.Amount)
}

func (o *SigLockedDustAllowanceOutput) pack(e *Encoder) {
	e.Uint8(OutputSigLockedDustAllowance)
	packAddress(e, o.Address)
	e.Uint64(o.Amount)
}

func (o *TreasuryOutput) pack(e *Encoder) {
	e.Uint8(OutputTreasury)
	e.Uint64(o.Amount)
}

func packAddress(e *Encoder, addr Ed25519Address) {
	e.Uint8(AddressEd25519)
	e.Raw(addr[:])
}

func unpackAddress(d *Decoder) Ed25519Address {
	var addr Ed25519Address
	if t := d.Uint8(); d.Err() == nil && t != AddressEd25519 {
		d.Fail(errors.Wrapf(ErrUnknownAddressType, "type %d", t))
		return addr
	}
	copy(addr[:], d.Bytes(Ed25519AddressSize))
	return addr
}

// PackOutput appends the encoding of o.
func PackOutput(e *Encoder, o Output) {
	o.pack(e)
}

// UnpackOutput decodes one output. Unknown output types are a decode failure
// since their length can not be known.
func UnpackOutput(d *Decoder) Output {
	t := d.Uint8()
	if d.Err() != nil {
		return nil
	}
	switch t {
	case OutputSigLockedSingle:
		addr := unpackAddress(d)
		return &SigLockedSingleOutput{Address: addr, Amount: d.Uint64()}
	case OutputSigLockedDustAllowance:
		addr := unpackAddress(d)
		return &SigLockedDustAllowanceOutput{Address: addr, Amount: d.Uint64()}
	case OutputTreasury:
		return &TreasuryOutput{Amount: d.Uint64()}
	default:
		d.Fail(errors.Wrapf(ErrUnknownOutputType, "type %d", t))
		return nil
	}
}
