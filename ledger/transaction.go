package ledger

import (
	"github.com/pkg/errors"

	"github.com/vitelabs/go-referendum/common/types"
)

type EssenceType = byte

const (
	EssenceRegular EssenceType = 0

	InputUTXO byte = 0

	UnlockSignature byte = 0
	UnlockReference byte = 1

	SignatureEd25519 byte = 0

	Ed25519PublicKeySize = 32
	Ed25519SignatureSize = 64

	MaxInputsCount  = 127
	MaxOutputsCount = 127
)

// Transaction spends inputs and creates outputs.
type Transaction struct {
	Essence      Essence
	UnlockBlocks []UnlockBlock
}

// Essence is one of *RegularEssence or *UnknownEssence.
type Essence interface {
	EssenceType() EssenceType
}

// RegularEssence is the signed body of a transaction.
type RegularEssence struct {
	Inputs  []types.OutputID
	Outputs []Output
	Payload Payload
}

// UnknownEssence keeps an essence of a type this package does not interpret,
// together with everything that follows it inside the transaction payload.
type UnknownEssence struct {
	Type EssenceType
	Body []byte
}

func (e *RegularEssence) EssenceType() EssenceType { return EssenceRegular }
func (e *UnknownEssence) EssenceType() EssenceType { return e.Type }

// UnlockBlock is either a signature or a reference to an earlier signature.
type UnlockBlock struct {
	Type      byte
	PublicKey [Ed25519PublicKeySize]byte
	Signature [Ed25519SignatureSize]byte
	Reference uint16
}

func (tx *Transaction) PayloadType() PayloadType { return PayloadTransaction }

func (tx *Transaction) packBody(e *Encoder) {
	switch essence := tx.Essence.(type) {
	case *RegularEssence:
		e.Uint8(EssenceRegular)
		e.Uint16(uint16(len(essence.Inputs)))
		for _, input := range essence.Inputs {
			e.Uint8(InputUTXO)
			e.Raw(input[:])
		}
		e.Uint16(uint16(len(essence.Outputs)))
		for _, output := range essence.Outputs {
			PackOutput(e, output)
		}
		packPayload(e, essence.Payload)

		e.Uint16(uint16(len(tx.UnlockBlocks)))
		for _, block := range tx.UnlockBlocks {
			e.Uint8(block.Type)
			switch block.Type {
			case UnlockReference:
				e.Uint16(block.Reference)
			default:
				e.Uint8(SignatureEd25519)
				e.Raw(block.PublicKey[:])
				e.Raw(block.Signature[:])
			}
		}
	case *UnknownEssence:
		e.Uint8(essence.Type)
		e.Raw(essence.Body)
	}
}

// unpackTransaction decodes a transaction body whose payload ends at the
// absolute offset end.
func unpackTransaction(d *Decoder, end int64) *Transaction {
	tx := &Transaction{}
	t := d.Uint8()
	if d.Err() != nil {
		return nil
	}
	if t != EssenceRegular {
		tx.Essence = &UnknownEssence{Type: t, Body: d.Bytes(int(end - d.Offset()))}
		return tx
	}

	essence := &RegularEssence{}
	inputCount := d.Uint16()
	if inputCount > MaxInputsCount {
		d.Fail(errors.Wrapf(ErrTooLarge, "%d inputs", inputCount))
		return nil
	}
	for i := uint16(0); i < inputCount && d.Err() == nil; i++ {
		if it := d.Uint8(); d.Err() == nil && it != InputUTXO {
			d.Fail(errors.Wrapf(ErrUnknownInputType, "type %d", it))
			return nil
		}
		essence.Inputs = append(essence.Inputs, d.OutputID())
	}

	outputCount := d.Uint16()
	if outputCount > MaxOutputsCount {
		d.Fail(errors.Wrapf(ErrTooLarge, "%d outputs", outputCount))
		return nil
	}
	for i := uint16(0); i < outputCount && d.Err() == nil; i++ {
		essence.Outputs = append(essence.Outputs, UnpackOutput(d))
	}
	essence.Payload = unpackPayload(d)
	tx.Essence = essence

	blockCount := d.Uint16()
	if blockCount > MaxInputsCount {
		d.Fail(errors.Wrapf(ErrTooLarge, "%d unlock blocks", blockCount))
		return nil
	}
	for i := uint16(0); i < blockCount && d.Err() == nil; i++ {
		block := UnlockBlock{Type: d.Uint8()}
		switch block.Type {
		case UnlockSignature:
			if st := d.Uint8(); d.Err() == nil && st != SignatureEd25519 {
				d.Fail(errors.Wrapf(ErrUnknownUnlockBlock, "signature type %d", st))
				return nil
			}
			copy(block.PublicKey[:], d.Bytes(Ed25519PublicKeySize))
			copy(block.Signature[:], d.Bytes(Ed25519SignatureSize))
		case UnlockReference:
			block.Reference = d.Uint16()
		default:
			d.Fail(errors.Wrapf(ErrUnknownUnlockBlock, "type %d", block.Type))
			return nil
		}
		tx.UnlockBlocks = append(tx.UnlockBlocks, block)
	}
	return tx
}
