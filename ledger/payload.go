package ledger

import (
	"github.com/pkg/errors"
)

type PayloadType = uint32

const (
	PayloadTransaction PayloadType = 0
	PayloadMilestone   PayloadType = 1
	PayloadTaggedData  PayloadType = 2
	PayloadReceipt     PayloadType = 3
	PayloadTreasuryTx  PayloadType = 4

	payloadTypeSize = 4
)

// Payload is one of *Transaction, *TaggedData or *UnknownPayload.
type Payload interface {
	PayloadType() PayloadType
	packBody(e *Encoder)
}

// TaggedData carries arbitrary bytes under a tag. Referendum votes are
// expressed through Data.
type TaggedData struct {
	Tag  []byte
	Data []byte
}

func (p *TaggedData) PayloadType() PayloadType { return PayloadTaggedData }

func (p *TaggedData) packBody(e *Encoder) {
	e.Uint16(uint16(len(p.Tag)))
	e.Raw(p.Tag)
	e.Uint32(uint32(len(p.Data)))
	e.Raw(p.Data)
}

func unpackTaggedData(d *Decoder) *TaggedData {
	p := &TaggedData{}
	p.Tag = d.Bytes(int(d.Uint16()))
	p.Data = d.Bytes(int(d.Uint32()))
	return p
}

// UnknownPayload keeps the body of payload types this package does not
// interpret (milestones, receipts, treasury transactions and future types)
// so the message still re-encodes to the same bytes.
type UnknownPayload struct {
	Type PayloadType
	Body []byte
}

func (p *UnknownPayload) PayloadType() PayloadType { return p.Type }

func (p *UnknownPayload) packBody(e *Encoder) {
	e.Raw(p.Body)
}

// packPayload writes the u32 length prefix followed by the payload. A nil
// payload is encoded as length zero.
func packPayload(e *Encoder, p Payload) {
	if p == nil {
		e.Uint32(0)
		return
	}
	body := &Encoder{}
	body.Uint32(p.PayloadType())
	p.packBody(body)
	e.Uint32(uint32(body.Len()))
	e.Raw(body.Bytes())
}

func unpackPayload(d *Decoder) Payload {
	length := int64(d.Uint32())
	if d.Err() != nil || length == 0 {
		return nil
	}
	if length < payloadTypeSize || length > MaxVarLength {
		d.Fail(errors.Wrapf(ErrLengthMismatch, "payload length %d", length))
		return nil
	}
	start := d.Offset()
	t := d.Uint32()
	if d.Err() != nil {
		return nil
	}

	var p Payload
	switch t {
	case PayloadTransaction:
		p = unpackTransaction(d, start+length)
	case PayloadTaggedData:
		p = unpackTaggedData(d)
	default:
		p = &UnknownPayload{Type: t, Body: d.Bytes(int(length - payloadTypeSize))}
	}
	if d.Err() != nil {
		return nil
	}
	if consumed := d.Offset() - start; consumed != length {
		d.Fail(errors.Wrapf(ErrLengthMismatch, "payload type %d declared %d bytes, read %d", t, length, consumed))
		return nil
	}
	return p
}
