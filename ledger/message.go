package ledger

import (
	"bytes"
	"io"

	"github.com/pkg/errors"

	"github.com/vitelabs/go-referendum/common/types"
	"github.com/vitelabs/go-referendum/crypto"
)

const (
	MessageMaxSize = 32768

	MinParentsCount = 1
	MaxParentsCount = 8
)

// Message is an immutable ledger record. Its id is the blake2b-256 digest of
// its encoding and is never stored alongside it.
type Message struct {
	NetworkID uint64
	Parents   []types.Hash
	Payload   Payload
	Nonce     uint64
}

func (m *Message) pack(e *Encoder) {
	e.Uint64(m.NetworkID)
	e.Uint8(uint8(len(m.Parents)))
	for _, parent := range m.Parents {
		e.Raw(parent[:])
	}
	packPayload(e, m.Payload)
	e.Uint64(m.Nonce)
}

func (m *Message) Serialize() ([]byte, error) {
	if len(m.Parents) < MinParentsCount || len(m.Parents) > MaxParentsCount {
		return nil, errors.Errorf("message must have %d to %d parents, has %d", MinParentsCount, MaxParentsCount, len(m.Parents))
	}
	e := &Encoder{}
	m.pack(e)
	if e.Len() > MessageMaxSize {
		return nil, errors.Wrapf(ErrTooLarge, "message is %d bytes", e.Len())
	}
	return e.Bytes(), nil
}

// ComputeHash returns the message id.
func (m *Message) ComputeHash() (types.Hash, error) {
	buf, err := m.Serialize()
	if err != nil {
		return types.Hash{}, err
	}
	return types.DataHash(buf), nil
}

// Unpack decodes one message from d. Errors are left on d.
func (m *Message) Unpack(d *Decoder) {
	m.NetworkID = d.Uint64()
	count := int(d.Uint8())
	if d.Err() != nil {
		return
	}
	if count < MinParentsCount || count > MaxParentsCount {
		d.Fail(errors.Errorf("invalid parents count %d", count))
		return
	}
	m.Parents = make([]types.Hash, 0, count)
	for i := 0; i < count; i++ {
		m.Parents = append(m.Parents, d.Hash())
	}
	m.Payload = unpackPayload(d)
	m.Nonce = d.Uint64()
}

// ReadMessage decodes one message from a stream and returns it together with
// its id.
func ReadMessage(d *Decoder) (*Message, types.Hash, error) {
	start := d.Offset()
	hasher := crypto.NewHasher256()
	tee := NewDecoder(io.TeeReader(decoderReader{d}, hasher))

	m := &Message{}
	m.Unpack(tee)
	if err := tee.Err(); err != nil {
		return nil, types.Hash{}, err
	}
	if size := d.Offset() - start; size > MessageMaxSize {
		return nil, types.Hash{}, errors.Wrapf(ErrTooLarge, "message is %d bytes", size)
	}

	id, _ := types.BytesToHash(hasher.Sum(nil))
	return m, id, nil
}

// DeserializeMessage decodes a message that must span all of data.
func DeserializeMessage(data []byte) (*Message, error) {
	r := bytes.NewReader(data)
	d := NewDecoder(r)
	m := &Message{}
	m.Unpack(d)
	if err := d.Err(); err != nil {
		return nil, NewDecodeError("message", d.Offset(), err)
	}
	if r.Len() != 0 {
		return nil, NewDecodeError("message", d.Offset(), errors.Wrapf(ErrLengthMismatch, "%d trailing bytes", r.Len()))
	}
	return m, nil
}

// decoderReader exposes the raw stream of a Decoder while keeping its offset
// accounting.
type decoderReader struct {
	d *Decoder
}

func (r decoderReader) Read(p []byte) (int, error) {
	if r.d.err != nil {
		return 0, r.d.err
	}
	n, err := r.d.r.Read(p)
	r.d.off += int64(n)
	return n, err
}
