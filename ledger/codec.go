package ledger

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/pkg/errors"

	"github.com/vitelabs/go-referendum/common/types"
)

// MaxVarLength bounds every length-prefixed field, so a corrupted length can
// not trigger a huge allocation.
const MaxVarLength = MessageMaxSize

// Decoder reads the little-endian ledger encoding from a stream. The first
// error is sticky: later reads return zero values and Err reports it.
type Decoder struct {
	r       io.Reader
	off     int64
	err     error
	scratch [8]byte
}

func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r}
}

func (d *Decoder) Err() error {
	return d.err
}

func (d *Decoder) Offset() int64 {
	return d.off
}

// Fail records err unless an earlier error is already recorded.
func (d *Decoder) Fail(err error) {
	if d.err == nil && err != nil {
		d.err = err
	}
}

func (d *Decoder) read(buf []byte) bool {
	if d.err != nil {
		return false
	}
	n, err := io.ReadFull(d.r, buf)
	d.off += int64(n)
	if err != nil {
		if err == io.EOF {
			err = io.ErrUnexpectedEOF
		}
		d.err = err
		return false
	}
	return true
}

func (d *Decoder) Uint8() uint8 {
	if !d.read(d.scratch[:1]) {
		return 0
	}
	return d.scratch[0]
}

func (d *Decoder) Uint16() uint16 {
	if !d.read(d.scratch[:2]) {
		return 0
	}
	return binary.LittleEndian.Uint16(d.scratch[:2])
}

func (d *Decoder) Uint32() uint32 {
	if !d.read(d.scratch[:4]) {
		return 0
	}
	return binary.LittleEndian.Uint32(d.scratch[:4])
}

func (d *Decoder) Uint64() uint64 {
	if !d.read(d.scratch[:8]) {
		return 0
	}
	return binary.LittleEndian.Uint64(d.scratch[:8])
}

func (d *Decoder) Hash() types.Hash {
	var h types.Hash
	d.read(h[:])
	return h
}

func (d *Decoder) OutputID() types.OutputID {
	var id types.OutputID
	d.read(id[:])
	return id
}

// Bytes reads n raw bytes. n is bounded by MaxVarLength.
func (d *Decoder) Bytes(n int) []byte {
	if d.err != nil {
		return nil
	}
	if n < 0 || n > MaxVarLength {
		d.Fail(errors.Wrapf(ErrTooLarge, "%d bytes", n))
		return nil
	}
	buf := make([]byte, n)
	if !d.read(buf) {
		return nil
	}
	return buf
}

// Encoder writes the little-endian ledger encoding.
type Encoder struct {
	buf     bytes.Buffer
	scratch [8]byte
}

func (e *Encoder) Uint8(v uint8) {
	e.buf.WriteByte(v)
}

func (e *Encoder) Uint16(v uint16) {
	binary.LittleEndian.PutUint16(e.scratch[:2], v)
	e.buf.Write(e.scratch[:2])
}

func (e *Encoder) Uint32(v uint32) {
	binary.LittleEndian.PutUint32(e.scratch[:4], v)
	e.buf.Write(e.scratch[:4])
}

func (e *Encoder) Uint64(v uint64) {
	binary.LittleEndian.PutUint64(e.scratch[:8], v)
	e.buf.Write(e.scratch[:8])
}

func (e *Encoder) Raw(b []byte) {
	e.buf.Write(b)
}

func (e *Encoder) Len() int {
	return e.buf.Len()
}

func (e *Encoder) Bytes() []byte {
	return e.buf.Bytes()
}

// WriteTo flushes the encoded bytes to w.
func (e *Encoder) WriteTo(w io.Writer) (int64, error) {
	return e.buf.WriteTo(w)
}
