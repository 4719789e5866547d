package message_cache

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/vitelabs/go-referendum/common/types"
	"github.com/vitelabs/go-referendum/ledger"
)

const readBufferSize = 256 * 1024

// Reader decodes a message cache file: a u64 record count followed by that
// many encoded messages.
type Reader struct {
	br    *bufio.Reader
	d     *ledger.Decoder
	count uint64
	read  uint64
}

func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReaderSize(r, readBufferSize)
	d := ledger.NewDecoder(br)

	count := d.Uint64()
	if err := d.Err(); err != nil {
		return nil, ledger.NewDecodeError("message cache header", d.Offset(), err)
	}
	return &Reader{br: br, d: d, count: count}, nil
}

// Count is the number of records declared in the header.
func (r *Reader) Count() uint64 {
	return r.count
}

// Next returns the next record and its message id, or io.EOF once Count
// records have been read.
func (r *Reader) Next() (*ledger.Message, types.Hash, error) {
	if r.read >= r.count {
		return nil, types.Hash{}, io.EOF
	}
	msg, id, err := ledger.ReadMessage(r.d)
	if err != nil {
		what := fmt.Sprintf("message cache record %d of %d", r.read, r.count)
		return nil, types.Hash{}, ledger.NewDecodeError(what, r.d.Offset(), err)
	}
	r.read++
	return msg, id, nil
}

// Trailing reports whether bytes follow the last declared record.
func (r *Reader) Trailing() (bool, error) {
	if r.read < r.count {
		return false, errors.Errorf("%d of %d records not read yet", r.count-r.read, r.count)
	}
	_, err := r.br.Peek(1)
	if err == io.EOF {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
