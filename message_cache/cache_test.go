package message_cache

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"gotest.tools/assert"
	is "gotest.tools/assert/cmp"

	"github.com/vitelabs/go-referendum/ledger"
	"github.com/vitelabs/go-referendum/ledger/test_tools"
)

func newMessages(n int) []*ledger.Message {
	msgs := make([]*ledger.Message, 0, n)
	for i := 0; i < n; i++ {
		switch i % 3 {
		case 0:
			msgs = append(msgs, test_tools.NewVoteMessage(fmt.Sprintf("m%d", i), []byte("build")))
		case 1:
			msgs = append(msgs, test_tools.NewVoteMessage(fmt.Sprintf("m%d", i), []byte("burn")))
		default:
			msgs = append(msgs, test_tools.NewTransferMessage(fmt.Sprintf("m%d", i)))
		}
	}
	return msgs
}

func encodeCache(t *testing.T, count uint64, msgs []*ledger.Message) []byte {
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, count)
	for _, m := range msgs {
		raw, err := m.Serialize()
		assert.NilError(t, err)
		buf.Write(raw)
	}
	return buf.Bytes()
}

func TestCache_RoundTrip(t *testing.T) {
	msgs := newMessages(10)
	path := filepath.Join(t.TempDir(), "snapshot_messages.bin")
	assert.NilError(t, WriteFile(path, msgs))

	c, err := Load(path)
	assert.NilError(t, err)
	assert.Equal(t, c.Len(), 10)
	assert.Equal(t, c.Records(), uint64(10))
	assert.Assert(t, !c.Trailing())

	for _, m := range msgs {
		got, err := c.GetMessage(test_tools.MustHash(m))
		assert.NilError(t, err)
		assert.DeepEqual(t, got, m)
	}

	missing, err := c.GetMessage(test_tools.MustHash(test_tools.NewTransferMessage("other")))
	assert.NilError(t, err)
	assert.Assert(t, is.Nil(missing))
}

func TestCache_OrderIndependent(t *testing.T) {
	msgs := newMessages(6)
	reversed := make([]*ledger.Message, 0, len(msgs))
	for i := len(msgs) - 1; i >= 0; i-- {
		reversed = append(reversed, msgs[i])
	}

	a, err := Decode(bytes.NewReader(encodeCache(t, 6, msgs)))
	assert.NilError(t, err)
	b, err := Decode(bytes.NewReader(encodeCache(t, 6, reversed)))
	assert.NilError(t, err)

	assert.DeepEqual(t, a.messages, b.messages)
}

func TestCache_DuplicateRecords(t *testing.T) {
	msgs := newMessages(2)
	records := []*ledger.Message{msgs[0], msgs[1], msgs[0]}

	c, err := Decode(bytes.NewReader(encodeCache(t, 3, records)))
	assert.NilError(t, err)
	assert.Equal(t, c.Len(), 2)
	assert.Equal(t, c.Records(), uint64(3))
}

func TestCache_Empty(t *testing.T) {
	c, err := Decode(bytes.NewReader(encodeCache(t, 0, nil)))
	assert.NilError(t, err)
	assert.Equal(t, c.Len(), 0)
}

func TestCache_TruncatedHeader(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte{1, 0, 0}))
	assert.Assert(t, ledger.IsDecodeError(err))
}

func TestCache_FewerRecordsThanDeclared(t *testing.T) {
	msgs := newMessages(3)
	_, err := Decode(bytes.NewReader(encodeCache(t, 4, msgs)))
	assert.Assert(t, ledger.IsDecodeError(err))
	assert.ErrorContains(t, err, "record 3 of 4")
	assert.Equal(t, errors.Cause(err), io.ErrUnexpectedEOF)
}

func TestCache_CorruptRecord(t *testing.T) {
	msgs := newMessages(2)
	raw := encodeCache(t, 2, msgs)
	// the parents count of the first record follows the header and its network id
	raw[8+8] = 0

	_, err := Decode(bytes.NewReader(raw))
	assert.Assert(t, ledger.IsDecodeError(err))
	assert.ErrorContains(t, err, "record 0 of 2")
}

func TestCache_TrailingBytes(t *testing.T) {
	msgs := newMessages(3)
	raw := encodeCache(t, 2, msgs)

	c, err := Decode(bytes.NewReader(raw))
	assert.NilError(t, err)
	assert.Equal(t, c.Len(), 2)
	assert.Assert(t, c.Trailing())

	got, err := c.GetMessage(test_tools.MustHash(msgs[2]))
	assert.NilError(t, err)
	assert.Assert(t, is.Nil(got))
}

func TestReader_Next(t *testing.T) {
	msgs := newMessages(2)
	r, err := NewReader(bytes.NewReader(encodeCache(t, 2, msgs)))
	assert.NilError(t, err)
	assert.Equal(t, r.Count(), uint64(2))

	_, err = r.Trailing()
	assert.Assert(t, err != nil)

	for _, m := range msgs {
		got, id, err := r.Next()
		assert.NilError(t, err)
		assert.DeepEqual(t, got, m)
		assert.Equal(t, id, test_tools.MustHash(m))
	}
	_, _, err = r.Next()
	assert.Equal(t, err, io.EOF)

	trailing, err := r.Trailing()
	assert.NilError(t, err)
	assert.Assert(t, !trailing)
}

func TestWriter_CountMismatch(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, 2)
	assert.NilError(t, err)

	msgs := newMessages(3)
	assert.NilError(t, w.Write(msgs[0]))
	assert.Assert(t, w.Flush() != nil)
	assert.NilError(t, w.Write(msgs[1]))
	assert.Assert(t, w.Write(msgs[2]) != nil)
	assert.NilError(t, w.Flush())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "none.bin"))
	assert.Assert(t, err != nil)
	assert.Assert(t, os.IsNotExist(errors.Cause(err)))
}
