package message_store

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitelabs/go-referendum/ledger"
	"github.com/vitelabs/go-referendum/ledger/test_tools"
	"github.com/vitelabs/go-referendum/message_cache"
)

func writeCache(t *testing.T, msgs []*ledger.Message) string {
	path := filepath.Join(t.TempDir(), "snapshot_messages.bin")
	require.NoError(t, message_cache.WriteFile(path, msgs))
	return path
}

func importFile(t *testing.T, s *Store, path string) uint64 {
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := message_cache.NewReader(f)
	require.NoError(t, err)
	n, err := s.Import(r)
	require.NoError(t, err)
	return n
}

func newMessages(n int) []*ledger.Message {
	msgs := make([]*ledger.Message, 0, n)
	for i := 0; i < n; i++ {
		msgs = append(msgs, test_tools.NewVoteMessage(fmt.Sprintf("m%d", i), []byte("build")))
	}
	return msgs
}

func TestStore_Import(t *testing.T) {
	msgs := newMessages(5)
	// duplicated records collapse into one entry
	path := writeCache(t, append(msgs, msgs[0], msgs[3]))

	s, err := Open(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, uint64(7), importFile(t, s, path))

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	for _, m := range msgs {
		got, err := s.GetMessage(test_tools.MustHash(m))
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}

	missing := test_tools.MustHash(test_tools.NewTransferMessage("other"))
	got, err := s.GetMessage(missing)
	assert.NoError(t, err)
	assert.Nil(t, got)

	has, err := s.Has(missing)
	assert.NoError(t, err)
	assert.False(t, has)
	has, err = s.Has(test_tools.MustHash(msgs[1]))
	assert.NoError(t, err)
	assert.True(t, has)
}

func TestStore_Reopen(t *testing.T) {
	msgs := newMessages(importBatchSize + 3)
	path := writeCache(t, msgs)
	dir := filepath.Join(t.TempDir(), "store")

	s, err := Open(dir)
	require.NoError(t, err)
	assert.Equal(t, uint64(len(msgs)), importFile(t, s, path))
	require.NoError(t, s.Close())

	s, err = OpenWithCache(dir, 2)
	require.NoError(t, err)
	defer s.Close()

	n, err := s.Len()
	require.NoError(t, err)
	assert.Equal(t, len(msgs), n)

	last := msgs[len(msgs)-1]
	got, err := s.GetMessage(test_tools.MustHash(last))
	require.NoError(t, err)
	assert.Equal(t, last, got)
}

func TestStore_CorruptValue(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)
	defer s.Close()

	id := test_tools.MustHash(newMessages(1)[0])
	require.NoError(t, s.db.Put(messageKey(id), []byte("not snappy"), nil))

	_, err = s.GetMessage(id)
	assert.Error(t, err)
}

func TestStore_ImportTruncated(t *testing.T) {
	msgs := newMessages(2)
	var buf bytes.Buffer
	binary.Write(&buf, binary.LittleEndian, uint64(3))
	for _, m := range msgs {
		raw, err := m.Serialize()
		require.NoError(t, err)
		buf.Write(raw)
	}

	s, err := Open(filepath.Join(t.TempDir(), "store"))
	require.NoError(t, err)
	defer s.Close()

	r, err := message_cache.NewReader(&buf)
	require.NoError(t, err)
	n, err := s.Import(r)
	assert.True(t, ledger.IsDecodeError(err))
	assert.Equal(t, uint64(2), n)
}
