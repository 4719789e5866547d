package message_cache

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/vitelabs/go-referendum/ledger"
)

// Writer encodes a message cache file whose record count is known upfront.
type Writer struct {
	w       *bufio.Writer
	count   uint64
	written uint64
}

func NewWriter(w io.Writer, count uint64) (*Writer, error) {
	bw := bufio.NewWriter(w)
	e := &ledger.Encoder{}
	e.Uint64(count)
	if _, err := e.WriteTo(bw); err != nil {
		return nil, errors.Wrap(err, "write message cache header")
	}
	return &Writer{w: bw, count: count}, nil
}

func (w *Writer) Write(m *ledger.Message) error {
	if w.written >= w.count {
		return errors.Errorf("message cache declared %d records", w.count)
	}
	buf, err := m.Serialize()
	if err != nil {
		return errors.WithMessagef(err, "serialize record %d", w.written)
	}
	if _, err := w.w.Write(buf); err != nil {
		return errors.Wrapf(err, "write record %d", w.written)
	}
	w.written++
	return nil
}

// Flush fails unless exactly the declared number of records was written.
func (w *Writer) Flush() error {
	if w.written != w.count {
		return errors.Errorf("message cache declared %d records, %d written", w.count, w.written)
	}
	return errors.Wrap(w.w.Flush(), "flush message cache")
}

// WriteFile stores msgs as a cache file at path. The file is written to a
// temporary sibling and renamed into place, so path either keeps its previous
// content or holds the complete new cache.
func WriteFile(path string, msgs []*ledger.Message) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrap(err, "create message cache file")
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w, err := NewWriter(tmp, uint64(len(msgs)))
	if err != nil {
		return err
	}
	for _, m := range msgs {
		if err = w.Write(m); err != nil {
			return err
		}
	}
	if err = w.Flush(); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "sync message cache file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "close message cache file")
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "rename message cache file")
	}
	return nil
}
