package message_cache

import (
	"io"
	"os"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"

	"github.com/vitelabs/go-referendum/common/types"
	"github.com/vitelabs/go-referendum/ledger"
)

const maxPreallocated = 1 << 20

var log = log15.New("module", "message_cache")

// Cache maps message ids to messages. It is never modified after it is built.
type Cache struct {
	messages map[types.Hash]*ledger.Message
	records  uint64
	trailing bool
}

// NewCache keys msgs by their computed ids.
func NewCache(msgs ...*ledger.Message) (*Cache, error) {
	c := &Cache{messages: make(map[types.Hash]*ledger.Message, len(msgs))}
	for _, m := range msgs {
		id, err := m.ComputeHash()
		if err != nil {
			return nil, err
		}
		c.messages[id] = m
		c.records++
	}
	return c, nil
}

// Load reads the cache file at path. Records are keyed by their computed id,
// so duplicated records collapse into one entry.
func Load(path string) (*Cache, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open message cache %s", path)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, err
	}
	if c.trailing {
		log.Warn("message cache has bytes after the declared records", "path", path, "records", c.records)
	}
	log.Info("message cache loaded", "path", path, "records", c.records, "messages", len(c.messages))
	return c, nil
}

func Decode(r io.Reader) (*Cache, error) {
	reader, err := NewReader(r)
	if err != nil {
		return nil, err
	}

	prealloc := reader.Count()
	if prealloc > maxPreallocated {
		prealloc = maxPreallocated
	}
	c := &Cache{messages: make(map[types.Hash]*ledger.Message, prealloc)}
	for {
		msg, id, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		c.messages[id] = msg
		c.records++
	}

	if c.trailing, err = reader.Trailing(); err != nil {
		return nil, errors.Wrap(err, "check message cache end")
	}
	return c, nil
}

// GetMessage returns nil, nil when id is not cached.
func (c *Cache) GetMessage(id types.Hash) (*ledger.Message, error) {
	return c.messages[id], nil
}

// Len is the number of distinct messages.
func (c *Cache) Len() int {
	return len(c.messages)
}

// Records is the number of records the cache was built from.
func (c *Cache) Records() uint64 {
	return c.records
}

// Trailing reports whether the source file had bytes after the declared records.
func (c *Cache) Trailing() bool {
	return c.trailing
}

func (c *Cache) Iterate(fn func(id types.Hash, msg *ledger.Message) bool) {
	for id, msg := range c.messages {
		if !fn(id, msg) {
			return
		}
	}
}
