package message_store

import (
	"io"

	"github.com/golang/snappy"
	"github.com/hashicorp/golang-lru"
	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vitelabs/go-referendum/common/types"
	"github.com/vitelabs/go-referendum/ledger"
	"github.com/vitelabs/go-referendum/message_cache"
)

const (
	KeyPrefixMessage byte = 1

	DefaultCacheSize = 10 * 10000

	importBatchSize = 1000
)

var log = log15.New("module", "message_store")

// Store keeps messages in leveldb keyed by id. Values are snappy-compressed
// message encodings.
type Store struct {
	db    *leveldb.DB
	cache *lru.Cache
}

func Open(dir string) (*Store, error) {
	return OpenWithCache(dir, DefaultCacheSize)
}

// OpenWithCache opens the store at dir, keeping up to cacheSize decoded
// messages in memory.
func OpenWithCache(dir string, cacheSize int) (*Store, error) {
	db, err := leveldb.OpenFile(dir, &opt.Options{
		// values are compressed before they reach leveldb
		Compression: opt.NoCompression,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open message store %s", dir)
	}
	cache, err := lru.New(cacheSize)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, cache: cache}, nil
}

func (s *Store) Close() error {
	s.cache.Purge()
	return s.db.Close()
}

func messageKey(id types.Hash) []byte {
	key := make([]byte, 0, 1+types.HashSize)
	key = append(key, KeyPrefixMessage)
	return append(key, id.Bytes()...)
}

// GetMessage returns the message with the given id, or nil if the store does
// not hold it.
func (s *Store) GetMessage(id types.Hash) (*ledger.Message, error) {
	if v, ok := s.cache.Get(id); ok {
		return v.(*ledger.Message), nil
	}

	value, err := s.db.Get(messageKey(id), nil)
	if err != nil {
		if err == leveldb.ErrNotFound {
			return nil, nil
		}
		return nil, err
	}
	raw, err := snappy.Decode(nil, value)
	if err != nil {
		return nil, errors.Wrapf(err, "decompress message %s", id)
	}
	msg, err := ledger.DeserializeMessage(raw)
	if err != nil {
		return nil, errors.WithMessagef(err, "stored message %s", id)
	}

	s.cache.Add(id, msg)
	return msg, nil
}

func (s *Store) Has(id types.Hash) (bool, error) {
	if s.cache.Contains(id) {
		return true, nil
	}
	return s.db.Has(messageKey(id), nil)
}

// Len counts the stored messages.
func (s *Store) Len() (int, error) {
	iter := s.db.NewIterator(util.BytesPrefix([]byte{KeyPrefixMessage}), nil)
	defer iter.Release()

	n := 0
	for iter.Next() {
		n++
	}
	return n, iter.Error()
}

// Import copies every record of r into the store and returns the number of
// records read. Records already present are overwritten with identical data.
func (s *Store) Import(r *message_cache.Reader) (uint64, error) {
	var (
		batch = new(leveldb.Batch)
		buf   []byte
		read  uint64
	)
	flush := func() error {
		if batch.Len() == 0 {
			return nil
		}
		if err := s.db.Write(batch, nil); err != nil {
			return errors.Wrap(err, "write message batch")
		}
		batch.Reset()
		return nil
	}

	for {
		msg, id, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return read, err
		}
		raw, err := msg.Serialize()
		if err != nil {
			return read, errors.WithMessagef(err, "serialize message %s", id)
		}
		buf = snappy.Encode(buf[:cap(buf)], raw)
		batch.Put(messageKey(id), buf)
		read++

		if batch.Len() >= importBatchSize {
			if err := flush(); err != nil {
				return read, err
			}
			log.Info("import progress", "records", read, "total", r.Count())
		}
	}
	if err := flush(); err != nil {
		return read, err
	}

	if trailing, err := r.Trailing(); err != nil {
		return read, err
	} else if trailing {
		log.Warn("trailing bytes after last message cache record", "records", read)
	}
	log.Info("message cache imported", "records", read)
	return read, nil
}
