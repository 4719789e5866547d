package crypto

import (
	"hash"

	"golang.org/x/crypto/blake2b"
)

// Hash256 returns the blake2b-256 digest of the concatenated data.
func Hash256(data ...[]byte) []byte {
	d := NewHasher256()
	for _, item := range data {
		d.Write(item)
	}
	return d.Sum(nil)
}

// NewHasher256 returns an unkeyed blake2b-256 hasher.
func NewHasher256() hash.Hash {
	d, _ := blake2b.New256(nil)
	return d
}
