package types

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/vitelabs/go-referendum/crypto"
)

const (
	HashSize = 32
)

var ErrJsonNotString = errors.New("not valid string")

// Hash is a content-derived identifier, used for message ids, transaction ids
// and milestone ids.
type Hash [HashSize]byte

// ZERO_HASH is the message id carried by outputs that predate message history.
var ZERO_HASH = Hash{}

func BytesToHash(b []byte) (Hash, error) {
	var h Hash
	err := h.SetBytes(b)
	return h, err
}

func HexToHash(hexstr string) (Hash, error) {
	if len(hexstr) != 2*HashSize {
		return Hash{}, fmt.Errorf("error hex hash size %v", len(hexstr))
	}
	b, err := hex.DecodeString(hexstr)
	if err != nil {
		return Hash{}, err
	}
	return BytesToHash(b)
}

func HexToHashPanic(hexstr string) Hash {
	h, err := HexToHash(hexstr)
	if err != nil {
		panic(err)
	}
	return h
}

func (h *Hash) SetBytes(b []byte) error {
	if len(b) != HashSize {
		return fmt.Errorf("error hash size %v", len(b))
	}
	copy(h[:], b)
	return nil
}

func (h Hash) Hex() string {
	return hex.EncodeToString(h[:])
}

func (h Hash) Bytes() []byte {
	return h[:]
}

func (h Hash) String() string {
	return h.Hex()
}

func (h Hash) IsZero() bool {
	return h == ZERO_HASH
}

func (h Hash) Cmp(other Hash) int {
	return bytes.Compare(h[:], other[:])
}

func DataHash(data []byte) Hash {
	h, _ := BytesToHash(crypto.Hash256(data))
	return h
}

func DataListHash(data ...[]byte) Hash {
	h, _ := BytesToHash(crypto.Hash256(data...))
	return h
}

func (h *Hash) UnmarshalJSON(input []byte) error {
	if !isString(input) {
		return ErrJsonNotString
	}
	hash, e := HexToHash(string(trimLeftRightQuotation(input)))
	if e != nil {
		return e
	}
	return h.SetBytes(hash.Bytes())
}

func (h Hash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func isString(input []byte) bool {
	return len(input) >= 2 && input[0] == '"' && input[len(input)-1] == '"'
}

func trimLeftRightQuotation(input []byte) []byte {
	return input[1 : len(input)-1]
}
