package types

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
)

const (
	OutputIndexSize = 2
	OutputIDSize    = HashSize + OutputIndexSize
)

// OutputID identifies an output by the transaction that created it and its
// index inside that transaction.
type OutputID [OutputIDSize]byte

func NewOutputID(txID Hash, index uint16) OutputID {
	var id OutputID
	copy(id[:HashSize], txID[:])
	binary.LittleEndian.PutUint16(id[HashSize:], index)
	return id
}

func BytesToOutputID(b []byte) (OutputID, error) {
	var id OutputID
	if len(b) != OutputIDSize {
		return id, fmt.Errorf("error output id size %v", len(b))
	}
	copy(id[:], b)
	return id, nil
}

func HexToOutputID(hexstr string) (OutputID, error) {
	b, err := hex.DecodeString(hexstr)
	if err != nil {
		return OutputID{}, err
	}
	return BytesToOutputID(b)
}

func (id OutputID) TransactionID() Hash {
	var h Hash
	copy(h[:], id[:HashSize])
	return h
}

func (id OutputID) Index() uint16 {
	return binary.LittleEndian.Uint16(id[HashSize:])
}

func (id OutputID) Bytes() []byte {
	return id[:]
}

func (id OutputID) Hex() string {
	return hex.EncodeToString(id[:])
}

func (id OutputID) String() string {
	return id.Hex()
}

func (id OutputID) MarshalText() ([]byte, error) {
	return []byte(id.Hex()), nil
}
