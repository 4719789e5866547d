package test_tools

import (
	"github.com/vitelabs/go-referendum/common/types"
	"github.com/vitelabs/go-referendum/crypto"
	"github.com/vitelabs/go-referendum/ledger"
)

const NetworkID uint64 = 14379272398717627559

func hashOf(parts ...string) types.Hash {
	data := make([][]byte, 0, len(parts))
	for _, p := range parts {
		data = append(data, []byte(p))
	}
	h, _ := types.BytesToHash(crypto.Hash256(data...))
	return h
}

// NewMessage returns a message with two parents derived from seed.
func NewMessage(seed string, payload ledger.Payload) *ledger.Message {
	return &ledger.Message{
		NetworkID: NetworkID,
		Parents:   []types.Hash{hashOf(seed, "parent0"), hashOf(seed, "parent1")},
		Payload:   payload,
		Nonce:     uint64(len(seed)) * 7919,
	}
}

// NewTransaction returns a signed transaction that moves amount to a single
// output and carries payload inside its essence.
func NewTransaction(seed string, amount uint64, payload ledger.Payload) *ledger.Transaction {
	var addr ledger.Ed25519Address
	copy(addr[:], hashOf(seed, "address").Bytes())

	unlock := ledger.UnlockBlock{Type: ledger.UnlockSignature}
	copy(unlock.PublicKey[:], hashOf(seed, "pubkey").Bytes())
	copy(unlock.Signature[:], crypto.Hash256([]byte(seed), []byte("sig0")))
	copy(unlock.Signature[32:], crypto.Hash256([]byte(seed), []byte("sig1")))

	return &ledger.Transaction{
		Essence: &ledger.RegularEssence{
			Inputs:  []types.OutputID{types.NewOutputID(hashOf(seed, "input"), 0)},
			Outputs: []ledger.Output{&ledger.SigLockedSingleOutput{Address: addr, Amount: amount}},
			Payload: payload,
		},
		UnlockBlocks: []ledger.UnlockBlock{unlock},
	}
}

// NewVoteMessage returns a transaction message whose essence carries data as
// tagged data.
func NewVoteMessage(seed string, data []byte) *ledger.Message {
	tagged := &ledger.TaggedData{Tag: []byte("referendum"), Data: data}
	return NewMessage(seed, NewTransaction(seed, 1000, tagged))
}

// NewTransferMessage returns a transaction message without an essence payload.
func NewTransferMessage(seed string) *ledger.Message {
	return NewMessage(seed, NewTransaction(seed, 1000, nil))
}

func MustHash(m *ledger.Message) types.Hash {
	id, err := m.ComputeHash()
	if err != nil {
		panic(err)
	}
	return id
}

func OutputID(seed string, index uint16) types.OutputID {
	return types.NewOutputID(hashOf(seed, "tx"), index)
}
