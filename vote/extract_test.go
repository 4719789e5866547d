package vote

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/vitelabs/go-referendum/ledger"
	"github.com/vitelabs/go-referendum/ledger/test_tools"
)

func TestExtract(t *testing.T) {
	tag, err := Extract(test_tools.NewVoteMessage("a", []byte("build")))
	assert.NoError(t, err)
	assert.Equal(t, TagBuild, tag)

	tag, err = Extract(test_tools.NewVoteMessage("b", []byte("BURN")))
	assert.NoError(t, err)
	assert.Equal(t, "BURN", tag)

	tag, err = Extract(test_tools.NewVoteMessage("c", nil))
	assert.NoError(t, err)
	assert.Equal(t, "", tag)
}

func TestExtract_NoSignal(t *testing.T) {
	cases := map[string]*ledger.Message{
		"transfer":    test_tools.NewTransferMessage("a"),
		"noPayload":   test_tools.NewMessage("b", nil),
		"taggedData":  test_tools.NewMessage("c", &ledger.TaggedData{Tag: []byte("referendum"), Data: []byte("build")}),
		"milestone":   test_tools.NewMessage("d", &ledger.UnknownPayload{Type: ledger.PayloadMilestone, Body: []byte{1, 2, 3}}),
		"essenceMile": test_tools.NewMessage("e", test_tools.NewTransaction("e", 1, &ledger.UnknownPayload{Type: ledger.PayloadMilestone})),
	}
	for name, msg := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Extract(msg)
			assert.Equal(t, ErrNoSignal, err)
		})
	}
}

func TestExtract_Malformed(t *testing.T) {
	_, err := Extract(test_tools.NewVoteMessage("a", []byte{'b', 0xff, 0xfe}))
	assert.Equal(t, ErrMalformedSignal, err)
}

func TestExtract_UnsupportedEssence(t *testing.T) {
	msg := test_tools.NewMessage("a", &ledger.Transaction{
		Essence: &ledger.UnknownEssence{Type: 1, Body: []byte{0, 1, 2}},
	})
	_, err := Extract(msg)
	assert.True(t, errors.Is(err, ErrUnsupportedEssence))

	_, err = Extract(test_tools.NewMessage("b", &ledger.Transaction{}))
	assert.True(t, errors.Is(err, ErrUnsupportedEssence))
}
