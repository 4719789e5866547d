package vote

import (
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/vitelabs/go-referendum/ledger"
)

// Extract returns the vote tag carried by a message: the data of a tagged
// data payload inside a regular transaction essence. The tag is not checked
// against the known options.
func Extract(msg *ledger.Message) (string, error) {
	tx, ok := msg.Payload.(*ledger.Transaction)
	if !ok {
		return "", ErrNoSignal
	}

	var essence *ledger.RegularEssence
	switch e := tx.Essence.(type) {
	case *ledger.RegularEssence:
		essence = e
	case nil:
		return "", errors.Wrap(ErrUnsupportedEssence, "transaction without essence")
	default:
		return "", errors.Wrapf(ErrUnsupportedEssence, "essence type %d", e.EssenceType())
	}

	tagged, ok := essence.Payload.(*ledger.TaggedData)
	if !ok {
		return "", ErrNoSignal
	}
	if !utf8.Valid(tagged.Data) {
		return "", ErrMalformedSignal
	}
	return string(tagged.Data), nil
}
