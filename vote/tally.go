package vote

import (
	"math/bits"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"

	"github.com/vitelabs/go-referendum/common/types"
	"github.com/vitelabs/go-referendum/ledger"
	"github.com/vitelabs/go-referendum/snapshot"
)

var log = log15.New("module", "vote")

// MessageSource resolves message ids. A miss returns nil, nil.
type MessageSource interface {
	GetMessage(id types.Hash) (*ledger.Message, error)
}

type reason int

const (
	reasonVoted reason = iota
	reasonNoSignal
	reasonMalformed
	reasonUnrecognized
)

// Tally classifies the value of every output in snap that has an originating
// message and checks the totals against the token supply. Any integrity
// violation is returned as *IntegrityError and no result is produced.
func Tally(snap *snapshot.Snapshot, messages MessageSource) (*Result, error) {
	r := newResult()

	for _, o := range snap.Outputs {
		if o.IsGenesis() {
			r.SkippedGenesisOutputs++
			continue
		}

		msg, err := messages.GetMessage(o.MessageID)
		if err != nil {
			return nil, errors.WithMessagef(err, "lookup message %s", o.MessageID)
		}
		if msg == nil {
			return nil, &IntegrityError{Kind: ErrMissingMessage, MessageID: o.MessageID, OutputID: o.OutputID}
		}

		var deposit uint64
		switch out := o.Output.(type) {
		case *ledger.SigLockedSingleOutput:
			deposit = out.Deposit()
		case *ledger.SigLockedDustAllowanceOutput:
			deposit = out.Deposit()
		case *ledger.TreasuryOutput:
			return nil, &IntegrityError{Kind: ErrTreasuryVoted, MessageID: o.MessageID, OutputID: o.OutputID}
		default:
			return nil, errors.Wrapf(ErrUnknownOutput, "output %s", o.OutputID)
		}

		bucket, why, tag, err := classify(msg)
		if err != nil {
			return nil, errors.WithMessagef(err, "message %s", o.MessageID)
		}

		iotas := r.iotas(bucket)
		sum, carry := bits.Add64(*iotas, deposit, 0)
		if carry != 0 {
			return nil, &IntegrityError{Kind: ErrOverflow, MessageID: o.MessageID, OutputID: o.OutputID, Bucket: bucket}
		}
		*iotas = sum
		*r.amount(bucket)++

		switch why {
		case reasonNoSignal:
			r.Breakdown.NoSignal.add(deposit)
		case reasonMalformed:
			r.Breakdown.Malformed.add(deposit)
		case reasonUnrecognized:
			r.Breakdown.UnrecognizedTag.add(deposit)
			c, ok := r.Breakdown.Tags[tag]
			if !ok {
				c = &Counter{}
				r.Breakdown.Tags[tag] = c
			}
			c.add(deposit)
		}
	}

	if err := checkSupply(r, snap.Treasury.Amount); err != nil {
		return nil, err
	}

	log.Info("tally finished", "outputs", len(snap.Outputs), "skipped", r.SkippedGenesisOutputs,
		"build", r.IotasVotedForBuild, "burn", r.IotasVotedForBurn, "notVoted", r.IotasNotVoted)
	return r, nil
}

func classify(msg *ledger.Message) (Bucket, reason, string, error) {
	tag, err := Extract(msg)
	switch {
	case err == nil:
	case errors.Is(err, ErrNoSignal):
		return BucketNotVoted, reasonNoSignal, "", nil
	case errors.Is(err, ErrMalformedSignal):
		return BucketNotVoted, reasonMalformed, "", nil
	default:
		return 0, 0, "", err
	}

	switch tag {
	case TagBuild:
		return BucketBuild, reasonVoted, tag, nil
	case TagBurn:
		return BucketBurn, reasonVoted, tag, nil
	default:
		return BucketNotVoted, reasonUnrecognized, tag, nil
	}
}

func checkSupply(r *Result, treasury uint64) error {
	var total, carry uint64
	for _, v := range []uint64{r.IotasVotedForBuild, r.IotasVotedForBurn, r.IotasNotVoted, treasury} {
		var c uint64
		total, c = bits.Add64(total, v, 0)
		carry |= c
	}
	if carry != 0 {
		return &IntegrityError{Kind: ErrOverflow}
	}
	if total != ledger.TokenSupply {
		return &IntegrityError{Kind: ErrSupplyMismatch, Have: total, Want: ledger.TokenSupply}
	}
	return nil
}
