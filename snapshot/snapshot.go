package snapshot

import (
	"bufio"
	"io"
	"os"
	"path/filepath"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"

	"github.com/vitelabs/go-referendum/common/types"
	"github.com/vitelabs/go-referendum/ledger"
)

const (
	SupportedFormatVersion byte = 1

	TypeFull  byte = 0
	TypeDelta byte = 1
)

var (
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
	ErrUnsupportedType    = errors.New("unsupported snapshot type")
)

var log = log15.New("module", "snapshot")

// OutputData is an unspent output together with the message that created it.
type OutputData struct {
	MessageID types.Hash
	OutputID  types.OutputID
	Output    ledger.Output
}

// IsGenesis reports whether the output predates message history and so has
// no originating message.
func (o *OutputData) IsGenesis() bool {
	return o.MessageID.IsZero()
}

type TreasuryOutput struct {
	MilestoneID types.Hash
	Amount      uint64
}

// Snapshot is a frozen view of the ledger at LedgerMilestoneIndex.
type Snapshot struct {
	Version              byte
	Type                 byte
	Timestamp            uint64
	NetworkID            uint64
	SEPMilestoneIndex    uint32
	LedgerMilestoneIndex uint32
	SolidEntryPoints     []types.Hash
	Treasury             TreasuryOutput
	Outputs              []*OutputData
}

// Read decodes the full snapshot stored at path.
func Read(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open snapshot %s", path)
	}
	defer f.Close()

	s, err := Decode(bufio.NewReaderSize(f, 1<<20))
	if err != nil {
		return nil, err
	}
	log.Info("snapshot loaded", "path", path, "outputs", len(s.Outputs), "treasury", s.Treasury.Amount,
		"ledgerIndex", s.LedgerMilestoneIndex)
	return s, nil
}

// Decode reads a full snapshot. Failures are reported as *ledger.DecodeError.
func Decode(r io.Reader) (*Snapshot, error) {
	d := ledger.NewDecoder(r)
	s := &Snapshot{}

	s.Version = d.Uint8()
	if d.Err() == nil && s.Version != SupportedFormatVersion {
		d.Fail(errors.Wrapf(ErrUnsupportedVersion, "version %d", s.Version))
	}
	s.Type = d.Uint8()
	if d.Err() == nil && s.Type != TypeFull {
		d.Fail(errors.Wrapf(ErrUnsupportedType, "type %d", s.Type))
	}
	s.Timestamp = d.Uint64()
	s.NetworkID = d.Uint64()
	s.SEPMilestoneIndex = d.Uint32()
	s.LedgerMilestoneIndex = d.Uint32()
	sepCount := d.Uint64()
	outputCount := d.Uint64()
	s.Treasury.MilestoneID = d.Hash()
	s.Treasury.Amount = d.Uint64()
	if err := d.Err(); err != nil {
		return nil, ledger.NewDecodeError("snapshot header", d.Offset(), err)
	}

	// counts come from the file, grow the slices as records are read
	for i := uint64(0); i < sepCount; i++ {
		sep := d.Hash()
		if err := d.Err(); err != nil {
			return nil, ledger.NewDecodeError("snapshot solid entry point", d.Offset(), errors.WithMessagef(err, "sep %d of %d", i, sepCount))
		}
		s.SolidEntryPoints = append(s.SolidEntryPoints, sep)
	}

	for i := uint64(0); i < outputCount; i++ {
		o := &OutputData{}
		o.MessageID = d.Hash()
		o.OutputID = d.OutputID()
		o.Output = ledger.UnpackOutput(d)
		if err := d.Err(); err != nil {
			return nil, ledger.NewDecodeError("snapshot output", d.Offset(), errors.WithMessagef(err, "output %d of %d", i, outputCount))
		}
		s.Outputs = append(s.Outputs, o)
	}
	return s, nil
}

// Encode writes s in the snapshot file layout.
func Encode(w io.Writer, s *Snapshot) error {
	e := &ledger.Encoder{}
	e.Uint8(s.Version)
	e.Uint8(s.Type)
	e.Uint64(s.Timestamp)
	e.Uint64(s.NetworkID)
	e.Uint32(s.SEPMilestoneIndex)
	e.Uint32(s.LedgerMilestoneIndex)
	e.Uint64(uint64(len(s.SolidEntryPoints)))
	e.Uint64(uint64(len(s.Outputs)))
	e.Raw(s.Treasury.MilestoneID[:])
	e.Uint64(s.Treasury.Amount)
	for _, sep := range s.SolidEntryPoints {
		e.Raw(sep[:])
	}
	for _, o := range s.Outputs {
		if o.Output == nil {
			return errors.Errorf("output %s has no body", o.OutputID)
		}
		e.Raw(o.MessageID[:])
		e.Raw(o.OutputID[:])
		ledger.PackOutput(e, o.Output)
	}
	_, err := e.WriteTo(w)
	return err
}

// Write stores s at path, replacing the file only once it is complete.
func Write(path string, s *Snapshot) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp*")
	if err != nil {
		return errors.Wrap(err, "create snapshot file")
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	if err = Encode(w, s); err != nil {
		return err
	}
	if err = w.Flush(); err != nil {
		return errors.Wrap(err, "flush snapshot file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "close snapshot file")
	}
	return errors.Wrap(os.Rename(tmp.Name(), path), "rename snapshot file")
}
