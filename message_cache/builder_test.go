package message_cache

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"gotest.tools/assert"

	"github.com/vitelabs/go-referendum/client"
	"github.com/vitelabs/go-referendum/common/types"
	"github.com/vitelabs/go-referendum/ledger"
	"github.com/vitelabs/go-referendum/ledger/test_tools"
	"github.com/vitelabs/go-referendum/snapshot"
)

func outputFor(m *ledger.Message, seed string, index uint16) *snapshot.OutputData {
	o := &snapshot.OutputData{
		OutputID: test_tools.OutputID(seed, index),
		Output:   &ledger.SigLockedSingleOutput{Amount: 1},
	}
	if m != nil {
		o.MessageID = test_tools.MustHash(m)
	}
	return o
}

func TestBuild(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	msgs := newMessages(3)
	outputs := []*snapshot.OutputData{
		outputFor(msgs[0], "a", 0),
		outputFor(nil, "genesis", 0),
		outputFor(msgs[1], "b", 0),
		outputFor(msgs[0], "a", 1),
		outputFor(msgs[2], "c", 0),
	}

	nodeClient := client.NewMockNodeClient(ctrl)
	for _, m := range msgs {
		nodeClient.EXPECT().GetMessage(gomock.Any(), gomock.Eq(test_tools.MustHash(m))).Return(m, nil).Times(1)
	}

	path := filepath.Join(t.TempDir(), "snapshot_messages.bin")
	n, err := Build(context.Background(), nodeClient, outputs, path, BuildOptions{Concurrency: 2, ProgressInterval: 1})
	assert.NilError(t, err)
	assert.Equal(t, n, 4)

	f, err := os.Open(path)
	assert.NilError(t, err)
	defer f.Close()
	r, err := NewReader(f)
	assert.NilError(t, err)
	assert.Equal(t, r.Count(), uint64(4))

	// records follow output order, genesis outputs skipped
	for _, want := range []*ledger.Message{msgs[0], msgs[1], msgs[0], msgs[2]} {
		_, id, err := r.Next()
		assert.NilError(t, err)
		assert.Equal(t, id, test_tools.MustHash(want))
	}
}

func TestBuild_Sequential(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	msgs := newMessages(2)
	nodeClient := client.NewMockNodeClient(ctrl)
	gomock.InOrder(
		nodeClient.EXPECT().GetMessage(gomock.Any(), test_tools.MustHash(msgs[0])).Return(msgs[0], nil),
		nodeClient.EXPECT().GetMessage(gomock.Any(), test_tools.MustHash(msgs[1])).Return(msgs[1], nil),
	)

	path := filepath.Join(t.TempDir(), "snapshot_messages.bin")
	_, err := Build(context.Background(), nodeClient, []*snapshot.OutputData{
		outputFor(msgs[0], "a", 0),
		outputFor(msgs[1], "b", 0),
	}, path, BuildOptions{})
	assert.NilError(t, err)

	c, err := Load(path)
	assert.NilError(t, err)
	assert.Equal(t, c.Len(), 2)
}

func TestBuild_FailureKeepsExistingCache(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	dir := t.TempDir()
	path := filepath.Join(dir, "snapshot_messages.bin")
	assert.NilError(t, os.WriteFile(path, []byte("previous"), 0644))

	msgs := newMessages(2)
	nodeClient := client.NewMockNodeClient(ctrl)
	nodeClient.EXPECT().GetMessage(gomock.Any(), test_tools.MustHash(msgs[0])).Return(msgs[0], nil).AnyTimes()
	nodeClient.EXPECT().GetMessage(gomock.Any(), test_tools.MustHash(msgs[1])).Return(nil, errors.New("connection refused")).AnyTimes()

	_, err := Build(context.Background(), nodeClient, []*snapshot.OutputData{
		outputFor(msgs[0], "a", 0),
		outputFor(msgs[1], "b", 0),
	}, path, BuildOptions{Concurrency: 4})
	assert.ErrorContains(t, err, "connection refused")

	content, err := os.ReadFile(path)
	assert.NilError(t, err)
	assert.Equal(t, string(content), "previous")

	entries, err := os.ReadDir(dir)
	assert.NilError(t, err)
	assert.Equal(t, len(entries), 1)
}

func TestBuild_IdMismatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	msgs := newMessages(2)
	nodeClient := client.NewMockNodeClient(ctrl)
	nodeClient.EXPECT().GetMessage(gomock.Any(), test_tools.MustHash(msgs[0])).Return(msgs[1], nil)

	path := filepath.Join(t.TempDir(), "snapshot_messages.bin")
	_, err := Build(context.Background(), nodeClient, []*snapshot.OutputData{outputFor(msgs[0], "a", 0)}, path, BuildOptions{})
	assert.Equal(t, errors.Cause(err), ErrIdMismatch)

	_, statErr := os.Stat(path)
	assert.Assert(t, os.IsNotExist(statErr))
}

func TestBuild_NilMessage(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	msgs := newMessages(1)
	nodeClient := client.NewMockNodeClient(ctrl)
	nodeClient.EXPECT().GetMessage(gomock.Any(), gomock.Any()).Return(nil, nil)

	_, err := Build(context.Background(), nodeClient, []*snapshot.OutputData{outputFor(msgs[0], "a", 0)},
		filepath.Join(t.TempDir(), "m.bin"), BuildOptions{})
	assert.Equal(t, errors.Cause(err), client.ErrNotFound)
}

func TestBuild_CanceledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	msgs := newMessages(1)
	nodeClient := client.NewMockNodeClient(ctrl)
	nodeClient.EXPECT().GetMessage(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, id types.Hash) (*ledger.Message, error) {
			return nil, ctx.Err()
		}).AnyTimes()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Build(ctx, nodeClient, []*snapshot.OutputData{outputFor(msgs[0], "a", 0)},
		filepath.Join(t.TempDir(), "m.bin"), BuildOptions{})
	assert.Equal(t, errors.Cause(err), context.Canceled)
}
