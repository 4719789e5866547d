package message_cache

import (
	"context"
	"sync"

	mapset "github.com/deckarep/golang-set"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/vitelabs/go-referendum/client"
	"github.com/vitelabs/go-referendum/common/types"
	"github.com/vitelabs/go-referendum/ledger"
	"github.com/vitelabs/go-referendum/snapshot"
)

var ErrIdMismatch = errors.New("fetched message does not hash to the requested id")

type BuildOptions struct {
	// Concurrency bounds the number of requests in flight. Values below 1 mean 1.
	Concurrency int
	// ProgressInterval is the number of fetched messages between progress logs.
	ProgressInterval uint64
}

func (o BuildOptions) normalize() BuildOptions {
	if o.Concurrency < 1 {
		o.Concurrency = 1
	}
	if o.ProgressInterval == 0 {
		o.ProgressInterval = 1000
	}
	return o
}

// Build fetches the originating message of every output that has one and
// writes them, one record per output in output order, to a cache file at
// path. Each distinct message is requested once. Any failure aborts the build
// and leaves an existing file at path untouched.
func Build(ctx context.Context, c client.NodeClient, outputs []*snapshot.OutputData, path string, opts BuildOptions) (int, error) {
	opts = opts.normalize()

	order := make([]types.Hash, 0, len(outputs))
	distinct := mapset.NewThreadUnsafeSet()
	var unique []types.Hash
	for _, o := range outputs {
		if o.IsGenesis() {
			continue
		}
		order = append(order, o.MessageID)
		if distinct.Add(o.MessageID) {
			unique = append(unique, o.MessageID)
		}
	}
	log.Info("fetching messages", "outputs", len(outputs), "records", len(order), "distinct", len(unique),
		"concurrency", opts.Concurrency)

	fetched, err := fetchAll(ctx, c, unique, opts)
	if err != nil {
		return 0, err
	}

	records := make([]*ledger.Message, 0, len(order))
	for _, id := range order {
		records = append(records, fetched[id])
	}
	if err := WriteFile(path, records); err != nil {
		return 0, err
	}
	log.Info("message cache written", "path", path, "records", len(records))
	return len(records), nil
}

func fetchAll(ctx context.Context, c client.NodeClient, ids []types.Hash, opts BuildOptions) (map[types.Hash]*ledger.Message, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		mu       sync.Mutex
		results  = make(map[types.Hash]*ledger.Message, len(ids))
		once     sync.Once
		firstErr error
		done     = atomic.NewUint64(0)
		jobs     = make(chan types.Hash)
		wg       sync.WaitGroup
	)

	fail := func(err error) {
		once.Do(func() {
			firstErr = err
			cancel()
		})
	}

	for i := 0; i < opts.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				msg, err := fetchOne(ctx, c, id)
				if err != nil {
					fail(err)
					return
				}

				mu.Lock()
				results[id] = msg
				mu.Unlock()

				if n := done.Inc(); n%opts.ProgressInterval == 0 {
					log.Info("fetch progress", "fetched", n, "total", len(ids))
				}
			}
		}()
	}

feed:
	for _, id := range ids {
		select {
		case jobs <- id:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if len(results) != len(ids) {
		return nil, errors.Wrapf(ctx.Err(), "fetched %d of %d messages", len(results), len(ids))
	}
	return results, nil
}

func fetchOne(ctx context.Context, c client.NodeClient, id types.Hash) (*ledger.Message, error) {
	msg, err := c.GetMessage(ctx, id)
	if err != nil {
		return nil, errors.WithMessagef(err, "fetch message %s", id)
	}
	if msg == nil {
		return nil, errors.Wrapf(client.ErrNotFound, "fetch message %s", id)
	}
	got, err := msg.ComputeHash()
	if err != nil {
		return nil, errors.WithMessagef(err, "hash message %s", id)
	}
	if got != id {
		return nil, errors.Wrapf(ErrIdMismatch, "requested %s, got %s", id, got)
	}
	return msg, nil
}
