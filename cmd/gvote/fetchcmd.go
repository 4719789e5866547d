package main

import (
	"context"
	"time"

	"gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/go-referendum/client"
	"github.com/vitelabs/go-referendum/cmd/utils"
	"github.com/vitelabs/go-referendum/message_cache"
	"github.com/vitelabs/go-referendum/snapshot"
)

var fetchCommand = cli.Command{
	Action:   fetchAction,
	Name:     "fetch",
	Usage:    "Build the message cache of a snapshot from a node",
	Category: "LEDGER COMMANDS",
	Flags: []cli.Flag{
		utils.SnapshotFlag,
		utils.MessagesFlag,
		utils.NodeFlag,
		utils.PermanodeFlag,
		utils.ConcurrencyFlag,
		utils.TimeoutFlag,
		utils.RequestTimeoutFlag,
	},
	Description: `
Fetches the originating message of every snapshot output from the node,
falling back to the permanode for pruned messages, and writes them to the
message cache file. An existing cache file is only replaced by a complete one.
`,
}

func fetchAction(ctx *cli.Context) error {
	cfg, err := utils.MakeConfig(ctx)
	if err != nil {
		return err
	}

	snap, err := snapshot.Read(cfg.Snapshot)
	if err != nil {
		return err
	}

	nodeClient, err := client.NewHTTPClient(cfg.Endpoint, cfg.Permanode,
		client.WithRequestTimeout(time.Duration(cfg.RequestTimeout)))
	if err != nil {
		return err
	}

	runCtx, cancel := utils.InterruptContext(context.Background())
	defer cancel()
	if timeout := utils.FetchTimeout(ctx); timeout > 0 {
		runCtx, cancel = context.WithTimeout(runCtx, timeout)
		defer cancel()
	}

	start := time.Now()
	n, err := message_cache.Build(runCtx, nodeClient, snap.Outputs, cfg.Messages, message_cache.BuildOptions{
		Concurrency:      cfg.Concurrency,
		ProgressInterval: cfg.ProgressInterval,
	})
	if err != nil {
		return err
	}
	log.Info("fetch finished", "records", n, "path", cfg.Messages, "elapsed", time.Since(start))
	return nil
}
