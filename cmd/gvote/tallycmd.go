package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/shirou/gopsutil/mem"
	"gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/go-referendum/cmd/utils"
	"github.com/vitelabs/go-referendum/message_cache"
	"github.com/vitelabs/go-referendum/message_store"
	"github.com/vitelabs/go-referendum/snapshot"
	"github.com/vitelabs/go-referendum/vote"
)

var tallyCommand = cli.Command{
	Action:   tallyAction,
	Name:     "tally",
	Usage:    "Tally the votes of a snapshot",
	Category: "LEDGER COMMANDS",
	Flags: []cli.Flag{
		utils.SnapshotFlag,
		utils.MessagesFlag,
		utils.StoreFlag,
		utils.JSONFlag,
	},
	Description: `
Reads the snapshot and the originating messages of its outputs, either from
the message cache file or from a leveldb store filled by the index command,
and prints how the ledger's value voted.
`,
}

func tallyAction(ctx *cli.Context) error {
	cfg, err := utils.MakeConfig(ctx)
	if err != nil {
		return err
	}

	snap, err := snapshot.Read(cfg.Snapshot)
	if err != nil {
		return err
	}

	var source vote.MessageSource
	if cfg.Store != "" {
		store, err := message_store.Open(cfg.Store)
		if err != nil {
			return err
		}
		defer store.Close()
		source = store
	} else {
		cache, err := message_cache.Load(cfg.Messages)
		if err != nil {
			return err
		}
		source = cache
	}
	logMemory()

	result, err := vote.Tally(snap, source)
	if err != nil {
		return err
	}

	if ctx.Bool(utils.JSONFlag.Name) {
		return writeJSON(ctx.App.Writer, result)
	}
	return writeReport(ctx.App.Writer, result)
}

func logMemory() {
	vm, err := mem.VirtualMemory()
	if err != nil {
		log.Warn("can't read memory stats", "err", err)
		return
	}
	log.Info("memory", "used", vm.Used, "usedPercent", fmt.Sprintf("%.1f", vm.UsedPercent), "total", vm.Total)
}

func writeJSON(w io.Writer, r *vote.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

func writeReport(w io.Writer, r *vote.Result) error {
	lines := []struct {
		name  string
		value uint64
	}{
		{"iotas_voted_for_build", r.IotasVotedForBuild},
		{"iotas_voted_for_burn", r.IotasVotedForBurn},
		{"iotas_not_voted", r.IotasNotVoted},
		{"amount_votes_for_build", r.AmountVotesForBuild},
		{"amount_votes_for_burn", r.AmountVotesForBurn},
		{"amount_not_voted", r.AmountNotVoted},
		{"skipped_genesis_outputs", r.SkippedGenesisOutputs},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-24s %d\n", l.name, l.value); err != nil {
			return err
		}
	}

	b := r.Breakdown
	fmt.Fprintln(w)
	color.New(color.Bold).Fprintln(w, "not voted")
	fmt.Fprintf(w, "  %-22s %d outputs, %d iotas\n", "no signal", b.NoSignal.Outputs, b.NoSignal.Iotas)
	fmt.Fprintf(w, "  %-22s %d outputs, %d iotas\n", "malformed", b.Malformed.Outputs, b.Malformed.Iotas)
	fmt.Fprintf(w, "  %-22s %d outputs, %d iotas\n", "unrecognized tag", b.UnrecognizedTag.Outputs, b.UnrecognizedTag.Iotas)

	tags := make([]string, 0, len(b.Tags))
	for tag := range b.Tags {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		c := b.Tags[tag]
		if _, err := fmt.Fprintf(w, "    %-20q %d outputs, %d iotas\n", tag, c.Outputs, c.Iotas); err != nil {
			return err
		}
	}
	return nil
}
