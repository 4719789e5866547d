package main

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/go-referendum/cmd/utils"
	"github.com/vitelabs/go-referendum/message_cache"
	"github.com/vitelabs/go-referendum/message_store"
)

var indexCommand = cli.Command{
	Action:   indexAction,
	Name:     "index",
	Usage:    "Import the message cache into a leveldb store",
	Category: "LEDGER COMMANDS",
	Flags: []cli.Flag{
		utils.MessagesFlag,
		utils.StoreFlag,
	},
}

func indexAction(ctx *cli.Context) error {
	cfg, err := utils.MakeConfig(ctx)
	if err != nil {
		return err
	}
	if cfg.Store == "" {
		return errors.Errorf("--%s is required", utils.StoreFlag.Name)
	}

	f, err := os.Open(cfg.Messages)
	if err != nil {
		return errors.Wrap(err, "open message cache")
	}
	defer f.Close()

	r, err := message_cache.NewReader(f)
	if err != nil {
		return err
	}

	store, err := message_store.Open(cfg.Store)
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Import(r)
	if err != nil {
		return err
	}
	stored, err := store.Len()
	if err != nil {
		return err
	}
	log.Info("index finished", "records", n, "stored", stored, "store", cfg.Store)
	return nil
}
