package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/inconshreveable/log15"
	"gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/go-referendum/cmd/params"
	"github.com/vitelabs/go-referendum/cmd/utils"
	"github.com/vitelabs/go-referendum/common"
)

// gvote audits the referendum votes recorded in a ledger snapshot

var (
	log = log15.New("module", "gvote/main")

	app = cli.NewApp()

	//config
	configFlags = []cli.Flag{
		utils.ConfigFileFlag,
	}
	//general
	generalFlags = []cli.Flag{
		utils.DataDirFlag,
		utils.LogLvlFlag,
	}
)

func init() {
	app.Name = filepath.Base(os.Args[0])
	app.HideVersion = false
	app.Version = params.Version
	app.Compiled = time.Now()
	app.Usage = "the referendum vote audit tool"

	app.Commands = []cli.Command{
		versionCommand,
		tallyCommand,
		fetchCommand,
		indexCommand,
	}
	sort.Sort(cli.CommandsByName(app.Commands))

	app.Flags = utils.MergeFlags(configFlags, generalFlags)
	app.Before = beforeAction
}

func main() {
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func beforeAction(ctx *cli.Context) error {
	cfg, err := utils.MakeConfig(ctx)
	if err != nil {
		return err
	}
	common.SetupLog(cfg.DataDir, cfg.LogLevel)
	return nil
}
