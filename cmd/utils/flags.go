package utils

import (
	"time"

	"gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/go-referendum/config"
)

var (
	// Config settings
	ConfigFileFlag = cli.StringFlag{
		Name:  "config",
		Usage: "Json configuration file",
	}

	// General settings
	DataDirFlag = DirectoryFlag{
		Name:  "datadir",
		Usage: "Directory for the run log",
	}
	LogLvlFlag = cli.StringFlag{
		Name:  "loglevel",
		Usage: "log level (info,eror,warn,dbug)",
	}

	// Ledger settings
	SnapshotFlag = cli.StringFlag{
		Name:  "snapshot",
		Usage: "Full snapshot `file`",
	}
	MessagesFlag = cli.StringFlag{
		Name:  "messages",
		Usage: "Message cache `file`",
	}
	StoreFlag = DirectoryFlag{
		Name:  "store",
		Usage: "Leveldb message store directory, read instead of the message cache file when set",
	}
	JSONFlag = cli.BoolFlag{
		Name:  "json",
		Usage: "Print the result as json",
	}

	// Node settings
	NodeFlag = cli.StringFlag{
		Name:  "node",
		Usage: "Node API `url` messages are fetched from",
	}
	PermanodeFlag = cli.StringFlag{
		Name:  "permanode",
		Usage: "Permanode API `url` asked for messages the node has pruned",
	}
	ConcurrencyFlag = cli.IntFlag{
		Name:  "concurrency",
		Usage: "Maximum number of requests in flight",
	}
	TimeoutFlag = cli.DurationFlag{
		Name:  "timeout",
		Usage: "Deadline for the whole fetch, 0 means none",
	}
	RequestTimeoutFlag = cli.DurationFlag{
		Name:  "requesttimeout",
		Usage: "Deadline for a single request",
	}
)

// MergeFlags concatenates flag groups.
func MergeFlags(flagsSet ...[]cli.Flag) []cli.Flag {
	mergeFlags := []cli.Flag{}
	for _, flags := range flagsSet {
		mergeFlags = append(mergeFlags, flags...)
	}
	return mergeFlags
}

func isSet(ctx *cli.Context, name string) bool {
	return ctx.IsSet(name) || ctx.GlobalIsSet(name)
}

func stringOf(ctx *cli.Context, name string) string {
	if v := ctx.String(name); v != "" {
		return v
	}
	return ctx.GlobalString(name)
}

// MakeConfig loads the --config file, or the defaults, and applies the flags
// set on the command line over it.
func MakeConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default()
	if file := stringOf(ctx, ConfigFileFlag.Name); file != "" {
		var err error
		if cfg, err = config.Load(ExpandPath(file)); err != nil {
			return nil, err
		}
	}

	for name, dst := range map[string]*string{
		DataDirFlag.Name:   &cfg.DataDir,
		LogLvlFlag.Name:    &cfg.LogLevel,
		SnapshotFlag.Name:  &cfg.Snapshot,
		MessagesFlag.Name:  &cfg.Messages,
		StoreFlag.Name:     &cfg.Store,
		NodeFlag.Name:      &cfg.Endpoint,
		PermanodeFlag.Name: &cfg.Permanode,
	} {
		if isSet(ctx, name) {
			*dst = stringOf(ctx, name)
		}
	}
	if ctx.IsSet(ConcurrencyFlag.Name) {
		cfg.Concurrency = ctx.Int(ConcurrencyFlag.Name)
	}
	if ctx.IsSet(RequestTimeoutFlag.Name) {
		cfg.RequestTimeout = config.Duration(ctx.Duration(RequestTimeoutFlag.Name))
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// FetchTimeout is the deadline of a whole fetch, zero when unset.
func FetchTimeout(ctx *cli.Context) time.Duration {
	return ctx.Duration(TimeoutFlag.Name)
}
