package main

import (
	"fmt"
	"runtime"
	"strings"

	"gopkg.in/urfave/cli.v1"

	"github.com/vitelabs/go-referendum/cmd/params"
	"github.com/vitelabs/go-referendum/ledger"
)

var versionCommand = cli.Command{
	Action:    versionAction,
	Name:      "version",
	Usage:     "Print version numbers",
	ArgsUsage: " ",
	Category:  "MISCELLANEOUS COMMANDS",
	Description: `
The output of this command is supposed to be machine-readable.
`,
}

func versionAction(ctx *cli.Context) error {
	fmt.Println(strings.Title("gvote"))
	fmt.Println("Version:", params.Version)
	fmt.Println("Architecture:", runtime.GOARCH)
	fmt.Println("Token Supply:", ledger.TokenSupply)
	fmt.Println("Go Version:", runtime.Version())
	fmt.Println("Operating System:", runtime.GOOS)
	return nil
}
