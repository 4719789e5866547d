package common

import (
	"io"
	"os"
	"path/filepath"

	"github.com/inconshreveable/log15"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	LogSubDir   = "runlog"
	LogFileName = "gvote.log"
)

func makeDefaultLogger(absFilePath string) io.Writer {
	return &lumberjack.Logger{
		Filename:   absFilePath,
		MaxSize:    100,
		MaxBackups: 14,
		MaxAge:     14,
		Compress:   true,
		LocalTime:  true,
	}
}

func parseLvl(lvl string) log15.Lvl {
	logLevel, err := log15.LvlFromString(lvl)
	if err != nil {
		return log15.LvlInfo
	}
	return logLevel
}

// LogHandler writes logfmt records at or above lvl to a rotated file under
// path/subDir.
func LogHandler(path, subDir, filename, lvl string) log15.Handler {
	absFilename := filepath.Join(path, subDir, filename)
	out := makeDefaultLogger(absFilename)
	return log15.LvlFilterHandler(parseLvl(lvl), log15.StreamHandler(out, log15.LogfmtFormat()))
}

// TerminalHandler writes to stderr, colored when stderr is a terminal.
func TerminalHandler(lvl string) log15.Handler {
	useColor := isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
	var out io.Writer = os.Stderr
	if useColor {
		out = colorable.NewColorableStderr()
	}
	return log15.LvlFilterHandler(parseLvl(lvl), log15.StreamHandler(out, log15.TerminalFormat()))
}

// SetupLog routes the root logger to the terminal and, when dataDir is set,
// to the rotated log file as well.
func SetupLog(dataDir, lvl string) {
	handlers := []log15.Handler{TerminalHandler(lvl)}
	if dataDir != "" {
		handlers = append(handlers, LogHandler(dataDir, LogSubDir, LogFileName, lvl))
	}
	log15.Root().SetHandler(log15.MultiHandler(handlers...))
}
