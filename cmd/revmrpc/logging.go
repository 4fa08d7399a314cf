package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ethereum/go-ethereum/log"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v2"
	"gopkg.in/natefinch/lumberjack.v2"
)

// setupLogging installs the root log handler selected by the log flags.
func setupLogging(ctx *cli.Context) error {
	var (
		output   io.Writer = os.Stderr
		useColor           = (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
	)
	if useColor {
		output = colorable.NewColorableStderr()
	}
	if file := ctx.String(logFileFlag.Name); file != "" {
		output = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    ctx.Int(logMaxSizeFlag.Name),
			MaxBackups: ctx.Int(logMaxBackupsFlag.Name),
			MaxAge:     ctx.Int(logMaxAgeFlag.Name),
			Compress:   ctx.Bool(logCompressFlag.Name),
		}
		useColor = false
	}
	handler, err := logHandler(output, ctx.String(logFormatFlag.Name), log.FromLegacyLevel(ctx.Int(verbosityFlag.Name)), useColor)
	if err != nil {
		return err
	}
	log.SetDefault(log.NewLogger(handler))
	return nil
}

func logHandler(output io.Writer, format string, lvl slog.Level, useColor bool) (slog.Handler, error) {
	switch format {
	case "json":
		return log.JSONHandlerWithLevel(output, lvl), nil
	case "logfmt":
		return log.LogfmtHandlerWithLevel(output, lvl), nil
	case "", "terminal":
		return log.NewTerminalHandlerWithLevel(output, lvl, useColor), nil
	default:
		return nil, fmt.Errorf("unknown log format: %q", format)
	}
}
