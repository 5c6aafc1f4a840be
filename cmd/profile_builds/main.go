package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/qluke/genshin-builds/internal/app"
	"github.com/qluke/genshin-builds/internal/config"
	"github.com/qluke/genshin-builds/internal/logging"
)

func main() {
	command := ""
	args := os.Args[1:]
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		command, args = args[0], args[1:]
	}

	cfg, rest, err := config.Load("profile_builds", args)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		fmt.Fprintln(os.Stderr, app.Usage)
		os.Exit(app.ExitUsage)
	}

	format := cfg.LogFormat
	if format == config.Defaults().LogFormat {
		format = "console"
	}
	log, err := logging.New(cfg.LogLevel, format)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(app.ExitUsage)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Run(ctx, cfg, command, rest, log, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		_ = log.Sync()
		os.Exit(app.ExitCode(err))
	}
}
