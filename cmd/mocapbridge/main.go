package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rickgao/mocap-bridge/internal/config"
	"github.com/rickgao/mocap-bridge/internal/console"
	"github.com/rickgao/mocap-bridge/internal/session"
	"github.com/rickgao/mocap-bridge/internal/version"
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout io.Writer, stderr io.Writer) int {
	fs := flag.NewFlagSet("mocapbridge", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { printUsage(fs) }

	configPath := fs.String("config", "", "path to config file (default: built-in defaults)")
	persistent := fs.Bool("persistent", false, "reconnect to the target when the connection drops")
	headless := fs.Bool("headless", false, "run without the interactive console")
	logLevel := fs.String("log-level", "", "log level override (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 1
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(stderr, "Please give the address in the format x.x.x.x:port")
		fs.Usage()
		return 1
	}

	cfg, err := config.LoadWithDefaults(*configPath)
	if err != nil {
		fmt.Fprintln(stderr, "failed to load config:", err)
		return 1
	}
	cfg.Target.Address = fs.Arg(0)
	if *persistent {
		cfg.Target.Persistent = true
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "invalid configuration:", err)
		fs.Usage()
		return 1
	}

	// Set up structured logging
	logger, err := newLogger(stderr, cfg.Logging)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	slog.SetDefault(logger)

	logger.Info("starting mocap bridge",
		"version", version.String(),
		"config", *configPath,
		"target", cfg.Target.Address,
		"persistent", cfg.Target.Persistent,
		"transform", cfg.TransformEnabled(),
	)

	sess, err := session.New(cfg, logger)
	if err != nil {
		logger.Error("failed to create session", "error", err)
		return 1
	}

	// Handle shutdown signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sess.Start(ctx); err != nil {
		logger.Error("failed to start session", "error", err)
		return 1
	}

	code := 0
	if *headless {
		<-ctx.Done()
		logger.Info("received shutdown signal")
	} else if err := console.Run(ctx, sess, tea.WithOutput(stdout)); err != nil {
		logger.Error("console error", "error", err)
		code = 1
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := sess.Stop(shutdownCtx); err != nil {
		logger.Error("shutdown incomplete", "error", err)
		code = 1
	}

	logger.Info("mocap bridge stopped")
	return code
}

func newLogger(w io.Writer, cfg config.LoggingConfig) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	opts := &slog.HandlerOptions{Level: level}

	switch cfg.Format {
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return slog.New(slog.NewTextHandler(w, opts)), nil
	}
}

func printUsage(fs *flag.FlagSet) {
	w := fs.Output()
	fmt.Fprintln(w, "Usage: mocapbridge [flags] x.x.x.x:port")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Streams rigid-body poses to a TCP consumer, one line per tracked body.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fs.PrintDefaults()
}
