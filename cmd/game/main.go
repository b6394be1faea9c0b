package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/tomz197/dodge/internal/config"
	"github.com/tomz197/dodge/internal/loop/client"
	gamecfg "github.com/tomz197/dodge/internal/loop/config"
	"github.com/tomz197/dodge/internal/store"
	"golang.org/x/term"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// The terminal belongs to the game, so logs only go to a file when asked.
	logger := log.New(io.Discard)
	if path := config.GetEnv(config.EnvLogFile, ""); path != "" {
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		logger = config.NewLogger(f, "game")
	}

	cfg, err := gamecfg.Load(config.GetEnv(config.EnvConfig, ""))
	if err != nil {
		return err
	}
	records := store.NewFile(config.StorePath())
	logger.Info("starting", "records", records.Path())

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("failed to enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	c, err := client.NewClient(bufio.NewReader(os.Stdin), os.Stdout, client.ClientOptions{
		Username: "local",
		Config:   cfg,
		Store:    store.WithNamespace(records, "local"),
		Logger:   logger,
	})
	if err != nil {
		return err
	}
	if err := c.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
