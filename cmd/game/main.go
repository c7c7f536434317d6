package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/ledger"
	"github.com/tomz197/skyraid/internal/loop"
	"github.com/tomz197/skyraid/internal/store"
)

func main() {
	// Logs share the terminal with the game, so only warnings by default.
	logger := config.NewLogger(os.Stderr, "skyraid")
	logger.SetLevel(config.ParseLevel(config.GetEnv("LOG_LEVEL", "warn")))
	kv := store.Open(config.GetEnv("SKYRAID_DATA", ""), logger)

	player := config.GetEnv("SKYRAID_PLAYER", config.GetEnv("USER", "pilot"))

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = loop.RunTerminal(ctx, bufio.NewReader(os.Stdin), os.Stdout, loop.SessionOptions{
		Player: player,
		FPS:    config.GetEnvInt("SKYRAID_FPS", 60),
		Ledger: ledger.New(kv, logger),
		Wallet: ledger.NewWallet(kv, logger),
		Logger: logger,
	})
	if err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}
}
