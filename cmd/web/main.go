package main

import (
	"context"
	_ "embed"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomz197/skyraid/internal/config"
	"github.com/tomz197/skyraid/internal/ledger"
	"github.com/tomz197/skyraid/internal/store"
	"github.com/tomz197/skyraid/internal/web"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage []byte

func main() {
	logger := config.NewLogger(os.Stderr, "skyraid-web")

	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	kv := store.Open(config.GetEnv("SKYRAID_DATA", ""), logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := web.NewServer(web.Options{
		Ledger: ledger.New(kv, logger),
		Wallet: ledger.NewWallet(kv, logger),
		Logger: logger,
		FPS:    config.GetEnvInt("SKYRAID_FPS", 60),
		Page:   htmlPage,
	})
	httpServer := &http.Server{
		Addr:              net.JoinHostPort(host, port),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		// Sessions end with the base context, since hijacked connections
		// are not closed by Shutdown.
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("starting web server", "addr", "http://"+httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down", "sessions", srv.Sessions())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})
	if err := g.Wait(); err != nil {
		logger.Fatal("server error", "err", err)
	}
}
