// Package serve runs a local catalog server backed by SQLite so the client
// has something to talk to.
package serve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/lepinkainen/bookcall/internal/store"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

// Options configures the fixture server.
type Options struct {
	Addr     string
	DBFile   string
	SeedFile string
}

// Run opens and seeds the store, then serves until ctx is done.
func Run(ctx context.Context, opts Options) error {
	books, err := store.LoadSeedFile(opts.SeedFile)
	if err != nil {
		return err
	}

	s := store.NewSQLiteStore(opts.DBFile)
	if err := s.Connect(); err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	if err := store.Seed(ctx, s, books); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", opts.Addr, err)
	}

	slog.Info("Catalog server listening", "addr", ln.Addr().String(), "books", len(books))
	return Serve(ctx, ln, s)
}

// Serve serves the catalog on ln until ctx is done, then shuts down
// gracefully. It takes ownership of ln.
func Serve(ctx context.Context, ln net.Listener, s store.Store) error {
	srv := &http.Server{
		Handler:           NewRouter(s),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("catalog server failed: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		slog.Info("Catalog server shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
