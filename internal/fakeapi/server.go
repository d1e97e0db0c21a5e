package fakeapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Serve runs the stand-in on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, store *Store) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(store),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("fakeapi: listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("fakeapi: shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
