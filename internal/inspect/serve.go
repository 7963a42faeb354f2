package inspect

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

// Serve runs an http server for handler on ln until ctx is done, then
// shuts it down gracefully.
func Serve(ctx context.Context, logger *zap.Logger, ln net.Listener, handler http.Handler) error {
	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	shutdownErr := make(chan error, 1)
	go func() {
		// Block until the handshake is over and nobody asked to linger,
		// or the parent context is cancelled (ctrl+c | SIGTERM)
		<-ctx.Done()
		logger.Info("inspect server: terminating...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		shutdownErr <- srv.Shutdown(shutdownCtx)
	}()

	logger.Info("inspect server: listening", zap.Stringer("addr", ln.Addr()))
	err := srv.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		err = nil
	}
	if err != nil {
		// Serve failed on its own: the watcher is still waiting on ctx.
		return err
	}
	err = multierr.Append(err, <-shutdownErr)
	if err != nil {
		logger.Error("inspect server: error while terminating", zap.Error(err))
	} else {
		logger.Info("inspect server terminated.")
	}
	return err
}
