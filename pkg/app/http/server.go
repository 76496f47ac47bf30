package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/givechain/donation-middleware/pkg/config"
)

const defaultDrainTimeout = 30 * time.Second

// A Worker is a background loop tied to the server's lifetime, such as the
// receipt poller. Stop must block until the loop has drained and must be
// safe to call more than once.
type Worker interface {
	Stop()
}

// Serve runs the monitor's HTTP listener until ctx is canceled or the
// listener fails, then tears down in a fixed order: the listener drains
// first, bounded by cfg.ShutdownTimeout, and only then are the workers
// stopped. Callers keep their chain and storage handles open until Serve
// returns, so an in-flight sweep never races a closed client.
func Serve(ctx context.Context, handler http.Handler, logger *zap.Logger, cfg *config.ServerConfig, workers ...Worker) error {
	if handler == nil {
		return fmt.Errorf("nil handler")
	}
	if cfg == nil {
		return fmt.Errorf("nil server config")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	listenErr := make(chan error, 1)
	go func() {
		logger.Info("Monitor API listening", zap.String("address", srv.Addr))
		err := srv.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		listenErr <- err
	}()

	var cause error
	select {
	case <-ctx.Done():
		logger.Info("Stop requested, draining monitor API")
	case cause = <-listenErr:
		logger.Error("Monitor API listener failed", zap.Error(cause))
	}

	timeout := cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultDrainTimeout
	}
	drainCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	shutdownErr := srv.Shutdown(drainCtx)

	for _, w := range workers {
		w.Stop()
	}
	if len(workers) > 0 {
		logger.Info("Background workers stopped", zap.Int("count", len(workers)))
	}

	if cause != nil {
		return fmt.Errorf("monitor api listener: %w", cause)
	}
	if shutdownErr != nil {
		return fmt.Errorf("monitor api shutdown: %w", shutdownErr)
	}
	logger.Info("Monitor API stopped")
	return nil
}
