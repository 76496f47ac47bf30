// Package api implements the monitor daemon's HTTP server process.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apphttp "github.com/givechain/donation-middleware/pkg/app/http"
	"github.com/givechain/donation-middleware/pkg/backend"
	"github.com/givechain/donation-middleware/pkg/config"
	"github.com/givechain/donation-middleware/pkg/ethereum"
	"github.com/givechain/donation-middleware/pkg/ledger"
	"github.com/givechain/donation-middleware/pkg/ledger/storage"
	"github.com/givechain/donation-middleware/pkg/poller"
	"github.com/givechain/donation-middleware/pkg/reconciler"
	"github.com/givechain/donation-middleware/pkg/stats"
)

const defaultRequestTimeout = 60

// Server holds cfg to init the monitor server.
type Server struct {
	cfg *config.Config
}

// NewServer initializes a new monitor server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("server config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting donation monitor",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	port, closePort, err := openStorage(&cfg.Ledger, logger)
	if err != nil {
		return err
	}
	defer closePort()

	store := ledger.NewStore(port, logger)

	chainClient, err := ethereum.NewClient(&cfg.Ethereum, logger)
	if err != nil {
		return fmt.Errorf("connect ethereum: %w", err)
	}
	defer chainClient.Close()

	mirror := backend.NewClient(&cfg.Backend, logger)
	cache := ledger.NewCampaignCache()
	aggregator := stats.NewAggregator(store, logger)

	rec := reconciler.New(chainClient, store, mirror, cache, cfg.Ethereum.ConfirmTimeout, logger)

	receiptPoller := poller.New(chainClient, store, &cfg.Poller, logger)
	receiptPoller.Start(ctx)

	router := s.setupRouter(&handlers{
		donations: rec,
		records:   store,
		stats:     aggregator,
		chain:     chainClient,
		admin:     chainClient,
		cache:     cache,
		poller:    receiptPoller,
		logger:    logger,
	})

	// Serve stops the poller after the listener drains, ahead of the
	// deferred chain and storage closes.
	return apphttp.Serve(ctx, router, logger, &cfg.Server, receiptPoller)
}

func (s *Server) setupRouter(h *handlers) chi.Router {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(time.Second * defaultRequestTimeout))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Post("/donations", apphttp.HandleError(h.donate))
		r.Post("/donations/direct", apphttp.HandleError(h.directDonation))
		r.Post("/campaigns", apphttp.HandleError(h.createCampaign))
		r.Get("/campaigns", apphttp.HandleError(h.listCampaigns))
		r.Get("/campaigns/{id}", apphttp.HandleError(h.getCampaign))
		r.Post("/campaigns/{id}/approve", apphttp.HandleError(h.adminAction(h.admin.ApproveCampaign)))
		r.Post("/campaigns/{id}/close", apphttp.HandleError(h.adminAction(h.admin.CloseCampaign)))
		r.Post("/campaigns/{id}/withdraw", apphttp.HandleError(h.adminAction(h.admin.WithdrawFunds)))
		r.Get("/transactions", apphttp.HandleError(h.listTransactions))
		r.Get("/transactions/{hash}", apphttp.HandleError(h.getTransaction))
		r.Get("/stats", apphttp.HandleError(h.globalStats))
		r.Get("/stats/campaign/{id}", apphttp.HandleError(h.campaignStats))
		r.Get("/stats/user/{address}", apphttp.HandleError(h.senderStats))
		r.Post("/monitor/run", apphttp.HandleError(h.runMonitor))
	})

	return r
}

// openStorage builds the configured storage port. The returned closer is a
// no-op for ports without resources to release.
func openStorage(cfg *config.LedgerConfig, logger *zap.Logger) (storage.Port, func(), error) {
	switch cfg.Backend {
	case "file":
		port, err := storage.NewFileStore(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open file storage: %w", err)
		}
		logger.Info("Using file ledger storage", zap.String("path", cfg.Path))
		return port, func() {}, nil
	case "badger":
		port, err := storage.NewBadgerStore(cfg.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open badger storage: %w", err)
		}
		logger.Info("Using badger ledger storage", zap.String("path", cfg.Path))
		return port, func() { _ = port.Close() }, nil
	case "memory":
		logger.Info("Using in-memory ledger storage")
		return storage.NewMemStore(), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown ledger backend: %s", cfg.Backend)
	}
}
