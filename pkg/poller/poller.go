// Package poller verifies and repairs pending ledger records against the
// chain, independently of any in-flight confirmation wait.
package poller

import (
	"context"
	"sync"
	"time"

	goethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/givechain/donation-middleware/internal/metrics"
	"github.com/givechain/donation-middleware/pkg/config"
	"github.com/givechain/donation-middleware/pkg/ethereum"
	"github.com/givechain/donation-middleware/pkg/ledger"
)

// ReceiptProvider is the slice of the chain client the poller needs.
type ReceiptProvider interface {
	TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

// LedgerStore is the slice of the record store the poller needs.
type LedgerStore interface {
	ByStatus(ctx context.Context, status ledger.TxStatus) ([]*ledger.TransactionRecord, error)
	SetStatus(ctx context.Context, hash string, status ledger.TxStatus, receipt *ledger.ReceiptSummary) (bool, error)
	PurgeOlderThan(ctx context.Context, ageDays int) (int, error)
}

// Poller sweeps pending records on a fixed interval and runs a much coarser
// retention sweep. Both the poller and the reconciler resolve records through
// the same idempotent SetStatus, so whichever confirms first wins and the
// other call is a no-op.
type Poller struct {
	provider ReceiptProvider
	store    LedgerStore
	cfg      *config.PollerConfig
	logger   *zap.Logger

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// New creates a poller.
func New(provider ReceiptProvider, store LedgerStore, cfg *config.PollerConfig, logger *zap.Logger) *Poller {
	return &Poller{
		provider: provider,
		store:    store,
		cfg:      cfg,
		logger:   logger,
		stopCh:   make(chan struct{}),
	}
}

// Start launches the receipt sweep and retention loops. It returns
// immediately; Stop releases both tickers.
func (p *Poller) Start(ctx context.Context) {
	p.logger.Info("Starting receipt poller",
		zap.Duration("interval", p.cfg.Interval),
		zap.Duration("purge_interval", p.cfg.PurgeInterval),
		zap.Int("retention_days", p.cfg.RetentionDays))

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		ticker := time.NewTicker(p.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-p.stopCh:
				return
			case <-ticker.C:
				if err := p.RunOnce(ctx); err != nil {
					p.logger.Error("Receipt sweep failed", zap.Error(err))
				}
			}
		}
	}()

	if p.cfg.PurgeInterval > 0 && p.cfg.RetentionDays > 0 {
		p.wg.Add(1)
		go func() {
			defer p.wg.Done()

			ticker := time.NewTicker(p.cfg.PurgeInterval)
			defer ticker.Stop()

			for {
				select {
				case <-ctx.Done():
					return
				case <-p.stopCh:
					return
				case <-ticker.C:
					if _, err := p.store.PurgeOlderThan(ctx, p.cfg.RetentionDays); err != nil {
						p.logger.Error("Retention sweep failed", zap.Error(err))
					}
				}
			}
		}()
	}
}

// Stop releases the poller's tickers and waits for in-flight sweeps.
// Safe to call more than once.
func (p *Poller) Stop() {
	p.stopOnce.Do(func() { close(p.stopCh) })
	p.wg.Wait()
	p.logger.Info("Receipt poller stopped")
}

// RunOnce performs a single sweep over all pending records. Also invoked
// directly for manual refresh. Per-record failures are isolated: a provider
// hiccup on one hash is logged and the sweep moves on.
func (p *Poller) RunOnce(ctx context.Context) error {
	start := time.Now()

	pending, err := p.store.ByStatus(ctx, ledger.StatusPending)
	if err != nil {
		return err
	}
	metrics.PendingRecords.Set(float64(len(pending)))
	if len(pending) == 0 {
		return nil
	}

	var confirmed, failed, inFlight int
	for _, record := range pending {
		outcome := p.checkRecord(ctx, record)
		switch outcome {
		case ledger.StatusConfirmed:
			confirmed++
		case ledger.StatusFailed:
			failed++
		default:
			inFlight++
		}
	}

	metrics.PollSweepDuration.Observe(time.Since(start).Seconds())
	p.logger.Info("Receipt sweep completed",
		zap.Int("pending", len(pending)),
		zap.Int("confirmed", confirmed),
		zap.Int("failed", failed),
		zap.Int("in_flight", inFlight),
		zap.Duration("duration", time.Since(start)))

	return nil
}

// checkRecord resolves one pending record. Returns the terminal status it
// applied, or StatusPending when the record was left untouched.
func (p *Poller) checkRecord(ctx context.Context, record *ledger.TransactionRecord) ledger.TxStatus {
	receipt, err := p.provider.TransactionReceipt(ctx, common.HexToHash(record.Hash))
	if err == goethereum.NotFound {
		// Still in flight. Not an error: mempool residence has no deadline.
		metrics.ReceiptLookups.WithLabelValues("not_found").Inc()
		return ledger.StatusPending
	}
	if err != nil {
		metrics.ReceiptLookups.WithLabelValues("error").Inc()
		p.logger.Warn("Receipt lookup failed",
			zap.String("tx_hash", record.Hash),
			zap.Error(err))
		return ledger.StatusPending
	}
	metrics.ReceiptLookups.WithLabelValues("found").Inc()

	status := ledger.StatusConfirmed
	if receipt.Status != types.ReceiptStatusSuccessful {
		status = ledger.StatusFailed
	}

	updated, err := p.store.SetStatus(ctx, record.Hash, status, ethereum.SummarizeReceipt(receipt))
	if err != nil {
		p.logger.Warn("Failed to update record status",
			zap.String("tx_hash", record.Hash),
			zap.Error(err))
		return ledger.StatusPending
	}
	if !updated {
		p.logger.Warn("Receipt found for unknown record", zap.String("tx_hash", record.Hash))
		return ledger.StatusPending
	}

	metrics.GasUsed.WithLabelValues(string(record.Kind)).Observe(float64(receipt.GasUsed))
	p.logger.Info("Resolved pending transaction",
		zap.String("tx_hash", record.Hash),
		zap.String("status", string(status)),
		zap.Uint64("block", receipt.BlockNumber.Uint64()))

	return status
}
