package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/givechain/donation-middleware/internal/metrics"
	"github.com/givechain/donation-middleware/pkg/ledger/storage"
)

// Store is the transaction ledger record store. Every operation performs an
// atomic load-mutate-save cycle against the storage port while holding the
// store mutex; concurrent writers from other processes resolve by
// last-writer-wins, which is the accepted consistency model for this ledger.
type Store struct {
	mu     sync.Mutex
	port   storage.Port
	logger *zap.Logger

	now func() time.Time
}

// NewStore creates a ledger store over the given storage port.
func NewStore(port storage.Port, logger *zap.Logger) *Store {
	return &Store{
		port:   port,
		logger: logger,
		now:    time.Now,
	}
}

// collection is the persisted shape: hash -> record.
type collection map[string]*TransactionRecord

func (s *Store) load(ctx context.Context) (collection, error) {
	data, err := s.port.Load(ctx)
	if err == storage.ErrNotFound {
		return collection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	var col collection
	if err := json.Unmarshal(data, &col); err != nil {
		// A corrupt blob would otherwise wedge every future write. Start
		// fresh and keep going; the chain remains the authoritative record.
		s.logger.Error("Ledger blob is corrupt, starting with empty collection", zap.Error(err))
		return collection{}, nil
	}
	if col == nil {
		col = collection{}
	}
	return col, nil
}

func (s *Store) save(ctx context.Context, col collection) error {
	data, err := json.Marshal(col)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}
	if err := s.port.Save(ctx, data); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// Upsert inserts a new pending record or overwrites the kind fields of an
// existing record with the same hash. A terminal status is preserved; an
// empty hash is logged and reported without panicking into the caller flow.
func (s *Store) Upsert(ctx context.Context, record *TransactionRecord) error {
	if record == nil || record.Hash == "" {
		s.logger.Warn("Ignoring ledger upsert without a transaction hash")
		return fmt.Errorf("ledger: upsert requires a transaction hash")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.load(ctx)
	if err != nil {
		return err
	}

	now := s.now()
	if existing, ok := col[record.Hash]; ok {
		// Same hash means the same chain transaction: refresh the kind
		// fields but never regress a terminal status or lose its receipt.
		updated := *record
		updated.SubmittedAt = existing.SubmittedAt
		updated.LastUpdated = now
		if existing.Status.IsTerminal() {
			updated.Status = existing.Status
			updated.Receipt = existing.Receipt
			updated.LastUpdated = existing.LastUpdated
		}
		col[record.Hash] = &updated
	} else {
		fresh := *record
		if fresh.Status == "" {
			fresh.Status = StatusPending
		}
		fresh.SubmittedAt = now
		fresh.LastUpdated = now
		col[record.Hash] = &fresh
		metrics.RecordsCreated.WithLabelValues(string(fresh.Kind)).Inc()
	}

	return s.save(ctx, col)
}

// SetStatus transitions a record to the given status, stamping LastUpdated
// and attaching the receipt summary on terminal transitions. It returns
// false when the hash is unknown. Records already in a terminal state are
// left untouched, which makes confirmation idempotent: whichever of the
// poller or the reconciler lands first wins and the other call is a no-op.
func (s *Store) SetStatus(ctx context.Context, hash string, status TxStatus, receipt *ReceiptSummary) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.load(ctx)
	if err != nil {
		return false, err
	}

	record, ok := col[hash]
	if !ok {
		return false, nil
	}
	if record.Status.IsTerminal() {
		return true, nil
	}

	record.Status = status
	record.LastUpdated = s.now()
	if status.IsTerminal() {
		record.Receipt = receipt
	}
	metrics.RecordTransitions.WithLabelValues(string(record.Kind), string(status)).Inc()

	return true, s.save(ctx, col)
}

// GetByHash returns the record for the given hash, or nil when unknown.
func (s *Store) GetByHash(ctx context.Context, hash string) (*TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	record, ok := col[hash]
	if !ok {
		return nil, nil
	}
	out := *record
	return &out, nil
}

// ListAll returns every record ordered newest-first for display.
func (s *Store) ListAll(ctx context.Context) ([]*TransactionRecord, error) {
	return s.ListByPredicate(ctx, func(*TransactionRecord) bool { return true })
}

// ListByPredicate returns matching records ordered newest-first.
func (s *Store) ListByPredicate(ctx context.Context, match func(*TransactionRecord) bool) ([]*TransactionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	var out []*TransactionRecord
	for _, record := range col {
		if match(record) {
			copied := *record
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].SubmittedAt.After(out[j].SubmittedAt)
	})
	return out, nil
}

// PurgeOlderThan deletes records submitted more than ageDays ago,
// regardless of status, and returns how many were removed.
func (s *Store) PurgeOlderThan(ctx context.Context, ageDays int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	col, err := s.load(ctx)
	if err != nil {
		return 0, err
	}

	cutoff := s.now().AddDate(0, 0, -ageDays)
	removed := 0
	for hash, record := range col {
		if record.SubmittedAt.Before(cutoff) {
			delete(col, hash)
			removed++
		}
	}
	if removed == 0 {
		return 0, nil
	}

	metrics.RecordsPurged.Add(float64(removed))
	s.logger.Info("Purged aged ledger records",
		zap.Int("removed", removed),
		zap.Int("retention_days", ageDays))

	return removed, s.save(ctx, col)
}
