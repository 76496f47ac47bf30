package poller

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/givechain/donation-middleware/pkg/ledger"
)

// MockReceiptProvider is a mock implementation of ReceiptProvider
type MockReceiptProvider struct {
	TransactionReceiptFunc func(ctx context.Context, hash common.Hash) (*types.Receipt, error)
}

func (m *MockReceiptProvider) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if m.TransactionReceiptFunc != nil {
		return m.TransactionReceiptFunc(ctx, hash)
	}
	return nil, nil
}

// MockLedgerStore is a mock implementation of LedgerStore
type MockLedgerStore struct {
	ByStatusFunc       func(ctx context.Context, status ledger.TxStatus) ([]*ledger.TransactionRecord, error)
	SetStatusFunc      func(ctx context.Context, hash string, status ledger.TxStatus, receipt *ledger.ReceiptSummary) (bool, error)
	PurgeOlderThanFunc func(ctx context.Context, ageDays int) (int, error)
}

func (m *MockLedgerStore) ByStatus(ctx context.Context, status ledger.TxStatus) ([]*ledger.TransactionRecord, error) {
	if m.ByStatusFunc != nil {
		return m.ByStatusFunc(ctx, status)
	}
	return nil, nil
}

func (m *MockLedgerStore) SetStatus(ctx context.Context, hash string, status ledger.TxStatus, receipt *ledger.ReceiptSummary) (bool, error) {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, hash, status, receipt)
	}
	return false, nil
}

func (m *MockLedgerStore) PurgeOlderThan(ctx context.Context, ageDays int) (int, error) {
	if m.PurgeOlderThanFunc != nil {
		return m.PurgeOlderThanFunc(ctx, ageDays)
	}
	return 0, nil
}
