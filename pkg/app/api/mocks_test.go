package api

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/givechain/donation-middleware/pkg/ethereum"
	"github.com/givechain/donation-middleware/pkg/ledger"
	"github.com/givechain/donation-middleware/pkg/reconciler"
	"github.com/givechain/donation-middleware/pkg/stats"
)

// MockDonationService is a mock implementation of donationService
type MockDonationService struct {
	DonateFunc         func(ctx context.Context, campaignID int64, amount string) (common.Hash, error)
	CreateCampaignFunc func(ctx context.Context, title, description, goal string, durationDays int64) (*reconciler.CreateCampaignResult, error)
	DirectDonationFunc func(ctx context.Context, hash, to, amount string) (*ledger.TransactionRecord, error)
}

func (m *MockDonationService) Donate(ctx context.Context, campaignID int64, amount string) (common.Hash, error) {
	if m.DonateFunc != nil {
		return m.DonateFunc(ctx, campaignID, amount)
	}
	return common.Hash{}, nil
}

func (m *MockDonationService) CreateCampaign(ctx context.Context, title, description, goal string, durationDays int64) (*reconciler.CreateCampaignResult, error) {
	if m.CreateCampaignFunc != nil {
		return m.CreateCampaignFunc(ctx, title, description, goal, durationDays)
	}
	return &reconciler.CreateCampaignResult{}, nil
}

func (m *MockDonationService) DirectDonation(ctx context.Context, hash, to, amount string) (*ledger.TransactionRecord, error) {
	if m.DirectDonationFunc != nil {
		return m.DirectDonationFunc(ctx, hash, to, amount)
	}
	return &ledger.TransactionRecord{}, nil
}

// MockRecordStore is a mock implementation of recordStore
type MockRecordStore struct {
	GetByHashFunc  func(ctx context.Context, hash string) (*ledger.TransactionRecord, error)
	ListAllFunc    func(ctx context.Context) ([]*ledger.TransactionRecord, error)
	ByCampaignFunc func(ctx context.Context, campaignID int64) ([]*ledger.TransactionRecord, error)
	BySenderFunc   func(ctx context.Context, address string) ([]*ledger.TransactionRecord, error)
	ByKindFunc     func(ctx context.Context, kind ledger.TxKind) ([]*ledger.TransactionRecord, error)
	ByStatusFunc   func(ctx context.Context, status ledger.TxStatus) ([]*ledger.TransactionRecord, error)
}

func (m *MockRecordStore) GetByHash(ctx context.Context, hash string) (*ledger.TransactionRecord, error) {
	if m.GetByHashFunc != nil {
		return m.GetByHashFunc(ctx, hash)
	}
	return nil, nil
}

func (m *MockRecordStore) ListAll(ctx context.Context) ([]*ledger.TransactionRecord, error) {
	if m.ListAllFunc != nil {
		return m.ListAllFunc(ctx)
	}
	return nil, nil
}

func (m *MockRecordStore) ByCampaign(ctx context.Context, campaignID int64) ([]*ledger.TransactionRecord, error) {
	if m.ByCampaignFunc != nil {
		return m.ByCampaignFunc(ctx, campaignID)
	}
	return nil, nil
}

func (m *MockRecordStore) BySender(ctx context.Context, address string) ([]*ledger.TransactionRecord, error) {
	if m.BySenderFunc != nil {
		return m.BySenderFunc(ctx, address)
	}
	return nil, nil
}

func (m *MockRecordStore) ByKind(ctx context.Context, kind ledger.TxKind) ([]*ledger.TransactionRecord, error) {
	if m.ByKindFunc != nil {
		return m.ByKindFunc(ctx, kind)
	}
	return nil, nil
}

func (m *MockRecordStore) ByStatus(ctx context.Context, status ledger.TxStatus) ([]*ledger.TransactionRecord, error) {
	if m.ByStatusFunc != nil {
		return m.ByStatusFunc(ctx, status)
	}
	return nil, nil
}

// MockStatsProvider is a mock implementation of statsProvider
type MockStatsProvider struct {
	GlobalFunc      func(ctx context.Context) (*stats.DonationStats, error)
	ForCampaignFunc func(ctx context.Context, campaignID int64) (*stats.DonationStats, error)
	ForSenderFunc   func(ctx context.Context, address string) (*stats.DonationStats, error)
}

func (m *MockStatsProvider) Global(ctx context.Context) (*stats.DonationStats, error) {
	if m.GlobalFunc != nil {
		return m.GlobalFunc(ctx)
	}
	return &stats.DonationStats{}, nil
}

func (m *MockStatsProvider) ForCampaign(ctx context.Context, campaignID int64) (*stats.DonationStats, error) {
	if m.ForCampaignFunc != nil {
		return m.ForCampaignFunc(ctx, campaignID)
	}
	return &stats.DonationStats{}, nil
}

func (m *MockStatsProvider) ForSender(ctx context.Context, address string) (*stats.DonationStats, error) {
	if m.ForSenderFunc != nil {
		return m.ForSenderFunc(ctx, address)
	}
	return &stats.DonationStats{}, nil
}

// MockCampaignReader is a mock implementation of campaignReader
type MockCampaignReader struct {
	GetCampaignByIDFunc func(ctx context.Context, campaignID *big.Int) (*ethereum.Campaign, error)
	GetAllCampaignsFunc func(ctx context.Context) ([]ethereum.Campaign, error)
}

func (m *MockCampaignReader) GetCampaignByID(ctx context.Context, campaignID *big.Int) (*ethereum.Campaign, error) {
	if m.GetCampaignByIDFunc != nil {
		return m.GetCampaignByIDFunc(ctx, campaignID)
	}
	return nil, nil
}

func (m *MockCampaignReader) GetAllCampaigns(ctx context.Context) ([]ethereum.Campaign, error) {
	if m.GetAllCampaignsFunc != nil {
		return m.GetAllCampaignsFunc(ctx)
	}
	return nil, nil
}

// MockCampaignAdmin is a mock implementation of campaignAdmin
type MockCampaignAdmin struct {
	ApproveCampaignFunc func(ctx context.Context, campaignID *big.Int) (common.Hash, error)
	CloseCampaignFunc   func(ctx context.Context, campaignID *big.Int) (common.Hash, error)
	WithdrawFundsFunc   func(ctx context.Context, campaignID *big.Int) (common.Hash, error)
}

func (m *MockCampaignAdmin) ApproveCampaign(ctx context.Context, campaignID *big.Int) (common.Hash, error) {
	if m.ApproveCampaignFunc != nil {
		return m.ApproveCampaignFunc(ctx, campaignID)
	}
	return common.Hash{}, nil
}

func (m *MockCampaignAdmin) CloseCampaign(ctx context.Context, campaignID *big.Int) (common.Hash, error) {
	if m.CloseCampaignFunc != nil {
		return m.CloseCampaignFunc(ctx, campaignID)
	}
	return common.Hash{}, nil
}

func (m *MockCampaignAdmin) WithdrawFunds(ctx context.Context, campaignID *big.Int) (common.Hash, error) {
	if m.WithdrawFundsFunc != nil {
		return m.WithdrawFundsFunc(ctx, campaignID)
	}
	return common.Hash{}, nil
}

// MockSweeper is a mock implementation of sweeper
type MockSweeper struct {
	RunOnceFunc func(ctx context.Context) error
}

func (m *MockSweeper) RunOnce(ctx context.Context) error {
	if m.RunOnceFunc != nil {
		return m.RunOnceFunc(ctx)
	}
	return nil
}
