package reconciler

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"

	"github.com/givechain/donation-middleware/pkg/backend"
	"github.com/givechain/donation-middleware/pkg/ethereum"
	"github.com/givechain/donation-middleware/pkg/ledger"
)

// MockChainClient is a mock implementation of ChainClient
type MockChainClient struct {
	SenderAddressFunc         func() common.Address
	GetCampaignByIDFunc       func(ctx context.Context, campaignID *big.Int) (*ethereum.Campaign, error)
	SubmitDonationFunc        func(ctx context.Context, campaignID *big.Int, valueWei *big.Int) (common.Hash, error)
	SubmitCreateCampaignFunc  func(ctx context.Context, title, description string, goalWei, durationDays *big.Int) (common.Hash, error)
	WaitMinedFunc             func(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	CampaignIDFromReceiptFunc func(receipt *types.Receipt) (*big.Int, error)
}

func (m *MockChainClient) SenderAddress() common.Address {
	if m.SenderAddressFunc != nil {
		return m.SenderAddressFunc()
	}
	return common.HexToAddress("0xAAA0000000000000000000000000000000000000")
}

func (m *MockChainClient) GetCampaignByID(ctx context.Context, campaignID *big.Int) (*ethereum.Campaign, error) {
	if m.GetCampaignByIDFunc != nil {
		return m.GetCampaignByIDFunc(ctx, campaignID)
	}
	return &ethereum.Campaign{
		Id:         campaignID,
		Title:      "Test Campaign",
		IsApproved: true,
	}, nil
}

func (m *MockChainClient) SubmitDonation(ctx context.Context, campaignID *big.Int, valueWei *big.Int) (common.Hash, error) {
	if m.SubmitDonationFunc != nil {
		return m.SubmitDonationFunc(ctx, campaignID, valueWei)
	}
	return common.HexToHash("0x01"), nil
}

func (m *MockChainClient) SubmitCreateCampaign(ctx context.Context, title, description string, goalWei, durationDays *big.Int) (common.Hash, error) {
	if m.SubmitCreateCampaignFunc != nil {
		return m.SubmitCreateCampaignFunc(ctx, title, description, goalWei, durationDays)
	}
	return common.HexToHash("0x02"), nil
}

func (m *MockChainClient) WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	if m.WaitMinedFunc != nil {
		return m.WaitMinedFunc(ctx, hash)
	}
	return &types.Receipt{
		Status:      types.ReceiptStatusSuccessful,
		GasUsed:     21000,
		BlockNumber: big.NewInt(1),
		TxHash:      hash,
	}, nil
}

func (m *MockChainClient) CampaignIDFromReceipt(receipt *types.Receipt) (*big.Int, error) {
	if m.CampaignIDFromReceiptFunc != nil {
		return m.CampaignIDFromReceiptFunc(receipt)
	}
	return big.NewInt(1), nil
}

// MockLedgerStore is a mock implementation of LedgerStore
type MockLedgerStore struct {
	UpsertFunc    func(ctx context.Context, record *ledger.TransactionRecord) error
	SetStatusFunc func(ctx context.Context, hash string, status ledger.TxStatus, receipt *ledger.ReceiptSummary) (bool, error)
}

func (m *MockLedgerStore) Upsert(ctx context.Context, record *ledger.TransactionRecord) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, record)
	}
	return nil
}

func (m *MockLedgerStore) SetStatus(ctx context.Context, hash string, status ledger.TxStatus, receipt *ledger.ReceiptSummary) (bool, error) {
	if m.SetStatusFunc != nil {
		return m.SetStatusFunc(ctx, hash, status, receipt)
	}
	return true, nil
}

// MockMirrorClient is a mock implementation of MirrorClient
type MockMirrorClient struct {
	EnabledFunc        func() bool
	RecordDonationFunc func(ctx context.Context, entry backend.DonationEntry) error
}

func (m *MockMirrorClient) Enabled() bool {
	if m.EnabledFunc != nil {
		return m.EnabledFunc()
	}
	return true
}

func (m *MockMirrorClient) RecordDonation(ctx context.Context, entry backend.DonationEntry) error {
	if m.RecordDonationFunc != nil {
		return m.RecordDonationFunc(ctx, entry)
	}
	return nil
}
