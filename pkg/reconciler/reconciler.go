// Package reconciler drives the donation and campaign-creation submit paths
// and keeps the ledger, the campaign cache, and the off-chain mirror aligned
// with what actually happened on chain.
package reconciler

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/givechain/donation-middleware/internal/metrics"
	apperrors "github.com/givechain/donation-middleware/pkg/app/errors"
	"github.com/givechain/donation-middleware/pkg/backend"
	"github.com/givechain/donation-middleware/pkg/ethereum"
	"github.com/givechain/donation-middleware/pkg/ledger"
)

// ChainClient is the slice of the Ethereum client the reconciler needs.
type ChainClient interface {
	SenderAddress() common.Address
	GetCampaignByID(ctx context.Context, campaignID *big.Int) (*ethereum.Campaign, error)
	SubmitDonation(ctx context.Context, campaignID *big.Int, valueWei *big.Int) (common.Hash, error)
	SubmitCreateCampaign(ctx context.Context, title, description string, goalWei, durationDays *big.Int) (common.Hash, error)
	WaitMined(ctx context.Context, hash common.Hash) (*types.Receipt, error)
	CampaignIDFromReceipt(receipt *types.Receipt) (*big.Int, error)
}

// LedgerStore is the slice of the record store the reconciler needs.
type LedgerStore interface {
	Upsert(ctx context.Context, record *ledger.TransactionRecord) error
	SetStatus(ctx context.Context, hash string, status ledger.TxStatus, receipt *ledger.ReceiptSummary) (bool, error)
}

// MirrorClient is the slice of the backend client the reconciler needs.
type MirrorClient interface {
	Enabled() bool
	RecordDonation(ctx context.Context, entry backend.DonationEntry) error
}

// CreateCampaignResult reports a confirmed campaign creation.
type CreateCampaignResult struct {
	TxHash     string `json:"tx_hash"`
	CampaignID int64  `json:"campaign_id"`
}

// Reconciler owns the submit path: validate, submit, record pending, await
// the receipt, settle the record, then best-effort mirror bookkeeping.
type Reconciler struct {
	chain  ChainClient
	store  LedgerStore
	mirror MirrorClient
	cache  *ledger.CampaignCache
	logger *zap.Logger

	// confirmTimeout bounds the inline receipt wait. Zero means wait until
	// ctx cancels. A record left pending here is resolved later by the
	// receipt poller; the transaction itself is never abandoned.
	confirmTimeout time.Duration
}

// New creates a reconciler.
func New(chain ChainClient, store LedgerStore, mirror MirrorClient, cache *ledger.CampaignCache, confirmTimeout time.Duration, logger *zap.Logger) *Reconciler {
	return &Reconciler{
		chain:          chain,
		store:          store,
		mirror:         mirror,
		cache:          cache,
		confirmTimeout: confirmTimeout,
		logger:         logger,
	}
}

// Donate submits a donation to the given campaign and waits for it to land.
// The pending ledger record is written before the receipt wait starts, so a
// crash mid-wait leaves a record the poller can still resolve. The returned
// hash is valid whenever submission succeeded, even if confirmation is still
// outstanding or the transaction reverted.
func (r *Reconciler) Donate(ctx context.Context, campaignID int64, amount string) (common.Hash, error) {
	if campaignID <= 0 {
		return common.Hash{}, apperrors.ValidationError(nil, "campaign id must be positive")
	}
	amountWei, err := ethereum.ToWei(amount)
	if err != nil {
		return common.Hash{}, apperrors.ValidationError(err, "invalid donation amount")
	}
	if amountWei.Sign() <= 0 {
		return common.Hash{}, apperrors.ValidationError(nil, "donation amount must be positive")
	}

	// Advisory precheck against fresh chain state. The contract remains the
	// final authority; this only turns the common failures into clean errors
	// before gas is spent.
	campaign, err := r.chain.GetCampaignByID(ctx, big.NewInt(campaignID))
	if err != nil {
		return common.Hash{}, apperrors.DependencyError(err, "failed to read campaign state")
	}
	if err := checkAcceptsDonations(campaign); err != nil {
		return common.Hash{}, err
	}

	hash, err := r.chain.SubmitDonation(ctx, big.NewInt(campaignID), amountWei)
	if err != nil {
		metrics.TransactionsSubmitted.WithLabelValues("donate", "rejected").Inc()
		return common.Hash{}, err
	}
	metrics.TransactionsSubmitted.WithLabelValues("donate", "submitted").Inc()

	record := ledger.NewDonation(hash.Hex(), campaignID, amountWei.String(), r.chain.SenderAddress().Hex(), campaign.Title)
	if err := r.store.Upsert(ctx, record); err != nil {
		// The transaction is already on its way; a ledger write failure must
		// not masquerade as a donation failure.
		r.logger.Error("Failed to record pending donation",
			zap.String("tx_hash", hash.Hex()),
			zap.Error(err))
	}

	receipt, err := r.awaitReceipt(ctx, hash)
	if err != nil {
		return hash, err
	}
	if receipt == nil {
		// Confirmation window elapsed; the poller takes over from here.
		return hash, nil
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		r.settle(ctx, hash, ledger.StatusFailed, receipt)
		return hash, apperrors.ChainRevertError(
			fmt.Errorf("transaction %s reverted in block %d", hash.Hex(), receipt.BlockNumber.Uint64()),
			"donation transaction reverted")
	}
	r.settle(ctx, hash, ledger.StatusConfirmed, receipt)

	r.mirrorDonation(ctx, campaignID, amountWei.String(), hash.Hex())
	r.cache.ApplyDonation(campaignID, amountWei.String())

	r.logger.Info("Donation confirmed",
		zap.String("tx_hash", hash.Hex()),
		zap.Int64("campaign_id", campaignID),
		zap.String("amount", ethereum.FormatWei(amountWei)))

	return hash, nil
}

// CreateCampaign submits a campaign creation and waits for it to land,
// extracting the assigned campaign id from the CampaignCreated event.
func (r *Reconciler) CreateCampaign(ctx context.Context, title, description, goal string, durationDays int64) (*CreateCampaignResult, error) {
	if title == "" {
		return nil, apperrors.ValidationError(nil, "campaign title is required")
	}
	if durationDays <= 0 {
		return nil, apperrors.ValidationError(nil, "campaign duration must be positive")
	}
	goalWei, err := ethereum.ToWei(goal)
	if err != nil {
		return nil, apperrors.ValidationError(err, "invalid funding goal")
	}
	if goalWei.Sign() <= 0 {
		return nil, apperrors.ValidationError(nil, "funding goal must be positive")
	}

	hash, err := r.chain.SubmitCreateCampaign(ctx, title, description, goalWei, big.NewInt(durationDays))
	if err != nil {
		metrics.TransactionsSubmitted.WithLabelValues("create_campaign", "rejected").Inc()
		return nil, err
	}
	metrics.TransactionsSubmitted.WithLabelValues("create_campaign", "submitted").Inc()

	record := ledger.NewCampaignCreation(hash.Hex(), title, description, goalWei.String(), durationDays, r.chain.SenderAddress().Hex())
	if err := r.store.Upsert(ctx, record); err != nil {
		r.logger.Error("Failed to record pending campaign creation",
			zap.String("tx_hash", hash.Hex()),
			zap.Error(err))
	}

	receipt, err := r.awaitReceipt(ctx, hash)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return &CreateCampaignResult{TxHash: hash.Hex()}, nil
	}

	if receipt.Status != types.ReceiptStatusSuccessful {
		r.settle(ctx, hash, ledger.StatusFailed, receipt)
		return nil, apperrors.ChainRevertError(
			fmt.Errorf("transaction %s reverted in block %d", hash.Hex(), receipt.BlockNumber.Uint64()),
			"campaign creation reverted")
	}
	r.settle(ctx, hash, ledger.StatusConfirmed, receipt)

	campaignID, err := r.chain.CampaignIDFromReceipt(receipt)
	if err != nil {
		// The campaign exists on chain but we could not learn its id; the
		// record stays confirmed and the caller is told bookkeeping is off.
		metrics.ErrorsTotal.WithLabelValues("reconciler", "missing_event").Inc()
		return nil, apperrors.ReconciliationError(err, "campaign created but id could not be determined")
	}

	r.logger.Info("Campaign created",
		zap.String("tx_hash", hash.Hex()),
		zap.Int64("campaign_id", campaignID.Int64()),
		zap.String("title", title))

	return &CreateCampaignResult{
		TxHash:     hash.Hex(),
		CampaignID: campaignID.Int64(),
	}, nil
}

// DirectDonation records a wallet-to-wallet transfer already submitted
// elsewhere. The poller resolves its status like any other pending record.
func (r *Reconciler) DirectDonation(ctx context.Context, hash, to, amount string) (*ledger.TransactionRecord, error) {
	if hash == "" {
		return nil, apperrors.ValidationError(nil, "transaction hash is required")
	}
	amountWei, err := ethereum.ToWei(amount)
	if err != nil {
		return nil, apperrors.ValidationError(err, "invalid donation amount")
	}
	if amountWei.Sign() <= 0 {
		return nil, apperrors.ValidationError(nil, "donation amount must be positive")
	}

	record := ledger.NewDirectDonation(hash, to, amountWei.String(), r.chain.SenderAddress().Hex())
	if err := r.store.Upsert(ctx, record); err != nil {
		return nil, apperrors.GeneralError(err)
	}
	return record, nil
}

// awaitReceipt waits for the receipt within the configured window. A nil
// receipt with nil error means the window elapsed with the transaction still
// in flight.
func (r *Reconciler) awaitReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	waitCtx := ctx
	if r.confirmTimeout > 0 {
		var cancel context.CancelFunc
		waitCtx, cancel = context.WithTimeout(ctx, r.confirmTimeout)
		defer cancel()
	}

	receipt, err := r.chain.WaitMined(waitCtx, hash)
	if err == nil {
		return receipt, nil
	}
	if waitCtx.Err() != nil && ctx.Err() == nil {
		r.logger.Warn("Confirmation window elapsed, leaving record pending",
			zap.String("tx_hash", hash.Hex()),
			zap.Duration("window", r.confirmTimeout))
		return nil, nil
	}
	return nil, apperrors.DependencyError(err, "failed waiting for transaction receipt")
}

// settle applies a terminal status; failures are logged because the chain
// outcome is already decided and must still be reported to the caller.
func (r *Reconciler) settle(ctx context.Context, hash common.Hash, status ledger.TxStatus, receipt *types.Receipt) {
	if _, err := r.store.SetStatus(ctx, hash.Hex(), status, ethereum.SummarizeReceipt(receipt)); err != nil {
		r.logger.Error("Failed to settle ledger record",
			zap.String("tx_hash", hash.Hex()),
			zap.String("status", string(status)),
			zap.Error(err))
	}
}

// mirrorDonation writes the confirmed donation to the off-chain backend.
// Best effort: the on-chain donation succeeded regardless of what this does.
func (r *Reconciler) mirrorDonation(ctx context.Context, campaignID int64, amountWei, txHash string) {
	if r.mirror == nil || !r.mirror.Enabled() {
		return
	}
	entry := backend.DonationEntry{
		CampaignID:      campaignID,
		Amount:          amountWei,
		Donor:           r.chain.SenderAddress().Hex(),
		TransactionHash: txHash,
		IsBlockchain:    true,
		Status:          "completed",
	}
	if err := r.mirror.RecordDonation(ctx, entry); err != nil {
		metrics.MirrorWrites.WithLabelValues("error").Inc()
		wrapped := apperrors.OffChainMirrorError(err, "failed to mirror donation")
		r.logger.Warn("Off-chain mirror write failed",
			zap.String("tx_hash", txHash),
			zap.Int64("campaign_id", campaignID),
			zap.Error(wrapped))
		return
	}
	metrics.MirrorWrites.WithLabelValues("ok").Inc()
}

// checkAcceptsDonations rejects campaigns that cannot take a donation.
func checkAcceptsDonations(campaign *ethereum.Campaign) error {
	if campaign == nil {
		return apperrors.CampaignStateError(nil, "campaign not found")
	}
	if !campaign.IsApproved {
		return apperrors.CampaignStateError(nil, "campaign is not approved for donations")
	}
	if campaign.IsClosed {
		return apperrors.CampaignStateError(nil, "campaign is closed")
	}
	if campaign.Deadline != nil && campaign.Deadline.Int64() > 0 &&
		time.Now().Unix() >= campaign.Deadline.Int64() {
		return apperrors.CampaignStateError(nil, "campaign deadline has passed")
	}
	return nil
}
