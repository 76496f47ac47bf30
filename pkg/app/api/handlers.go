package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strconv"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apperrors "github.com/givechain/donation-middleware/pkg/app/errors"
	apphttp "github.com/givechain/donation-middleware/pkg/app/http"
	"github.com/givechain/donation-middleware/pkg/ethereum"
	"github.com/givechain/donation-middleware/pkg/ledger"
	"github.com/givechain/donation-middleware/pkg/reconciler"
	"github.com/givechain/donation-middleware/pkg/stats"
)

type donationService interface {
	Donate(ctx context.Context, campaignID int64, amount string) (common.Hash, error)
	CreateCampaign(ctx context.Context, title, description, goal string, durationDays int64) (*reconciler.CreateCampaignResult, error)
	DirectDonation(ctx context.Context, hash, to, amount string) (*ledger.TransactionRecord, error)
}

type recordStore interface {
	GetByHash(ctx context.Context, hash string) (*ledger.TransactionRecord, error)
	ListAll(ctx context.Context) ([]*ledger.TransactionRecord, error)
	ByCampaign(ctx context.Context, campaignID int64) ([]*ledger.TransactionRecord, error)
	BySender(ctx context.Context, address string) ([]*ledger.TransactionRecord, error)
	ByKind(ctx context.Context, kind ledger.TxKind) ([]*ledger.TransactionRecord, error)
	ByStatus(ctx context.Context, status ledger.TxStatus) ([]*ledger.TransactionRecord, error)
}

type statsProvider interface {
	Global(ctx context.Context) (*stats.DonationStats, error)
	ForCampaign(ctx context.Context, campaignID int64) (*stats.DonationStats, error)
	ForSender(ctx context.Context, address string) (*stats.DonationStats, error)
}

type campaignReader interface {
	GetCampaignByID(ctx context.Context, campaignID *big.Int) (*ethereum.Campaign, error)
	GetAllCampaigns(ctx context.Context) ([]ethereum.Campaign, error)
}

type sweeper interface {
	RunOnce(ctx context.Context) error
}

// campaignAdmin covers the owner-only contract operations.
type campaignAdmin interface {
	ApproveCampaign(ctx context.Context, campaignID *big.Int) (common.Hash, error)
	CloseCampaign(ctx context.Context, campaignID *big.Int) (common.Hash, error)
	WithdrawFunds(ctx context.Context, campaignID *big.Int) (common.Hash, error)
}

type handlers struct {
	donations donationService
	records   recordStore
	stats     statsProvider
	chain     campaignReader
	admin     campaignAdmin
	cache     *ledger.CampaignCache
	poller    sweeper
	logger    *zap.Logger
}

type donateRequest struct {
	CampaignID int64  `json:"campaign_id"`
	Amount     string `json:"amount"`
}

type donateResponse struct {
	TxHash string `json:"tx_hash"`
}

func (h *handlers) donate(w http.ResponseWriter, r *http.Request) error {
	var req donateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.ValidationError(err, "invalid request body")
	}

	hash, err := h.donations.Donate(r.Context(), req.CampaignID, req.Amount)
	if err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusCreated, donateResponse{TxHash: hash.Hex()})
}

type createCampaignRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Goal         string `json:"goal"`
	DurationDays int64  `json:"duration_days"`
}

func (h *handlers) createCampaign(w http.ResponseWriter, r *http.Request) error {
	var req createCampaignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.ValidationError(err, "invalid request body")
	}

	result, err := h.donations.CreateCampaign(r.Context(), req.Title, req.Description, req.Goal, req.DurationDays)
	if err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusCreated, result)
}

type directDonationRequest struct {
	TxHash string `json:"tx_hash"`
	To     string `json:"to"`
	Amount string `json:"amount"`
}

func (h *handlers) directDonation(w http.ResponseWriter, r *http.Request) error {
	var req directDonationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return apperrors.ValidationError(err, "invalid request body")
	}

	record, err := h.donations.DirectDonation(r.Context(), req.TxHash, req.To, req.Amount)
	if err != nil {
		return err
	}
	return apphttp.WriteJSON(w, http.StatusCreated, record)
}

// listTransactions serves the ledger query surface. At most one filter is
// applied; filters combine by the first match in a fixed order.
func (h *handlers) listTransactions(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	q := r.URL.Query()

	var (
		records []*ledger.TransactionRecord
		err     error
	)
	switch {
	case q.Get("campaign") != "":
		var id int64
		id, err = strconv.ParseInt(q.Get("campaign"), 10, 64)
		if err != nil {
			return apperrors.ValidationError(err, "invalid campaign filter")
		}
		records, err = h.records.ByCampaign(ctx, id)
	case q.Get("sender") != "":
		records, err = h.records.BySender(ctx, q.Get("sender"))
	case q.Get("kind") != "":
		records, err = h.records.ByKind(ctx, ledger.TxKind(q.Get("kind")))
	case q.Get("status") != "":
		records, err = h.records.ByStatus(ctx, ledger.TxStatus(q.Get("status")))
	default:
		records, err = h.records.ListAll(ctx)
	}
	if err != nil {
		return apperrors.GeneralError(err)
	}
	if records == nil {
		records = []*ledger.TransactionRecord{}
	}
	return apphttp.WriteJSON(w, http.StatusOK, records)
}

func (h *handlers) getTransaction(w http.ResponseWriter, r *http.Request) error {
	hash := chi.URLParam(r, "hash")
	record, err := h.records.GetByHash(r.Context(), hash)
	if err != nil {
		return apperrors.GeneralError(err)
	}
	if record == nil {
		return apperrors.ValidationError(fmt.Errorf("no record for hash %s", hash), "transaction not found")
	}
	return apphttp.WriteJSON(w, http.StatusOK, record)
}

func (h *handlers) globalStats(w http.ResponseWriter, r *http.Request) error {
	result, err := h.stats.Global(r.Context())
	if err != nil {
		return apperrors.GeneralError(err)
	}
	return apphttp.WriteJSON(w, http.StatusOK, result)
}

func (h *handlers) campaignStats(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return apperrors.ValidationError(err, "invalid campaign id")
	}
	result, err := h.stats.ForCampaign(r.Context(), id)
	if err != nil {
		return apperrors.GeneralError(err)
	}
	return apphttp.WriteJSON(w, http.StatusOK, result)
}

func (h *handlers) senderStats(w http.ResponseWriter, r *http.Request) error {
	address := chi.URLParam(r, "address")
	if address == "" {
		return apperrors.ValidationError(nil, "address is required")
	}
	result, err := h.stats.ForSender(r.Context(), address)
	if err != nil {
		return apperrors.GeneralError(err)
	}
	return apphttp.WriteJSON(w, http.StatusOK, result)
}

// listCampaigns refreshes the snapshot cache from the chain and serves the
// refreshed snapshots. A chain failure falls back to whatever is cached.
func (h *handlers) listCampaigns(w http.ResponseWriter, r *http.Request) error {
	campaigns, err := h.chain.GetAllCampaigns(r.Context())
	if err != nil {
		h.logger.Warn("Campaign refresh failed, serving cached snapshots", zap.Error(err))
		return apphttp.WriteJSON(w, http.StatusOK, h.cache.List())
	}

	snapshots := make([]*ledger.CampaignSnapshot, 0, len(campaigns))
	for i := range campaigns {
		snapshot := snapshotFromCampaign(&campaigns[i])
		h.cache.Put(snapshot)
		snapshots = append(snapshots, h.cache.Get(snapshot.ID))
	}
	return apphttp.WriteJSON(w, http.StatusOK, snapshots)
}

func (h *handlers) getCampaign(w http.ResponseWriter, r *http.Request) error {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return apperrors.ValidationError(err, "invalid campaign id")
	}

	campaign, err := h.chain.GetCampaignByID(r.Context(), big.NewInt(id))
	if err != nil {
		if cached := h.cache.Get(id); cached != nil {
			h.logger.Warn("Campaign refresh failed, serving cached snapshot",
				zap.Int64("campaign_id", id), zap.Error(err))
			return apphttp.WriteJSON(w, http.StatusOK, cached)
		}
		return apperrors.DependencyError(err, "failed to read campaign")
	}

	snapshot := snapshotFromCampaign(campaign)
	h.cache.Put(snapshot)
	return apphttp.WriteJSON(w, http.StatusOK, h.cache.Get(snapshot.ID))
}

// adminAction submits one owner-only contract call. These transactions are
// not ledger-tracked: they move no donation money and the caller gets the
// hash to watch directly.
func (h *handlers) adminAction(submit func(context.Context, *big.Int) (common.Hash, error)) apphttp.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			return apperrors.ValidationError(err, "invalid campaign id")
		}
		hash, err := submit(r.Context(), big.NewInt(id))
		if err != nil {
			return err
		}
		return apphttp.WriteJSON(w, http.StatusAccepted, donateResponse{TxHash: hash.Hex()})
	}
}

func (h *handlers) runMonitor(w http.ResponseWriter, r *http.Request) error {
	if err := h.poller.RunOnce(r.Context()); err != nil {
		return apperrors.DependencyError(err, "receipt sweep failed")
	}
	return apphttp.WriteJSON(w, http.StatusOK, map[string]string{"status": "completed"})
}

func snapshotFromCampaign(c *ethereum.Campaign) *ledger.CampaignSnapshot {
	snapshot := &ledger.CampaignSnapshot{
		Owner:       c.Owner.Hex(),
		Title:       c.Title,
		Description: c.Description,
		IsApproved:  c.IsApproved,
		IsClosed:    c.IsClosed,
	}
	if c.Id != nil {
		snapshot.ID = c.Id.Int64()
	}
	if c.FundingGoal != nil {
		snapshot.GoalWei = c.FundingGoal.String()
	}
	if c.AmountRaised != nil {
		snapshot.RaisedWei = c.AmountRaised.String()
	}
	if c.Deadline != nil {
		snapshot.Deadline = c.Deadline.Int64()
	}
	return snapshot
}
