package ledger

import (
	"time"
)

// TxStatus represents the lifecycle state of a submitted transaction record
type TxStatus string

const (
	StatusPending   TxStatus = "pending"
	StatusConfirmed TxStatus = "confirmed"
	StatusFailed    TxStatus = "failed"
)

// IsTerminal reports whether the status permits no further transitions.
func (s TxStatus) IsTerminal() bool {
	return s == StatusConfirmed || s == StatusFailed
}

// TxKind identifies which variant of transaction a record describes
type TxKind string

const (
	KindCampaignCreation TxKind = "campaign_creation"
	KindDonation         TxKind = "blockchain_donation"
	KindDirectDonation   TxKind = "direct_donation"
)

// ReceiptSummary captures the chain-reported outcome of a mined transaction.
// Populated only when a record reaches a terminal status.
type ReceiptSummary struct {
	BlockNumber       uint64 `json:"block_number"`
	GasUsed           uint64 `json:"gas_used"`
	EffectiveGasPrice string `json:"effective_gas_price"`
	Success           bool   `json:"success"`
}

// TransactionRecord is one submitted blockchain write tracked by the ledger.
// Which of the kind-specific fields are set depends on Kind:
//
//	KindCampaignCreation: Title, Description, GoalWei, DurationDays, From
//	KindDonation:         CampaignID, AmountWei, From, CampaignTitle
//	KindDirectDonation:   To, AmountWei, From
//
// All wei amounts are decimal strings to stay exact across JSON round trips.
type TransactionRecord struct {
	Hash   string   `json:"hash"`
	Kind   TxKind   `json:"kind"`
	Status TxStatus `json:"status"`

	CampaignID    int64  `json:"campaign_id,omitempty"`
	CampaignTitle string `json:"campaign_title,omitempty"`
	Title         string `json:"title,omitempty"`
	Description   string `json:"description,omitempty"`
	GoalWei       string `json:"goal_wei,omitempty"`
	DurationDays  int64  `json:"duration_days,omitempty"`
	AmountWei     string `json:"amount_wei,omitempty"`
	From          string `json:"from"`
	To            string `json:"to,omitempty"`

	SubmittedAt time.Time       `json:"submitted_at"`
	LastUpdated time.Time       `json:"last_updated"`
	Receipt     *ReceiptSummary `json:"receipt,omitempty"`
}

// IsDonation reports whether the record counts toward donation statistics.
func (r *TransactionRecord) IsDonation() bool {
	return r.Kind == KindDonation || r.Kind == KindDirectDonation
}

// NewCampaignCreation builds a pending campaign-creation record.
func NewCampaignCreation(hash, title, description, goalWei string, durationDays int64, from string) *TransactionRecord {
	return &TransactionRecord{
		Hash:         hash,
		Kind:         KindCampaignCreation,
		Status:       StatusPending,
		Title:        title,
		Description:  description,
		GoalWei:      goalWei,
		DurationDays: durationDays,
		From:         from,
	}
}

// NewDonation builds a pending on-chain campaign donation record.
func NewDonation(hash string, campaignID int64, amountWei, from, campaignTitle string) *TransactionRecord {
	return &TransactionRecord{
		Hash:          hash,
		Kind:          KindDonation,
		Status:        StatusPending,
		CampaignID:    campaignID,
		AmountWei:     amountWei,
		From:          from,
		CampaignTitle: campaignTitle,
	}
}

// NewDirectDonation builds a pending wallet-to-wallet donation record.
func NewDirectDonation(hash, to, amountWei, from string) *TransactionRecord {
	return &TransactionRecord{
		Hash:      hash,
		Kind:      KindDirectDonation,
		Status:    StatusPending,
		To:        to,
		AmountWei: amountWei,
		From:      from,
	}
}

// CampaignSnapshot is a read-through display cache of on-chain campaign
// state. The chain is authoritative; snapshots may be stale and are never
// consulted for financial decisions.
type CampaignSnapshot struct {
	ID          int64     `json:"id"`
	Owner       string    `json:"owner"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	GoalWei     string    `json:"goal_wei"`
	RaisedWei   string    `json:"raised_wei"`
	Deadline    int64     `json:"deadline"`
	IsApproved  bool      `json:"is_approved"`
	IsClosed    bool      `json:"is_closed"`
	RefreshedAt time.Time `json:"refreshed_at"`
}
