// Package stats derives donation rollups from the confirmed subset of the
// transaction ledger.
package stats

import (
	"context"
	"math/big"
	"strings"

	"go.uber.org/zap"

	"github.com/givechain/donation-middleware/pkg/ethereum"
	"github.com/givechain/donation-middleware/pkg/ledger"
)

// RecordSource is the slice of the ledger store the aggregator reads.
type RecordSource interface {
	ListByPredicate(ctx context.Context, match func(*ledger.TransactionRecord) bool) ([]*ledger.TransactionRecord, error)
}

// DonationStats is a derived rollup, recomputed on demand and never stored.
// Wei totals are decimal strings; summation happens in big-integer space so
// no precision is lost, and only the Formatted fields are display values.
type DonationStats struct {
	TotalDonations         int    `json:"total_donations"`
	TotalAmountWei         string `json:"total_amount_wei"`
	UniqueDonors           int    `json:"unique_donors"`
	AverageAmountWei       string `json:"average_amount_wei"`
	TotalAmountFormatted   string `json:"total_amount_formatted"`
	AverageAmountFormatted string `json:"average_amount_formatted"`
}

// Aggregator computes donation statistics over confirmed records.
type Aggregator struct {
	source RecordSource
	logger *zap.Logger
}

// NewAggregator creates an aggregator over the given record source.
func NewAggregator(source RecordSource, logger *zap.Logger) *Aggregator {
	return &Aggregator{source: source, logger: logger}
}

// Global computes statistics over every confirmed donation.
func (a *Aggregator) Global(ctx context.Context) (*DonationStats, error) {
	return a.compute(ctx, func(*ledger.TransactionRecord) bool { return true })
}

// ForCampaign computes statistics over confirmed donations to one campaign.
// Direct donations carry no campaign id and are excluded even for id zero.
func (a *Aggregator) ForCampaign(ctx context.Context, campaignID int64) (*DonationStats, error) {
	return a.compute(ctx, func(r *ledger.TransactionRecord) bool {
		return r.Kind == ledger.KindDonation && r.CampaignID == campaignID
	})
}

// ForSender computes statistics over confirmed donations from one address.
// Address comparison is case-insensitive, matching the lifecycle queries.
func (a *Aggregator) ForSender(ctx context.Context, address string) (*DonationStats, error) {
	want := strings.ToLower(address)
	return a.compute(ctx, func(r *ledger.TransactionRecord) bool {
		return strings.ToLower(r.From) == want
	})
}

func (a *Aggregator) compute(ctx context.Context, match func(*ledger.TransactionRecord) bool) (*DonationStats, error) {
	records, err := a.source.ListByPredicate(ctx, func(r *ledger.TransactionRecord) bool {
		return r.Status == ledger.StatusConfirmed && r.IsDonation() && match(r)
	})
	if err != nil {
		return nil, err
	}

	total := new(big.Int)
	donors := make(map[string]struct{})
	count := 0
	for _, record := range records {
		amount, ok := new(big.Int).SetString(record.AmountWei, 10)
		if !ok {
			a.logger.Warn("Skipping record with unparseable amount",
				zap.String("hash", record.Hash),
				zap.String("amount_wei", record.AmountWei))
			continue
		}
		total.Add(total, amount)
		donors[strings.ToLower(record.From)] = struct{}{}
		count++
	}

	average := new(big.Int)
	if count > 0 {
		average.Div(total, big.NewInt(int64(count)))
	}

	return &DonationStats{
		TotalDonations:         count,
		TotalAmountWei:         total.String(),
		UniqueDonors:           len(donors),
		AverageAmountWei:       average.String(),
		TotalAmountFormatted:   ethereum.FormatWei(total),
		AverageAmountFormatted: ethereum.FormatWei(average),
	}, nil
}
