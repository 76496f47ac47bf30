package ledger

import (
	"context"
	"strings"
)

// The lifecycle query surface. All projections are pure reads over the
// record store, already sorted newest-first by ListByPredicate.

// ByCampaign returns all records targeting the given campaign.
func (s *Store) ByCampaign(ctx context.Context, campaignID int64) ([]*TransactionRecord, error) {
	return s.ListByPredicate(ctx, func(r *TransactionRecord) bool {
		return r.CampaignID == campaignID && r.Kind == KindDonation
	})
}

// BySender returns all records submitted from the given address.
// Addresses are hex-encoded with mixed-case checksums on the wire, so
// equality is canonical: both operands are lower-cased before comparing.
func (s *Store) BySender(ctx context.Context, address string) ([]*TransactionRecord, error) {
	want := strings.ToLower(address)
	return s.ListByPredicate(ctx, func(r *TransactionRecord) bool {
		return strings.ToLower(r.From) == want
	})
}

// ByKind returns all records of one kind.
func (s *Store) ByKind(ctx context.Context, kind TxKind) ([]*TransactionRecord, error) {
	return s.ListByPredicate(ctx, func(r *TransactionRecord) bool {
		return r.Kind == kind
	})
}

// ByStatus returns all records in the given lifecycle state.
func (s *Store) ByStatus(ctx context.Context, status TxStatus) ([]*TransactionRecord, error) {
	return s.ListByPredicate(ctx, func(r *TransactionRecord) bool {
		return r.Status == status
	})
}
