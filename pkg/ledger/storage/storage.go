// Package storage defines the persistence port for the transaction ledger.
//
// The ledger is persisted as a single opaque blob; every store operation is a
// full load-mutate-save cycle with last-writer-wins semantics. Keeping the
// port this narrow lets the ledger swap between a JSON file, BadgerDB, or an
// in-memory buffer without touching store logic.
package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Load when nothing has been saved yet.
var ErrNotFound = errors.New("storage: no data")

// Port is the durability contract for the ledger blob.
type Port interface {
	// Load returns the last saved blob, or ErrNotFound before the first Save.
	Load(ctx context.Context) ([]byte, error)
	// Save durably replaces the blob.
	Save(ctx context.Context, data []byte) error
}
