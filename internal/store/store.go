package store

import (
	"context"
	"errors"

	"adbill/internal/core"
)

var ErrNotFound = errors.New("record not found")

// Store owns the application state: one collection of invoices and one of
// clients. Mutations follow replace-record-by-id semantics and return the
// snapshot that resulted, so callers always continue from a consistent
// view and never edit records in place.
type Store interface {
	// Snapshot returns a copy of the current state.
	Snapshot(ctx context.Context) (core.Snapshot, error)

	// SaveInvoice inserts the invoice or replaces the one with the same id.
	SaveInvoice(ctx context.Context, inv core.Invoice) (core.Snapshot, error)

	// DeleteInvoice removes the invoice; ErrNotFound if no such id.
	DeleteInvoice(ctx context.Context, id string) (core.Snapshot, error)

	// SaveClient inserts the client or replaces the one with the same id.
	SaveClient(ctx context.Context, c core.Client) (core.Snapshot, error)

	// DeleteClients removes every listed client id. Missing ids are
	// skipped, matching the bulk-delete behavior of the client list UI.
	DeleteClients(ctx context.Context, ids []string) (core.Snapshot, error)

	Close() error
}
