package approval

import "context"

// Store persists approval records. Two implementations satisfy it: a volatile
// in-memory store (process lifetime, used by tests and demo deployments) and a
// durable PostgreSQL store. Both provide the same ordering and uniqueness
// guarantees; the backend is selected once at process startup.
//
// Stores return sentinel errors (wrapped) for infrastructure facts:
// ErrConflict on a duplicate id, ErrNotFound for unknown ids, ErrInvalidState
// when a transition is requested on a non-pending record.
type Store interface {
	// Create inserts a new record. The record's ID must be unique for the
	// lifetime of the store.
	Create(ctx context.Context, rec *Record) error

	// Get returns the record with the given id.
	Get(ctx context.Context, id string) (*Record, error)

	// SetStatus transitions a pending record to a terminal status and stamps
	// UpdatedAt and DecidedBy. Only pending records may transition.
	SetStatus(ctx context.Context, id string, status Status, decidedBy string) (*Record, error)

	// ListAll returns every record, newest first.
	ListAll(ctx context.Context) ([]*Record, error)

	// ListByStatus returns records with the given status, ordered by
	// CreatedAt descending.
	ListByStatus(ctx context.Context, status Status) ([]*Record, error)

	// ListPendingOverThreshold returns pending records with Total strictly
	// greater than amount, ordered by Total descending, so high-value items
	// surface first.
	ListPendingOverThreshold(ctx context.Context, amount float64) ([]*Record, error)
}
