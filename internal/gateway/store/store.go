// Package store defines the gateway's local audit storage. The gateway holds
// no session state; the store is an append-only log of auth-significant
// events used for operational forensics.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/chainfolio/idgate/internal/gateway/domain"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store is the root storage interface.
type Store interface {
	Events() Events

	// Ping verifies the underlying database connection is alive.
	Ping(ctx context.Context) error

	Close() error
}

// Events is the audit event repository.
type Events interface {
	// RecordEvent appends one audit event.
	RecordEvent(ctx context.Context, ev domain.AuthEvent) error

	// ListRecentEvents returns up to limit events, newest first.
	ListRecentEvents(ctx context.Context, limit int) ([]domain.AuthEvent, error)

	// DeleteEventsBefore removes events older than cutoff, returning the
	// number deleted. Called by housekeeping on an interval.
	DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
