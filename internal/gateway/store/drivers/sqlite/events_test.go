package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/chainfolio/idgate/internal/gateway/domain"
	"github.com/chainfolio/idgate/pkg/idx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func TestRecordAndListEvents(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	for i := range 3 {
		require.NoError(t, s.Events().RecordEvent(ctx, domain.AuthEvent{
			ID:          idx.NewAt(base.Add(time.Duration(i) * time.Minute)).String(),
			Kind:        domain.EventLoginFailed,
			Path:        "/api/auth/login",
			Fingerprint: "fp-hash",
			RemoteAddr:  "203.0.113.7",
			Detail:      "bad password",
			CreatedAt:   base.Add(time.Duration(i) * time.Minute),
		}))
	}

	events, err := s.Events().ListRecentEvents(ctx, 2)
	require.NoError(t, err)
	require.Len(t, events, 2)
	require.Equal(t, domain.EventLoginFailed, events[0].Kind)
	require.True(t, events[0].CreatedAt.After(events[1].CreatedAt), "newest first")
}

func TestDeleteEventsBefore(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	for i := range 5 {
		require.NoError(t, s.Events().RecordEvent(ctx, domain.AuthEvent{
			ID:        idx.NewAt(base.Add(time.Duration(i) * time.Hour)).String(),
			Kind:      domain.EventRefreshFailed,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}))
	}

	deleted, err := s.Events().DeleteEventsBefore(ctx, base.Add(3*time.Hour))
	require.NoError(t, err)
	require.Equal(t, int64(3), deleted)

	remaining, err := s.Events().ListRecentEvents(ctx, 10)
	require.NoError(t, err)
	require.Len(t, remaining, 2)
}

func TestPing(t *testing.T) {
	s := newTestStore(t)
	require.NoError(t, s.Ping(context.Background()))
}
