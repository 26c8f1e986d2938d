package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/chainfolio/idgate/internal/gateway/domain"
)

type eventsRepo struct {
	db *sql.DB
}

func (r *eventsRepo) RecordEvent(ctx context.Context, ev domain.AuthEvent) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO auth_events (id, kind, path, fingerprint, remote_addr, detail, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, string(ev.Kind), ev.Path, ev.Fingerprint, ev.RemoteAddr, ev.Detail, ev.CreatedAt.UTC(),
	)
	return err
}

func (r *eventsRepo) ListRecentEvents(ctx context.Context, limit int) ([]domain.AuthEvent, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, kind, path, fingerprint, remote_addr, detail, created_at
		FROM auth_events
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.AuthEvent
	for rows.Next() {
		var ev domain.AuthEvent
		var kind string
		if err := rows.Scan(
			&ev.ID, &kind, &ev.Path, &ev.Fingerprint, &ev.RemoteAddr, &ev.Detail, &ev.CreatedAt,
		); err != nil {
			return nil, err
		}
		ev.Kind = domain.AuthEventKind(kind)
		events = append(events, ev)
	}
	return events, rows.Err()
}

func (r *eventsRepo) DeleteEventsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM auth_events WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
