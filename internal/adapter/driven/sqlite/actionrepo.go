package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/ericfisherdev/certpanel/internal/domain/model"
	"github.com/ericfisherdev/certpanel/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.ActionStore = (*ActionRepo)(nil)

// actionTimeLayout is fixed-width so created_at sorts chronologically as text.
const actionTimeLayout = "2006-01-02 15:04:05.000000"

// ActionRepo is the SQLite implementation of the ActionStore port.
type ActionRepo struct {
	db *DB
}

// NewActionRepo creates a new ActionRepo backed by the given DB.
func NewActionRepo(db *DB) *ActionRepo {
	return &ActionRepo{db: db}
}

// Record appends an action and returns it with its assigned ID. A zero
// CreatedAt is replaced with the current UTC time.
func (r *ActionRepo) Record(ctx context.Context, action model.AdminAction) (model.AdminAction, error) {
	const query = `INSERT INTO admin_actions (kind, target, succeeded, detail, created_at) VALUES (?, ?, ?, ?, ?)`

	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now().UTC()
	}

	result, err := r.db.Writer.ExecContext(ctx, query,
		string(action.Kind),
		action.Target,
		action.Succeeded,
		action.Detail,
		action.CreatedAt.UTC().Format(actionTimeLayout),
	)
	if err != nil {
		return model.AdminAction{}, fmt.Errorf("record %s action: %w", action.Kind, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return model.AdminAction{}, fmt.Errorf("get last insert id: %w", err)
	}
	action.ID = id

	return action, nil
}

// ListRecent returns at most limit actions, newest first.
func (r *ActionRepo) ListRecent(ctx context.Context, limit int) ([]model.AdminAction, error) {
	if limit <= 0 {
		return []model.AdminAction{}, nil
	}

	const query = `SELECT id, kind, target, succeeded, detail, created_at
		FROM admin_actions ORDER BY created_at DESC, id DESC LIMIT ?`

	rows, err := r.db.Reader.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list admin actions: %w", err)
	}
	defer rows.Close()

	actions := make([]model.AdminAction, 0, limit)
	for rows.Next() {
		var a model.AdminAction
		var kind, createdAt string
		if err := rows.Scan(&a.ID, &kind, &a.Target, &a.Succeeded, &a.Detail, &createdAt); err != nil {
			return nil, fmt.Errorf("scan admin action: %w", err)
		}
		a.Kind = model.ActionKind(kind)

		if a.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse created_at for action %d: %w", a.ID, err)
		}
		actions = append(actions, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate admin actions: %w", err)
	}

	return actions, nil
}

// parseTime tries multiple SQLite datetime formats.
func parseTime(s string) (time.Time, error) {
	formats := []string{
		actionTimeLayout,
		time.RFC3339Nano,
		time.RFC3339,
		"2006-01-02 15:04:05",
		"2006-01-02T15:04:05",
		"2006-01-02 15:04:05.000",
	}

	for _, format := range formats {
		if t, err := time.Parse(format, s); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized time format: %s", s)
}
