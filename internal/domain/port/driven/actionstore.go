package driven

import (
	"context"

	"github.com/ericfisherdev/certpanel/internal/domain/model"
)

// ActionStore defines the driven port for the admin action audit trail.
type ActionStore interface {
	Record(ctx context.Context, action model.AdminAction) (model.AdminAction, error)
	// ListRecent returns at most limit actions, newest first.
	ListRecent(ctx context.Context, limit int) ([]model.AdminAction, error)
}
