package announcement

import (
	"context"

	"github.com/google/uuid"
)

// Repository defines persistence for announcements.
type Repository interface {
	Save(ctx context.Context, a *Announcement) error
	Update(ctx context.Context, a *Announcement) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*Announcement, error)
	FindAll(ctx context.Context) ([]*Announcement, error)
}
