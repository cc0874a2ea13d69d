package discount

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines persistence for discount codes and their redemptions.
type Repository interface {
	Save(ctx context.Context, d *Discount) error
	Update(ctx context.Context, d *Discount) error
	Delete(ctx context.Context, code string) error
	FindByCode(ctx context.Context, code string) (*Discount, error)
	FindAll(ctx context.Context) ([]*Discount, error)
	SaveRedemption(ctx context.Context, r *Redemption) error
	HasSessionRedeemed(ctx context.Context, code, sessionID string) (bool, error)
}

// Redemption records a one-time code being consumed by a client session.
// Consumption is never undone: removing an applied discount does not
// release the code for that session.
type Redemption struct {
	ID         uuid.UUID
	Code       string
	SessionID  string
	RedeemedAt time.Time
}
