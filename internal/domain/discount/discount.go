package discount

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Kind represents the type of discount.
type Kind string

const (
	KindPercentage Kind = "percentage"
	KindFixed      Kind = "fixed"
)

// Validation failures, in the order they are checked.
var (
	ErrNotFound    = errors.New("discount code not found")
	ErrInactive    = errors.New("discount code is no longer active")
	ErrExpired     = errors.New("discount code has expired")
	ErrAlreadyUsed = errors.New("discount code has already been used")
)

// Discount is the aggregate root for a discount code.
type Discount struct {
	id          uuid.UUID
	code        string
	kind        Kind
	value       int64 // percentage (1-100) or fixed cents per aircraft
	active      bool
	oneTime     bool
	validUntil  *time.Time
	description string
	createdAt   time.Time
	updatedAt   time.Time
}

// NormalizeCode trims and uppercases a user-entered code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// New creates a discount code.
func New(code string, kind Kind, value int64, oneTime bool, validUntil *time.Time, description string) (*Discount, error) {
	code = NormalizeCode(code)
	if code == "" {
		return nil, fmt.Errorf("discount code is required")
	}
	if kind != KindPercentage && kind != KindFixed {
		return nil, fmt.Errorf("invalid discount kind: %s", kind)
	}
	if value <= 0 {
		return nil, fmt.Errorf("discount value must be positive")
	}
	if kind == KindPercentage && value > 100 {
		return nil, fmt.Errorf("percentage discount cannot exceed 100")
	}

	now := time.Now().UTC()
	return &Discount{
		id:          uuid.New(),
		code:        code,
		kind:        kind,
		value:       value,
		active:      true,
		oneTime:     oneTime,
		validUntil:  validUntil,
		description: description,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// Reconstruct rebuilds a Discount from persistence.
func Reconstruct(id uuid.UUID, code string, kind Kind, value int64, active, oneTime bool, validUntil *time.Time, description string, createdAt, updatedAt time.Time) *Discount {
	return &Discount{
		id: id, code: code, kind: kind, value: value,
		active: active, oneTime: oneTime, validUntil: validUntil,
		description: description, createdAt: createdAt, updatedAt: updatedAt,
	}
}

// Getters.
func (d *Discount) ID() uuid.UUID          { return d.id }
func (d *Discount) Code() string           { return d.code }
func (d *Discount) Kind() Kind             { return d.kind }
func (d *Discount) Value() int64           { return d.value }
func (d *Discount) Active() bool           { return d.active }
func (d *Discount) OneTime() bool          { return d.oneTime }
func (d *Discount) ValidUntil() *time.Time { return d.validUntil }
func (d *Discount) Description() string    { return d.description }
func (d *Discount) CreatedAt() time.Time   { return d.createdAt }
func (d *Discount) UpdatedAt() time.Time   { return d.updatedAt }

// CheckUsable verifies the code is active and not expired at now.
func (d *Discount) CheckUsable(now time.Time) error {
	if !d.active {
		return ErrInactive
	}
	if d.validUntil != nil && now.After(*d.validUntil) {
		return ErrExpired
	}
	return nil
}

// AmountCents returns the discount for a subtotal and aircraft count.
// Percentage discounts apply to the subtotal; fixed discounts are per
// aircraft. The result never exceeds the subtotal.
func (d *Discount) AmountCents(subtotalCents int64, aircraftCount int) int64 {
	var amount int64
	switch d.kind {
	case KindPercentage:
		amount = subtotalCents * d.value / 100
	case KindFixed:
		amount = d.value * int64(aircraftCount)
	}
	if amount > subtotalCents {
		amount = subtotalCents
	}
	return amount
}

// SetActive toggles the activation flag.
func (d *Discount) SetActive(active bool) {
	d.active = active
	d.touch()
}

// SetValue updates the discount value.
func (d *Discount) SetValue(value int64) error {
	if value <= 0 {
		return fmt.Errorf("discount value must be positive")
	}
	if d.kind == KindPercentage && value > 100 {
		return fmt.Errorf("percentage discount cannot exceed 100")
	}
	d.value = value
	d.touch()
	return nil
}

// SetValidUntil updates the expiry; nil clears it.
func (d *Discount) SetValidUntil(t *time.Time) {
	d.validUntil = t
	d.touch()
}

// SetOneTime updates the one-time flag.
func (d *Discount) SetOneTime(oneTime bool) {
	d.oneTime = oneTime
	d.touch()
}

// SetDescription updates the description.
func (d *Discount) SetDescription(desc string) {
	d.description = desc
	d.touch()
}

func (d *Discount) touch() { d.updatedAt = time.Now().UTC() }
