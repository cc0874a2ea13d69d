package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	discountDomain "github.com/ammstro/service-pricing/internal/domain/discount"
	"github.com/ammstro/service-pricing/internal/events"
	"github.com/ammstro/service-pricing/internal/kafka"
	"github.com/ammstro/service-pricing/internal/metrics"
)

// CreateDiscountRequest holds data to create a discount code.
type CreateDiscountRequest struct {
	Code        string `json:"code" binding:"required"`
	Kind        string `json:"kind" binding:"required,oneof=percentage fixed"`
	Value       int64  `json:"value" binding:"required,gt=0"`
	OneTime     bool   `json:"one_time"`
	ValidUntil  string `json:"valid_until,omitempty"`
	Description string `json:"description,omitempty"`
}

// UpdateDiscountRequest holds optional discount field updates.
type UpdateDiscountRequest struct {
	Active      *bool   `json:"active,omitempty"`
	Value       *int64  `json:"value,omitempty"`
	OneTime     *bool   `json:"one_time,omitempty"`
	ValidUntil  *string `json:"valid_until,omitempty"` // empty string clears
	Description *string `json:"description,omitempty"`
}

// ApplyDiscountRequest holds a code entered by a visitor. The session ID may
// arrive in the body or the X-Session-ID header; the handler fills it in
// before calling Apply.
type ApplyDiscountRequest struct {
	Code      string `json:"code" binding:"required"`
	SessionID string `json:"session_id"`
}

// DiscountDTO is the API representation of a discount code.
type DiscountDTO struct {
	ID          uuid.UUID  `json:"id"`
	Code        string     `json:"code"`
	Kind        string     `json:"kind"`
	Value       int64      `json:"value"`
	Active      bool       `json:"active"`
	OneTime     bool       `json:"one_time"`
	ValidUntil  *time.Time `json:"valid_until,omitempty"`
	Description string     `json:"description,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ApplyResultDTO is the outcome of applying a discount code.
type ApplyResultDTO struct {
	Valid    bool         `json:"valid"`
	Code     string       `json:"code"`
	Reason   string       `json:"reason,omitempty"`
	Discount *DiscountDTO `json:"discount,omitempty"`
}

// DiscountService handles discount registry use cases.
type DiscountService struct {
	repo     discountDomain.Repository
	producer EventPublisher
	logger   *zap.Logger
}

// NewDiscountService creates a new DiscountService.
func NewDiscountService(repo discountDomain.Repository, producer EventPublisher, logger *zap.Logger) *DiscountService {
	return &DiscountService{repo: repo, producer: producer, logger: logger}
}

// Apply validates a code for a session and, for one-time codes, consumes it.
// The checks run in a fixed order: not found, inactive, expired, already
// used. Outcomes are reported in the DTO, not as transport errors.
func (s *DiscountService) Apply(ctx context.Context, req ApplyDiscountRequest) (*ApplyResultDTO, error) {
	code := discountDomain.NormalizeCode(req.Code)

	d, err := s.repo.FindByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		metrics.RecordDiscountValidation("not_found")
		return rejected(code, discountDomain.ErrNotFound), nil
	}
	if err != nil {
		metrics.RecordDiscountValidation("error")
		return nil, err
	}

	if err := d.CheckUsable(time.Now().UTC()); err != nil {
		metrics.RecordDiscountValidation(outcomeLabel(err))
		return rejected(code, err), nil
	}

	if d.OneTime() {
		used, err := s.repo.HasSessionRedeemed(ctx, code, req.SessionID)
		if err != nil {
			metrics.RecordDiscountValidation("error")
			return nil, err
		}
		if used {
			metrics.RecordDiscountValidation("already_used")
			return rejected(code, discountDomain.ErrAlreadyUsed), nil
		}

		red := &discountDomain.Redemption{
			ID:         uuid.New(),
			Code:       code,
			SessionID:  req.SessionID,
			RedeemedAt: time.Now().UTC(),
		}
		if err := s.repo.SaveRedemption(ctx, red); err != nil {
			metrics.RecordDiscountValidation("error")
			return nil, fmt.Errorf("failed to record redemption: %w", err)
		}
	}

	metrics.RecordDiscountValidation("ok")
	dto := toDiscountDTO(d)
	return &ApplyResultDTO{Valid: true, Code: code, Discount: &dto}, nil
}

// Resolve looks up a code for quote computation. It enforces existence,
// activation, and expiry, but not one-time consumption: a session that has
// already applied a one-time code keeps pricing with it until removed.
func (s *DiscountService) Resolve(ctx context.Context, code string) (*discountDomain.Discount, error) {
	code = discountDomain.NormalizeCode(code)
	d, err := s.repo.FindByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, discountDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := d.CheckUsable(time.Now().UTC()); err != nil {
		return nil, err
	}
	return d, nil
}

// Create adds a new discount code (admin only).
func (s *DiscountService) Create(ctx context.Context, req CreateDiscountRequest) (*DiscountDTO, error) {
	validUntil, err := parseOptionalTime(req.ValidUntil)
	if err != nil {
		return nil, err
	}

	code := discountDomain.NormalizeCode(req.Code)
	if _, err := s.repo.FindByCode(ctx, code); err == nil {
		return nil, fmt.Errorf("discount code %s already exists", code)
	}

	d, err := discountDomain.New(req.Code, discountDomain.Kind(req.Kind), req.Value, req.OneTime, validUntil, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to save discount: %w", err)
	}

	s.publish(ctx, "created", d.Code())
	s.logger.Info("discount code created", zap.String("code", d.Code()))

	dto := toDiscountDTO(d)
	return &dto, nil
}

// Update patches a discount code (admin only).
func (s *DiscountService) Update(ctx context.Context, code string, req UpdateDiscountRequest) (*DiscountDTO, error) {
	code = discountDomain.NormalizeCode(code)
	d, err := s.repo.FindByCode(ctx, code)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, discountDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Active != nil {
		d.SetActive(*req.Active)
	}
	if req.Value != nil {
		if err := d.SetValue(*req.Value); err != nil {
			return nil, err
		}
	}
	if req.OneTime != nil {
		d.SetOneTime(*req.OneTime)
	}
	if req.ValidUntil != nil {
		t, err := parseOptionalTime(*req.ValidUntil)
		if err != nil {
			return nil, err
		}
		d.SetValidUntil(t)
	}
	if req.Description != nil {
		d.SetDescription(*req.Description)
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, fmt.Errorf("failed to update discount: %w", err)
	}

	s.publish(ctx, "updated", code)
	dto := toDiscountDTO(d)
	return &dto, nil
}

// Delete removes a discount code (admin only).
func (s *DiscountService) Delete(ctx context.Context, code string) error {
	code = discountDomain.NormalizeCode(code)
	if err := s.repo.Delete(ctx, code); err != nil {
		return fmt.Errorf("failed to delete discount: %w", err)
	}
	s.publish(ctx, "deleted", code)
	s.logger.Info("discount code deleted", zap.String("code", code))
	return nil
}

// List returns every discount code (admin only).
func (s *DiscountService) List(ctx context.Context) ([]DiscountDTO, error) {
	codes, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]DiscountDTO, len(codes))
	for i, d := range codes {
		out[i] = toDiscountDTO(d)
	}
	return out, nil
}

func (s *DiscountService) publish(ctx context.Context, operation, code string) {
	ce, err := kafka.NewCloudEvent(eventSource, events.DiscountUpdated, events.DiscountUpdatedEvent{
		Operation:  operation,
		Code:       code,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to build discount event", zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicPricingEvents, ce); err != nil {
		s.logger.Warn("failed to publish discount event", zap.Error(err))
	}
}

func rejected(code string, reason error) *ApplyResultDTO {
	return &ApplyResultDTO{Valid: false, Code: code, Reason: reason.Error()}
}

func outcomeLabel(err error) string {
	switch {
	case errors.Is(err, discountDomain.ErrInactive):
		return "inactive"
	case errors.Is(err, discountDomain.ErrExpired):
		return "expired"
	default:
		return "error"
	}
}

func parseOptionalTime(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, fmt.Errorf("invalid valid_until format (use RFC3339)")
	}
	return &t, nil
}

func toDiscountDTO(d *discountDomain.Discount) DiscountDTO {
	return DiscountDTO{
		ID:          d.ID(),
		Code:        d.Code(),
		Kind:        string(d.Kind()),
		Value:       d.Value(),
		Active:      d.Active(),
		OneTime:     d.OneTime(),
		ValidUntil:  d.ValidUntil(),
		Description: d.Description(),
		CreatedAt:   d.CreatedAt(),
		UpdatedAt:   d.UpdatedAt(),
	}
}
