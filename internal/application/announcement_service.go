package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	announcementDomain "github.com/ammstro/service-pricing/internal/domain/announcement"
	"github.com/ammstro/service-pricing/internal/events"
	"github.com/ammstro/service-pricing/internal/kafka"
)

// ErrAnnouncementNotFound is returned for unknown announcement IDs.
var ErrAnnouncementNotFound = errors.New("announcement not found")

// CreateAnnouncementRequest holds data to create an announcement.
type CreateAnnouncementRequest struct {
	Text string `json:"text" binding:"required"`
}

// UpdateAnnouncementRequest holds optional announcement field updates.
type UpdateAnnouncementRequest struct {
	Text     *string `json:"text,omitempty"`
	Visible  *bool   `json:"visible,omitempty"`
	Position *int    `json:"position,omitempty"`
}

// AnnouncementDTO is the API representation of an announcement.
type AnnouncementDTO struct {
	ID        uuid.UUID `json:"id"`
	Text      string    `json:"text"`
	Position  int       `json:"position"`
	Visible   bool      `json:"visible"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// AnnouncementService handles announcement feed use cases.
type AnnouncementService struct {
	repo     announcementDomain.Repository
	producer EventPublisher
	logger   *zap.Logger
}

// NewAnnouncementService creates a new AnnouncementService.
func NewAnnouncementService(repo announcementDomain.Repository, producer EventPublisher, logger *zap.Logger) *AnnouncementService {
	return &AnnouncementService{repo: repo, producer: producer, logger: logger}
}

// ListVisible returns visible announcements in display order.
func (s *AnnouncementService) ListVisible(ctx context.Context) ([]AnnouncementDTO, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	announcementDomain.SortForDisplay(items)

	out := make([]AnnouncementDTO, 0, len(items))
	for _, a := range items {
		if a.Visible() {
			out = append(out, toAnnouncementDTO(a))
		}
	}
	return out, nil
}

// ListAll returns every announcement in display order (admin view).
func (s *AnnouncementService) ListAll(ctx context.Context) ([]AnnouncementDTO, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	announcementDomain.SortForDisplay(items)

	out := make([]AnnouncementDTO, len(items))
	for i, a := range items {
		out[i] = toAnnouncementDTO(a)
	}
	return out, nil
}

// Create appends an announcement after the current last position.
func (s *AnnouncementService) Create(ctx context.Context, req CreateAnnouncementRequest) (*AnnouncementDTO, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	next := 1
	for _, a := range items {
		if a.Position() >= next {
			next = a.Position() + 1
		}
	}

	a, err := announcementDomain.New(req.Text, next)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to save announcement: %w", err)
	}

	s.publish(ctx, "created", a.ID())
	s.logger.Info("announcement created", zap.String("id", a.ID().String()))

	dto := toAnnouncementDTO(a)
	return &dto, nil
}

// Update patches an announcement's text, visibility, or position.
func (s *AnnouncementService) Update(ctx context.Context, id uuid.UUID, req UpdateAnnouncementRequest) (*AnnouncementDTO, error) {
	a, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrAnnouncementNotFound
	}
	if err != nil {
		return nil, err
	}

	if req.Text != nil {
		if err := a.SetText(*req.Text); err != nil {
			return nil, err
		}
	}
	if req.Visible != nil {
		a.SetVisible(*req.Visible)
	}
	if req.Position != nil {
		a.SetPosition(*req.Position)
	}

	if err := s.repo.Update(ctx, a); err != nil {
		return nil, fmt.Errorf("failed to update announcement: %w", err)
	}

	s.publish(ctx, "updated", id)
	dto := toAnnouncementDTO(a)
	return &dto, nil
}

// Delete removes an announcement.
func (s *AnnouncementService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete announcement: %w", err)
	}
	s.publish(ctx, "deleted", id)
	s.logger.Info("announcement deleted", zap.String("id", id.String()))
	return nil
}

// Move swaps an announcement's position with its neighbour in display order.
// Moving past either end is a no-op, so up-then-down round-trips.
func (s *AnnouncementService) Move(ctx context.Context, id uuid.UUID, req MoveRequest) error {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return err
	}
	announcementDomain.SortForDisplay(items)

	idx := -1
	for i, a := range items {
		if a.ID() == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrAnnouncementNotFound
	}

	var other int
	if req.Direction == "up" {
		if idx == 0 {
			return nil
		}
		other = idx - 1
	} else {
		if idx == len(items)-1 {
			return nil
		}
		other = idx + 1
	}

	curr, neigh := items[idx], items[other]
	currPos, neighPos := curr.Position(), neigh.Position()
	// Equal positions would swap into a no-op; force distinct slots.
	if currPos == neighPos {
		currPos, neighPos = idx+1, other+1
	}
	curr.SetPosition(neighPos)
	neigh.SetPosition(currPos)

	// Two writes, like the original; a failure between them is surfaced and
	// not rolled back.
	if err := s.repo.Update(ctx, neigh); err != nil {
		return fmt.Errorf("failed to move announcement: %w", err)
	}
	if err := s.repo.Update(ctx, curr); err != nil {
		return fmt.Errorf("failed to move announcement: %w", err)
	}

	s.publish(ctx, "moved", id)
	return nil
}

// Seed inserts the default announcements when the feed is empty.
func (s *AnnouncementService) Seed(ctx context.Context) ([]AnnouncementDTO, error) {
	items, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) > 0 {
		return s.ListAll(ctx)
	}

	for i, text := range announcementDomain.Defaults() {
		a, err := announcementDomain.New(text, i+1)
		if err != nil {
			return nil, err
		}
		if err := s.repo.Save(ctx, a); err != nil {
			return nil, fmt.Errorf("failed to seed announcements: %w", err)
		}
	}

	s.publish(ctx, "seeded", uuid.Nil)
	s.logger.Info("announcements seeded")
	return s.ListAll(ctx)
}

func (s *AnnouncementService) publish(ctx context.Context, operation string, id uuid.UUID) {
	ce, err := kafka.NewCloudEvent(eventSource, events.AnnouncementUpdated, events.AnnouncementUpdatedEvent{
		Operation:      operation,
		AnnouncementID: id,
		OccurredAt:     time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to build announcement event", zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicPricingEvents, ce); err != nil {
		s.logger.Warn("failed to publish announcement event", zap.Error(err))
	}
}

func toAnnouncementDTO(a *announcementDomain.Announcement) AnnouncementDTO {
	return AnnouncementDTO{
		ID:        a.ID(),
		Text:      a.Text(),
		Position:  a.Position(),
		Visible:   a.Visible(),
		CreatedAt: a.CreatedAt(),
		UpdatedAt: a.UpdatedAt(),
	}
}
