package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	announcementDomain "github.com/ammstro/service-pricing/internal/domain/announcement"
)

// AnnouncementModel is the GORM model for the announcements table.
type AnnouncementModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Text      string    `gorm:"type:text;not null"`
	Position  int       `gorm:"not null;index"`
	Visible   bool      `gorm:"not null;default:true"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (AnnouncementModel) TableName() string { return "announcements" }

// GormAnnouncementRepository implements announcement.Repository using GORM.
type GormAnnouncementRepository struct {
	db *gorm.DB
}

// NewGormAnnouncementRepository creates a new GormAnnouncementRepository.
func NewGormAnnouncementRepository(db *gorm.DB) *GormAnnouncementRepository {
	return &GormAnnouncementRepository{db: db}
}

// Save persists a new announcement.
func (r *GormAnnouncementRepository) Save(ctx context.Context, a *announcementDomain.Announcement) error {
	model := toAnnouncementModel(a)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update updates an announcement.
func (r *GormAnnouncementRepository) Update(ctx context.Context, a *announcementDomain.Announcement) error {
	model := toAnnouncementModel(a)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes an announcement by ID.
func (r *GormAnnouncementRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&AnnouncementModel{}).Error
}

// FindByID returns an announcement by ID.
func (r *GormAnnouncementRepository) FindByID(ctx context.Context, id uuid.UUID) (*announcementDomain.Announcement, error) {
	var model AnnouncementModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, err
	}
	return toAnnouncementDomain(&model), nil
}

// FindAll returns every announcement; callers order for display.
func (r *GormAnnouncementRepository) FindAll(ctx context.Context) ([]*announcementDomain.Announcement, error) {
	var models []AnnouncementModel
	if err := r.db.WithContext(ctx).Order("position ASC, created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*announcementDomain.Announcement, len(models))
	for i, m := range models {
		out[i] = toAnnouncementDomain(&m)
	}
	return out, nil
}

func toAnnouncementModel(a *announcementDomain.Announcement) AnnouncementModel {
	return AnnouncementModel{
		ID:        a.ID(),
		Text:      a.Text(),
		Position:  a.Position(),
		Visible:   a.Visible(),
		CreatedAt: a.CreatedAt(),
		UpdatedAt: a.UpdatedAt(),
	}
}

func toAnnouncementDomain(m *AnnouncementModel) *announcementDomain.Announcement {
	return announcementDomain.Reconstruct(m.ID, m.Text, m.Position, m.Visible, m.CreatedAt, m.UpdatedAt)
}
