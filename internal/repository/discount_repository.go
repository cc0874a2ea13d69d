package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	discountDomain "github.com/ammstro/service-pricing/internal/domain/discount"
)

// DiscountModel is the GORM model for the discount_codes table.
type DiscountModel struct {
	ID          uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Code        string     `gorm:"type:varchar(50);uniqueIndex;not null"`
	Kind        string     `gorm:"type:varchar(20);not null"`
	Value       int64      `gorm:"not null"`
	Active      bool       `gorm:"not null;default:true"`
	OneTime     bool       `gorm:"not null;default:false"`
	ValidUntil  *time.Time
	Description string    `gorm:"type:text"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (DiscountModel) TableName() string { return "discount_codes" }

// RedemptionModel is the GORM model for the discount_redemptions table.
type RedemptionModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code       string    `gorm:"type:varchar(50);not null;index:idx_redemption_code_session"`
	SessionID  string    `gorm:"type:varchar(128);not null;index:idx_redemption_code_session"`
	RedeemedAt time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (RedemptionModel) TableName() string { return "discount_redemptions" }

// GormDiscountRepository implements discount.Repository using GORM.
type GormDiscountRepository struct {
	db *gorm.DB
}

// NewGormDiscountRepository creates a new GormDiscountRepository.
func NewGormDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

// Save persists a new discount code.
func (r *GormDiscountRepository) Save(ctx context.Context, d *discountDomain.Discount) error {
	model := toDiscountModel(d)
	return r.db.WithContext(ctx).Create(&model).Error
}

// Update updates a discount code.
func (r *GormDiscountRepository) Update(ctx context.Context, d *discountDomain.Discount) error {
	model := toDiscountModel(d)
	return r.db.WithContext(ctx).Save(&model).Error
}

// Delete removes a discount code by its normalized code.
func (r *GormDiscountRepository) Delete(ctx context.Context, code string) error {
	return r.db.WithContext(ctx).Where("code = ?", code).Delete(&DiscountModel{}).Error
}

// FindByCode returns the discount for a normalized code.
func (r *GormDiscountRepository) FindByCode(ctx context.Context, code string) (*discountDomain.Discount, error) {
	var model DiscountModel
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&model).Error; err != nil {
		return nil, err
	}
	return toDiscountDomain(&model), nil
}

// FindAll returns every discount code, newest first.
func (r *GormDiscountRepository) FindAll(ctx context.Context) ([]*discountDomain.Discount, error) {
	var models []DiscountModel
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, err
	}
	out := make([]*discountDomain.Discount, len(models))
	for i, m := range models {
		out[i] = toDiscountDomain(&m)
	}
	return out, nil
}

// SaveRedemption records a one-time code consumption.
func (r *GormDiscountRepository) SaveRedemption(ctx context.Context, red *discountDomain.Redemption) error {
	model := RedemptionModel{
		ID:         red.ID,
		Code:       red.Code,
		SessionID:  red.SessionID,
		RedeemedAt: red.RedeemedAt,
	}
	return r.db.WithContext(ctx).Create(&model).Error
}

// HasSessionRedeemed checks whether a session already consumed a code.
func (r *GormDiscountRepository) HasSessionRedeemed(ctx context.Context, code, sessionID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&RedemptionModel{}).
		Where("code = ? AND session_id = ?", code, sessionID).
		Count(&count).Error
	return count > 0, err
}

func toDiscountModel(d *discountDomain.Discount) DiscountModel {
	return DiscountModel{
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

func toDiscountDomain(m *DiscountModel) *discountDomain.Discount {
	return discountDomain.Reconstruct(
		m.ID, m.Code, discountDomain.Kind(m.Kind), m.Value,
		m.Active, m.OneTime, m.ValidUntil, m.Description,
		m.CreatedAt, m.UpdatedAt,
	)
}
