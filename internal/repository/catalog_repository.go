package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	catalogDomain "github.com/ammstro/service-pricing/internal/domain/catalog"
)

// CatalogSettingsModel is the GORM model for the singleton catalog_settings row.
type CatalogSettingsModel struct {
	ID             int       `gorm:"primaryKey"`
	BasePriceCents int64     `gorm:"not null"`
	UpdatedAt      time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (CatalogSettingsModel) TableName() string { return "catalog_settings" }

// PricingModuleModel is the GORM model for the pricing_modules table.
type PricingModuleModel struct {
	Key        string    `gorm:"type:varchar(64);primaryKey"`
	Label      string    `gorm:"type:varchar(128);not null"`
	PriceCents int64     `gorm:"not null"`
	Visible    bool      `gorm:"not null;default:true"`
	Position   int       `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName sets the table name.
func (PricingModuleModel) TableName() string { return "pricing_modules" }

const settingsRowID = 1

// GormCatalogRepository implements catalog.Repository using GORM.
type GormCatalogRepository struct {
	db *gorm.DB
}

// NewGormCatalogRepository creates a new GormCatalogRepository.
func NewGormCatalogRepository(db *gorm.DB) *GormCatalogRepository {
	return &GormCatalogRepository{db: db}
}

// Load rebuilds the catalog aggregate. Returns gorm.ErrRecordNotFound when
// the catalog has never been saved.
func (r *GormCatalogRepository) Load(ctx context.Context) (*catalogDomain.Catalog, error) {
	var settings CatalogSettingsModel
	if err := r.db.WithContext(ctx).First(&settings, settingsRowID).Error; err != nil {
		return nil, err
	}

	var rows []PricingModuleModel
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&rows).Error; err != nil {
		return nil, err
	}

	modules := make([]*catalogDomain.Module, 0, len(rows))
	for _, row := range rows {
		m, err := catalogDomain.NewModule(row.Key, row.Label, row.PriceCents, row.Visible)
		if err != nil {
			return nil, err
		}
		modules = append(modules, m)
	}

	return catalogDomain.Reconstruct(settings.BasePriceCents, modules, settings.UpdatedAt), nil
}

// Save persists the whole aggregate in one transaction so a module's price,
// label, visibility, and position can never diverge.
func (r *GormCatalogRepository) Save(ctx context.Context, c *catalogDomain.Catalog) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		settings := CatalogSettingsModel{
			ID:             settingsRowID,
			BasePriceCents: c.BasePriceCents(),
			UpdatedAt:      c.UpdatedAt(),
		}
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			UpdateAll: true,
		}).Create(&settings).Error; err != nil {
			return err
		}

		keys := c.Order()
		if err := tx.Where("key NOT IN ?", keys).Delete(&PricingModuleModel{}).Error; err != nil {
			return err
		}

		now := time.Now().UTC()
		for pos, key := range keys {
			m, _ := c.Module(key)
			row := PricingModuleModel{
				Key:        m.Key(),
				Label:      m.Label(),
				PriceCents: m.PriceCents(),
				Visible:    m.Visible(),
				Position:   pos,
				CreatedAt:  now,
				UpdatedAt:  now,
			}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"label", "price_cents", "visible", "position", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
