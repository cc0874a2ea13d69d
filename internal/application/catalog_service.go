package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ammstro/service-pricing/internal/cache"
	catalogDomain "github.com/ammstro/service-pricing/internal/domain/catalog"
	"github.com/ammstro/service-pricing/internal/events"
	"github.com/ammstro/service-pricing/internal/kafka"
	"github.com/ammstro/service-pricing/internal/metrics"
)

const eventSource = "service-pricing"

// ModuleDTO is the API representation of a catalog module.
type ModuleDTO struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	PriceCents int64  `json:"price_cents"`
	Visible    bool   `json:"visible"`
	Position   int    `json:"position"`
	IsBase     bool   `json:"is_base"`
}

// CatalogDTO is the API representation of the pricing catalog.
type CatalogDTO struct {
	BasePriceCents int64       `json:"base_price_cents"`
	Modules        []ModuleDTO `json:"modules"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// AddModuleRequest holds data to add a catalog module.
type AddModuleRequest struct {
	Key        string `json:"key" binding:"required"`
	Label      string `json:"label" binding:"required"`
	PriceCents int64  `json:"price_cents" binding:"gte=0"`
}

// UpdateModuleRequest holds optional module field updates.
type UpdateModuleRequest struct {
	Label      *string `json:"label,omitempty"`
	PriceCents *int64  `json:"price_cents,omitempty"`
	Visible    *bool   `json:"visible,omitempty"`
}

// SetBasePriceRequest holds the new per-aircraft base price.
type SetBasePriceRequest struct {
	BasePriceCents int64 `json:"base_price_cents" binding:"gte=0"`
}

// MoveRequest selects a reorder direction.
type MoveRequest struct {
	Direction string `json:"direction" binding:"required,oneof=up down"`
}

// CatalogService handles pricing catalog use cases.
type CatalogService struct {
	repo     catalogDomain.Repository
	cache    *cache.CatalogCache
	producer EventPublisher
	logger   *zap.Logger
}

// NewCatalogService creates a new CatalogService.
func NewCatalogService(repo catalogDomain.Repository, c *cache.CatalogCache, producer EventPublisher, logger *zap.Logger) *CatalogService {
	return &CatalogService{repo: repo, cache: c, producer: producer, logger: logger}
}

// Current returns the catalog aggregate, reading through the cache and
// seeding the default catalog on first use.
func (s *CatalogService) Current(ctx context.Context) (*catalogDomain.Catalog, error) {
	if cat, ok := s.cache.Get(); ok {
		return cat, nil
	}

	cat, err := s.repo.Load(ctx)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cat = catalogDomain.Default()
		if err := s.repo.Save(ctx, cat); err != nil {
			return nil, fmt.Errorf("failed to seed default catalog: %w", err)
		}
		s.logger.Info("seeded default catalog")
	} else if err != nil {
		return nil, err
	}

	s.cache.Set(cat)
	return cat, nil
}

// Refresh reloads the catalog from the store into the cache. Called by the
// change-feed consumer; the freshly loaded copy wins over whatever is cached.
func (s *CatalogService) Refresh(ctx context.Context) error {
	cat, err := s.repo.Load(ctx)
	if err != nil {
		return err
	}
	s.cache.Set(cat)
	return nil
}

// GetPublicCatalog returns the visible modules in display order.
func (s *CatalogService) GetPublicCatalog(ctx context.Context) (*CatalogDTO, error) {
	cat, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return toCatalogDTO(cat, false), nil
}

// GetAdminCatalog returns every module, including hidden ones.
func (s *CatalogService) GetAdminCatalog(ctx context.Context) (*CatalogDTO, error) {
	cat, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}
	return toCatalogDTO(cat, true), nil
}

// SetBasePrice updates the per-aircraft base price.
func (s *CatalogService) SetBasePrice(ctx context.Context, req SetBasePriceRequest) (*CatalogDTO, error) {
	return s.mutate(ctx, "set_base_price", "", func(cat *catalogDomain.Catalog) error {
		return cat.SetBasePrice(req.BasePriceCents)
	})
}

// AddModule appends a new module to the catalog.
func (s *CatalogService) AddModule(ctx context.Context, req AddModuleRequest) (*CatalogDTO, error) {
	return s.mutate(ctx, "add_module", req.Key, func(cat *catalogDomain.Catalog) error {
		return cat.AddModule(req.Key, req.Label, req.PriceCents)
	})
}

// UpdateModule patches a module's label, price, or visibility.
func (s *CatalogService) UpdateModule(ctx context.Context, key string, req UpdateModuleRequest) (*CatalogDTO, error) {
	return s.mutate(ctx, "update_module", key, func(cat *catalogDomain.Catalog) error {
		if req.Label != nil {
			if err := cat.SetLabel(key, *req.Label); err != nil {
				return err
			}
		}
		if req.PriceCents != nil {
			if err := cat.SetPrice(key, *req.PriceCents); err != nil {
				return err
			}
		}
		if req.Visible != nil {
			if err := cat.SetVisibility(key, *req.Visible); err != nil {
				return err
			}
		}
		return nil
	})
}

// DeleteModule removes a module and all its facets in one write.
func (s *CatalogService) DeleteModule(ctx context.Context, key string) (*CatalogDTO, error) {
	return s.mutate(ctx, "delete_module", key, func(cat *catalogDomain.Catalog) error {
		return cat.DeleteModule(key)
	})
}

// MoveModule reorders a module one step up or down.
func (s *CatalogService) MoveModule(ctx context.Context, key string, req MoveRequest) (*CatalogDTO, error) {
	return s.mutate(ctx, "move_module", key, func(cat *catalogDomain.Catalog) error {
		if req.Direction == "up" {
			return cat.MoveUp(key)
		}
		return cat.MoveDown(key)
	})
}

// mutate loads the catalog, applies fn to a copy, saves atomically, installs
// the copy in the cache, and announces the change on the feed. The cached
// aggregate is never written in place: readers keep serving it while the
// mutation runs, and a failed or partially applied fn leaves it untouched.
func (s *CatalogService) mutate(ctx context.Context, operation, moduleKey string, fn func(*catalogDomain.Catalog) error) (*CatalogDTO, error) {
	current, err := s.Current(ctx)
	if err != nil {
		return nil, err
	}

	cat := current.Clone()
	if err := fn(cat); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, cat); err != nil {
		// Re-sync with the store on the next read.
		s.cache.Invalidate()
		return nil, fmt.Errorf("failed to save catalog: %w", err)
	}

	s.cache.Set(cat)
	metrics.RecordCatalogMutation(operation)
	s.publish(ctx, operation, moduleKey)

	s.logger.Info("catalog updated",
		zap.String("operation", operation),
		zap.String("module_key", moduleKey),
	)
	return toCatalogDTO(cat, true), nil
}

// publish announces the mutation; delivery failures are logged, not returned,
// since the store is already the source of truth.
func (s *CatalogService) publish(ctx context.Context, operation, moduleKey string) {
	ce, err := kafka.NewCloudEvent(eventSource, events.CatalogUpdated, events.CatalogUpdatedEvent{
		Operation:  operation,
		ModuleKey:  moduleKey,
		OccurredAt: time.Now().UTC(),
	})
	if err != nil {
		s.logger.Warn("failed to build catalog event", zap.Error(err))
		return
	}
	if err := s.producer.PublishEvent(ctx, events.TopicPricingEvents, ce); err != nil {
		s.logger.Warn("failed to publish catalog event", zap.Error(err))
	}
}

func toCatalogDTO(cat *catalogDomain.Catalog, includeHidden bool) *CatalogDTO {
	mods := cat.Modules()
	if !includeHidden {
		mods = cat.VisibleModules()
	}
	dto := &CatalogDTO{
		BasePriceCents: cat.BasePriceCents(),
		Modules:        make([]ModuleDTO, 0, len(mods)),
		UpdatedAt:      cat.UpdatedAt(),
	}
	for i, m := range mods {
		dto.Modules = append(dto.Modules, ModuleDTO{
			Key:        m.Key(),
			Label:      m.Label(),
			PriceCents: m.PriceCents(),
			Visible:    m.Visible(),
			Position:   i,
			IsBase:     m.Key() == catalogDomain.BaseModuleKey,
		})
	}
	return dto
}
