package application_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ammstro/service-pricing/internal/application"
	"github.com/ammstro/service-pricing/internal/cache"
	catalogDomain "github.com/ammstro/service-pricing/internal/domain/catalog"
)

func newCatalogService(repo *fakeCatalogRepo) (*application.CatalogService, *fakePublisher) {
	pub := &fakePublisher{}
	svc := application.NewCatalogService(repo, cache.NewCatalogCache(), pub, zap.NewNop())
	return svc, pub
}

func TestCatalogService_SeedsDefaultOnFirstUse(t *testing.T) {
	repo := &fakeCatalogRepo{}
	svc, _ := newCatalogService(repo)

	dto, err := svc.GetPublicCatalog(context.Background())
	require.NoError(t, err)

	assert.Equal(t, catalogDomain.DefaultBasePriceCents, dto.BasePriceCents)
	assert.Len(t, dto.Modules, 10)
	assert.Equal(t, 1, repo.saves)

	// Second read hits the cache, not the store.
	repo.loadErr = errors.New("store down")
	_, err = svc.GetPublicCatalog(context.Background())
	assert.NoError(t, err)
}

func TestCatalogService_PublicHidesInvisibleModules(t *testing.T) {
	cat := catalogDomain.Default()
	require.NoError(t, cat.SetVisibility("training", false))
	svc, _ := newCatalogService(&fakeCatalogRepo{cat: cat})

	pub, err := svc.GetPublicCatalog(context.Background())
	require.NoError(t, err)
	for _, m := range pub.Modules {
		assert.NotEqual(t, "training", m.Key)
	}

	admin, err := svc.GetAdminCatalog(context.Background())
	require.NoError(t, err)
	keys := make([]string, 0, len(admin.Modules))
	for _, m := range admin.Modules {
		keys = append(keys, m.Key)
	}
	assert.Contains(t, keys, "training")
}

func TestCatalogService_SetBasePrice(t *testing.T) {
	repo := &fakeCatalogRepo{cat: catalogDomain.Default()}
	svc, pub := newCatalogService(repo)

	dto, err := svc.SetBasePrice(context.Background(), application.SetBasePriceRequest{BasePriceCents: 600000})
	require.NoError(t, err)
	assert.Equal(t, int64(600000), dto.BasePriceCents)
	assert.Equal(t, 1, repo.saves)
	assert.Equal(t, 1, pub.count())
}

func TestCatalogService_AddModule(t *testing.T) {
	svc, pub := newCatalogService(&fakeCatalogRepo{cat: catalogDomain.Default()})

	dto, err := svc.AddModule(context.Background(), application.AddModuleRequest{
		Key: "fuelOptimization", Label: "Fuel Optimization", PriceCents: 12500,
	})
	require.NoError(t, err)
	last := dto.Modules[len(dto.Modules)-1]
	assert.Equal(t, "fuelOptimization", last.Key)
	assert.Equal(t, int64(12500), last.PriceCents)
	assert.Equal(t, 1, pub.count())

	_, err = svc.AddModule(context.Background(), application.AddModuleRequest{
		Key: "fuelOptimization", Label: "Duplicate", PriceCents: 1,
	})
	assert.ErrorIs(t, err, catalogDomain.ErrModuleExists)
	assert.Equal(t, 1, pub.count())
}

func TestCatalogService_UpdateModule(t *testing.T) {
	svc, _ := newCatalogService(&fakeCatalogRepo{cat: catalogDomain.Default()})

	label := "Analytics Suite"
	price := int64(27500)
	visible := false
	dto, err := svc.UpdateModule(context.Background(), "predictiveAnalytics", application.UpdateModuleRequest{
		Label: &label, PriceCents: &price, Visible: &visible,
	})
	require.NoError(t, err)

	var got *application.ModuleDTO
	for i := range dto.Modules {
		if dto.Modules[i].Key == "predictiveAnalytics" {
			got = &dto.Modules[i]
		}
	}
	require.NotNil(t, got)
	assert.Equal(t, "Analytics Suite", got.Label)
	assert.Equal(t, int64(27500), got.PriceCents)
	assert.False(t, got.Visible)

	_, err = svc.UpdateModule(context.Background(), "missing", application.UpdateModuleRequest{Label: &label})
	assert.ErrorIs(t, err, catalogDomain.ErrModuleNotFound)

	_, err = svc.UpdateModule(context.Background(), catalogDomain.BaseModuleKey, application.UpdateModuleRequest{PriceCents: &price})
	assert.ErrorIs(t, err, catalogDomain.ErrBaseModuleImmutable)
}

func TestCatalogService_DeleteModule(t *testing.T) {
	repo := &fakeCatalogRepo{cat: catalogDomain.Default()}
	svc, pub := newCatalogService(repo)

	dto, err := svc.DeleteModule(context.Background(), "training")
	require.NoError(t, err)
	for _, m := range dto.Modules {
		assert.NotEqual(t, "training", m.Key)
	}
	assert.Equal(t, 1, pub.count())

	_, err = svc.DeleteModule(context.Background(), catalogDomain.BaseModuleKey)
	assert.ErrorIs(t, err, catalogDomain.ErrBaseModuleImmutable)
}

func TestCatalogService_MoveModule(t *testing.T) {
	cat := catalogDomain.Default()
	order := cat.Order()
	second := order[1]
	svc, _ := newCatalogService(&fakeCatalogRepo{cat: cat})

	dto, err := svc.MoveModule(context.Background(), second, application.MoveRequest{Direction: "down"})
	require.NoError(t, err)
	assert.Equal(t, second, dto.Modules[2].Key)

	dto, err = svc.MoveModule(context.Background(), second, application.MoveRequest{Direction: "up"})
	require.NoError(t, err)
	assert.Equal(t, second, dto.Modules[1].Key)
}

func TestCatalogService_FailedPartialUpdateDoesNotLeakIntoReads(t *testing.T) {
	repo := &fakeCatalogRepo{cat: catalogDomain.Default()}
	svc, pub := newCatalogService(repo)

	// Warm the cache so reads are served from it.
	_, err := svc.GetPublicCatalog(context.Background())
	require.NoError(t, err)

	// Label would apply but the base module's price is immutable, so the
	// patch fails after its first step.
	label := "Renamed Base"
	price := int64(999)
	_, err = svc.UpdateModule(context.Background(), catalogDomain.BaseModuleKey, application.UpdateModuleRequest{
		Label: &label, PriceCents: &price,
	})
	require.ErrorIs(t, err, catalogDomain.ErrBaseModuleImmutable)
	assert.Zero(t, repo.saves)
	assert.Zero(t, pub.count())

	// Nothing was persisted, so nothing half-applied may be served.
	dto, err := svc.GetPublicCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Basic Maintenance Scheduling", dto.Modules[0].Label)
}

func TestCatalogService_SaveFailureInvalidatesCache(t *testing.T) {
	repo := &fakeCatalogRepo{cat: catalogDomain.Default()}
	svc, pub := newCatalogService(repo)

	_, err := svc.GetAdminCatalog(context.Background())
	require.NoError(t, err)

	repo.saveErr = errors.New("write failed")
	_, err = svc.SetBasePrice(context.Background(), application.SetBasePriceRequest{BasePriceCents: 1})
	assert.Error(t, err)
	assert.Zero(t, pub.count())

	// The next read goes back to the store.
	repo.saveErr = nil
	repo.loadErr = errors.New("store down")
	_, err = svc.GetAdminCatalog(context.Background())
	assert.Error(t, err)
}
