package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ammstro/service-pricing/internal/application"
	discountDomain "github.com/ammstro/service-pricing/internal/domain/discount"
	"github.com/ammstro/service-pricing/internal/handler"
	"github.com/ammstro/service-pricing/internal/kafka"
	"github.com/ammstro/service-pricing/internal/middleware"
)

// stubDiscountRepo holds one code in memory and records redemptions so the
// test can see which session consumed it.
type stubDiscountRepo struct {
	discount *discountDomain.Discount
	redeemed []string // session IDs
}

func (r *stubDiscountRepo) Save(context.Context, *discountDomain.Discount) error   { return nil }
func (r *stubDiscountRepo) Update(context.Context, *discountDomain.Discount) error { return nil }
func (r *stubDiscountRepo) Delete(context.Context, string) error                   { return nil }

func (r *stubDiscountRepo) FindByCode(_ context.Context, code string) (*discountDomain.Discount, error) {
	if r.discount == nil || r.discount.Code() != code {
		return nil, gorm.ErrRecordNotFound
	}
	return r.discount, nil
}

func (r *stubDiscountRepo) FindAll(context.Context) ([]*discountDomain.Discount, error) {
	return nil, nil
}

func (r *stubDiscountRepo) SaveRedemption(_ context.Context, red *discountDomain.Redemption) error {
	r.redeemed = append(r.redeemed, red.SessionID)
	return nil
}

func (r *stubDiscountRepo) HasSessionRedeemed(_ context.Context, _, sessionID string) (bool, error) {
	for _, s := range r.redeemed {
		if s == sessionID {
			return true, nil
		}
	}
	return false, nil
}

type noopPublisher struct{}

func (noopPublisher) PublishEvent(context.Context, string, kafka.CloudEvent) error { return nil }

func newValidateRouter(t *testing.T, repo *stubDiscountRepo) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := application.NewDiscountService(repo, noopPublisher{}, zap.NewNop())
	h := handler.NewDiscountHandler(svc, middleware.NewRateLimiter(100, 100))

	router := gin.New()
	h.RegisterRoutes(router.Group("/api/v1"))
	return router
}

func TestValidate_SessionFromHeader(t *testing.T) {
	d, err := discountDomain.New("LAUNCH10", discountDomain.KindPercentage, 10, true, nil, "")
	require.NoError(t, err)
	repo := &stubDiscountRepo{discount: d}
	router := newValidateRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/discounts/validate",
		strings.NewReader(`{"code":"launch10"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", "sess-header")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Data application.ApplyResultDTO `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Data.Valid)
	assert.Equal(t, "LAUNCH10", body.Data.Code)
	assert.Equal(t, []string{"sess-header"}, repo.redeemed)
}

func TestValidate_BodySessionWinsOverHeader(t *testing.T) {
	d, err := discountDomain.New("LAUNCH10", discountDomain.KindPercentage, 10, true, nil, "")
	require.NoError(t, err)
	repo := &stubDiscountRepo{discount: d}
	router := newValidateRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/discounts/validate",
		strings.NewReader(`{"code":"LAUNCH10","session_id":"sess-body"}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-ID", "sess-header")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"sess-body"}, repo.redeemed)
}

func TestValidate_MissingSessionRejected(t *testing.T) {
	d, err := discountDomain.New("LAUNCH10", discountDomain.KindPercentage, 10, true, nil, "")
	require.NoError(t, err)
	repo := &stubDiscountRepo{discount: d}
	router := newValidateRouter(t, repo)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/discounts/validate",
		strings.NewReader(`{"code":"LAUNCH10"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, repo.redeemed)
}
