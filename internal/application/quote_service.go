package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	discountDomain "github.com/ammstro/service-pricing/internal/domain/discount"
	"github.com/ammstro/service-pricing/internal/domain/pricing"
	"github.com/ammstro/service-pricing/internal/export"
	"github.com/ammstro/service-pricing/internal/metrics"
)

// QuoteRequest is the calculator input from a visitor.
type QuoteRequest struct {
	AircraftCount int      `json:"aircraft_count" binding:"required"`
	ModuleKeys    []string `json:"modules"`
	DiscountCode  string   `json:"discount_code,omitempty"`
}

// QuoteLineDTO is one priced row of a quote response.
type QuoteLineDTO struct {
	ModuleKey      string `json:"module_key"`
	Label          string `json:"label"`
	UnitPriceCents int64  `json:"unit_price_cents"`
	TotalCents     int64  `json:"total_cents"`
}

// QuoteDTO is the computed quote response.
type QuoteDTO struct {
	AircraftCount    int            `json:"aircraft_count"`
	Lines            []QuoteLineDTO `json:"lines"`
	SubtotalCents    int64          `json:"subtotal_cents"`
	DiscountCode     string         `json:"discount_code,omitempty"`
	DiscountCents    int64          `json:"discount_cents"`
	DiscountRejected string         `json:"discount_rejected,omitempty"`
	TotalCents       int64          `json:"total_cents"`
	PerAircraftCents int64          `json:"per_aircraft_cents"`
	GeneratedAt      time.Time      `json:"generated_at"`
}

// QuoteService computes quotes and renders the exportable document.
type QuoteService struct {
	catalogSvc  *CatalogService
	discountSvc *DiscountService
	logger      *zap.Logger
}

// NewQuoteService creates a new QuoteService.
func NewQuoteService(catalogSvc *CatalogService, discountSvc *DiscountService, logger *zap.Logger) *QuoteService {
	return &QuoteService{catalogSvc: catalogSvc, discountSvc: discountSvc, logger: logger}
}

// Preview computes a quote for the selection. A discount code that fails
// validation does not fail the quote: the subtotal is returned with the
// rejection reason inline, keeping the calculator interactive.
func (s *QuoteService) Preview(ctx context.Context, req QuoteRequest) (*QuoteDTO, error) {
	start := time.Now()

	cat, err := s.catalogSvc.Current(ctx)
	if err != nil {
		metrics.RecordQuoteDuration("failure", time.Since(start).Seconds())
		return nil, err
	}

	var disc *discountDomain.Discount
	var rejectedReason string
	if req.DiscountCode != "" {
		disc, err = s.discountSvc.Resolve(ctx, req.DiscountCode)
		if err != nil {
			if isDiscountRejection(err) {
				rejectedReason = err.Error()
				disc = nil
			} else {
				metrics.RecordQuoteDuration("failure", time.Since(start).Seconds())
				return nil, err
			}
		}
	}

	q := pricing.Compute(cat, pricing.Selection{
		AircraftCount: req.AircraftCount,
		ModuleKeys:    req.ModuleKeys,
	}, disc)

	metrics.RecordQuoteDuration("success", time.Since(start).Seconds())
	dto := toQuoteDTO(q)
	dto.DiscountRejected = rejectedReason
	if rejectedReason != "" {
		dto.DiscountCode = discountDomain.NormalizeCode(req.DiscountCode)
	}
	return dto, nil
}

// Export renders the quote as a downloadable document with a timestamped
// filename.
func (s *QuoteService) Export(ctx context.Context, req QuoteRequest) (filename string, body []byte, err error) {
	dto, err := s.Preview(ctx, req)
	if err != nil {
		return "", nil, err
	}

	doc := export.QuoteDocument{
		QuoteID:          fmt.Sprintf("AMM-%d", time.Now().Unix()%1000000),
		Date:             dto.GeneratedAt,
		ValidUntil:       dto.GeneratedAt.AddDate(0, 0, 30),
		AircraftCount:    dto.AircraftCount,
		SubtotalCents:    dto.SubtotalCents,
		DiscountCode:     dto.DiscountCode,
		DiscountCents:    dto.DiscountCents,
		TotalCents:       dto.TotalCents,
		PerAircraftCents: dto.PerAircraftCents,
	}
	for _, line := range dto.Lines {
		doc.Lines = append(doc.Lines, export.QuoteLine{
			Label:          line.Label,
			UnitPriceCents: line.UnitPriceCents,
			TotalCents:     line.TotalCents,
		})
	}

	body, err = export.RenderQuote(doc)
	if err != nil {
		return "", nil, fmt.Errorf("failed to render quote document: %w", err)
	}

	filename = fmt.Sprintf("AMMSTRO_Quote_%d.txt", dto.GeneratedAt.Unix())
	s.logger.Info("quote exported",
		zap.String("filename", filename),
		zap.Int("aircraft_count", dto.AircraftCount),
		zap.Int64("total_cents", dto.TotalCents),
	)
	return filename, body, nil
}

func isDiscountRejection(err error) bool {
	return errors.Is(err, discountDomain.ErrNotFound) ||
		errors.Is(err, discountDomain.ErrInactive) ||
		errors.Is(err, discountDomain.ErrExpired) ||
		errors.Is(err, discountDomain.ErrAlreadyUsed)
}

func toQuoteDTO(q pricing.Quote) *QuoteDTO {
	dto := &QuoteDTO{
		AircraftCount:    q.AircraftCount,
		SubtotalCents:    q.SubtotalCents,
		DiscountCode:     q.DiscountCode,
		DiscountCents:    q.DiscountCents,
		TotalCents:       q.TotalCents,
		PerAircraftCents: q.PerAircraftCents,
		GeneratedAt:      time.Now().UTC(),
	}
	for _, line := range q.Lines {
		dto.Lines = append(dto.Lines, QuoteLineDTO{
			ModuleKey:      line.ModuleKey,
			Label:          line.Label,
			UnitPriceCents: line.UnitPriceCents,
			TotalCents:     line.TotalCents,
		})
	}
	return dto
}
