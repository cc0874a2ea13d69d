// Package pricing holds the pure quote arithmetic. It has no persistence or
// transport concerns so the calculator can be tested in isolation.
package pricing

import (
	"math"

	"github.com/ammstro/service-pricing/internal/domain/catalog"
	"github.com/ammstro/service-pricing/internal/domain/discount"
)

// Aircraft count bounds enforced at the boundary, never as errors.
const (
	MinAircraftCount = 1
	MaxAircraftCount = 100
)

// ClampAircraftCount clamps n into [MinAircraftCount, MaxAircraftCount].
func ClampAircraftCount(n int) int {
	if n < MinAircraftCount {
		return MinAircraftCount
	}
	if n > MaxAircraftCount {
		return MaxAircraftCount
	}
	return n
}

// Selection is the ephemeral calculator input: an aircraft count and the
// chosen module keys. The base module is implied even when absent.
type Selection struct {
	AircraftCount int
	ModuleKeys    []string
}

// LineItem is one priced row of a quote.
type LineItem struct {
	ModuleKey      string
	Label          string
	UnitPriceCents int64
	TotalCents     int64
}

// Quote is the computed result for a selection against a catalog.
type Quote struct {
	AircraftCount    int
	Lines            []LineItem
	SubtotalCents    int64
	DiscountCode     string
	DiscountCents    int64
	TotalCents       int64
	PerAircraftCents int64
}

// Compute prices a selection against the catalog, optionally applying a
// discount. The discount's own usability (active, expiry, one-time
// consumption) is the caller's concern; here it is pure arithmetic:
//
//	subtotal = base*n + sum(selected module price*n)
//	total    = max(0, subtotal - discount)
func Compute(cat *catalog.Catalog, sel Selection, disc *discount.Discount) Quote {
	n := ClampAircraftCount(sel.AircraftCount)
	keys := cat.NormalizeSelection(sel.ModuleKeys)

	q := Quote{AircraftCount: n}

	baseLine := LineItem{
		ModuleKey:      catalog.BaseModuleKey,
		Label:          "Base Plan",
		UnitPriceCents: cat.BasePriceCents(),
		TotalCents:     cat.BasePriceCents() * int64(n),
	}
	if m, ok := cat.Module(catalog.BaseModuleKey); ok {
		baseLine.Label = m.Label()
	}
	q.Lines = append(q.Lines, baseLine)
	q.SubtotalCents = baseLine.TotalCents

	for _, key := range keys {
		if key == catalog.BaseModuleKey {
			continue
		}
		m, ok := cat.Module(key)
		if !ok {
			continue
		}
		line := LineItem{
			ModuleKey:      key,
			Label:          m.Label(),
			UnitPriceCents: m.PriceCents(),
			TotalCents:     m.PriceCents() * int64(n),
		}
		q.Lines = append(q.Lines, line)
		q.SubtotalCents += line.TotalCents
	}

	q.TotalCents = q.SubtotalCents
	if disc != nil {
		q.DiscountCode = disc.Code()
		q.DiscountCents = disc.AmountCents(q.SubtotalCents, n)
		q.TotalCents = q.SubtotalCents - q.DiscountCents
		if q.TotalCents < 0 {
			q.TotalCents = 0
		}
	}

	// Display rounding only; stored totals stay exact.
	q.PerAircraftCents = int64(math.Round(float64(q.TotalCents) / float64(n)))
	return q
}
