// Package export renders quotes into downloadable documents.
package export

import (
	"bytes"
	"fmt"
	"text/template"
	"time"
)

// QuoteLine is one priced row of the rendered document.
type QuoteLine struct {
	Label          string
	UnitPriceCents int64
	TotalCents     int64
}

// QuoteDocument is the input to the quote template.
type QuoteDocument struct {
	QuoteID          string
	Date             time.Time
	ValidUntil       time.Time
	AircraftCount    int
	Lines            []QuoteLine
	SubtotalCents    int64
	DiscountCode     string
	DiscountCents    int64
	TotalCents       int64
	PerAircraftCents int64
}

const quoteTemplate = `AMMSTRO
Aircraft Maintenance Management System
========================================================================

QUOTATION

Quote ID:       {{.QuoteID}}
Date:           {{.Date.Format "2006-01-02"}}
Valid Until:    {{.ValidUntil.Format "2006-01-02"}}
Aircraft Count: {{.AircraftCount}}

Pricing (per month)
------------------------------------------------------------------------
{{printf "%-44s %12s %12s" "Service" "Unit Price" "Total"}}
------------------------------------------------------------------------
{{- range .Lines}}
{{printf "%-44s %12s %12s" .Label (usd .UnitPriceCents) (usd .TotalCents)}}
{{- end}}
------------------------------------------------------------------------
{{printf "%-57s %12s" "Subtotal" (usd .SubtotalCents)}}
{{- if .DiscountCents}}
{{printf "%-57s %12s" (printf "Discount (%s)" .DiscountCode) (printf "-%s" (usd .DiscountCents))}}
{{- end}}
{{printf "%-57s %12s" "Total Monthly" (usd .TotalCents)}}
{{printf "%-57s %12s" "Per Aircraft / Month" (usd .PerAircraftCents)}}

Terms & Conditions
------------------------------------------------------------------------
Includes 7-day free trial, monthly billing with 30-day payment terms,
24/7 support, no setup fees.
Implementation: 2-4 weeks. Quote valid 30 days.
`

var quoteTmpl = template.Must(template.New("quote").Funcs(template.FuncMap{
	"usd": formatUSD,
}).Parse(quoteTemplate))

// RenderQuote renders the quotation document.
func RenderQuote(doc QuoteDocument) ([]byte, error) {
	var buf bytes.Buffer
	if err := quoteTmpl.Execute(&buf, doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// formatUSD renders cents as $1,234.56.
func formatUSD(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	dollars := cents / 100
	rem := cents % 100
	return fmt.Sprintf("%s$%s.%02d", sign, groupThousands(dollars), rem)
}

func groupThousands(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	var buf bytes.Buffer
	lead := len(s) % 3
	if lead > 0 {
		buf.WriteString(s[:lead])
	}
	for i := lead; i < len(s); i += 3 {
		if buf.Len() > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(s[i : i+3])
	}
	return buf.String()
}
