package discount_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ammstro/service-pricing/internal/domain/discount"
)

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "LAUNCH20", discount.NormalizeCode("  launch20 "))
	assert.Equal(t, "SAVE100", discount.NormalizeCode("Save100"))
	assert.Equal(t, "", discount.NormalizeCode("   "))
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		kind    discount.Kind
		value   int64
		wantErr bool
	}{
		{"valid percentage", "LAUNCH20", discount.KindPercentage, 20, false},
		{"valid fixed", "SAVE100", discount.KindFixed, 10000, false},
		{"empty code", "   ", discount.KindPercentage, 10, true},
		{"invalid kind", "X", discount.Kind("bogus"), 10, true},
		{"zero value", "X", discount.KindFixed, 0, true},
		{"negative value", "X", discount.KindFixed, -100, true},
		{"percentage over 100", "X", discount.KindPercentage, 101, true},
		{"percentage exactly 100", "FREE", discount.KindPercentage, 100, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := discount.New(tt.code, tt.kind, tt.value, false, nil, "")
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, d.Active())
			assert.Equal(t, discount.NormalizeCode(tt.code), d.Code())
		})
	}
}

func TestDiscount_CheckUsable(t *testing.T) {
	now := time.Now().UTC()
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	active, err := discount.New("OK", discount.KindPercentage, 10, false, &future, "")
	require.NoError(t, err)
	assert.NoError(t, active.CheckUsable(now))

	expired, err := discount.New("OLD", discount.KindPercentage, 10, false, &past, "")
	require.NoError(t, err)
	assert.ErrorIs(t, expired.CheckUsable(now), discount.ErrExpired)

	// Deactivation wins over expiry in the reported reason.
	expired.SetActive(false)
	assert.ErrorIs(t, expired.CheckUsable(now), discount.ErrInactive)

	noExpiry, err := discount.New("EVERGREEN", discount.KindPercentage, 10, false, nil, "")
	require.NoError(t, err)
	assert.NoError(t, noExpiry.CheckUsable(now.Add(24*365*time.Hour)))
}

func TestDiscount_AmountCents(t *testing.T) {
	pct, err := discount.New("TEN", discount.KindPercentage, 10, false, nil, "")
	require.NoError(t, err)
	fixed, err := discount.New("SAVE100", discount.KindFixed, 10000, false, nil, "")
	require.NoError(t, err)
	big, err := discount.New("HUGE", discount.KindFixed, 2000000, false, nil, "")
	require.NoError(t, err)

	tests := []struct {
		name          string
		d             *discount.Discount
		subtotalCents int64
		aircraft      int
		want          int64
	}{
		{"percentage of subtotal", pct, 1575000, 3, 157500},
		{"fixed per aircraft", fixed, 1575000, 3, 30000},
		{"fixed single aircraft", fixed, 525000, 1, 10000},
		{"capped at subtotal", big, 1500000, 1, 1500000},
		{"zero subtotal", pct, 0, 1, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.d.AmountCents(tt.subtotalCents, tt.aircraft))
		})
	}
}

func TestDiscount_Setters(t *testing.T) {
	d, err := discount.New("EDIT", discount.KindPercentage, 10, false, nil, "")
	require.NoError(t, err)

	require.NoError(t, d.SetValue(25))
	assert.Equal(t, int64(25), d.Value())
	assert.Error(t, d.SetValue(0))
	assert.Error(t, d.SetValue(150))

	d.SetOneTime(true)
	assert.True(t, d.OneTime())

	until := time.Now().UTC().Add(time.Hour)
	d.SetValidUntil(&until)
	require.NotNil(t, d.ValidUntil())
	assert.True(t, until.Equal(*d.ValidUntil()))
	d.SetValidUntil(nil)
	assert.Nil(t, d.ValidUntil())

	d.SetDescription("launch promo")
	assert.Equal(t, "launch promo", d.Description())
}
