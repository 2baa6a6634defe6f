package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costwise/azure-pricing/internal/catalog"
)

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		name  string
		price float64
		pct   float64
		want  float64
	}{
		{name: "quarter off", price: 0.096, pct: 25, want: 0.072},
		{name: "ten percent", price: 1.0, pct: 10, want: 0.9},
		{name: "rounds to six decimals", price: 0.1234567, pct: 10, want: 0.111111},
		{name: "fractional percentage", price: 100, pct: 12.5, want: 87.5},
	}

	eng := newTestEngine(&fakeCatalog{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &SearchResult{Items: []catalog.PriceRecord{{RetailPrice: tt.price}}}
			eng.applyDiscount(res, tt.pct)

			assert.Equal(t, tt.want, res.Items[0].RetailPrice)
			assert.Equal(t, tt.price, res.Items[0].OriginalRetailPrice)
			require.NotNil(t, res.DiscountApplied)
			assert.Equal(t, tt.pct, res.DiscountApplied.Percentage)
			assert.NotEmpty(t, res.DiscountApplied.Note)
		})
	}
}

func TestApplyDiscountRewritesSavingsPlans(t *testing.T) {
	eng := newTestEngine(&fakeCatalog{})
	res := &SearchResult{Items: []catalog.PriceRecord{{
		RetailPrice: 0.096,
		SavingsPlan: []catalog.SavingsPlanOffer{
			{Term: "1 Year", RetailPrice: 0.08},
			{Term: "3 Years", RetailPrice: 0.06},
		},
	}}}

	eng.applyDiscount(res, 50)

	item := res.Items[0]
	assert.Equal(t, 0.048, item.RetailPrice)
	assert.Equal(t, 0.04, item.SavingsPlan[0].RetailPrice)
	assert.Equal(t, 0.08, item.SavingsPlan[0].OriginalRetailPrice)
	assert.Equal(t, 0.03, item.SavingsPlan[1].RetailPrice)
	assert.Equal(t, 0.06, item.SavingsPlan[1].OriginalRetailPrice)
}

func TestApplyDiscountIgnoresOutOfRange(t *testing.T) {
	tests := []struct {
		name string
		pct  float64
	}{
		{name: "zero", pct: 0},
		{name: "negative", pct: -5},
		{name: "full", pct: 100},
		{name: "above full", pct: 150},
	}

	eng := newTestEngine(&fakeCatalog{})
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := &SearchResult{Items: []catalog.PriceRecord{{RetailPrice: 0.096}}}
			eng.applyDiscount(res, tt.pct)

			assert.Equal(t, 0.096, res.Items[0].RetailPrice)
			assert.Zero(t, res.Items[0].OriginalRetailPrice)
			assert.Nil(t, res.DiscountApplied)
		})
	}
}
