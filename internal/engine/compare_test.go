package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costwise/azure-pricing/internal/catalog"
)

func TestCompareRegionsSortedCheapestFirst(t *testing.T) {
	prices := map[string]float64{
		"eastus":       0.096,
		"westeurope":   0.112,
		"centralindia": 0.081,
	}
	fake := &fakeCatalog{
		respond: func(q catalog.Query) (*catalog.Page, error) {
			return pageOf(record("Virtual Machines", "D2s v3", q.Region, prices[q.Region])), nil
		},
	}
	eng := newTestEngine(fake)

	cmp, err := eng.Compare(context.Background(), CompareRequest{
		ServiceName: "Virtual Machines",
		SkuName:     "D2s v3",
		Regions:     []string{"eastus", "westeurope", "centralindia"},
	})
	require.NoError(t, err)

	assert.Equal(t, CompareRegions, cmp.ComparisonType)
	assert.Equal(t, "USD", cmp.Currency)
	require.Len(t, cmp.Comparisons, 3)
	assert.Equal(t, "centralindia", cmp.Comparisons[0].Region)
	assert.Equal(t, "eastus", cmp.Comparisons[1].Region)
	assert.Equal(t, "westeurope", cmp.Comparisons[2].Region)
	assert.Equal(t, 0.081, cmp.Comparisons[0].RetailPrice)
}

func TestCompareRegionsSkipsFailedRegion(t *testing.T) {
	fake := &fakeCatalog{
		respond: func(q catalog.Query) (*catalog.Page, error) {
			if q.Region == "westeurope" {
				return nil, errors.New("upstream down")
			}
			return pageOf(record("Virtual Machines", "D2s v3", q.Region, 0.096)), nil
		},
	}
	eng := newTestEngine(fake)

	cmp, err := eng.Compare(context.Background(), CompareRequest{
		ServiceName: "Virtual Machines",
		Regions:     []string{"eastus", "westeurope"},
	})
	require.NoError(t, err)

	require.Len(t, cmp.Comparisons, 1)
	assert.Equal(t, "eastus", cmp.Comparisons[0].Region)
}

func TestCompareRegionsSkipsEmptyRegion(t *testing.T) {
	fake := &fakeCatalog{
		respond: func(q catalog.Query) (*catalog.Page, error) {
			if q.Region == "westeurope" {
				return &catalog.Page{}, nil
			}
			return pageOf(record("Virtual Machines", "D2s v3", q.Region, 0.096)), nil
		},
	}
	eng := newTestEngine(fake)

	cmp, err := eng.Compare(context.Background(), CompareRequest{
		ServiceName: "Virtual Machines",
		Regions:     []string{"eastus", "westeurope"},
	})
	require.NoError(t, err)
	require.Len(t, cmp.Comparisons, 1)
	assert.Equal(t, "eastus", cmp.Comparisons[0].Region)
}

func TestCompareSkusFirstPricePerSku(t *testing.T) {
	fake := &fakeCatalog{
		respond: func(q catalog.Query) (*catalog.Page, error) {
			return pageOf(
				record("Virtual Machines", "D2s v3", "eastus", 0.096),
				record("Virtual Machines", "D2s v3", "westus", 0.112),
				record("Virtual Machines", "B1s", "eastus", 0.0104),
				record("Virtual Machines", "F4s v2", "eastus", 0.169),
			), nil
		},
	}
	eng := newTestEngine(fake)

	cmp, err := eng.Compare(context.Background(), CompareRequest{
		ServiceName: "Virtual Machines",
	})
	require.NoError(t, err)

	assert.Equal(t, CompareSkus, cmp.ComparisonType)
	require.Len(t, cmp.Comparisons, 3)
	// Ascending by price, one entry per SKU, first price wins.
	assert.Equal(t, "B1s", cmp.Comparisons[0].SkuName)
	assert.Equal(t, "D2s v3", cmp.Comparisons[1].SkuName)
	assert.Equal(t, 0.096, cmp.Comparisons[1].RetailPrice)
	assert.Equal(t, "F4s v2", cmp.Comparisons[2].SkuName)
}

func TestCompareSkusPropagatesError(t *testing.T) {
	wantErr := errors.New("upstream down")
	fake := &fakeCatalog{
		respond: func(q catalog.Query) (*catalog.Page, error) { return nil, wantErr },
	}
	eng := newTestEngine(fake)

	_, err := eng.Compare(context.Background(), CompareRequest{ServiceName: "Virtual Machines"})
	assert.ErrorIs(t, err, wantErr)
}

func TestCompareCurrencyFallback(t *testing.T) {
	fake := &fakeCatalog{}
	eng := newTestEngine(fake)

	cmp, err := eng.Compare(context.Background(), CompareRequest{
		ServiceName:  "Virtual Machines",
		CurrencyCode: "EUR",
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", cmp.Currency)

	cmp, err = eng.Compare(context.Background(), CompareRequest{ServiceName: "Virtual Machines"})
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultCurrency, cmp.Currency)
}
