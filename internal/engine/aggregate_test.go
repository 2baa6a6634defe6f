package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/costwise/azure-pricing/internal/catalog"
)

func TestAggregateSkus(t *testing.T) {
	items := []catalog.PriceRecord{
		record("Virtual Machines", "D2s v3", "eastus", 0.096),
		record("Virtual Machines", "B1s", "eastus", 0.0104),
		record("Virtual Machines", "D2s v3", "westus", 0.112),
		record("Virtual Machines", "D2s v3", "eastus", 0.099),
	}

	aggs := AggregateSkus(items)
	require.Len(t, aggs, 2)

	// First-seen order.
	d2s := aggs[0]
	assert.Equal(t, "D2s v3", d2s.SkuName)
	assert.Equal(t, []string{"eastus", "westus"}, d2s.Regions)
	assert.Len(t, d2s.Prices, 3)
	assert.Equal(t, 0.096, d2s.MinPrice)
	assert.Equal(t, "1 Hour", d2s.SampleUnit)

	b1s := aggs[1]
	assert.Equal(t, "B1s", b1s.SkuName)
	assert.Equal(t, []string{"eastus"}, b1s.Regions)
	assert.Equal(t, 0.0104, b1s.MinPrice)
}

func TestAggregateSkusMinPriceSkipsZero(t *testing.T) {
	items := []catalog.PriceRecord{
		record("Storage", "Hot LRS", "eastus", 0),
		record("Storage", "Hot LRS", "westus", 0.096),
	}

	aggs := AggregateSkus(items)
	require.Len(t, aggs, 1)
	assert.Equal(t, 0.096, aggs[0].MinPrice)
}

func TestAggregateSkusMinPriceAllZero(t *testing.T) {
	items := []catalog.PriceRecord{
		record("Storage", "Free Tier", "eastus", 0),
		record("Storage", "Free Tier", "westus", 0),
	}

	aggs := AggregateSkus(items)
	require.Len(t, aggs, 1)
	assert.Zero(t, aggs[0].MinPrice)
}

func TestAggregateSkusEmpty(t *testing.T) {
	assert.Empty(t, AggregateSkus(nil))
}

func TestSortBySkuName(t *testing.T) {
	aggs := []*SkuAggregate{
		{SkuName: "D2s v3"},
		{SkuName: "B1s"},
		{SkuName: "F4s v2"},
	}

	SortBySkuName(aggs)

	assert.Equal(t, "B1s", aggs[0].SkuName)
	assert.Equal(t, "D2s v3", aggs[1].SkuName)
	assert.Equal(t, "F4s v2", aggs[2].SkuName)
}
