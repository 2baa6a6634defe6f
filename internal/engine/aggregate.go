package engine

import (
	"sort"

	"github.com/costwise/azure-pricing/internal/catalog"
)

// PriceSample is one observed (price, unit, region) triple for a SKU.
type PriceSample struct {
	Price  float64 `json:"price"`
	Unit   string  `json:"unit"`
	Region string  `json:"region"`
}

// SkuAggregate folds every price record of one SKU into a single entry:
// distinct regions, all observed samples, and the minimum observed price.
type SkuAggregate struct {
	SkuName     string        `json:"sku_name"`
	ArmSkuName  string        `json:"arm_sku_name,omitempty"`
	ProductName string        `json:"product_name"`
	Regions     []string      `json:"regions"`
	Prices      []PriceSample `json:"prices"`

	// MinPrice is the minimum of samples with price > 0, or the first
	// sample's price when no sample is positive. Zero-priced meters (free
	// tiers) are excluded unless they are all there is.
	MinPrice float64 `json:"min_price"`

	// SampleUnit is the unit of measure of the first sample.
	SampleUnit string `json:"sample_unit"`
}

// AggregateSkus groups price records by skuName in first-seen order. The
// first occurrence seeds the aggregate's product and ARM SKU names; every
// occurrence contributes a price sample and its region (regions are
// deduplicated).
func AggregateSkus(items []catalog.PriceRecord) []*SkuAggregate {
	byName := make(map[string]*SkuAggregate)
	var order []*SkuAggregate

	for _, item := range items {
		agg, ok := byName[item.SkuName]
		if !ok {
			agg = &SkuAggregate{
				SkuName:     item.SkuName,
				ArmSkuName:  item.ArmSkuName,
				ProductName: item.ProductName,
			}
			byName[item.SkuName] = agg
			order = append(order, agg)
		}

		agg.Prices = append(agg.Prices, PriceSample{
			Price:  item.RetailPrice,
			Unit:   item.UnitOfMeasure,
			Region: item.ArmRegionName,
		})
		if item.ArmRegionName != "" && !containsString(agg.Regions, item.ArmRegionName) {
			agg.Regions = append(agg.Regions, item.ArmRegionName)
		}
	}

	for _, agg := range order {
		agg.MinPrice = minSamplePrice(agg.Prices)
		if len(agg.Prices) > 0 {
			agg.SampleUnit = agg.Prices[0].Unit
		}
	}
	return order
}

// SortBySkuName orders aggregates alphabetically, for the list-form outputs.
func SortBySkuName(aggs []*SkuAggregate) {
	sort.Slice(aggs, func(i, j int) bool {
		return aggs[i].SkuName < aggs[j].SkuName
	})
}

// minSamplePrice applies the minimum-price policy: positive samples only,
// falling back to the first sample's price when none are positive.
func minSamplePrice(samples []PriceSample) float64 {
	min := 0.0
	found := false
	for _, s := range samples {
		if s.Price <= 0 {
			continue
		}
		if !found || s.Price < min {
			min = s.Price
			found = true
		}
	}
	if found {
		return min
	}
	if len(samples) > 0 {
		return samples[0].Price
	}
	return 0
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
