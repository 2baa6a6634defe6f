package engine

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/costwise/azure-pricing/internal/catalog"
)

// Comparison modes.
const (
	CompareRegions = "regions"
	CompareSkus    = "skus"
)

// Per-mode lookup bounds.
const (
	regionCompareLimit = 10
	skuCompareLimit    = 20
)

// CompareRequest asks for a ranked price comparison for one service, either
// across the named regions or across the service's SKUs.
//
// The two modes are mutually exclusive: when Regions is non-empty the
// comparison is region-by-region (SkuName narrows each lookup); otherwise
// SKUs are compared and SkuName is ignored. Requesting both at once is not
// supported.
type CompareRequest struct {
	ServiceName  string
	SkuName      string
	Regions      []string
	CurrencyCode string

	DiscountPercent float64
}

// ComparisonEntry is one row of a price comparison.
type ComparisonEntry struct {
	Region        string  `json:"region,omitempty"`
	SkuName       string  `json:"sku_name"`
	RetailPrice   float64 `json:"retail_price"`
	UnitOfMeasure string  `json:"unit_of_measure"`
	ProductName   string  `json:"product_name"`
	MeterName     string  `json:"meter_name,omitempty"`
}

// PriceComparison is a ranked comparison list, cheapest first.
type PriceComparison struct {
	Comparisons    []ComparisonEntry `json:"comparisons"`
	ServiceName    string            `json:"service_name"`
	Currency       string            `json:"currency"`
	ComparisonType string            `json:"comparison_type"`
}

// Compare prices one service across regions or across SKUs and returns the
// entries sorted ascending by price. Region lookups that fail upstream are
// logged and skipped so one unavailable region cannot sink the comparison.
func (e *Engine) Compare(ctx context.Context, req CompareRequest) (*PriceComparison, error) {
	start := time.Now()
	traceID := uuid.New().String()

	var (
		entries []ComparisonEntry
		mode    string
		err     error
	)
	if len(req.Regions) > 0 {
		mode = CompareRegions
		entries = e.compareRegions(ctx, traceID, req)
	} else {
		mode = CompareSkus
		entries, err = e.compareSkus(ctx, traceID, req)
		if err != nil {
			e.logger.Error().
				Str("trace_id", traceID).
				Str("operation", "Compare").
				Err(err).
				Msg("request failed")
			return nil, err
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RetailPrice < entries[j].RetailPrice
	})

	currency := req.CurrencyCode
	if currency == "" {
		currency = catalog.DefaultCurrency
	}

	e.logger.Info().
		Str("trace_id", traceID).
		Str("operation", "Compare").
		Str("comparison_type", mode).
		Int("entries", len(entries)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("comparison completed")

	return &PriceComparison{
		Comparisons:    entries,
		ServiceName:    req.ServiceName,
		Currency:       currency,
		ComparisonType: mode,
	}, nil
}

// compareRegions looks up the first matching record per region.
func (e *Engine) compareRegions(ctx context.Context, traceID string, req CompareRequest) []ComparisonEntry {
	var entries []ComparisonEntry
	for _, region := range req.Regions {
		res, err := e.search(ctx, traceID, SearchRequest{
			ServiceName:     req.ServiceName,
			SkuName:         req.SkuName,
			Region:          region,
			CurrencyCode:    req.CurrencyCode,
			Limit:           regionCompareLimit,
			DiscountPercent: req.DiscountPercent,
		}, false)
		if err != nil {
			e.logger.Warn().
				Str("trace_id", traceID).
				Str("region", region).
				Err(err).
				Msg("region lookup failed, skipping")
			continue
		}
		if res.Count == 0 {
			continue
		}

		item := res.Items[0]
		entries = append(entries, ComparisonEntry{
			Region:        region,
			SkuName:       item.SkuName,
			RetailPrice:   item.RetailPrice,
			UnitOfMeasure: item.UnitOfMeasure,
			ProductName:   item.ProductName,
			MeterName:     item.MeterName,
		})
	}
	return entries
}

// compareSkus takes the first observed price per distinct SKU of the service.
func (e *Engine) compareSkus(ctx context.Context, traceID string, req CompareRequest) ([]ComparisonEntry, error) {
	res, err := e.search(ctx, traceID, SearchRequest{
		ServiceName:     req.ServiceName,
		CurrencyCode:    req.CurrencyCode,
		Limit:           skuCompareLimit,
		DiscountPercent: req.DiscountPercent,
	}, false)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var entries []ComparisonEntry
	for _, item := range res.Items {
		if item.SkuName == "" || seen[item.SkuName] {
			continue
		}
		seen[item.SkuName] = true
		entries = append(entries, ComparisonEntry{
			Region:        item.ArmRegionName,
			SkuName:       item.SkuName,
			RetailPrice:   item.RetailPrice,
			UnitOfMeasure: item.UnitOfMeasure,
			ProductName:   item.ProductName,
			MeterName:     item.MeterName,
		})
	}
	return entries, nil
}
