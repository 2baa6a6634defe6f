package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// resolveLimit is the default lookup bound for hint-driven SKU discovery.
const resolveLimit = 30

// DiscoverRequest asks for the deduplicated SKU catalog of one service.
type DiscoverRequest struct {
	ServiceName string
	Region      string
	// PriceType defaults to "Consumption".
	PriceType    string
	CurrencyCode string
	// Limit bounds the underlying search; defaults to the policy's broad
	// search limit.
	Limit int
}

// SkuCatalog is the list-form discovery result, sorted by SKU name.
type SkuCatalog struct {
	ServiceName  string          `json:"service_name"`
	Skus         []*SkuAggregate `json:"skus"`
	TotalSkus    int             `json:"total_skus"`
	PriceType    string          `json:"price_type"`
	RegionFilter string          `json:"region_filter,omitempty"`
}

// DiscoverSkus lists the distinct SKUs of a service, one aggregate per SKU,
// sorted alphabetically.
func (e *Engine) DiscoverSkus(ctx context.Context, req DiscoverRequest) (*SkuCatalog, error) {
	start := time.Now()
	traceID := uuid.New().String()

	priceType := req.PriceType
	if priceType == "" {
		priceType = "Consumption"
	}
	limit := req.Limit
	if limit <= 0 {
		limit = e.policy.BroadSearchLimit
	}

	res, err := e.search(ctx, traceID, SearchRequest{
		ServiceName:  req.ServiceName,
		Region:       req.Region,
		PriceType:    priceType,
		CurrencyCode: req.CurrencyCode,
		Limit:        limit,
	}, false)
	if err != nil {
		e.logger.Error().
			Str("trace_id", traceID).
			Str("operation", "DiscoverSkus").
			Err(err).
			Msg("request failed")
		return nil, err
	}

	skus := AggregateSkus(res.Items)
	SortBySkuName(skus)

	e.logger.Info().
		Str("trace_id", traceID).
		Str("operation", "DiscoverSkus").
		Str("service_name", req.ServiceName).
		Int("total_skus", len(skus)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("skus discovered")

	return &SkuCatalog{
		ServiceName:  req.ServiceName,
		Skus:         skus,
		TotalSkus:    len(skus),
		PriceType:    priceType,
		RegionFilter: req.Region,
	}, nil
}

// ResolveRequest asks for SKU discovery from a free-text service hint.
type ResolveRequest struct {
	ServiceHint  string
	Region       string
	CurrencyCode string
	Limit        int
}

// ServiceSkuDiscovery is the result of hint-driven discovery: either a map of
// SKU aggregates for the resolved service, or suggestions when no service
// matched.
type ServiceSkuDiscovery struct {
	ServiceFound   string                   `json:"service_found,omitempty"`
	OriginalSearch string                   `json:"original_search"`
	Skus           map[string]*SkuAggregate `json:"skus"`
	TotalSkus      int                      `json:"total_skus"`
	Currency       string                   `json:"currency"`
	MatchType      MatchType                `json:"match_type"`
	Suggestions    []ServiceSuggestion      `json:"suggestions,omitempty"`
}

// ResolveSkus resolves a free-text service hint through the fuzzy cascade and
// aggregates the resulting records into one entry per SKU.
func (e *Engine) ResolveSkus(ctx context.Context, req ResolveRequest) (*ServiceSkuDiscovery, error) {
	start := time.Now()
	traceID := uuid.New().String()

	limit := req.Limit
	if limit <= 0 {
		limit = resolveLimit
	}

	res, err := e.SearchFuzzy(ctx, SearchRequest{
		ServiceName:  req.ServiceHint,
		Region:       req.Region,
		CurrencyCode: req.CurrencyCode,
		Limit:        limit,
	})
	if err != nil {
		e.logger.Error().
			Str("trace_id", traceID).
			Str("operation", "ResolveSkus").
			Err(err).
			Msg("request failed")
		return nil, err
	}

	if res.Count == 0 {
		return &ServiceSkuDiscovery{
			OriginalSearch: req.ServiceHint,
			Skus:           map[string]*SkuAggregate{},
			Currency:       res.Currency,
			MatchType:      MatchNone,
			Suggestions:    res.Suggestions,
		}, nil
	}

	serviceFound := res.SuggestionUsed
	if serviceFound == "" {
		serviceFound = req.ServiceHint
	}
	matchType := res.MatchType
	if matchType == "" {
		matchType = MatchExact
	}

	byName := make(map[string]*SkuAggregate)
	for _, agg := range AggregateSkus(res.Items) {
		byName[agg.SkuName] = agg
	}

	e.logger.Info().
		Str("trace_id", traceID).
		Str("operation", "ResolveSkus").
		Str("service_found", serviceFound).
		Str("match_type", string(matchType)).
		Int("total_skus", len(byName)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("skus resolved")

	return &ServiceSkuDiscovery{
		ServiceFound:   serviceFound,
		OriginalSearch: req.ServiceHint,
		Skus:           byName,
		TotalSkus:      len(byName),
		Currency:       res.Currency,
		MatchType:      matchType,
	}, nil
}
