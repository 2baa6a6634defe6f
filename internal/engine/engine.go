// Package engine implements the pricing query and resolution pipeline:
// structured search, fuzzy service-name resolution, SKU aggregation, discount
// and validation transforms, cost estimation, and price comparison over the
// Azure retail price catalog.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/costwise/azure-pricing/internal/catalog"
)

// Catalog is the subset of the catalog client the engine depends on.
type Catalog interface {
	Fetch(ctx context.Context, q catalog.Query) (*catalog.Page, error)
}

// Policy holds the tunable constants of the resolution pipeline. The
// thresholds are policy, not invariants; defaults match the documented
// behavior.
type Policy struct {
	// AmbiguityThreshold is the item count above which a skuName-filtered
	// search is flagged as over-broad.
	AmbiguityThreshold int
	// SuggestionCap bounds suggestion lists (services and SKUs alike).
	SuggestionCap int
	// BroadSearchLimit is the page size of the tier-3 unfiltered scan and of
	// the SKU-suggestion re-query.
	BroadSearchLimit int
	// HoursPerMonth is the default usage assumption for cost estimates.
	HoursPerMonth float64
}

// DefaultPolicy returns the standard pipeline policy.
func DefaultPolicy() Policy {
	return Policy{
		AmbiguityThreshold: 10,
		SuggestionCap:      5,
		BroadSearchLimit:   100,
		HoursPerMonth:      730,
	}
}

// Engine answers pricing questions against one catalog client. An Engine is
// cheap and stateless; create one per top-level invocation alongside the
// catalog client it wraps.
type Engine struct {
	catalog Catalog
	logger  zerolog.Logger
	policy  Policy
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithPolicy overrides the default pipeline policy.
func WithPolicy(p Policy) EngineOption {
	return func(e *Engine) { e.policy = p }
}

// New creates an Engine over the given catalog.
func New(c Catalog, logger zerolog.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog: c,
		logger:  logger,
		policy:  DefaultPolicy(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SearchRequest carries the parameters of a structured price search.
type SearchRequest struct {
	ServiceName   string
	ServiceFamily string
	Region        string
	SkuName       string // substring match
	PriceType     string
	CurrencyCode  string
	Limit         int

	// DiscountPercent applies a percentage discount transform to every price
	// in the result. Values outside (0, 100) are ignored.
	DiscountPercent float64
}

func (r SearchRequest) query() catalog.Query {
	return catalog.Query{
		ServiceName:   r.ServiceName,
		ServiceFamily: r.ServiceFamily,
		Region:        r.Region,
		SkuName:       r.SkuName,
		PriceType:     r.PriceType,
		CurrencyCode:  r.CurrencyCode,
		Limit:         r.Limit,
	}
}

// Search runs one structured search: filter build, fetch, normalization,
// then the discount and validation pipelines.
func (e *Engine) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	start := time.Now()
	traceID := uuid.New().String()

	res, err := e.search(ctx, traceID, req, true)
	if err != nil {
		e.logger.Error().
			Str("trace_id", traceID).
			Str("operation", "Search").
			Err(err).
			Msg("request failed")
		return nil, err
	}

	e.logger.Info().
		Str("trace_id", traceID).
		Str("operation", "Search").
		Int("count", res.Count).
		Bool("has_more", res.HasMore).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("search completed")
	return res, nil
}

// search is the shared pipeline core. validate gates the SKU validation pass;
// the validation re-query and all resolver sub-queries run with it disabled,
// which is what keeps search and validation from recursing into each other.
func (e *Engine) search(ctx context.Context, traceID string, req SearchRequest, validate bool) (*SearchResult, error) {
	q := req.query()
	page, err := e.catalog.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}

	res := normalizeResult(page, q)

	if req.DiscountPercent > 0 {
		e.applyDiscount(res, req.DiscountPercent)
	}
	if validate && req.SkuName != "" {
		e.validateSkuFilter(ctx, traceID, req, res)
	}
	return res, nil
}
