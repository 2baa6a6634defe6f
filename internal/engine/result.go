package engine

import "github.com/costwise/azure-pricing/internal/catalog"

// MatchType tags how a search result was resolved, letting callers branch on
// the tag instead of inspecting shapes.
type MatchType string

const (
	// MatchExact means the caller's own filters produced the result.
	MatchExact MatchType = "exact"
	// MatchExactMapping means the service hint resolved through the alias
	// table to a canonical service name.
	MatchExactMapping MatchType = "exact_mapping"
	// MatchSuggestionsOnly means no tier produced items; only suggestions
	// (possibly none) are available.
	MatchSuggestionsOnly MatchType = "suggestions_only"
	// MatchNone is used by SKU discovery when resolution found nothing.
	MatchNone MatchType = "no_match"
)

// SearchResult is the engine's answer to one search. It is built fresh per
// call and never persisted.
type SearchResult struct {
	Items          []catalog.PriceRecord `json:"items"`
	Count          int                   `json:"count"`
	HasMore        bool                  `json:"has_more"`
	Currency       string                `json:"currency"`
	FiltersApplied []string              `json:"filters_applied"`

	// Fuzzy resolution metadata, set only when the resolver ran.
	MatchType      MatchType           `json:"match_type,omitempty"`
	SuggestionUsed string              `json:"suggestion_used,omitempty"`
	OriginalSearch string              `json:"original_search,omitempty"`
	Suggestions    []ServiceSuggestion `json:"suggestions,omitempty"`

	// Discount and validation descriptors, set by the respective pipelines.
	DiscountApplied *DiscountInfo   `json:"discount_applied,omitempty"`
	Validation      *ValidationInfo `json:"validation,omitempty"`
}

// ServiceSuggestion names a canonical service the caller may have meant,
// with a few sample records as evidence.
type ServiceSuggestion struct {
	ServiceName string                `json:"service_name"`
	MatchReason string                `json:"match_reason"`
	SampleItems []catalog.PriceRecord `json:"sample_items"`
}

// DiscountInfo describes a discount transform applied to a result.
type DiscountInfo struct {
	Percentage float64 `json:"percentage"`
	Note       string  `json:"note"`
}

// Validation outcome states.
const (
	// ValidationSkuNotFound: the skuName filter matched nothing; suggested
	// SKUs from the same service are attached.
	ValidationSkuNotFound = "sku_not_found"
	// ValidationTooManyMatches: the skuName filter matched more items than
	// the ambiguity threshold; a clarification is attached, items are kept.
	ValidationTooManyMatches = "too_many_matches"
)

// ValidationInfo is the outcome of the SKU filter validation pass.
type ValidationInfo struct {
	Status        string   `json:"status"`
	Message       string   `json:"message"`
	SuggestedSkus []string `json:"suggested_skus,omitempty"`
}

// normalizeResult builds a SearchResult from a raw catalog page: items are
// re-truncated to the requested limit even when the upstream honored $top,
// the count reflects the truncated list, and has_more mirrors the presence of
// a continuation link. Item contents are not touched.
func normalizeResult(page *catalog.Page, q catalog.Query) *SearchResult {
	items := page.Items
	if limit := q.EffectiveLimit(); len(items) > limit {
		items = items[:limit]
	}
	return &SearchResult{
		Items:          items,
		Count:          len(items),
		HasMore:        page.NextPageLink != "",
		Currency:       q.Currency(),
		FiltersApplied: q.FilterClauses(),
	}
}
