package engine

import (
	"context"
	"fmt"
	"strings"
)

// validateSkuFilter inspects the outcome of a skuName-filtered search and
// attaches a validation descriptor when the filter matched nothing or matched
// too broadly. The original items are never discarded.
func (e *Engine) validateSkuFilter(ctx context.Context, traceID string, req SearchRequest, res *SearchResult) {
	switch {
	case res.Count == 0:
		suggested := e.suggestSkus(ctx, traceID, req)
		res.Validation = &ValidationInfo{
			Status: ValidationSkuNotFound,
			Message: fmt.Sprintf("No SKUs matching %q found for service %q",
				req.SkuName, req.ServiceName),
			SuggestedSkus: suggested,
		}
	case res.Count > e.policy.AmbiguityThreshold:
		res.Validation = &ValidationInfo{
			Status: ValidationTooManyMatches,
			Message: fmt.Sprintf("%d SKUs matched %q; narrow the SKU filter",
				res.Count, req.SkuName),
			SuggestedSkus: firstSkuNames(res, e.policy.SuggestionCap),
		}
	}
}

// suggestSkus re-runs the search without the SKU filter and collects SKU
// names related to the requested one: substring in either direction, or any
// whitespace token of the request appearing in the SKU name. The re-query
// runs with validation and discount disabled, which is the recursion guard
// between search and validation. Upstream failures here degrade to an empty
// suggestion list rather than failing the original result.
func (e *Engine) suggestSkus(ctx context.Context, traceID string, req SearchRequest) []string {
	broad, err := e.search(ctx, traceID, SearchRequest{
		ServiceName:   req.ServiceName,
		ServiceFamily: req.ServiceFamily,
		Region:        req.Region,
		PriceType:     req.PriceType,
		CurrencyCode:  req.CurrencyCode,
		Limit:         e.policy.BroadSearchLimit,
	}, false)
	if err != nil {
		e.logger.Warn().
			Str("trace_id", traceID).
			Str("sku_name", req.SkuName).
			Err(err).
			Msg("sku suggestion search failed")
		return nil
	}

	want := strings.ToLower(req.SkuName)
	tokens := strings.Fields(want)
	seen := make(map[string]bool)
	var suggested []string

	for _, item := range broad.Items {
		if len(suggested) >= e.policy.SuggestionCap {
			break
		}
		name := strings.ToLower(item.SkuName)
		if seen[name] {
			continue
		}

		matched := strings.Contains(name, want) || strings.Contains(want, name)
		if !matched {
			for _, tok := range tokens {
				if strings.Contains(name, tok) {
					matched = true
					break
				}
			}
		}
		if matched {
			seen[name] = true
			suggested = append(suggested, item.SkuName)
		}
	}
	return suggested
}

// firstSkuNames lists the first n distinct SKU names of a result, for the
// too-many-matches clarification.
func firstSkuNames(res *SearchResult, n int) []string {
	seen := make(map[string]bool)
	var names []string
	for _, item := range res.Items {
		if len(names) >= n {
			break
		}
		if seen[item.SkuName] {
			continue
		}
		seen[item.SkuName] = true
		names = append(names, item.SkuName)
	}
	return names
}
