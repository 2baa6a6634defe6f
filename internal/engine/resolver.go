package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/costwise/azure-pricing/internal/catalog"
)

// Sub-query bounds of the fuzzy resolution cascade.
const (
	// tierTwoLimit bounds each candidate search during alias overlap matching.
	tierTwoLimit = 5
	// tierTwoSamples caps the sample items attached to an overlap suggestion.
	tierTwoSamples = 3
	// tierThreeLimit bounds each candidate re-query after the broad scan.
	tierThreeLimit = 3
	// tierThreeSamples caps the sample items attached to a containment
	// suggestion.
	tierThreeSamples = 2
)

// SearchFuzzy runs a structured search and, when the exact result is empty,
// resolves the service hint through a three-tier cascade:
//
//  1. exact alias lookup, re-running the full search under the canonical name
//  2. token overlap against the alias table, collecting service suggestions
//  3. a broad catalog scan for substring containment, re-querying matches
//
// The cascade stops at the first tier with a usable outcome. Each tier issues
// its own catalog queries; nothing is deduplicated across tiers.
func (e *Engine) SearchFuzzy(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	start := time.Now()
	traceID := uuid.New().String()

	res, err := e.search(ctx, traceID, req, true)
	if err != nil {
		e.logger.Error().
			Str("trace_id", traceID).
			Str("operation", "SearchFuzzy").
			Err(err).
			Msg("request failed")
		return nil, err
	}

	if res.Count > 0 || (req.ServiceName == "" && req.ServiceFamily == "") {
		e.logger.Info().
			Str("trace_id", traceID).
			Str("operation", "SearchFuzzy").
			Int("count", res.Count).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("search completed")
		return res, nil
	}

	res, err = e.resolveSimilar(ctx, traceID, req)
	if err != nil {
		e.logger.Error().
			Str("trace_id", traceID).
			Str("operation", "SearchFuzzy").
			Err(err).
			Msg("resolution failed")
		return nil, err
	}

	e.logger.Info().
		Str("trace_id", traceID).
		Str("operation", "SearchFuzzy").
		Str("match_type", string(res.MatchType)).
		Int("count", res.Count).
		Int("suggestions", len(res.Suggestions)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("fuzzy search completed")
	return res, nil
}

// resolveSimilar is the tier cascade proper, invoked only on an empty exact
// result. All sub-searches run with validation disabled so the resolver and
// the validation pipeline cannot re-enter each other.
func (e *Engine) resolveSimilar(ctx context.Context, traceID string, req SearchRequest) (*SearchResult, error) {
	term := strings.ToLower(req.ServiceName)

	// Tier 1: exact alias mapping.
	if canonical, ok := CanonicalService(term); ok {
		mapped := SearchRequest{
			ServiceName:  canonical,
			CurrencyCode: req.CurrencyCode,
			Limit:        req.Limit,
		}
		res, err := e.search(ctx, traceID, mapped, false)
		if err != nil {
			return nil, err
		}
		if res.Count > 0 {
			res.MatchType = MatchExactMapping
			res.SuggestionUsed = canonical
			res.OriginalSearch = req.ServiceName
			return res, nil
		}
	}

	// Tier 2: token overlap against the alias table.
	var suggestions []ServiceSuggestion
	for _, candidate := range aliasCandidates(term) {
		res, err := e.trySuggestion(ctx, traceID, candidate, req.CurrencyCode, tierTwoLimit)
		if err != nil || res == nil {
			continue
		}
		suggestions = append(suggestions, ServiceSuggestion{
			ServiceName: candidate,
			MatchReason: fmt.Sprintf("Partial match for '%s'", req.ServiceName),
			SampleItems: capItems(res.Items, tierTwoSamples),
		})
	}

	// Tier 3: broad containment scan, only when tier 2 found nothing.
	if len(suggestions) == 0 {
		broad, err := e.search(ctx, traceID, SearchRequest{
			ServiceFamily: req.ServiceFamily,
			CurrencyCode:  req.CurrencyCode,
			Limit:         e.policy.BroadSearchLimit,
		}, false)
		if err != nil {
			return nil, err
		}

		for _, service := range matchingServices(broad, term, e.policy.SuggestionCap) {
			res, err := e.trySuggestion(ctx, traceID, service, req.CurrencyCode, tierThreeLimit)
			if err != nil || res == nil {
				continue
			}
			suggestions = append(suggestions, ServiceSuggestion{
				ServiceName: service,
				MatchReason: fmt.Sprintf("Contains '%s'", term),
				SampleItems: capItems(res.Items, tierThreeSamples),
			})
		}
	}

	original := req.ServiceName
	if original == "" {
		original = req.ServiceFamily
	}
	return &SearchResult{
		Items:          []catalog.PriceRecord{},
		Count:          0,
		HasMore:        false,
		Currency:       req.query().Currency(),
		FiltersApplied: []string{},
		MatchType:      MatchSuggestionsOnly,
		OriginalSearch: original,
		Suggestions:    suggestions,
	}, nil
}

// trySuggestion runs a bounded search for a candidate service and returns the
// result when it has items. Upstream failures are logged and swallowed so one
// bad candidate cannot sink the cascade.
func (e *Engine) trySuggestion(ctx context.Context, traceID, service, currency string, limit int) (*SearchResult, error) {
	res, err := e.search(ctx, traceID, SearchRequest{
		ServiceName:  service,
		CurrencyCode: currency,
		Limit:        limit,
	}, false)
	if err != nil {
		e.logger.Warn().
			Str("trace_id", traceID).
			Str("service", service).
			Err(err).
			Msg("candidate search failed")
		return nil, err
	}
	if res.Count == 0 {
		return nil, nil
	}
	return res, nil
}

// capItems returns at most n leading items.
func capItems(items []catalog.PriceRecord, n int) []catalog.PriceRecord {
	if len(items) > n {
		return items[:n]
	}
	return items
}

// matchingServices scans a broad result for service names related to the
// term: the term appears in serviceName or productName, or any whitespace
// token of the term appears in serviceName. Services are returned in
// first-seen order, capped at max.
func matchingServices(res *SearchResult, term string, max int) []string {
	tokens := strings.Fields(term)
	seen := make(map[string]bool)
	var services []string
	for _, item := range res.Items {
		if len(services) >= max {
			break
		}
		service := strings.ToLower(item.ServiceName)
		product := strings.ToLower(item.ProductName)

		matched := strings.Contains(service, term) || strings.Contains(product, term)
		if !matched {
			for _, tok := range tokens {
				if strings.Contains(service, tok) {
					matched = true
					break
				}
			}
		}
		if matched && !seen[item.ServiceName] {
			seen[item.ServiceName] = true
			services = append(services, item.ServiceName)
		}
	}
	return services
}
