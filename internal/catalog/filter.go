package catalog

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// Filter expression operators understood by the retail prices API.
const (
	// OperatorEq matches a field exactly: serviceName eq 'Virtual Machines'.
	OperatorEq = "eq"
	// OperatorContains matches a substring: contains(skuName, 'D2').
	OperatorContains = "contains"
)

// Predicate is one clause of a catalog filter expression.
type Predicate struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// String renders the predicate in the catalog's filter syntax.
func (p Predicate) String() string {
	if p.Operator == OperatorContains {
		return fmt.Sprintf("contains(%s, '%s')", p.Field, p.Value)
	}
	return fmt.Sprintf("%s %s '%s'", p.Field, p.Operator, p.Value)
}

// Query describes one structured search against the retail price catalog.
// All filter fields are optional; absent fields are simply omitted from the
// filter expression.
type Query struct {
	ServiceName   string
	ServiceFamily string
	Region        string
	SkuName       string // substring match
	PriceType     string
	CurrencyCode  string // defaults to DefaultCurrency when empty
	Limit         int    // defaults to DefaultLimit when <= 0
}

// Currency returns the effective currency code for the query.
func (q Query) Currency() string {
	if q.CurrencyCode == "" {
		return DefaultCurrency
	}
	return q.CurrencyCode
}

// EffectiveLimit returns the result cap the caller asked for.
func (q Query) EffectiveLimit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

// Predicates returns the filter clauses for the query in the fixed order
// {serviceName, serviceFamily, armRegionName, skuName, priceType}. The order
// is part of the contract: it keeps query strings reproducible across runs.
func (q Query) Predicates() []Predicate {
	var preds []Predicate
	if q.ServiceName != "" {
		preds = append(preds, Predicate{Field: "serviceName", Operator: OperatorEq, Value: q.ServiceName})
	}
	if q.ServiceFamily != "" {
		preds = append(preds, Predicate{Field: "serviceFamily", Operator: OperatorEq, Value: q.ServiceFamily})
	}
	if q.Region != "" {
		preds = append(preds, Predicate{Field: "armRegionName", Operator: OperatorEq, Value: q.Region})
	}
	if q.SkuName != "" {
		preds = append(preds, Predicate{Field: "skuName", Operator: OperatorContains, Value: q.SkuName})
	}
	if q.PriceType != "" {
		preds = append(preds, Predicate{Field: "priceType", Operator: OperatorEq, Value: q.PriceType})
	}
	return preds
}

// FilterClauses returns the rendered clause strings, one per predicate.
// Surfaced on search results so callers can see which filters applied.
func (q Query) FilterClauses() []string {
	preds := q.Predicates()
	clauses := make([]string, 0, len(preds))
	for _, p := range preds {
		clauses = append(clauses, p.String())
	}
	return clauses
}

// BuildFilter joins the predicates into a single filter expression.
// Returns the empty string when no predicate is present.
func BuildFilter(preds []Predicate) string {
	if len(preds) == 0 {
		return ""
	}
	clauses := make([]string, 0, len(preds))
	for _, p := range preds {
		clauses = append(clauses, p.String())
	}
	return strings.Join(clauses, " and ")
}

// Params returns the request query parameters for the query: the fixed
// api-version, the currency code, the filter expression when any predicate is
// present, and $top when the limit is below the upstream hard cap.
func (q Query) Params() url.Values {
	params := url.Values{}
	params.Set("api-version", APIVersion)
	params.Set("currencyCode", q.Currency())

	if filter := BuildFilter(q.Predicates()); filter != "" {
		params.Set("$filter", filter)
	}

	if limit := q.EffectiveLimit(); limit < MaxPageSize {
		params.Set("$top", strconv.Itoa(limit))
	}
	return params
}
