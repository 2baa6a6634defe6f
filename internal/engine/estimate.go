package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	// estimateLookupLimit bounds the pricing lookup behind a cost estimate;
	// only the first matching record is used.
	estimateLookupLimit = 5
	// moneyScale is the rounding precision for derived cost figures.
	moneyScale = 2
	// avgDaysPerMonth converts a monthly hour budget to hours per day.
	avgDaysPerMonth = 30.44
)

// EstimateRequest identifies a single priced SKU and the usage assumption to
// cost it under.
type EstimateRequest struct {
	ServiceName string
	SkuName     string
	Region      string

	// HoursPerMonth defaults to the policy's value (730, a full month).
	HoursPerMonth   float64
	CurrencyCode    string
	DiscountPercent float64
}

// CostFigures holds the derived cost of one rate under the usage assumption.
type CostFigures struct {
	HourlyRate  float64 `json:"hourly_rate"`
	DailyCost   float64 `json:"daily_cost"`
	MonthlyCost float64 `json:"monthly_cost"`
	YearlyCost  float64 `json:"yearly_cost"`
}

// SavingsPlanEstimate compares one commitment plan against on-demand pricing.
type SavingsPlanEstimate struct {
	Term string `json:"term"`
	CostFigures

	// SavingsPercent is (onDemand − plan) / onDemand × 100, or 0 when the
	// on-demand rate is itself 0.
	SavingsPercent float64 `json:"savings_percent"`
	// AnnualSavings is the yearly on-demand cost minus the yearly plan cost.
	AnnualSavings float64 `json:"annual_savings"`
}

// UsageAssumptions echoes the usage the estimate was computed under.
type UsageAssumptions struct {
	HoursPerMonth float64 `json:"hours_per_month"`
	HoursPerDay   float64 `json:"hours_per_day"`
}

// CostEstimate is the result of one estimate call. Found is false when no
// record matched the service/SKU/region triple; Message then names all three
// inputs. A miss is data, not an error.
type CostEstimate struct {
	Found   bool   `json:"found"`
	Message string `json:"message,omitempty"`

	ServiceName   string `json:"service_name"`
	SkuName       string `json:"sku_name,omitempty"`
	Region        string `json:"region"`
	ProductName   string `json:"product_name,omitempty"`
	UnitOfMeasure string `json:"unit_of_measure,omitempty"`
	Currency      string `json:"currency"`

	OnDemand     CostFigures           `json:"on_demand_pricing"`
	Usage        UsageAssumptions      `json:"usage_assumptions"`
	SavingsPlans []SavingsPlanEstimate `json:"savings_plans,omitempty"`
}

// Estimate derives daily, monthly and yearly cost figures for a single SKU
// from its hourly retail price, and the equivalent figures for every savings
// plan attached to the record.
func (e *Engine) Estimate(ctx context.Context, req EstimateRequest) (*CostEstimate, error) {
	start := time.Now()
	traceID := uuid.New().String()

	hours := req.HoursPerMonth
	if hours <= 0 {
		hours = e.policy.HoursPerMonth
	}

	res, err := e.search(ctx, traceID, SearchRequest{
		ServiceName:     req.ServiceName,
		SkuName:         req.SkuName,
		Region:          req.Region,
		CurrencyCode:    req.CurrencyCode,
		Limit:           estimateLookupLimit,
		DiscountPercent: req.DiscountPercent,
	}, false)
	if err != nil {
		e.logger.Error().
			Str("trace_id", traceID).
			Str("operation", "Estimate").
			Err(err).
			Msg("request failed")
		return nil, err
	}

	if res.Count == 0 {
		e.logger.Info().
			Str("trace_id", traceID).
			Str("operation", "Estimate").
			Str("service_name", req.ServiceName).
			Str("sku_name", req.SkuName).
			Str("region", req.Region).
			Int64("duration_ms", time.Since(start).Milliseconds()).
			Msg("no pricing found")
		return &CostEstimate{
			Found: false,
			Message: fmt.Sprintf("no pricing found for service %q, SKU %q in region %q",
				req.ServiceName, req.SkuName, req.Region),
			ServiceName: req.ServiceName,
			SkuName:     req.SkuName,
			Region:      req.Region,
			Currency:    res.Currency,
		}, nil
	}

	item := res.Items[0]
	onDemand := deriveFigures(item.RetailPrice, hours)

	estimate := &CostEstimate{
		Found:         true,
		ServiceName:   req.ServiceName,
		SkuName:       item.SkuName,
		Region:        req.Region,
		ProductName:   item.ProductName,
		UnitOfMeasure: item.UnitOfMeasure,
		Currency:      res.Currency,
		OnDemand:      onDemand,
		Usage: UsageAssumptions{
			HoursPerMonth: hours,
			HoursPerDay:   roundTo(hours/avgDaysPerMonth, moneyScale),
		},
	}

	for _, plan := range item.SavingsPlan {
		figures := deriveFigures(plan.RetailPrice, hours)
		savingsPercent := 0.0
		if item.RetailPrice > 0 {
			savingsPercent = roundTo((item.RetailPrice-plan.RetailPrice)/item.RetailPrice*100, moneyScale)
		}
		estimate.SavingsPlans = append(estimate.SavingsPlans, SavingsPlanEstimate{
			Term:           plan.Term,
			CostFigures:    figures,
			SavingsPercent: savingsPercent,
			AnnualSavings:  roundTo(onDemand.YearlyCost-figures.YearlyCost, moneyScale),
		})
	}

	e.logger.Info().
		Str("trace_id", traceID).
		Str("operation", "Estimate").
		Str("sku_name", estimate.SkuName).
		Float64("cost_monthly", estimate.OnDemand.MonthlyCost).
		Int("savings_plans", len(estimate.SavingsPlans)).
		Int64("duration_ms", time.Since(start).Milliseconds()).
		Msg("cost estimated")
	return estimate, nil
}

// deriveFigures computes daily/monthly/yearly cost from an hourly rate:
// daily = hourly × 24, monthly = hourly × hours, yearly = monthly × 12. The
// arithmetic runs unrounded in decimal; money figures round to 2 decimals,
// the rate itself to 6.
func deriveFigures(hourly, hoursPerMonth float64) CostFigures {
	rate := decimal.NewFromFloat(hourly)
	monthly := rate.Mul(decimal.NewFromFloat(hoursPerMonth))
	return CostFigures{
		HourlyRate:  rate.Round(priceScale).InexactFloat64(),
		DailyCost:   rate.Mul(decimal.NewFromInt(24)).Round(moneyScale).InexactFloat64(),
		MonthlyCost: monthly.Round(moneyScale).InexactFloat64(),
		YearlyCost:  monthly.Mul(decimal.NewFromInt(12)).Round(moneyScale).InexactFloat64(),
	}
}

// roundTo rounds v to the given number of decimal places.
func roundTo(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
