package engine

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// priceScale is the rounding precision for discounted unit prices.
const priceScale = 6

// applyDiscount rewrites every retail price in the result, and every nested
// savings plan price, to price × (1 − pct/100) rounded to six decimal places.
// The pre-discount value is preserved on each record. A descriptor naming the
// percentage is attached to the result.
//
// Percentages outside (0, 100) are ignored: a non-positive discount means "no
// discount", and a discount of 100% or more is nonsensical for pricing
// output. Neither is an error.
func (e *Engine) applyDiscount(res *SearchResult, pct float64) {
	if pct <= 0 || pct >= 100 {
		e.logger.Debug().Float64("percentage", pct).Msg("discount out of range, ignored")
		return
	}

	for i := range res.Items {
		item := &res.Items[i]
		item.OriginalRetailPrice = item.RetailPrice
		item.RetailPrice = discountPrice(item.RetailPrice, pct)

		for j := range item.SavingsPlan {
			plan := &item.SavingsPlan[j]
			plan.OriginalRetailPrice = plan.RetailPrice
			plan.RetailPrice = discountPrice(plan.RetailPrice, pct)
		}
	}

	res.DiscountApplied = &DiscountInfo{
		Percentage: pct,
		Note:       fmt.Sprintf("All prices reflect a %.4g%% discount", pct),
	}
}

// discountPrice returns price × (1 − pct/100) rounded to priceScale decimals.
// Computed in decimal arithmetic so repeated transforms stay stable.
func discountPrice(price, pct float64) float64 {
	factor := decimal.NewFromInt(1).Sub(decimal.NewFromFloat(pct).Div(decimal.NewFromInt(100)))
	return decimal.NewFromFloat(price).Mul(factor).Round(priceScale).InexactFloat64()
}
