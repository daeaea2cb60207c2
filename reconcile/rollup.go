package reconcile

import "github.com/shopspring/decimal"

// ProjectRollup aggregates item views by summing each component field
// independently. Ratios are recomputed from the totals, never averaged
// across items.
type ProjectRollup struct {
	TotalEstimatedQty  decimal.Decimal `json:"total_estimated_qty"`
	TotalEstimatedCost decimal.Decimal `json:"total_estimated_cost"`
	TotalPurchasedQty  decimal.Decimal `json:"total_purchased_qty"`
	TotalSpend         decimal.Decimal `json:"total_spend"`
	TotalRemainingQty  decimal.Decimal `json:"total_remaining_qty"`
	TotalUsedQty       decimal.Decimal `json:"total_used_qty"`
	ProgressPercent    decimal.Decimal `json:"progress_percent"`
	ItemCount          int             `json:"item_count"`
	OverPurchasedCount int             `json:"over_purchased_count"`
	CompletedCount     int             `json:"completed_count"`
}

// Rollup sums the views. Progress is totalPurchased/totalEstimated clamped
// to 100, and 0 when nothing is estimated.
func Rollup(views []ItemView) ProjectRollup {
	var r ProjectRollup
	r.ItemCount = len(views)
	for _, v := range views {
		r.TotalEstimatedQty = r.TotalEstimatedQty.Add(v.EstimatedQty)
		r.TotalEstimatedCost = r.TotalEstimatedCost.Add(v.EstimatedCost)
		r.TotalPurchasedQty = r.TotalPurchasedQty.Add(v.PurchasedQty)
		r.TotalSpend = r.TotalSpend.Add(v.Spend)
		r.TotalRemainingQty = r.TotalRemainingQty.Add(v.RemainingToPurchase)
		r.TotalUsedQty = r.TotalUsedQty.Add(v.UsedQty)
		switch v.Status {
		case StatusOverPurchased:
			r.OverPurchasedCount++
		case StatusCompleted:
			r.CompletedCount++
		}
	}
	if r.TotalEstimatedQty.GreaterThan(decimal.Zero) {
		pct := r.TotalPurchasedQty.Div(r.TotalEstimatedQty).Mul(hundred)
		if pct.GreaterThan(hundred) {
			pct = hundred
		}
		r.ProgressPercent = pct
	}
	return r
}
