package reconcile

import "github.com/shopspring/decimal"

// DetectCrossing reports whether the remaining-available percent crossed
// DOWN through the threshold between two reconciliations. Edge-triggered:
// it fires on the transition only, never while the level simply stays below
// the threshold. The caller must seed prev from the pre-event state (the
// persisted alert marker, or a pre-event reconciliation), never from a zero
// default, otherwise an item created below threshold would alert on its
// first usage event.
func DetectCrossing(prev, cur, threshold decimal.Decimal) bool {
	return prev.GreaterThan(threshold) && cur.LessThanOrEqual(threshold)
}

// RemainingPercent computes remaining-available stock as a percent of
// available quantity. defined is false when availableQty is zero: the
// ratio has no value then and must not feed DetectCrossing (an undefined
// denominator never fires an alert).
func RemainingPercent(availableQty, usedQty decimal.Decimal) (pct decimal.Decimal, defined bool) {
	if !availableQty.GreaterThan(decimal.Zero) {
		return decimal.Zero, false
	}
	remaining := availableQty.Sub(usedQty)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return remaining.Div(availableQty).Mul(hundred), true
}
