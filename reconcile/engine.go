// Package reconcile derives procurement and consumption state from the line
// item catalog and the two ledgers. Everything here is a pure function over
// its inputs: nothing is cached, nothing is persisted, and the same ledgers
// always produce the same view. Consumers (workflows, handlers, reports)
// must never store a Status field of their own; they recompute through this
// package so derived state cannot drift from the ledgers.
package reconcile

import (
	"github.com/shopspring/decimal"
)

// Status of a line item's purchase side, recomputed from the ledgers on
// every call. These are labels over derived values, not a state machine:
// deleting purchase records moves an item "backwards" naturally.
type Status string

const (
	StatusPending       Status = "pending"
	StatusInProgress    Status = "in_progress"
	StatusCompleted     Status = "completed"
	StatusOverPurchased Status = "over_purchased"
)

// epsilon absorbs accumulated rounding noise from successive sums when
// comparing purchased quantity against the estimate.
var epsilon = decimal.New(1, -4) // 1e-4

var hundred = decimal.NewFromInt(100)

// Item is the estimating baseline a line item is reconciled against.
type Item struct {
	EstimatedQty       decimal.Decimal
	EstimatedUnitPrice decimal.Decimal
}

// Purchase is one purchase ledger entry. Quantities are validated at the
// ledger-write boundary; this package treats them as well formed.
type Purchase struct {
	Qty       decimal.Decimal
	UnitPrice decimal.Decimal
}

// Usage is one consumption ledger entry.
type Usage struct {
	Qty decimal.Decimal
}

// ItemView is the derived per-item state. AvgPaidPriceDefined and
// UsagePercentDefined distinguish a true zero from an undefined ratio
// (zero denominator); callers render undefined as a dash, never as 0.
type ItemView struct {
	EstimatedQty       decimal.Decimal `json:"estimated_qty"`
	EstimatedUnitPrice decimal.Decimal `json:"estimated_unit_price"`
	EstimatedCost      decimal.Decimal `json:"estimated_cost"`

	PurchasedQty        decimal.Decimal `json:"purchased_qty"`
	Spend               decimal.Decimal `json:"spend"`
	AvgPaidPrice        decimal.Decimal `json:"avg_paid_price"`
	AvgPaidPriceDefined bool            `json:"avg_paid_price_defined"`
	PriceVariance       decimal.Decimal `json:"price_variance"`
	RemainingToPurchase decimal.Decimal `json:"remaining_to_purchase"`
	Status              Status          `json:"status"`
	ProgressPercent     decimal.Decimal `json:"progress_percent"`

	UsedQty             decimal.Decimal `json:"used_qty"`
	AvailableQty        decimal.Decimal `json:"available_qty"`
	RemainingAvailable  decimal.Decimal `json:"remaining_available"`
	UsagePercent        decimal.Decimal `json:"usage_percent"`
	UsagePercentDefined bool            `json:"usage_percent_defined"`
}

// Reconcile computes the derived view for one item. Total: it never fails
// for well-formed input, and malformed input (negative quantities) is
// rejected upstream at the ledger-write boundary.
func Reconcile(item Item, purchases []Purchase, usage []Usage) ItemView {
	view := ItemView{
		EstimatedQty:       item.EstimatedQty,
		EstimatedUnitPrice: item.EstimatedUnitPrice,
		EstimatedCost:      item.EstimatedQty.Mul(item.EstimatedUnitPrice),
	}

	for _, p := range purchases {
		view.PurchasedQty = view.PurchasedQty.Add(p.Qty)
		view.Spend = view.Spend.Add(p.Qty.Mul(p.UnitPrice))
	}
	for _, u := range usage {
		view.UsedQty = view.UsedQty.Add(u.Qty)
	}

	if view.PurchasedQty.GreaterThan(decimal.Zero) {
		view.AvgPaidPrice = view.Spend.Div(view.PurchasedQty)
		view.AvgPaidPriceDefined = true
		view.PriceVariance = view.AvgPaidPrice.Sub(item.EstimatedUnitPrice)
	}

	view.RemainingToPurchase = item.EstimatedQty.Sub(view.PurchasedQty)
	if view.RemainingToPurchase.IsNegative() {
		view.RemainingToPurchase = decimal.Zero
	}

	view.Status = deriveStatus(item.EstimatedQty, view.PurchasedQty)
	view.ProgressPercent = progressPercent(item.EstimatedQty, view.PurchasedQty)

	// An item tracked without purchase entry burns down against the
	// estimate instead of the (empty) purchase ledger.
	if len(purchases) > 0 {
		view.AvailableQty = view.PurchasedQty
	} else {
		view.AvailableQty = item.EstimatedQty
	}

	view.RemainingAvailable = view.AvailableQty.Sub(view.UsedQty)
	if view.RemainingAvailable.IsNegative() {
		view.RemainingAvailable = decimal.Zero
	}

	if view.AvailableQty.GreaterThan(decimal.Zero) {
		view.UsagePercent = view.UsedQty.Div(view.AvailableQty).Mul(hundred)
		view.UsagePercentDefined = true
	}

	return view
}

// deriveStatus applies the tie-break rules in priority order. The ordering
// matters: estimatedQty = 0 with any purchase is over_purchased, never
// completed.
func deriveStatus(estimatedQty, purchasedQty decimal.Decimal) Status {
	switch {
	case purchasedQty.LessThanOrEqual(epsilon):
		return StatusPending
	case purchasedQty.LessThan(estimatedQty.Sub(epsilon)):
		return StatusInProgress
	case purchasedQty.GreaterThanOrEqual(estimatedQty.Add(epsilon)):
		return StatusOverPurchased
	default:
		return StatusCompleted
	}
}

func progressPercent(estimatedQty, purchasedQty decimal.Decimal) decimal.Decimal {
	if !estimatedQty.GreaterThan(decimal.Zero) {
		return decimal.Zero
	}
	pct := purchasedQty.Div(estimatedQty).Mul(hundred)
	if pct.GreaterThan(hundred) {
		return hundred
	}
	return pct
}
