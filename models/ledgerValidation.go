package models

import (
	"github.com/buildbooks/buildbooks_backend/utils"
	"github.com/shopspring/decimal"
)

// Ledger-boundary validation. Malformed quantities are rejected here, before
// any write, so the reconciliation engine only ever sees well-formed ledgers.
// No silent clamping: a negative input is an error, not a zero.

func validateNewLineItem(input *NewLineItem) error {
	if input.EstimatedQty.IsNegative() {
		return utils.NewValidationError("estimated_qty", "must not be negative")
	}
	if input.EstimatedUnitPrice.IsNegative() {
		return utils.NewValidationError("estimated_unit_price", "must not be negative")
	}
	return nil
}

func validatePurchaseAmounts(quantity, unitPrice decimal.Decimal) error {
	if !quantity.GreaterThan(decimal.Zero) {
		return utils.NewValidationError("quantity", "must be greater than 0")
	}
	if !unitPrice.GreaterThan(decimal.Zero) {
		return utils.NewValidationError("unit_price", "must be greater than 0")
	}
	return nil
}

func validateUsageAmount(quantityUsed decimal.Decimal) error {
	if !quantityUsed.GreaterThan(decimal.Zero) {
		return utils.NewValidationError("quantity_used", "must be greater than 0")
	}
	return nil
}
