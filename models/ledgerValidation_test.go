package models

import (
	"testing"

	"github.com/shopspring/decimal"

	"github.com/buildbooks/buildbooks_backend/utils"
)

func TestValidateNewLineItemRejectsNegativeBaseline(t *testing.T) {
	cases := []struct {
		name  string
		input NewLineItem
		valid bool
	}{
		{"valid", NewLineItem{Name: "Cement", EstimatedQty: decimal.NewFromInt(100), EstimatedUnitPrice: decimal.NewFromInt(10)}, true},
		{"zero baseline", NewLineItem{Name: "Cement"}, true},
		{"negative qty", NewLineItem{Name: "Cement", EstimatedQty: decimal.NewFromInt(-1)}, false},
		{"negative price", NewLineItem{Name: "Cement", EstimatedUnitPrice: decimal.NewFromInt(-1)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := validateNewLineItem(&tc.input)
			if tc.valid && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.valid {
				if err == nil {
					t.Fatal("expected validation error")
				}
				if !utils.IsValidationError(err) {
					t.Fatalf("expected ValidationError, got %T", err)
				}
			}
		})
	}
}

func TestValidatePurchaseAmountsRequiresPositiveValues(t *testing.T) {
	cases := []struct {
		name  string
		qty   string
		price string
		valid bool
	}{
		{"valid", "10", "5", true},
		{"zero qty", "0", "5", false},
		{"negative qty", "-10", "5", false},
		{"zero price", "10", "0", false},
		{"negative price", "10", "-5", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			qty, _ := decimal.NewFromString(tc.qty)
			price, _ := decimal.NewFromString(tc.price)
			err := validatePurchaseAmounts(qty, price)
			if tc.valid && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.valid && !utils.IsValidationError(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestValidateUsageAmountRequiresPositiveQuantity(t *testing.T) {
	if err := validateUsageAmount(decimal.NewFromInt(3)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := validateUsageAmount(decimal.Zero); !utils.IsValidationError(err) {
		t.Fatalf("expected ValidationError for zero quantity, got %v", err)
	}
	if err := validateUsageAmount(decimal.NewFromInt(-3)); !utils.IsValidationError(err) {
		t.Fatalf("expected ValidationError for negative quantity, got %v", err)
	}
}
