package workflow_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/buildbooks/buildbooks_backend/models"
	"github.com/buildbooks/buildbooks_backend/workflow"
)

func catalog() []models.LineItem {
	return []models.LineItem{
		{ID: 1, Name: "Cement 42.5N", MaterialKey: "cement-42.5n", Unit: "bag"},
		{ID: 2, Name: "Rebar 12mm", MaterialKey: "rebar-12", Unit: "ton"},
		{ID: 3, Name: "River Sand", Unit: "m3"},
	}
}

func TestConvertQuoteMatchesByMaterialKeyFirst(t *testing.T) {
	// The quote's name points at a different item; the key must win.
	quote := &models.Quote{
		SupplierName: "ACME Trading",
		MaterialKey:  "rebar-12",
		MaterialName: "Cement 42.5N",
	}
	draft, err := workflow.ConvertQuote(nil, quote, catalog())
	if err != nil {
		t.Fatalf("ConvertQuote: %v", err)
	}
	if draft.ItemId != 2 {
		t.Fatalf("matched item %d, expected 2 (key match beats name match)", draft.ItemId)
	}
}

func TestConvertQuoteFallsBackToExactNameMatch(t *testing.T) {
	quote := &models.Quote{
		SupplierName: "ACME Trading",
		MaterialKey:  "unknown-key",
		MaterialName: "River Sand",
	}
	draft, err := workflow.ConvertQuote(nil, quote, catalog())
	if err != nil {
		t.Fatalf("ConvertQuote: %v", err)
	}
	if draft.ItemId != 3 {
		t.Fatalf("matched item %d, expected 3", draft.ItemId)
	}
}

func TestConvertQuoteNameMatchIsCaseSensitive(t *testing.T) {
	quote := &models.Quote{
		SupplierName: "ACME Trading",
		MaterialName: "river sand",
	}
	_, err := workflow.ConvertQuote(nil, quote, catalog())
	if !errors.Is(err, workflow.ErrNoMatchingLineItem) {
		t.Fatalf("err = %v, expected ErrNoMatchingLineItem for case mismatch", err)
	}
}

func TestConvertQuoteNoMatchReturnsError(t *testing.T) {
	quote := &models.Quote{
		SupplierName: "ACME Trading",
		MaterialKey:  "cement-52.5r",
		MaterialName: "Portland Cement 52.5R",
	}
	draft, err := workflow.ConvertQuote(nil, quote, catalog())
	if !errors.Is(err, workflow.ErrNoMatchingLineItem) {
		t.Fatalf("err = %v, expected ErrNoMatchingLineItem", err)
	}
	if draft != nil {
		t.Fatal("no draft may be produced without a match")
	}
}

func TestConvertQuoteLeavesQuantityAndPriceBlank(t *testing.T) {
	quote := &models.Quote{
		SupplierName:    "ACME Trading",
		MaterialKey:     "cement-42.5n",
		QuotedUnitPrice: decimal.NewFromInt(12500),
	}
	draft, err := workflow.ConvertQuote(nil, quote, catalog())
	if err != nil {
		t.Fatalf("ConvertQuote: %v", err)
	}
	if !draft.Quantity.IsZero() || !draft.UnitPrice.IsZero() {
		t.Fatalf("quantity/price = %s/%s, expected both blank for user confirmation", draft.Quantity, draft.UnitPrice)
	}
	if draft.SupplierRef != "ACME Trading" {
		t.Fatalf("supplierRef = %q, expected quote's supplier name", draft.SupplierRef)
	}
	if !draft.QuotedUnitPrice.Equal(decimal.NewFromInt(12500)) {
		t.Fatalf("quotedUnitPrice = %s, expected 12500 carried as a hint", draft.QuotedUnitPrice)
	}
}
