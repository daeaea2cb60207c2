package workflow

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/buildbooks/buildbooks_backend/models"
)

// ErrNoMatchingLineItem is returned when an accepted quote matches no
// catalog item by material key or by exact name. Surfaced to the caller as
// an actionable error (fall back to manual purchase entry), never dropped.
var ErrNoMatchingLineItem = errors.New("no matching line item for quote")

// QuoteMatcher resolves an accepted quote to a catalog item. The default
// matcher implements the key-then-name precedence below; richer scoring
// (fuzzy ranking across suppliers) lives outside this backend and plugs in
// through this interface.
type QuoteMatcher interface {
	Match(quote *models.Quote, items []models.LineItem) (*models.LineItem, error)
}

// keyNameMatcher matches by stable material key first and falls back to a
// case-sensitive exact name match only when no key match exists.
type keyNameMatcher struct{}

func (keyNameMatcher) Match(quote *models.Quote, items []models.LineItem) (*models.LineItem, error) {
	if quote.MaterialKey != "" {
		for i := range items {
			if items[i].MaterialKey != "" && items[i].MaterialKey == quote.MaterialKey {
				return &items[i], nil
			}
		}
	}
	if quote.MaterialName != "" {
		for i := range items {
			if items[i].Name == quote.MaterialName {
				return &items[i], nil
			}
		}
	}
	return nil, ErrNoMatchingLineItem
}

// DefaultQuoteMatcher returns the key-then-name matcher.
func DefaultQuoteMatcher() QuoteMatcher {
	return keyNameMatcher{}
}

// PurchaseRecordDraft is the suggested ledger entry produced from an
// accepted quote. Quantity and unit price are left zero for user
// confirmation: conversion is a suggestion, not an automatic mutation,
// because both may still need adjustment at acceptance time. The quoted
// price is carried along as a hint only.
type PurchaseRecordDraft struct {
	ItemId          int             `json:"item_id"`
	ItemName        string          `json:"item_name"`
	Unit            string          `json:"unit"`
	SupplierRef     string          `json:"supplier_ref"`
	Quantity        decimal.Decimal `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	QuotedUnitPrice decimal.Decimal `json:"quoted_unit_price"`
}

// ConvertQuote maps an accepted quote onto a purchase draft against the
// given catalog. Pure: it writes nothing, the caller confirms the draft and
// creates the ledger entry through the normal purchase path.
func ConvertQuote(matcher QuoteMatcher, quote *models.Quote, items []models.LineItem) (*PurchaseRecordDraft, error) {
	if matcher == nil {
		matcher = DefaultQuoteMatcher()
	}
	item, err := matcher.Match(quote, items)
	if err != nil {
		return nil, err
	}
	return &PurchaseRecordDraft{
		ItemId:          item.ID,
		ItemName:        item.Name,
		Unit:            item.Unit,
		SupplierRef:     quote.SupplierName,
		QuotedUnitPrice: quote.QuotedUnitPrice,
	}, nil
}

// ConvertAcceptedQuote loads the project's catalog and converts the quote
// against it.
func ConvertAcceptedQuote(ctx context.Context, matcher QuoteMatcher, quote *models.Quote) (*PurchaseRecordDraft, error) {
	items, err := models.ListLineItems(ctx)
	if err != nil {
		return nil, err
	}
	return ConvertQuote(matcher, quote, items)
}
