package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is an accepted supplier quote handed to RFQ conversion. Quotes are
// sourced externally (supplier responses collected outside this backend);
// only the accepted quote crosses into this system, and only as conversion
// input. It is never persisted here.
type Quote struct {
	SupplierName    string          `json:"supplier_name" binding:"required"`
	MaterialKey     string          `json:"material_key"`
	MaterialName    string          `json:"material_name"`
	QuotedUnitPrice decimal.Decimal `json:"quoted_unit_price"`
	ValidUntil      *time.Time      `json:"valid_until"`
}
