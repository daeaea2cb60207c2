package config

import (
	"os"
	"strings"

	"github.com/shopspring/decimal"
)

// Default low-remaining-stock alert threshold, in percent of available
// quantity. Overridable per deployment via LOW_STOCK_THRESHOLD_PERCENT.
const defaultLowStockThresholdPercent = 20

// LowStockThresholdPercent returns the configured alert threshold.
// Invalid or missing values fall back to the default.
func LowStockThresholdPercent() decimal.Decimal {
	v := strings.TrimSpace(os.Getenv("LOW_STOCK_THRESHOLD_PERCENT"))
	if v == "" {
		return decimal.NewFromInt(defaultLowStockThresholdPercent)
	}
	d, err := decimal.NewFromString(v)
	if err != nil || d.IsNegative() {
		return decimal.NewFromInt(defaultLowStockThresholdPercent)
	}
	return d
}
