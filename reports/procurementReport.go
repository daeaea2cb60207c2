package reports

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/buildbooks/buildbooks_backend/models"
	"github.com/buildbooks/buildbooks_backend/workflow"
)

// BuildProcurementReport renders the per-item reconciliation of a project as
// an xlsx workbook. Every row is recomputed from the ledgers at build time.
func BuildProcurementReport(ctx context.Context) (*excelize.File, error) {
	items, err := models.ListLineItems(ctx)
	if err != nil {
		return nil, err
	}
	purchases, err := models.ListPurchasesByProject(ctx)
	if err != nil {
		return nil, err
	}
	usage, err := models.ListUsageByProject(ctx)
	if err != nil {
		return nil, err
	}

	purchasesByItem := make(map[int][]models.PurchaseRecord)
	for _, p := range purchases {
		purchasesByItem[p.ItemId] = append(purchasesByItem[p.ItemId], p)
	}
	usageByItem := make(map[int][]models.UsageRecord)
	for _, u := range usage {
		usageByItem[u.ItemId] = append(usageByItem[u.ItemId], u)
	}

	f := excelize.NewFile()
	sheet := "Sheet1"
	if _, err := f.NewSheet(sheet); err != nil {
		return nil, err
	}

	headings := []string{
		"Item", "Unit", "Category",
		"Estimated Qty", "Purchased Qty", "Remaining To Purchase",
		"Status", "Progress %",
		"Estimated Unit Price", "Avg Paid Price", "Price Variance", "Spend",
		"Used Qty", "Remaining Available", "Usage %",
	}
	col := 'A'
	for _, h := range headings {
		f.SetCellValue(sheet, string(col)+"1", h)
		col++
	}

	for i := range items {
		view := workflow.BuildItemView(&items[i], purchasesByItem[items[i].ID], usageByItem[items[i].ID])
		row := fmt.Sprint(i + 2)

		f.SetCellValue(sheet, "A"+row, items[i].Name)
		f.SetCellValue(sheet, "B"+row, items[i].Unit)
		f.SetCellValue(sheet, "C"+row, items[i].Category)
		f.SetCellValue(sheet, "D"+row, view.EstimatedQty.InexactFloat64())
		f.SetCellValue(sheet, "E"+row, view.PurchasedQty.InexactFloat64())
		f.SetCellValue(sheet, "F"+row, view.RemainingToPurchase.InexactFloat64())
		f.SetCellValue(sheet, "G"+row, string(view.Status))
		f.SetCellValue(sheet, "H"+row, view.ProgressPercent.InexactFloat64())
		f.SetCellValue(sheet, "I"+row, view.EstimatedUnitPrice.InexactFloat64())
		// Undefined ratios render as a dash, never as 0.
		if view.AvgPaidPriceDefined {
			f.SetCellValue(sheet, "J"+row, view.AvgPaidPrice.InexactFloat64())
			f.SetCellValue(sheet, "K"+row, view.PriceVariance.InexactFloat64())
		} else {
			f.SetCellValue(sheet, "J"+row, "-")
			f.SetCellValue(sheet, "K"+row, "-")
		}
		f.SetCellValue(sheet, "L"+row, view.Spend.InexactFloat64())
		f.SetCellValue(sheet, "M"+row, view.UsedQty.InexactFloat64())
		f.SetCellValue(sheet, "N"+row, view.RemainingAvailable.InexactFloat64())
		if view.UsagePercentDefined {
			f.SetCellValue(sheet, "O"+row, view.UsagePercent.InexactFloat64())
		} else {
			f.SetCellValue(sheet, "O"+row, "-")
		}
	}

	return f, nil
}
