package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func purchases(qtys ...string) []Purchase {
	out := make([]Purchase, 0, len(qtys))
	for _, q := range qtys {
		out = append(out, Purchase{Qty: dec(q), UnitPrice: dec("1")})
	}
	return out
}

func TestStatusPrecedence(t *testing.T) {
	cases := []struct {
		name         string
		estimatedQty string
		purchasedQty string
		expected     Status
	}{
		{"no purchases", "100", "0", StatusPending},
		{"within epsilon of zero", "100", "0.0001", StatusPending},
		{"just above epsilon", "100", "0.0002", StatusInProgress},
		{"partial", "100", "60", StatusInProgress},
		{"just below estimate", "100", "99.9998", StatusInProgress},
		{"estimate within epsilon low", "100", "99.9999", StatusCompleted},
		{"exact estimate", "100", "100", StatusCompleted},
		{"estimate within epsilon high", "100", "100.0000999", StatusCompleted},
		{"epsilon above estimate", "100", "100.0001", StatusOverPurchased},
		{"well above estimate", "100", "110", StatusOverPurchased},
		{"zero estimate no purchases", "0", "0", StatusPending},
		{"zero estimate with purchases", "0", "5", StatusOverPurchased},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := deriveStatus(dec(tc.estimatedQty), dec(tc.purchasedQty))
			if got != tc.expected {
				t.Fatalf("deriveStatus(%s, %s) = %s, expected %s", tc.estimatedQty, tc.purchasedQty, got, tc.expected)
			}
		})
	}
}

func TestReconcilePartialPurchase(t *testing.T) {
	view := Reconcile(Item{EstimatedQty: dec("100"), EstimatedUnitPrice: dec("10")}, purchases("60"), nil)

	if !view.PurchasedQty.Equal(dec("60")) {
		t.Fatalf("purchasedQty = %s, expected 60", view.PurchasedQty)
	}
	if view.Status != StatusInProgress {
		t.Fatalf("status = %s, expected in_progress", view.Status)
	}
	if !view.RemainingToPurchase.Equal(dec("40")) {
		t.Fatalf("remainingToPurchase = %s, expected 40", view.RemainingToPurchase)
	}
	if !view.ProgressPercent.Equal(dec("60")) {
		t.Fatalf("progressPercent = %s, expected 60", view.ProgressPercent)
	}
}

func TestReconcileExactCompletion(t *testing.T) {
	view := Reconcile(Item{EstimatedQty: dec("100")}, purchases("60", "40"), nil)

	if view.Status != StatusCompleted {
		t.Fatalf("status = %s, expected completed", view.Status)
	}
	if !view.RemainingToPurchase.IsZero() {
		t.Fatalf("remainingToPurchase = %s, expected 0", view.RemainingToPurchase)
	}
}

func TestReconcileOverPurchase(t *testing.T) {
	view := Reconcile(Item{EstimatedQty: dec("100")}, purchases("60", "50"), nil)

	if !view.PurchasedQty.Equal(dec("110")) {
		t.Fatalf("purchasedQty = %s, expected 110", view.PurchasedQty)
	}
	if view.Status != StatusOverPurchased {
		t.Fatalf("status = %s, expected over_purchased", view.Status)
	}
	if !view.RemainingToPurchase.IsZero() {
		t.Fatalf("remainingToPurchase = %s, expected 0 (never negative)", view.RemainingToPurchase)
	}
	if !view.ProgressPercent.Equal(dec("100")) {
		t.Fatalf("progressPercent = %s, expected clamp at 100", view.ProgressPercent)
	}
}

func TestZeroEstimateWithPurchaseIsOverPurchasedNeverCompleted(t *testing.T) {
	view := Reconcile(Item{EstimatedQty: dec("0")}, purchases("5"), nil)

	if view.Status != StatusOverPurchased {
		t.Fatalf("status = %s, expected over_purchased", view.Status)
	}
	if !view.ProgressPercent.IsZero() {
		t.Fatalf("progressPercent = %s, expected 0 for zero estimate", view.ProgressPercent)
	}
}

func TestReconcileIsOrderIndependent(t *testing.T) {
	item := Item{EstimatedQty: dec("100"), EstimatedUnitPrice: dec("10")}
	a := []Purchase{
		{Qty: dec("30"), UnitPrice: dec("9")},
		{Qty: dec("50"), UnitPrice: dec("12")},
		{Qty: dec("20"), UnitPrice: dec("10")},
	}
	b := []Purchase{a[2], a[0], a[1]}

	va := Reconcile(item, a, nil)
	vb := Reconcile(item, b, nil)

	if !va.PurchasedQty.Equal(vb.PurchasedQty) || !va.Spend.Equal(vb.Spend) || va.Status != vb.Status {
		t.Fatalf("reconciliation depends on ledger order: %+v vs %+v", va, vb)
	}
	if !va.AvgPaidPrice.Equal(vb.AvgPaidPrice) {
		t.Fatalf("avgPaidPrice depends on ledger order: %s vs %s", va.AvgPaidPrice, vb.AvgPaidPrice)
	}
}

func TestDeletingAllPurchasesReturnsToPending(t *testing.T) {
	item := Item{EstimatedQty: dec("100")}

	before := Reconcile(item, purchases("60"), nil)
	if before.Status != StatusInProgress {
		t.Fatalf("precondition: status = %s, expected in_progress", before.Status)
	}

	after := Reconcile(item, nil, nil)
	if after.Status != StatusPending {
		t.Fatalf("status after removing all purchases = %s, expected pending", after.Status)
	}
}

func TestAvgPaidPriceAndVariance(t *testing.T) {
	item := Item{EstimatedQty: dec("100"), EstimatedUnitPrice: dec("10")}
	ledger := []Purchase{
		{Qty: dec("60"), UnitPrice: dec("12")},
		{Qty: dec("40"), UnitPrice: dec("9")},
	}
	view := Reconcile(item, ledger, nil)

	// (60*12 + 40*9) / 100 = 10.8
	if !view.AvgPaidPriceDefined {
		t.Fatal("avgPaidPrice should be defined with purchases present")
	}
	if !view.AvgPaidPrice.Equal(dec("10.8")) {
		t.Fatalf("avgPaidPrice = %s, expected 10.8", view.AvgPaidPrice)
	}
	if !view.PriceVariance.Equal(dec("0.8")) {
		t.Fatalf("priceVariance = %s, expected 0.8", view.PriceVariance)
	}
}

func TestUndefinedRatiosWithoutPurchases(t *testing.T) {
	view := Reconcile(Item{EstimatedQty: dec("0"), EstimatedUnitPrice: dec("10")}, nil, nil)

	if view.AvgPaidPriceDefined {
		t.Fatal("avgPaidPrice must be undefined with an empty purchase ledger")
	}
	if view.UsagePercentDefined {
		t.Fatal("usagePercent must be undefined when availableQty is 0")
	}
}

func TestAvailableQtyFallsBackToEstimate(t *testing.T) {
	item := Item{EstimatedQty: dec("50")}
	usage := []Usage{{Qty: dec("30")}}

	// No purchases recorded: burn down against the estimate.
	view := Reconcile(item, nil, usage)
	if !view.AvailableQty.Equal(dec("50")) {
		t.Fatalf("availableQty = %s, expected estimate 50", view.AvailableQty)
	}
	if !view.RemainingAvailable.Equal(dec("20")) {
		t.Fatalf("remainingAvailable = %s, expected 20", view.RemainingAvailable)
	}
	if !view.UsagePercent.Equal(dec("60")) {
		t.Fatalf("usagePercent = %s, expected 60", view.UsagePercent)
	}

	// Purchases recorded: burn down against purchased quantity.
	view = Reconcile(item, purchases("40"), usage)
	if !view.AvailableQty.Equal(dec("40")) {
		t.Fatalf("availableQty = %s, expected purchased 40", view.AvailableQty)
	}
}

func TestRemainingAvailableNeverNegative(t *testing.T) {
	view := Reconcile(Item{EstimatedQty: dec("10")}, purchases("10"), []Usage{{Qty: dec("15")}})

	if !view.RemainingAvailable.IsZero() {
		t.Fatalf("remainingAvailable = %s, expected clamp at 0", view.RemainingAvailable)
	}
}

func TestRollupSumsComponentsAndRecomputesProgress(t *testing.T) {
	item := Item{EstimatedQty: dec("100"), EstimatedUnitPrice: dec("10")}
	views := []ItemView{
		Reconcile(item, purchases("100"), nil),
		Reconcile(item, purchases("60", "50"), nil),
		Reconcile(item, nil, nil),
	}

	r := Rollup(views)
	if r.ItemCount != 3 {
		t.Fatalf("itemCount = %d, expected 3", r.ItemCount)
	}
	if !r.TotalEstimatedQty.Equal(dec("300")) {
		t.Fatalf("totalEstimatedQty = %s, expected 300", r.TotalEstimatedQty)
	}
	if !r.TotalPurchasedQty.Equal(dec("210")) {
		t.Fatalf("totalPurchasedQty = %s, expected 210", r.TotalPurchasedQty)
	}
	if r.CompletedCount != 1 || r.OverPurchasedCount != 1 {
		t.Fatalf("counts = completed %d / over %d, expected 1 / 1", r.CompletedCount, r.OverPurchasedCount)
	}
	// 210/300 = 70%, recomputed from totals, not averaged per item.
	if !r.ProgressPercent.Equal(dec("70")) {
		t.Fatalf("progressPercent = %s, expected 70", r.ProgressPercent)
	}
}

func TestRollupZeroEstimateHasZeroProgress(t *testing.T) {
	views := []ItemView{Reconcile(Item{EstimatedQty: dec("0")}, purchases("5"), nil)}

	r := Rollup(views)
	if !r.ProgressPercent.IsZero() {
		t.Fatalf("progressPercent = %s, expected 0 when nothing is estimated", r.ProgressPercent)
	}
}
