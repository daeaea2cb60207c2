package workflow

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/buildbooks/buildbooks_backend/models"
)

// NOTE: These tests are intentionally DB-free. They validate the alerting
// step of the usage-recording transaction against an in-memory store:
// - the pre-event percent seeds from the marker, else from the ledgers
// - an item that starts below threshold never fires on its first write
// - one downward crossing queues exactly one outbox row
// - purchase-side writes re-anchor the marker so later crossings still fire
//
// Full DB integration tests should be added in an environment that can run
// MySQL.

type fakeAlertStore struct {
	marker    decimal.Decimal
	hasMarker bool
	saves     []decimal.Decimal
	queued    []models.LowStockAlertPayload
}

func (s *fakeAlertStore) LoadMarker(itemId int) (decimal.Decimal, bool, error) {
	return s.marker, s.hasMarker, nil
}

func (s *fakeAlertStore) SaveMarker(projectId string, itemId int, remainingPercent decimal.Decimal) error {
	s.marker = remainingPercent
	s.hasMarker = true
	s.saves = append(s.saves, remainingPercent)
	return nil
}

func (s *fakeAlertStore) QueueAlert(payload models.LowStockAlertPayload) error {
	s.queued = append(s.queued, payload)
	return nil
}

func alertTestItem(estimatedQty string) *models.LineItem {
	return &models.LineItem{
		ID:           7,
		ProjectId:    "p-1",
		Name:         "Cement 42.5N",
		EstimatedQty: decimal.RequireFromString(estimatedQty),
		Unit:         "bag",
	}
}

func usageLedger(qtys ...string) []models.UsageRecord {
	out := make([]models.UsageRecord, 0, len(qtys))
	for _, q := range qtys {
		out = append(out, models.UsageRecord{ItemId: 7, QuantityUsed: decimal.RequireFromString(q)})
	}
	return out
}

func purchaseLedger(qtys ...string) []models.PurchaseRecord {
	out := make([]models.PurchaseRecord, 0, len(qtys))
	for _, q := range qtys {
		out = append(out, models.PurchaseRecord{
			ItemId:    7,
			Quantity:  decimal.RequireFromString(q),
			UnitPrice: decimal.RequireFromString("1"),
		})
	}
	return out
}

var alertThreshold = decimal.RequireFromString("20")

func runStep(t *testing.T, store *fakeAlertStore, item *models.LineItem, preUsage, postUsage []models.UsageRecord, purchases []models.PurchaseRecord) bool {
	t.Helper()
	preView := BuildItemView(item, purchases, preUsage)
	postView := BuildItemView(item, purchases, postUsage)
	alerted, err := runLowStockAlerting(store, alertThreshold, item, preView, postView, time.Now().UTC())
	if err != nil {
		t.Fatalf("runLowStockAlerting: %v", err)
	}
	return alerted
}

func TestAlertingItemAlreadyBelowThresholdNeverFiresOnFirstWrite(t *testing.T) {
	// No marker yet: the seed comes from the pre-event ledgers, which are
	// already at 15% remaining. Dropping further to 10% is not a crossing.
	item := alertTestItem("100")
	store := &fakeAlertStore{}

	alerted := runStep(t, store, item, usageLedger("85"), usageLedger("85", "5"), nil)
	if alerted {
		t.Fatalf("expected no alert for an item already below threshold, got one")
	}
	if len(store.queued) != 0 {
		t.Fatalf("expected empty outbox, got %d rows", len(store.queued))
	}
	if !store.hasMarker || !store.marker.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("expected marker saved at 10, got hasMarker=%v marker=%s", store.hasMarker, store.marker)
	}
}

func TestAlertingMarkerWinsOverRecomputedPreEventPercent(t *testing.T) {
	// The ledgers alone say 15% remaining before the write, which would
	// suppress the alert. The persisted marker says 50% and must win: the
	// crossing 50% -> 10% fires.
	item := alertTestItem("100")
	store := &fakeAlertStore{marker: decimal.RequireFromString("50"), hasMarker: true}

	alerted := runStep(t, store, item, usageLedger("85"), usageLedger("85", "5"), nil)
	if !alerted {
		t.Fatalf("expected the marker-seeded crossing to fire")
	}
	if len(store.queued) != 1 {
		t.Fatalf("expected exactly 1 outbox row, got %d", len(store.queued))
	}
}

func TestAlertingCrossingQueuesExactlyOneOutboxRow(t *testing.T) {
	// 40% -> 10% crosses down and fires once; the follow-up write 10% -> 5%
	// stays below and must not fire again.
	item := alertTestItem("100")
	store := &fakeAlertStore{}

	alerted := runStep(t, store, item, usageLedger("60"), usageLedger("60", "30"), nil)
	if !alerted {
		t.Fatalf("expected the 40%% -> 10%% crossing to fire")
	}
	alerted = runStep(t, store, item, usageLedger("60", "30"), usageLedger("60", "30", "5"), nil)
	if alerted {
		t.Fatalf("expected no re-fire while staying below threshold")
	}

	if len(store.queued) != 1 {
		t.Fatalf("expected exactly 1 outbox row across both writes, got %d", len(store.queued))
	}
	payload := store.queued[0]
	if payload.ItemId != item.ID || payload.ProjectId != item.ProjectId {
		t.Fatalf("unexpected payload identity: %+v", payload)
	}
	if !payload.RemainingPercent.Equal(decimal.RequireFromString("10")) {
		t.Fatalf("expected payload remaining percent 10, got %s", payload.RemainingPercent)
	}
	if !store.marker.Equal(decimal.RequireFromString("5")) {
		t.Fatalf("expected marker at 5 after the second write, got %s", store.marker)
	}
	if len(store.saves) != 2 {
		t.Fatalf("expected the marker upserted once per write, got %d saves", len(store.saves))
	}
}

func TestAlertingUndefinedPostEventPercentSkipsAlertAndMarker(t *testing.T) {
	// Estimate 0 and no purchases: available quantity is 0, the ratio is
	// undefined, nothing fires and the marker is untouched.
	item := alertTestItem("0")
	store := &fakeAlertStore{}

	alerted := runStep(t, store, item, nil, usageLedger("5"), nil)
	if alerted {
		t.Fatalf("expected no alert when the post-event percent is undefined")
	}
	if len(store.queued) != 0 || store.hasMarker {
		t.Fatalf("expected no outbox row and no marker, got queued=%d hasMarker=%v", len(store.queued), store.hasMarker)
	}
}

func TestPurchaseRefreshKeepsLaterCrossingDetectable(t *testing.T) {
	// The marker sits at 10% from earlier usage. A purchase doubles the
	// available quantity; without re-anchoring, the next usage write would
	// seed prev=10% and miss the genuine 55% -> 15% crossing.
	item := alertTestItem("100")
	store := &fakeAlertStore{marker: decimal.RequireFromString("10"), hasMarker: true}

	purchases := purchaseLedger("200")
	view := BuildItemView(item, purchases, usageLedger("90"))
	if err := refreshAlertMarker(store, item, view); err != nil {
		t.Fatalf("refreshAlertMarker: %v", err)
	}
	if !store.marker.Equal(decimal.RequireFromString("55")) {
		t.Fatalf("expected marker re-anchored at 55, got %s", store.marker)
	}

	alerted := runStep(t, store, item, usageLedger("90"), usageLedger("90", "80"), purchases)
	if !alerted {
		t.Fatalf("expected the post-purchase crossing to fire")
	}
	if len(store.queued) != 1 {
		t.Fatalf("expected exactly 1 outbox row, got %d", len(store.queued))
	}
}

func TestPurchaseRefreshSkipsUndefinedPercent(t *testing.T) {
	item := alertTestItem("0")
	store := &fakeAlertStore{}

	view := BuildItemView(item, nil, nil)
	if err := refreshAlertMarker(store, item, view); err != nil {
		t.Fatalf("refreshAlertMarker: %v", err)
	}
	if store.hasMarker {
		t.Fatalf("expected no marker write for an undefined percent")
	}
}
