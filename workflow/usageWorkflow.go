package workflow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/buildbooks/buildbooks_backend/config"
	"github.com/buildbooks/buildbooks_backend/models"
	"github.com/buildbooks/buildbooks_backend/reconcile"
	"github.com/buildbooks/buildbooks_backend/utils"
)

// BuildItemView maps ledger rows into the reconciliation engine's value
// types and computes the derived view. Handlers and reports go through this
// so the mapping lives in exactly one place.
func BuildItemView(item *models.LineItem, purchases []models.PurchaseRecord, usage []models.UsageRecord) reconcile.ItemView {
	ri := reconcile.Item{
		EstimatedQty:       item.EstimatedQty,
		EstimatedUnitPrice: item.EstimatedUnitPrice,
	}
	rp := make([]reconcile.Purchase, 0, len(purchases))
	for _, p := range purchases {
		rp = append(rp, reconcile.Purchase{Qty: p.Quantity, UnitPrice: p.UnitPrice})
	}
	ru := make([]reconcile.Usage, 0, len(usage))
	for _, u := range usage {
		ru = append(ru, reconcile.Usage{Qty: u.QuantityUsed})
	}
	return reconcile.Reconcile(ri, rp, ru)
}

// alertStore is the persistence the alerting step needs: the previous
// marker, the marker upsert, and the outbox insert. The usage transaction
// passes a gorm-backed store; tests pass an in-memory one.
type alertStore interface {
	LoadMarker(itemId int) (decimal.Decimal, bool, error)
	SaveMarker(projectId string, itemId int, remainingPercent decimal.Decimal) error
	QueueAlert(payload models.LowStockAlertPayload) error
}

// txAlertStore binds alertStore to the caller's transaction.
type txAlertStore struct {
	tx *gorm.DB
}

func (s txAlertStore) LoadMarker(itemId int) (decimal.Decimal, bool, error) {
	return models.LoadAlertMarkerTx(s.tx, itemId)
}

func (s txAlertStore) SaveMarker(projectId string, itemId int, remainingPercent decimal.Decimal) error {
	return models.SaveAlertMarkerTx(s.tx, projectId, itemId, remainingPercent)
}

func (s txAlertStore) QueueAlert(payload models.LowStockAlertPayload) error {
	return models.QueueLowStockAlertTx(s.tx, payload)
}

// runLowStockAlerting is the read-compute-decide-persist step of a usage
// write. The pre-event percent comes from the persisted marker when one
// exists; the first usage event for an item has no marker yet and seeds from
// the pre-event ledgers, so an item that starts below threshold can not fire
// on its first write. When the post-event percent is undefined (zero
// available quantity) nothing fires and the marker is left untouched.
func runLowStockAlerting(store alertStore, threshold decimal.Decimal, item *models.LineItem, preView, postView reconcile.ItemView, occurredAt time.Time) (bool, error) {
	prevPercent, prevDefined, err := store.LoadMarker(item.ID)
	if err != nil {
		return false, err
	}
	if !prevDefined {
		prevPercent, prevDefined = reconcile.RemainingPercent(preView.AvailableQty, preView.UsedQty)
	}

	curPercent, curDefined := reconcile.RemainingPercent(postView.AvailableQty, postView.UsedQty)
	if !curDefined {
		return false, nil
	}

	alerted := false
	if prevDefined && reconcile.DetectCrossing(prevPercent, curPercent, threshold) {
		payload := models.LowStockAlertPayload{
			ProjectId:        item.ProjectId,
			ItemId:           item.ID,
			ItemName:         item.Name,
			RemainingPercent: curPercent,
			ThresholdPercent: threshold,
			OccurredAt:       occurredAt,
		}
		if err := store.QueueAlert(payload); err != nil {
			return false, err
		}
		alerted = true
	}
	if err := store.SaveMarker(item.ProjectId, item.ID, curPercent); err != nil {
		return alerted, err
	}
	return alerted, nil
}

// refreshAlertMarker re-anchors the marker after a ledger write that changed
// the level without being a usage append (purchase create/edit/delete, usage
// corrections). No alert is queued here; alerts fire on usage appends only.
// Skipping the refresh would leave the next usage write comparing against a
// stale pre-event percent and miss a genuine downward crossing.
func refreshAlertMarker(store alertStore, item *models.LineItem, view reconcile.ItemView) error {
	pct, defined := reconcile.RemainingPercent(view.AvailableQty, view.UsedQty)
	if !defined {
		return nil
	}
	return store.SaveMarker(item.ProjectId, item.ID, pct)
}

// RecordUsage appends a usage entry and runs low-stock alerting as one
// atomic sequence: read pre-event state, write the entry, recompute, compare
// against the persisted alert marker, update the marker, and queue an alert
// outbox row when the remaining percent crossed DOWN through the threshold.
//
// Concurrent usage writes for the same item are serialized with a MySQL
// advisory lock; a Redis lock is taken first as a best-effort optimization
// to avoid in-request blocking, but correctness never depends on Redis.
// Two concurrent crossings therefore produce exactly one alert.
func RecordUsage(ctx context.Context, logger *logrus.Logger, input *models.NewUsageRecord) (*models.UsageRecord, *reconcile.ItemView, error) {
	projectId, ok := utils.GetProjectIdFromContext(ctx)
	if !ok || projectId == "" {
		return nil, nil, errors.New("project id is required")
	}
	// Programmatic callers bypass gin's binding; validate here too.
	if err := utils.ValidateStruct(input); err != nil {
		return nil, nil, err
	}

	redisLock := config.GetRedisLock()
	var lock *redislock.Lock
	if redisLock != nil {
		var err error
		lock, err = redisLock.Obtain(ctx, fmt.Sprintf("usage-lock:%s:%d", projectId, input.ItemId), 30*time.Second, nil)
		if err == redislock.ErrNotObtained {
			logger.WithFields(logrus.Fields{
				"module":     "usageWorkflow.go",
				"funcName":   "RecordUsage",
				"project_id": projectId,
				"item_id":    input.ItemId,
			}).Warn("could not obtain redis lock; proceeding without redis lock")
			lock = nil
		} else if err != nil {
			config.LogError(logger, "usageWorkflow.go", "RecordUsage", "redisLock.Obtain", nil, err)
			lock = nil
		}
	}
	defer func() {
		if lock != nil {
			_ = lock.Release(context.Background())
		}
	}()

	threshold := config.LowStockThresholdPercent()

	var record *models.UsageRecord
	var view reconcile.ItemView
	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireItemUsageLock(tx, projectId, input.ItemId); err != nil {
			return err
		}
		defer ReleaseItemUsageLock(tx, projectId, input.ItemId)

		item, err := models.GetLineItemTx(tx, projectId, input.ItemId)
		if err != nil {
			return err
		}

		purchases, err := models.ListPurchasesByItemTx(tx, projectId, input.ItemId)
		if err != nil {
			return err
		}
		usage, err := models.ListUsageByItemTx(tx, projectId, input.ItemId)
		if err != nil {
			return err
		}

		preView := BuildItemView(item, purchases, usage)

		record, err = models.InsertUsageRecordTx(tx, projectId, input)
		if err != nil {
			return err
		}

		usage = append(usage, *record)
		view = BuildItemView(item, purchases, usage)

		_, err = runLowStockAlerting(txAlertStore{tx}, threshold, item, preView, view, time.Now().UTC())
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return record, &view, nil
}

// EditUsage corrects a usage entry in place under the item's posting lock
// and refreshes the alert marker. Corrections re-anchor the level without
// queueing alerts; only RecordUsage fires them.
func EditUsage(ctx context.Context, id int, input *models.UpdateUsageRecord) (*models.UsageRecord, error) {
	projectId, ok := utils.GetProjectIdFromContext(ctx)
	if !ok || projectId == "" {
		return nil, errors.New("project id is required")
	}

	var record *models.UsageRecord
	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		record, err = models.GetUsageRecordTx(tx, projectId, id)
		if err != nil {
			return err
		}

		if err := AcquireItemUsageLock(tx, projectId, record.ItemId); err != nil {
			return err
		}
		defer ReleaseItemUsageLock(tx, projectId, record.ItemId)

		item, err := models.GetLineItemTx(tx, projectId, record.ItemId)
		if err != nil {
			return err
		}

		record, err = models.EditUsageRecordTx(tx, record, input)
		if err != nil {
			return err
		}
		return refreshMarkerTx(tx, projectId, item)
	})
	if err != nil {
		return nil, err
	}
	return record, nil
}

// RemoveUsage deletes a usage entry and refreshes the marker.
func RemoveUsage(ctx context.Context, id int) error {
	projectId, ok := utils.GetProjectIdFromContext(ctx)
	if !ok || projectId == "" {
		return errors.New("project id is required")
	}

	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := models.GetUsageRecordTx(tx, projectId, id)
		if err != nil {
			return err
		}

		if err := AcquireItemUsageLock(tx, projectId, record.ItemId); err != nil {
			return err
		}
		defer ReleaseItemUsageLock(tx, projectId, record.ItemId)

		item, err := models.GetLineItemTx(tx, projectId, record.ItemId)
		if err != nil {
			return err
		}

		if err := models.DeleteUsageRecordTx(tx, record); err != nil {
			return err
		}
		return refreshMarkerTx(tx, projectId, item)
	})
}

// RemainingPercentForAlert exposes the marker seed rule for callers that
// need the pre-event value without writing anything (reports, diagnostics).
func RemainingPercentForAlert(view reconcile.ItemView) (decimal.Decimal, bool) {
	return reconcile.RemainingPercent(view.AvailableQty, view.UsedQty)
}
