package workflow

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/buildbooks/buildbooks_backend/config"
	"github.com/buildbooks/buildbooks_backend/models"
	"github.com/buildbooks/buildbooks_backend/utils"
)

// Purchase-side ledger writes run through here instead of writing models
// directly: they change available quantity, so the persisted alert marker
// must be re-anchored in the same transaction. Otherwise the next usage
// write would seed its pre-event percent from a level that no longer exists
// and could miss a genuine downward crossing. Purchase writes never queue
// alerts themselves.

// refreshMarkerTx recomputes the item view from the ledgers inside tx and
// re-anchors the alert marker.
func refreshMarkerTx(tx *gorm.DB, projectId string, item *models.LineItem) error {
	purchases, err := models.ListPurchasesByItemTx(tx, projectId, item.ID)
	if err != nil {
		return err
	}
	usage, err := models.ListUsageByItemTx(tx, projectId, item.ID)
	if err != nil {
		return err
	}
	view := BuildItemView(item, purchases, usage)
	return refreshAlertMarker(txAlertStore{tx}, item, view)
}

// RecordPurchase appends a purchase entry under the item's posting lock and
// refreshes the alert marker in the same transaction.
func RecordPurchase(ctx context.Context, input *models.NewPurchaseRecord) (*models.PurchaseRecord, error) {
	projectId, ok := utils.GetProjectIdFromContext(ctx)
	if !ok || projectId == "" {
		return nil, errors.New("project id is required")
	}

	var record *models.PurchaseRecord
	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := AcquireItemUsageLock(tx, projectId, input.ItemId); err != nil {
			return err
		}
		defer ReleaseItemUsageLock(tx, projectId, input.ItemId)

		// Referential check: the ledger never accepts an entry for an item
		// that does not exist in this project.
		item, err := models.GetLineItemTx(tx, projectId, input.ItemId)
		if err != nil {
			return err
		}

		record, err = models.InsertPurchaseRecordTx(tx, projectId, input)
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

// EditPurchase corrects a purchase entry in place, then refreshes the
// marker. Corrections never move an entry to a different item, so the lock
// taken on the stored ItemId covers the whole sequence.
func EditPurchase(ctx context.Context, id int, input *models.UpdatePurchaseRecord) (*models.PurchaseRecord, error) {
	projectId, ok := utils.GetProjectIdFromContext(ctx)
	if !ok || projectId == "" {
		return nil, errors.New("project id is required")
	}

	var record *models.PurchaseRecord
	db := config.GetDB()
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		record, err = models.GetPurchaseRecordTx(tx, projectId, id)
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

		record, err = models.EditPurchaseRecordTx(tx, record, input)
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

// RemovePurchase deletes a purchase entry and refreshes the marker.
func RemovePurchase(ctx context.Context, id int) error {
	projectId, ok := utils.GetProjectIdFromContext(ctx)
	if !ok || projectId == "" {
		return errors.New("project id is required")
	}

	db := config.GetDB()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		record, err := models.GetPurchaseRecordTx(tx, projectId, id)
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

		if err := models.DeletePurchaseRecordTx(tx, record); err != nil {
			return err
		}
		return refreshMarkerTx(tx, projectId, item)
	})
}
