package models

import (
	"context"
	"errors"
	"time"

	"github.com/buildbooks/buildbooks_backend/config"
	"github.com/buildbooks/buildbooks_backend/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PurchaseRecord is one purchase ledger entry against a line item.
// Append-only in spirit: entries are created, edited in place for
// corrections, or deleted individually. Nothing aggregates them except the
// reconciliation engine, at read time.
type PurchaseRecord struct {
	ID          int             `gorm:"primary_key" json:"id"`
	ProjectId   string          `gorm:"index;not null" json:"project_id"`
	ItemId      int             `gorm:"index;not null" json:"item_id" binding:"required"`
	Quantity    decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"unit_price"`
	PurchasedAt time.Time       `gorm:"index;not null" json:"purchased_at"`
	SupplierRef string          `gorm:"size:255" json:"supplier_ref"`
	Notes       string          `gorm:"type:text" json:"notes"`
	CreatedAt   time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewPurchaseRecord struct {
	ItemId      int             `json:"item_id" binding:"required"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	PurchasedAt time.Time       `json:"purchased_at"`
	SupplierRef string          `json:"supplier_ref"`
	Notes       string          `json:"notes"`
}

type UpdatePurchaseRecord struct {
	Quantity    *decimal.Decimal `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
	PurchasedAt *time.Time       `json:"purchased_at"`
	SupplierRef *string          `json:"supplier_ref"`
	Notes       *string          `json:"notes"`
}

// InsertPurchaseRecordTx validates and inserts a purchase entry inside the
// caller's transaction. New purchase entries go through workflow, which owns
// the per-item lock, the referential check, and the alert marker refresh;
// this function is the write itself.
func InsertPurchaseRecordTx(tx *gorm.DB, projectId string, input *NewPurchaseRecord) (*PurchaseRecord, error) {
	if err := validatePurchaseAmounts(input.Quantity, input.UnitPrice); err != nil {
		return nil, err
	}

	purchasedAt := input.PurchasedAt
	if purchasedAt.IsZero() {
		purchasedAt = time.Now().UTC()
	}

	record := PurchaseRecord{
		ProjectId:   projectId,
		ItemId:      input.ItemId,
		Quantity:    input.Quantity,
		UnitPrice:   input.UnitPrice,
		PurchasedAt: purchasedAt,
		SupplierRef: input.SupplierRef,
		Notes:       input.Notes,
	}
	if err := tx.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// GetPurchaseRecordTx fetches an entry inside the caller's transaction, with
// the same project scoping as GetPurchaseRecord.
func GetPurchaseRecordTx(tx *gorm.DB, projectId string, id int) (*PurchaseRecord, error) {
	var record PurchaseRecord
	err := tx.Where("project_id = ? AND id = ?", projectId, id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

func GetPurchaseRecord(ctx context.Context, id int) (*PurchaseRecord, error) {
	projectId, ok := utils.GetProjectIdFromContext(ctx)
	if !ok || projectId == "" {
		return nil, errors.New("project id is required")
	}
	var record PurchaseRecord
	db := config.GetDB()
	err := db.WithContext(ctx).Where("project_id = ? AND id = ?", projectId, id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

// EditPurchaseRecordTx corrects an entry in place inside the caller's
// transaction. The same validation as creation applies; a correction can not
// smuggle in a non-positive amount.
func EditPurchaseRecordTx(tx *gorm.DB, record *PurchaseRecord, input *UpdatePurchaseRecord) (*PurchaseRecord, error) {
	if input.Quantity != nil {
		record.Quantity = *input.Quantity
	}
	if input.UnitPrice != nil {
		record.UnitPrice = *input.UnitPrice
	}
	if err := validatePurchaseAmounts(record.Quantity, record.UnitPrice); err != nil {
		return nil, err
	}
	if input.PurchasedAt != nil {
		record.PurchasedAt = *input.PurchasedAt
	}
	if input.SupplierRef != nil {
		record.SupplierRef = *input.SupplierRef
	}
	if input.Notes != nil {
		record.Notes = *input.Notes
	}

	if err := tx.Save(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func DeletePurchaseRecordTx(tx *gorm.DB, record *PurchaseRecord) error {
	return tx.Delete(record).Error
}

func ListPurchasesByItem(ctx context.Context, itemId int) ([]PurchaseRecord, error) {
	projectId, ok := utils.GetProjectIdFromContext(ctx)
	if !ok || projectId == "" {
		return nil, errors.New("project id is required")
	}
	var records []PurchaseRecord
	db := config.GetDB()
	err := db.WithContext(ctx).
		Where("project_id = ? AND item_id = ?", projectId, itemId).
		Order("purchased_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func ListPurchasesByProject(ctx context.Context) ([]PurchaseRecord, error) {
	projectId, ok := utils.GetProjectIdFromContext(ctx)
	if !ok || projectId == "" {
		return nil, errors.New("project id is required")
	}
	var records []PurchaseRecord
	db := config.GetDB()
	err := db.WithContext(ctx).
		Where("project_id = ?", projectId).
		Order("purchased_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListPurchasesByItemTx is the transactional variant used inside the
// usage-recording workflow.
func ListPurchasesByItemTx(tx *gorm.DB, projectId string, itemId int) ([]PurchaseRecord, error) {
	var records []PurchaseRecord
	err := tx.
		Where("project_id = ? AND item_id = ?", projectId, itemId).
		Order("purchased_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}
