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

// UsageRecord is one consumption ledger entry against a line item.
type UsageRecord struct {
	ID           int             `gorm:"primary_key" json:"id"`
	ProjectId    string          `gorm:"index;not null" json:"project_id"`
	ItemId       int             `gorm:"index;not null" json:"item_id" binding:"required"`
	QuantityUsed decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"quantity_used"`
	UsedAt       time.Time       `gorm:"index;not null" json:"used_at"`
	Notes        string          `gorm:"type:text" json:"notes"`
	CreatedAt    time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewUsageRecord struct {
	ItemId       int             `json:"item_id" binding:"required" validate:"required"`
	QuantityUsed decimal.Decimal `json:"quantity_used"`
	UsedAt       time.Time       `json:"used_at"`
	Notes        string          `json:"notes"`
}

type UpdateUsageRecord struct {
	QuantityUsed *decimal.Decimal `json:"quantity_used"`
	UsedAt       *time.Time       `json:"used_at"`
	Notes        *string          `json:"notes"`
}

// InsertUsageRecordTx validates and inserts a usage entry inside the
// caller's transaction. New usage entries go through workflow.RecordUsage,
// which owns the per-item lock and the alert marker update; this function is
// the write itself.
func InsertUsageRecordTx(tx *gorm.DB, projectId string, input *NewUsageRecord) (*UsageRecord, error) {
	if err := validateUsageAmount(input.QuantityUsed); err != nil {
		return nil, err
	}

	usedAt := input.UsedAt
	if usedAt.IsZero() {
		usedAt = time.Now().UTC()
	}

	record := UsageRecord{
		ProjectId:    projectId,
		ItemId:       input.ItemId,
		QuantityUsed: input.QuantityUsed,
		UsedAt:       usedAt,
		Notes:        input.Notes,
	}
	if err := tx.Create(&record).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

func GetUsageRecord(ctx context.Context, id int) (*UsageRecord, error) {
	projectId, ok := utils.GetProjectIdFromContext(ctx)
	if !ok || projectId == "" {
		return nil, errors.New("project id is required")
	}
	var record UsageRecord
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

// GetUsageRecordTx fetches an entry inside the caller's transaction, with
// the same project scoping as GetUsageRecord.
func GetUsageRecordTx(tx *gorm.DB, projectId string, id int) (*UsageRecord, error) {
	var record UsageRecord
	err := tx.Where("project_id = ? AND id = ?", projectId, id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &record, nil
}

// EditUsageRecordTx corrects an entry in place inside the caller's
// transaction, with the same validation as creation.
func EditUsageRecordTx(tx *gorm.DB, record *UsageRecord, input *UpdateUsageRecord) (*UsageRecord, error) {
	if input.QuantityUsed != nil {
		record.QuantityUsed = *input.QuantityUsed
	}
	if err := validateUsageAmount(record.QuantityUsed); err != nil {
		return nil, err
	}
	if input.UsedAt != nil {
		record.UsedAt = *input.UsedAt
	}
	if input.Notes != nil {
		record.Notes = *input.Notes
	}

	if err := tx.Save(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

func DeleteUsageRecordTx(tx *gorm.DB, record *UsageRecord) error {
	return tx.Delete(record).Error
}

func ListUsageByItem(ctx context.Context, itemId int) ([]UsageRecord, error) {
	projectId, ok := utils.GetProjectIdFromContext(ctx)
	if !ok || projectId == "" {
		return nil, errors.New("project id is required")
	}
	var records []UsageRecord
	db := config.GetDB()
	err := db.WithContext(ctx).
		Where("project_id = ? AND item_id = ?", projectId, itemId).
		Order("used_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func ListUsageByProject(ctx context.Context) ([]UsageRecord, error) {
	projectId, ok := utils.GetProjectIdFromContext(ctx)
	if !ok || projectId == "" {
		return nil, errors.New("project id is required")
	}
	var records []UsageRecord
	db := config.GetDB()
	err := db.WithContext(ctx).
		Where("project_id = ?", projectId).
		Order("used_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// ListUsageByItemTx is the transactional variant used inside the
// usage-recording workflow.
func ListUsageByItemTx(tx *gorm.DB, projectId string, itemId int) ([]UsageRecord, error) {
	var records []UsageRecord
	err := tx.
		Where("project_id = ? AND item_id = ?", projectId, itemId).
		Order("used_at ASC, id ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

// GetLineItemTx fetches an item inside the caller's transaction, with the
// same project scoping as GetLineItem.
func GetLineItemTx(tx *gorm.DB, projectId string, itemId int) (*LineItem, error) {
	var item LineItem
	err := tx.Where("project_id = ? AND id = ?", projectId, itemId).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &item, nil
}
