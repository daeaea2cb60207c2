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

// LineItem is one estimated entry of the bill of quantities. EstimatedQty
// and EstimatedUnitPrice are the baseline all variance is measured against;
// they change only through an explicit edit, never as a side effect of
// ledger writes.
type LineItem struct {
	ID                 int             `gorm:"primary_key" json:"id"`
	ProjectId          string          `gorm:"index;not null" json:"project_id"`
	Name               string          `gorm:"size:255;not null" json:"name" binding:"required"`
	MaterialKey        string          `gorm:"size:100;index" json:"material_key"`
	EstimatedQty       decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"estimated_qty"`
	Unit               string          `gorm:"size:50" json:"unit"`
	EstimatedUnitPrice decimal.Decimal `gorm:"type:decimal(20,4);default:0" json:"estimated_unit_price"`
	Category           string          `gorm:"size:100;index" json:"category"`
	CreatedAt          time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt          time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

type NewLineItem struct {
	Name               string          `json:"name" binding:"required"`
	MaterialKey        string          `json:"material_key"`
	EstimatedQty       decimal.Decimal `json:"estimated_qty"`
	Unit               string          `json:"unit"`
	EstimatedUnitPrice decimal.Decimal `json:"estimated_unit_price"`
	Category           string          `json:"category"`
}

type UpdateLineItem struct {
	Name               *string          `json:"name"`
	MaterialKey        *string          `json:"material_key"`
	EstimatedQty       *decimal.Decimal `json:"estimated_qty"`
	Unit               *string          `json:"unit"`
	EstimatedUnitPrice *decimal.Decimal `json:"estimated_unit_price"`
	Category           *string          `json:"category"`
}

func CreateLineItem(ctx context.Context, input *NewLineItem) (*LineItem, error) {
	projectId, ok := utils.GetProjectIdFromContext(ctx)
	if !ok || projectId == "" {
		return nil, errors.New("project id is required")
	}
	if err := validateNewLineItem(input); err != nil {
		return nil, err
	}

	item := LineItem{
		ProjectId:          projectId,
		Name:               input.Name,
		MaterialKey:        input.MaterialKey,
		EstimatedQty:       input.EstimatedQty,
		Unit:               input.Unit,
		EstimatedUnitPrice: input.EstimatedUnitPrice,
		Category:           input.Category,
	}
	db := config.GetDB()
	if err := db.WithContext(ctx).Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func GetLineItem(ctx context.Context, id int) (*LineItem, error) {
	projectId, ok := utils.GetProjectIdFromContext(ctx)
	if !ok || projectId == "" {
		return nil, errors.New("project id is required")
	}
	var item LineItem
	db := config.GetDB()
	err := db.WithContext(ctx).Where("project_id = ? AND id = ?", projectId, id).First(&item).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.ErrorRecordNotFound
		}
		return nil, err
	}
	return &item, nil
}

func ListLineItems(ctx context.Context) ([]LineItem, error) {
	projectId, ok := utils.GetProjectIdFromContext(ctx)
	if !ok || projectId == "" {
		return nil, errors.New("project id is required")
	}
	var items []LineItem
	db := config.GetDB()
	err := db.WithContext(ctx).Where("project_id = ?", projectId).Order("id ASC").Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// EditLineItem applies an explicit baseline edit. Partial update; nil
// fields are untouched.
func EditLineItem(ctx context.Context, id int, input *UpdateLineItem) (*LineItem, error) {
	item, err := GetLineItem(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		item.Name = *input.Name
	}
	if input.MaterialKey != nil {
		item.MaterialKey = *input.MaterialKey
	}
	if input.EstimatedQty != nil {
		if input.EstimatedQty.IsNegative() {
			return nil, utils.NewValidationError("estimated_qty", "must not be negative")
		}
		item.EstimatedQty = *input.EstimatedQty
	}
	if input.Unit != nil {
		item.Unit = *input.Unit
	}
	if input.EstimatedUnitPrice != nil {
		if input.EstimatedUnitPrice.IsNegative() {
			return nil, utils.NewValidationError("estimated_unit_price", "must not be negative")
		}
		item.EstimatedUnitPrice = *input.EstimatedUnitPrice
	}
	if input.Category != nil {
		item.Category = *input.Category
	}

	db := config.GetDB()
	if err := db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteLineItem refuses to delete an item the ledgers still reference.
// Purchase and usage history must stay auditable; corrections go through
// record-level edits and deletes instead.
func DeleteLineItem(ctx context.Context, id int) error {
	item, err := GetLineItem(ctx, id)
	if err != nil {
		return err
	}

	db := config.GetDB()
	var purchaseCount, usageCount int64
	if err := db.WithContext(ctx).Model(&PurchaseRecord{}).Where("item_id = ?", item.ID).Count(&purchaseCount).Error; err != nil {
		return err
	}
	if err := db.WithContext(ctx).Model(&UsageRecord{}).Where("item_id = ?", item.ID).Count(&usageCount).Error; err != nil {
		return err
	}
	if purchaseCount > 0 || usageCount > 0 {
		return utils.ErrItemHasLedgerEntries
	}

	return db.WithContext(ctx).Delete(item).Error
}
