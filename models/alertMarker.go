package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AlertMarker is the one piece of derived state this system persists: the
// remaining-available percent computed at the previous reconciliation of an
// item. It exists solely so low-stock alerting stays edge-triggered across
// process restarts. It is read and written inside ledger-write transactions
// only: usage appends compare against it and re-anchor it, and purchase or
// correction writes re-anchor it without alerting.
type AlertMarker struct {
	ID               int             `gorm:"primary_key" json:"id"`
	ProjectId        string          `gorm:"index;not null" json:"project_id"`
	ItemId           int             `gorm:"uniqueIndex;not null" json:"item_id"`
	RemainingPercent decimal.Decimal `gorm:"type:decimal(20,4);not null" json:"remaining_percent"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// LoadAlertMarkerTx returns the persisted marker for an item, with found
// reporting whether one exists. Row-locked: the surrounding transaction is
// the serialization point for the read-compute-compare-write sequence.
func LoadAlertMarkerTx(tx *gorm.DB, itemId int) (decimal.Decimal, bool, error) {
	var marker AlertMarker
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("item_id = ?", itemId).First(&marker).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, false, nil
		}
		return decimal.Zero, false, err
	}
	return marker.RemainingPercent, true, nil
}

// SaveAlertMarkerTx upserts the marker inside the caller's transaction.
func SaveAlertMarkerTx(tx *gorm.DB, projectId string, itemId int, remainingPercent decimal.Decimal) error {
	marker := AlertMarker{
		ProjectId:        projectId,
		ItemId:           itemId,
		RemainingPercent: remainingPercent,
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"remaining_percent", "updated_at"}),
	}).Create(&marker).Error
}
