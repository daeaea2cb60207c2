package models

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const AlertKindLowStock = "LowStock"

// Alert outbox publish states. Pending/Failed rows are retried, Processing
// rows are claimed by a dispatcher, Dead rows exceeded max attempts.
const (
	AlertPublishStatusPending    = "PENDING"
	AlertPublishStatusProcessing = "PROCESSING"
	AlertPublishStatusPublished  = "PUBLISHED"
	AlertPublishStatusFailed     = "FAILED"
	AlertPublishStatusDead       = "DEAD"
)

// AlertOutboxRecord is the transactional outbox row for one alert event.
// It is inserted in the same transaction as the usage write that triggered
// the threshold crossing, so the ledger write and the alert intent commit or
// roll back together. The actual publish stays best-effort and asynchronous.
type AlertOutboxRecord struct {
	ID               int        `gorm:"primary_key" json:"id"`
	ProjectId        string     `gorm:"index;not null" json:"project_id"`
	ItemId           int        `gorm:"index;not null" json:"item_id"`
	Kind             string     `gorm:"size:50;not null" json:"kind"`
	Payload          []byte     `gorm:"type:json" json:"payload"`
	PublishStatus    string     `gorm:"size:20;index;not null;default:'PENDING'" json:"publish_status"`
	PublishAttempts  int        `gorm:"default:0" json:"publish_attempts"`
	LastPublishError *string    `gorm:"size:500" json:"last_publish_error"`
	NextAttemptAt    *time.Time `gorm:"index" json:"next_attempt_at"`
	PublishedAt      *time.Time `json:"published_at"`
	PubSubMessageId  *string    `gorm:"size:100" json:"pub_sub_message_id"`
	LockedAt         *time.Time `json:"locked_at"`
	LockedBy         *string    `gorm:"size:100" json:"locked_by"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// LowStockAlertPayload is the wire payload of a LowStock alert event.
type LowStockAlertPayload struct {
	ProjectId        string          `json:"project_id"`
	ItemId           int             `json:"item_id"`
	ItemName         string          `json:"item_name"`
	RemainingPercent decimal.Decimal `json:"remaining_percent"`
	ThresholdPercent decimal.Decimal `json:"threshold_percent"`
	OccurredAt       time.Time       `json:"occurred_at"`
}

// QueueLowStockAlertTx writes the outbox row inside the caller's
// transaction. It does NOT publish; the dispatcher does that after commit.
func QueueLowStockAlertTx(tx *gorm.DB, payload LowStockAlertPayload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	record := AlertOutboxRecord{
		ProjectId:     payload.ProjectId,
		ItemId:        payload.ItemId,
		Kind:          AlertKindLowStock,
		Payload:       data,
		PublishStatus: AlertPublishStatusPending,
	}
	return tx.Create(&record).Error
}
