package models

import "github.com/buildbooks/buildbooks_backend/config"

// MigrateTable auto-migrates the schema. Derived state (status, variance,
// burn-down) has no table on purpose: it is recomputed from the ledgers on
// every read. The alert marker is the single deliberate exception.
func MigrateTable() {
	db := config.GetDB()
	err := db.AutoMigrate(
		&Project{},
		&LineItem{},
		&PurchaseRecord{},
		&UsageRecord{},
		&Supplier{},
		&AlertMarker{},
		&AlertOutboxRecord{},
	)
	if err != nil {
		panic(err)
	}
}
