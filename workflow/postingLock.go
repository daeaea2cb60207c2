package workflow

import (
	"fmt"

	"gorm.io/gorm"
)

// AcquireItemUsageLock serializes usage posting per line item across
// instances using MySQL advisory locks.
// NOTE: GET_LOCK is connection-scoped, so this must be called on the same
// *gorm.DB that will do the usage transaction.
func AcquireItemUsageLock(tx *gorm.DB, projectId string, itemId int) error {
	lockName := fmt.Sprintf("usage-posting:%s:%d", projectId, itemId)
	var ok int
	if err := tx.Raw("SELECT GET_LOCK(?, 30)", lockName).Scan(&ok).Error; err != nil {
		return err
	}
	if ok != 1 {
		return fmt.Errorf("could not acquire usage posting lock for project_id=%s item_id=%d", projectId, itemId)
	}
	return nil
}

func ReleaseItemUsageLock(tx *gorm.DB, projectId string, itemId int) {
	lockName := fmt.Sprintf("usage-posting:%s:%d", projectId, itemId)
	var _ok int
	_ = tx.Raw("SELECT RELEASE_LOCK(?)", lockName).Scan(&_ok).Error
}
