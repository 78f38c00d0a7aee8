package rdb

import (
	"fmt"

	"rehoming/infrastructure/persistence/rdb/po"

	"gorm.io/gorm"
)

// AutoMigrate 创建或更新所有表
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&po.PersonPO{},
		&po.CatPO{},
		&po.AdvertisementPO{},
		&po.OutboxEventPO{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}
