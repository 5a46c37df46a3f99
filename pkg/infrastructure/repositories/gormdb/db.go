package gormdb

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open opens (or creates) the SQLite database at path and migrates the
// tables this package owns.
func Open(path string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}
	if err := db.AutoMigrate(&StockBatchRow{}, &PurchaseRow{}, &ReservationRow{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database %s: %w", path, err)
	}
	return db, nil
}
