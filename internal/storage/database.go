package storage

import (
	"cardclash/internal/battle"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// OpenAndMigrate opens the sqlite database and keeps the schema updated
// via AutoMigrate. Card and deck definitions live in the config file, not
// the database, so there is nothing to seed here.
func OpenAndMigrate(dataSourceName string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dataSourceName), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&battle.Session{}, &battle.LogEntry{}, &battle.Profile{}); err != nil {
		return nil, err
	}
	return db, nil
}
