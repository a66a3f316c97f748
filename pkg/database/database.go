package database

import (
	"fmt"

	"github.com/jinzhu/gorm"
	_ "github.com/jinzhu/gorm/dialects/sqlite"

	"video-catalog/pkg/models"
)

// Open connects to the relational store and makes sure the videos table
// exists. The caller owns the returned handle and must Close it.
func Open(driver, dsn string, maxOpenConns int) (*gorm.DB, error) {
	db, err := gorm.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if maxOpenConns > 0 {
		db.DB().SetMaxOpenConns(maxOpenConns)
	}
	db.LogMode(false)

	if err := db.AutoMigrate(&models.VideoRecord{}).Error; err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create videos table: %w", err)
	}
	return db, nil
}
