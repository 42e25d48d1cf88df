package db

import (
	"errors"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewSQLite opens (creating if needed) a SQLite database file through gorm and
// migrates the given models. Use ":memory:" for a throwaway database.
func NewSQLite(path string, models ...interface{}) (*gorm.DB, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("db: empty sqlite path")
	}

	gdb, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	// SQLite serializes writers; a single connection keeps :memory: databases shared.
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if len(models) > 0 {
		if err := gdb.AutoMigrate(models...); err != nil {
			sqlDB.Close()
			return nil, err
		}
	}

	return gdb, nil
}
