// Package persistencetest provides an in-memory store with the APCMS tables
// for tests in other packages.
package persistencetest

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/Klabsprojects/rcs-dashboard-api/internal/infrastructure/persistence/models"
)

// NewSQLite opens an in-memory SQLite database with every APCMS table
// created. The pool is pinned to one connection so all statements see the
// same memory database.
func NewSQLite(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 gormlogger.Discard,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(models.All()...))
	return db
}

// SeedReferences inserts one society and one item and returns their ids.
func SeedReferences(t *testing.T, db *gorm.DB) (societyID, itemID int64) {
	t.Helper()

	society := models.SocietyMaster{SocietyCode: "ALP01", SocietyName: "Alpha Coop", Status: "active"}
	require.NoError(t, db.Create(&society).Error)

	item := models.ItemMaster{ItemCode: "PADDY", Category: "Grain", ItemName: "Paddy"}
	require.NoError(t, db.Create(&item).Error)

	return society.SocietyID, item.ItemID
}
