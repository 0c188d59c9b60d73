package persistence

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/kargopanel/backend/internal/domain/catalog"
	"github.com/kargopanel/backend/internal/domain/fulfillment"
	"github.com/kargopanel/backend/internal/infrastructure/persistence/models"
)

// newTestDB opens an isolated in-memory database per test. A single
// connection keeps the in-memory store alive for the test's duration.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&models.OrderModel{},
		&catalog.Product{},
		&catalog.ParcelDefinition{},
		&fulfillment.CarrierConnection{},
		&fulfillment.ShipmentRecord{},
	))
	return db
}
