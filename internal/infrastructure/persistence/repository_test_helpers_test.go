package persistence

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/compliance"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newSQLiteDB opens a private shared-cache in-memory database with every
// table migrated. A single connection keeps concurrent tests serialised.
func newSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(AllModels()...))
	return db
}

var harvestTime = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newTestBatch(t *testing.T, farmerID string, at time.Time) *traceability.Batch {
	t.Helper()
	b, err := traceability.NewHarvestedBatch(traceability.HarvestInput{
		ScheduleCode:     "SCH-010",
		FarmerID:         farmerID,
		PlotID:           "PLOT-1",
		CropType:         "Coffee",
		ActualYield:      decimal.NewFromInt(480),
		QualityGrade:     "Grade A",
		HarvestDate:      at,
		ComplianceStatus: compliance.EUDRPending,
		Actor:            "farmer",
	}, at)
	require.NoError(t, err)
	return b
}
