package farm

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/farm"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

type fixture struct {
	svc       *Service
	schedules *persistence.GormCropScheduleRepository
	listings  *persistence.GormCropListingRepository
}

func setupService(t *testing.T, now time.Time) *fixture {
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
	require.NoError(t, db.AutoMigrate(persistence.AllModels()...))

	schedules := persistence.NewGormCropScheduleRepository(db)
	listings := persistence.NewGormCropListingRepository(db)
	clock := shared.ClockFunc(func() time.Time { return now })
	return &fixture{
		svc:       NewService(schedules, listings, clock, nil),
		schedules: schedules,
		listings:  listings,
	}
}

func (f *fixture) ready(t *testing.T, ctx context.Context, id string, expected string) {
	t.Helper()
	_, err := f.svc.CreateSchedule(ctx, CreateScheduleRequest{
		ScheduleID:          id,
		FarmerID:            "FARMER-7",
		PlotID:              "PLOT-3",
		CropType:            "Cocoa",
		ExpectedHarvestDate: expected,
		ExpectedYield:       decimal.NewFromInt(500),
	})
	require.NoError(t, err)
	for _, status := range []string{"planted", "growing", "ready_for_harvest"} {
		_, err := f.svc.AdvanceSchedule(ctx, id, AdvanceScheduleRequest{Status: status})
		require.NoError(t, err)
	}
}

func TestService_CreateSchedule(t *testing.T) {
	ctx := context.Background()
	f := setupService(t, testNow)

	t.Run("generates sequential ids", func(t *testing.T) {
		first, err := f.svc.CreateSchedule(ctx, CreateScheduleRequest{FarmerID: "F1", PlotID: "P1", CropType: "Coffee"})
		require.NoError(t, err)
		assert.Equal(t, "SCH-001", first.ScheduleID)
		assert.Equal(t, "planned", first.Status)
		assert.Equal(t, "not_listed", first.MarketStatus)

		second, err := f.svc.CreateSchedule(ctx, CreateScheduleRequest{FarmerID: "F1", PlotID: "P2", CropType: "Coffee"})
		require.NoError(t, err)
		assert.Equal(t, "SCH-002", second.ScheduleID)
	})

	t.Run("rejects a duplicate id", func(t *testing.T) {
		_, err := f.svc.CreateSchedule(ctx, CreateScheduleRequest{ScheduleID: "SCH-001", FarmerID: "F1", PlotID: "P1", CropType: "Coffee"})
		assert.True(t, shared.IsCode(err, shared.CodePrecondition))
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		_, err := f.svc.CreateSchedule(ctx, CreateScheduleRequest{FarmerID: "F1", PlotID: "P1", CropType: "Coffee", PlantingDate: "01/03/2025"})
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	t.Run("rejects harvest before planting", func(t *testing.T) {
		_, err := f.svc.CreateSchedule(ctx, CreateScheduleRequest{
			FarmerID:            "F1",
			PlotID:              "P1",
			CropType:            "Coffee",
			PlantingDate:        "2025-03-01",
			ExpectedHarvestDate: "2025-02-01",
		})
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})
}

func TestService_AdvanceSchedule(t *testing.T) {
	ctx := context.Background()
	f := setupService(t, testNow)
	_, err := f.svc.CreateSchedule(ctx, CreateScheduleRequest{ScheduleID: "SCH-010", FarmerID: "F1", PlotID: "P1", CropType: "Coffee"})
	require.NoError(t, err)

	_, err = f.svc.AdvanceSchedule(ctx, "SCH-010", AdvanceScheduleRequest{Status: "growing"})
	assert.True(t, shared.IsCode(err, shared.CodeInvalidStage), "skipping planted must fail")

	resp, err := f.svc.AdvanceSchedule(ctx, "SCH-010", AdvanceScheduleRequest{Status: "planted"})
	require.NoError(t, err)
	assert.Equal(t, "planted", resp.Status)

	_, err = f.svc.AdvanceSchedule(ctx, "SCH-010", AdvanceScheduleRequest{Status: "harvested"})
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	_, err = f.svc.AdvanceSchedule(ctx, "SCH-404", AdvanceScheduleRequest{Status: "planted"})
	assert.ErrorIs(t, err, shared.ErrNotFound)

	stored, err := f.schedules.FindByCode(ctx, "SCH-010")
	require.NoError(t, err)
	assert.Equal(t, farm.ScheduleStatusPlanted, stored.Status)
}

func TestService_ListSchedules(t *testing.T) {
	ctx := context.Background()
	f := setupService(t, testNow)
	f.ready(t, ctx, "SCH-010", "")
	_, err := f.svc.CreateSchedule(ctx, CreateScheduleRequest{ScheduleID: "SCH-011", FarmerID: "FARMER-7", PlotID: "PLOT-4", CropType: "Rubber"})
	require.NoError(t, err)
	_, err = f.svc.CreateSchedule(ctx, CreateScheduleRequest{ScheduleID: "SCH-012", FarmerID: "FARMER-9", PlotID: "PLOT-1", CropType: "Rubber"})
	require.NoError(t, err)

	all, err := f.svc.ListSchedules(ctx, "FARMER-7", ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	ready, err := f.svc.ListSchedules(ctx, "FARMER-7", ListQuery{Status: "ready_for_harvest"})
	require.NoError(t, err)
	require.Len(t, ready.Items, 1)
	assert.Equal(t, "SCH-010", ready.Items[0].ScheduleID)

	_, err = f.svc.ListSchedules(ctx, "", ListQuery{})
	assert.True(t, shared.IsCode(err, shared.CodeValidation))
}

func TestService_CreateListing(t *testing.T) {
	ctx := context.Background()
	f := setupService(t, testNow)
	f.ready(t, ctx, "SCH-010", "")

	t.Run("requires a harvested schedule", func(t *testing.T) {
		_, err := f.svc.CreateListing(ctx, CreateListingRequest{ScheduleID: "SCH-010", PricePerKg: decimal.NewFromInt(3)})
		assert.True(t, shared.IsCode(err, shared.CodePrecondition))
	})

	s, err := f.schedules.FindByCode(ctx, "SCH-010")
	require.NoError(t, err)
	require.NoError(t, s.Harvest("BATCH-COCOA-1-FARMER-7", decimal.NewFromInt(480), "Grade A", testNow, testNow))
	require.NoError(t, f.schedules.SaveWithLock(ctx, s))

	t.Run("lists the whole yield by default", func(t *testing.T) {
		resp, err := f.svc.CreateListing(ctx, CreateListingRequest{ScheduleID: "SCH-010", PricePerKg: decimal.NewFromFloat(2.75)})
		require.NoError(t, err)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, "BATCH-COCOA-1-FARMER-7", resp.BatchCode)
		assert.True(t, decimal.NewFromInt(480).Equal(resp.Quantity))
		assert.Equal(t, "USD", resp.Currency)

		stored, err := f.schedules.FindByCode(ctx, "SCH-010")
		require.NoError(t, err)
		assert.Equal(t, farm.MarketStatusListed, stored.MarketStatus)
	})

	t.Run("one active listing per batch", func(t *testing.T) {
		_, err := f.svc.CreateListing(ctx, CreateListingRequest{ScheduleID: "SCH-010", PricePerKg: decimal.NewFromInt(3)})
		assert.True(t, shared.IsCode(err, shared.CodePrecondition))
	})

	t.Run("quantity cannot exceed the yield", func(t *testing.T) {
		_, err := f.svc.CreateListing(ctx, CreateListingRequest{ScheduleID: "SCH-010", Quantity: decimal.NewFromInt(900), PricePerKg: decimal.NewFromInt(3)})
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
	})

	listed, err := f.svc.ListListings(ctx, "FARMER-7", ListQuery{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), listed.Total)
}

func TestService_HarvestAlerts(t *testing.T) {
	ctx := context.Background()
	f := setupService(t, testNow)
	f.ready(t, ctx, "SCH-010", "2025-03-03")
	f.ready(t, ctx, "SCH-011", "2025-02-20")
	f.ready(t, ctx, "SCH-012", "2025-03-20")
	_, err := f.svc.CreateSchedule(ctx, CreateScheduleRequest{ScheduleID: "SCH-013", FarmerID: "FARMER-7", PlotID: "PLOT-3", CropType: "Cocoa"})
	require.NoError(t, err)

	alerts, err := f.svc.HarvestAlerts(ctx, "FARMER-7")
	require.NoError(t, err)
	require.Len(t, alerts, 3)

	byID := map[string]HarvestAlertResponse{}
	for _, a := range alerts {
		byID[a.ScheduleID] = a
	}
	assert.Equal(t, "high", byID["SCH-010"].Priority)
	assert.Equal(t, 2, byID["SCH-010"].DaysUntilHarvest)
	assert.True(t, byID["SCH-011"].Overdue)
	assert.Equal(t, "medium", byID["SCH-012"].Priority)
	assert.False(t, byID["SCH-012"].Overdue)
	assert.NotContains(t, byID, "SCH-013")
}
