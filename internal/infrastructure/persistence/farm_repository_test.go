package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/compliance"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/farm"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSchedule(t *testing.T, code, farmerID string) *farm.CropSchedule {
	t.Helper()
	s, err := farm.NewCropSchedule(farm.NewCropScheduleInput{
		ScheduleCode:        code,
		FarmerID:            farmerID,
		PlotID:              "PLOT-1",
		CropType:            "Coffee",
		PlantingArea:        decimal.NewFromFloat(2.5),
		PlantingDate:        harvestTime.AddDate(0, -6, 0),
		ExpectedHarvestDate: harvestTime,
		ExpectedYield:       decimal.NewFromInt(500),
	}, harvestTime.AddDate(0, -6, 0))
	require.NoError(t, err)
	return s
}

func TestGormCropScheduleRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCropScheduleRepository(newSQLiteDB(t))

	code, err := repo.NextScheduleCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "SCH-001", code)

	s := newTestSchedule(t, code, "F-1")
	require.NoError(t, repo.Save(ctx, s))
	require.NoError(t, repo.Save(ctx, newTestSchedule(t, "SCH-002", "F-1")))
	assert.ErrorIs(t, repo.Save(ctx, newTestSchedule(t, "SCH-002", "F-9")), shared.ErrAlreadyExists)

	code, err = repo.NextScheduleCode(ctx)
	require.NoError(t, err)
	assert.Equal(t, "SCH-003", code)

	require.NoError(t, s.Advance(farm.ScheduleStatusPlanted, time.Now()))
	require.NoError(t, repo.SaveWithLock(ctx, s))
	assert.Equal(t, 2, s.Version)

	found, err := repo.FindByCode(ctx, s.ScheduleCode)
	require.NoError(t, err)
	assert.Equal(t, farm.ScheduleStatusPlanted, found.Status)
	assert.True(t, decimal.NewFromInt(500).Equal(found.ExpectedYield))

	t.Run("stale write", func(t *testing.T) {
		found.Version = 1
		assert.ErrorIs(t, repo.SaveWithLock(ctx, found), shared.ErrConcurrencyConflict)
	})

	t.Run("farmer listing with status filter", func(t *testing.T) {
		filter := shared.DefaultFilter()
		items, total, err := repo.FindByFarmer(ctx, "F-1", filter)
		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, items, 2)

		filter.Filters["status"] = string(farm.ScheduleStatusPlanted)
		items, total, err = repo.FindByFarmer(ctx, "F-1", filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, s.ScheduleCode, items[0].ScheduleCode)

		planned, err := repo.FindByFarmerAndStatus(ctx, "F-1", farm.ScheduleStatusPlanned)
		require.NoError(t, err)
		assert.Len(t, planned, 1)
	})

	t.Run("unknown schedule", func(t *testing.T) {
		_, err := repo.FindByCode(ctx, "SCH-999")
		assert.True(t, shared.IsCode(err, shared.CodeNotFound))
	})
}

func TestGormHarvestStore_CommitHarvest(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	schedules := NewGormCropScheduleRepository(db)
	batches := NewGormBatchRepository(db)
	store := NewGormHarvestStore(db)

	prepare := func(code string) *farm.CropSchedule {
		s := newTestSchedule(t, code, "F-7")
		require.NoError(t, schedules.Save(ctx, s))
		for _, next := range []farm.ScheduleStatus{farm.ScheduleStatusPlanted, farm.ScheduleStatusGrowing, farm.ScheduleStatusReadyForHarvest} {
			require.NoError(t, s.Advance(next, harvestTime))
		}
		require.NoError(t, schedules.SaveWithLock(ctx, s))
		return s
	}

	t.Run("schedule and batch commit together", func(t *testing.T) {
		s := prepare("SCH-010")
		b := newTestBatch(t, "F-7", harvestTime)
		require.NoError(t, s.Harvest(b.BatchCode, b.ActualYield, b.QualityGrade, harvestTime, harvestTime))
		require.NoError(t, store.CommitHarvest(ctx, s, b))

		stored, err := schedules.FindByCode(ctx, "SCH-010")
		require.NoError(t, err)
		assert.Equal(t, farm.ScheduleStatusHarvested, stored.Status)
		assert.Equal(t, b.BatchCode, stored.BatchCode)

		_, err = batches.FindByCode(ctx, b.BatchCode)
		assert.NoError(t, err)
	})

	t.Run("failed batch insert leaves the schedule untouched", func(t *testing.T) {
		s := prepare("SCH-011")
		// same farmer and instant mints the code already stored above
		b := newTestBatch(t, "F-7", harvestTime)
		require.NoError(t, s.Harvest(b.BatchCode, b.ActualYield, b.QualityGrade, harvestTime, harvestTime))
		assert.ErrorIs(t, store.CommitHarvest(ctx, s, b), shared.ErrAlreadyExists)

		stored, err := schedules.FindByCode(ctx, "SCH-011")
		require.NoError(t, err)
		assert.Equal(t, farm.ScheduleStatusReadyForHarvest, stored.Status)
		assert.Empty(t, stored.BatchCode)
	})
}

func TestGormCropListingRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormCropListingRepository(newSQLiteDB(t))

	s := newTestSchedule(t, "SCH-020", "F-2")
	for _, next := range []farm.ScheduleStatus{farm.ScheduleStatusPlanted, farm.ScheduleStatusGrowing, farm.ScheduleStatusReadyForHarvest} {
		require.NoError(t, s.Advance(next, harvestTime))
	}
	require.NoError(t, s.Harvest("BATCH-COFFEE-1-F-2", decimal.NewFromInt(480), "Grade A", harvestTime, harvestTime))

	l, err := farm.NewCropListing(s, decimal.NewFromInt(480), decimal.NewFromFloat(2.5), "", harvestTime)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, l))

	active, err := repo.FindActiveByBatchCode(ctx, "BATCH-COFFEE-1-F-2")
	require.NoError(t, err)
	assert.Equal(t, l.ListingCode, active.ListingCode)
	assert.Equal(t, "USD", active.Currency)

	active.MarkSold("B1", harvestTime.Add(time.Hour))
	require.NoError(t, repo.SaveWithLock(ctx, active))

	_, err = repo.FindActiveByBatchCode(ctx, "BATCH-COFFEE-1-F-2")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	sold, err := repo.FindByCode(ctx, l.ListingCode)
	require.NoError(t, err)
	assert.Equal(t, farm.ListingStatusSold, sold.Status)
	assert.Equal(t, "B1", sold.SoldTo)

	items, total, err := repo.FindByFarmer(ctx, "F-2", shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Len(t, items, 1)
}

func TestGormComplianceRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormComplianceRepository(newSQLiteDB(t))

	older, err := compliance.NewRecord(compliance.Submission{
		FarmerID: "F-5", PlotID: "PLOT-5", ComplianceStatus: "EUDR_COMPLIANT",
	}, harvestTime.Add(-48*time.Hour))
	require.NoError(t, err)
	newer, err := compliance.NewRecord(compliance.Submission{
		FarmerID: "F-5", PlotID: "PLOT-5", ComplianceStatus: "non_compliant",
	}, harvestTime.Add(-24*time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, older))
	require.NoError(t, repo.Save(ctx, newer))

	latest, err := repo.FindLatestForPlot(ctx, "F-5", "PLOT-5")
	require.NoError(t, err)
	assert.Equal(t, newer.RecordCode, latest.RecordCode)

	_, err = repo.FindLatestForPlot(ctx, "F-5", "PLOT-X")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, latest.Review(compliance.DecisionReject, "ddgots-1", "forest overlap", harvestTime))
	require.NoError(t, repo.SaveWithLock(ctx, latest))

	reviewed, err := repo.FindByCode(ctx, newer.RecordCode)
	require.NoError(t, err)
	assert.Equal(t, compliance.RecordStatusReviewed, reviewed.Status)
	assert.Equal(t, compliance.DecisionReject, reviewed.Decision)
	require.NotNil(t, reviewed.ReviewedAt)

	items, total, err := repo.Find(ctx, compliance.Query{Status: compliance.RecordStatusReceived}, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, older.RecordCode, items[0].RecordCode)
}

func TestGormNotificationRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormNotificationRepository(newSQLiteDB(t))

	for _, role := range []notification.Role{notification.RoleBuyer, notification.RoleRegulatorDDGOTS} {
		n := notification.NewNotification(role, notification.Payload{
			Type:      notification.TypeLotAccepted,
			BatchCode: "BATCH-1",
			Title:     "Lot accepted",
			Data:      map[string]any{"transactionCode": "TXN-1"},
		}, harvestTime)
		require.NoError(t, repo.Save(ctx, n))
	}

	items, total, err := repo.Find(ctx, notification.Query{Role: notification.RoleBuyer}, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "TXN-1", items[0].Data["transactionCode"])

	_, total, err = repo.Find(ctx, notification.Query{BatchCode: "BATCH-1"}, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}

var _ traceability.BatchRepository = (*GormBatchRepository)(nil)
var _ traceability.LotLedger = (*GormLotLedger)(nil)
var _ farm.CropScheduleRepository = (*GormCropScheduleRepository)(nil)
var _ farm.CropListingRepository = (*GormCropListingRepository)(nil)
var _ compliance.Repository = (*GormComplianceRepository)(nil)
var _ notification.Repository = (*GormNotificationRepository)(nil)
