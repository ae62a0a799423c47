package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/traceability"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormBatchRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormBatchRepository(newSQLiteDB(t))

	b := newTestBatch(t, "F-1", harvestTime)
	require.NoError(t, repo.Save(ctx, b))

	found, err := repo.FindByCode(ctx, b.BatchCode)
	require.NoError(t, err)
	assert.Equal(t, traceability.StageHarvested, found.Stage)
	assert.Equal(t, 1, found.Version)
	assert.True(t, decimal.NewFromInt(480).Equal(found.ActualYield))
	require.Len(t, found.History, 1)
	assert.Equal(t, traceability.StageReadyForHarvest, found.History[0].From)
	assert.Equal(t, traceability.StageHarvested, found.History[0].To)

	t.Run("duplicate batch code", func(t *testing.T) {
		dup := newTestBatch(t, "F-1", harvestTime)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("unknown batch", func(t *testing.T) {
		_, err := repo.FindByCode(ctx, "BATCH-NOPE")
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestGormBatchRepository_SaveWithLock(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	repo := NewGormBatchRepository(db)

	b := newTestBatch(t, "F-2", harvestTime)
	require.NoError(t, repo.Save(ctx, b))

	lot, err := traceability.NewLotTransaction(b.BatchCode, "B1", decimal.NewFromInt(1200), harvestTime)
	require.NoError(t, err)
	require.NoError(t, b.AcceptLot(lot, "buyer", harvestTime.Add(time.Hour)))
	require.NoError(t, repo.SaveWithLock(ctx, b))
	assert.Equal(t, 2, b.Version)

	_, err = b.ConfirmPayment(traceability.PaymentInput{Amount: decimal.NewFromInt(1200), Method: "mobile_money"}, "buyer", harvestTime.Add(2*time.Hour))
	require.NoError(t, err)
	_, err = b.RegisterDelivery(traceability.DeliveryInput{
		WarehouseID:    "WH-1",
		DeclaredWeight: decimal.NewFromInt(480),
		ActualWeight:   decimal.NewFromInt(478),
	}, "warehouse", harvestTime.Add(3*time.Hour))
	require.NoError(t, err)
	require.NoError(t, repo.SaveWithLock(ctx, b))

	found, err := repo.FindByTransactionCode(ctx, lot.TransactionCode)
	require.NoError(t, err)
	assert.Equal(t, traceability.StageWarehouseDelivered, found.Stage)
	assert.Equal(t, "B1", found.BuyerID)
	require.NotNil(t, found.Payment)
	assert.Equal(t, traceability.PaymentKindLot, found.Payment.Kind)
	require.NotNil(t, found.Delivery)
	assert.Equal(t, traceability.AcceptanceAccepted, found.Delivery.AcceptanceStatus)
	assert.True(t, decimal.NewFromInt(-2).Equal(found.Delivery.Variance), "variance is actual minus declared")
	require.Len(t, found.History, 4)
	for i := 1; i < len(found.History); i++ {
		assert.Equal(t, found.History[i-1].To, found.History[i].From)
	}

	t.Run("stale copy is rejected", func(t *testing.T) {
		stale := *found
		stale.Version = 1
		stale.WithdrawnReason = "late write"
		assert.ErrorIs(t, repo.SaveWithLock(ctx, &stale), shared.ErrConcurrencyConflict)

		current, err := repo.FindByCode(ctx, b.BatchCode)
		require.NoError(t, err)
		assert.Empty(t, current.WithdrawnReason)
	})

	t.Run("payments are never rewritten", func(t *testing.T) {
		again, err := repo.FindByCode(ctx, b.BatchCode)
		require.NoError(t, err)
		again.Payment.Amount = decimal.NewFromInt(1)
		require.NoError(t, repo.SaveWithLock(ctx, again))

		current, err := repo.FindByCode(ctx, b.BatchCode)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(1200).Equal(current.Payment.Amount))
	})
}

func TestGormBatchRepository_Queries(t *testing.T) {
	ctx := context.Background()
	repo := NewGormBatchRepository(newSQLiteDB(t))
	registeredAt := time.Now().Add(-40 * 24 * time.Hour)

	registered := newTestBatch(t, "F-3", registeredAt)
	lot, err := traceability.NewLotTransaction(registered.BatchCode, "B7", decimal.Zero, registeredAt)
	require.NoError(t, err)
	require.NoError(t, registered.AcceptLot(lot, "buyer", registeredAt))
	_, err = registered.ConfirmPayment(traceability.PaymentInput{Amount: decimal.NewFromInt(900)}, "buyer", registeredAt)
	require.NoError(t, err)
	_, err = registered.RegisterDelivery(traceability.DeliveryInput{
		WarehouseID:    "WH-9",
		DeclaredWeight: decimal.NewFromInt(480),
		ActualWeight:   decimal.NewFromInt(480),
	}, "warehouse", registeredAt)
	require.NoError(t, err)
	reg, err := registered.RegisterProduct("", "warehouse", registeredAt)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, registered))

	fresh := newTestBatch(t, "F-4", time.Now())
	require.NoError(t, repo.Save(ctx, fresh))

	t.Run("by registration code", func(t *testing.T) {
		found, err := repo.FindByRegistrationCode(ctx, reg.RegistrationCode)
		require.NoError(t, err)
		assert.Equal(t, registered.BatchCode, found.BatchCode)
		require.NotNil(t, found.Registration)
		assert.Equal(t, "WH-9", found.Registration.WarehouseID)
	})

	t.Run("by buyer and stage", func(t *testing.T) {
		items, total, err := repo.Find(ctx, traceability.BatchQuery{BuyerID: "B7"}, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, items, 1)

		items, total, err = repo.Find(ctx, traceability.BatchQuery{Stages: []traceability.Stage{traceability.StageHarvested}}, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, fresh.BatchCode, items[0].BatchCode)
	})

	t.Run("registered and listed filters", func(t *testing.T) {
		items, total, err := repo.Find(ctx, traceability.BatchQuery{Registered: true}, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		assert.Equal(t, registered.BatchCode, items[0].BatchCode)

		now := time.Now()
		_, total, err = repo.Find(ctx, traceability.BatchQuery{ListingOpenAt: &now}, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("lapsed storage window", func(t *testing.T) {
		lapsed, err := repo.FindWithLapsedWindows(ctx, time.Now(), 10)
		require.NoError(t, err)
		require.Len(t, lapsed, 1)
		assert.Equal(t, registered.BatchCode, lapsed[0].BatchCode)
	})

	t.Run("withdrawn batches leave the sweep", func(t *testing.T) {
		current, err := repo.FindByCode(ctx, registered.BatchCode)
		require.NoError(t, err)
		require.NoError(t, current.Withdraw("quality dispute", "ddgots", time.Now()))
		require.NoError(t, repo.SaveWithLock(ctx, current))

		lapsed, err := repo.FindWithLapsedWindows(ctx, time.Now(), 10)
		require.NoError(t, err)
		assert.Empty(t, lapsed)
	})
}
