package notification

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/infrastructure/cache"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Save(ctx context.Context, n *notification.Notification) error {
	return m.Called(ctx, n).Error(0)
}

func (m *MockNotificationRepository) Find(ctx context.Context, q notification.Query, filter shared.Filter) ([]notification.Notification, int64, error) {
	args := m.Called(ctx, q, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]notification.Notification), args.Get(1).(int64), args.Error(2)
}

type recordingSink struct {
	name string
	err  error
	mu   sync.Mutex
	got  []*notification.Notification
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(_ context.Context, n *notification.Notification) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.got = append(s.got, n)
	return s.err
}

type brokenStore struct{}

func (brokenStore) MarkProcessed(context.Context, string, time.Duration) (bool, error) {
	return false, errors.New("redis down")
}
func (brokenStore) IsProcessed(context.Context, string) (bool, error) { return false, nil }
func (brokenStore) Close() error { return nil }

var fixedNow = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func lotAccepted(buyer string) notification.Payload {
	return notification.Payload{
		Type:        notification.TypeLotAccepted,
		EntityType:  "LotTransaction",
		EntityID:    "TXN-1",
		BatchCode:   "BATCH-COFFEE-1-F1",
		RecipientID: buyer,
		Title:       "Lot accepted",
	}
}

func newService(repo notification.Repository, store shared.IdempotencyStore, sinks ...notification.Sink) *DispatchService {
	return NewDispatchService(repo, store, zap.NewNop(),
		WithSinks(sinks...),
		WithClock(shared.ClockFunc(func() time.Time { return fixedNow })),
		WithDedupeTTL(time.Hour),
	)
}

func TestDispatchService_Notify(t *testing.T) {
	ctx := context.Background()

	t.Run("persists then fans out", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		repo.On("Save", ctx, mock.MatchedBy(func(n *notification.Notification) bool {
			return n.Role == notification.RoleBuyer && n.RecipientID == "B1" && n.CreatedAt.Equal(fixedNow)
		})).Return(nil).Once()
		store := cache.NewInMemoryIdempotencyStore(0)
		defer store.Close()
		logSink := &recordingSink{name: "log"}
		failing := &recordingSink{name: "webhook", err: errors.New("connection refused")}

		res := newService(repo, store, failing, logSink).Notify(ctx, notification.RoleBuyer, lotAccepted("B1"))

		assert.True(t, res.Accepted)
		assert.False(t, res.Duplicate)
		assert.NoError(t, res.Err)
		assert.Len(t, logSink.got, 1, "a failing sink does not stop the others")
		assert.Equal(t, res.NotificationID, logSink.got[0].ID)
		repo.AssertExpectations(t)
	})

	t.Run("second dispatch of the same key is suppressed", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		repo.On("Save", ctx, mock.Anything).Return(nil).Once()
		store := cache.NewInMemoryIdempotencyStore(0)
		defer store.Close()
		sink := &recordingSink{name: "log"}
		svc := newService(repo, store, sink)

		first := svc.Notify(ctx, notification.RoleBuyer, lotAccepted("B1"))
		second := svc.Notify(ctx, notification.RoleBuyer, lotAccepted("B1"))

		assert.True(t, first.Accepted)
		assert.True(t, second.Duplicate)
		assert.Len(t, sink.got, 1)
		repo.AssertNumberOfCalls(t, "Save", 1)
	})

	t.Run("distinct recipients are distinct keys", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		repo.On("Save", ctx, mock.Anything).Return(nil).Twice()
		store := cache.NewInMemoryIdempotencyStore(0)
		defer store.Close()
		svc := newService(repo, store)

		assert.True(t, svc.Notify(ctx, notification.RoleBuyer, lotAccepted("B1")).Accepted)
		assert.True(t, svc.Notify(ctx, notification.RoleBuyer, lotAccepted("B2")).Accepted)
		repo.AssertExpectations(t)
	})

	t.Run("unknown role is rejected without a record", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		res := newService(repo, nil).Notify(ctx, notification.Role("farmer"), lotAccepted(""))

		assert.False(t, res.Accepted)
		assert.True(t, shared.IsCode(res.Err, shared.CodeValidation))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("store failure still dispatches", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		repo.On("Save", ctx, mock.Anything).Return(nil).Once()
		res := newService(repo, brokenStore{}).Notify(ctx, notification.RoleExporter, lotAccepted(""))
		assert.True(t, res.Accepted)
	})

	t.Run("persist failure is reported, not raised", func(t *testing.T) {
		repo := new(MockNotificationRepository)
		repo.On("Save", ctx, mock.Anything).Return(errors.New("db gone")).Once()
		sink := &recordingSink{name: "log"}
		res := newService(repo, nil, sink).Notify(ctx, notification.RoleWarehouse, lotAccepted(""))

		assert.False(t, res.Accepted)
		assert.Error(t, res.Err)
		assert.Empty(t, sink.got)
	})
}

func TestNotifyAll_Receipt(t *testing.T) {
	ctx := context.Background()
	repo := new(MockNotificationRepository)
	repo.On("Save", ctx, mock.Anything).Return(nil)
	store := cache.NewInMemoryIdempotencyStore(0)
	defer store.Close()
	svc := newService(repo, store)

	payload := lotAccepted("")
	receipt := notification.NotifyAll(ctx, svc, payload,
		notification.RoleBuyer, notification.RoleLandInspector, notification.RoleRegulatorDDGOTS)
	assert.Equal(t, []string{"buyer", "land_inspector", "regulator_ddgots"}, receipt.Roles())

	again := notification.NotifyAll(ctx, svc, payload, notification.RoleBuyer)
	assert.Equal(t, notification.Notified, again["buyer"], "already notified still reports NOTIFIED")
	repo.AssertNumberOfCalls(t, "Save", 3)
}

func TestDedupeKey(t *testing.T) {
	p := notification.Payload{Type: notification.TypeBatchHarvested, BatchCode: "BATCH-1"}
	assert.Equal(t, "warehouse:batch_harvested:BATCH-1:", DedupeKey(notification.RoleWarehouse, p))

	p.EntityID = "SCH-010"
	p.RecipientID = "W-9"
	assert.Equal(t, "warehouse:batch_harvested:SCH-010:W-9", DedupeKey(notification.RoleWarehouse, p))
}

func TestInboxService_List(t *testing.T) {
	ctx := context.Background()
	repo := new(MockNotificationRepository)
	n := notification.NewNotification(notification.RoleBuyer, lotAccepted("B1"), fixedNow)
	repo.On("Find", ctx, notification.Query{Role: notification.RoleBuyer, BatchCode: "BATCH-COFFEE-1-F1"}, mock.Anything).
		Return([]notification.Notification{*n}, int64(1), nil)

	page, err := NewInboxService(repo).List(ctx, InboxFilter{Role: "buyer", BatchCode: "BATCH-COFFEE-1-F1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "lot_accepted", page.Items[0].Type)
	assert.Equal(t, 20, page.PageSize)

	_, err = NewInboxService(repo).List(ctx, InboxFilter{Role: "farmer"})
	assert.True(t, shared.IsCode(err, shared.CodeValidation))
}
