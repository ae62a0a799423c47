package notification

import (
	"context"
	"strings"
	"time"

	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/notification"
	"github.com/polipus2025/POLIPUS-PLATFORM-sub004/internal/domain/shared"
	"go.uber.org/zap"
)

// DispatchService persists each notification and fans it out to the sinks.
// Delivery is at most once per dedupe key and never fails the caller.
type DispatchService struct {
	repo   notification.Repository
	store  shared.IdempotencyStore
	sinks  []notification.Sink
	ttl    time.Duration
	clock  shared.Clock
	logger *zap.Logger
}

// DispatchOption configures a DispatchService
type DispatchOption func(*DispatchService)

// WithSinks sets the delivery sinks
func WithSinks(sinks ...notification.Sink) DispatchOption {
	return func(s *DispatchService) { s.sinks = sinks }
}

// WithDedupeTTL sets how long a dispatch key suppresses repeats
func WithDedupeTTL(ttl time.Duration) DispatchOption {
	return func(s *DispatchService) { s.ttl = ttl }
}

// WithClock overrides the wall clock
func WithClock(c shared.Clock) DispatchOption {
	return func(s *DispatchService) { s.clock = c }
}

// NewDispatchService creates the dispatcher
func NewDispatchService(repo notification.Repository, store shared.IdempotencyStore, logger *zap.Logger, opts ...DispatchOption) *DispatchService {
	s := &DispatchService{
		repo:   repo,
		store:  store,
		ttl:    24 * time.Hour,
		clock:  shared.SystemClock{},
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// DedupeKey identifies one logical notification: role, type, entity and recipient
func DedupeKey(role notification.Role, p notification.Payload) string {
	entity := p.EntityID
	if entity == "" {
		entity = p.BatchCode
	}
	return strings.Join([]string{string(role), string(p.Type), entity, p.RecipientID}, ":")
}

// Notify implements notification.Dispatcher
func (s *DispatchService) Notify(ctx context.Context, role notification.Role, p notification.Payload) notification.DispatchResult {
	res := notification.DispatchResult{Role: role}
	if !role.IsValid() {
		res.Err = shared.NewValidationError("unknown notification role %q", role)
		s.logger.Warn("notification rejected", zap.String("role", string(role)), zap.String("type", string(p.Type)))
		return res
	}

	log := s.logger.With(
		zap.String("role", string(role)),
		zap.String("type", string(p.Type)),
		zap.String("batch_code", p.BatchCode),
	)

	key := DedupeKey(role, p)
	if s.store != nil {
		fresh, err := s.store.MarkProcessed(ctx, key, s.ttl)
		switch {
		case err != nil:
			// dedupe unavailable: deliver anyway
			log.Warn("notification dedupe check failed", zap.Error(err))
		case !fresh:
			log.Debug("duplicate notification suppressed", zap.String("key", key))
			res.Duplicate = true
			return res
		}
	}

	n := notification.NewNotification(role, p, s.clock.Now())
	if err := s.repo.Save(ctx, n); err != nil {
		log.Error("failed to persist notification", zap.Error(err))
		res.Err = err
		return res
	}
	res.Accepted = true
	res.NotificationID = n.ID

	for _, sink := range s.sinks {
		if err := sink.Deliver(ctx, n); err != nil {
			log.Warn("notification sink failed",
				zap.String("sink", sink.Name()),
				zap.String("notification_id", n.ID.String()),
				zap.Error(err),
			)
		}
	}
	return res
}

var _ notification.Dispatcher = (*DispatchService)(nil)
