package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// JobStatus represents the outcome of the last run of a job
type JobStatus string

const (
	JobStatusPending JobStatus = "PENDING"
	JobStatusRunning JobStatus = "RUNNING"
	JobStatusSuccess JobStatus = "SUCCESS"
	JobStatusFailed  JobStatus = "FAILED"
)

// JobFunc is one unit of background work
type JobFunc func(ctx context.Context) error

// JobState is the observable state of a registered job
type JobState struct {
	Name      string
	Spec      string
	Status    JobStatus
	LastError string
	LastRunAt *time.Time
	NextRunAt *time.Time
	Runs      int
}

type job struct {
	name    string
	spec    string
	run     JobFunc
	entryID cron.EntryID

	mu    sync.Mutex
	state JobState
}

// Config holds scheduler configuration
type Config struct {
	// JobTimeout bounds a single run
	JobTimeout time.Duration
	Location   *time.Location
}

// DefaultConfig returns default scheduler configuration
func DefaultConfig() Config {
	return Config{
		JobTimeout: 5 * time.Minute,
		Location:   time.UTC,
	}
}

// Scheduler runs named jobs on cron expressions. Overlapping runs of the same
// job are skipped, and a panicking job is recovered.
type Scheduler struct {
	config Config
	cron   *cron.Cron
	logger *zap.Logger

	mu      sync.Mutex
	jobs    map[string]*job
	running bool
	ctx     context.Context
	cancel  context.CancelFunc
}

// New creates a scheduler
func New(config Config, logger *zap.Logger) *Scheduler {
	if config.JobTimeout <= 0 {
		config.JobTimeout = DefaultConfig().JobTimeout
	}
	if config.Location == nil {
		config.Location = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("scheduler")
	cl := cronLogger{logger: logger}
	return &Scheduler{
		config: config,
		cron: cron.New(
			cron.WithLocation(config.Location),
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		logger: logger,
		jobs:   make(map[string]*job),
	}
}

// Register adds a job under a unique name. spec accepts the standard five
// field format and descriptors such as "@every 15m".
func (s *Scheduler) Register(name, spec string, run JobFunc) error {
	if name == "" || run == nil {
		return ErrInvalidConfig
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("%w: job %q already registered", ErrInvalidConfig, name)
	}

	j := &job{name: name, spec: spec, run: run, state: JobState{Name: name, Spec: spec, Status: JobStatusPending}}
	id, err := s.cron.AddFunc(spec, func() { s.execute(j) })
	if err != nil {
		return fmt.Errorf("%w: job %q: %v", ErrInvalidConfig, name, err)
	}
	j.entryID = id
	s.jobs[name] = j
	return nil
}

// Start begins firing registered jobs
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return nil
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	s.running = true
	s.cron.Start()
	s.logger.Info("scheduler started", zap.Int("jobs", len(s.jobs)))
	return nil
}

// Stop halts the cron loop and waits for in-flight runs or ctx expiry
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = false
	cancel := s.cancel
	s.mu.Unlock()

	done := s.cron.Stop()
	select {
	case <-done.Done():
		cancel()
		s.logger.Info("scheduler stopped")
		return nil
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
}

// RunNow executes a registered job synchronously, outside its schedule
func (s *Scheduler) RunNow(name string) error {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return ErrJobNotFound
	}
	return s.execute(j)
}

// State reports the last known state of a job
func (s *Scheduler) State(name string) (JobState, bool) {
	s.mu.Lock()
	j, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return JobState{}, false
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	st := j.state
	if next := s.cron.Entry(j.entryID).Next; !next.IsZero() {
		st.NextRunAt = &next
	}
	return st, true
}

func (s *Scheduler) execute(j *job) error {
	s.mu.Lock()
	parent := s.ctx
	s.mu.Unlock()
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithTimeout(parent, s.config.JobTimeout)
	defer cancel()

	started := time.Now()
	j.mu.Lock()
	j.state.Status = JobStatusRunning
	j.state.LastRunAt = &started
	j.mu.Unlock()

	err := j.run(ctx)

	j.mu.Lock()
	j.state.Runs++
	if err != nil {
		j.state.Status = JobStatusFailed
		j.state.LastError = err.Error()
	} else {
		j.state.Status = JobStatusSuccess
		j.state.LastError = ""
	}
	j.mu.Unlock()

	if err != nil {
		s.logger.Error("scheduled job failed",
			zap.String("job", j.name),
			zap.Duration("duration", time.Since(started)),
			zap.Error(err))
		return err
	}
	s.logger.Debug("scheduled job completed",
		zap.String("job", j.name),
		zap.Duration("duration", time.Since(started)))
	return nil
}

// cronLogger adapts zap to cron.Logger
type cronLogger struct {
	logger *zap.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, zap.Any("details", keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, zap.Error(err), zap.Any("details", keysAndValues))
}
