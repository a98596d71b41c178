// Package scheduler runs the periodic exhibition expiry check.
//
// Once per CheckInterval the scheduler asks the collection to flag every
// exhibition whose last day is before today and raises one warning per
// flagged photo. The flag is set inside the collection before the warning is
// sent, so a failing notifier loses the message instead of repeating it.
// Expiry is advisory: photos stay on exhibition until returned home.
package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cppla/fotos/models"
	"github.com/cppla/fotos/notify"
)

// CheckInterval is the fixed period between expiry checks.
const CheckInterval = time.Second

var ErrAlreadyRunning = errors.New("exhibition scheduler already running")

// Expirer flags ended exhibitions and returns the photos that flipped.
type Expirer interface {
	ExpireDue(today models.Date) []models.PhotoRecord
}

// Scheduler owns the recurring expiry check.
type Scheduler struct {
	expirer  Expirer
	notifier notify.Notifier
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
	interval time.Duration

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Scheduler.
type Option func(*Scheduler)

func WithLogger(logger *zap.Logger) Option {
	return func(s *Scheduler) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithLocation sets the zone that decides when a day ends.
func WithLocation(loc *time.Location) Option {
	return func(s *Scheduler) {
		if loc != nil {
			s.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds a scheduler; it does nothing until Start.
func New(expirer Expirer, notifier notify.Notifier, opts ...Option) *Scheduler {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	s := &Scheduler{
		expirer:  expirer,
		notifier: notifier,
		logger:   zap.NewNop(),
		loc:      time.Local,
		now:      time.Now,
		interval: CheckInterval,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start launches the check loop. It runs until ctx is done or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return ErrAlreadyRunning
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx, s.done)
	s.logger.Info("exhibition scheduler started", zap.Duration("interval", s.interval))
	return nil
}

// Stop cancels the loop and waits for the running check to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	s.logger.Info("exhibition scheduler stopped")
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick runs one expiry check against the scheduler clock.
func (s *Scheduler) Tick(ctx context.Context) []models.PhotoRecord {
	return s.CheckAt(ctx, s.now())
}

// CheckAt runs one expiry check as if the current time were now and returns
// the photos that were flagged.
func (s *Scheduler) CheckAt(ctx context.Context, now time.Time) []models.PhotoRecord {
	today := models.Today(now, s.loc)
	expired := s.expirer.ExpireDue(today)
	for _, photo := range expired {
		if err := s.notifier.Notify(ctx, notify.ExhibitionEnded(photo)); err != nil {
			s.logger.Warn("exhibition end notification failed",
				zap.Int64("photo_id", photo.ID),
				zap.Error(err),
			)
			continue
		}
		s.logger.Info("exhibition ended",
			zap.Int64("photo_id", photo.ID),
			zap.String("name", photo.Name),
			zap.String("today", today.String()),
		)
	}
	return expired
}
