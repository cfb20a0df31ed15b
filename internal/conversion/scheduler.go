package conversion

import (
	"context"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const defaultWarmInterval = 5 * time.Minute

type SnapshotWarmer interface {
	WarmSnapshot(ctx context.Context, execID string) error
}

type Scheduler struct {
	warmer       SnapshotWarmer
	warmInterval time.Duration
	// -----
	mu    sync.Mutex
	sched gocron.Scheduler
}

func (s *Scheduler) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return err
	}

	job := func(jobCtx context.Context) {
		execID := uuid.NewString()
		if warmErr := s.warmer.WarmSnapshot(jobCtx, execID); warmErr != nil {
			logrus.Errorf("Warm snapshot job %s failed: %v", execID, warmErr)
		}
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(s.warmInterval),
		gocron.NewTask(job),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return err
	}

	s.mu.Lock()
	s.sched = scheduler
	s.mu.Unlock()
	scheduler.Start()

	// Stop scheduler when the provided context is canceled.
	go func() {
		<-ctx.Done()
		if sdErr := s.Shutdown(); sdErr != nil {
			logrus.Errorf("Scheduler shutdown error: %v", sdErr)
		}
	}()
	return nil
}

func (s *Scheduler) Shutdown() error {
	s.mu.Lock()
	sched := s.sched
	s.sched = nil
	s.mu.Unlock()

	if sched == nil {
		return nil
	}
	return sched.Shutdown()
}

func (s *Scheduler) running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sched != nil
}

func NewScheduler(warmer SnapshotWarmer, warmInterval time.Duration) *Scheduler {
	if warmInterval <= 0 {
		warmInterval = defaultWarmInterval
	}
	return &Scheduler{warmer: warmer, warmInterval: warmInterval}
}
