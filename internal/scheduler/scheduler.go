package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

// Pinger is the probe side of an LLM backend client.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// Scheduler periodically probes the LLM backend so that query handling can
// skip an unreachable backend instead of paying its timeout on every query.
type Scheduler struct {
	scheduler *gocron.Scheduler
	pinger    Pinger
	interval  time.Duration
	onResult  func(ok bool)
}

// New creates a new Scheduler. onResult receives the outcome of every probe.
func New(pinger Pinger, interval time.Duration, onResult func(ok bool)) *Scheduler {
	s := gocron.NewScheduler(time.UTC)
	return &Scheduler{
		scheduler: s,
		pinger:    pinger,
		interval:  interval,
		onResult:  onResult,
	}
}

// Start schedules the periodic probe and starts the underlying scheduler.
func (s *Scheduler) Start() error {
	if s.pinger == nil {
		log.Println("scheduler: no LLM backend configured; nothing to probe")
		return nil
	}

	seconds := int(s.interval.Seconds())
	if seconds <= 0 {
		seconds = 60
	}

	_, err := s.scheduler.Every(seconds).Seconds().Do(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := s.pinger.Ping(ctx)
		if err != nil {
			log.Printf("scheduler: %s probe failed: %v", s.pinger.Name(), err)
		}
		s.onResult(err == nil)
	})
	if err != nil {
		return err
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler and cancels any future probes.
func (s *Scheduler) Stop() {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
}
