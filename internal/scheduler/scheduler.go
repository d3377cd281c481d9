package scheduler

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers independent runs on a cron schedule.
type Scheduler struct {
	Cron   *cron.Cron
	Runner *Runner
	Ctx    context.Context
}

// NewScheduler creates a new Scheduler. Cron specs include a seconds field.
func NewScheduler(ctx context.Context, runner *Runner) *Scheduler {
	return &Scheduler{
		Cron:   cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		Runner: runner,
		Ctx:    ctx,
	}
}

// Register adds the check task under spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.checkTask); err != nil {
		return fmt.Errorf("register check task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler and waits for a running check to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the check immediately (RUN_ON_START).
func (s *Scheduler) RunNow() {
	s.checkTask()
}

func (s *Scheduler) checkTask() {
	ack, err := s.Runner.RunOnce(s.Ctx)
	if err != nil {
		log.Printf("[ERROR] check run failed: %v", err)
		return
	}
	log.Printf("[INFO] check run complete: outcome=%s", ack.Outcome)
}
