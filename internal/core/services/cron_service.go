package services

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// scheduledSweepTimeout bounds one scheduled overdue sweep
const scheduledSweepTimeout = time.Minute

// CronService runs scheduled background jobs
type CronService struct {
	cron     *cron.Cron
	overdue  *OverdueService
	schedule string
}

// NewCronService creates a new cron service. An empty schedule disables the overdue job.
func NewCronService(overdue *OverdueService, schedule string) *CronService {
	return &CronService{
		cron: cron.New(cron.WithChain(
			cron.Recover(cron.DefaultLogger),
			cron.SkipIfStillRunning(cron.DefaultLogger),
		)),
		overdue:  overdue,
		schedule: schedule,
	}
}

// Start registers the jobs and starts the scheduler
func (s *CronService) Start() error {
	if s.schedule == "" {
		log.Println("⚠️ Scheduled overdue sweep disabled")
		return nil
	}

	if _, err := s.cron.AddFunc(s.schedule, s.runOverdueSweep); err != nil {
		return err
	}
	s.cron.Start()

	log.Printf("🚀 CronService started [overdue sweep: %s]", s.schedule)
	return nil
}

// Stop waits for running jobs and stops the scheduler
func (s *CronService) Stop() {
	<-s.cron.Stop().Done()
	log.Println("🛑 CronService stopped")
}

func (s *CronService) runOverdueSweep() {
	ctx, cancel := context.WithTimeout(context.Background(), scheduledSweepTimeout)
	defer cancel()

	n, err := s.overdue.Sweep(ctx)
	if err != nil {
		log.Printf("❌ Scheduled overdue sweep failed: %v", err)
		return
	}
	if n > 0 {
		log.Printf("⏰ Scheduled overdue sweep marked %d key(s)", n)
	}
}
