package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// BookingSweepJob is the name of the daily booking completion job
const BookingSweepJob = "complete-past-bookings"

// bookingSweepTimeout bounds a single run of the sweep
const bookingSweepTimeout = 5 * time.Minute

// JobRun describes the most recent execution of a job
type JobRun struct {
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration_ns"`
	Affected  int64         `json:"affected"`
	Error     string        `json:"error,omitempty"`
}

// CronService manages scheduled background jobs
type CronService struct {
	cron       *cron.Cron
	bookingSvc *BookingService
	schedule   string
	logger     *logrus.Logger

	mu      sync.Mutex
	running bool
	entries map[string]cron.EntryID
	lastRun map[string]JobRun
}

// NewCronService creates a new CronService. schedule uses the six-field
// format with seconds, e.g. "0 0 0 * * *" for daily at midnight.
func NewCronService(bookingSvc *BookingService, schedule string, logger *logrus.Logger) *CronService {
	return &CronService{
		cron:       cron.New(cron.WithSeconds()),
		bookingSvc: bookingSvc,
		schedule:   schedule,
		logger:     logger,
		entries:    make(map[string]cron.EntryID),
		lastRun:    make(map[string]JobRun),
	}
}

// Start schedules all jobs and starts the scheduler
func (s *CronService) Start() error {
	s.logger.Info("Starting cron service...")

	id, err := s.cron.AddFunc(s.schedule, s.completePastBookingsJob)
	if err != nil {
		return fmt.Errorf("failed to schedule %s job: %w", BookingSweepJob, err)
	}

	s.mu.Lock()
	s.entries[BookingSweepJob] = id
	s.mu.Unlock()

	s.logger.WithFields(logrus.Fields{
		"job":      BookingSweepJob,
		"schedule": s.schedule,
	}).Info("Scheduled cron job")

	s.cron.Start()

	s.mu.Lock()
	s.running = true
	s.mu.Unlock()

	s.logger.Info("Cron service started")

	return nil
}

// Stop stops the scheduler and waits for running jobs to finish
func (s *CronService) Stop() {
	s.logger.Info("Stopping cron service...")
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.mu.Lock()
	s.running = false
	s.mu.Unlock()

	s.logger.Info("Cron service stopped")
}

// completePastBookingsJob marks every elapsed booked booking as completed.
// Failures are logged and the next scheduled run tries again.
func (s *CronService) completePastBookingsJob() {
	ctx, cancel := context.WithTimeout(context.Background(), bookingSweepTimeout)
	defer cancel()

	s.runCompletePastBookings(ctx)
}

func (s *CronService) runCompletePastBookings(ctx context.Context) JobRun {
	run := JobRun{StartedAt: time.Now()}

	completed, err := s.bookingSvc.RefreshCompletedBookings(ctx)
	run.Duration = time.Since(run.StartedAt)
	run.Affected = completed

	entry := s.logger.WithFields(logrus.Fields{
		"job":      BookingSweepJob,
		"duration": run.Duration.String(),
	})
	if err != nil {
		run.Error = err.Error()
		entry.WithError(err).Error("[CRON] Failed to complete past bookings")
	} else {
		entry.WithField("completed", completed).Info("[CRON] Completed past bookings")
	}

	s.mu.Lock()
	s.lastRun[BookingSweepJob] = run
	s.mu.Unlock()

	return run
}

// RunCompleteBookingsNow runs the booking sweep immediately
func (s *CronService) RunCompleteBookingsNow(ctx context.Context) JobRun {
	s.logger.WithField("job", BookingSweepJob).Info("[MANUAL] Running job now")
	return s.runCompletePastBookings(ctx)
}

// GetJobStatus returns the status of scheduled jobs
func (s *CronService) GetJobStatus() map[string]interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()

	jobs := make([]map[string]interface{}, 0, len(s.entries))
	for name, id := range s.entries {
		entry := s.cron.Entry(id)
		job := map[string]interface{}{
			"name":     name,
			"schedule": s.schedule,
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		}
		if run, ok := s.lastRun[name]; ok {
			job["last_run"] = run
		}
		jobs = append(jobs, job)
	}

	return map[string]interface{}{
		"running":   s.running,
		"job_count": len(s.entries),
		"jobs":      jobs,
	}
}
