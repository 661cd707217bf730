package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/docqa/internal/common"
	"github.com/ternarybob/docqa/internal/interfaces"
)

// jobEntry represents a registered job with metadata
type jobEntry struct {
	name        string
	schedule    string
	description string
	handler     func() error
	cronID      cron.EntryID
	lastRun     *time.Time
	isRunning   bool
	lastError   string
}

// Service runs background maintenance jobs on cron schedules
type Service struct {
	cron    *cron.Cron
	logger  arbor.ILogger
	jobMu   sync.Mutex // Protects jobs map
	jobs    map[string]*jobEntry
	running bool
}

var _ interfaces.SchedulerService = (*Service)(nil)

// NewService creates a new scheduler service
func NewService(logger arbor.ILogger) *Service {
	return &Service{
		cron:   cron.New(),
		logger: logger,
		jobs:   make(map[string]*jobEntry),
	}
}

// RegisterJob adds a job that runs handler on schedule. A job never overlaps itself.
func (s *Service) RegisterJob(name, schedule, description string, handler func() error) error {
	if err := common.ValidateSchedule(schedule); err != nil {
		return fmt.Errorf("job %s: %w", name, err)
	}

	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	if _, exists := s.jobs[name]; exists {
		return fmt.Errorf("job %s already registered", name)
	}

	entry := &jobEntry{
		name:        name,
		schedule:    schedule,
		description: description,
		handler:     handler,
	}

	id, err := s.cron.AddFunc(schedule, func() { s.executeJob(name) })
	if err != nil {
		return fmt.Errorf("failed to add cron job %s: %w", name, err)
	}
	entry.cronID = id
	s.jobs[name] = entry

	s.logger.Info().
		Str("job", name).
		Str("schedule", schedule).
		Msg("Scheduled job registered")

	return nil
}

// Start begins executing registered jobs
func (s *Service) Start() error {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	if s.running {
		return fmt.Errorf("scheduler already running")
	}

	s.cron.Start()
	s.running = true
	s.logger.Info().Int("jobs", len(s.jobs)).Msg("Scheduler started")

	return nil
}

// Stop halts the scheduler and waits for running jobs to finish
func (s *Service) Stop() error {
	s.jobMu.Lock()
	if !s.running {
		s.jobMu.Unlock()
		return nil
	}
	s.running = false
	s.jobMu.Unlock()

	<-s.cron.Stop().Done()
	s.logger.Info().Msg("Scheduler stopped")

	return nil
}

// TriggerJob runs a job immediately, outside its schedule
func (s *Service) TriggerJob(name string) error {
	s.jobMu.Lock()
	_, exists := s.jobs[name]
	s.jobMu.Unlock()

	if !exists {
		return fmt.Errorf("job %s not found", name)
	}

	s.executeJob(name)
	return nil
}

// GetJobStatus returns a snapshot of a job
func (s *Service) GetJobStatus(name string) (*interfaces.JobStatus, error) {
	s.jobMu.Lock()
	defer s.jobMu.Unlock()

	entry, exists := s.jobs[name]
	if !exists {
		return nil, fmt.Errorf("job %s not found", name)
	}

	status := &interfaces.JobStatus{
		Name:        entry.name,
		Schedule:    entry.schedule,
		Description: entry.description,
		LastRun:     entry.lastRun,
		IsRunning:   entry.isRunning,
		LastError:   entry.lastError,
	}
	if s.running {
		if next := s.cron.Entry(entry.cronID).Next; !next.IsZero() {
			status.NextRun = &next
		}
	}

	return status, nil
}

func (s *Service) executeJob(name string) {
	s.jobMu.Lock()
	entry, exists := s.jobs[name]
	if !exists || entry.isRunning {
		s.jobMu.Unlock()
		if exists {
			s.logger.Debug().Str("job", name).Msg("Job still running, skipping this run")
		}
		return
	}
	entry.isRunning = true
	s.jobMu.Unlock()

	start := time.Now()
	err := runHandler(entry.handler)

	s.jobMu.Lock()
	entry.isRunning = false
	entry.lastRun = &start
	entry.lastError = ""
	if err != nil {
		entry.lastError = err.Error()
	}
	s.jobMu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Str("job", name).Dur("duration", time.Since(start)).Msg("Scheduled job failed")
		return
	}

	s.logger.Debug().Str("job", name).Dur("duration", time.Since(start)).Msg("Scheduled job completed")
}

// runHandler converts a handler panic into an error so the job is not left marked running
func runHandler(handler func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job panicked: %v", r)
		}
	}()
	return handler()
}
