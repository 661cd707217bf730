package interfaces

import "time"

// JobStatus is a snapshot of a scheduled job
type JobStatus struct {
	Name        string     `json:"name"`
	Schedule    string     `json:"schedule"`
	Description string     `json:"description"`
	LastRun     *time.Time `json:"last_run,omitempty"`
	NextRun     *time.Time `json:"next_run,omitempty"`
	IsRunning   bool       `json:"is_running"`
	LastError   string     `json:"last_error,omitempty"`
}

// SchedulerService runs background jobs on cron schedules
type SchedulerService interface {
	// RegisterJob adds a job; schedule is a five-field cron expression
	RegisterJob(name, schedule, description string, handler func() error) error

	// Start begins firing registered jobs
	Start() error

	// Stop waits for running jobs to finish
	Stop() error

	// TriggerJob runs a job now, outside its schedule
	TriggerJob(name string) error

	// GetJobStatus returns the status of a specific job
	GetJobStatus(name string) (*JobStatus, error)
}
