package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
// Provides a unified interface to start and stop all background jobs.
type JobManager struct {
	followUpJob *FollowUpJob
}

// NewJobManager creates a job manager. A nil followUpJob means follow-ups are
// disabled and StartAll has nothing to start.
func NewJobManager(followUpJob *FollowUpJob) *JobManager {
	return &JobManager{
		followUpJob: followUpJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if jm.followUpJob == nil {
		return nil
	}
	if err := jm.followUpJob.Start(); err != nil {
		return fmt.Errorf("failed to start follow-up job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	if jm.followUpJob != nil {
		jm.followUpJob.Stop()
	}
}
