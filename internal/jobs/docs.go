// Package jobs provides scheduled background tasks for the service order engine.
//
// This package implements cron-based jobs using github.com/robfig/cron/v3.
//
// # Available Jobs
//
// 1. FollowUpJob - Runs every second and fires the follow-up transitions that
// have come due: an ACCEPTED order is started after AUTO_START_AFTER and an
// IN_PROGRESS order is completed after AUTO_COMPLETE_AFTER.
//
// # Scheduling follow-ups
//
// FollowUpScheduler is a NotificationSink. It watches committed lifecycle
// events and queues the next transition with its due time:
//
//	scheduler := jobs.NewFollowUpScheduler(5*time.Minute, 30*time.Minute)
//	sink := notifications.FanOut{logSink, metricsSink, scheduler}
//
// A fired follow-up goes through the regular command handler, which checks the
// order's current status again. If the order was cancelled or already moved
// on, the handler returns InvalidStateTransition and the follow-up is dropped.
//
// # Usage
//
//	jobManager := jobs.NewJobManager(jobs.NewFollowUpJob(scheduler, startHandler, completeHandler, logger))
//	if err := jobManager.StartAll(); err != nil {
//		return err
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// - Follow-ups rejected by the state machine are expected and logged at debug level
// - Any other failure is logged as an error and the follow-up is not retried
package jobs
