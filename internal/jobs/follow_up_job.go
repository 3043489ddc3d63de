package jobs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"serviceorders/internal/core/application/usecases/commands"
	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/pkg/errs"

	"github.com/robfig/cron/v3"
)

const followUpTickTimeout = 10 * time.Second

type (
	MarkInProgressHandler interface {
		Handle(ctx context.Context, cmd commands.MarkInProgressCommand) error
	}

	MarkCompletedHandler interface {
		Handle(ctx context.Context, cmd commands.MarkCompletedCommand) error
	}
)

// FollowUpJob fires due follow-ups through the regular command handlers.
// Runs every second.
type FollowUpJob struct {
	scheduler       *FollowUpScheduler
	startHandler    MarkInProgressHandler
	completeHandler MarkCompletedHandler
	now             func() time.Time
	cron            *cron.Cron
	logger          *slog.Logger
}

func NewFollowUpJob(
	scheduler *FollowUpScheduler,
	startHandler MarkInProgressHandler,
	completeHandler MarkCompletedHandler,
	logger *slog.Logger,
) *FollowUpJob {
	return &FollowUpJob{
		scheduler:       scheduler,
		startHandler:    startHandler,
		completeHandler: completeHandler,
		now:             time.Now,
		cron:            cron.New(cron.WithSeconds()),
		logger:          logger.With("component", "follow_up_job"),
	}
}

// WithClock replaces the clock used to decide which follow-ups are due.
func (j *FollowUpJob) WithClock(now func() time.Time) *FollowUpJob {
	j.now = now
	return j
}

// Start begins firing due follow-ups every second.
func (j *FollowUpJob) Start() error {
	_, err := j.cron.AddFunc("* * * * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), followUpTickTimeout)
		defer cancel()
		j.RunDue(ctx)
	})
	if err != nil {
		return err
	}

	j.cron.Start()
	j.logger.InfoContext(context.Background(), "Follow-up job started (running every second)")
	return nil
}

// Stop stops the job and waits for a running tick to finish.
func (j *FollowUpJob) Stop() {
	<-j.cron.Stop().Done()
	j.logger.InfoContext(context.Background(), "Follow-up job stopped")
}

// RunDue fires every follow-up that is due now and returns how many succeeded.
func (j *FollowUpJob) RunDue(ctx context.Context) int {
	fired := 0
	for _, f := range j.scheduler.PopDue(j.now()) {
		err := j.fire(ctx, f)
		switch {
		case err == nil:
			fired++
			j.logger.InfoContext(ctx, "Follow-up applied",
				"order_id", f.OrderID.String(), "operation", f.Operation.String())
		case errors.Is(err, errs.ErrInvalidStateTransition):
			j.logger.DebugContext(ctx, "Follow-up no longer applicable",
				"order_id", f.OrderID.String(), "operation", f.Operation.String(), "error", err)
		default:
			j.logger.ErrorContext(ctx, "Follow-up failed",
				"order_id", f.OrderID.String(), "operation", f.Operation.String(), "error", err)
		}
	}
	return fired
}

func (j *FollowUpJob) fire(ctx context.Context, f FollowUp) error {
	switch f.Operation {
	case order.MarkInProgress:
		cmd, err := commands.NewMarkInProgressCommand(f.OrderID)
		if err != nil {
			return err
		}
		return j.startHandler.Handle(ctx, cmd)
	case order.MarkCompleted:
		cmd, err := commands.NewMarkCompletedCommand(f.OrderID)
		if err != nil {
			return err
		}
		return j.completeHandler.Handle(ctx, cmd)
	default:
		return fmt.Errorf("unsupported follow-up operation %s", f.Operation)
	}
}
