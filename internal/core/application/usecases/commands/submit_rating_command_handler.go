package commands

import (
	"context"
	"time"

	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/core/domain/services"
)

// SubmitRatingCommandHandler moves a Paid order to Rated. Rated is terminal, so
// rating an order twice fails with an invalid state transition.
type SubmitRatingCommandHandler struct {
	runner *TransitionRunner
	rating services.RatingManager
}

func NewSubmitRatingCommandHandler(runner *TransitionRunner) SubmitRatingCommandHandler {
	return SubmitRatingCommandHandler{runner: runner, rating: services.NewRatingManager()}
}

func (h SubmitRatingCommandHandler) Handle(ctx context.Context, cmd SubmitRatingCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	return h.runner.run(ctx, cmd.OrderID(), order.SubmitRating, func(_ context.Context, o *order.Order, now time.Time) error {
		r, err := h.rating.Prepare(cmd.Score(), cmd.Comment(), now)
		if err != nil {
			return err
		}
		return o.Rate(r)
	})
}
