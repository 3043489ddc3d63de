package services

import (
	"time"

	"serviceorders/internal/core/domain/model/order"
)

// RatingManager validates the client's evaluation: score 1 to 5 and an optional
// comment of at most 500 characters.
type RatingManager struct{}

func NewRatingManager() RatingManager {
	return RatingManager{}
}

func (RatingManager) Prepare(score int, comment string, now time.Time) (order.Rating, error) {
	return order.NewRating(score, comment, now)
}
