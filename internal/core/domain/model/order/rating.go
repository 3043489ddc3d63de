package order

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"serviceorders/internal/pkg/errs"
	"serviceorders/internal/pkg/guard"
)

const (
	MinScore         = 1
	MaxScore         = 5
	MaxCommentLength = 500
)

var ErrRatingIsNotConstructed = errs.NewValueIsRequiredError("rating must be created via NewRating")

// Rating is the client's final evaluation of the professional.
type Rating struct {
	score   int
	comment string
	ratedAt time.Time

	guard guard.ConstructorGuard
}

func NewRating(score int, comment string, ratedAt time.Time) (Rating, error) {
	comment = strings.TrimSpace(comment)

	var problems []error
	if score < MinScore || score > MaxScore {
		problems = append(problems, errs.NewValueIsOutOfRangeError("score", score, MinScore, MaxScore))
	}
	if n := utf8.RuneCountInString(comment); n > MaxCommentLength {
		problems = append(problems, errs.NewValueIsOutOfRangeError("comment length", n, 0, MaxCommentLength))
	}
	if err := errors.Join(problems...); err != nil {
		return Rating{}, err
	}

	return Rating{score: score, comment: comment, ratedAt: ratedAt, guard: guard.NewConstructorGuard()}, nil
}

func (r Rating) Validate() error {
	return r.guard.Validate(ErrRatingIsNotConstructed)
}

func (r Rating) Score() int {
	return r.score
}

// Comment may be empty.
func (r Rating) Comment() string {
	return r.comment
}

func (r Rating) RatedAt() time.Time {
	return r.ratedAt
}
