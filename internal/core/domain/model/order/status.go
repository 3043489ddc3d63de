package order

import (
	"fmt"
	"strings"

	"serviceorders/internal/pkg/errs"
)

// Status is the lifecycle position of an order.
//
// State transitions:
//
//	Pending ──> Quoted ──> Accepted ──> InProgress ──> Completed ──> Paid ──> Rated
//	   │           │
//	   └───────────┴──> Cancelled
//
// Rated and Cancelled are terminal.
type Status int

const (
	// Unknown catches uninitialized values; it is never a valid status.
	Unknown Status = iota
	Pending
	Quoted
	Accepted
	InProgress
	Completed
	Paid
	Rated
	Cancelled
)

var statusNames = map[Status]string{
	Pending:    "PENDING",
	Quoted:     "QUOTED",
	Accepted:   "ACCEPTED",
	InProgress: "IN_PROGRESS",
	Completed:  "COMPLETED",
	Paid:       "PAID",
	Rated:      "RATED",
	Cancelled:  "CANCELLED",
}

// Operation names a lifecycle transition requested by a caller.
type Operation int

const (
	SubmitQuotation Operation = iota + 1
	AcceptQuotation
	MarkInProgress
	MarkCompleted
	ProcessPayment
	SubmitRating
	Cancel
)

var operationNames = map[Operation]string{
	SubmitQuotation: "submit_quotation",
	AcceptQuotation: "accept_quotation",
	MarkInProgress:  "mark_in_progress",
	MarkCompleted:   "mark_completed",
	ProcessPayment:  "process_payment",
	SubmitRating:    "submit_rating",
	Cancel:          "cancel",
}

func (op Operation) String() string {
	if name, ok := operationNames[op]; ok {
		return name
	}
	return fmt.Sprintf("operation(%d)", int(op))
}

// transitions is the whole state machine: (current status, operation) -> target status.
// Adding a state or an operation is an edit to this table only.
var transitions = map[Status]map[Operation]Status{
	Pending: {
		SubmitQuotation: Quoted,
		Cancel:          Cancelled,
	},
	Quoted: {
		AcceptQuotation: Accepted,
		Cancel:          Cancelled,
	},
	Accepted: {
		MarkInProgress: InProgress,
	},
	InProgress: {
		MarkCompleted: Completed,
	},
	Completed: {
		ProcessPayment: Paid,
	},
	Paid: {
		SubmitRating: Rated,
	},
}

// ParseStatus converts the persisted/API name of a status back to its value.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for status, name := range statusNames {
		if name == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
}

// Validate rejects Unknown and any value outside the declared set.
func (s Status) Validate() error {
	if _, ok := statusNames[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String returns the upper-case name used in storage and the API, or "UNKNOWN".
func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// Next returns the status reached by applying op from s, or an
// InvalidStateTransitionError when the table has no such edge.
func (s Status) Next(op Operation) (Status, error) {
	if next, ok := transitions[s][op]; ok {
		return next, nil
	}
	return Unknown, errs.NewInvalidStateTransitionError("", op.String(), s.String())
}

// Allows reports whether op is permitted from s.
func (s Status) Allows(op Operation) bool {
	_, ok := transitions[s][op]
	return ok
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Rated || s == Cancelled
}

// ValidateSubRecords checks which optional sub-records an order in status s
// must carry:
//   - quotation: Quoted and every later status; optional for Cancelled (a quoted order can be cancelled)
//   - payment: Paid and Rated only
//   - rating: Rated only
func (s Status) ValidateSubRecords(hasQuotation, hasPayment, hasRating bool) error {
	var wantQuotation bool
	switch s { //nolint:exhaustive // remaining statuses carry no quotation
	case Quoted, Accepted, InProgress, Completed, Paid, Rated:
		wantQuotation = true
	case Cancelled:
		wantQuotation = hasQuotation
	}
	wantPayment := s == Paid || s == Rated
	wantRating := s == Rated

	check := func(name string, want, has bool) error {
		if want == has {
			return nil
		}
		if want {
			return errs.NewValueIsRequiredErrorWithCause(name, fmt.Errorf("status %s requires a %s", s, name))
		}
		return errs.NewValueIsInvalidErrorWithCause(name, fmt.Errorf("status %s cannot carry a %s", s, name))
	}

	if err := check("quotation", wantQuotation, hasQuotation); err != nil {
		return err
	}
	if err := check("payment", wantPayment, hasPayment); err != nil {
		return err
	}
	return check("rating", wantRating, hasRating)
}
