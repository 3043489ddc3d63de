package order

import (
	"fmt"
	"strings"

	"serviceorders/internal/pkg/errs"
)

// ServiceType says whether the work is wanted now or on a scheduled date.
type ServiceType string

const (
	Immediate ServiceType = "IMMEDIATE"
	Scheduled ServiceType = "SCHEDULED"
)

func ParseServiceType(s string) (ServiceType, error) {
	t := ServiceType(strings.ToUpper(strings.TrimSpace(s)))
	if err := t.Validate(); err != nil {
		return "", err
	}
	return t, nil
}

func (t ServiceType) Validate() error {
	switch t {
	case Immediate, Scheduled:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("serviceType", fmt.Errorf("%q is not IMMEDIATE or SCHEDULED", string(t)))
	}
}

func (t ServiceType) String() string {
	return string(t)
}

// Urgency is the priority the client attaches to the request.
type Urgency string

const (
	Low       Urgency = "LOW"
	Medium    Urgency = "MEDIUM"
	High      Urgency = "HIGH"
	Emergency Urgency = "EMERGENCY"
)

func ParseUrgency(s string) (Urgency, error) {
	u := Urgency(strings.ToUpper(strings.TrimSpace(s)))
	if err := u.Validate(); err != nil {
		return "", err
	}
	return u, nil
}

func (u Urgency) Validate() error {
	switch u {
	case Low, Medium, High, Emergency:
		return nil
	default:
		return errs.NewValueIsInvalidErrorWithCause("urgency", fmt.Errorf("%q is not one of LOW, MEDIUM, HIGH, EMERGENCY", string(u)))
	}
}

func (u Urgency) String() string {
	return string(u)
}
