package commands

import (
	"errors"
	"time"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/core/domain/model/order"
	"serviceorders/internal/pkg/errs"
	"serviceorders/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

var errCoordinatesIncomplete = errs.NewValueIsRequiredErrorWithCause(
	"coordinates", errors.New("latitude and longitude must be given together"))

// CreateOrderParams is the raw request of a client.
type CreateOrderParams struct {
	ClientID       string
	ProfessionalID string
	ServiceType    string
	Description    string
	Address        string
	Latitude       *float64
	Longitude      *float64
	Photos         []string
	ScheduledDate  *time.Time
	Urgency        string
}

// CreateOrderCommand represents a client asking a professional for a service.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(CreateOrderParams{
//	    ClientID:       "C1",
//	    ProfessionalID: "P1",
//	    ServiceType:    "IMMEDIATE",
//	    Description:    "Leak repair",
//	    Address:        "Av. Reforma 222, CDMX",
//	    Urgency:        "HIGH",
//	})
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//	id, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	params order.NewOrderParams

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand parses the enumerations and the location. Field rules
// that belong to the aggregate (required ids, photo URIs, schedule consistency)
// are checked when the order is built.
func NewCreateOrderCommand(p CreateOrderParams) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
		params: order.NewOrderParams{
			ClientID:       p.ClientID,
			ProfessionalID: p.ProfessionalID,
			Description:    p.Description,
			Photos:         append([]string(nil), p.Photos...),
			ScheduledDate:  p.ScheduledDate,
		},
	}

	if err := errors.Join(
		cmd.setServiceType(p.ServiceType),
		cmd.setUrgency(p.Urgency),
		cmd.setLocation(p.Address, p.Latitude, p.Longitude),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

// Params returns the parsed fields for order.NewOrder.
func (c CreateOrderCommand) Params() order.NewOrderParams {
	p := c.params
	p.Photos = append([]string(nil), c.params.Photos...)
	return p
}

func (c *CreateOrderCommand) setServiceType(raw string) error {
	t, err := order.ParseServiceType(raw)
	if err != nil {
		return err
	}
	c.params.ServiceType = t
	return nil
}

func (c *CreateOrderCommand) setUrgency(raw string) error {
	u, err := order.ParseUrgency(raw)
	if err != nil {
		return err
	}
	c.params.Urgency = u
	return nil
}

func (c *CreateOrderCommand) setLocation(address string, lat, lng *float64) error {
	var (
		location kernel.Location
		err      error
	)
	switch {
	case lat != nil && lng != nil:
		var coordinates kernel.Coordinates
		if coordinates, err = kernel.NewCoordinates(*lat, *lng); err != nil {
			return err
		}
		location, err = kernel.NewLocationWithCoordinates(address, coordinates)
	case lat != nil || lng != nil:
		return errCoordinatesIncomplete
	default:
		location, err = kernel.NewLocation(address)
	}
	if err != nil {
		return err
	}
	c.params.Location = location
	return nil
}
