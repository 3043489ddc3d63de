package kernel

import (
	"errors"
	"fmt"
	"strings"

	"serviceorders/internal/pkg/errs"
	"serviceorders/internal/pkg/guard"
)

const (
	// MaxAddressLength bounds the free-text address of a service location.
	MaxAddressLength = 300

	minLatitude  = -90.0
	maxLatitude  = 90.0
	minLongitude = -180.0
	maxLongitude = 180.0
)

// ErrLocationIsNotConstructed is returned when validating a zero-value Location.
var ErrLocationIsNotConstructed = errs.NewValueIsRequiredError(
	"location must be created via NewLocation or NewLocationWithCoordinates constructors")

// Coordinates is a latitude/longitude pair in decimal degrees.
type Coordinates struct {
	latitude  float64
	longitude float64
}

// NewCoordinates validates latitude ∈ [-90, 90] and longitude ∈ [-180, 180].
func NewCoordinates(latitude, longitude float64) (Coordinates, error) {
	var problems []error
	if latitude < minLatitude || latitude > maxLatitude {
		problems = append(problems, errs.NewValueIsOutOfRangeError("latitude", latitude, minLatitude, maxLatitude))
	}
	if longitude < minLongitude || longitude > maxLongitude {
		problems = append(problems, errs.NewValueIsOutOfRangeError("longitude", longitude, minLongitude, maxLongitude))
	}
	if err := errors.Join(problems...); err != nil {
		return Coordinates{}, err
	}
	return Coordinates{latitude: latitude, longitude: longitude}, nil
}

func (c Coordinates) Latitude() float64 {
	return c.latitude
}

func (c Coordinates) Longitude() float64 {
	return c.longitude
}

// Location is where the service is performed: a human-readable address and,
// when the client shared it, a coordinate pair. The engine treats it as opaque
// beyond these validations; distance and ranking live elsewhere.
//
// Example:
//
//	loc, err := kernel.NewLocation("Av. Reforma 222, CDMX")
//	coords, _ := kernel.NewCoordinates(19.4326, -99.1332)
//	pinned, err := kernel.NewLocationWithCoordinates("Av. Reforma 222, CDMX", coords)
type Location struct { //nolint:recvcheck //using for validation
	address     string
	coordinates *Coordinates
	guard       guard.ConstructorGuard
}

// NewLocation creates a Location with an address only.
// The address is trimmed and must be non-empty and at most MaxAddressLength characters.
func NewLocation(address string) (Location, error) {
	loc := Location{guard: guard.NewConstructorGuard()}
	if err := loc.setAddress(address); err != nil {
		return Location{}, err
	}
	return loc, nil
}

// NewLocationWithCoordinates creates a Location with an address and coordinates.
func NewLocationWithCoordinates(address string, coordinates Coordinates) (Location, error) {
	loc, err := NewLocation(address)
	if err != nil {
		return Location{}, err
	}
	loc.coordinates = &coordinates
	return loc, nil
}

// Validate fails with ErrLocationIsNotConstructed for the zero value.
func (l Location) Validate() error {
	return l.guard.Validate(ErrLocationIsNotConstructed)
}

func (l Location) Address() string {
	return l.address
}

// Coordinates returns the coordinate pair and whether one was provided.
func (l Location) Coordinates() (Coordinates, bool) {
	if l.coordinates == nil {
		return Coordinates{}, false
	}
	return *l.coordinates, true
}

func (l Location) String() string {
	if l.coordinates == nil {
		return l.address
	}
	return fmt.Sprintf("%s (%.6f,%.6f)", l.address, l.coordinates.latitude, l.coordinates.longitude)
}

func (l *Location) setAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errs.NewValueIsRequiredError("location address")
	}
	if n := len([]rune(address)); n > MaxAddressLength {
		return errs.NewValueIsOutOfRangeError("location address length", n, 1, MaxAddressLength)
	}
	l.address = address
	return nil
}
