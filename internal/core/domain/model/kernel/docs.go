// Package kernel provides the value objects shared by the service-order domain.
//
// The package includes:
//   - UUID: order identity, wrapping github.com/google/uuid
//   - Location: the service address plus an optional coordinate pair
//   - Coordinates: a validated latitude/longitude pair
//
// All values are immutable and their zero values are invalid; they must be
// built through their constructors.
package kernel
