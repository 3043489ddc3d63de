package kernel_test

import (
	"strings"
	"testing"

	"serviceorders/internal/core/domain/model/kernel"
	"serviceorders/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLocation(t *testing.T) {
	t.Run("should trim and keep the address", func(t *testing.T) {
		loc, err := kernel.NewLocation("  Av. Reforma 222, CDMX ")

		require.NoError(t, err)
		require.NoError(t, loc.Validate())
		assert.Equal(t, "Av. Reforma 222, CDMX", loc.Address())
		_, ok := loc.Coordinates()
		assert.False(t, ok)
		assert.Equal(t, "Av. Reforma 222, CDMX", loc.String())
	})

	t.Run("should reject blank address", func(t *testing.T) {
		_, err := kernel.NewLocation("   ")

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValidation)
	})

	t.Run("should reject too long address", func(t *testing.T) {
		_, err := kernel.NewLocation(strings.Repeat("a", kernel.MaxAddressLength+1))

		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})
}

func TestNewLocationWithCoordinates(t *testing.T) {
	t.Run("should keep coordinates", func(t *testing.T) {
		coords, err := kernel.NewCoordinates(19.4326, -99.1332)
		require.NoError(t, err)

		loc, err := kernel.NewLocationWithCoordinates("Centro", coords)

		require.NoError(t, err)
		got, ok := loc.Coordinates()
		assert.True(t, ok)
		assert.InDelta(t, 19.4326, got.Latitude(), 1e-9)
		assert.InDelta(t, -99.1332, got.Longitude(), 1e-9)
		assert.Contains(t, loc.String(), "19.432600")
	})

	t.Run("should reject coordinates out of range", func(t *testing.T) {
		testCases := []struct {
			name     string
			lat, lng float64
			param    string
		}{
			{"latitude too high", 90.1, 0, "latitude"},
			{"latitude too low", -91, 0, "latitude"},
			{"longitude too high", 0, 180.5, "longitude"},
			{"longitude too low", 0, -181, "longitude"},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := kernel.NewCoordinates(tc.lat, tc.lng)

				require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
				assert.Contains(t, err.Error(), tc.param)
			})
		}
	})
}

func TestLocation_Validate(t *testing.T) {
	var zero kernel.Location

	assert.Equal(t, kernel.ErrLocationIsNotConstructed, zero.Validate())
}
