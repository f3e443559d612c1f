package services

import (
	"context"

	"github.com/dmitrijs2005/taskkeeper/internal/models"
)

// LocationProvider returns where the device is. Failures are not fatal to
// task creation.
type LocationProvider interface {
	Location(ctx context.Context) (*models.Location, error)
}

// NoLocation never knows the location.
type NoLocation struct{}

func (NoLocation) Location(context.Context) (*models.Location, error) {
	return nil, ErrLocationUnavailable
}

// FixedLocation always reports the same coordinates.
type FixedLocation struct {
	Loc models.Location
}

func (f FixedLocation) Location(context.Context) (*models.Location, error) {
	loc := f.Loc
	return &loc, nil
}

// LocationFromConfig returns FixedLocation for configured coordinates and
// NoLocation otherwise.
func LocationFromConfig(loc *models.Location) LocationProvider {
	if loc == nil {
		return NoLocation{}
	}
	return FixedLocation{Loc: *loc}
}
