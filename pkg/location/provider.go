package location

import "context"

// Provider interface defines the methods for location providers
type Provider interface {
	GetLocation(ctx context.Context) (Location, error)
	Close() error
}

// StaticProvider always reports the same position. Used for depot terminals and testing.
type StaticProvider struct {
	location Location
}

// NewStaticProvider creates a StaticProvider for the given coordinates.
func NewStaticProvider(latitude, longitude, accuracy float64) *StaticProvider {
	return &StaticProvider{location: Location{Latitude: latitude, Longitude: longitude, Accuracy: accuracy}}
}

func (s *StaticProvider) GetLocation(ctx context.Context) (Location, error) {
	if err := ctx.Err(); err != nil {
		return Location{}, err
	}
	return s.location, nil
}

func (s *StaticProvider) Close() error { return nil }
