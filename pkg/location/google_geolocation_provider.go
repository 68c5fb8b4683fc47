package location

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"googlemaps.github.io/maps"
)

// geolocateTimeout bounds a single Geolocation API call.
const geolocateTimeout = 10 * time.Second

// GoogleGeolocationProvider uses the Google Maps API to get location data.
type GoogleGeolocationProvider struct {
	client     *maps.Client
	modemIndex int
	logger     zerolog.Logger

	scanWiFi  func(ctx context.Context) ([]maps.WiFiAccessPoint, error)
	scanCells func(ctx context.Context, modemIndex int) ([]maps.CellTower, error)
}

// NewGoogleGeolocationProvider creates a new GoogleGeolocationProvider instance.
// Extra client options are passed to maps.NewClient.
func NewGoogleGeolocationProvider(apiKey string, modemIndex int, logger zerolog.Logger,
	opts ...maps.ClientOption) (*GoogleGeolocationProvider, error) {
	c, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, err
	}

	return &GoogleGeolocationProvider{
		client:     c,
		modemIndex: modemIndex,
		logger:     logger,
		scanWiFi:   getWiFiAccessPoints,
		scanCells:  getCellTowers,
	}, nil
}

// GetLocation retrieves the device's location using Google Maps Geolocation API.
// Missing WiFi or cell data is logged and the request falls back to IP geolocation.
func (g *GoogleGeolocationProvider) GetLocation(ctx context.Context) (Location, error) {
	ctx, cancel := context.WithTimeout(ctx, geolocateTimeout)
	defer cancel()

	wifiAPs, err := g.scanWiFi(ctx)
	if err != nil {
		g.logger.Debug().Err(err).Msg("WiFi scan unavailable")
	}

	cellTowers, err := g.scanCells(ctx, g.modemIndex)
	if err != nil {
		g.logger.Debug().Err(err).Int("modem", g.modemIndex).Msg("Cell tower scan unavailable")
	}

	req := &maps.GeolocationRequest{
		ConsiderIP:       true,
		WiFiAccessPoints: wifiAPs,
		CellTowers:       cellTowers,
	}

	resp, err := g.client.Geolocate(ctx, req)
	if err != nil {
		return Location{}, err
	}

	return Location{
		Latitude:  resp.Location.Lat,
		Longitude: resp.Location.Lng,
		Accuracy:  resp.Accuracy,
	}, nil
}

func (g *GoogleGeolocationProvider) Close() error { return nil }
