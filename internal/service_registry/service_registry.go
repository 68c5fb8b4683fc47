package service_registry

import (
	"errors"
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
	"github.com/rs/zerolog"

	"github.com/benmeehan/fleetops/internal/api"
	"github.com/benmeehan/fleetops/internal/services"
	"github.com/benmeehan/fleetops/internal/tracking"
	"github.com/benmeehan/fleetops/internal/utils"
	"github.com/benmeehan/fleetops/pkg/location"
	"github.com/benmeehan/fleetops/pkg/session"
)

// Service names, in start order.
const (
	SessionRefreshService = "session_refresh"
	DriverStatusService   = "driver_status"
	LocationService       = "location"
)

// ServiceRegistry manages the lifecycle of the agent's background services.
type ServiceRegistry struct {
	services *orderedmap.OrderedMap[string, services.Service]
	client   *api.Client
	store    *session.Store
	notifier services.Notifier
	Logger   zerolog.Logger
}

// NewServiceRegistry initializes a new service registry with dependencies.
func NewServiceRegistry(client *api.Client, store *session.Store, notifier services.Notifier, logger zerolog.Logger) *ServiceRegistry {
	return &ServiceRegistry{
		services: orderedmap.NewOrderedMap[string, services.Service](),
		client:   client,
		store:    store,
		notifier: notifier,
		Logger:   logger,
	}
}

// RegisterService adds a new service to the registry.
func (sr *ServiceRegistry) RegisterService(name string, svc services.Service) {
	if _, exists := sr.services.Get(name); exists {
		sr.Logger.Warn().Msgf("Service %s is already registered", name)
		return
	}
	sr.services.Set(name, svc)
	sr.Logger.Info().Msgf("Registered service: %s", name)
}

// Names returns the registered service names in start order.
func (sr *ServiceRegistry) Names() []string {
	return sr.services.Keys()
}

// Get returns a registered service.
func (sr *ServiceRegistry) Get(name string) (services.Service, bool) {
	return sr.services.Get(name)
}

// StartServices initiates all registered services in order.
// If a service fails to start, it stops already started services.
func (sr *ServiceRegistry) StartServices() error {
	var started []string

	for el := sr.services.Front(); el != nil; el = el.Next() {
		sr.Logger.Info().Msgf("Starting service: %s", el.Key)
		if err := el.Value.Start(); err != nil {
			sr.Logger.Error().Err(err).Msgf("Failed to start service: %s", el.Key)

			sr.Logger.Warn().Msg("Stopping already started services due to startup failure...")
			for i := len(started) - 1; i >= 0; i-- {
				svc, _ := sr.services.Get(started[i])
				_ = svc.Stop()
			}
			return fmt.Errorf("failed to start %s: %w", el.Key, err)
		}
		started = append(started, el.Key)
	}

	return nil
}

// StopServices stops all services in reverse order.
func (sr *ServiceRegistry) StopServices() error {
	var stopErrors []error
	for el := sr.services.Back(); el != nil; el = el.Prev() {
		if err := el.Value.Stop(); err != nil {
			stopErrors = append(stopErrors, fmt.Errorf("failed to stop %s: %w", el.Key, err))
		}
	}
	if len(stopErrors) > 0 {
		for _, e := range stopErrors {
			sr.Logger.Error().Err(e).Msg("Service stop failure")
		}
		return errors.Join(stopErrors...)
	}
	return nil
}

// RegisterServices initializes and registers enabled services based on configuration.
// onDriverStatus, when non-nil, receives every driver status view.
func (sr *ServiceRegistry) RegisterServices(config *utils.Config, onDriverStatus func(services.View)) error {
	servicesInOrder := []struct {
		name        string
		enabled     bool
		constructor func() (services.Service, error)
	}{
		{
			name:    SessionRefreshService,
			enabled: config.Services.SessionRefresh.Enabled,
			constructor: func() (services.Service, error) {
				if sr.store == nil {
					return nil, fmt.Errorf("%s needs a session store", SessionRefreshService)
				}
				return services.NewSessionRefresher(
					config.Services.SessionRefresh.Interval,
					config.Services.SessionRefresh.Window,
					sr.store,
					sr.client,
					sr.Logger.With().Str("service", SessionRefreshService).Logger(),
				), nil
			},
		},
		{
			name:    DriverStatusService,
			enabled: config.Services.DriverStatus.Enabled,
			constructor: func() (services.Service, error) {
				cfg := config.Services.DriverStatus
				return services.NewDriverStatusPoller(
					cfg.Interval,
					cfg.Workers,
					sr.client,
					tracking.NewClassifier(cfg.StaleAfter, cfg.MovingThresholdKmh),
					sr.notifier,
					sr.Logger.With().Str("service", DriverStatusService).Logger(),
					onDriverStatus,
				), nil
			},
		},
		{
			name:    LocationService,
			enabled: config.Services.Location.Enabled,
			constructor: func() (services.Service, error) {
				provider, err := NewLocationProvider(config, sr.Logger)
				if err != nil {
					return nil, err
				}
				return services.NewLocationReporter(
					config.Services.Location.Interval,
					provider,
					sr.client,
					sr.Logger.With().Str("service", LocationService).Logger(),
				), nil
			},
		},
	}

	for _, svc := range servicesInOrder {
		if !svc.enabled {
			continue
		}
		serviceInstance, err := svc.constructor()
		if err != nil {
			sr.Logger.Error().Err(err).Msgf("Failed to create %s service", svc.name)
			return err
		}
		sr.RegisterService(svc.name, serviceInstance)
	}

	sr.Logger.Info().Msgf("Registered services in order: %v", sr.Names())
	return nil
}

// NewLocationProvider builds the provider selected in the location service config.
func NewLocationProvider(config *utils.Config, logger zerolog.Logger) (location.Provider, error) {
	cfg := config.Services.Location
	switch cfg.Provider {
	case "gps":
		return location.NewGPSProvider(cfg.GPSDevicePort, cfg.GPSDeviceBaudRate), nil
	case "google":
		provider, err := location.NewGoogleGeolocationProvider(cfg.MapsAPIKey, cfg.ModemIndex, logger)
		if err != nil {
			return nil, fmt.Errorf("failed to create Google Geolocation provider: %w", err)
		}
		return provider, nil
	case "static", "":
		return location.NewStaticProvider(cfg.Latitude, cfg.Longitude, 0), nil
	default:
		return nil, fmt.Errorf("unknown location provider %q", cfg.Provider)
	}
}
