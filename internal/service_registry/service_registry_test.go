package service_registry

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benmeehan/fleetops/internal/services"
	"github.com/benmeehan/fleetops/internal/utils"
	"github.com/benmeehan/fleetops/pkg/location"
	"github.com/benmeehan/fleetops/pkg/session"
)

type fakeService struct {
	name     string
	log      *[]string
	startErr error
}

func (f *fakeService) Start() error {
	if f.startErr != nil {
		return f.startErr
	}
	*f.log = append(*f.log, "start "+f.name)
	return nil
}

func (f *fakeService) Stop() error {
	*f.log = append(*f.log, "stop "+f.name)
	return nil
}

func TestServiceRegistry_StartStopOrder(t *testing.T) {
	var calls []string
	sr := NewServiceRegistry(nil, nil, nil, zerolog.Nop())
	sr.RegisterService("a", &fakeService{name: "a", log: &calls})
	sr.RegisterService("b", &fakeService{name: "b", log: &calls})
	sr.RegisterService("a", &fakeService{name: "duplicate", log: &calls})

	require.NoError(t, sr.StartServices())
	require.NoError(t, sr.StopServices())

	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, calls)
	assert.Equal(t, []string{"a", "b"}, sr.Names())
}

func TestServiceRegistry_StartFailureRollsBack(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	sr := NewServiceRegistry(nil, nil, nil, zerolog.Nop())
	sr.RegisterService("a", &fakeService{name: "a", log: &calls})
	sr.RegisterService("b", &fakeService{name: "b", log: &calls})
	sr.RegisterService("c", &fakeService{name: "c", log: &calls, startErr: boom})

	err := sr.StartServices()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"start a", "start b", "stop b", "stop a"}, calls)
}

func TestServiceRegistry_RegisterServices(t *testing.T) {
	config := &utils.Config{}
	config.Services.DriverStatus.Enabled = true
	config.Services.Location.Enabled = true
	config.Services.Location.Provider = "static"

	sr := NewServiceRegistry(nil, nil, nil, zerolog.Nop())
	require.NoError(t, sr.RegisterServices(config, nil))
	assert.Equal(t, []string{DriverStatusService, LocationService}, sr.Names())

	svc, ok := sr.Get(DriverStatusService)
	require.True(t, ok)
	assert.IsType(t, &services.DriverStatusPoller{}, svc)

	config.Services.DriverStatus.Enabled = false
	sr = NewServiceRegistry(nil, nil, nil, zerolog.Nop())
	require.NoError(t, sr.RegisterServices(config, nil))
	assert.Equal(t, []string{LocationService}, sr.Names())

	config.Services.SessionRefresh.Enabled = true
	sr = NewServiceRegistry(nil, nil, nil, zerolog.Nop())
	assert.Error(t, sr.RegisterServices(config, nil), "session refresh needs a store")

	store := session.NewStore(session.NewMemoryStorage(), zerolog.Nop())
	sr = NewServiceRegistry(nil, store, nil, zerolog.Nop())
	require.NoError(t, sr.RegisterServices(config, nil))
	assert.Equal(t, []string{SessionRefreshService, LocationService}, sr.Names())
}

func TestNewLocationProvider(t *testing.T) {
	config := &utils.Config{}

	config.Services.Location.Provider = "gps"
	provider, err := NewLocationProvider(config, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &location.GPSProvider{}, provider)

	config.Services.Location.Provider = "static"
	provider, err = NewLocationProvider(config, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &location.StaticProvider{}, provider)

	config.Services.Location.Provider = "sextant"
	_, err = NewLocationProvider(config, zerolog.Nop())
	assert.Error(t, err)
}
