package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/benmeehan/fleetops/internal/api"
	"github.com/benmeehan/fleetops/internal/models"
	"github.com/benmeehan/fleetops/pkg/location"
)

// DefaultReportInterval is how often a driver device posts its position.
const DefaultReportInterval = 30 * time.Second

// LocationSender posts a driver position. *api.Client satisfies it.
type LocationSender interface {
	SendLocation(ctx context.Context, update models.LocationUpdate) api.Envelope[api.Ack]
}

// LocationReporter periodically reads the device position and posts it to the tracking API.
type LocationReporter struct {
	interval time.Duration

	provider location.Provider
	sender   LocationSender
	logger   zerolog.Logger
	now      func() time.Time

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running bool
}

// NewLocationReporter creates a LocationReporter.
func NewLocationReporter(interval time.Duration, provider location.Provider, sender LocationSender,
	logger zerolog.Logger) *LocationReporter {
	if interval <= 0 {
		interval = DefaultReportInterval
	}
	return &LocationReporter{
		interval: interval,
		provider: provider,
		sender:   sender,
		logger:   logger,
		now:      time.Now,
	}
}

// Start begins reporting, once immediately and then every interval.
func (l *LocationReporter) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.running {
		l.logger.Warn().Msg("LocationReporter is already running")
		return ErrAlreadyRunning
	}

	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.running = true

	ctx := l.ctx
	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		l.runReportLoop(ctx)
	}()

	l.logger.Info().Dur("interval", l.interval).Msg("LocationReporter started")
	return nil
}

// Stop gracefully stops the LocationReporter and closes the provider.
func (l *LocationReporter) Stop() error {
	l.mu.Lock()
	if !l.running {
		l.mu.Unlock()
		l.logger.Warn().Msg("LocationReporter is not running")
		return ErrNotRunning
	}
	l.running = false
	l.cancel()
	l.mu.Unlock()

	l.wg.Wait()

	if err := l.provider.Close(); err != nil {
		l.logger.Error().Err(err).Msg("Failed to close location provider")
		return err
	}

	l.logger.Info().Msg("LocationReporter stopped")
	return nil
}

func (l *LocationReporter) runReportLoop(ctx context.Context) {
	ticker := time.NewTicker(l.interval)
	defer ticker.Stop()

	for {
		if err := l.report(ctx); err != nil && ctx.Err() == nil {
			l.logger.Error().Err(err).Msg("Failed to report current location")
		}

		select {
		case <-ticker.C:
		case <-ctx.Done():
			l.logger.Info().Msg("LocationReporter stopping gracefully")
			return
		}
	}
}

// report reads one position and posts it. Each attempt is bounded by the interval.
func (l *LocationReporter) report(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, l.interval)
	defer cancel()

	loc, err := l.provider.GetLocation(ctx)
	if err != nil {
		return err
	}

	update := models.LocationUpdate{
		Latitude:  loc.Latitude,
		Longitude: loc.Longitude,
		Speed:     loc.Speed,
		Heading:   loc.Heading,
		Accuracy:  loc.Accuracy,
		Timestamp: l.now().UTC(),
	}

	if err := l.sender.SendLocation(ctx, update).Err(); err != nil {
		return err
	}

	l.logger.Debug().
		Float64("latitude", update.Latitude).
		Float64("longitude", update.Longitude).
		Msg("Location reported successfully")
	return nil
}
