package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/benmeehan/fleetops/internal/api"
	"github.com/benmeehan/fleetops/internal/models"
	"github.com/benmeehan/fleetops/pkg/session"
)

const (
	DefaultRefreshInterval = time.Minute
	DefaultRefreshWindow   = 10 * time.Minute
)

// TokenRefresher exchanges the current session token for a fresh one. *api.Client satisfies it.
type TokenRefresher interface {
	RefreshToken(ctx context.Context) api.Envelope[models.RefreshResult]
}

// SessionRefresher keeps a long running agent logged in by refreshing the final
// token once it is within window of its expiry. Expired tokens are left alone;
// the store clears them on the next request.
type SessionRefresher struct {
	Interval  time.Duration
	Window    time.Duration
	Store     *session.Store
	Refresher TokenRefresher
	Logger    zerolog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewSessionRefresher initializes a new SessionRefresher.
func NewSessionRefresher(interval, window time.Duration, store *session.Store, refresher TokenRefresher,
	logger zerolog.Logger) *SessionRefresher {
	if interval <= 0 {
		interval = DefaultRefreshInterval
	}
	if window <= 0 {
		window = DefaultRefreshWindow
	}
	return &SessionRefresher{
		Interval:  interval,
		Window:    window,
		Store:     store,
		Refresher: refresher,
		Logger:    logger,
	}
}

// Start launches the refresh loop in a separate goroutine.
func (s *SessionRefresher) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ctx != nil {
		s.Logger.Warn().Msg("SessionRefresher is already running")
		return ErrAlreadyRunning
	}

	s.ctx, s.cancel = context.WithCancel(context.Background())

	ctx := s.ctx
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.runRefreshLoop(ctx)
	}()

	s.Logger.Info().Dur("window", s.Window).Msg("SessionRefresher started successfully")
	return nil
}

// Stop gracefully stops the refresh loop.
func (s *SessionRefresher) Stop() error {
	s.mu.Lock()
	if s.ctx == nil {
		s.mu.Unlock()
		s.Logger.Warn().Msg("SessionRefresher is not running")
		return ErrNotRunning
	}
	cancel := s.cancel
	s.ctx, s.cancel = nil, nil
	s.mu.Unlock()

	cancel()
	s.wg.Wait()

	s.Logger.Info().Msg("SessionRefresher stopped successfully")
	return nil
}

func (s *SessionRefresher) runRefreshLoop(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		s.refreshIfExpiring(ctx)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			s.Logger.Info().Msg("SessionRefresher stopping gracefully")
			return
		}
	}
}

// refreshIfExpiring reports whether a new token was stored.
func (s *SessionRefresher) refreshIfExpiring(ctx context.Context) bool {
	token, ok := s.Store.FinalToken()
	if !ok {
		return false
	}

	exp, ok := session.ExpiresAt(token)
	now := s.Store.Now()
	if !ok || !exp.After(now) {
		return false
	}
	if exp.Sub(now) > s.Window {
		s.Logger.Debug().Time("expires_at", exp).Msg("Session token still fresh")
		return false
	}

	env := s.Refresher.RefreshToken(ctx)
	if err := env.Err(); err != nil {
		if ctx.Err() == nil {
			s.Logger.Warn().Err(err).Msg("Failed to refresh session token")
		}
		return false
	}

	if err := s.Store.ReplaceFinalToken(env.Data.Token); err != nil {
		s.Logger.Warn().Err(err).Msg("Discarding refreshed session token")
		return false
	}

	s.Logger.Info().Time("previous_expiry", exp).Msg("Session token refreshed")
	return true
}
