package services

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/benmeehan/fleetops/internal/api"
	"github.com/benmeehan/fleetops/internal/models"
	"github.com/benmeehan/fleetops/internal/tracking"
	"github.com/benmeehan/fleetops/internal/utils"
)

// DefaultPollInterval is the refresh period of the driver status view.
const DefaultPollInterval = 60 * time.Second

// LocationSource fetches the latest location of every driver. *api.Client satisfies it.
type LocationSource interface {
	GetCurrentLocations(ctx context.Context) api.Envelope[[]models.DriverLocation]
}

// Notifier surfaces errors to the operator.
type Notifier interface {
	NotifyError(message string)
}

// View is what the operator sees: the annotated drivers and the loading flag.
type View struct {
	Loading   bool                    `json:"loading"`
	Drivers   []tracking.DriverStatus `json:"drivers"`
	UpdatedAt time.Time               `json:"updated_at"`
	LastError string                  `json:"last_error,omitempty"`
}

// DriverStatusPoller keeps a View of driver movement statuses fresh.
// The first fetch after Start is visible (loading flag, error notification);
// every timer tick afterwards is a silent refresh whose failures are only logged.
type DriverStatusPoller struct {
	interval   time.Duration
	workers    int
	source     LocationSource
	classifier tracking.Classifier
	notifier   Notifier
	logger     zerolog.Logger
	now        func() time.Time
	onUpdate   func(View)

	mu         sync.Mutex
	view       View
	inFlight   int // visible fetches currently running
	appliedSeq uint64
	seq        atomic.Uint64

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	pool    *utils.WorkerPool
	running bool
}

// NewDriverStatusPoller creates a poller. onUpdate, when non-nil, receives a copy
// of the View after every change.
func NewDriverStatusPoller(interval time.Duration, workers int, source LocationSource, classifier tracking.Classifier,
	notifier Notifier, logger zerolog.Logger, onUpdate func(View)) *DriverStatusPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if workers < 1 {
		workers = 1
	}
	return &DriverStatusPoller{
		interval:   interval,
		workers:    workers,
		source:     source,
		classifier: classifier,
		notifier:   notifier,
		logger:     logger,
		now:        time.Now,
		onUpdate:   onUpdate,
	}
}

// Start moves the poller from idle to polling: a visible initial fetch followed
// by silent refreshes every interval.
func (p *DriverStatusPoller) Start() error {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		p.logger.Warn().Msg("DriverStatusPoller is already running")
		return ErrAlreadyRunning
	}
	p.ctx, p.cancel = context.WithCancel(context.Background())
	p.pool = utils.NewWorkerPool(p.workers, p.workers)
	p.running = true
	ctx, pool := p.ctx, p.pool
	p.mu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.fetch(ctx, ctx, false)
		p.runPollLoop(ctx, pool)
	}()

	p.logger.Info().Dur("interval", p.interval).Msg("DriverStatusPoller started")
	return nil
}

// Stop cancels the timer and any in-flight fetch. Once it returns the View no longer changes.
func (p *DriverStatusPoller) Stop() error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		p.logger.Warn().Msg("DriverStatusPoller is not running")
		return ErrNotRunning
	}
	p.running = false
	p.cancel()
	pool := p.pool
	p.mu.Unlock()

	p.wg.Wait()
	pool.Shutdown()

	p.mu.Lock()
	p.view.Loading = false
	p.inFlight = 0
	p.mu.Unlock()

	p.logger.Info().Msg("DriverStatusPoller stopped")
	return nil
}

// Refresh performs a user initiated, visible fetch.
func (p *DriverStatusPoller) Refresh(ctx context.Context) error {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return ErrNotRunning
	}
	pollCtx := p.ctx
	p.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(pollCtx, cancel)
	defer stop()

	return p.fetch(ctx, pollCtx, false)
}

// Snapshot returns a copy of the current View.
func (p *DriverStatusPoller) Snapshot() View {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.copyViewLocked()
}

func (p *DriverStatusPoller) copyViewLocked() View {
	v := p.view
	v.Drivers = append([]tracking.DriverStatus(nil), p.view.Drivers...)
	return v
}

func (p *DriverStatusPoller) runPollLoop(ctx context.Context, pool *utils.WorkerPool) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Ticks never wait for a slow previous refresh; the sequence guard in apply sorts out the order.
			if !pool.Submit(func() { p.fetch(ctx, ctx, true) }) {
				p.logger.Warn().Msg("Skipping driver status refresh, all workers busy")
			}
		case <-ctx.Done():
			p.logger.Info().Msg("DriverStatusPoller stopping gracefully")
			return
		}
	}
}

// fetch loads locations with ctx and applies them while life, the polling
// session, is still active. Silent fetches leave the loading flag alone and
// never notify.
func (p *DriverStatusPoller) fetch(ctx, life context.Context, silent bool) error {
	seq := p.seq.Add(1)

	if !silent {
		if !p.beginVisible(life) {
			return life.Err()
		}
	}

	env := p.source.GetCurrentLocations(ctx)
	return p.apply(life, seq, silent, env)
}

func (p *DriverStatusPoller) beginVisible(life context.Context) bool {
	p.mu.Lock()
	if life.Err() != nil {
		p.mu.Unlock()
		return false
	}
	p.inFlight++
	p.view.Loading = true
	view := p.copyViewLocked()
	p.mu.Unlock()

	p.publish(view)
	return true
}

// apply stores the result of fetch number seq. Results older than the newest
// applied one are dropped, and nothing is stored once life is cancelled.
// Stop cancels life under mu, so the check below cannot race with teardown.
func (p *DriverStatusPoller) apply(life context.Context, seq uint64, silent bool, env api.Envelope[[]models.DriverLocation]) error {
	p.mu.Lock()
	if life.Err() != nil {
		p.mu.Unlock()
		return life.Err()
	}

	if !silent {
		p.inFlight--
		p.view.Loading = p.inFlight > 0
	}

	err := env.Err()
	notify := ""
	switch {
	case err != nil && silent:
		p.logger.Warn().Err(err).Uint64("seq", seq).Msg("Background driver status refresh failed")
	case err != nil:
		p.view.LastError = env.Error
		notify = env.Error
		if notify == "" {
			notify = err.Error()
		}
		p.logger.Error().Err(err).Uint64("seq", seq).Msg("Driver status fetch failed")
	case seq <= p.appliedSeq:
		p.logger.Debug().Uint64("seq", seq).Uint64("applied_seq", p.appliedSeq).Msg("Discarding stale driver status response")
	default:
		p.appliedSeq = seq
		p.view.Drivers = p.classifier.Annotate(env.Data, p.now())
		p.view.UpdatedAt = p.now()
		p.view.LastError = ""
	}
	view := p.copyViewLocked()
	p.mu.Unlock()

	if notify != "" && p.notifier != nil {
		p.notifier.NotifyError(notify)
	}
	p.publish(view)
	return err
}

func (p *DriverStatusPoller) publish(view View) {
	if p.onUpdate != nil {
		p.onUpdate(view)
	}
}
