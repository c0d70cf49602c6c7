package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/user/crawler-console/internal/entity"
	"github.com/user/crawler-console/internal/repository"
	"github.com/user/crawler-console/pkg/metrics"
)

// Refresher re-fetches the dashboard, now or after a delay.
type Refresher interface {
	Refresh(ctx context.Context) error
	RefreshAfter(delay time.Duration)
}

// Poller keeps the Dashboard in step with the backend by refreshing it on a
// fixed interval until stopped.
type Poller struct {
	tasks     repository.TaskRepository
	data      repository.DataRepository
	dashboard *Dashboard
	interval  time.Duration
	logger    *zap.Logger
	metrics   *metrics.Metrics
	now       func() time.Time

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	timers  map[*time.Timer]struct{}
	stopped bool
	wg      sync.WaitGroup
}

func NewPoller(
	tasks repository.TaskRepository,
	data repository.DataRepository,
	dashboard *Dashboard,
	interval time.Duration,
	logger *zap.Logger,
	m *metrics.Metrics,
) *Poller {
	return &Poller{
		tasks:     tasks,
		data:      data,
		dashboard: dashboard,
		interval:  interval,
		logger:    logger,
		metrics:   m,
		now:       time.Now,
		ctx:       context.Background(),
		timers:    make(map[*time.Timer]struct{}),
	}
}

var _ Refresher = (*Poller)(nil)

// Start refreshes immediately and then on every interval until Stop or until
// ctx is cancelled. Calling Start twice has no effect.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel != nil || p.stopped {
		return
	}
	p.ctx, p.cancel = context.WithCancel(ctx)

	p.wg.Add(1)
	go p.loop(p.ctx)
	p.logger.Info("dashboard polling started", zap.Duration("interval", p.interval))
}

// Stop cancels the polling loop and any pending delayed refresh, and waits
// for in-flight ticks to return.
func (p *Poller) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	if p.cancel != nil {
		p.cancel()
	}
	for t := range p.timers {
		if t.Stop() {
			p.wg.Done()
		}
		delete(p.timers, t)
	}
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("dashboard polling stopped")
}

func (p *Poller) loop(ctx context.Context) {
	defer p.wg.Done()

	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick runs one refresh. Failures and panics are logged and swallowed so the
// next tick always runs.
func (p *Poller) tick(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("dashboard refresh panicked", zap.Any("panic", r))
			p.incTick("panic")
		}
	}()

	if err := p.Refresh(ctx); err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Warn("dashboard refresh failed", zap.Error(err))
		p.incTick("failure")
		return
	}
	p.incTick("success")
}

// Refresh fetches task stats, data stats and the task list concurrently.
// Each result is applied on its own, so one failing fetch does not hold
// back the others. The first error is returned.
func (p *Poller) Refresh(ctx context.Context) error {
	var g errgroup.Group

	g.Go(guard("task stats", func() error {
		stats, err := p.tasks.Stats(ctx)
		if err != nil {
			return fmt.Errorf("task stats: %w", err)
		}
		p.dashboard.SetTaskStats(stats, p.now())
		p.recordStatusGauge(stats)
		return nil
	}))
	g.Go(guard("data stats", func() error {
		stats, err := p.data.Stats(ctx)
		if err != nil {
			return fmt.Errorf("data stats: %w", err)
		}
		p.dashboard.SetDataStats(stats, p.now())
		return nil
	}))
	g.Go(guard("task list", func() error {
		tasks, err := p.tasks.List(ctx)
		if err != nil {
			return fmt.Errorf("task list: %w", err)
		}
		p.dashboard.SetTasks(tasks, p.now())
		return nil
	}))

	return g.Wait()
}

// guard converts a panic in fn into an error. errgroup goroutines are not
// covered by tick's recover.
func guard(name string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%s: panic: %v", name, r)
			}
		}()
		return fn()
	}
}

// RefreshAfter schedules one refresh after delay. It is used when the
// backend finishes work asynchronously. Pending refreshes are cancelled by
// Stop.
func (p *Poller) RefreshAfter(delay time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return
	}

	ctx := p.ctx
	var t *time.Timer
	p.wg.Add(1)
	t = time.AfterFunc(delay, func() {
		defer p.wg.Done()
		p.mu.Lock()
		delete(p.timers, t)
		stopped := p.stopped
		p.mu.Unlock()
		if !stopped {
			p.tick(ctx)
		}
	})
	p.timers[t] = struct{}{}
}

func (p *Poller) incTick(outcome string) {
	if p.metrics != nil {
		p.metrics.IncPollTick(outcome)
	}
}

func (p *Poller) recordStatusGauge(stats entity.TaskStats) {
	if p.metrics == nil {
		return
	}
	for _, status := range entity.KnownStatuses {
		p.metrics.SetTasksByStatus(string(status), float64(stats.Count(status)))
	}
}
