package simulation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/boristopalov/mazerace/pkg/core"
	"github.com/boristopalov/mazerace/pkg/environment"
	"github.com/boristopalov/mazerace/pkg/messaging"
	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

var _ core.Controller = (*Manager)(nil)

// Manager drives every environment of a set through lockstep ticks. Ticks
// and state transitions serialize on one mutex, so a run is only ever
// suspended or stopped between two ticks.
type Manager struct {
	set      *environment.Set
	logger   *log.Logger
	sink     messaging.Sink
	limiter  *rate.Limiter
	maxTicks int

	mu         sync.Mutex
	paused     *sync.Cond
	state      core.RunState
	tick       int
	active     bool // a run exists, possibly primed by Step while stopped
	delivering bool // observers are receiving the results of the last run
	results    *Results
	last       *Results
	ctx        context.Context
	cancel     context.CancelFunc
	done       chan struct{} // closed when the current loop has exited
	startTime  time.Time
	endTime    time.Time

	obsMu     sync.RWMutex
	observers []Observer
}

type ManagerOption func(*Manager)

// WithTicksPerSecond caps the tick rate of a running simulation. Zero or
// less runs as fast as possible.
func WithTicksPerSecond(tps float64) ManagerOption {
	return func(m *Manager) {
		if tps <= 0 {
			m.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		m.limiter = rate.NewLimiter(rate.Limit(tps), 1)
	}
}

// WithMaxTicks ends a run after n ticks even if agents are still walking.
func WithMaxTicks(n int) ManagerOption {
	return func(m *Manager) {
		m.maxTicks = n
	}
}

// WithSink sets where state changes and finishes are announced.
func WithSink(sink messaging.Sink) ManagerOption {
	return func(m *Manager) {
		m.sink = sink
	}
}

func NewManager(set *environment.Set, logger *log.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		set:     set,
		logger:  logger.WithPrefix("simulation"),
		sink:    messaging.Discard,
		limiter: rate.NewLimiter(rate.Inf, 1),
		state:   core.Stopped,
	}
	m.paused = sync.NewCond(&m.mu)
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) AddObserver(o Observer) {
	m.obsMu.Lock()
	defer m.obsMu.Unlock()
	m.observers = append(m.observers, o)
}

func (m *Manager) Set() *environment.Set {
	return m.set
}

// Start launches a fresh run, continues a run primed by Step, or resumes a
// paused one. Starting a running simulation does nothing.
func (m *Manager) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case core.Running:
		return nil
	case core.Paused:
		m.setStateLocked(core.Running)
		m.set.Freeze()
		m.paused.Broadcast()
		return nil
	}

	if !m.active {
		m.beginRunLocked()
	}
	prev := m.done
	m.ctx, m.cancel = context.WithCancel(context.Background())
	m.done = make(chan struct{})
	m.setStateLocked(core.Running)
	m.set.Freeze()
	go m.loop(m.ctx, prev, m.done)
	return nil
}

// Pause suspends a running simulation once the in-flight tick completes.
func (m *Manager) Pause() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case core.Paused:
		return nil
	case core.Stopped:
		return fmt.Errorf("pause: simulation is %s: %w", m.state, core.ErrInvalidTransition)
	}
	m.setStateLocked(core.Paused)
	m.set.Thaw()
	return nil
}

// Step runs exactly one tick while paused or stopped. Stepping a stopped
// simulation primes a new run which Start later continues.
func (m *Manager) Step() error {
	if err := m.waitIdleLoop(); err != nil {
		return fmt.Errorf("step: %w", err)
	}

	m.mu.Lock()
	if m.state == core.Running {
		m.mu.Unlock()
		return fmt.Errorf("step: simulation is %s: %w", m.state, core.ErrInvalidTransition)
	}
	if !m.active {
		m.beginRunLocked()
	}

	ctx := m.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	finished, err := m.tickLocked(ctx)
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("step: %w", err)
	}
	if !finished {
		m.mu.Unlock()
		return nil
	}
	res := m.finishLocked()
	m.mu.Unlock()

	m.deliver(res)
	return nil
}

// Stop ends the run and throws its results away. Observers are not
// notified. Stopping a stopped simulation does nothing.
func (m *Manager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == core.Stopped && !m.active {
		return nil
	}
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
		m.ctx = nil
	}
	m.active = false
	m.results = nil
	m.endTime = time.Now()
	m.setStateLocked(core.Stopped)
	m.set.Thaw()
	m.set.ResetMemory()
	m.paused.Broadcast()
	m.logger.Info("simulation stopped", "tick", m.tick)
	return nil
}

func (m *Manager) State() core.RunState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Manager) IsRunning() bool { return m.State() == core.Running }
func (m *Manager) IsPaused() bool  { return m.State() == core.Paused }
func (m *Manager) IsStopped() bool { return m.State() == core.Stopped }

// Tick is the number of the last completed tick of the current or most
// recent run.
func (m *Manager) Tick() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tick
}

func (m *Manager) Status() core.SimulationStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return core.SimulationStatus{
		State:     m.state,
		Tick:      m.tick,
		StartTime: m.startTime,
		EndTime:   m.endTime,
	}
}

// LastResults returns the results of the most recent completed run, or nil.
func (m *Manager) LastResults() *Results {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.last
}

// Wait blocks until the current run loop, if any, has exited and its
// observers have returned.
func (m *Manager) Wait(ctx context.Context) error {
	m.mu.Lock()
	done := m.done
	m.mu.Unlock()
	if done == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *Manager) loop(ctx context.Context, prev <-chan struct{}, done chan struct{}) {
	defer close(done)

	if prev != nil {
		select {
		case <-prev:
		case <-ctx.Done():
			return
		}
	}

	for {
		if err := m.limiter.Wait(ctx); err != nil {
			return
		}

		m.mu.Lock()
		for m.state == core.Paused && ctx.Err() == nil {
			m.paused.Wait()
		}
		if ctx.Err() != nil {
			m.mu.Unlock()
			return
		}

		finished, err := m.tickLocked(ctx)
		if err != nil {
			m.mu.Unlock()
			return
		}
		if !finished {
			m.mu.Unlock()
			continue
		}
		res := m.finishLocked()
		m.mu.Unlock()

		m.deliver(res)
		return
	}
}

// waitIdleLoop lets a loop that already ended its run exit before a stopped
// simulation is stepped again. While observers are still receiving results
// it fails instead, so an observer calling Step cannot wait on itself.
func (m *Manager) waitIdleLoop() error {
	m.mu.Lock()
	if m.delivering {
		m.mu.Unlock()
		return fmt.Errorf("results are being delivered: %w", core.ErrBusy)
	}
	done := m.done
	idle := m.state == core.Stopped
	m.mu.Unlock()
	if idle && done != nil {
		<-done
	}
	return nil
}

func (m *Manager) beginRunLocked() {
	m.set.Reset()
	m.results = NewResults()
	m.tick = 0
	m.active = true
	m.startTime = time.Now()
	m.endTime = time.Time{}
	m.logger.Info("simulation started", "environments", m.set.Len())
}

// tickLocked advances every environment by one step, in set order, and
// reports whether the run is over.
func (m *Manager) tickLocked(ctx context.Context) (bool, error) {
	m.tick++
	done := true
	for _, env := range m.set.Environments() {
		report, err := env.Step(ctx, m.tick)
		if err != nil {
			return false, err
		}
		for _, f := range report.Finished {
			m.results.recordFinish(env, f.Agent, f.Steps, f.Tick)
			m.announce(messaging.KindFinish, fmt.Sprintf("%s finished %s at tick %d in %d steps", f.Agent.Name(), env.Title(), f.Tick, f.Steps))
		}
		done = done && report.Done
	}
	m.logger.Debug("tick", "n", m.tick, "done", done)

	if !done && m.maxTicks > 0 && m.tick >= m.maxTicks {
		m.logger.Info("tick limit reached", "ticks", m.maxTicks)
		done = true
	}
	return done, nil
}

func (m *Manager) finishLocked() *Results {
	res := m.results
	res.seal(m.set.Environments(), m.tick)
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
		m.ctx = nil
	}
	m.active = false
	m.delivering = true
	m.results = nil
	m.last = res
	m.endTime = time.Now()
	m.setStateLocked(core.Stopped)
	m.set.Thaw()
	m.paused.Broadcast()
	m.logger.Info("simulation finished", "ticks", m.tick, "elapsed", m.endTime.Sub(m.startTime))
	return res
}

func (m *Manager) deliver(res *Results) {
	m.notify(res)
	m.mu.Lock()
	m.delivering = false
	m.mu.Unlock()
}

func (m *Manager) notify(res *Results) {
	m.obsMu.RLock()
	observers := append([]Observer(nil), m.observers...)
	m.obsMu.RUnlock()
	for _, o := range observers {
		o.OnResults(res)
	}
}

func (m *Manager) setStateLocked(state core.RunState) {
	if m.state == state {
		return
	}
	m.state = state
	m.announce(messaging.KindState, state.String())
}

func (m *Manager) announce(kind messaging.Kind, content string) {
	if err := m.sink.Publish(messaging.New("simulation", kind, content)); err != nil {
		m.logger.Warn("failed to publish", "kind", kind, "err", err)
	}
}
