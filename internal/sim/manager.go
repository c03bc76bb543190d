package sim

import (
	"context"
	"log"
	"math/rand"
	"sync"
	"time"

	"citybus-tracker/internal/geo"
	mmetrics "citybus-tracker/internal/metrics"
	"citybus-tracker/internal/transit"
)

// Sink receives the fleet after every tick.
type Sink interface {
	Name() string
	PublishPositions(ctx context.Context, at time.Time, vehicles []transit.Vehicle) error
}

// Manager runs the simulation ticker over a Registry and performs the
// one-shot user location request.
type Manager struct {
	reg      *Registry
	interval time.Duration
	rng      *rand.Rand
	locator  geo.Locator
	fallback transit.Coordinate
	metrics  *mmetrics.Collector
	sinks    []Sink

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped bool
	wg      sync.WaitGroup
}

// NewManager builds a manager. A zero seed draws one from the clock.
func NewManager(reg *Registry, interval time.Duration, seed int64, locator geo.Locator, fallback transit.Coordinate, metrics *mmetrics.Collector, sinks ...Sink) *Manager {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	if metrics != nil {
		metrics.Vehicles.Set(float64(len(reg.Vehicles())))
		metrics.Stops.Set(float64(len(reg.Stops())))
	}
	return &Manager{
		reg:      reg,
		interval: interval,
		rng:      rand.New(rand.NewSource(seed)),
		locator:  locator,
		fallback: fallback,
		metrics:  metrics,
		sinks:    sinks,
	}
}

func (m *Manager) Registry() *Registry { return m.reg }

// Start launches the tick loop and the location request. It is a no-op if
// the manager was already started or stopped.
func (m *Manager) Start(parent context.Context) {
	m.mu.Lock()
	if m.cancel != nil || m.stopped {
		m.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(parent)
	m.cancel = cancel
	m.wg.Add(1)
	m.mu.Unlock()

	log.Printf("starting simulation: %d vehicles, tick every %s", len(m.reg.Vehicles()), m.interval)
	go func() {
		defer m.wg.Done()
		m.run(ctx)
	}()
	// The location request is fire-and-forget; Stop does not wait for it.
	go m.locate(ctx)
}

func (m *Manager) run(ctx context.Context) {
	tick := time.NewTicker(m.interval)
	defer tick.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-tick.C:
			if ctx.Err() != nil {
				return
			}
			m.tick(ctx, now)
		}
	}
}

// tick advances the registry once and hands the result to every sink. Sink
// errors are logged and never interrupt the simulation. Only run calls it,
// so m.rng has a single user.
func (m *Manager) tick(ctx context.Context, now time.Time) {
	tickStart := time.Now()
	vehicles := m.reg.Advance(m.rng)
	for _, s := range m.sinks {
		if err := s.PublishPositions(ctx, now, vehicles); err != nil {
			log.Printf("sink %s error: %v", s.Name(), err)
			if m.metrics != nil {
				m.metrics.SinkErrors.WithLabelValues(s.Name()).Inc()
			}
		}
	}
	if m.metrics != nil {
		m.metrics.Ticks.Inc()
		m.metrics.TickDuration.Observe(time.Since(tickStart).Seconds())
	}
}

func (m *Manager) locate(ctx context.Context) {
	c, fromDevice := geo.Resolve(ctx, m.locator, m.fallback)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stopped {
		log.Printf("location resolved after shutdown, dropped")
		m.countLocation("dropped")
		return
	}
	m.reg.setUserLocation(c)
	if fromDevice {
		log.Printf("user location %.4f,%.4f", c.Lat, c.Lon)
		m.countLocation("device")
	} else {
		log.Printf("user location unavailable, using fallback %.4f,%.4f", c.Lat, c.Lon)
		m.countLocation("fallback")
	}
}

func (m *Manager) countLocation(source string) {
	if m.metrics != nil {
		m.metrics.LocationResolutions.WithLabelValues(source).Inc()
	}
}

// Stop cancels the tick loop and waits for it to exit. No tick mutates the
// registry after Stop returns. A pending location result is discarded.
func (m *Manager) Stop() {
	m.mu.Lock()
	m.stopped = true
	cancel := m.cancel
	m.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	m.wg.Wait()
}
