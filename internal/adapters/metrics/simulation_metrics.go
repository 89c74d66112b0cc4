package metrics

import (
	"context"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/mythic-mines/internal/application/logging"
	"github.com/andrescamacho/mythic-mines/internal/application/world"
	"github.com/andrescamacho/mythic-mines/internal/domain/fleet"
	"github.com/andrescamacho/mythic-mines/internal/domain/simulation"
	"github.com/andrescamacho/mythic-mines/internal/domain/storage"
)

// DefaultPollInterval is how often gauges are refreshed from the engine
const DefaultPollInterval = 5 * time.Second

// SimulationMetricsCollector records tick counters as ticks happen and polls
// reservoir, stock and fleet gauges from the engine.
type SimulationMetricsCollector struct {
	engine       *world.Engine
	pollInterval time.Duration

	// Tick metrics
	ticksTotal     prometheus.Counter
	currentTick    prometheus.Gauge
	producedTotal  *prometheus.CounterVec
	evictionsTotal *prometheus.CounterVec
	arrivalsTotal  *prometheus.CounterVec
	deliveredTotal *prometheus.CounterVec

	// Polled gauges
	reservoirLoad *prometheus.GaugeVec
	storeStock    *prometheus.GaugeVec
	unitsByState  *prometheus.GaugeVec
	level         prometheus.Gauge

	// Lifecycle
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// NewSimulationMetricsCollector creates a collector reading from engine.
// A non-positive pollInterval uses DefaultPollInterval.
func NewSimulationMetricsCollector(engine *world.Engine, pollInterval time.Duration) *SimulationMetricsCollector {
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}

	return &SimulationMetricsCollector{
		engine:       engine,
		pollInterval: pollInterval,

		ticksTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "ticks_total",
			Help:      "Total number of simulation ticks processed",
		}),
		currentTick: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "current_tick",
			Help:      "Tick counter of the running simulation",
		}),
		producedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "produced_total",
				Help:      "Quantity added to field reservoirs by resource",
			},
			[]string{"resource"},
		),
		evictionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "evictions_total",
				Help:      "Workers removed from field slots for no longer being eligible",
			},
			[]string{"field"},
		),
		arrivalsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "unit_arrivals_total",
				Help:      "Transport units reaching the surface by source field",
			},
			[]string{"field"},
		),
		deliveredTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "delivered_total",
				Help:      "Quantity deposited into the central store by resource",
			},
			[]string{"resource"},
		),
		reservoirLoad: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "reservoir_load",
				Help:      "Current reservoir load by field",
			},
			[]string{"field"},
		),
		storeStock: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "store_stock",
				Help:      "Central store stock by resource",
			},
			[]string{"resource"},
		),
		unitsByState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "units_by_state",
				Help:      "Number of transport units in each state",
			},
			[]string{"state"},
		),
		level: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "progression_level",
			Help:      "Current progression level",
		}),
	}
}

// Register registers all simulation metrics with the Prometheus registry
func (c *SimulationMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.ticksTotal,
		c.currentTick,
		c.producedTotal,
		c.evictionsTotal,
		c.arrivalsTotal,
		c.deliveredTotal,
		c.reservoirLoad,
		c.storeStock,
		c.unitsByState,
		c.level,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// OnTick implements world.TickObserver
func (c *SimulationMetricsCollector) OnTick(_ context.Context, report simulation.TickReport) {
	c.ticksTotal.Inc()
	c.currentTick.Set(float64(report.Tick))
	c.level.Set(float64(report.Level))

	for resourceID, amount := range report.Production {
		if amount > 0 {
			c.producedTotal.WithLabelValues(resourceID).Add(amount)
		}
	}
	for _, ev := range report.Evictions {
		c.evictionsTotal.WithLabelValues(ev.FieldID).Inc()
	}
	for _, tr := range report.Transitions {
		if tr.To == fleet.UnitStateReady {
			c.arrivalsTotal.WithLabelValues(tr.FieldID).Inc()
		}
	}
}

// Start begins gauge polling and deposit tracking
func (c *SimulationMetricsCollector) Start(ctx context.Context) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	var (
		deposits    <-chan storage.DepositNotification
		unsubscribe func()
	)
	_ = c.engine.Execute(c.ctx, func(w world.World) error {
		deposits, unsubscribe = w.Store.SubscribeToDeposits()
		return nil
	})

	c.wg.Add(1)
	go c.pollGauges()

	if deposits != nil {
		c.wg.Add(1)
		go c.trackDeposits(deposits, unsubscribe)
	}
}

// Stop gracefully stops the metrics collection
func (c *SimulationMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *SimulationMetricsCollector) pollGauges() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	c.Collect(c.ctx)
	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.Collect(c.ctx)
		}
	}
}

// Collect refreshes every polled gauge from the current world state
func (c *SimulationMetricsCollector) Collect(ctx context.Context) {
	err := c.engine.Execute(ctx, func(w world.World) error {
		for _, field := range w.Sim.Fields() {
			c.reservoirLoad.WithLabelValues(field.ResourceID).Set(field.ReservoirLoad)
		}
		for resourceID, stock := range w.Store.Inventory() {
			c.storeStock.WithLabelValues(resourceID).Set(stock)
		}

		counts := map[fleet.UnitState]int{
			fleet.UnitStateIdle:       0,
			fleet.UnitStateMovingDown: 0,
			fleet.UnitStateLoading:    0,
			fleet.UnitStateMovingUp:   0,
			fleet.UnitStateReady:      0,
		}
		for _, unit := range w.Sim.Units() {
			counts[unit.State]++
		}
		for state, n := range counts {
			c.unitsByState.WithLabelValues(string(state)).Set(float64(n))
		}

		c.currentTick.Set(float64(w.Sim.CurrentTick()))
		c.level.Set(float64(w.Levels.CurrentLevel()))
		return nil
	})
	if err != nil && ctx.Err() == nil {
		logging.LoggerFromContext(ctx).Log(logging.LevelWarn, "Failed to collect simulation metrics", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (c *SimulationMetricsCollector) trackDeposits(deposits <-chan storage.DepositNotification, unsubscribe func()) {
	defer c.wg.Done()
	defer unsubscribe()

	for {
		select {
		case <-c.ctx.Done():
			return
		case n, ok := <-deposits:
			if !ok {
				return
			}
			c.deliveredTotal.WithLabelValues(n.ResourceID).Add(n.Amount)
			c.storeStock.WithLabelValues(n.ResourceID).Set(n.Stock)
		}
	}
}

// Verify interface implementation
var _ world.TickObserver = (*SimulationMetricsCollector)(nil)
