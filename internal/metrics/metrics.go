package metrics

import (
	"log"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Collector struct {
	reg *prometheus.Registry

	Vehicles prometheus.Gauge
	Stops    prometheus.Gauge
	Sessions prometheus.Gauge

	Ticks               prometheus.Counter
	LocationResolutions *prometheus.CounterVec // source label: device|fallback|dropped
	SelectionIntents    *prometheus.CounterVec // kind label: route|query|stop|close

	SinkErrors *prometheus.CounterVec // sink label

	NATSPublished   prometheus.Counter
	NATSPublishErrs prometheus.Counter
	NATSConnected   prometheus.Gauge

	SnapshotRows prometheus.Counter

	TickDuration    prometheus.Histogram
	PublishDuration prometheus.Histogram

	TickInterval prometheus.Gauge // seconds
}

func NewCollector(tickInterval time.Duration) *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		reg: reg,
		Vehicles: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "citybus_vehicles",
			Help: "Number of simulated vehicles in the registry.",
		}),
		Stops: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "citybus_stops",
			Help: "Number of stops in the registry.",
		}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "citybus_dashboard_sessions",
			Help: "Number of live dashboard sessions.",
		}),
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "citybus_ticks_total",
			Help: "Total simulation ticks applied.",
		}),
		LocationResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "citybus_location_resolutions_total",
			Help: "User location requests by outcome.",
		}, []string{"source"}),
		SelectionIntents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "citybus_selection_intents_total",
			Help: "Selection intents dispatched by kind.",
		}, []string{"kind"}),
		SinkErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "citybus_sink_errors_total",
			Help: "Errors returned by position sinks.",
		}, []string{"sink"}),
		NATSPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "citybus_nats_published_total",
			Help: "Total NATS messages published.",
		}),
		NATSPublishErrs: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "citybus_nats_publish_errors_total",
			Help: "Total NATS publish errors.",
		}),
		NATSConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "citybus_nats_connected",
			Help: "1 if NATS connection is established, 0 otherwise.",
		}),
		SnapshotRows: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "citybus_snapshot_rows_total",
			Help: "Vehicle rows written to the snapshot store.",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "citybus_tick_duration_seconds",
			Help:    "Duration of simulation ticks including sinks.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15),
		}),
		PublishDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "citybus_publish_duration_seconds",
			Help:    "Duration to marshal and publish a NATS message.",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 15),
		}),
		TickInterval: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "citybus_tick_interval_seconds",
			Help: "Simulation tick interval in seconds.",
		}),
	}

	reg.MustRegister(
		c.Vehicles, c.Stops, c.Sessions,
		c.Ticks, c.LocationResolutions, c.SelectionIntents,
		c.SinkErrors, c.NATSPublished, c.NATSPublishErrs, c.NATSConnected,
		c.SnapshotRows, c.TickDuration, c.PublishDuration, c.TickInterval,
	)

	c.TickInterval.Set(tickInterval.Seconds())

	return c
}

func (c *Collector) Registry() *prometheus.Registry { return c.reg }

func (c *Collector) Handler() http.Handler { return promhttp.HandlerFor(c.reg, promhttp.HandlerOpts{}) }

// Serve starts an HTTP server exposing /metrics on the given address.
func (c *Collector) Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("metrics server error: %v", err)
		}
	}()
	log.Printf("metrics listening on %s", addr)
	return srv
}
