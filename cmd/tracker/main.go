package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"citybus-tracker/internal/config"
	"citybus-tracker/internal/db"
	"citybus-tracker/internal/geo"
	"citybus-tracker/internal/logging"
	"citybus-tracker/internal/metrics"
	"citybus-tracker/internal/publisher"
	"citybus-tracker/internal/sim"
	"citybus-tracker/internal/transit"
	"citybus-tracker/internal/web"
)

func main() {
	logging.Init()

	// Load configuration from .env and environment
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	// Root context with cancellation on SIGINT/SIGTERM
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	catalog, err := transit.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("catalog error: %v", err)
	}
	fallback := catalog.FallbackLocation
	if cfg.FallbackFromEnv {
		fallback = transit.Coordinate{Lat: cfg.FallbackLat, Lon: cfg.FallbackLon}
	}
	log.Printf("catalog: %d routes, %d stops, %d vehicles", len(catalog.Routes), len(catalog.Stops), len(catalog.Vehicles))

	// Metrics setup
	var mcol *metrics.Collector
	if cfg.MetricsAddr != "" {
		mcol = metrics.NewCollector(cfg.TickInterval)
		srv := mcol.Serve(cfg.MetricsAddr)
		defer shutdown(srv)
	}

	var sinks []sim.Sink

	// NATS is optional
	if cfg.NATSURL != "" {
		pub, err := publisher.NewNATSPublisher(cfg.NATSURL, cfg.NATSSubjectPrefix, cfg.LogNATSSubjects, wrapPublisherMetrics(mcol))
		if err != nil {
			log.Fatalf("nats error: %v", err)
		}
		defer pub.Close()
		sinks = append(sinks, pub)
	}

	// Snapshot store is optional
	var tracks web.TrackStore
	if cfg.SnapshotDSN != "" {
		sqlDB, driver, err := db.Open(cfg.SnapshotDSN)
		if err != nil {
			log.Fatalf("db open error: %v", err)
		}
		defer sqlDB.Close()
		if err := db.Ping(ctx, sqlDB); err != nil {
			log.Fatalf("db ping error: %v", err)
		}
		store := db.NewSnapshotStore(sqlDB, driver, mcol)
		if err := store.EnsureSchema(ctx); err != nil {
			log.Fatalf("db schema error: %v", err)
		}
		log.Printf("recording snapshots via %s", driver)
		sinks = append(sinks, store)
		tracks = store
	}

	var locator geo.Locator = geo.Unavailable{}
	if cfg.UserLocation != nil {
		locator = geo.Fixed{Lat: cfg.UserLocation[0], Lon: cfg.UserLocation[1]}
	}

	reg := sim.NewRegistryFromCatalog(catalog)
	mgr := sim.NewManager(reg, cfg.TickInterval, cfg.Seed, locator, fallback, mcol, sinks...)
	mgr.Start(ctx)

	sessions := web.NewSessions(cfg.SessionTTL, mcol)
	go sessions.Run(ctx)

	server, err := web.NewServer(catalog, reg, sessions, web.Options{
		CORSOrigins:  cfg.CORSOrigins,
		TickInterval: cfg.TickInterval,
		Tracks:       tracks,
	})
	if err != nil {
		log.Fatalf("web server error: %v", err)
	}
	httpSrv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Printf("dashboard listening on %s", cfg.ListenAddr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
			cancel()
		}
	}()

	// Block until context cancelled
	<-ctx.Done()
	shutdown(httpSrv)
	// No tick runs after Stop returns; sinks are closed by the defers below.
	mgr.Stop()
	log.Println("shutdown complete")
}

func shutdown(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
}

// wrapPublisherMetrics adapts our Collector to the PublisherMetrics interface.
func wrapPublisherMetrics(c *metrics.Collector) publisher.PublisherMetrics {
	if c == nil {
		return nil
	}
	return &pubMetrics{c: c}
}

type pubMetrics struct{ c *metrics.Collector }

func (p *pubMetrics) NATSPublishedInc()              { p.c.NATSPublished.Inc() }
func (p *pubMetrics) NATSPublishErrInc()             { p.c.NATSPublishErrs.Inc() }
func (p *pubMetrics) PublishObserve(d time.Duration) { p.c.PublishDuration.Observe(d.Seconds()) }
func (p *pubMetrics) NATSSetConnected(b bool) {
	if b {
		p.c.NATSConnected.Set(1)
	} else {
		p.c.NATSConnected.Set(0)
	}
}
