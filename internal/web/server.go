package web

import (
	"context"
	"embed"
	"encoding/json"
	"html/template"
	"log"
	"mime"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"citybus-tracker/internal/dashboard"
	"citybus-tracker/internal/db"
	"citybus-tracker/internal/feed"
	"citybus-tracker/internal/sim"
	"citybus-tracker/internal/transit"
)

//go:embed templates/*.html
var templateFS embed.FS

// TrackStore serves recorded vehicle positions.
type TrackStore interface {
	VehicleTrack(ctx context.Context, vehicleID string, limit int) ([]db.TrackPoint, error)
}

type Options struct {
	CORSOrigins  []string
	TickInterval time.Duration
	// Tracks is nil when the snapshot store is disabled.
	Tracks TrackStore
}

type Server struct {
	catalog  *transit.Catalog
	reg      *sim.Registry
	sessions *Sessions
	opt      Options
	tmpl     *template.Template
	started  time.Time
}

func NewServer(catalog *transit.Catalog, reg *sim.Registry, sessions *Sessions, opt Options) (*Server, error) {
	tmpl, err := template.New("dashboard").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Server{
		catalog:  catalog,
		reg:      reg,
		sessions: sessions,
		opt:      opt,
		tmpl:     tmpl,
		started:  time.Now(),
	}, nil
}

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.opt.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	}))

	r.Get("/", s.handlePage)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Get("/health", s.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/routes", s.handleRoutes)
		r.Get("/vehicles", s.handleVehicles)
		r.Get("/vehicles/{vehicleID}/track", s.handleTrack)
		r.Get("/stops", s.handleStops)
		r.Get("/arrivals", s.handleArrivals)
		r.Get("/dashboard", s.handleDashboard)

		r.Post("/selection/route", s.handleSelectRoute)
		r.Post("/selection/query", s.handleSetQuery)
		r.Post("/selection/stop", s.handleSelectStop)
		r.Delete("/selection/stop", s.handleCloseStop)
		// HTML forms cannot send DELETE.
		r.Post("/selection/stop/close", s.handleCloseStop)
	})

	r.Get("/gtfs-rt/vehicle-positions", s.handleGTFSRT)
	return r
}

func (s *Server) snapshot() dashboard.Snapshot {
	snap := dashboard.Snapshot{
		Vehicles: s.reg.Vehicles(),
		Stops:    s.reg.Stops(),
	}
	if loc, ok := s.reg.UserLocation(); ok {
		snap.UserLocation = &loc
	}
	return snap
}

// page renders the caller's selection. Reads never create a session; a
// browser without one sees the empty selection.
func (s *Server) page(r *http.Request) dashboard.Page {
	var sel dashboard.Selection
	if id, ok := cookieSessionID(r); ok {
		if ctr, ok := s.sessions.Lookup(id); ok {
			sel = ctr.Selection()
		}
	}
	return dashboard.Render(s.catalog, s.snapshot(), sel)
}

type pageData struct {
	dashboard.Page
	RefreshSeconds int
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	data := pageData{
		Page:           s.page(r),
		RefreshSeconds: max(1, int(s.opt.TickInterval/time.Second)),
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := s.tmpl.ExecuteTemplate(w, "dashboard.html", data); err != nil {
		log.Printf("render dashboard: %v", err)
	}
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.page(r))
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"vehicles":  len(s.reg.Vehicles()),
		"ticks":     s.reg.Ticks(),
		"sessions":  s.sessions.Len(),
		"uptime":    time.Since(s.started).Round(time.Second).String(),
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleRoutes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.catalog.Routes)
}

// routeParam reads the optional route query parameter; empty means none.
func routeParam(r *http.Request) *string {
	if v := r.URL.Query().Get("route"); v != "" {
		return &v
	}
	return nil
}

func (s *Server) handleVehicles(w http.ResponseWriter, r *http.Request) {
	vs := dashboard.FilterVehicles(s.reg.Vehicles(), routeParam(r))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"vehicles": vs,
		"count":    len(vs),
		"ticks":    s.reg.Ticks(),
	})
}

func (s *Server) handleStops(w http.ResponseWriter, r *http.Request) {
	stops := dashboard.FilterStops(s.reg.Stops(), routeParam(r), r.URL.Query().Get("q"))
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stops": stops,
		"count": len(stops),
	})
}

func (s *Server) handleArrivals(w http.ResponseWriter, r *http.Request) {
	lv := dashboard.BuildListView(nil, s.catalog.Arrivals, dashboard.Filter{}, s.catalog.Palette())
	writeJSON(w, http.StatusOK, lv.Arrivals)
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	if s.opt.Tracks == nil {
		writeJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: "snapshot store disabled"})
		return
	}
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
			return
		}
		limit = n
	}
	vehicleID := chi.URLParam(r, "vehicleID")
	track, err := s.opt.Tracks.VehicleTrack(r.Context(), vehicleID, limit)
	if err != nil {
		log.Printf("vehicle track %s: %v", vehicleID, err)
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "failed to read vehicle track"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"vehicleId": vehicleID,
		"points":    track,
	})
}

func (s *Server) handleGTFSRT(w http.ResponseWriter, r *http.Request) {
	msg := feed.VehiclePositions(s.reg.Vehicles(), time.Now())
	if r.URL.Query().Get("format") == "json" {
		b, err := feed.MarshalJSON(msg)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write(b)
		return
	}
	b, err := feed.Marshal(msg)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}
	w.Header().Set("Content-Type", "application/x-protobuf")
	w.Write(b)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("encode response: %v", err)
	}
}

func isForm(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "application/x-www-form-urlencoded" || ct == "multipart/form-data"
}
