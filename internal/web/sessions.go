package web

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"citybus-tracker/internal/dashboard"
	mmetrics "citybus-tracker/internal/metrics"
)

const sessionCookie = "citybus_session"

type session struct {
	ctr      *dashboard.Container
	lastSeen time.Time
}

// Sessions keeps one dashboard container per browser. Idle sessions expire
// after ttl.
type Sessions struct {
	ttl     time.Duration
	metrics *mmetrics.Collector
	now     func() time.Time

	mu    sync.Mutex
	items map[uuid.UUID]*session
}

func NewSessions(ttl time.Duration, metrics *mmetrics.Collector) *Sessions {
	return &Sessions{
		ttl:     ttl,
		metrics: metrics,
		now:     time.Now,
		items:   make(map[uuid.UUID]*session),
	}
}

// Container returns the container for id, creating a fresh one if the id is
// unknown or expired.
func (s *Sessions) Container(id uuid.UUID) *dashboard.Container {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	if sess, ok := s.items[id]; ok && now.Sub(sess.lastSeen) < s.ttl {
		sess.lastSeen = now
		return sess.ctr
	}
	sess := &session{ctr: dashboard.NewContainer(s.observe), lastSeen: now}
	s.items[id] = sess
	s.updateGauge()
	return sess.ctr
}

// Lookup returns the live container for id and renews it. Unlike Container
// it never creates a session.
func (s *Sessions) Lookup(id uuid.UUID) (*dashboard.Container, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	sess, ok := s.items[id]
	if !ok || now.Sub(sess.lastSeen) >= s.ttl {
		return nil, false
	}
	sess.lastSeen = now
	return sess.ctr, true
}

func (s *Sessions) observe(kind string) {
	if s.metrics != nil {
		s.metrics.SelectionIntents.WithLabelValues(kind).Inc()
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Sweep drops expired sessions and returns how many were removed.
func (s *Sessions) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	n := 0
	for id, sess := range s.items {
		if now.Sub(sess.lastSeen) >= s.ttl {
			delete(s.items, id)
			n++
		}
	}
	s.updateGauge()
	return n
}

// Run sweeps periodically until ctx is done.
func (s *Sessions) Run(ctx context.Context) {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Sweep()
		}
	}
}

func (s *Sessions) updateGauge() {
	if s.metrics != nil {
		s.metrics.Sessions.Set(float64(len(s.items)))
	}
}

func cookieSessionID(r *http.Request) (uuid.UUID, bool) {
	c, err := r.Cookie(sessionCookie)
	if err != nil {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(c.Value)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

// sessionID reads the session cookie, issuing a new id when it is missing or
// malformed.
func sessionID(w http.ResponseWriter, r *http.Request) uuid.UUID {
	if id, ok := cookieSessionID(r); ok {
		return id
	}
	id := uuid.New()
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id.String(),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}
