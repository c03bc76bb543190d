package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/nats-io/nats.go"

	"citybus-tracker/internal/transit"
)

type NATSPublisher struct {
	nc          *nats.Conn
	prefix      string
	logSubjects bool
	metrics     PublisherMetrics
}

type PublisherMetrics interface {
	NATSPublishedInc()
	NATSPublishErrInc()
	PublishObserve(d time.Duration)
	NATSSetConnected(connected bool)
}

func NewNATSPublisher(url, prefix string, logSubjects bool, m PublisherMetrics) (*NATSPublisher, error) {
	nc, err := nats.Connect(url,
		nats.Name("citybus-tracker"),
		nats.DisconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats disconnected")
		}),
		nats.ReconnectHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(true)
			}
			log.Printf("nats reconnected")
		}),
		nats.ClosedHandler(func(_ *nats.Conn) {
			if m != nil {
				m.NATSSetConnected(false)
			}
			log.Printf("nats closed")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("nats connect: %w", err)
	}
	if m != nil {
		m.NATSSetConnected(true)
	}
	return &NATSPublisher{nc: nc, prefix: prefix, logSubjects: logSubjects, metrics: m}, nil
}

func (p *NATSPublisher) Close() {
	if p.nc != nil {
		p.nc.Drain()
		p.nc.Close()
	}
}

func (p *NATSPublisher) Name() string { return "nats" }

type PositionMessage struct {
	VehicleID  string    `json:"vehicleId"`
	RouteID    string    `json:"routeId"`
	Timestamp  time.Time `json:"timestamp"`
	Lat        float64   `json:"lat"`
	Lon        float64   `json:"lon"`
	Direction  string    `json:"direction"`
	Occupancy  string    `json:"occupancy"`
	NextStop   string    `json:"nextStop"`
	ETAMinutes int       `json:"etaMinutes"`
}

func NewPositionMessage(v transit.Vehicle, at time.Time) PositionMessage {
	return PositionMessage{
		VehicleID:  v.ID,
		RouteID:    v.Route,
		Timestamp:  at,
		Lat:        v.Lat,
		Lon:        v.Lon,
		Direction:  v.Direction,
		Occupancy:  string(v.Occupancy),
		NextStop:   v.NextStop,
		ETAMinutes: v.ETAMinutes,
	}
}

// PublishPositions sends one message per vehicle and returns the first error
// after attempting all of them.
func (p *NATSPublisher) PublishPositions(_ context.Context, at time.Time, vehicles []transit.Vehicle) error {
	var firstErr error
	for _, v := range vehicles {
		if err := p.PublishPosition(NewPositionMessage(v, at)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (p *NATSPublisher) PublishPosition(msg PositionMessage) error {
	subject := Subject(p.prefix, msg.RouteID, msg.VehicleID)
	b, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	if p.logSubjects {
		log.Printf("nats publish subject=%s", subject)
	}
	start := time.Now()
	err = p.nc.Publish(subject, b)
	if p.metrics != nil {
		p.metrics.PublishObserve(time.Since(start))
		if err != nil {
			p.metrics.NATSPublishErrInc()
		} else {
			p.metrics.NATSPublishedInc()
		}
	}
	return err
}

// Subject builds "<prefix>.<route>.<vehicle>". The prefix may itself contain
// dots; route and vehicle are sanitized into single tokens.
func Subject(prefix, routeID, vehicleID string) string {
	s := fmt.Sprintf("%s.%s", subjectToken(routeID), subjectToken(vehicleID))
	if prefix = strings.Trim(strings.TrimSpace(prefix), "."); prefix != "" {
		s = prefix + "." + s
	}
	return s
}

func subjectToken(s string) string {
	s = strings.TrimSpace(s)
	// NATS token cannot contain spaces, '>', '*', or trailing '.'
	repl := strings.NewReplacer(" ", "_", ".", "_", ">", "_", "*", "_", "/", "_", "\t", "_")
	s = repl.Replace(s)
	if s == "" {
		s = "_"
	}
	return s
}
