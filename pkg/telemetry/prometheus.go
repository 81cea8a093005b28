// Package telemetry provides Telemetry implementations for the kpi service.
package telemetry

import (
	"context"
	"errors"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus counts recorded events by name and report key.
type Prometheus struct {
	events *prometheus.CounterVec
}

// NewPrometheus registers the event counter with reg. A nil registerer uses
// the default registry.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "kpi",
		Name:      "events_total",
		Help:      "Tile preference events by event name and report key",
	}, []string{"event", "report_key"})
	if err := reg.Register(events); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, cast := already.ExistingCollector.(*prometheus.CounterVec); cast {
				return &Prometheus{events: existing}, nil
			}
		}
		return nil, fmt.Errorf("telemetry: register counter: %w", err)
	}
	return &Prometheus{events: events}, nil
}

// Record increments the counter for event.
func (p *Prometheus) Record(_ context.Context, event string, payload map[string]any) {
	if p == nil || event == "" {
		return
	}
	p.events.WithLabelValues(event, stringValue(payload, "report_key")).Inc()
}

// Collector exposes the underlying counter for tests and custom registries.
func (p *Prometheus) Collector() *prometheus.CounterVec {
	return p.events
}

func stringValue(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	switch v := payload[key].(type) {
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return ""
	}
}
