// Package metrics exposes interpreter activity as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "kshell"

// Metrics implements shell.Metrics on Prometheus collectors.
type Metrics struct {
	Commands      *prometheus.CounterVec // dispatched lines by command and outcome
	Suggestions   prometheus.Histogram   // items per computed suggestion batch
	Continuations *prometheus.CounterVec // finished permission/activity requests
	Busy          prometheus.Gauge       // 1 while a command runs
}

// NewMetrics creates the collectors and registers them with reg.
// Passing a fresh prometheus.NewRegistry keeps tests isolated.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	commands := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "commands_total",
		Help:      "Submitted lines by command and outcome",
	}, []string{"command", "outcome"})

	suggestions := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "suggestion_items",
		Help:      "Number of items in each suggestion batch",
		Buckets:   []float64{0, 1, 3, 5, 10, 25},
	})

	continuations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "continuations_total",
		Help:      "Completed continuation requests by kind and status",
	}, []string{"kind", "status"})

	busy := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "busy",
		Help:      "1 while a command is executing",
	})

	reg.MustRegister(commands, suggestions, continuations, busy)

	return &Metrics{
		Commands:      commands,
		Suggestions:   suggestions,
		Continuations: continuations,
		Busy:          busy,
	}
}

// CommandDispatched counts one submitted line. Unknown commands are folded
// into a single label value to keep cardinality bounded.
func (m *Metrics) CommandDispatched(command, outcome string) {
	if command == "" {
		command = "unknown"
	}
	m.Commands.WithLabelValues(command, outcome).Inc()
}

// SuggestionsComputed observes the size of a suggestion batch.
func (m *Metrics) SuggestionsComputed(items int) {
	m.Suggestions.Observe(float64(items))
}

// ContinuationDone counts a finished continuation.
func (m *Metrics) ContinuationDone(kind, status string) {
	m.Continuations.WithLabelValues(kind, status).Inc()
}

// SetBusy flips the busy gauge.
func (m *Metrics) SetBusy(busy bool) {
	if busy {
		m.Busy.Set(1)
		return
	}
	m.Busy.Set(0)
}

// Serve exposes gatherer on addr under /metrics until ctx is done.
func Serve(ctx context.Context, addr string, gatherer prometheus.Gatherer) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		<-errCh
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
