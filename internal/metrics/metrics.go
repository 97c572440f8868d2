// Package metrics exposes the driver's operational counters over
// Prometheus. Grounded on luxfi-consensus/metrics/metrics.go's
// registry-holding wrapper and Hawthorne001-aistore/stats's use of a
// private prometheus.Registry rather than the global default, so a
// test process can construct multiple independent Metrics values.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters the driver updates once per tick.
type Metrics struct {
	Registry *prometheus.Registry

	PeekEffort      prometheus.Counter
	ConvergeTicks   prometheus.Counter
	CommandsEmitted *prometheus.CounterVec
	TickFailures    prometheus.Counter
}

// New builds a Metrics value registered against its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()

	return &Metrics{
		Registry: reg,
		PeekEffort: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "mediactl",
			Subsystem: "engine",
			Name:      "peek_effort_total",
			Help:      "Cumulative effort units spent by Peek walks.",
		}),
		ConvergeTicks: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "mediactl",
			Subsystem: "driver",
			Name:      "ticks_total",
			Help:      "Number of driver ticks that ran to completion.",
		}),
		CommandsEmitted: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Namespace: "mediactl",
			Subsystem: "driver",
			Name:      "commands_emitted_total",
			Help:      "Primitive player commands issued, by kind.",
		}, []string{"kind"}),
		TickFailures: promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Namespace: "mediactl",
			Subsystem: "driver",
			Name:      "tick_failures_total",
			Help:      "Ticks that returned an error.",
		}),
	}
}

// Server serves the registry's exposition format until ctx is canceled.
type Server struct {
	httpServer *http.Server
}

// NewServer builds a metrics HTTP server bound to addr. Listening
// starts only once Serve is called.
func NewServer(addr string, m *Metrics) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{}))

	return &Server{httpServer: &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}}
}

// Serve runs the server until ctx is canceled, then shuts it down
// gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() { errCh <- s.httpServer.Serve(ln) }()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpServer.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
