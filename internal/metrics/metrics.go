// Package metrics exposes the poll engine's own operational counters via
// Prometheus, independent of the telemetry it collects from the device.
// This is the poller observing itself, not a device series: "how many
// cycles ran," "how many parses failed," not anything published in a
// collection envelope.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	cclog "github.com/scottpeterman/wirlwind/internal/log"
)

var (
	PollCycles = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wirlwind_poll_cycles_total",
		Help: "Number of completed poll pipeline invocations, by collection and outcome.",
	}, []string{"collection", "outcome"})

	TransportErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wirlwind_transport_errors_total",
		Help: "Number of command-channel transport failures observed across all collections.",
	})

	ReconnectAttempts = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wirlwind_reconnect_attempts_total",
		Help: "Number of reconnect attempts made after a transport failure streak.",
	})

	DroppedEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wirlwind_dropped_events_total",
		Help: "Number of update events dropped because a subscriber's queue was full.",
	}, []string{"collection"})

	RingBufferSamples = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wirlwind_ring_buffer_samples",
		Help: "Current sample count retained per series.",
	}, []string{"collection", "series"})
)

// Serve starts a /metrics HTTP endpoint in the background and returns a
// shutdown function. Intended for an operator who passes --metrics-addr;
// if addr is empty, Serve is a no-op, matching the rest of this codebase's
// "skip silently if unconfigured" convention for optional ambient features.
func Serve(addr string) func(context.Context) error {
	if addr == "" {
		return func(context.Context) error { return nil }
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			cclog.Errorf("metrics: server failed: %v", err)
		}
	}()
	cclog.Infof("metrics: serving /metrics on %s", addr)

	return srv.Shutdown
}
