// Package telemetry wires Prometheus counters and OpenTelemetry tracing
// for the running handler, grounded in the teacher's
// internal/telemetry/{metrics,telemetry}.go. Metrics are incremented from
// the capture-loop driver rather than the core itself, consistent with §5's
// "no locks required inside the core": the core exposes outcomes via
// Handler's accessors, the driver records them.
package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// FramesClassified counts every frame Handler.Update classified
	// successfully (i.e. not rejected by a filter), by 802.11 main type.
	FramesClassified = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "airbridge",
			Name:      "frames_classified_total",
			Help:      "Total number of 802.11 frames classified by main type",
		},
		[]string{"type"},
	)

	// FramesConverted counts Data frames successfully turned into Ethernet II.
	FramesConverted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "airbridge",
			Name:      "frames_converted_total",
			Help:      "Total number of Data frames converted to Ethernet II",
		},
	)

	// FramesDropped counts frames Handler.Update rejected before
	// conversion, tagged with the rejection reason (§4.4 early-return
	// paths: MAC/SSID filtering, BSSID lock/mismatch).
	FramesDropped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "airbridge",
			Name:      "frames_dropped_total",
			Help:      "Total number of frames dropped before conversion",
		},
		[]string{"reason"},
	)

	// AcksBuilt counts outbound Ack frames synthesised by FrameBuilder for
	// injection back onto the air interface.
	AcksBuilt = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "airbridge",
			Name:      "acks_built_total",
			Help:      "Total number of Ack frames synthesised for injection",
		},
	)

	once sync.Once
)

// InitMetrics registers every metric with the default Prometheus
// registerer. Idempotent, matching the teacher's sync.Once guard.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(FramesClassified)
		prometheus.DefaultRegisterer.Register(FramesConverted)
		prometheus.DefaultRegisterer.Register(FramesDropped)
		prometheus.DefaultRegisterer.Register(AcksBuilt)
	})
}
