// Package metrics holds the Prometheus collectors for the bridge.
package metrics

import (
	"sync"

	"github.com/mastercactapus/repatcher-osc/repatcher"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "repatcher"

var (
	registerOnce sync.Once

	decoderBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "decoder",
		Name:      "bytes_total",
		Help:      "Bytes read from the device.",
	})
	decoderFrames = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "decoder",
		Name:      "frames_total",
		Help:      "Complete frames decoded.",
	})
	decoderDiscarded = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "decoder",
		Name:      "discarded_bytes_total",
		Help:      "Bytes dropped while searching for a frame start.",
	})
	oscMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "osc",
			Name:      "messages_total",
			Help:      "OSC messages sent.",
		},
		[]string{"kind"},
	)
	oscSendErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "osc",
		Name:      "send_errors_total",
		Help:      "OSC messages that failed to send.",
	})
)

// Register adds all collectors to the default registry. It is safe to call
// more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(decoderBytes, decoderFrames, decoderDiscarded, oscMessages, oscSendErrors)
	})
}

// DecoderTracker turns cumulative decoder stats into counter increments.
type DecoderTracker struct {
	last repatcher.Stats
}

// Update adds the difference between s and the previous call.
func (t *DecoderTracker) Update(s repatcher.Stats) {
	decoderBytes.Add(float64(s.Bytes - t.last.Bytes))
	decoderFrames.Add(float64(s.Frames - t.last.Frames))
	decoderDiscarded.Add(float64(s.Discarded - t.last.Discarded))
	t.last = s
}

// Kind names the event kind for labels.
func Kind(ev repatcher.Event) string {
	switch ev.(type) {
	case repatcher.KnobEvent:
		return "knob"
	case repatcher.PatchRowEvent:
		return "output"
	}
	return "unknown"
}

func RecordSent(ev repatcher.Event) { oscMessages.WithLabelValues(Kind(ev)).Inc() }

func RecordSendError() { oscSendErrors.Inc() }
