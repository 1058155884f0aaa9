package exporters

import (
	"github.com/srtcast/srtcast/internal/events"
	"github.com/srtcast/srtcast/internal/metrics"
)

// BusRecorder subscribes to the event bus and records Prometheus
// metrics for pipeline and session events.
type BusRecorder struct {
	unsubs []func()
}

// NewBusRecorder creates a recorder attached to the given bus.
func NewBusRecorder(bus *events.Bus) *BusRecorder {
	r := &BusRecorder{}
	r.unsubs = append(r.unsubs,
		bus.Subscribe(func(e events.PipelineBuiltEvent) {
			metrics.RecordPipelineBuilt(e.Mode)
		}),
		bus.Subscribe(func(e events.SessionStateEvent) {
			if e.State == "restarting" {
				metrics.RecordSessionRestart()
			}
		}),
	)
	return r
}

// Stop detaches the recorder from the bus.
func (r *BusRecorder) Stop() {
	for _, unsub := range r.unsubs {
		unsub()
	}
	r.unsubs = nil
}
