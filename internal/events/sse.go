package events

import "github.com/kelindar/event"

// SubscribeToChannel adapts the callback-based bus to a channel so the
// SSE log stream can select on it. Delivery is non-blocking: when the
// channel is full the event is dropped rather than stalling the bus,
// so slow SSE clients lose entries instead of backpressuring everyone.
func SubscribeToChannel[T Event](bus *Bus, ch chan<- any) func() {
	return event.Subscribe(bus.dispatcher, func(e T) {
		select {
		case ch <- e:
		default:
		}
	})
}
