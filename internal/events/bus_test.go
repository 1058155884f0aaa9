package events

import (
	"encoding/json"
	"sync"
	"testing"
	"time"
)

func TestBus_PublishSubscribe(t *testing.T) {
	bus := New()
	received := make(chan PipelineBuiltEvent, 1)

	unsub := bus.Subscribe(func(e PipelineBuiltEvent) {
		received <- e
	})
	defer unsub()

	event := PipelineBuiltEvent{
		Mode:      "screenshare",
		Role:      "listen",
		URI:       "srt://:5000",
		Command:   "gst-launch-1.0 ximagesrc",
		Timestamp: "2025-01-27T10:30:00Z",
	}
	bus.Publish(event)

	select {
	case got := <-received:
		if got.URI != event.URI {
			t.Errorf("Expected uri %s, got %s", event.URI, got.URI)
		}
		if got.Mode != "screenshare" {
			t.Errorf("Expected mode screenshare, got %s", got.Mode)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for event")
	}
}

func TestBus_MultipleSubscribers(t *testing.T) {
	bus := New()
	received1 := make(chan LogEntryEvent, 1)
	received2 := make(chan LogEntryEvent, 1)

	unsub1 := bus.Subscribe(func(e LogEntryEvent) {
		received1 <- e
	})
	defer unsub1()

	unsub2 := bus.Subscribe(func(e LogEntryEvent) {
		received2 <- e
	})
	defer unsub2()

	bus.Publish(LogEntryEvent{Seq: 1, Level: "info", Module: "gst", Message: "hello"})

	for i, ch := range []chan LogEntryEvent{received1, received2} {
		select {
		case got := <-ch:
			if got.Message != "hello" {
				t.Errorf("subscriber %d: message = %q", i, got.Message)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d: timeout", i)
		}
	}
}

func TestBus_Unsubscribe(t *testing.T) {
	bus := New()
	var mu sync.Mutex
	count := 0

	unsub := bus.Subscribe(func(_ SessionStateEvent) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	bus.Publish(SessionStateEvent{State: "running"})
	time.Sleep(50 * time.Millisecond)
	unsub()
	bus.Publish(SessionStateEvent{State: "exited", ExitCode: 1})
	time.Sleep(50 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if count != 1 {
		t.Errorf("expected 1 delivery, got %d", count)
	}
}

func TestBus_UnknownHandlerType(t *testing.T) {
	bus := New()
	unsub := bus.Subscribe(func(_ string) {})
	// No-op unsubscribe must not panic.
	unsub()
}

func TestSubscribeToChannel(t *testing.T) {
	bus := New()
	ch := make(chan any, 4)

	unsub := SubscribeToChannel[LogEntryEvent](bus, ch)
	defer unsub()

	bus.Publish(LogEntryEvent{Seq: 7, Message: "streamed"})

	select {
	case got := <-ch:
		entry, ok := got.(LogEntryEvent)
		if !ok {
			t.Fatalf("unexpected payload type %T", got)
		}
		if entry.Seq != 7 {
			t.Errorf("Seq = %d, want 7", entry.Seq)
		}
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for channel delivery")
	}
}

func TestLogEntryEventJSON(t *testing.T) {
	entry := LogEntryEvent{
		Seq:       42,
		Timestamp: "2025-01-09T10:30:00.123Z",
		Level:     "warn",
		Module:    "process",
		Message:   "Restart requested",
	}

	data, err := json.Marshal(entry)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var decoded LogEntryEvent
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if decoded.Seq != 42 || decoded.Module != "process" {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
	if decoded.Attributes != nil {
		t.Errorf("empty attributes should stay nil, got %v", decoded.Attributes)
	}
}
