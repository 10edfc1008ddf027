package motion

import (
	"sync"
	"sync/atomic"
	"testing"
)

func TestEventTypeString(t *testing.T) {
	tests := []struct {
		typ  EventType
		want string
	}{
		{EventLoad, "Load"},
		{EventPlay, "Play"},
		{EventPause, "Pause"},
		{EventStop, "Stop"},
		{EventLoop, "Loop"},
		{EventComplete, "Complete"},
		{EventFrame, "Frame"},
		{EventDispose, "Dispose"},
		{EventType(99), "Unknown"},
	}

	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("EventType(%d).String() = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestDispatcherFanOut(t *testing.T) {
	d := newDispatcher()

	var a, b []Event
	d.subscribe(func(ev Event) { a = append(a, ev) })
	d.subscribe(func(ev Event) { b = append(b, ev) })

	d.emit(Event{Type: EventPlay, Label: "x"})

	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("listener counts = %d, %d, want 1, 1", len(a), len(b))
	}
	if a[0].Type != EventPlay || a[0].Label != "x" {
		t.Errorf("event = %+v, want Play/x", a[0])
	}
}

func TestDispatcherUnsubscribe(t *testing.T) {
	d := newDispatcher()

	var kept, cancelled int
	d.subscribe(func(Event) { kept++ })
	cancel := d.subscribe(func(Event) { cancelled++ })

	d.emit(Event{Type: EventFrame})
	cancel()
	d.emit(Event{Type: EventFrame})
	cancel() // cancelling twice is harmless

	if kept != 2 {
		t.Errorf("kept listener saw %d events, want 2", kept)
	}
	if cancelled != 1 {
		t.Errorf("cancelled listener saw %d events, want 1", cancelled)
	}
}

func TestListenerUnsubscribesItself(t *testing.T) {
	d := newDispatcher()

	var calls int
	var cancel func()
	cancel = d.subscribe(func(Event) {
		calls++
		cancel()
	})

	// Must not deadlock: emit copies the listener set before calling.
	d.emit(Event{Type: EventFrame})
	d.emit(Event{Type: EventFrame})

	if calls != 1 {
		t.Errorf("self-cancelling listener saw %d events, want 1", calls)
	}
}

func TestDispatcherConcurrent(t *testing.T) {
	d := newDispatcher()

	var received atomic.Int64
	var wg sync.WaitGroup

	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				cancel := d.subscribe(func(Event) { received.Add(1) })
				d.emit(Event{Type: EventFrame})
				cancel()
			}
		}()
	}
	wg.Wait()

	// Every goroutine's own listener was live for at least its own emit.
	if got := received.Load(); got < 500 {
		t.Errorf("received %d events, want at least 500", got)
	}
}
