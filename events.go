// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package motion

import "sync"

// EventType identifies a playback or lifecycle event.
type EventType uint8

const (
	// EventLoad fires when a player attaches a document.
	EventLoad EventType = iota
	// EventPlay fires when playback starts or resumes.
	EventPlay
	// EventPause fires when playback pauses.
	EventPause
	// EventStop fires when playback stops and rewinds.
	EventStop
	// EventLoop fires each time a looping player wraps to the start.
	EventLoop
	// EventComplete fires when a non-looping player reaches the end.
	EventComplete
	// EventFrame fires after each frame advance.
	EventFrame
	// EventDispose fires after queue teardown has completed.
	EventDispose
)

var eventTypeNames = map[EventType]string{
	EventLoad:     "Load",
	EventPlay:     "Play",
	EventPause:    "Pause",
	EventStop:     "Stop",
	EventLoop:     "Loop",
	EventComplete: "Complete",
	EventFrame:    "Frame",
	EventDispose:  "Dispose",
}

func (e EventType) String() string {
	if name, ok := eventTypeNames[e]; ok {
		return name
	}
	return "Unknown"
}

// Event carries the details of a playback or lifecycle event.
type Event struct {
	// Type identifies the event.
	Type EventType

	// Label names the emitting queue or player.
	Label string

	// Frame is the player frame at emission time. Zero for queue
	// lifecycle events.
	Frame float64
}

// Listener receives events. Listeners run synchronously on the goroutine
// that triggered the event and should return quickly.
type Listener func(Event)

// dispatcher fans events out to subscribed listeners.
type dispatcher struct {
	mu        sync.RWMutex
	listeners map[int]Listener
	nextID    int
}

func newDispatcher() *dispatcher {
	return &dispatcher{listeners: make(map[int]Listener)}
}

// subscribe registers a listener and returns a cancel function.
func (d *dispatcher) subscribe(fn Listener) func() {
	d.mu.Lock()
	id := d.nextID
	d.nextID++
	d.listeners[id] = fn
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		delete(d.listeners, id)
		d.mu.Unlock()
	}
}

// emit delivers the event to every listener. The listener set is copied
// first so a listener may unsubscribe (or subscribe) without deadlock.
func (d *dispatcher) emit(ev Event) {
	d.mu.RLock()
	fns := make([]Listener, 0, len(d.listeners))
	for _, fn := range d.listeners {
		fns = append(fns, fn)
	}
	d.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}
