// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package motion

import (
	"image"
	"image/color"
	"sync"

	"github.com/gogpu/motion/document"
	"github.com/gogpu/motion/engine"
)

// PlayerOption configures a Player during creation.
type PlayerOption func(*playerOptions)

type playerOptions struct {
	tag    string
	speed  float64
	loop   bool
	images map[string]image.Image
}

func defaultPlayerOptions() playerOptions {
	return playerOptions{speed: 1}
}

// WithTag sets the owner tag the player uses for its queue reference.
// The default is "player/" followed by the document name.
func WithTag(tag string) PlayerOption {
	return func(o *playerOptions) {
		if tag != "" {
			o.tag = tag
		}
	}
}

// WithSpeed sets the playback rate multiplier. Values at or below zero
// are ignored.
func WithSpeed(speed float64) PlayerOption {
	return func(o *playerOptions) {
		if speed > 0 {
			o.speed = speed
		}
	}
}

// WithLoop makes playback wrap to the in point instead of completing.
func WithLoop() PlayerOption {
	return func(o *playerOptions) {
		o.loop = true
	}
}

// WithImage registers an image asset for layers that reference it by
// name. Layers whose asset is missing are skipped at render time.
func WithImage(name string, img image.Image) PlayerOption {
	return func(o *playerOptions) {
		if o.images == nil {
			o.images = make(map[string]image.Image)
		}
		o.images[name] = img
	}
}

// preparedLayer is a document layer with its render-time constants
// resolved once at load.
type preparedLayer struct {
	src   document.Layer
	color color.RGBA
	text  *document.TextInfo
}

// defaultTextColor fills text placeholder blocks when the layer does
// not specify a color.
var defaultTextColor = color.RGBA{R: 128, G: 128, B: 128, A: 255}

// Player drives a document through time and renders frames through a
// shared render queue.
//
// A player holds one queue reference from NewPlayer until Close. Many
// players may share one queue; each holds its own reference, and the
// engine connection closes only after every player (and the queue's
// creator) has released.
//
// Player methods are safe for concurrent use.
type Player struct {
	mu sync.Mutex

	queue  *RenderQueue
	doc    *document.Document
	tag    string
	speed  float64
	loop   bool
	images map[string]image.Image

	background color.RGBA
	layers     []preparedLayer

	frame   float64
	playing bool
	closed  bool

	events *dispatcher
}

// NewPlayer attaches a document to a queue. The player validates the
// document, acquires one queue reference under its tag, and emits
// EventLoad to the queue's subscribers. Fails with ErrQueueDisposed if
// the queue is already gone.
func NewPlayer(q *RenderQueue, doc *document.Document, opts ...PlayerOption) (*Player, error) {
	if doc == nil {
		return nil, ErrNilDocument
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}

	o := defaultPlayerOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.tag == "" {
		name := doc.Name
		if name == "" {
			name = "unnamed"
		}
		o.tag = "player/" + name
	}

	if err := q.Acquire(o.tag); err != nil {
		return nil, err
	}

	p := &Player{
		queue:  q,
		doc:    doc,
		tag:    o.tag,
		speed:  o.speed,
		loop:   o.loop,
		images: o.images,
		frame:  doc.InPoint,
		events: newDispatcher(),
	}
	p.prepare()

	Logger().Debug("player attached", "tag", p.tag, "frames", doc.Frames())

	// Load is a queue-level event: the player's own dispatcher has no
	// listeners yet, but code watching the shared queue sees attachments.
	q.events.emit(Event{Type: EventLoad, Label: p.tag, Frame: p.frame})
	return p, nil
}

// prepare resolves per-layer constants the render loop should not redo
// every frame. Validation already ran, so color parses cannot fail for
// solids; other kinds fall back to defaults on bad input.
func (p *Player) prepare() {
	if p.doc.Background != "" {
		p.background, _ = document.ParseColor(p.doc.Background)
	}

	p.layers = make([]preparedLayer, 0, len(p.doc.Layers))
	for _, l := range p.doc.Layers {
		pl := preparedLayer{src: l}
		switch l.Kind {
		case document.KindSolid:
			pl.color, _ = document.ParseColor(l.Color)
		case document.KindText:
			pl.text = document.AnalyzeText(l.Text)
			pl.color = defaultTextColor
			if l.Color != "" {
				if c, err := document.ParseColor(l.Color); err == nil {
					pl.color = c
				}
			}
		}
		p.layers = append(p.layers, pl)
	}
}

// Play starts or resumes playback.
func (p *Player) Play() {
	p.mu.Lock()
	if p.closed || p.playing {
		p.mu.Unlock()
		return
	}
	p.playing = true
	frame := p.frame
	p.mu.Unlock()

	p.events.emit(Event{Type: EventPlay, Label: p.tag, Frame: frame})
}

// Pause halts playback at the current frame.
func (p *Player) Pause() {
	p.mu.Lock()
	if p.closed || !p.playing {
		p.mu.Unlock()
		return
	}
	p.playing = false
	frame := p.frame
	p.mu.Unlock()

	p.events.emit(Event{Type: EventPause, Label: p.tag, Frame: frame})
}

// Stop halts playback and rewinds to the in point.
func (p *Player) Stop() {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return
	}
	p.playing = false
	p.frame = p.doc.InPoint
	frame := p.frame
	p.mu.Unlock()

	p.events.emit(Event{Type: EventStop, Label: p.tag, Frame: frame})
}

// Seek moves the playhead to the given frame, clamped to the document
// range. Seeking does not start or stop playback.
func (p *Player) Seek(frame float64) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPlayerClosed
	}
	if frame < p.doc.InPoint {
		frame = p.doc.InPoint
	}
	if frame > p.doc.OutPoint {
		frame = p.doc.OutPoint
	}
	p.frame = frame
	p.mu.Unlock()

	p.events.emit(Event{Type: EventFrame, Label: p.tag, Frame: frame})
	return nil
}

// Advance moves playback forward by dt seconds of wall time. It does
// nothing while paused or stopped. Looping players wrap and emit
// EventLoop; others clamp at the out point, stop, and emit
// EventComplete.
func (p *Player) Advance(dt float64) {
	p.mu.Lock()
	if p.closed || !p.playing {
		p.mu.Unlock()
		return
	}

	p.frame += dt * p.doc.FrameRate * p.speed

	var fired []Event
	if p.frame >= p.doc.OutPoint {
		if p.loop {
			span := p.doc.OutPoint - p.doc.InPoint
			for p.frame >= p.doc.OutPoint {
				p.frame -= span
			}
			fired = append(fired, Event{Type: EventLoop, Label: p.tag, Frame: p.frame})
		} else {
			p.frame = p.doc.OutPoint
			p.playing = false
			fired = append(fired, Event{Type: EventComplete, Label: p.tag, Frame: p.frame})
		}
	}
	fired = append(fired, Event{Type: EventFrame, Label: p.tag, Frame: p.frame})
	p.mu.Unlock()

	for _, ev := range fired {
		p.events.emit(ev)
	}
}

// Render composites the current frame into the target through the
// shared queue.
func (p *Player) Render(target *engine.Target) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPlayerClosed
	}

	batch := engine.DefaultPool.Get()
	p.buildBatch(batch)
	p.mu.Unlock()

	err := p.queue.Submit(batch, target)
	engine.DefaultPool.Put(batch)
	return err
}

// buildBatch translates the document at the current frame into engine
// commands. Caller holds p.mu.
//
// Documents without a background emit no clear, so they composite over
// whatever the target already holds. Overlay documents rely on this.
func (p *Player) buildBatch(batch *engine.Batch) {
	if p.doc.Background != "" {
		batch.Clear(p.background)
	}
	batch.Mark(p.doc.Name, int(p.frame))

	for i := range p.layers {
		pl := &p.layers[i]
		l := &pl.src
		if !l.VisibleAt(p.frame) {
			continue
		}
		opacity := l.EffectiveOpacity()

		switch l.Kind {
		case document.KindSolid:
			batch.FillRect(l.X, l.Y, l.W, l.H, pl.color, opacity)

		case document.KindImage:
			img, ok := p.images[l.Src]
			if !ok {
				Logger().Debug("image asset missing", "layer", l.Name, "src", l.Src)
				continue
			}
			w, h := l.W, l.H
			if w == 0 {
				w = float64(img.Bounds().Dx())
			}
			if h == 0 {
				h = float64(img.Bounds().Dy())
			}
			batch.DrawImage(img, l.X, l.Y, w, h, opacity)

		case document.KindText:
			p.buildTextBlocks(batch, pl, opacity)
		}
	}
}

// buildTextBlocks renders a text layer as direction-aware placeholder
// blocks, one per bidi run. Without font data the blocks stand in for
// shaped glyphs: RTL text hangs from the right edge of the layer box.
func (p *Player) buildTextBlocks(batch *engine.Batch, pl *preparedLayer, opacity float64) {
	info := pl.text
	if info == nil || info.Runes == 0 {
		return
	}
	l := &pl.src

	size := l.Size
	if size <= 0 {
		size = l.H
	}
	if size <= 0 {
		return
	}

	x := l.X
	if info.Direction == document.DirectionRTL && l.W > 0 {
		x = l.X + l.W - info.EstimateWidth(size)
	}
	for _, run := range info.Runs {
		runW := float64(len([]rune(run.Text))) * size * 0.5
		if runW <= 0 {
			continue
		}
		batch.FillRect(x, l.Y, runW, size, pl.color, opacity)
		x += runW
	}
}

// Frame returns the current playhead position in document frames.
func (p *Player) Frame() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.frame
}

// Playing reports whether playback is running.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.playing
}

// Tag returns the owner tag the player holds its queue reference under.
func (p *Player) Tag() string {
	return p.tag
}

// Document returns the attached document.
func (p *Player) Document() *document.Document {
	return p.doc
}

// SetImage registers or replaces an image asset after creation.
func (p *Player) SetImage(name string, img image.Image) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.images == nil {
		p.images = make(map[string]image.Image)
	}
	p.images[name] = img
}

// Subscribe registers a listener for playback events. The returned
// function cancels the subscription.
func (p *Player) Subscribe(fn Listener) func() {
	return p.events.subscribe(fn)
}

// Close releases the player's queue reference. If this was the last
// reference anywhere, the engine connection closes here. Close is not
// idempotent: a second call reports ErrPlayerClosed.
func (p *Player) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return ErrPlayerClosed
	}
	p.closed = true
	p.playing = false
	p.mu.Unlock()

	return p.queue.Release(p.tag)
}
