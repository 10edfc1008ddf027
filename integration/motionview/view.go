// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package motionview

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/document"
	"github.com/gogpu/motion/engine"
	"github.com/gogpu/motion/engine/wgpu"
)

// Common errors returned by View operations.
var (
	// ErrViewClosed is returned when operations are attempted on a closed view.
	ErrViewClosed = errors.New("motionview: view is closed")

	// ErrNilProvider is returned when a nil DeviceProvider is passed.
	ErrNilProvider = errors.New("motionview: nil DeviceProvider")
)

// textureDestroyer matches the Destroy signature of gogpu textures.
type textureDestroyer interface {
	Destroy()
}

// Option configures a View during creation.
type Option func(*viewOptions)

type viewOptions struct {
	engineName string
	playerOpts []motion.PlayerOption
}

// WithEngine selects an engine by registry name instead of taking the
// best available one. Useful to force the software path in tests.
func WithEngine(name string) Option {
	return func(o *viewOptions) {
		o.engineName = name
	}
}

// WithPlayerOptions passes options through to the view's player.
func WithPlayerOptions(opts ...motion.PlayerOption) Option {
	return func(o *viewOptions) {
		o.playerOpts = append(o.playerOpts, opts...)
	}
}

// View plays one document and presents it inside a host window.
//
// The view owns its render queue and player; closing the view releases
// both. The host drives playback from its draw loop and calls RenderTo
// each frame, which uploads pixels only when something changed.
//
// View is NOT safe for concurrent use.
type View struct {
	queue    *motion.RenderQueue
	player   *motion.Player
	target   *engine.Target
	provider gpucontext.DeviceProvider

	texture     any  // lazily created GPU texture
	oldTexture  any  // previous texture awaiting deferred destruction
	dirty       bool // frame needs recompose and upload
	sizeChanged bool // target resized, texture must be recreated
	width       int
	height      int
	closed      bool
}

// New creates a view for the document, sized to the document's
// composition. The provider should come from the host application
// (e.g., gogpu.App.GPUContextProvider()); it is also forwarded to the
// wgpu engine so GPU composition shares the host's device.
//
// The engine is chosen by priority among registered providers unless
// WithEngine overrides it.
func New(provider gpucontext.DeviceProvider, doc *document.Document, opts ...Option) (*View, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	if doc == nil {
		return nil, motion.ErrNilDocument
	}

	var o viewOptions
	for _, opt := range opts {
		opt(&o)
	}

	// Share the host's device before opening; a wgpu connection opened
	// after this point attaches to it instead of creating its own.
	wgpu.SetDeviceProvider(provider)

	engineOpts := engine.Options{Label: "motionview", Width: doc.Width, Height: doc.Height}
	var (
		conn engine.Conn
		err  error
	)
	if o.engineName != "" {
		conn, err = engine.Open(o.engineName, engineOpts)
	} else {
		conn, err = engine.OpenDefault(engineOpts)
	}
	if err != nil {
		return nil, fmt.Errorf("motionview: open engine: %w", err)
	}

	q := motion.NewRenderQueue(conn, motion.WithLabel("view/"+doc.Name))
	p, err := motion.NewPlayer(q, doc, o.playerOpts...)
	if err != nil {
		_ = q.Close()
		return nil, err
	}

	target, err := engine.NewTarget(doc.Width, doc.Height)
	if err != nil {
		_ = p.Close()
		_ = q.Close()
		return nil, err
	}

	return &View{
		queue:    q,
		player:   p,
		target:   target,
		provider: provider,
		width:    doc.Width,
		height:   doc.Height,
		dirty:    true, // first Flush composes and creates the texture
	}, nil
}

// MustNew is like New but panics on error.
// Use only when errors are programming mistakes (e.g., embedded documents).
func MustNew(provider gpucontext.DeviceProvider, doc *document.Document, opts ...Option) *View {
	v, err := New(provider, doc, opts...)
	if err != nil {
		panic(err)
	}
	return v
}

// Player returns the view's player for direct control and event
// subscription. Returns nil if the view is closed.
func (v *View) Player() *motion.Player {
	if v.closed {
		return nil
	}
	return v.player
}

// Queue returns the view's render queue. Additional players may attach
// to it; they share the view's engine connection. Returns nil if the
// view is closed.
func (v *View) Queue() *motion.RenderQueue {
	if v.closed {
		return nil
	}
	return v.queue
}

// Provider returns the DeviceProvider associated with this view.
// Returns nil if the view is closed.
func (v *View) Provider() gpucontext.DeviceProvider {
	if v.closed {
		return nil
	}
	return v.provider
}

// Width returns the view width in pixels.
func (v *View) Width() int {
	return v.width
}

// Height returns the view height in pixels.
func (v *View) Height() int {
	return v.height
}

// Size returns width and height as a convenience.
func (v *View) Size() (width, height int) {
	return v.width, v.height
}

// Play starts or resumes playback.
func (v *View) Play() {
	if v.closed {
		return
	}
	v.player.Play()
}

// Pause halts playback at the current frame.
func (v *View) Pause() {
	if v.closed {
		return
	}
	v.player.Pause()
}

// Stop halts playback and rewinds to the document's in point.
func (v *View) Stop() {
	if v.closed {
		return
	}
	v.player.Stop()
	v.dirty = true
}

// Seek moves the playhead and flags the frame for re-upload.
func (v *View) Seek(frame float64) error {
	if v.closed {
		return ErrViewClosed
	}
	if err := v.player.Seek(frame); err != nil {
		return err
	}
	v.dirty = true
	return nil
}

// Advance moves playback forward by dt seconds. The view becomes dirty
// only if the playhead actually moved, so paused views skip uploads.
func (v *View) Advance(dt float64) {
	if v.closed {
		return
	}
	before := v.player.Frame()
	v.player.Advance(dt)
	if v.player.Frame() != before {
		v.dirty = true
	}
}

// MarkDirty flags the view for recompose and upload on next Flush().
// Call it after changing player state behind the view's back (for
// example via SetImage).
func (v *View) MarkDirty() {
	v.dirty = true
}

// IsDirty reports whether the view has pending changes that need to be
// composed and uploaded.
func (v *View) IsDirty() bool {
	return v.dirty
}

// Resize changes the pixel size of the view's target.
//
// The document keeps drawing in its own coordinates: a larger view
// letterboxes the composition, a smaller one crops it.
func (v *View) Resize(width, height int) error {
	if v.closed {
		return ErrViewClosed
	}
	if width == v.width && height == v.height {
		return nil
	}

	target, err := engine.NewTarget(width, height)
	if err != nil {
		return err
	}

	v.target = target
	v.width = width
	v.height = height
	v.sizeChanged = true
	v.dirty = true
	return nil
}

// Flush composes the current frame and uploads it to the GPU texture if
// dirty. Returns the texture for manual drawing if needed.
//
// The texture is created lazily: the first Flush returns a placeholder
// that RenderTo converts into a real texture once a creator is
// available.
func (v *View) Flush() (any, error) {
	if v.closed {
		return nil, ErrViewClosed
	}

	// A resized target cannot reuse the old texture. Keep the old one
	// alive until RenderTo has uploaded the replacement; the GPU may
	// still be reading it from in-flight command buffers.
	if v.sizeChanged {
		if v.texture != nil {
			if v.oldTexture != nil {
				if d, ok := v.oldTexture.(textureDestroyer); ok {
					d.Destroy()
				}
			}
			v.oldTexture = v.texture
			v.texture = nil
		}
		v.sizeChanged = false
	}

	if !v.dirty && v.texture != nil {
		return v.texture, nil
	}

	if err := v.player.Render(v.target); err != nil {
		return nil, err
	}

	if v.texture == nil {
		v.texture = &pendingTexture{
			width:  v.width,
			height: v.height,
			data:   v.target.Pix,
		}
		v.dirty = false
		return v.texture, nil
	}

	if updater, ok := v.texture.(gpucontext.TextureUpdater); ok {
		if err := updater.UpdateData(v.target.Pix); err != nil {
			return nil, fmt.Errorf("motionview: texture update failed: %w", err)
		}
	}

	v.dirty = false
	return v.texture, nil
}

// Texture returns the current GPU texture without flushing.
// Returns nil if no texture has been created yet.
func (v *View) Texture() any {
	return v.texture
}

// pendingTexture holds frame data until RenderTo has access to a
// texture creator. Target pixels are premultiplied RGBA, the layout
// NewTextureFromRGBA expects.
type pendingTexture struct {
	width  int
	height int
	data   []byte
}

// Close releases the view's player, queue reference, and GPU textures.
// If nothing else holds the queue, the engine connection closes here
// and its error is returned. Close is idempotent.
func (v *View) Close() error {
	if v.closed {
		return nil
	}
	v.closed = true

	if v.oldTexture != nil {
		if d, ok := v.oldTexture.(textureDestroyer); ok {
			d.Destroy()
		}
		v.oldTexture = nil
	}
	if v.texture != nil {
		if d, ok := v.texture.(textureDestroyer); ok {
			d.Destroy()
		}
		v.texture = nil
	}

	perr := v.player.Close()
	qerr := v.queue.Close()
	v.provider = nil

	if perr != nil {
		return perr
	}
	return qerr
}
