// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"errors"
	"image"
)

// Common engine errors.
var (
	// ErrNoEngineAvailable is returned when no engine providers are
	// registered or available on the current system.
	ErrNoEngineAvailable = errors.New("engine: no engine available")

	// ErrConnClosed is returned when operations are called on a closed
	// connection.
	ErrConnClosed = errors.New("engine: connection closed")

	// ErrNilTarget is returned when a submission has no pixel target.
	ErrNilTarget = errors.New("engine: nil target")

	// ErrNilBatch is returned when a submission has no command batch.
	ErrNilBatch = errors.New("engine: nil batch")

	// ErrInvalidDimensions is returned when width or height is not positive.
	ErrInvalidDimensions = errors.New("engine: invalid dimensions")
)

// Options describes the connection parameters passed to a Provider's Open.
type Options struct {
	// Label is an optional debug label attached to engine resources.
	Label string

	// Width and Height hint the typical target size. Providers may use
	// them to pre-size internal buffers; zero means unknown.
	Width, Height int
}

// Provider supplies engine connections for one backend or platform target.
//
// Providers register themselves via Register() and are selected via
// Open() or OpenDefault(). The connection lifecycle logic in motion is
// written once against this interface; platform variants only implement
// Open, never their own sharing or reference counting.
type Provider interface {
	// Name returns the provider identifier (e.g., "software", "wgpu").
	Name() string

	// Open establishes a connection to the engine's render queue.
	// Each call returns an independent connection; sharing one connection
	// between callers is the job of motion.RenderQueue, not the provider.
	Open(opts Options) (Conn, error)
}

// Conn is an open connection to an engine's render queue.
//
// A Conn is owned by exactly one motion.RenderQueue and shared through it.
// Implementations are not required to serialize Submit and Flush; the
// owning queue routes every submission through a single lock. Close is
// called at most once, by the owning queue, after the last logical owner
// has released.
type Conn interface {
	// Name returns the provider name that opened this connection.
	Name() string

	// Submit composes a command batch into the target.
	Submit(batch *Batch, target *Target) error

	// Flush completes all submitted work. For CPU engines this is a
	// no-op; GPU engines may block until the device queue drains.
	Flush() error

	// Close tears down the connection and releases engine resources.
	Close() error
}

// Target is a CPU-visible pixel target for composed frames.
// Pix holds premultiplied RGBA bytes, 4 per pixel, laid out row by row
// with the given Stride.
type Target struct {
	Pix           []uint8
	Width, Height int
	Stride        int // bytes per row
}

// NewTarget allocates a target with a tightly packed stride.
func NewTarget(width, height int) (*Target, error) {
	if width <= 0 || height <= 0 {
		return nil, ErrInvalidDimensions
	}
	return &Target{
		Pix:    make([]uint8, width*height*4),
		Width:  width,
		Height: height,
		Stride: width * 4,
	}, nil
}

// Image returns a copy of the target contents as an *image.RGBA.
func (t *Target) Image() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	for y := 0; y < t.Height; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+t.Width*4], t.Pix[y*t.Stride:y*t.Stride+t.Width*4])
	}
	return img
}
