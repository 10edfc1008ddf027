// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package document

import (
	"errors"
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Errors returned by document validation.
var (
	ErrNoFrameRate   = errors.New("document: frame rate must be positive")
	ErrEmptyRange    = errors.New("document: out point must be after in point")
	ErrBadDimensions = errors.New("document: width and height must be positive")
	ErrUnknownKind   = errors.New("document: unknown layer kind")
	ErrBadColor      = errors.New("document: malformed color")
)

// LayerKind identifies what a layer draws.
type LayerKind string

const (
	// KindSolid is a solid color rectangle.
	KindSolid LayerKind = "solid"
	// KindImage composites an external image.
	KindImage LayerKind = "image"
	// KindText is a text block.
	KindText LayerKind = "text"
)

// Document is a deserialized animation document.
//
// Frame numbers are expressed in document frames; InPoint and OutPoint
// bound the playable range, and FrameRate converts frames to seconds.
type Document struct {
	// Name identifies the document in diagnostics.
	Name string `json:"name"`

	// FrameRate is the playback rate in frames per second.
	FrameRate float64 `json:"fr"`

	// InPoint is the first playable frame.
	InPoint float64 `json:"ip"`

	// OutPoint is one past the last playable frame.
	OutPoint float64 `json:"op"`

	// Width and Height are the composition size in pixels.
	Width  int `json:"w"`
	Height int `json:"h"`

	// Background is the composition background color ("#rrggbb" or
	// "#rrggbbaa"). Empty means transparent.
	Background string `json:"bg,omitempty"`

	// Layers are composited in order; the first layer is the bottom.
	Layers []Layer `json:"layers"`
}

// Layer is a single drawable element of a document.
type Layer struct {
	// Name identifies the layer in diagnostics.
	Name string `json:"name"`

	// Kind selects the layer payload: solid, image, or text.
	Kind LayerKind `json:"kind"`

	// InPoint and OutPoint bound the frames where the layer is visible.
	// A zero OutPoint means visible to the end of the document.
	InPoint  float64 `json:"ip,omitempty"`
	OutPoint float64 `json:"op,omitempty"`

	// X, Y, W, H place the layer in composition pixels.
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`

	// Opacity in [0, 1]. Zero is treated as fully opaque so that
	// documents omitting the field render as expected.
	Opacity float64 `json:"opacity,omitempty"`

	// Color is the fill for solid layers ("#rrggbb" or "#rrggbbaa").
	Color string `json:"color,omitempty"`

	// Src names the image asset for image layers. Assets are resolved
	// by the caller; the document carries only the reference.
	Src string `json:"src,omitempty"`

	// Text is the content of text layers.
	Text string `json:"text,omitempty"`

	// Size is the font size in pixels for text layers.
	Size float64 `json:"size,omitempty"`
}

// Validate checks the document for structural problems.
func (d *Document) Validate() error {
	if d.FrameRate <= 0 {
		return ErrNoFrameRate
	}
	if d.OutPoint <= d.InPoint {
		return ErrEmptyRange
	}
	if d.Width <= 0 || d.Height <= 0 {
		return ErrBadDimensions
	}
	if d.Background != "" {
		if _, err := ParseColor(d.Background); err != nil {
			return fmt.Errorf("background: %w", err)
		}
	}
	for i := range d.Layers {
		if err := d.Layers[i].validate(); err != nil {
			return fmt.Errorf("layer %d (%s): %w", i, d.Layers[i].Name, err)
		}
	}
	return nil
}

func (l *Layer) validate() error {
	switch l.Kind {
	case KindSolid:
		if _, err := ParseColor(l.Color); err != nil {
			return err
		}
	case KindImage:
		if l.Src == "" {
			return errors.New("image layer needs src")
		}
	case KindText:
		// Empty text is allowed; it renders nothing. Color is optional
		// but must parse when present.
		if l.Color != "" {
			if _, err := ParseColor(l.Color); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownKind, l.Kind)
	}
	if l.W < 0 || l.H < 0 {
		return ErrBadDimensions
	}
	if l.Opacity < 0 || l.Opacity > 1 {
		return fmt.Errorf("document: opacity %v out of range", l.Opacity)
	}
	return nil
}

// Frames returns the number of playable frames.
func (d *Document) Frames() int {
	n := int(d.OutPoint - d.InPoint)
	if n < 0 {
		return 0
	}
	return n
}

// Duration returns the playable time in seconds.
func (d *Document) Duration() float64 {
	if d.FrameRate <= 0 {
		return 0
	}
	return (d.OutPoint - d.InPoint) / d.FrameRate
}

// VisibleAt reports whether the layer is visible at the given frame.
func (l *Layer) VisibleAt(frame float64) bool {
	if frame < l.InPoint {
		return false
	}
	if l.OutPoint > 0 && frame >= l.OutPoint {
		return false
	}
	return true
}

// EffectiveOpacity returns the layer opacity with the zero value mapped
// to fully opaque.
func (l *Layer) EffectiveOpacity() float64 {
	if l.Opacity == 0 {
		return 1
	}
	return l.Opacity
}

// ParseColor parses "#rrggbb" or "#rrggbbaa" into an RGBA color.
func ParseColor(s string) (color.RGBA, error) {
	hex, ok := strings.CutPrefix(s, "#")
	if !ok {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	if len(hex) != 6 && len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}

	if len(hex) == 6 {
		return color.RGBA{
			R: uint8(v >> 16),
			G: uint8(v >> 8),
			B: uint8(v),
			A: 255,
		}, nil
	}
	return color.RGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}
