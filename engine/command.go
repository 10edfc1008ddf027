// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package engine

import (
	"image"
	"image/color"
)

// CommandType identifies the type of a command in a batch.
type CommandType uint8

const (
	// CmdClear fills the whole target with a color.
	CmdClear CommandType = iota

	// CmdFillRect fills an axis-aligned rectangle.
	CmdFillRect

	// CmdDrawImage composes an image into a destination rectangle.
	CmdDrawImage

	// CmdMark carries a tracing annotation; engines may ignore it.
	CmdMark
)

// commandTypeNames maps CommandType values to their string representation.
var commandTypeNames = [...]string{
	CmdClear:     "Clear",
	CmdFillRect:  "FillRect",
	CmdDrawImage: "DrawImage",
	CmdMark:      "Mark",
}

// String returns the string representation of a CommandType.
func (c CommandType) String() string {
	if int(c) < len(commandTypeNames) {
		return commandTypeNames[c]
	}
	return "Unknown"
}

// Command is the interface implemented by all batch commands.
type Command interface {
	// Type returns the CommandType for this command.
	Type() CommandType
}

// ClearCmd fills the entire target with Color. Command colors carry
// straight (non-premultiplied) alpha; engines premultiply when writing
// to the target.
type ClearCmd struct {
	Color color.RGBA
}

// Type returns CmdClear.
func (ClearCmd) Type() CommandType { return CmdClear }

// FillRectCmd fills the rectangle (X, Y)-(X+W, Y+H) with Color.
// Opacity in [0, 1] is multiplied into the alpha channel before blending.
type FillRectCmd struct {
	X, Y, W, H float64
	Color      color.RGBA
	Opacity    float64
}

// Type returns CmdFillRect.
func (FillRectCmd) Type() CommandType { return CmdFillRect }

// DrawImageCmd composes Src into the destination rectangle
// (X, Y)-(X+W, Y+H), scaling when the rectangle differs from the source
// bounds. Opacity in [0, 1] is applied uniformly.
type DrawImageCmd struct {
	Src        image.Image
	X, Y, W, H float64
	Opacity    float64
}

// Type returns CmdDrawImage.
func (DrawImageCmd) Type() CommandType { return CmdDrawImage }

// MarkCmd annotates the batch with the layer name and frame it was built
// from. Engines ignore marks; tracing and tests read them.
type MarkCmd struct {
	Label string
	Frame int
}

// Type returns CmdMark.
func (MarkCmd) Type() CommandType { return CmdMark }

// Batch accumulates commands for one submission.
//
// A Batch is built by a single goroutine (typically a Player preparing a
// frame) and handed to Conn.Submit. It is not safe for concurrent
// mutation; after Submit returns, the batch may be reset and reused.
type Batch struct {
	cmds []Command
}

// NewBatch creates an empty batch.
func NewBatch() *Batch {
	return &Batch{cmds: make([]Command, 0, 16)}
}

// Clear appends a full-target clear.
func (b *Batch) Clear(c color.RGBA) {
	b.cmds = append(b.cmds, ClearCmd{Color: c})
}

// FillRect appends a rectangle fill.
func (b *Batch) FillRect(x, y, w, h float64, c color.RGBA, opacity float64) {
	b.cmds = append(b.cmds, FillRectCmd{X: x, Y: y, W: w, H: h, Color: c, Opacity: opacity})
}

// DrawImage appends an image composition.
func (b *Batch) DrawImage(src image.Image, x, y, w, h float64, opacity float64) {
	if src == nil {
		return
	}
	b.cmds = append(b.cmds, DrawImageCmd{Src: src, X: x, Y: y, W: w, H: h, Opacity: opacity})
}

// Mark appends a tracing annotation.
func (b *Batch) Mark(label string, frame int) {
	b.cmds = append(b.cmds, MarkCmd{Label: label, Frame: frame})
}

// Len returns the number of commands in the batch.
func (b *Batch) Len() int {
	return len(b.cmds)
}

// Commands returns the accumulated commands. The slice is borrowed: it is
// valid until the next mutation of the batch.
func (b *Batch) Commands() []Command {
	return b.cmds
}

// Reset clears the batch for reuse without deallocating memory.
func (b *Batch) Reset() {
	b.cmds = b.cmds[:0]
}
