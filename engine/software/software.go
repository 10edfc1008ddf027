// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"fmt"
	"image"
	"image/color"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/motion/engine"
)

// Priority is the registry priority for the software engine.
// Pure software engines register at 10; GPU engines at 100.
const Priority = 10

func init() {
	engine.Register("software", Priority, func() engine.Provider { return New() }, nil)
}

// Provider opens CPU compositing connections.
// It is always available and serves as the fallback when no GPU
// engine can be used.
type Provider struct{}

// New creates a software provider.
func New() *Provider {
	return &Provider{}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return "software" }

// Open creates a CPU compositing connection.
func (p *Provider) Open(opts engine.Options) (engine.Conn, error) {
	return &Conn{label: opts.Label}, nil
}

// Conn composites command batches on the CPU.
//
// Composition is synchronous: Submit returns after every command in the
// batch has been applied to the target. Flush is a no-op.
type Conn struct {
	label  string
	closed bool
}

// Name returns the engine identifier.
func (c *Conn) Name() string { return "software" }

// Submit applies every command in the batch to the target, in order.
func (c *Conn) Submit(batch *engine.Batch, target *engine.Target) error {
	if c.closed {
		return engine.ErrConnClosed
	}
	if batch == nil {
		return engine.ErrNilBatch
	}
	if target == nil {
		return engine.ErrNilTarget
	}

	for _, cmd := range batch.Commands() {
		switch cmd := cmd.(type) {
		case engine.ClearCmd:
			applyClear(target, cmd)
		case engine.FillRectCmd:
			fillRect(target, cmd)
		case engine.DrawImageCmd:
			drawImage(target, cmd)
		case engine.MarkCmd:
			// Diagnostic marker, nothing to composite.
		default:
			return fmt.Errorf("software: unsupported command %v", cmd.Type())
		}
	}
	return nil
}

// Flush is a no-op; composition happens during Submit.
func (c *Conn) Flush() error {
	if c.closed {
		return engine.ErrConnClosed
	}
	return nil
}

// Close releases the connection. Further submissions fail.
func (c *Conn) Close() error {
	c.closed = true
	return nil
}

// applyClear replaces every pixel with the clear color. Targets hold
// premultiplied bytes, so the straight command color converts here.
func applyClear(t *engine.Target, cmd engine.ClearCmd) {
	r, g, b, a := premultiply(cmd.Color, 1)
	row := t.Pix[:t.Width*4]
	for x := 0; x < t.Width; x++ {
		i := x * 4
		row[i+0] = r
		row[i+1] = g
		row[i+2] = b
		row[i+3] = a
	}
	for y := 1; y < t.Height; y++ {
		copy(t.Pix[y*t.Stride:y*t.Stride+t.Width*4], row)
	}
}

// fillRect blends a solid rectangle over the target.
func fillRect(t *engine.Target, cmd engine.FillRectCmd) {
	x0, y0, x1, y1, ok := clipRect(cmd.X, cmd.Y, cmd.W, cmd.H, t.Width, t.Height)
	if !ok {
		return
	}

	srcR, srcG, srcB, srcA := premultiply(cmd.Color, cmd.Opacity)
	if srcA == 0 {
		return
	}

	for y := y0; y < y1; y++ {
		base := y * t.Stride
		for x := x0; x < x1; x++ {
			i := base + x*4
			r, g, b, a := srcOver(srcR, srcG, srcB, srcA,
				t.Pix[i+0], t.Pix[i+1], t.Pix[i+2], t.Pix[i+3])
			t.Pix[i+0] = r
			t.Pix[i+1] = g
			t.Pix[i+2] = b
			t.Pix[i+3] = a
		}
	}
}

// drawImage scales the source into the destination rectangle and blends
// it over the target.
func drawImage(t *engine.Target, cmd engine.DrawImageCmd) {
	if cmd.Src == nil {
		return
	}
	x0, y0, x1, y1, ok := clipRect(cmd.X, cmd.Y, cmd.W, cmd.H, t.Width, t.Height)
	if !ok {
		return
	}

	// Scale the full destination rect, then blend only the clipped part.
	// BiLinear keeps per-frame cost low; quality matters less than rate
	// during playback.
	dstW := int(cmd.W + 0.5)
	dstH := int(cmd.H + 0.5)
	if dstW <= 0 || dstH <= 0 {
		return
	}
	// image.RGBA is premultiplied, so scaled pixels blend directly.
	scaled := image.NewRGBA(image.Rect(0, 0, dstW, dstH))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), cmd.Src, cmd.Src.Bounds(), xdraw.Src, nil)

	op := uint32(clampOpacity(cmd.Opacity)*255 + 0.5)
	offX := int(cmd.X + 0.5)
	offY := int(cmd.Y + 0.5)

	for y := y0; y < y1; y++ {
		sy := y - offY
		if sy < 0 || sy >= dstH {
			continue
		}
		base := y * t.Stride
		srow := sy * scaled.Stride
		for x := x0; x < x1; x++ {
			sx := x - offX
			if sx < 0 || sx >= dstW {
				continue
			}
			si := srow + sx*4
			sr, sg, sb, sa := scaled.Pix[si+0], scaled.Pix[si+1], scaled.Pix[si+2], scaled.Pix[si+3]
			if op < 255 {
				// Opacity scales all four channels in premultiplied form.
				sr = mul255(sr, op)
				sg = mul255(sg, op)
				sb = mul255(sb, op)
				sa = mul255(sa, op)
			}
			if sa == 0 {
				continue
			}
			i := base + x*4
			r, g, b, a := srcOver(sr, sg, sb, sa,
				t.Pix[i+0], t.Pix[i+1], t.Pix[i+2], t.Pix[i+3])
			t.Pix[i+0] = r
			t.Pix[i+1] = g
			t.Pix[i+2] = b
			t.Pix[i+3] = a
		}
	}
}

// premultiply converts a straight-alpha command color to premultiplied
// bytes, folding the layer opacity into the alpha.
func premultiply(c color.RGBA, opacity float64) (r, g, b, a uint8) {
	af := float64(c.A) / 255.0 * clampOpacity(opacity)
	a = uint8(af*255 + 0.5)
	if a == 0 {
		return 0, 0, 0, 0
	}
	if a == 255 {
		return c.R, c.G, c.B, 255
	}
	r = uint8(float64(c.R)*af + 0.5)
	g = uint8(float64(c.G)*af + 0.5)
	b = uint8(float64(c.B)*af + 0.5)
	return r, g, b, a
}

// srcOver blends a premultiplied source pixel over a premultiplied
// destination pixel:
//
//	out = src + dst * (1 - src_a)
//
// componentwise, alpha included. No divide is needed in premultiplied
// form.
func srcOver(srcR, srcG, srcB, srcA, dstR, dstG, dstB, dstA uint8) (r, g, b, a uint8) {
	if srcA == 255 {
		return srcR, srcG, srcB, 255
	}
	if dstA == 0 && dstR == 0 && dstG == 0 && dstB == 0 {
		return srcR, srcG, srcB, srcA
	}
	inv := uint32(255 - srcA)
	r = uint8(uint32(srcR) + (uint32(dstR)*inv+127)/255)
	g = uint8(uint32(srcG) + (uint32(dstG)*inv+127)/255)
	b = uint8(uint32(srcB) + (uint32(dstB)*inv+127)/255)
	a = uint8(uint32(srcA) + (uint32(dstA)*inv+127)/255)
	return r, g, b, a
}

// mul255 scales a byte by t/255 with rounding.
func mul255(x uint8, t uint32) uint8 {
	return uint8((uint32(x)*t + 127) / 255)
}

// clipRect converts a float rectangle to integer pixel bounds clipped to
// the target. Returns ok=false when nothing is visible.
func clipRect(x, y, w, h float64, width, height int) (x0, y0, x1, y1 int, ok bool) {
	if w <= 0 || h <= 0 {
		return 0, 0, 0, 0, false
	}
	x0 = int(x + 0.5)
	y0 = int(y + 0.5)
	x1 = int(x + w + 0.5)
	y1 = int(y + h + 0.5)

	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > width {
		x1 = width
	}
	if y1 > height {
		y1 = height
	}
	if x0 >= x1 || y0 >= y1 {
		return 0, 0, 0, 0, false
	}
	return x0, y0, x1, y1, true
}

func clampOpacity(o float64) float64 {
	if o < 0 {
		return 0
	}
	if o > 1 {
		return 1
	}
	return o
}
