// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package motionview

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
)

// Rendering errors.
var (
	// ErrNilDrawContext is returned when RenderTo receives a nil drawer.
	ErrNilDrawContext = errors.New("motionview: nil draw context")

	// ErrNoTextureCreator is returned when the draw context cannot create
	// textures. This happens when the host's GPU context is not ready.
	ErrNoTextureCreator = errors.New("motionview: draw context has no texture creator")
)

// RenderTo composes the current frame and draws it at (0, 0).
// This is the primary integration method, called from the host's draw
// loop:
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    view.Advance(dt)
//	    view.RenderTo(dc.AsTextureDrawer())
//	})
//
// Pixels are uploaded only when the view is dirty; a paused view costs
// one texture draw per call and nothing more.
func (v *View) RenderTo(dc gpucontext.TextureDrawer) error {
	return v.RenderAt(dc, 0, 0)
}

// RenderAt is RenderTo with an explicit position in the host's
// coordinate space.
func (v *View) RenderAt(dc gpucontext.TextureDrawer, x, y float32) error {
	if v.closed {
		return ErrViewClosed
	}
	if dc == nil {
		return ErrNilDrawContext
	}

	tex, err := v.Flush()
	if err != nil {
		return err
	}

	// The first Flush after creation or resize hands back a placeholder;
	// realize it now that a creator is reachable through the drawer.
	if pending, isPending := tex.(*pendingTexture); isPending {
		creator := dc.TextureCreator()
		if creator == nil {
			return ErrNoTextureCreator
		}

		realTex, err := creator.NewTextureFromRGBA(pending.width, pending.height, pending.data)
		if err != nil {
			return fmt.Errorf("motionview: NewTextureFromRGBA failed: %w", err)
		}

		// Target pixels are premultiplied; the texture must say so or
		// gogpu picks the straight-alpha blend pipeline and edges fringe.
		if pt, ok := realTex.(interface{ SetPremultiplied(bool) }); ok {
			pt.SetPremultiplied(true)
		}

		v.texture = realTex
		tex = realTex

		// NewTextureFromRGBA waits for the GPU inside WriteTexture, so by
		// this point no in-flight command buffer can still reference the
		// pre-resize texture. Destroying it earlier risks the GPU reading
		// freed descriptor heap entries.
		if v.oldTexture != nil {
			if destroyer, ok := v.oldTexture.(textureDestroyer); ok {
				destroyer.Destroy()
			}
			v.oldTexture = nil
		}
	}

	gpuTex, ok := tex.(gpucontext.Texture)
	if !ok {
		return fmt.Errorf("motionview: texture %T does not implement gpucontext.Texture", tex)
	}

	return dc.DrawTexture(gpuTex, x, y)
}
