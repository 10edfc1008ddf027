// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package motionview embeds motion playback in GPU-accelerated windows.
//
// A View owns the full playback pipeline for one document and manages
// the CPU-to-GPU upload automatically. The data flow is:
//
//	Player (compose) -> Target (CPU pixels) -> GPU texture -> window
//
// # Architecture
//
// View wraps a render queue, a player, and a pixel target:
//
//   - Playback is driven through the View (Play, Advance, Seek)
//   - Flush() composes the current frame and uploads it if anything changed
//   - RenderTo() draws the uploaded texture into a host frame
//
// # Usage
//
// Basic usage with a gogpu application:
//
//	view, err := motionview.New(app.GPUContextProvider(), doc)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer view.Close()
//
//	view.Play()
//	app.OnDraw(func(dc *gogpu.Context) {
//	    view.Advance(frameTime)
//	    view.RenderTo(dc.AsTextureDrawer())
//	})
//
// # Thread Safety
//
// View is NOT safe for concurrent use. Drive it from the host's draw
// loop, or add external synchronization.
//
// # Integration Without Circular Imports
//
// The package depends only on gpucontext interfaces, never on a window
// framework directly. The host passes its DeviceProvider in; the view
// also forwards it to the wgpu engine so a GPU composition path shares
// the host's device instead of creating a second one.
package motionview
