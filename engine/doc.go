// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package engine defines the rendering engine abstraction for motion.
//
// An engine consumes command batches produced by the animation layer and
// composites them into pixel targets. Concrete engines register themselves
// with the package registry, usually from an init function, and are
// selected by name or by priority:
//
//	conn, err := engine.OpenDefault(engine.Options{Width: 512, Height: 512})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer conn.Close()
//
//	batch := engine.NewBatch()
//	batch.Clear(color.RGBA{A: 255})
//	batch.FillRect(10, 10, 100, 100, color.RGBA{R: 255, A: 255}, 1)
//
//	target, err := engine.NewTarget(512, 512)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := conn.Submit(batch, target); err != nil {
//	    log.Fatal(err)
//	}
//
// A Conn is not safe for concurrent use. The motion package serializes
// access by routing every submission through a single queue handle.
package engine
