// Package motion plays animation documents through a shared,
// reference-counted engine connection.
//
// # Overview
//
// motion is a Pure Go animation playback library for the GoGPU
// ecosystem. A composition is described by a JSON document (package
// document), composited by a pluggable engine (package engine, with
// software and wgpu implementations), and driven over time by a Player.
//
// The piece that holds it together is the RenderQueue: a
// reference-counted handle around the engine connection. UI loops,
// background loaders, and test harnesses all share one connection by
// holding references to the queue; the connection is torn down exactly
// once, by whichever goroutine drops the last reference.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/motion"
//	    "github.com/gogpu/motion/document"
//	    "github.com/gogpu/motion/engine"
//	    _ "github.com/gogpu/motion/engine/software"
//	)
//
//	doc, _ := document.Load("intro.json")
//
//	conn, _ := engine.OpenDefault(engine.Options{Width: doc.Width, Height: doc.Height})
//	q := motion.NewRenderQueue(conn, motion.WithLabel("intro"))
//	defer q.Close()
//
//	player, _ := motion.NewPlayer(q, doc)
//	defer player.Close()
//
//	target, _ := engine.NewTarget(doc.Width, doc.Height)
//	player.Play()
//	player.Advance(1.0 / 60)
//	player.Render(target)
//
// # Lifecycle
//
// NewRenderQueue starts the count at one, owned by the caller and
// released by Close. Every other holder pairs Acquire with Release.
// The release that lands the count on zero closes the connection before
// returning; after that the queue is permanently disposed and Acquire
// fails with ErrQueueDisposed.
//
// # Engines
//
// Engines register themselves by import, the same way database drivers
// do. Import the software engine for a CPU fallback that always works,
// and the wgpu engine for GPU composition where a Vulkan, Metal, or DX12
// adapter is present.
package motion

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier
	VersionPrerelease = "alpha.1"
)
