// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package wgpu provides the GPU engine backed by gogpu/wgpu.
//
// It registers itself with the engine registry under the name "wgpu" at
// priority 100, so it is preferred over the software engine whenever a
// GPU adapter can be acquired. Importing the package is enough:
//
//	import _ "github.com/gogpu/motion/engine/wgpu"
//
// If GPU initialization fails (no Vulkan/Metal/DX12 available), the
// provider reports itself unavailable and selection falls back to the
// software engine.
//
// Building with the "nogpu" tag compiles the GPU path out entirely; the
// registration then resolves to nothing and the registry treats the
// provider as unavailable.
package wgpu
