// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides the CPU compositing engine.
//
// It registers itself with the engine registry under the name "software"
// at priority 10, making it the fallback when no GPU engine is available.
// Importing the package is enough to enable it:
//
//	import _ "github.com/gogpu/motion/engine/software"
package software
