// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package motion

import "errors"

var (
	// ErrQueueDisposed is returned by Acquire after the queue has been
	// disposed. A disposed queue is never resurrected; callers holding
	// no reference must open a new connection instead.
	ErrQueueDisposed = errors.New("motion: render queue disposed")

	// ErrOverRelease is returned by Release when the reference count is
	// already zero. It signals a mismatched acquire/release pairing in
	// the caller, not a transient condition.
	ErrOverRelease = errors.New("motion: release without matching acquire")

	// ErrNilDocument is returned by NewPlayer when no document is given.
	ErrNilDocument = errors.New("motion: nil document")

	// ErrPlayerClosed is returned by player operations after Close.
	ErrPlayerClosed = errors.New("motion: player closed")
)
