// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package motion

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
)

// leakCheck warns when a queue becomes unreachable without having been
// disposed. It never tears the queue down itself: the final release owns
// teardown, and running it from the garbage collector would hide the
// pairing bug the warning exists to expose.
type leakCheck struct {
	label string
	pcs   []uintptr
	c     atomic.Pointer[runtime.Cleanup]
}

// trackLeak registers a cleanup that fires if q is collected while still
// alive. The leakCheck is a separate allocation so the cleanup does not
// keep the queue reachable.
func trackLeak(q *RenderQueue, label string) *leakCheck {
	lc := &leakCheck{label: label}

	// Record where the queue was created; the warning points here.
	stk := make([]uintptr, 32)
	n := runtime.Callers(3, stk)
	lc.pcs = stk[:n]

	c := runtime.AddCleanup(q, warnLeak, lc)
	lc.c.Store(&c)
	return lc
}

func warnLeak(lc *leakCheck) {
	Logger().Warn("render queue leaked without dispose",
		"label", lc.label, "created_at", formatStack(lc.pcs))
}

func formatStack(pcs []uintptr) string {
	if len(pcs) == 0 {
		return "unknown"
	}
	var sb strings.Builder
	frames := runtime.CallersFrames(pcs)
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return sb.String()
}

// stop cancels the leak warning. Safe to call on a nil check and safe to
// call multiple times; only the first call stops the cleanup.
func (lc *leakCheck) stop() {
	if lc == nil {
		return
	}
	if c := lc.c.Swap(nil); c != nil {
		c.Stop()
	}
}
