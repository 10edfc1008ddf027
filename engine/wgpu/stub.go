//go:build nogpu

package wgpu

import (
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/motion/engine"
)

// Priority mirrors the GPU engine's registry priority so callers can
// reference it under either build configuration.
const Priority = 100

// init registers a nil-returning factory when the nogpu tag is set.
// This allows code to compile without the GPU path while still letting
// engine.Lookup("wgpu") fail gracefully instead of breaking callers.
func init() {
	engine.Register("wgpu", Priority, func() engine.Provider {
		return nil
	}, func() bool { return false })
}

// Available always reports false when the nogpu tag is set.
func Available() bool { return false }

// SetDeviceProvider is a no-op when the nogpu tag is set.
func SetDeviceProvider(p gpucontext.DeviceProvider) {}
