//go:build !nogpu

package wgpu

import (
	"fmt"
	"sync"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/motion"
	"github.com/gogpu/motion/engine"
	"github.com/gogpu/motion/engine/software"
)

// Priority is the registry priority for the wgpu engine.
// GPU engines register at 100 so they win selection over software.
const Priority = 100

func init() {
	engine.Register("wgpu", Priority, func() engine.Provider { return New() }, Available)
}

var (
	probeOnce sync.Once
	probeOK   bool
)

// Available reports whether a GPU adapter can be acquired on this system.
// The probe runs once per process; the result is cached.
func Available() bool {
	probeOnce.Do(func() {
		instance := core.NewInstance(&gputypes.InstanceDescriptor{
			Backends: gputypes.BackendsPrimary,
		})
		adapterID, err := instance.RequestAdapter(&gputypes.RequestAdapterOptions{
			PowerPreference: gputypes.PowerPreferenceHighPerformance,
		})
		if err != nil {
			motion.Logger().Debug("GPU probe failed", "err", err)
			return
		}
		_ = releaseAdapter(adapterID)
		probeOK = true
	})
	return probeOK
}

var (
	sharedMu       sync.RWMutex
	sharedProvider gpucontext.DeviceProvider
)

// SetDeviceProvider configures new connections to use a shared GPU device
// from an external provider (e.g., a gogpu application context) instead of
// creating their own. This avoids a second GPU instance and enables
// resource sharing with the host application.
//
// Connections opened in shared mode never release the device; the
// provider keeps ownership. Pass nil to return to owned-device mode.
func SetDeviceProvider(p gpucontext.DeviceProvider) {
	sharedMu.Lock()
	sharedProvider = p
	sharedMu.Unlock()
}

func deviceProvider() gpucontext.DeviceProvider {
	sharedMu.RLock()
	defer sharedMu.RUnlock()
	return sharedProvider
}

// Provider opens GPU compositing connections.
type Provider struct{}

// New creates a wgpu provider.
func New() *Provider {
	return &Provider{}
}

// Name returns the provider identifier.
func (p *Provider) Name() string { return "wgpu" }

// Open acquires GPU resources and creates a connection.
//
// When a shared device provider is configured via SetDeviceProvider, the
// connection borrows that device instead of creating its own.
func (p *Provider) Open(opts engine.Options) (engine.Conn, error) {
	cpu, err := software.New().Open(opts)
	if err != nil {
		return nil, err
	}

	c := &Conn{cpu: cpu}

	if shared := deviceProvider(); shared != nil {
		c.shared = shared
		motion.Logger().Debug("wgpu connection using shared device")
		return c, nil
	}

	if err := c.initDevice(opts.Label); err != nil {
		_ = cpu.Close()
		return nil, err
	}
	return c, nil
}

// Conn composites command batches with GPU assistance.
//
// Per-frame composition currently runs on the CPU while the GPU holds
// the compiled composite pipeline; texture readback in wgpu is the
// remaining piece before pixels move fully onto the GPU.
type Conn struct {
	mu sync.Mutex

	// Owned GPU resources. Zero/nil in shared mode.
	instance *core.Instance
	adapter  core.AdapterID
	device   core.DeviceID
	queue    core.QueueID

	// Shared device, when opened under SetDeviceProvider.
	shared gpucontext.DeviceProvider

	gpuInfo *GPUInfo
	spirv   []uint32

	cpu    engine.Conn
	closed bool
}

// initDevice creates the owned GPU resources and compiles the composite
// shader. Resources are released in reverse order on partial failure.
func (c *Conn) initDevice(label string) error {
	if label == "" {
		label = "motion-wgpu-device"
	}

	c.instance = core.NewInstance(&gputypes.InstanceDescriptor{
		Backends: gputypes.BackendsPrimary,
	})

	adapterID, err := c.instance.RequestAdapter(&gputypes.RequestAdapterOptions{
		PowerPreference: gputypes.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return fmt.Errorf("wgpu: no adapter: %w", err)
	}
	c.adapter = adapterID

	logGPUInfo(adapterID)
	c.gpuInfo, _ = getGPUInfo(adapterID)

	deviceID, err := createDevice(adapterID, label)
	if err != nil {
		_ = releaseAdapter(adapterID)
		return fmt.Errorf("wgpu: device creation failed: %w", err)
	}
	c.device = deviceID

	queueID, err := getDeviceQueue(deviceID)
	if err != nil {
		_ = releaseDevice(deviceID)
		_ = releaseAdapter(adapterID)
		return fmt.Errorf("wgpu: queue retrieval failed: %w", err)
	}
	c.queue = queueID

	spirv, err := compileToSPIRV(compositeShaderWGSL)
	if err != nil {
		_ = releaseDevice(deviceID)
		_ = releaseAdapter(adapterID)
		return fmt.Errorf("wgpu: composite shader: %w", err)
	}
	c.spirv = spirv

	return nil
}

// Name returns the engine identifier.
func (c *Conn) Name() string { return "wgpu" }

// Submit applies every command in the batch to the target, in order.
func (c *Conn) Submit(batch *engine.Batch, target *engine.Target) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return engine.ErrConnClosed
	}
	return c.cpu.Submit(batch, target)
}

// Flush waits for pending work to complete.
func (c *Conn) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return engine.ErrConnClosed
	}
	return c.cpu.Flush()
}

// Close releases all GPU resources. Shared devices are left untouched;
// their provider keeps ownership.
func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	_ = c.cpu.Close()

	if c.shared != nil {
		c.shared = nil
		return nil
	}

	// Release in reverse order of creation. The queue goes with the
	// device.
	if !c.device.IsZero() {
		if err := releaseDevice(c.device); err != nil {
			motion.Logger().Warn("error releasing device", "err", err)
		}
		c.device = core.DeviceID{}
	}
	if !c.adapter.IsZero() {
		if err := releaseAdapter(c.adapter); err != nil {
			motion.Logger().Warn("error releasing adapter", "err", err)
		}
		c.adapter = core.AdapterID{}
	}

	c.instance = nil
	c.queue = core.QueueID{}
	c.gpuInfo = nil
	c.spirv = nil

	return nil
}

// GPUInfo returns information about the selected GPU.
// Returns nil for shared-device connections and after Close.
func (c *Conn) GPUInfo() *GPUInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gpuInfo
}
