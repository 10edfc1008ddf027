//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/naga"

	"github.com/gogpu/motion/cache"
)

// compositeShaderWGSL blits a composited layer texture to the target.
// The vertex stage emits a fullscreen triangle from the vertex index so
// no vertex buffer is needed.
const compositeShaderWGSL = `
struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) uv: vec2<f32>,
};

@vertex
fn vs_main(@builtin(vertex_index) idx: u32) -> VertexOutput {
    var out: VertexOutput;
    let x = f32(i32(idx) / 2) * 4.0 - 1.0;
    let y = f32(i32(idx) % 2) * 4.0 - 1.0;
    out.position = vec4<f32>(x, y, 0.0, 1.0);
    out.uv = vec2<f32>((x + 1.0) * 0.5, (1.0 - y) * 0.5);
    return out;
}

@group(0) @binding(0) var layer_tex: texture_2d<f32>;
@group(0) @binding(1) var layer_samp: sampler;

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(layer_tex, layer_samp, in.uv);
}
`

// spirvCache memoizes compiled shaders by source text. Compilation runs
// once per distinct shader no matter how many connections open; callers
// must treat the returned slice as read-only.
var spirvCache = cache.New[string, []uint32](32, cache.StringHasher)

// compileToSPIRV compiles WGSL source to a SPIR-V uint32 slice.
func compileToSPIRV(wgslSource string) ([]uint32, error) {
	return spirvCache.GetOrCreate(wgslSource, func() ([]uint32, error) {
		spirvBytes, err := naga.Compile(wgslSource)
		if err != nil {
			return nil, fmt.Errorf("failed to compile shader: %w", err)
		}

		// SPIR-V is little-endian 32-bit words.
		spirvCode := make([]uint32, len(spirvBytes)/4)
		for i := range spirvCode {
			spirvCode[i] = uint32(spirvBytes[i*4]) |
				uint32(spirvBytes[i*4+1])<<8 |
				uint32(spirvBytes[i*4+2])<<16 |
				uint32(spirvBytes[i*4+3])<<24
		}

		return spirvCode, nil
	})
}
