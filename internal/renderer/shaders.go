package renderer

// QuadShader draws one textured quad. The unit quad is placed in clip space
// by offset and scale; texture row 0 is the top of the screen.
const QuadShader = `
struct QuadInfo {
    offset: vec2<f32>,
    scale: vec2<f32>,
}

@group(0) @binding(0) var<uniform> quad: QuadInfo;
@group(0) @binding(1) var frameSampler: sampler;
@group(0) @binding(2) var frameTexture: texture_2d<f32>;

struct VertexInput {
    @location(0) position: vec2<f32>,
    @location(1) texCoord: vec2<f32>,
}

struct VertexOutput {
    @builtin(position) position: vec4<f32>,
    @location(0) texCoord: vec2<f32>,
}

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    let pos = in.position * quad.scale + quad.offset;
    out.position = vec4<f32>(pos, 0.0, 1.0);
    out.texCoord = in.texCoord;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return textureSample(frameTexture, frameSampler, in.texCoord);
}
`
