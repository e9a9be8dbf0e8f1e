package opengl

import (
	"fmt"

	gl "github.com/go-gl/gl/v4.1-core/gl"
)

// PostProcessFBO is an HDR off-screen render target resolved through bloom
// (bright-pass → separable Gaussian blur → additive composite) and
// Reinhard tone mapping.
type PostProcessFBO struct {
	// Main HDR FBO (scene renders into this)
	FBO      uint32
	ColorTex uint32 // RGBA16F colour attachment
	DepthRB  uint32 // depth renderbuffer
	Width    int32
	Height   int32

	// Tone-map + bloom composite shader
	prog        uint32
	hdrLoc      int32 // sampler2D unit 0
	bloomTexLoc int32 // sampler2D unit 1
	expLoc      int32
	bloomStrLoc int32
	hasBloomLoc int32

	quadVAO uint32 // empty VAO for the fullscreen triangle

	Exposure float32

	// Bloom ping-pong FBOs at half resolution
	bloomFBO        [2]uint32
	bloomTex        [2]uint32
	bloomW          int32
	bloomH          int32
	brightProg      uint32
	brightThreshLoc int32
	blurProg        uint32
	blurTexLoc      int32
	blurDirLoc      int32

	BloomThreshold float32 // luminance cut-off
	BloomStrength  float32 // additive bloom multiplier
	BloomRadius    float32 // blur tap spacing in texels; 0 keeps the bright-pass sharp
	BloomPasses    int     // H+V blur pairs; 0 disables bloom
}

// ppVertSrc draws a fullscreen triangle from gl_VertexID.
const ppVertSrc = `
#version 410 core
out vec2 fragUV;
void main() {
    const vec2 pos[3] = vec2[3](
        vec2(-1.0, -1.0),
        vec2( 3.0, -1.0),
        vec2(-1.0,  3.0)
    );
    gl_Position = vec4(pos[gl_VertexID], 0.0, 1.0);
    fragUV      = pos[gl_VertexID] * 0.5 + 0.5;
}
` + "\x00"

// ppFragSrc adds bloom, then applies exposure and Reinhard. Output stays
// linear.
const ppFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D hdrBuffer;  // unit 0
uniform sampler2D bloomTex;   // unit 1
uniform float     exposure;
uniform float     bloomStrength;
uniform bool      hasBloom;

void main() {
    vec3 hdr = texture(hdrBuffer, fragUV).rgb;
    if (hasBloom) {
        hdr += texture(bloomTex, fragUV).rgb * bloomStrength;
    }
    hdr *= exposure;
    outColor = vec4(clamp(hdr / (vec3(1.0) + hdr), 0.0, 1.0), 1.0);
}
` + "\x00"

// ppBrightFragSrc keeps pixels whose luminance passes the threshold, with
// a narrow smooth edge.
const ppBrightFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D hdrBuffer;
uniform float     threshold;

void main() {
    vec3  color = texture(hdrBuffer, fragUV).rgb;
    float luma  = dot(color, vec3(0.299, 0.587, 0.114));
    outColor = vec4(color * smoothstep(threshold, threshold + 0.01, luma), 1.0);
}
` + "\x00"

// ppBlurFragSrc is a single-axis 5-tap Gaussian blur.
// texelDir = (r/w, 0) for horizontal, (0, r/h) for vertical.
const ppBlurFragSrc = `
#version 410 core
in  vec2 fragUV;
out vec4 outColor;

uniform sampler2D blurTex;
uniform vec2      texelDir;

void main() {
    const float w[5] = float[](0.0625, 0.25, 0.375, 0.25, 0.0625);
    vec3 result = vec3(0.0);
    for (int i = -2; i <= 2; i++) {
        result += texture(blurTex, fragUV + float(i) * texelDir).rgb * w[i + 2];
    }
    outColor = vec4(result, 1.0);
}
` + "\x00"

func NewPostProcessFBO(width, height, bloomPasses int) (*PostProcessFBO, error) {
	pp := &PostProcessFBO{
		Exposure:      1.0,
		BloomStrength: 1.0,
		BloomRadius:   1.0,
		BloomPasses:   bloomPasses,
	}

	prog, err := newProgram(ppVertSrc, ppFragSrc)
	if err != nil {
		return nil, fmt.Errorf("post-process shader: %w", err)
	}
	pp.prog = prog
	pp.hdrLoc = gl.GetUniformLocation(prog, gl.Str("hdrBuffer\x00"))
	pp.bloomTexLoc = gl.GetUniformLocation(prog, gl.Str("bloomTex\x00"))
	pp.expLoc = gl.GetUniformLocation(prog, gl.Str("exposure\x00"))
	pp.bloomStrLoc = gl.GetUniformLocation(prog, gl.Str("bloomStrength\x00"))
	pp.hasBloomLoc = gl.GetUniformLocation(prog, gl.Str("hasBloom\x00"))

	gl.UseProgram(prog)
	gl.Uniform1i(pp.hdrLoc, 0)
	gl.Uniform1i(pp.bloomTexLoc, 1)

	gl.GenVertexArrays(1, &pp.quadVAO)

	if err := pp.enableBloom(); err != nil {
		pp.Destroy()
		return nil, err
	}
	if err := pp.allocFBO(width, height); err != nil {
		pp.Destroy()
		return nil, err
	}
	pp.sizeBloom(width, height)
	return pp, nil
}

// enableBloom compiles the bright-pass and blur shaders.
func (pp *PostProcessFBO) enableBloom() error {
	bp, err := newProgram(ppVertSrc, ppBrightFragSrc)
	if err != nil {
		return fmt.Errorf("bright-pass shader: %w", err)
	}
	pp.brightProg = bp
	pp.brightThreshLoc = gl.GetUniformLocation(bp, gl.Str("threshold\x00"))
	gl.UseProgram(bp)
	gl.Uniform1i(gl.GetUniformLocation(bp, gl.Str("hdrBuffer\x00")), 0)

	blp, err := newProgram(ppVertSrc, ppBlurFragSrc)
	if err != nil {
		return fmt.Errorf("blur shader: %w", err)
	}
	pp.blurProg = blp
	pp.blurTexLoc = gl.GetUniformLocation(blp, gl.Str("blurTex\x00"))
	pp.blurDirLoc = gl.GetUniformLocation(blp, gl.Str("texelDir\x00"))
	gl.UseProgram(blp)
	gl.Uniform1i(pp.blurTexLoc, 0)
	return nil
}

func (pp *PostProcessFBO) sizeBloom(width, height int) {
	pp.freeBloomFBOs()
	pp.bloomW = max(int32(width)/2, 1)
	pp.bloomH = max(int32(height)/2, 1)
	pp.allocBloomFBOs()
}

// allocBloomFBOs creates the two ping-pong colour-only FBOs for bloom.
func (pp *PostProcessFBO) allocBloomFBOs() {
	for i := 0; i < 2; i++ {
		gl.GenTextures(1, &pp.bloomTex[i])
		gl.BindTexture(gl.TEXTURE_2D, pp.bloomTex[i])
		gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA16F,
			pp.bloomW, pp.bloomH, 0, gl.RGBA, gl.HALF_FLOAT, nil)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
		gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
		gl.BindTexture(gl.TEXTURE_2D, 0)

		gl.GenFramebuffers(1, &pp.bloomFBO[i])
		gl.BindFramebuffer(gl.FRAMEBUFFER, pp.bloomFBO[i])
		gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
			gl.TEXTURE_2D, pp.bloomTex[i], 0)
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}
}

func (pp *PostProcessFBO) freeBloomFBOs() {
	for i := 0; i < 2; i++ {
		if pp.bloomFBO[i] != 0 {
			gl.DeleteFramebuffers(1, &pp.bloomFBO[i])
			pp.bloomFBO[i] = 0
		}
		if pp.bloomTex[i] != 0 {
			gl.DeleteTextures(1, &pp.bloomTex[i])
			pp.bloomTex[i] = 0
		}
	}
}

func (pp *PostProcessFBO) allocFBO(width, height int) error {
	pp.Width = int32(width)
	pp.Height = int32(height)

	gl.GenTextures(1, &pp.ColorTex)
	gl.BindTexture(gl.TEXTURE_2D, pp.ColorTex)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA16F,
		int32(width), int32(height), 0, gl.RGBA, gl.HALF_FLOAT, nil)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.BindTexture(gl.TEXTURE_2D, 0)

	gl.GenRenderbuffers(1, &pp.DepthRB)
	gl.BindRenderbuffer(gl.RENDERBUFFER, pp.DepthRB)
	gl.RenderbufferStorage(gl.RENDERBUFFER, gl.DEPTH_COMPONENT24, int32(width), int32(height))
	gl.BindRenderbuffer(gl.RENDERBUFFER, 0)

	gl.GenFramebuffers(1, &pp.FBO)
	gl.BindFramebuffer(gl.FRAMEBUFFER, pp.FBO)
	gl.FramebufferTexture2D(gl.FRAMEBUFFER, gl.COLOR_ATTACHMENT0,
		gl.TEXTURE_2D, pp.ColorTex, 0)
	gl.FramebufferRenderbuffer(gl.FRAMEBUFFER, gl.DEPTH_ATTACHMENT,
		gl.RENDERBUFFER, pp.DepthRB)
	status := gl.CheckFramebufferStatus(gl.FRAMEBUFFER)
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	if status != gl.FRAMEBUFFER_COMPLETE {
		return fmt.Errorf("HDR framebuffer %dx%d incomplete (0x%X)", width, height, status)
	}
	return nil
}

func (pp *PostProcessFBO) freeFBO() {
	if pp.FBO != 0 {
		gl.DeleteFramebuffers(1, &pp.FBO)
		pp.FBO = 0
	}
	if pp.ColorTex != 0 {
		gl.DeleteTextures(1, &pp.ColorTex)
		pp.ColorTex = 0
	}
	if pp.DepthRB != 0 {
		gl.DeleteRenderbuffers(1, &pp.DepthRB)
		pp.DepthRB = 0
	}
}

// Resize recreates the HDR and bloom targets at the new pixel size.
func (pp *PostProcessFBO) Resize(width, height int) error {
	pp.freeFBO()
	if err := pp.allocFBO(width, height); err != nil {
		return err
	}
	pp.sizeBloom(width, height)
	return nil
}

// Destroy frees all GPU resources owned by this object.
func (pp *PostProcessFBO) Destroy() {
	pp.freeFBO()
	pp.freeBloomFBOs()
	if pp.brightProg != 0 {
		gl.DeleteProgram(pp.brightProg)
		pp.brightProg = 0
	}
	if pp.blurProg != 0 {
		gl.DeleteProgram(pp.blurProg)
		pp.blurProg = 0
	}
	if pp.prog != 0 {
		gl.DeleteProgram(pp.prog)
		pp.prog = 0
	}
	if pp.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &pp.quadVAO)
		pp.quadVAO = 0
	}
}

// Blit resolves the HDR FBO to the default framebuffer:
// bright-pass → ping-pong blur → composite.
func (pp *PostProcessFBO) Blit() {
	gl.Disable(gl.DEPTH_TEST)
	gl.BindVertexArray(pp.quadVAO)

	bloom := pp.BloomPasses > 0 && pp.BloomStrength != 0
	if bloom {
		// bright-pass → bloomFBO[0]
		gl.BindFramebuffer(gl.FRAMEBUFFER, pp.bloomFBO[0])
		gl.Viewport(0, 0, pp.bloomW, pp.bloomH)
		gl.UseProgram(pp.brightProg)
		gl.Uniform1f(pp.brightThreshLoc, pp.BloomThreshold)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.BindTexture(gl.TEXTURE_2D, pp.ColorTex)
		gl.DrawArrays(gl.TRIANGLES, 0, 3)

		// Each pair does H (src→dst) then V (dst→src), so the result ends
		// back in bloomTex[0].
		src, dst := 0, 1
		gl.UseProgram(pp.blurProg)
		for i := 0; i < pp.BloomPasses*2; i++ {
			gl.BindFramebuffer(gl.FRAMEBUFFER, pp.bloomFBO[dst])
			if i%2 == 0 {
				gl.Uniform2f(pp.blurDirLoc, pp.BloomRadius/float32(pp.bloomW), 0)
			} else {
				gl.Uniform2f(pp.blurDirLoc, 0, pp.BloomRadius/float32(pp.bloomH))
			}
			gl.BindTexture(gl.TEXTURE_2D, pp.bloomTex[src])
			gl.DrawArrays(gl.TRIANGLES, 0, 3)
			src, dst = dst, src
		}
	}

	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, pp.Width, pp.Height)
	gl.UseProgram(pp.prog)
	gl.Uniform1f(pp.expLoc, pp.Exposure)
	gl.Uniform1f(pp.bloomStrLoc, pp.BloomStrength)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, pp.ColorTex)
	if bloom {
		gl.Uniform1i(pp.hasBloomLoc, 1)
		gl.ActiveTexture(gl.TEXTURE1)
		gl.BindTexture(gl.TEXTURE_2D, pp.bloomTex[0])
	} else {
		gl.Uniform1i(pp.hasBloomLoc, 0)
	}
	gl.DrawArrays(gl.TRIANGLES, 0, 3)

	gl.BindVertexArray(0)
	gl.Enable(gl.DEPTH_TEST)
}
