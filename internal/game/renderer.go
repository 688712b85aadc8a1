//go:build !android

package game

import (
	"fmt"
	"image"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"

	"skyfx/internal/scene"
)

const (
	meshStride   = 6 // x, y, r, g, b, a
	spriteStride = 4 // x, y, u, v

	// maxMeshFloats flushes the mesh batch before it grows past this size.
	maxMeshFloats = 1 << 18
)

// glOffset converts a byte offset to unsafe.Pointer for OpenGL VBO offset params.
func glOffset(n int) unsafe.Pointer { return unsafe.Pointer(uintptr(n)) }

// Renderer draws a scene tree with two programs: a flat-colour triangle mesh
// for Graphics nodes and a textured quad for Sprites.
type Renderer struct {
	meshProg  uint32
	meshVAO   uint32
	meshVBO   uint32
	meshURes  int32
	mesh      []float32
	meshDraws int

	spriteProg  uint32
	spriteVAO   uint32
	spriteVBO   uint32
	spURes      int32
	spUTex      int32
	spUAlpha    int32
	quad        [6 * spriteStride]float32
	spriteDraws int

	textures map[*scene.Texture]uint32
	surfaceW float32
	surfaceH float32
}

func NewRenderer() (*Renderer, error) {
	meshProg, err := linkProgram(meshVertSrc, meshFragSrc)
	if err != nil {
		return nil, fmt.Errorf("mesh program: %w", err)
	}
	spriteProg, err := linkProgram(spriteVertSrc, spriteFragSrc)
	if err != nil {
		gl.DeleteProgram(meshProg)
		return nil, fmt.Errorf("sprite program: %w", err)
	}

	r := &Renderer{
		meshProg:   meshProg,
		spriteProg: spriteProg,
		textures:   make(map[*scene.Texture]uint32),
	}

	// Mesh VAO/VBO: streaming triangle list.
	var mVAO, mVBO uint32
	gl.GenVertexArrays(1, &mVAO)
	gl.GenBuffers(1, &mVBO)
	gl.BindVertexArray(mVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, mVBO)
	stride := int32(meshStride * 4)
	// aPos (vec2)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, glOffset(0))
	// aColor (vec4)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 4, gl.FLOAT, false, stride, glOffset(2*4))
	r.meshVAO = mVAO
	r.meshVBO = mVBO

	// Sprite VAO/VBO: six vertices rewritten per sprite.
	var sVAO, sVBO uint32
	gl.GenVertexArrays(1, &sVAO)
	gl.GenBuffers(1, &sVBO)
	gl.BindVertexArray(sVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, sVBO)
	stride = int32(spriteStride * 4)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.quad)*4, nil, gl.STREAM_DRAW)
	// aPos (vec2)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, stride, glOffset(0))
	// aUV (vec2)
	gl.EnableVertexAttribArray(1)
	gl.VertexAttribPointer(1, 2, gl.FLOAT, false, stride, glOffset(2*4))
	r.spriteVAO = sVAO
	r.spriteVBO = sVBO

	gl.UseProgram(meshProg)
	r.meshURes = gl.GetUniformLocation(meshProg, gl.Str("uResolution\x00"))

	gl.UseProgram(spriteProg)
	r.spURes = gl.GetUniformLocation(spriteProg, gl.Str("uResolution\x00"))
	r.spUTex = gl.GetUniformLocation(spriteProg, gl.Str("uTex\x00"))
	r.spUAlpha = gl.GetUniformLocation(spriteProg, gl.Str("uAlpha\x00"))
	gl.Uniform1i(r.spUTex, 0)

	gl.BindVertexArray(0)
	return r, nil
}

func (r *Renderer) Destroy() {
	for _, id := range r.textures {
		gl.DeleteTextures(1, &id)
	}
	r.textures = nil
	for _, id := range []uint32{r.meshVBO, r.spriteVBO} {
		if id != 0 {
			gl.DeleteBuffers(1, &id)
		}
	}
	for _, id := range []uint32{r.meshVAO, r.spriteVAO} {
		if id != 0 {
			gl.DeleteVertexArrays(1, &id)
		}
	}
	for _, id := range []uint32{r.meshProg, r.spriteProg} {
		if id != 0 {
			gl.DeleteProgram(id)
		}
	}
}

// BeginFrame clears to backdrop and maps surfaceW x surfaceH onto the framebuffer.
func (r *Renderer) BeginFrame(surfaceW, surfaceH float64, fbW, fbH int, backdrop scene.RGB) {
	gl.Viewport(0, 0, int32(fbW), int32(fbH))
	cr, cg, cb := backdrop.Floats()
	gl.ClearColor(cr, cg, cb, 1.0)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)

	r.surfaceW, r.surfaceH = float32(surfaceW), float32(surfaceH)
	r.mesh = r.mesh[:0]
	r.meshDraws, r.spriteDraws = 0, 0

	gl.UseProgram(r.meshProg)
	gl.Uniform2f(r.meshURes, r.surfaceW, r.surfaceH)
	gl.UseProgram(r.spriteProg)
	gl.Uniform2f(r.spURes, r.surfaceW, r.surfaceH)
	gl.ActiveTexture(gl.TEXTURE0)
}

func (r *Renderer) EndFrame() {
	r.flushMesh()
	gl.BindVertexArray(0)
	gl.Disable(gl.BLEND)
}

// DrawCalls reports the mesh and sprite draw calls issued this frame.
func (r *Renderer) DrawCalls() (mesh, sprites int) { return r.meshDraws, r.spriteDraws }

func (r *Renderer) flushMesh() {
	if len(r.mesh) == 0 {
		return
	}
	gl.UseProgram(r.meshProg)
	gl.BindVertexArray(r.meshVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.meshVBO)
	gl.BufferData(gl.ARRAY_BUFFER, len(r.mesh)*4, gl.Ptr(r.mesh), gl.STREAM_DRAW)
	gl.DrawArrays(gl.TRIANGLES, 0, int32(len(r.mesh)/meshStride))
	r.mesh = r.mesh[:0]
	r.meshDraws++
}

func (r *Renderer) drawQuad(tex uint32, x0, y0, x1, y1 float64, alpha float64) {
	fx0, fy0, fx1, fy1 := float32(x0), float32(y0), float32(x1), float32(y1)
	r.quad = [6 * spriteStride]float32{
		fx0, fy0, 0, 0,
		fx1, fy0, 1, 0,
		fx1, fy1, 1, 1,
		fx0, fy0, 0, 0,
		fx1, fy1, 1, 1,
		fx0, fy1, 0, 1,
	}
	gl.UseProgram(r.spriteProg)
	gl.BindVertexArray(r.spriteVAO)
	gl.BindBuffer(gl.ARRAY_BUFFER, r.spriteVBO)
	gl.BindTexture(gl.TEXTURE_2D, tex)
	gl.Uniform1f(r.spUAlpha, float32(alpha))
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(r.quad)*4, gl.Ptr(&r.quad[0]))
	gl.DrawArrays(gl.TRIANGLES, 0, 6)
	r.spriteDraws++
}

// texture returns the GL name for t, uploading it on first use.
func (r *Renderer) texture(t *scene.Texture) uint32 {
	if id, ok := r.textures[t]; ok {
		return id
	}
	img := t.Image
	b := img.Bounds()
	pix := img.Pix
	if img.Stride != 4*b.Dx() {
		pix = tightPixels(img)
	}

	var id uint32
	gl.GenTextures(1, &id)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.LINEAR)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(b.Dx()), int32(b.Dy()), 0, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pix))
	r.textures[t] = id
	return id
}

// TextureCount is the number of textures resident on the GPU.
func (r *Renderer) TextureCount() int { return len(r.textures) }

func tightPixels(img *image.NRGBA) []uint8 {
	b := img.Bounds()
	row := 4 * b.Dx()
	out := make([]uint8, row*b.Dy())
	for y := 0; y < b.Dy(); y++ {
		src := img.PixOffset(b.Min.X, b.Min.Y+y)
		copy(out[y*row:(y+1)*row], img.Pix[src:src+row])
	}
	return out
}
