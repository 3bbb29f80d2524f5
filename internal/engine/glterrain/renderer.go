// Package glterrain renders terrain tiles with OpenGL 4.1 core. It provides
// a GPU buffer store and one render host per tile for the terrain package.
package glterrain

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/engine/glterrain/shaders"
	"github.com/Faultbox/midgard-terrain/internal/engine/shader"
	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
	"github.com/Faultbox/midgard-terrain/internal/logger"
	"github.com/Faultbox/midgard-terrain/pkg/math"
)

// Renderer draws every attached tile, followed by the alpha-blended fade
// passes. It must only be used from the thread that owns the GL context.
type Renderer struct {
	program uint32

	locViewProj     int32
	locOrigin       int32
	locMorph        int32
	locMorphEnabled int32
	locParentUV     int32
	locTint         int32
	locAlpha        int32
	locLightDir     int32

	LightDir [3]float32

	hosts []*TileHost
	log   *zap.Logger
}

// NewRenderer compiles the tile program.
func NewRenderer() (*Renderer, error) {
	program, err := shader.CompileProgram(shaders.MorphVertexShader, shaders.TileFragmentShader)
	if err != nil {
		return nil, fmt.Errorf("tile shader: %w", err)
	}

	r := &Renderer{
		program:  program,
		LightDir: [3]float32{-0.4, -1, -0.3},
		log:      logger.Named("glterrain"),
	}
	r.locViewProj = shader.MustGetUniform(program, "uViewProj")
	r.locOrigin = shader.GetUniform(program, "uOrigin")
	r.locMorph = shader.GetUniform(program, "uMorph")
	r.locMorphEnabled = shader.GetUniform(program, "uMorphEnabled")
	r.locParentUV = shader.GetUniform(program, "uParentUV")
	r.locTint = shader.GetUniform(program, "uTint")
	r.locAlpha = shader.GetUniform(program, "uAlpha")
	r.locLightDir = shader.GetUniform(program, "uLightDir")

	return r, nil
}

// HostFactory returns a terrain.HostFactory creating hosts drawn by r.
func (r *Renderer) HostFactory() terrain.HostFactory {
	return func(_ terrain.TileParams, texture string, origin math.Vec3) terrain.RenderHost {
		return &TileHost{renderer: r, texture: texture, tint: tintFor(texture), origin: origin}
	}
}

// Tiles returns the number of attached tiles.
func (r *Renderer) Tiles() int { return len(r.hosts) }

func (r *Renderer) register(h *TileHost) {
	r.hosts = append(r.hosts, h)
}

func (r *Renderer) unregister(h *TileHost) {
	for i, other := range r.hosts {
		if other == h {
			r.hosts = append(r.hosts[:i], r.hosts[i+1:]...)
			return
		}
	}
}

// Draw renders all tiles with viewProj.
func (r *Renderer) Draw(viewProj math.Mat4, wireframe bool) {
	if len(r.hosts) == 0 {
		return
	}

	gl.UseProgram(r.program)
	gl.UniformMatrix4fv(r.locViewProj, 1, false, &viewProj[0])
	gl.Uniform3f(r.locLightDir, r.LightDir[0], r.LightDir[1], r.LightDir[2])

	if wireframe {
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		defer gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}

	// Base pass
	gl.Uniform1i(r.locParentUV, 0)
	gl.Uniform1f(r.locAlpha, 1)
	for _, h := range r.hosts {
		h.draw(r, h.binding.Morph, h.tint, 1)
	}

	// Fade passes blend the parent's texture over the tile at the fade factor
	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.DepthFunc(gl.LEQUAL)
	gl.DepthMask(false)
	for _, h := range r.hosts {
		if h.pass == nil {
			continue
		}
		gl.Uniform1i(r.locParentUV, boolToInt(h.binding.Format.ParentUV))
		h.draw(r, h.pass.Morph && h.binding.Morph, h.parentTint, h.params.FadeFactor())
	}
	gl.DepthMask(true)
	gl.DepthFunc(gl.LESS)
	gl.Disable(gl.BLEND)

	gl.BindVertexArray(0)
}

// Destroy deletes the program and detaches any remaining hosts.
func (r *Renderer) Destroy() {
	for len(r.hosts) > 0 {
		r.hosts[len(r.hosts)-1].Detach()
	}
	if r.program != 0 {
		gl.DeleteProgram(r.program)
		r.program = 0
	}
}

// TileHost is the GL side of one tile: a vertex array over the tile's
// buffers plus the optional fade pass.
type TileHost struct {
	renderer *Renderer
	texture  string
	tint     [3]float32
	origin   math.Vec3

	vao     uint32
	binding terrain.Binding
	params  terrain.ShaderParameterSource

	pass       *terrain.BlendPass
	parentTint [3]float32
}

// Attach builds the vertex array for b and starts drawing the tile.
func (h *TileHost) Attach(b terrain.Binding, params terrain.ShaderParameterSource) error {
	if h.vao != 0 {
		return fmt.Errorf("%w: host for %s already attached", terrain.ErrInvariantViolation, h.texture)
	}
	if params == nil {
		return fmt.Errorf("%w: host for %s needs a parameter source", terrain.ErrInvariantViolation, h.texture)
	}

	gl.GenVertexArrays(1, &h.vao)
	gl.BindVertexArray(h.vao)

	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b.Vertices))
	attribs, stride := vertexAttribs(b.Format)
	for _, a := range attribs {
		gl.VertexAttribPointerWithOffset(a.location, a.size, gl.FLOAT, false, stride, a.offset)
		gl.EnableVertexAttribArray(a.location)
	}
	if !b.Format.ParentUV {
		gl.DisableVertexAttribArray(locParentTexCoord)
	}

	// Deltas live in their own buffer so the vertex buffer can be shared
	if b.Deltas != 0 {
		gl.BindBuffer(gl.ARRAY_BUFFER, uint32(b.Deltas))
		gl.VertexAttribPointerWithOffset(locDelta, 1, gl.FLOAT, false, 4, 0)
		gl.EnableVertexAttribArray(locDelta)
	} else {
		gl.DisableVertexAttribArray(locDelta)
		gl.VertexAttrib1f(locDelta, 0)
	}

	gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, uint32(b.Indices))
	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	h.binding = b
	h.params = params
	h.renderer.register(h)
	return nil
}

// AddBlendPass starts drawing the parent's texture over the tile.
func (h *TileHost) AddBlendPass(p terrain.BlendPass) error {
	if h.pass != nil {
		return fmt.Errorf("%w: %s already has a blend pass", terrain.ErrInvariantViolation, h.texture)
	}
	h.pass = &p
	h.parentTint = tintFor(p.Texture)
	h.renderer.log.Debug("blend pass added", zap.String("tile", h.texture), zap.String("parent", p.Texture))
	return nil
}

// RemoveBlendPass stops drawing the parent's texture.
func (h *TileHost) RemoveBlendPass() error {
	if h.pass == nil {
		return fmt.Errorf("%w: %s has no blend pass", terrain.ErrInvariantViolation, h.texture)
	}
	h.pass = nil
	h.renderer.log.Debug("blend pass removed", zap.String("tile", h.texture))
	return nil
}

// Detach deletes the vertex array. The buffers belong to the store.
func (h *TileHost) Detach() {
	if h.vao == 0 {
		return
	}
	gl.DeleteVertexArrays(1, &h.vao)
	h.vao = 0
	h.pass = nil
	h.params = nil
	h.renderer.unregister(h)
}

func (h *TileHost) draw(r *Renderer, morph bool, tint [3]float32, alpha float32) {
	gl.Uniform3f(r.locOrigin, h.origin.X, h.origin.Y, h.origin.Z)
	gl.Uniform1i(r.locMorphEnabled, boolToInt(morph))
	gl.Uniform1f(r.locMorph, h.params.MorphFactor())
	gl.Uniform3f(r.locTint, tint[0], tint[1], tint[2])
	gl.Uniform1f(r.locAlpha, alpha)

	gl.BindVertexArray(h.vao)
	gl.DrawElementsWithOffset(gl.TRIANGLES, int32(h.binding.IndexCount), gl.UNSIGNED_SHORT, 0)
}

func boolToInt(b bool) int32 {
	if b {
		return 1
	}
	return 0
}
