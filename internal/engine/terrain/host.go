package terrain

import (
	"fmt"
	"sync"
)

// ShaderParameterSource exposes the two per-tile scalars the renderer feeds
// to the morph vertex program and the fade fragment program.
type ShaderParameterSource interface {
	MorphFactor() float32
	FadeFactor() float32
}

// Binding describes the buffers of a tile as handed to the renderer.
type Binding struct {
	Vertices   BufferHandle
	Indices    BufferHandle
	Deltas     BufferHandle // Zero when the tile does not morph
	Format     VertexFormat
	IndexCount int
	Morph      bool // Draw with the morph vertex program
}

// BlendPass is the alpha-blended pass that draws the parent's texture over a
// tile while it fades.
type BlendPass struct {
	Texture string // Parent texture name
	Morph   bool   // Pass also uses the morph vertex program
}

// RenderHost is the renderer side of a tile.
type RenderHost interface {
	Attach(b Binding, params ShaderParameterSource) error
	AddBlendPass(p BlendPass) error
	RemoveBlendPass() error
	Detach()
}

// HeadlessHost is a RenderHost that only records what it was asked to do.
type HeadlessHost struct {
	mu       sync.Mutex
	binding  Binding
	params   ShaderParameterSource
	attached bool
	passes   []BlendPass
	added    int
	removed  int
}

// NewHeadlessHost creates an empty host.
func NewHeadlessHost() *HeadlessHost {
	return &HeadlessHost{}
}

// Attach records the binding and parameter source.
func (h *HeadlessHost) Attach(b Binding, params ShaderParameterSource) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.attached {
		return fmt.Errorf("%w: host already attached", ErrInvariantViolation)
	}
	h.binding = b
	h.params = params
	h.attached = true
	return nil
}

// AddBlendPass records a pass.
func (h *HeadlessHost) AddBlendPass(p BlendPass) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.passes = append(h.passes, p)
	h.added++
	return nil
}

// RemoveBlendPass drops the last pass.
func (h *HeadlessHost) RemoveBlendPass() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.passes) == 0 {
		return fmt.Errorf("%w: no blend pass to remove", ErrInvariantViolation)
	}
	h.passes = h.passes[:len(h.passes)-1]
	h.removed++
	return nil
}

// Detach forgets the binding and every pass.
func (h *HeadlessHost) Detach() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.binding = Binding{}
	h.params = nil
	h.attached = false
	h.passes = nil
}

// Binding returns the recorded binding.
func (h *HeadlessHost) Binding() (Binding, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.binding, h.attached
}

// Passes returns the currently attached blend passes.
func (h *HeadlessHost) Passes() []BlendPass {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]BlendPass(nil), h.passes...)
}

// PassEvents returns how many passes were added and removed in total.
func (h *HeadlessHost) PassEvents() (added, removed int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.added, h.removed
}

// Parameters samples the attached parameter source the way a renderer does
// before each draw.
func (h *HeadlessHost) Parameters() (morph, fade float32) {
	h.mu.Lock()
	params := h.params
	h.mu.Unlock()
	if params == nil {
		return 0, 0
	}
	return params.MorphFactor(), params.FadeFactor()
}
