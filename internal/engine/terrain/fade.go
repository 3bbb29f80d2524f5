package terrain

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/midgard-terrain/internal/logger"
)

// FadePassManager adds and removes the blended pass that crossfades a tile
// into its parent's texture.
type FadePassManager struct {
	host     RenderHost
	depth    int
	maxDepth int
	enabled  bool   // Texture fading switched on globally
	morph    bool   // Pass uses the morph vertex program
	texture  string // Parent texture, empty when there is none
	hasPass  bool
}

// NewFadePassManager creates a manager for a tile at depth.
func NewFadePassManager(host RenderHost, depth, maxDepth int, enabled, morph bool, parentTexture string) FadePassManager {
	return FadePassManager{
		host:     host,
		depth:    depth,
		maxDepth: maxDepth,
		enabled:  enabled,
		morph:    morph,
		texture:  parentTexture,
	}
}

// HasPass reports whether the blend pass is attached.
func (m *FadePassManager) HasPass() bool { return m.hasPass }

// canFade reports whether there is a coarser texture to fade into.
func (m *FadePassManager) canFade() bool {
	return m.texture != "" && m.depth < m.maxDepth
}

// AddPass attaches the blend pass. Adding twice or at the finest depth is a
// caller bug.
func (m *FadePassManager) AddPass() error {
	if m.hasPass {
		return fmt.Errorf("%w: fade pass already attached", ErrInvariantViolation)
	}
	if m.depth >= m.maxDepth {
		return fmt.Errorf("%w: fade pass at max depth %d", ErrInvariantViolation, m.maxDepth)
	}
	if err := m.host.AddBlendPass(BlendPass{Texture: m.texture, Morph: m.morph}); err != nil {
		return fmt.Errorf("adding fade pass: %w", err)
	}
	m.hasPass = true
	logger.Debug("fade pass added", zap.Int("depth", m.depth), zap.String("texture", m.texture))
	return nil
}

// RemovePass detaches the blend pass.
func (m *FadePassManager) RemovePass() error {
	if !m.hasPass {
		return fmt.Errorf("%w: no fade pass attached", ErrInvariantViolation)
	}
	if err := m.host.RemoveBlendPass(); err != nil {
		return fmt.Errorf("removing fade pass: %w", err)
	}
	m.hasPass = false
	logger.Debug("fade pass removed", zap.Int("depth", m.depth))
	return nil
}

// Sync reacts to a new fade factor. The pass is removed as soon as the factor
// is back at zero, even if fading has been switched off meanwhile.
func (m *FadePassManager) Sync(fade float32) error {
	switch {
	case m.hasPass && fade == 0:
		return m.RemovePass()
	case m.enabled && !m.hasPass && fade > 0 && m.canFade():
		return m.AddPass()
	}
	return nil
}

// OnSplit attaches the pass straight away when a tile has just been split in.
func (m *FadePassManager) OnSplit() error {
	if m.enabled && !m.hasPass && m.canFade() {
		return m.AddPass()
	}
	return nil
}

// SetEnabled switches fading on or off for later syncs.
func (m *FadePassManager) SetEnabled(enabled bool) {
	m.enabled = enabled
}
