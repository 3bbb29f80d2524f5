package terrain

// LODState holds the morph and texture-fade factors of one tile.
//
// Both channels follow camera distance. A split anchors them at 1 through the
// extra amounts, which then bleed off linearly so the new tiles ease in.
type LODState struct {
	depth int

	morphFactor float32
	fadeFactor  float32
	extraMorph  float32
	extraFade   float32
}

// NewLODState creates the LOD state for a tile at the given quadtree depth.
func NewLODState(depth int) LODState {
	return LODState{depth: depth}
}

// MorphFactor returns the current geometry morph weight in [0, 1].
func (s *LODState) MorphFactor() float32 { return s.morphFactor }

// FadeFactor returns the current texture fade weight in [0, 1].
func (s *LODState) FadeFactor() float32 { return s.fadeFactor }

// ExtraMorph returns the remaining post-split morph boost.
func (s *LODState) ExtraMorph() float32 { return s.extraMorph }

// ExtraFade returns the remaining post-split fade boost.
func (s *LODState) ExtraFade() float32 { return s.extraFade }

// JustSplit anchors both channels at fully morphed.
func (s *LODState) JustSplit() {
	s.extraMorph = 1
	s.extraFade = 1
	s.morphFactor = 1
	s.fadeFactor = 1
}

// Update recomputes both factors for this frame. The boosts decay by
// elapsed/morphSpeed and elapsed/fadeSpeed before being applied, so a boost
// never outlives its speed. Non-positive speeds drop the boost at once.
func (s *LODState) Update(elapsed, camDist, unsplitDist, morphStartDist, morphSpeed, fadeSpeed float32) {
	steady := SteadyMorphFactor(s.depth, camDist, unsplitDist, morphStartDist)

	s.extraMorph = decay(s.extraMorph, elapsed, morphSpeed)
	s.extraFade = decay(s.extraFade, elapsed, fadeSpeed)

	s.morphFactor = clampf(steady+s.extraMorph, 0, 1)
	s.fadeFactor = clampf(steady+s.extraFade, 0, 1)
}

// SteadyMorphFactor returns the distance-driven morph weight. It ramps from 0
// at morphStartDist to 1 at unsplitDist. Depths 0 and 1 never morph and a
// degenerate range yields 0. The result is not clamped.
func SteadyMorphFactor(depth int, camDist, unsplitDist, morphStartDist float32) float32 {
	if depth <= 1 || !(camDist > morphStartDist) {
		return 0
	}
	span := unsplitDist - morphStartDist
	if !(span > 0) {
		return 0
	}
	f := 1 - (unsplitDist-camDist)/span
	if f != f {
		return 0
	}
	return f
}

func decay(amount, elapsed, speed float32) float32 {
	if amount <= 0 {
		return 0
	}
	if !(speed > 0) {
		return 0
	}
	if !(elapsed > 0) {
		return amount
	}
	amount -= elapsed / speed
	if amount < 0 {
		return 0
	}
	return amount
}
