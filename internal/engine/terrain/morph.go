package terrain

// morphStep is the distance, in tile vertices, between samples of the next
// coarser level.
const morphStep = 2

// ComputeMorphDeltas returns, for every tile vertex, the height offset that
// moves it onto the surface of the next coarser level. A vertex shader adds
// delta*morphFactor to the height. Vertices shared by both levels and skirt
// vertices get zero.
//
// The cell centre uses the diagonal the coarser level actually renders, so
// the winding must agree with buildIndices. The parity is taken in the
// parent's cell grid, which is offset by the tile's quadrant.
func ComputeMorphDeltas(hf HeightField, p BuildParams) ([]float32, error) {
	if l, ok := hf.(ReadLocker); ok {
		l.RLock()
		defer l.RUnlock()
	}

	r, err := resolveRegion(hf, p)
	if err != nil {
		return nil, err
	}
	return computeMorphDeltas(r, p.Width, p.Skirts, p.Quadrant), nil
}

// parentCellOffset returns the first parent cell a tile of the given
// quadrant covers.
func parentCellOffset(q Quadrant, width int) (int, int) {
	half := (width - 1) / morphStep
	switch q {
	case QuadrantSE:
		return half, 0
	case QuadrantNW:
		return 0, half
	case QuadrantNE:
		return half, half
	}
	return 0, 0
}

func computeMorphDeltas(r region, width int, skirts bool, q Quadrant) []float32 {
	pad := skirtPad(skirts)
	cellX, cellY := parentCellOffset(q, width)
	vw := width + 2*pad
	deltas := make([]float32, vw*vw)
	set := func(x, y int, d float32) {
		deltas[(y+pad)*vw+x+pad] = d
	}

	for y := 0; y+morphStep < width; y += morphStep {
		for x := 0; x+morphStep < width; x += morphStep {
			bottomLeft := r.height(x, y)
			bottomRight := r.height(x+morphStep, y)
			topLeft := r.height(x, y+morphStep)
			topRight := r.height(x+morphStep, y+morphStep)

			// Edge midpoints: left, right, top, bottom
			set(x, y+1, (bottomLeft+topLeft)/2-r.height(x, y+1))
			set(x+2, y+1, (bottomRight+topRight)/2-r.height(x+2, y+1))
			set(x+1, y+2, (topLeft+topRight)/2-r.height(x+1, y+2))
			set(x+1, y, (bottomLeft+bottomRight)/2-r.height(x+1, y))

			center := r.height(x+1, y+1)
			if WindingFor(cellX+x/morphStep, cellY+y/morphStep) == WindingA {
				set(x+1, y+1, (bottomLeft+topRight)/2-center)
			} else {
				set(x+1, y+1, (bottomRight+topLeft)/2-center)
			}
		}
	}

	return deltas
}
