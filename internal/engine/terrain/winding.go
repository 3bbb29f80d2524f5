package terrain

// Winding selects which diagonal splits a grid cell into two triangles.
type Winding int

const (
	// WindingA splits along the (x,y)-(x+1,y+1) diagonal.
	WindingA Winding = iota
	// WindingB splits along the (x+1,y)-(x,y+1) diagonal.
	WindingB
)

// WindingFor returns the winding of cell (cx, cy). Neighbouring cells along
// a row or a column always differ, giving a checkerboard of diagonals.
func WindingFor(cx, cy int) Winding {
	if (cx+cy)&1 == 0 {
		return WindingA
	}
	return WindingB
}

// appendCell appends the six indices of one cell. line1 is the index of the
// cell's (x,y) corner and line2 the index of its (x,y+1) corner.
func appendCell(indices []uint16, w Winding, line1, line2 uint16) []uint16 {
	if w == WindingB {
		return append(indices,
			line1, line2, line1+1,
			line1+1, line2, line2+1,
		)
	}
	return append(indices,
		line1, line2, line2+1,
		line1, line2+1, line1+1,
	)
}
