package glterrain

import (
	"hash/fnv"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

// Attribute locations shared with morph.vert.
const (
	locPosition       = 0
	locNormal         = 1
	locTexCoord       = 2
	locParentTexCoord = 3
	locDelta          = 4
)

// attrib is one float attribute inside an interleaved vertex.
type attrib struct {
	location uint32
	size     int32
	offset   uintptr // Bytes
}

// vertexAttribs returns the interleaved attributes of format and the vertex
// size in bytes.
func vertexAttribs(format terrain.VertexFormat) ([]attrib, int32) {
	attribs := []attrib{
		{locPosition, 3, 0},
		{locNormal, 3, 3 * 4},
		{locTexCoord, 2, 6 * 4},
	}
	if format.ParentUV {
		attribs = append(attribs, attrib{locParentTexCoord, 2, 8 * 4})
	}
	return attribs, int32(format.Stride() * 4)
}

// tintFor derives a stable colour from a texture name. Tiles carry texture
// names only, so each gets a flat colour that stays the same across frames.
func tintFor(texture string) [3]float32 {
	h := fnv.New32a()
	h.Write([]byte(texture))
	sum := h.Sum32()

	var c [3]float32
	for i := range c {
		c[i] = 0.35 + 0.65*float32((sum>>(8*i))&0xff)/255
	}
	return c
}
