package glterrain

import (
	"testing"

	"github.com/Faultbox/midgard-terrain/internal/engine/terrain"
)

func TestVertexAttribs(t *testing.T) {
	tests := []struct {
		name       string
		format     terrain.VertexFormat
		wantCount  int
		wantStride int32
	}{
		{"without parent uv", terrain.VertexFormat{}, 3, 32},
		{"with parent uv", terrain.VertexFormat{ParentUV: true}, 4, 40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attribs, stride := vertexAttribs(tt.format)
			if len(attribs) != tt.wantCount || stride != tt.wantStride {
				t.Fatalf("got %d attribs stride %d, want %d stride %d", len(attribs), stride, tt.wantCount, tt.wantStride)
			}
			// Attributes are packed back to back and fill the stride
			var end uintptr
			for _, a := range attribs {
				if a.offset != end {
					t.Errorf("attrib %d at offset %d, want %d", a.location, a.offset, end)
				}
				end += uintptr(a.size) * 4
			}
			if int32(end) != stride {
				t.Errorf("attributes end at %d, stride is %d", end, stride)
			}
		})
	}
}

func TestTintFor(t *testing.T) {
	a := tintFor("terrain/1/0/1")
	if a != tintFor("terrain/1/0/1") {
		t.Error("tint must be stable for a name")
	}
	if a == tintFor("terrain/1/1/1") {
		t.Error("neighbouring tiles got the same tint")
	}
	for _, name := range []string{"", "terrain/0/0/0", "terrain/4/15/15"} {
		for i, c := range tintFor(name) {
			if c < 0.35 || c > 1 {
				t.Errorf("tintFor(%q)[%d] = %f outside [0.35, 1]", name, i, c)
			}
		}
	}
}
