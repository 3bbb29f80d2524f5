package math

import (
	"testing"
)

func TestVec3Distance(t *testing.T) {
	tests := []struct {
		a, b Vec3
		want float32
	}{
		{Vec3{}, Vec3{}, 0},
		{Vec3{X: 3}, Vec3{Z: 4}, 5},
		{Vec3{1, 2, 3}, Vec3{1, 2, 3}, 0},
		{Vec3{128, 100, 128}, Vec3{128, 0, 128}, 100},
	}

	for _, tt := range tests {
		if got := tt.a.Distance(tt.b); got != tt.want {
			t.Errorf("%v.Distance(%v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
		if got := tt.b.Distance(tt.a); got != tt.want {
			t.Errorf("Distance is not symmetric for %v and %v", tt.a, tt.b)
		}
	}
}

func TestVec3Normalize(t *testing.T) {
	tests := []Vec3{{3, 4, 0}, {0, -7, 0}, {1, 1, 1}, {-256, 12, 0.5}}
	for _, v := range tests {
		n := v.Normalize()
		if l := n.Length(); l < 0.999 || l > 1.001 {
			t.Errorf("%v.Normalize().Length() = %v, want ~1", v, l)
		}
		if n.Dot(v) <= 0 {
			t.Errorf("%v.Normalize() = %v flips direction", v, n)
		}
	}

	if got := (Vec3{}).Normalize(); got != (Vec3{}) {
		t.Errorf("zero vector normalised to %v", got)
	}
}

func TestVec3CrossAndDot(t *testing.T) {
	x, y, z := Vec3{X: 1}, Vec3{Y: 1}, Vec3{Z: 1}

	if got := x.Cross(y); got != z {
		t.Errorf("X cross Y = %v, want %v", got, z)
	}
	if got := z.Cross(x); got != y {
		t.Errorf("Z cross X = %v, want %v", got, y)
	}

	// A cross product is perpendicular to both inputs
	a, b := Vec3{1, 2, 3}, Vec3{-4, 0, 5}
	c := a.Cross(b)
	if c.Dot(a) != 0 || c.Dot(b) != 0 {
		t.Errorf("%v is not perpendicular to %v and %v", c, a, b)
	}
}

func TestVec3MinMax(t *testing.T) {
	a, b := Vec3{1, -2, 3}, Vec3{-1, 5, 3}
	if got := a.Min(b); got != (Vec3{-1, -2, 3}) {
		t.Errorf("Min = %v", got)
	}
	if got := a.Max(b); got != (Vec3{1, 5, 3}) {
		t.Errorf("Max = %v", got)
	}
}
