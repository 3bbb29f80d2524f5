package terrain

import (
	gomath "math"
)

// NoiseParams controls procedural height generation.
type NoiseParams struct {
	Seed        int64
	Amplitude   float32 // Height of the tallest peak above zero
	Scale       float64 // Grid samples per noise lattice cell
	Octaves     int
	Persistence float64
	Lacunarity  float64
}

// DefaultNoiseParams returns rolling-hills settings.
func DefaultNoiseParams(seed int64) NoiseParams {
	return NoiseParams{
		Seed:        seed,
		Amplitude:   256,
		Scale:       64,
		Octaves:     5,
		Persistence: 0.5,
		Lacunarity:  2,
	}
}

// NewNoiseGrid creates a deterministic value-noise height field.
// The same params always produce the same heights.
func NewNoiseGrid(width int, spacing float32, p NoiseParams) (*Grid, error) {
	if width < 2 {
		return NewGrid(width, nil, spacing)
	}
	if p.Scale <= 0 {
		p.Scale = 1
	}

	heights := make([]float32, width*width)
	for y := range width {
		for x := range width {
			n := octaveNoise2D(float64(x)/p.Scale, float64(y)/p.Scale, p.Seed, p.Octaves, p.Persistence, p.Lacunarity)
			heights[y*width+x] = float32(n) * p.Amplitude
		}
	}
	return NewGrid(width, heights, spacing)
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// hash2 is a SplitMix64-style lattice hash, stable across runs.
func hash2(x, y, seed int64) uint64 {
	v := uint64(x) + (uint64(y) << 1) + uint64(seed)*0x9E3779B97F4A7C15
	v += 0x9E3779B97F4A7C15
	v = (v ^ (v >> 30)) * 0xBF58476D1CE4E5B9
	v = (v ^ (v >> 27)) * 0x94D049BB133111EB
	return v ^ (v >> 31)
}

func latticeValue(x, y, seed int64) float64 {
	return float64(hash2(x, y, seed)&0xFFFFFFFF) / float64(0xFFFFFFFF)
}

func valueNoise2D(x, y float64, seed int64) float64 {
	x0 := gomath.Floor(x)
	y0 := gomath.Floor(y)

	fx := fade(x - x0)
	fy := fade(y - y0)

	v00 := latticeValue(int64(x0), int64(y0), seed)
	v10 := latticeValue(int64(x0)+1, int64(y0), seed)
	v01 := latticeValue(int64(x0), int64(y0)+1, seed)
	v11 := latticeValue(int64(x0)+1, int64(y0)+1, seed)

	return lerp(lerp(v00, v10, fx), lerp(v01, v11, fx), fy)
}

// octaveNoise2D sums octaves of value noise, normalised to [0,1].
func octaveNoise2D(x, y float64, seed int64, octaves int, persistence, lacunarity float64) float64 {
	amplitude := 1.0
	frequency := 1.0
	sum := 0.0
	norm := 0.0
	for i := range octaves {
		sum += valueNoise2D(x*frequency, y*frequency, seed+int64(i*131)) * amplitude
		norm += amplitude
		amplitude *= persistence
		frequency *= lacunarity
	}
	if norm == 0 {
		return 0
	}
	return sum / norm
}
