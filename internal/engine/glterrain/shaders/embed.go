// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// MorphVertexShader offsets each vertex height by its morph delta.
//
//go:embed morph.vert
var MorphVertexShader string

// TileFragmentShader shades a tile with its own tint or, in a blend pass,
// its parent's tint at the fade alpha.
//
//go:embed tile.frag
var TileFragmentShader string
