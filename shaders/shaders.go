// Package shaders embeds the WGSL sources for the render pipelines.
package shaders

import (
	_ "embed"
)

//go:embed slice_cast.wgsl
var SliceCastWGSL string

//go:embed hud_text.wgsl
var HudTextWGSL string
