package bitmap

import (
	"image"
	"image/color"
)

// Encode converts src into a two-level mask: opaque pixels at or above half
// luminance become fully set, everything else is cleared.
func Encode(src image.Image) *image.Alpha {
	b := src.Bounds()
	dst := image.NewAlpha(b)

	for x := b.Min.X; x < b.Max.X; x++ {
		for y := b.Min.Y; y < b.Max.Y; y++ {
			if Lit(src.At(x, y)) {
				dst.SetAlpha(x, y, color.Alpha{A: 0xFF})
			}
		}
	}

	return dst
}

// Lit reports whether c would light a monochrome pixel.
func Lit(c color.Color) bool {
	r, g, b, a := c.RGBA()
	if a < 0x8000 {
		return false
	}
	// BT.601 luma, same weights as color.GrayModel
	y := (19595*r + 38470*g + 7471*b + 1<<15) >> 16
	return y >= 0x8000
}
