package glyph

import (
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"oledscreen/pkg/bitmap"
)

// Glyph is one rasterized character placed relative to the text origin.
type Glyph struct {
	At   image.Point
	Mask *image.Alpha
}

// Bounds is the area the glyph covers once the text origin is moved to at.
func (g Glyph) Bounds(at image.Point) image.Rectangle {
	return g.Mask.Bounds().Sub(g.Mask.Bounds().Min).Add(g.At).Add(at)
}

// Paint lights the glyph's set pixels on dst with the text origin moved to
// at. Pixels outside dst are clipped and unset pixels leave dst untouched.
func (g Glyph) Paint(dst draw.Image, at image.Point) {
	r := g.Bounds(at).Intersect(dst.Bounds())
	off := g.Mask.Bounds().Min.Sub(g.At).Sub(at)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if g.Mask.AlphaAt(x+off.X, y+off.Y).A != 0 {
				dst.Set(x, y, color.White)
			}
		}
	}
}

type cacheKey struct {
	font Font
	r    rune
}

var cache sync.Map

// Render rasterizes text one character per cell, left to right, starting at
// the origin. Characters the source face lacks, control characters included,
// render as blank cells.
func Render(text string, f Font) []Glyph {
	m := f.Metrics()
	glyphs := make([]Glyph, 0, len(text))

	col := 0
	for _, r := range text {
		glyphs = append(glyphs, Glyph{
			At:   image.Pt(col*m.Width, 0),
			Mask: rasterize(f, r),
		})
		col++
	}

	return glyphs
}

func rasterize(f Font, r rune) *image.Alpha {
	key := cacheKey{font: f, r: r}
	if v, ok := cache.Load(key); ok {
		return v.(*image.Alpha)
	}

	face := basicfont.Face7x13
	src := image.NewGray(image.Rect(0, 0, face.Width, face.Height))
	if Covers(r) {
		d := font.Drawer{
			Dst:  src,
			Src:  image.White,
			Face: face,
			Dot:  fixed.P(0, face.Ascent),
		}
		d.DrawString(string(r))
	}

	m := f.Metrics()
	scaled := imaging.Resize(src, m.Width, m.Height, imaging.NearestNeighbor)
	mask := bitmap.Encode(scaled)

	v, _ := cache.LoadOrStore(key, mask)
	return v.(*image.Alpha)
}

// Covers reports whether the face has a glyph of its own for r. The face
// substitutes a replacement box for everything else.
func Covers(r rune) bool {
	for _, rng := range basicfont.Face7x13.Ranges {
		if rng.Low <= r && r < rng.High {
			return true
		}
	}
	return false
}
