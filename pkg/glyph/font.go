package glyph

import (
	"fmt"

	"github.com/samber/lo"
)

// Font is one of the fixed glyph sizes the panel supports.
type Font uint8

const (
	Small6x8 Font = iota + 1
	Medium6x12
	Large8x16
	XLarge12x16
)

// Metrics is the pixel cell occupied by a single character.
type Metrics struct {
	Width  int
	Height int
}

var metrics = map[Font]Metrics{
	Small6x8:    {Width: 6, Height: 8},
	Medium6x12:  {Width: 6, Height: 12},
	Large8x16:   {Width: 8, Height: 16},
	XLarge12x16: {Width: 12, Height: 16},
}

var fonts = []Font{Small6x8, Medium6x12, Large8x16, XLarge12x16}

var byName = lo.KeyBy(fonts, func(f Font) string {
	return f.String()
})

// Fonts returns every supported font, smallest first.
func Fonts() []Font {
	return append([]Font(nil), fonts...)
}

// Names returns the wire names of every supported font, smallest first.
func Names() []string {
	return lo.Map(fonts, func(f Font, _ int) string {
		return f.String()
	})
}

// ParseFont maps a wire name such as "6x8" to its Font. Unknown names
// report false.
func ParseFont(name string) (Font, bool) {
	f, ok := byName[name]
	return f, ok
}

func (f Font) Valid() bool {
	_, ok := metrics[f]
	return ok
}

func (f Font) Metrics() Metrics {
	return metrics[f]
}

func (f Font) String() string {
	m, ok := metrics[f]
	if !ok {
		return fmt.Sprintf("Font(%d)", uint8(f))
	}
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}
