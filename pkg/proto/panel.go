package proto

import (
	"image"

	"oledscreen/pkg/glyph"
)

// Panel is a monochrome display driven through an in-memory draw buffer.
// Draw and Clear only touch the buffer; Flush pushes it to the hardware.
type Panel interface {
	Init() error
	Close() error

	Draw(glyphs []glyph.Glyph, at image.Point) error
	Clear() error
	Flush() error
}
