package screen

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"oledscreen/pkg/glyph"
)

// Addressable area of the panel and the longest line it accepts.
const (
	MaxX       = 128
	MaxY       = 57
	MaxTextLen = 21
)

// Wire names of the write fields, used in violations.
const (
	FieldText = "string"
	FieldX    = "x_coord"
	FieldY    = "y_coord"
	FieldFont = "font_size"
)

// WriteRequest is a write as it arrives from a caller.
type WriteRequest struct {
	X    int
	Y    int
	Text string
	Font string
}

// WriteCommand is a write that passed Validate.
type WriteCommand struct {
	X    int
	Y    int
	Text string
	Font glyph.Font
}

// Validate checks every constraint on req and reports all of the failed
// ones at once, in the order text length, x, y, font.
func Validate(req WriteRequest) (WriteCommand, error) {
	var vs []Violation

	if n := utf8.RuneCountInString(req.Text); n > MaxTextLen {
		vs = append(vs, Violation{Field: FieldText, Allowed: fmt.Sprintf("0-%d", MaxTextLen), Value: n})
	}

	if req.X < 0 || req.X > MaxX {
		vs = append(vs, Violation{Field: FieldX, Allowed: fmt.Sprintf("0-%d", MaxX), Value: req.X})
	}

	if req.Y < 0 || req.Y > MaxY {
		vs = append(vs, Violation{Field: FieldY, Allowed: fmt.Sprintf("0-%d", MaxY), Value: req.Y})
	}

	font, ok := glyph.ParseFont(req.Font)
	if !ok {
		vs = append(vs, Violation{Field: FieldFont, Allowed: strings.Join(glyph.Names(), ", "), Value: req.Font})
	}

	if len(vs) > 0 {
		return WriteCommand{}, ValidationFailed(vs)
	}

	return WriteCommand{X: req.X, Y: req.Y, Text: req.Text, Font: font}, nil
}
