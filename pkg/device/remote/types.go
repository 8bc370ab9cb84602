package remote

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"

	"oledscreen/pkg/screen"
)

// Success is the result of every command that went through.
const Success = "success"

type EmptyRequest struct {
}

// WriteRequest mirrors the write params on the wire. Fields are pointers so
// an absent field can be told apart from a zero value.
type WriteRequest struct {
	X        *int    `json:"x_coord"`
	Y        *int    `json:"y_coord"`
	String   *string `json:"string"`
	FontSize *string `json:"font_size"`
}

// UnmarshalJSON accepts the named object form and the positional form
// [x_coord, y_coord, string, font_size].
func (r *WriteRequest) UnmarshalJSON(data []byte) error {
	type named WriteRequest
	if trimmed := bytes.TrimSpace(data); len(trimmed) == 0 || trimmed[0] != '[' {
		return json.Unmarshal(data, (*named)(r))
	}

	var tuple []json.RawMessage
	if err := json.Unmarshal(data, &tuple); err != nil {
		return err
	}

	slots := []any{&r.X, &r.Y, &r.String, &r.FontSize}
	if len(tuple) > len(slots) {
		return errors.Errorf("expected at most %d positional params, got %d", len(slots), len(tuple))
	}
	for i, raw := range tuple {
		if err := json.Unmarshal(raw, slots[i]); err != nil {
			return errors.Wrapf(err, "param %d", i)
		}
	}
	return nil
}

func NewWriteRequest(req screen.WriteRequest) *WriteRequest {
	return &WriteRequest{
		X:        lo.ToPtr(req.X),
		Y:        lo.ToPtr(req.Y),
		String:   lo.ToPtr(req.Text),
		FontSize: lo.ToPtr(req.Font),
	}
}

func (r *WriteRequest) command() (screen.WriteRequest, error) {
	var missing []string
	if r.X == nil {
		missing = append(missing, screen.FieldX)
	}
	if r.Y == nil {
		missing = append(missing, screen.FieldY)
	}
	if r.String == nil {
		missing = append(missing, screen.FieldText)
	}
	if r.FontSize == nil {
		missing = append(missing, screen.FieldFont)
	}
	if len(missing) > 0 {
		return screen.WriteRequest{}, screen.InvalidParams("missing field: " + strings.Join(missing, ", "))
	}

	return screen.WriteRequest{
		X:    *r.X,
		Y:    *r.Y,
		Text: *r.String,
		Font: *r.FontSize,
	}, nil
}
