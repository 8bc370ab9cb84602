package screen

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		code    int
		message string
		data    any
	}{
		{"invalid params", InvalidParams("missing field string"), CodeInvalidParams, "invalid params", "missing field string"},
		{"bus", BusError(errors.New("i2c: nack")), CodeBus, "bus error", "i2c: nack"},
		{"unavailable", ErrUnavailable, CodeUnavailable, "display unavailable", "display disabled after bus fault"},
		{"busy", ErrBusy, CodeBusy, "display busy", "too many pending commands"},
		{"internal", Internal(errors.New("boom")), CodeInternal, "Internal error", nil},
		{"foreign error", errors.New("boom"), CodeInternal, "Internal error", nil},
		{"wrapped bus", errors.Wrap(BusError(errors.New("nack")), "flush"), CodeBus, "bus error", "nack"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := Translate(tt.err)
			assert.Equal(t, tt.code, f.Code)
			assert.Equal(t, tt.message, f.Message)
			assert.Equal(t, tt.data, f.Data)
		})
	}
}

func TestTranslateValidation(t *testing.T) {
	_, err := Validate(WriteRequest{X: 200, Y: 0, Text: "Hello", Font: "6x8"})
	require.Error(t, err)

	f := Translate(err)
	assert.Equal(t, CodeValidation, f.Code)
	assert.Equal(t, "Validation error: x_coord out of range 0-128: 200.", f.Message)

	vs, ok := f.Data.([]Violation)
	require.True(t, ok)
	require.Len(t, vs, 1)
	assert.Equal(t, FieldX, vs[0].Field)
}

func TestViolationText(t *testing.T) {
	_, err := Validate(WriteRequest{X: 0, Y: 60, Text: strings.Repeat("a", 22), Font: "bogus"})
	require.Error(t, err)

	f := Translate(err)
	assert.Equal(t, "Validation error: "+
		"string is 22 characters long, at most 21 allowed; "+
		"y_coord out of range 0-57: 60; "+
		"bogus is not an accepted font size (6x8, 6x12, 8x16, 12x16).", f.Message)
}

func TestCodesDistinct(t *testing.T) {
	seen := map[int]ErrorKind{}
	for _, k := range []ErrorKind{KindInternal, KindInvalidParams, KindValidation, KindBus, KindUnavailable, KindBusy} {
		code := Translate(&Error{Kind: k}).Code
		prev, dup := seen[code]
		assert.False(t, dup, "%s shares code %d with %s", k, code, prev)
		seen[code] = k
	}
}

func TestErrorText(t *testing.T) {
	assert.Equal(t, "bus: nack", BusError(errors.New("nack")).Error())
	assert.Equal(t, "busy: too many pending commands", ErrBusy.Error())
	assert.Equal(t, "internal", (&Error{}).Error())
	assert.Equal(t, "ErrorKind(42)", ErrorKind(42).String())

	cause := errors.New("nack")
	assert.ErrorIs(t, BusError(cause), cause)
	assert.Equal(t, cause, errors.Cause(BusError(cause)))
}
