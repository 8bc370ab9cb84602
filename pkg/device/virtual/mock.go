package virtual

import (
	"image"
	"sync"

	"go.uber.org/zap"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"oledscreen/pkg/glyph"
	"oledscreen/pkg/proto"
)

// Call is one recorded driver invocation.
type Call struct {
	Op     string
	At     image.Point
	Glyphs int
}

func Mock(logger *zap.Logger) *Mocker {
	return New(logger, 128, 64)
}

func New(logger *zap.Logger, width, height int) *Mocker {
	r := image.Rect(0, 0, width, height)
	return &Mocker{
		l:     logger,
		rect:  r,
		buf:   image1bit.NewVerticalLSB(r),
		shown: image1bit.NewVerticalLSB(r),
	}
}

var _ proto.Panel = (*Mocker)(nil)

// Mocker is an in-memory panel. It keeps a draw buffer and the last flushed
// frame, and records every call so tests can check ordering.
type Mocker struct {
	l    *zap.Logger
	rect image.Rectangle

	mu     sync.Mutex
	buf    *image1bit.VerticalLSB
	shown  *image1bit.VerticalLSB
	calls  []Call
	faults map[string]error
	hook   func(op string)
}

// FailOn makes every later op return err. A nil err removes the fault.
func (m *Mocker) FailOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.faults == nil {
		m.faults = make(map[string]error)
	}
	if err == nil {
		delete(m.faults, op)
		return
	}
	m.faults[op] = err
}

// OnCall installs fn to run inside every op, after it is recorded and
// before it mutates the buffer. fn runs without the mocker's lock held.
func (m *Mocker) OnCall(fn func(op string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hook = fn
}

func (m *Mocker) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

func (m *Mocker) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = nil
}

// Frame returns a copy of what the panel currently shows.
func (m *Mocker) Frame() *image1bit.VerticalLSB {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.shown)
}

// Buffer returns a copy of the pending draw buffer.
func (m *Mocker) Buffer() *image1bit.VerticalLSB {
	m.mu.Lock()
	defer m.mu.Unlock()
	return clone(m.buf)
}

func (m *Mocker) Bounds() image.Rectangle {
	return m.rect
}

func (m *Mocker) Init() error {
	m.l.Info("init")
	return m.enter(Call{Op: "init"})
}

func (m *Mocker) Close() error {
	m.l.Info("close")
	return m.enter(Call{Op: "close"})
}

func (m *Mocker) Draw(glyphs []glyph.Glyph, at image.Point) error {
	m.l.With(
		zap.Int("x", at.X),
		zap.Int("y", at.Y),
		zap.Int("glyphs", len(glyphs)),
	).Info("draw")

	if err := m.enter(Call{Op: "draw", At: at, Glyphs: len(glyphs)}); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for _, g := range glyphs {
		g.Paint(m.buf, at)
	}
	return nil
}

func (m *Mocker) Clear() error {
	m.l.Info("clear")
	if err := m.enter(Call{Op: "clear"}); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.buf.Pix {
		m.buf.Pix[i] = 0
	}
	return nil
}

func (m *Mocker) Flush() error {
	m.l.Info("flush")
	if err := m.enter(Call{Op: "flush"}); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	copy(m.shown.Pix, m.buf.Pix)
	return nil
}

func (m *Mocker) enter(c Call) error {
	m.mu.Lock()
	m.calls = append(m.calls, c)
	err := m.faults[c.Op]
	hook := m.hook
	m.mu.Unlock()

	if hook != nil {
		hook(c.Op)
	}
	return err
}

func clone(src *image1bit.VerticalLSB) *image1bit.VerticalLSB {
	dst := image1bit.NewVerticalLSB(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
