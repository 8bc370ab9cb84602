package ssd1306

import (
	"image"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"

	"oledscreen/pkg/glyph"
	"oledscreen/pkg/proto"
)

var ErrNotInitialized = errors.New("panel not initialized")

func New(bus *proto.Bus, logger *zap.Logger) *SSD1306 {
	opts := ssd1306.DefaultOpts
	return &SSD1306{
		bus:    bus,
		opts:   &opts,
		logger: logger.With(zap.Stringer("bus", bus)),
	}
}

var _ proto.Panel = (*SSD1306)(nil)

// SSD1306 drives a 128x64 SSD1306 controller over I2C. Drawing happens in
// a local 1-bit buffer; only Flush talks to the controller.
type SSD1306 struct {
	bus    *proto.Bus
	opts   *ssd1306.Opts
	logger *zap.Logger
	dev    *ssd1306.Dev
	buf    *image1bit.VerticalLSB
}

func (s *SSD1306) Init() error {
	b, err := s.bus.Open()
	if err != nil {
		return err
	}

	dev, err := ssd1306.NewI2C(b, s.opts)
	if err != nil {
		_ = s.bus.Close()
		return errors.Wrap(err, "ssd1306 init")
	}

	s.dev = dev
	s.buf = image1bit.NewVerticalLSB(dev.Bounds())
	s.logger.With(zap.Stringer("bounds", dev.Bounds())).Info("panel ready")
	return nil
}

func (s *SSD1306) Close() error {
	if s.dev == nil {
		return nil
	}

	err := s.dev.Halt()
	if cerr := s.bus.Close(); err == nil {
		err = cerr
	}
	s.dev = nil
	return errors.Wrap(err, "ssd1306 close")
}

func (s *SSD1306) Draw(glyphs []glyph.Glyph, at image.Point) error {
	if s.buf == nil {
		return ErrNotInitialized
	}

	for _, g := range glyphs {
		g.Paint(s.buf, at)
	}
	return nil
}

func (s *SSD1306) Clear() error {
	if s.buf == nil {
		return ErrNotInitialized
	}

	for i := range s.buf.Pix {
		s.buf.Pix[i] = 0
	}
	return nil
}

func (s *SSD1306) Flush() error {
	if s.dev == nil {
		return ErrNotInitialized
	}

	return s.transfer()
}
