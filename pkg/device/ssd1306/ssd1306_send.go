package ssd1306

import (
	"image"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

func (s *SSD1306) transfer() error {
	start := time.Now()
	if err := s.dev.Draw(s.dev.Bounds(), s.buf, image.Point{}); err != nil {
		return errors.Wrap(err, "ssd1306 transfer")
	}

	s.logger.With(
		zap.Int("bytes", len(s.buf.Pix)),
		zap.String("cost", time.Since(start).String()),
	).Debug("transfer")

	return nil
}
