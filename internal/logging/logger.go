package logging

import (
	"go.uber.org/zap"
)

// New returns a development logger when debug is set and a production
// logger otherwise.
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
