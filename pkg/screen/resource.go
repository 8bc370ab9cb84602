package screen

import (
	"sync"

	"oledscreen/pkg/proto"
)

// Resource owns the panel. Every access goes through Exclusive, so at most
// one command touches the hardware at a time.
type Resource struct {
	mu    sync.Mutex
	panel proto.Panel
}

// Open initializes the panel and pushes a blank frame to it. Any failure
// here is a bus error and the resource is not usable.
func Open(panel proto.Panel) (*Resource, error) {
	if err := panel.Init(); err != nil {
		return nil, BusError(err)
	}

	if err := panel.Clear(); err != nil {
		_ = panel.Close()
		return nil, BusError(err)
	}

	if err := panel.Flush(); err != nil {
		_ = panel.Close()
		return nil, BusError(err)
	}

	return &Resource{panel: panel}, nil
}

// Exclusive runs fn with sole access to the panel. The gate is released
// when fn returns.
func (r *Resource) Exclusive(fn func(p proto.Panel) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return fn(r.panel)
}

func (r *Resource) Close() error {
	return r.Exclusive(func(p proto.Panel) error {
		return p.Close()
	})
}
