package screen

import (
	"image"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"oledscreen/pkg/glyph"
	"oledscreen/pkg/proto"
)

func NewDispatcher(res *Resource, logger *zap.Logger, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		res:    res,
		logger: logger,
		policy: FaultExit,
	}
	d.onFatal = func(err error) {
		d.logger.With(zap.Error(err)).Fatal("display lost, exiting")
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Dispatcher runs write, clear and flush commands against the shared
// panel, one at a time.
type Dispatcher struct {
	res    *Resource
	logger *zap.Logger

	policy     FaultPolicy
	onFatal    func(err error)
	maxPending int32
	pending    atomic.Int32

	fmu   sync.Mutex
	fault error
}

// Write validates req and draws it into the panel's buffer. It does not
// flush.
func (d *Dispatcher) Write(req WriteRequest) error {
	cmd, err := Validate(req)
	if err != nil {
		return err
	}

	glyphs := glyph.Render(cmd.Text, cmd.Font)
	at := image.Pt(cmd.X, cmd.Y)

	return d.run("write", func(p proto.Panel) error {
		d.logger.With(
			zap.Int("x", at.X),
			zap.Int("y", at.Y),
			zap.Stringer("font", cmd.Font),
			zap.Int("glyphs", len(glyphs)),
		).Debug("drawing")

		if err := p.Draw(glyphs, at); err != nil {
			return BusError(err)
		}
		return nil
	})
}

// Clear blanks the buffer and flushes it, as one step.
func (d *Dispatcher) Clear() error {
	return d.run("clear", func(p proto.Panel) error {
		if err := p.Clear(); err != nil {
			return BusError(err)
		}
		if err := p.Flush(); err != nil {
			return d.busFault("clear", err)
		}
		return nil
	})
}

func (d *Dispatcher) Flush() error {
	return d.run("flush", func(p proto.Panel) error {
		if err := p.Flush(); err != nil {
			return d.busFault("flush", err)
		}
		return nil
	})
}

// Fault returns the error that disabled the dispatcher, or nil while it
// still accepts commands.
func (d *Dispatcher) Fault() error {
	d.fmu.Lock()
	defer d.fmu.Unlock()
	return d.fault
}

func (d *Dispatcher) run(op string, fn func(p proto.Panel) error) error {
	if err := d.Fault(); err != nil {
		return err
	}

	if !d.admit() {
		d.logger.With(zap.String("op", op)).Warn("rejected, queue full")
		return ErrBusy
	}
	defer d.pending.Add(-1)

	return d.res.Exclusive(func(p proto.Panel) error {
		// an earlier holder may have faulted while this one waited
		if err := d.Fault(); err != nil {
			return err
		}
		return fn(p)
	})
}

func (d *Dispatcher) admit() bool {
	n := d.pending.Add(1)
	if d.maxPending > 0 && n > d.maxPending {
		d.pending.Add(-1)
		return false
	}
	return true
}

func (d *Dispatcher) busFault(op string, cause error) error {
	err := BusError(cause)
	d.logger.With(
		zap.String("op", op),
		zap.Stringer("policy", d.policy),
		zap.Error(cause),
	).Error("bus fault")

	switch d.policy {
	case FaultExit:
		// shutdown is asynchronous, refuse everything until the process is gone
		d.disable(cause)
		d.onFatal(err)
	case FaultDegrade:
		d.disable(cause)
	}

	return err
}

func (d *Dispatcher) disable(cause error) {
	d.fmu.Lock()
	d.fault = &Error{Kind: KindUnavailable, Err: cause}
	d.fmu.Unlock()
}
