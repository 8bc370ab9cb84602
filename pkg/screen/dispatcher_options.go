package screen

import (
	"github.com/pkg/errors"
)

// FaultPolicy decides what happens after the panel fails to flush.
type FaultPolicy int

const (
	// FaultExit hands the fault to the fatal handler, which ends the process.
	FaultExit FaultPolicy = iota
	// FaultDegrade refuses every later command as unavailable.
	FaultDegrade
	// FaultReport only returns the bus error to the caller.
	FaultReport
)

var policyNames = map[string]FaultPolicy{
	"exit":    FaultExit,
	"degrade": FaultDegrade,
	"report":  FaultReport,
}

func ParseFaultPolicy(name string) (FaultPolicy, error) {
	p, ok := policyNames[name]
	if !ok {
		return 0, errors.Errorf("unknown bus fault policy %q", name)
	}
	return p, nil
}

func (p FaultPolicy) String() string {
	for name, v := range policyNames {
		if v == p {
			return name
		}
	}
	return "unknown"
}

type Option func(d *Dispatcher)

func WithFaultPolicy(p FaultPolicy) Option {
	return func(d *Dispatcher) {
		d.policy = p
	}
}

// WithFatalHandler replaces the handler FaultExit calls. The default logs
// at fatal level, which exits the process.
func WithFatalHandler(fn func(err error)) Option {
	return func(d *Dispatcher) {
		d.onFatal = fn
	}
}

// WithMaxPending bounds the commands admitted at once, running or waiting
// for the gate. Zero or less means no bound.
func WithMaxPending(n int) Option {
	return func(d *Dispatcher) {
		d.maxPending = int32(n)
	}
}
