package proto

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/samber/lo"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

const devPrefix = "/dev/i2c-"

func NewBus(name string) *Bus {
	return &Bus{name: strings.TrimPrefix(name, devPrefix)}
}

// Bus opens a two-wire bus from the host registry by name, number or
// device path.
type Bus struct {
	name string
	bus  i2c.BusCloser
}

func (b *Bus) Buses() ([]string, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "host init")
	}

	return lo.Map(i2creg.All(), func(ref *i2creg.Ref, _ int) string {
		return ref.Name
	}), nil
}

func (b *Bus) Open() (i2c.Bus, error) {
	if _, err := host.Init(); err != nil {
		return nil, errors.Wrap(err, "host init")
	}

	matched := b.name
	if matched != "" {
		ref, ok := lo.Find(i2creg.All(), func(ref *i2creg.Ref) bool {
			return ref.Name == b.name ||
				strconv.Itoa(ref.Number) == b.name ||
				lo.Contains(ref.Aliases, b.name)
		})
		if !ok {
			return nil, errors.Errorf("i2c bus %q not found", b.name)
		}
		matched = ref.Name
	}

	bus, err := i2creg.Open(matched)
	if err != nil {
		return nil, errors.Wrapf(err, "open i2c bus %q", matched)
	}

	b.bus = bus
	return bus, nil
}

func (b *Bus) Close() error {
	if b.bus == nil {
		return nil
	}
	return b.bus.Close()
}

func (b *Bus) String() string {
	if b.name == "" {
		return "i2c(default)"
	}
	return devPrefix + b.name
}
