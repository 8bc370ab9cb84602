package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"

	"oledscreen/pkg/screen"
)

const (
	DriverSSD1306 = "ssd1306"
	DriverVirtual = "virtual"
)

type Config struct {
	Listen     string `toml:"listen"`
	Bus        string `toml:"bus"`
	Driver     string `toml:"driver"`
	BusFault   string `toml:"bus_fault"`
	MaxPending int    `toml:"max_pending"`
	Debug      bool   `toml:"debug"`
}

func Default() *Config {
	return &Config{
		Listen:   "127.0.0.1:3031",
		Bus:      "1",
		Driver:   DriverSSD1306,
		BusFault: "exit",
	}
}

// Load returns the defaults overlaid with every key set in the TOML file
// at path. An empty path yields the defaults.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	bs, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, "config load failed (%s)", path)
	}

	var raw Config
	meta, err := toml.Decode(string(bs), &raw)
	if err != nil {
		return nil, errors.Wrapf(err, "config parse failed (%s)", path)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, errors.Errorf("config parse failed (%s): unknown key %s", path, undecoded[0])
	}

	if meta.IsDefined("listen") {
		cfg.Listen = strings.TrimSpace(raw.Listen)
	}
	if meta.IsDefined("bus") {
		cfg.Bus = strings.TrimSpace(raw.Bus)
	}
	if meta.IsDefined("driver") {
		cfg.Driver = strings.TrimSpace(raw.Driver)
	}
	if meta.IsDefined("bus_fault") {
		cfg.BusFault = strings.TrimSpace(raw.BusFault)
	}
	if meta.IsDefined("max_pending") {
		cfg.MaxPending = raw.MaxPending
	}
	if meta.IsDefined("debug") {
		cfg.Debug = raw.Debug
	}

	return cfg, nil
}

// Flags registers the command-line overrides on fs, seeded from c.
func (c *Config) Flags(fs *flag.FlagSet) {
	fs.String("listen", c.Listen, "rpc listen addr")
	fs.String("bus", c.Bus, "i2c bus name, number or device path")
	fs.String("driver", c.Driver, "panel driver: ssd1306 or virtual")
	fs.String("bus-fault", c.BusFault, "on flush failure: exit, degrade or report")
	fs.Int("max-pending", c.MaxPending, "max queued commands, 0 for no bound")
	fs.Bool("debug", c.Debug, "set debug")
}

// ApplyFlags copies the flags the user actually set onto c.
func (c *Config) ApplyFlags(fs *flag.FlagSet) error {
	var err error
	set := func(name string, fn func() error) {
		if err == nil && fs.Changed(name) {
			err = fn()
		}
	}

	set("listen", func() (e error) { c.Listen, e = fs.GetString("listen"); return })
	set("bus", func() (e error) { c.Bus, e = fs.GetString("bus"); return })
	set("driver", func() (e error) { c.Driver, e = fs.GetString("driver"); return })
	set("bus-fault", func() (e error) { c.BusFault, e = fs.GetString("bus-fault"); return })
	set("max-pending", func() (e error) { c.MaxPending, e = fs.GetInt("max-pending"); return })
	set("debug", func() (e error) { c.Debug, e = fs.GetBool("debug"); return })

	return errors.Wrap(err, "read flags")
}

func (c *Config) Validate() error {
	if c.Listen == "" {
		return errors.New("listen addr is required")
	}

	switch c.Driver {
	case DriverSSD1306, DriverVirtual:
	default:
		return errors.Errorf("unknown driver %q", c.Driver)
	}

	if _, err := screen.ParseFaultPolicy(c.BusFault); err != nil {
		return err
	}

	if c.MaxPending < 0 {
		return errors.Errorf("max_pending must not be negative: %d", c.MaxPending)
	}

	return nil
}

// Options turns the dispatcher-related settings into dispatcher options.
func (c *Config) Options() ([]screen.Option, error) {
	policy, err := screen.ParseFaultPolicy(c.BusFault)
	if err != nil {
		return nil, err
	}

	return []screen.Option{
		screen.WithFaultPolicy(policy),
		screen.WithMaxPending(c.MaxPending),
	}, nil
}
