package main

import (
	"context"
	"log"
	"net/http"

	"github.com/spf13/afero"
	flag "github.com/spf13/pflag"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"oledscreen/internal/config"
	"oledscreen/internal/logging"
	"oledscreen/pkg/device/remote"
	"oledscreen/pkg/device/ssd1306"
	"oledscreen/pkg/device/virtual"
	"oledscreen/pkg/proto"
	"oledscreen/pkg/screen"
)

var configPath = flag.String("config", "", "toml config file")

func main() {
	defaults := config.Default()
	defaults.Flags(flag.CommandLine)
	flag.Parse()

	cfg, err := config.Load(afero.NewOsFs(), *configPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := cfg.ApplyFlags(flag.CommandLine); err != nil {
		log.Fatal(err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	fx.New(
		fx.Supply(cfg),
		fx.Provide(
			func(cfg *config.Config) (*zap.Logger, error) {
				return logging.New(cfg.Debug)
			},
			func(cfg *config.Config) *http.Server {
				return &http.Server{Addr: cfg.Listen}
			},
			newPanel,
			newResource,
			newDispatcher,
		),
		fx.WithLogger(func(l *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: l.Named("fx")}
		}),
		fx.Invoke(
			remote.Proxy,
		),
	).Run()
}

func newPanel(cfg *config.Config, logger *zap.Logger) proto.Panel {
	if cfg.Driver == config.DriverVirtual {
		return virtual.Mock(logger.Named("virtual"))
	}
	return ssd1306.New(proto.NewBus(cfg.Bus), logger.Named("ssd1306"))
}

func newResource(panel proto.Panel, logger *zap.Logger, lifecycle fx.Lifecycle) (*screen.Resource, error) {
	logger.Info("initializing the display")
	res, err := screen.Open(panel)
	if err != nil {
		logger.With(zap.Error(err)).Error("problem initializing the display")
		return nil, err
	}

	lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			logger.Info("closing the display")
			return res.Close()
		},
	})

	return res, nil
}

func newDispatcher(res *screen.Resource, cfg *config.Config, logger *zap.Logger, shutdowner fx.Shutdowner) (*screen.Dispatcher, error) {
	opts, err := cfg.Options()
	if err != nil {
		return nil, err
	}

	opts = append(opts, screen.WithFatalHandler(func(err error) {
		logger.With(zap.Error(err)).Error("display lost, shutting down")
		if err := shutdowner.Shutdown(fx.ExitCode(1)); err != nil {
			logger.With(zap.Error(err)).Fatal("shutdown failed")
		}
	}))

	return screen.NewDispatcher(res, logger.Named("dispatcher"), opts...), nil
}
