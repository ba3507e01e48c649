package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/ptkelly/buswatch/internal/config"
	"github.com/ptkelly/buswatch/internal/monitor"
	"github.com/ptkelly/buswatch/internal/notify"
	"github.com/ptkelly/buswatch/internal/render"
)

var CLI struct {
	Config  string `help:"Path to config file" default:"config.yaml" type:"path"`
	Display string `help:"Override the configured display mode" enum:",console,window" default:""`
	Once    bool   `help:"Run a single fetch-and-render cycle and exit"`
	Debug   bool   `help:"Enable debug logging"`
}

func main() {
	kong.Parse(&CLI)

	// Setup structured logging with logfmt
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetLevel(logrus.InfoLevel)
	if CLI.Debug {
		logger.SetLevel(logrus.DebugLevel)
	}
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	// Optional .env for TRANSIT_API_KEY and pushover credentials
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded environment from .env")
	}

	// The config is re-read every tick, but the initial load must
	// succeed: display mode and poll cadence come from it.
	cfg, err := config.Load(CLI.Config)
	if err != nil {
		logger.WithField("error", err).Fatal("failed to load config")
	}

	if CLI.Display != "" {
		cfg.Display.Mode = CLI.Display
	}

	var renderer render.Renderer
	if cfg.Display.Mode == config.ModeWindow {
		renderer = render.NewWindow("buswatch", cfg.BusStop.Name, logger)
	} else {
		renderer = render.NewConsole()
	}

	var notifier *notify.Notifier
	if len(cfg.Alerts) > 0 {
		token := os.Getenv("PUSHOVER_TOKEN")
		user := os.Getenv("PUSHOVER_USER")
		if token != "" && user != "" {
			notifier = notify.NewNotifier(token, user, logger)
		} else {
			logger.Warn("alerts configured but PUSHOVER_TOKEN and PUSHOVER_USER are not set")
		}
	}

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.WithField("signal", sig).Info("received signal, shutting down")
		cancel()
	}()

	interval := cfg.PollInterval()
	mon := monitor.New(CLI.Config, interval, renderer, notifier, CLI.Once, logger)

	logger.WithFields(logrus.Fields{
		"stop":     cfg.BusStop.Name,
		"display":  cfg.Display.Mode,
		"interval": interval.String(),
	}).Info("starting buswatch")

	if err := run(ctx, mon, renderer, logger); err != nil {
		logger.WithField("error", err).Error("unexpected error")
		fmt.Println("An error occurred while running the monitoring system")
		os.Exit(1)
	}

	logger.Info("buswatch stopped")
}

// run contains the outermost failure boundary: the renderer is torn
// down exactly once however the loop ends, and a panic surfaces as an
// error instead of a bare crash.
func run(ctx context.Context, mon *monitor.Monitor, renderer render.Renderer, logger *logrus.Logger) (err error) {
	defer func() {
		if cerr := renderer.Close(); cerr != nil {
			logger.WithField("error", cerr).Error("failed to close display")
		}
		if r := recover(); r != nil {
			err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()
	return mon.Run(ctx)
}
