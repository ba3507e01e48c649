package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultTimeoutSeconds = 30
	defaultMaxArrivals    = 10

	// Console refreshes once a minute; the window needs a faster cadence
	// to keep its event queue drained.
	defaultConsoleInterval = 60 * time.Second
	defaultWindowInterval  = 1 * time.Second
)

// Display modes.
const (
	ModeConsole = "console"
	ModeWindow  = "window"
)

type TransportProvider struct {
	BaseURL   string            `yaml:"base_url" validate:"required,url"`
	Endpoints Endpoints         `yaml:"endpoints"`
	APIKey    string            `yaml:"api_key"`
	Headers   map[string]string `yaml:"headers"`
}

type Endpoints struct {
	// Arrivals is a path template containing a {stop_id} placeholder,
	// e.g. "/predictions?filter[stop]={stop_id}".
	Arrivals string `yaml:"arrivals" validate:"required"`
}

type BusStop struct {
	ID   string `yaml:"id" validate:"required"`
	Name string `yaml:"name"`
}

type RequestSettings struct {
	Timeout     int `yaml:"timeout" validate:"gte=0"`
	MaxArrivals int `yaml:"max_arrivals" validate:"gte=0"`
}

type Display struct {
	Mode string `yaml:"mode" validate:"omitempty,oneof=console window"`
	// Timezone is "local" (or empty) for the system zone, or an IANA
	// zone name such as "America/New_York" to pin the display to the
	// transit provider's zone.
	Timezone     string `yaml:"timezone"`
	PollInterval int    `yaml:"poll_interval" validate:"gte=0"` // seconds
}

type Alert struct {
	Route            string `yaml:"route" validate:"required"`
	ThresholdMinutes int    `yaml:"threshold_minutes" validate:"gte=0"`
}

type Config struct {
	TransportProvider TransportProvider `yaml:"transport_provider"`
	BusStop           BusStop           `yaml:"bus_stop"`
	RequestSettings   RequestSettings   `yaml:"request_settings"`
	Display           Display           `yaml:"display"`
	Alerts            []Alert           `yaml:"alerts"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	// TRANSIT_API_KEY keeps the key out of the config file.
	if key := os.Getenv("TRANSIT_API_KEY"); key != "" {
		cfg.TransportProvider.APIKey = key
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.BusStop.Name == "" {
		c.BusStop.Name = "Unknown Stop"
	}
	if c.RequestSettings.Timeout == 0 {
		c.RequestSettings.Timeout = defaultTimeoutSeconds
	}
	if c.RequestSettings.MaxArrivals == 0 {
		c.RequestSettings.MaxArrivals = defaultMaxArrivals
	}
	if c.Display.Mode == "" {
		c.Display.Mode = ModeConsole
	}
}

func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return err
	}
	if !strings.Contains(c.TransportProvider.Endpoints.Arrivals, "{stop_id}") {
		return fmt.Errorf("transport_provider.endpoints.arrivals: missing {stop_id} placeholder")
	}
	for i, a := range c.Alerts {
		if err := v.Struct(a); err != nil {
			return fmt.Errorf("alerts[%d]: %w", i, err)
		}
	}
	return nil
}

// RequestTimeout returns the HTTP timeout for arrival fetches.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestSettings.Timeout) * time.Second
}

// PollInterval returns the sleep between fetch cycles. When not set
// explicitly it depends on the display mode.
func (c *Config) PollInterval() time.Duration {
	if c.Display.PollInterval > 0 {
		return time.Duration(c.Display.PollInterval) * time.Second
	}
	if c.Display.Mode == ModeWindow {
		return defaultWindowInterval
	}
	return defaultConsoleInterval
}

// Location resolves the display timezone. "local" or empty selects the
// system zone.
func (c *Config) Location() (*time.Location, error) {
	tz := c.Display.Timezone
	if tz == "" || strings.EqualFold(tz, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("resolving display timezone %q: %w", tz, err)
	}
	return loc, nil
}
