package monitor

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ptkelly/buswatch/internal/api/transit"
	"github.com/ptkelly/buswatch/internal/arrivals"
	"github.com/ptkelly/buswatch/internal/config"
	"github.com/ptkelly/buswatch/internal/notify"
	"github.com/ptkelly/buswatch/internal/render"
)

// alertSender is the slice of notify.Notifier the monitor needs.
type alertSender interface {
	SendArrivalAlert(route, stop string, minutes int, formattedTime string) error
}

// Monitor drives the fetch-normalize-render cycle. Each tick re-reads
// the config, fetches the arrivals document, flattens it, and hands the
// records to the renderer. Any per-tick failure degrades to an empty
// record list; the loop keeps polling.
type Monitor struct {
	configPath string
	interval   time.Duration
	renderer   render.Renderer
	notifier   alertSender
	once       bool
	logger     *logrus.Logger

	// route|timestamp pairs already alerted on
	alerted map[string]bool

	loadConfig func(string) (*config.Config, error)
	fetch      func(context.Context, *config.Config) (*transit.Payload, error)
	now        func() time.Time
}

func New(configPath string, interval time.Duration, renderer render.Renderer,
	notifier *notify.Notifier, once bool, logger *logrus.Logger) *Monitor {
	m := &Monitor{
		configPath: configPath,
		interval:   interval,
		renderer:   renderer,
		once:       once,
		logger:     logger,
		alerted:    make(map[string]bool),
		loadConfig: config.Load,
		fetch:      fetchArrivals,
		now:        time.Now,
	}
	if notifier != nil {
		m.notifier = notifier
	}
	return m
}

func fetchArrivals(ctx context.Context, cfg *config.Config) (*transit.Payload, error) {
	return transit.NewClient(cfg).GetArrivals(ctx)
}

// Run polls until the context is cancelled or the renderer reports a
// stop request. It does not own renderer teardown; the caller closes
// the renderer once Run returns.
func (m *Monitor) Run(ctx context.Context) error {
	for {
		cfg, records := m.tick(ctx)
		if cfg != nil {
			m.checkAlerts(cfg, records)
		}

		if stop := m.renderer.Present(records); stop {
			m.logger.Info("stop requested by display")
			return nil
		}
		if m.once {
			return nil
		}

		select {
		case <-ctx.Done():
			m.logger.Info("monitoring stopped: context cancelled")
			return nil
		case <-time.After(m.sleepInterval(cfg)):
		}
	}
}

// sleepInterval prefers the freshly loaded config so a poll_interval
// edit takes effect on the next tick; the constructed interval is the
// fallback for ticks where the config could not be read.
func (m *Monitor) sleepInterval(cfg *config.Config) time.Duration {
	if cfg != nil {
		return cfg.PollInterval()
	}
	return m.interval
}

// tick performs one fetch-and-normalize cycle. On any upstream failure
// it logs and returns an empty record list so the renderer still
// refreshes.
func (m *Monitor) tick(ctx context.Context) (*config.Config, []arrivals.Arrival) {
	cfg, err := m.loadConfig(m.configPath)
	if err != nil {
		m.logger.WithError(err).Error("configuration not available")
		return nil, nil
	}

	payload, err := m.fetch(ctx, cfg)
	if err != nil {
		m.logger.WithError(err).Error("failed to fetch arrival data")
		return cfg, nil
	}

	loc, err := cfg.Location()
	if err != nil {
		m.logger.WithError(err).Warn("falling back to local timezone")
		loc = time.Local
	}

	normalizer := &arrivals.Normalizer{
		StopName: cfg.BusStop.Name,
		Location: loc,
		Now:      m.now,
		Logger:   m.logger,
	}
	return cfg, normalizer.Normalize(payload)
}

// checkAlerts sends at most one notification per route and predicted
// timestamp once a watched route's countdown reaches its threshold.
func (m *Monitor) checkAlerts(cfg *config.Config, records []arrivals.Arrival) {
	if m.notifier == nil || len(cfg.Alerts) == 0 {
		return
	}

	for _, rec := range records {
		if rec.MinutesToArrival == nil {
			continue
		}
		for _, alert := range cfg.Alerts {
			if alert.Route != rec.RouteShortName || *rec.MinutesToArrival > alert.ThresholdMinutes {
				continue
			}

			key := rec.RouteShortName + "|" + rec.PredictedTime
			if m.alerted[key] {
				continue
			}
			m.alerted[key] = true

			if err := m.notifier.SendArrivalAlert(rec.RouteShortName, rec.StopName,
				*rec.MinutesToArrival, rec.FormattedTime); err != nil {
				m.logger.WithFields(logrus.Fields{
					"route": rec.RouteShortName,
					"error": err,
				}).Error("failed to send arrival alert")
			}
		}
	}
}
