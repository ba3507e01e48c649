package render

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/veandco/go-sdl2/gfx"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/ptkelly/buswatch/internal/arrivals"
)

const (
	windowWidth  = 640
	windowHeight = 400
	textScale    = 2 // gfx bitmap font is 8x8, doubled for readability

	maxVisibleRows = 8
	frameDelayMS   = 1000 / 60

	colRouteX     = 8
	colArrivalX   = 120
	colCountdownX = 216
	rowHeight     = 14
	rowStartY     = 80
)

type rgb struct{ r, g, b uint8 }

var tierColors = map[arrivals.Tier]rgb{
	arrivals.TierNormal:  {64, 200, 96},
	arrivals.TierWarning: {235, 170, 40},
	arrivals.TierUrgent:  {230, 60, 60},
	arrivals.TierUnknown: {150, 150, 150},
}

// Window renders arrivals into an SDL window. The window and renderer
// are created lazily on the first Present and reused until Close.
type Window struct {
	title    string
	stopName string
	logger   *logrus.Logger
	now      func() time.Time

	window   *sdl.Window
	renderer *sdl.Renderer
}

func NewWindow(title, stopName string, logger *logrus.Logger) *Window {
	return &Window{
		title:    title,
		stopName: stopName,
		logger:   logger,
		now:      time.Now,
	}
}

func (w *Window) init() error {
	if err := sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("initializing SDL: %w", err)
	}

	window, err := sdl.CreateWindow(w.title,
		sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		windowWidth, windowHeight, sdl.WINDOW_SHOWN)
	if err != nil {
		sdl.Quit()
		return fmt.Errorf("creating window: %w", err)
	}

	renderer, err := sdl.CreateRenderer(window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		window.Destroy()
		sdl.Quit()
		return fmt.Errorf("creating renderer: %w", err)
	}
	if err := renderer.SetScale(textScale, textScale); err != nil {
		w.logger.WithError(err).Warn("could not scale renderer output")
	}

	w.window = window
	w.renderer = renderer
	return nil
}

// Present drains the input queue and redraws the frame. It reports
// stop=true on a window-close or escape key event, skipping the draw
// for that tick.
func (w *Window) Present(records []arrivals.Arrival) bool {
	if w.window == nil {
		if err := w.init(); err != nil {
			w.logger.WithError(err).Error("failed to open display window")
			return true
		}
	}

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			return true
		case *sdl.KeyboardEvent:
			if e.Type == sdl.KEYDOWN && e.Keysym.Sym == sdl.K_ESCAPE {
				return true
			}
		}
	}

	w.renderer.SetDrawColor(14, 16, 26, 255)
	w.renderer.Clear()

	w.drawText(colRouteX, 12, "Live Arrivals", rgb{255, 255, 255})
	w.drawText(colRouteX, 26, w.stopName, rgb{200, 200, 220})
	w.drawText(colRouteX, 40, w.now().Format("03:04:05 PM"), rgb{200, 200, 220})

	if len(records) == 0 {
		w.drawText(colRouteX, rowStartY, "No arrival information available", rgb{150, 150, 150})
	} else {
		w.drawText(colRouteX, 62, "Route", rgb{120, 160, 255})
		w.drawText(colArrivalX, 62, "Arrival", rgb{120, 160, 255})
		w.drawText(colCountdownX, 62, "Countdown", rgb{120, 160, 255})

		for i, rec := range visibleRows(records) {
			y := int32(rowStartY + i*rowHeight)
			phrase, tier := arrivals.Countdown(rec.MinutesToArrival)
			w.drawText(colRouteX, y, rec.RouteShortName, rgb{255, 255, 255})
			w.drawText(colArrivalX, y, rec.FormattedTime, rgb{220, 220, 220})
			w.drawText(colCountdownX, y, phrase, tierColors[tier])
		}
	}

	w.renderer.Present()
	sdl.Delay(frameDelayMS)

	return false
}

// visibleRows caps the record list to what fits in the window; the
// records are already sorted soonest-first, so the cap keeps the next
// arrivals.
func visibleRows(records []arrivals.Arrival) []arrivals.Arrival {
	if len(records) > maxVisibleRows {
		return records[:maxVisibleRows]
	}
	return records
}

func (w *Window) drawText(x, y int32, s string, c rgb) {
	gfx.StringRGBA(w.renderer, x, y, s, c.r, c.g, c.b, 255)
}

// Close tears down the renderer, window, and SDL itself. Safe to call
// when the window was never opened, and idempotent.
func (w *Window) Close() error {
	if w.renderer != nil {
		w.renderer.Destroy()
		w.renderer = nil
	}
	if w.window != nil {
		w.window.Destroy()
		w.window = nil
		sdl.Quit()
	}
	return nil
}
