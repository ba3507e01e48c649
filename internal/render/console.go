package render

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rodaine/table"

	"github.com/ptkelly/buswatch/internal/arrivals"
)

const clearSequence = "\033[2J\033[H"

var routeGlyphs = map[string]string{
	"Light Rail":    "\U0001F688",
	"Heavy Rail":    "\U0001F683",
	"Commuter Rail": "\U0001F68B",
	"Bus":           "\U0001F68C",
	"Ferry":         "⛴️",
}

// Console renders arrivals as a full-screen text refresh. It has no
// persistent state and never requests a stop.
type Console struct {
	out io.Writer
	now func() time.Time
}

func NewConsole() *Console {
	return &Console{
		out: os.Stdout,
		now: time.Now,
	}
}

func (c *Console) Present(records []arrivals.Arrival) bool {
	fmt.Fprint(c.out, clearSequence)

	currentTime := c.now().Format("03:04:05 PM")

	if len(records) == 0 {
		fmt.Fprintln(c.out, "No arrival information available")
		fmt.Fprintf(c.out, "Last Updated: %s\n", currentTime)
		return false
	}

	fmt.Fprintf(c.out, "Live Arrivals for %s\n", records[0].StopName)
	fmt.Fprintf(c.out, "Updated: %s\n\n", currentTime)

	tbl := table.New("Route", "Arrival", "Countdown").WithWriter(c.out)
	for _, rec := range records {
		phrase, _ := arrivals.Countdown(rec.MinutesToArrival)
		tbl.AddRow(routeLabel(rec), rec.FormattedTime, phrase)
	}
	tbl.Print()

	return false
}

func (c *Console) Close() error {
	return nil
}

func routeLabel(rec arrivals.Arrival) string {
	if glyph, ok := routeGlyphs[rec.RouteType]; ok {
		return fmt.Sprintf("%s %s", glyph, rec.RouteShortName)
	}
	return fmt.Sprintf("%s %s", rec.RouteType, rec.RouteShortName)
}
