package render

import "github.com/ptkelly/buswatch/internal/arrivals"

// Renderer presents one cycle's arrival records. Present reports
// whether the user asked to stop monitoring (only the windowed
// implementation ever does). Close releases any display resources and
// must be safe to call once after the loop ends, on error paths too.
type Renderer interface {
	Present(records []arrivals.Arrival) (stop bool)
	Close() error
}
