package arrivals

import "fmt"

// Tier classifies a countdown for display urgency.
type Tier int

const (
	TierUnknown Tier = iota
	TierNormal
	TierWarning
	TierUrgent
)

// Route category codes used by the provider.
var routeTypeLabels = map[int]string{
	0: "Light Rail",
	1: "Heavy Rail",
	2: "Commuter Rail",
	3: "Bus",
	4: "Ferry",
}

// RouteTypeLabel maps a numeric route category to a display label.
// Unknown codes get a generic label rather than an error.
func RouteTypeLabel(code int) string {
	if label, ok := routeTypeLabels[code]; ok {
		return label
	}
	return "Transit"
}

// Countdown renders minutes-to-arrival as a phrase plus an urgency
// tier. A nil value means the timestamp was missing or unparsable.
func Countdown(minutes *int) (string, Tier) {
	if minutes == nil {
		return "Unknown", TierUnknown
	}
	switch m := *minutes; {
	case m == 0:
		return "Arriving now!", TierUrgent
	case m == 1:
		return "1 minute", TierWarning
	case m <= 5:
		return fmt.Sprintf("%d minutes", m), TierWarning
	default:
		return fmt.Sprintf("%d minutes", m), TierNormal
	}
}
