package arrivals

import (
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ptkelly/buswatch/internal/api/transit"
)

// Route sentinels used when a prediction's route cannot be resolved
// from the included data.
const (
	unknownRouteShortName = "Unknown"
	unknownRouteLongName  = "Unknown Route"
)

// Arrival is one display-ready arrival record. Records are rebuilt from
// scratch every fetch cycle and never persisted.
type Arrival struct {
	RouteShortName   string
	RouteLongName    string
	RouteType        string // human-readable category label
	PredictedTime    string // raw ISO-8601 timestamp
	FormattedTime    string // 12-hour clock time in the display zone
	MinutesToArrival *int   // nil when the timestamp could not be parsed
	DirectionID      *int
	Status           string
	StopName         string
}

// Normalizer converts raw arrival payloads into sorted Arrival records.
// Now and Location make the conversion a pure function of payload plus
// clock plus zone.
type Normalizer struct {
	StopName string
	Location *time.Location
	Now      func() time.Time
	Logger   *logrus.Logger
}

// Normalize flattens the payload into one record per prediction that
// carries a timestamp, resolves each prediction's route from the
// included data, and sorts ascending by raw timestamp. A malformed item
// degrades to sentinel values; it never drops the rest of the batch.
func (n *Normalizer) Normalize(payload *transit.Payload) []Arrival {
	if payload == nil {
		return nil
	}

	now := n.Now().UTC()
	loc := n.Location
	if loc == nil {
		loc = time.Local
	}

	var records []Arrival
	for _, prediction := range payload.Data {
		predicted := prediction.Attributes.ArrivalTime
		if predicted == "" {
			predicted = prediction.Attributes.DepartureTime
		}
		if predicted == "" {
			continue
		}

		route := resolveRoute(payload.Included, routeID(prediction))

		records = append(records, Arrival{
			RouteShortName:   route.ShortName,
			RouteLongName:    route.LongName,
			RouteType:        RouteTypeLabel(route.Type),
			PredictedTime:    predicted,
			FormattedTime:    n.formatTime(predicted, loc),
			MinutesToArrival: n.minutesToArrival(predicted, now),
			DirectionID:      prediction.Attributes.DirectionID,
			Status:           prediction.Attributes.Status,
			StopName:         n.StopName,
		})
	}

	// The timestamps are fixed-width zero-padded ISO-8601, so string
	// order is chronological order. Records that lost their timestamp
	// sort first via the empty string.
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].PredictedTime < records[j].PredictedTime
	})

	return records
}

func routeID(p transit.Prediction) string {
	if p.Relationships.Route.Data == nil {
		return ""
	}
	return p.Relationships.Route.Data.ID
}

func resolveRoute(included []transit.Included, id string) transit.IncludedAttributes {
	if id != "" {
		for _, item := range included {
			if item.Type == "route" && item.ID == id {
				attrs := item.Attributes
				if attrs.ShortName == "" {
					attrs.ShortName = unknownRouteShortName
				}
				if attrs.LongName == "" {
					attrs.LongName = unknownRouteLongName
				}
				return attrs
			}
		}
	}
	return transit.IncludedAttributes{
		ShortName: unknownRouteShortName,
		LongName:  unknownRouteLongName,
		Type:      0,
	}
}

// minutesToArrival returns whole minutes until the predicted time,
// floored at zero. A timestamp that fails to parse yields nil and a
// warning, never an error.
func (n *Normalizer) minutesToArrival(predicted string, now time.Time) *int {
	t, err := time.Parse(time.RFC3339, predicted)
	if err != nil {
		if n.Logger != nil {
			n.Logger.WithFields(logrus.Fields{
				"predicted_time": predicted,
				"error":          err,
			}).Warn("could not parse arrival time")
		}
		return nil
	}

	minutes := int(t.Sub(now).Minutes())
	if minutes < 0 {
		minutes = 0
	}
	return &minutes
}

// formatTime renders the predicted timestamp as a 12-hour clock time in
// the display zone, echoing the raw string when it cannot be parsed.
func (n *Normalizer) formatTime(predicted string, loc *time.Location) string {
	if predicted == "" {
		return "Unknown"
	}
	t, err := time.Parse(time.RFC3339, predicted)
	if err != nil {
		return predicted
	}
	return t.In(loc).Format("03:04 PM")
}
