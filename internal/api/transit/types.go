package transit

// Payload is a JSON:API-style arrivals document: predictions under
// "data", side-loaded route metadata under "included".
type Payload struct {
	Data     []Prediction `json:"data"`
	Included []Included   `json:"included"`
}

// Prediction is a single forecasted arrival/departure at the stop.
type Prediction struct {
	Type          string               `json:"type"`
	ID            string               `json:"id"`
	Attributes    PredictionAttributes `json:"attributes"`
	Relationships Relationships        `json:"relationships"`
}

type PredictionAttributes struct {
	ArrivalTime   string `json:"arrival_time"`
	DepartureTime string `json:"departure_time"`
	DirectionID   *int   `json:"direction_id"`
	Status        string `json:"status"`
}

type Relationships struct {
	Route Relationship `json:"route"`
}

type Relationship struct {
	Data *RelationshipData `json:"data"`
}

type RelationshipData struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// Included is a side-loaded related entity. Only items with type
// "route" are consumed here.
type Included struct {
	Type       string             `json:"type"`
	ID         string             `json:"id"`
	Attributes IncludedAttributes `json:"attributes"`
}

type IncludedAttributes struct {
	ShortName string `json:"short_name"`
	LongName  string `json:"long_name"`
	// Type is the numeric route category: 0 light rail, 1 heavy rail,
	// 2 commuter rail, 3 bus, 4 ferry.
	Type int `json:"type"`
}
