package transit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ptkelly/buswatch/internal/config"
)

func testConfig(baseURL string) *config.Config {
	return &config.Config{
		TransportProvider: config.TransportProvider{
			BaseURL:   baseURL,
			Endpoints: config.Endpoints{Arrivals: "/predictions?filter[stop]={stop_id}"},
			APIKey:    "secret-key",
			Headers:   map[string]string{"Accept": "application/vnd.api+json"},
		},
		BusStop:         config.BusStop{ID: "place-davis", Name: "Davis"},
		RequestSettings: config.RequestSettings{Timeout: 5, MaxArrivals: 10},
	}
}

func TestArrivalsURL(t *testing.T) {
	c := NewClient(testConfig("https://api.example.com"))
	assert.Equal(t,
		"https://api.example.com/predictions?filter[stop]=place-davis&include=route&page[limit]=10",
		c.ArrivalsURL())
}

func TestGetArrivals(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "place-davis", r.URL.Query().Get("filter[stop]"))
		assert.Equal(t, "route", r.URL.Query().Get("include"))
		assert.Equal(t, "10", r.URL.Query().Get("page[limit]"))
		assert.Equal(t, "secret-key", r.Header.Get("X-API-Key"))
		assert.Equal(t, "application/vnd.api+json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/vnd.api+json")
		w.Write([]byte(`{
			"data": [{
				"type": "prediction",
				"id": "p1",
				"attributes": {
					"arrival_time": "2024-01-01T10:05:00Z",
					"direction_id": 1,
					"status": "Scheduled"
				},
				"relationships": {"route": {"data": {"type": "route", "id": "R1"}}}
			}],
			"included": [{
				"type": "route",
				"id": "R1",
				"attributes": {"short_name": "66", "long_name": "Harvard - Dudley", "type": 3}
			}]
		}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	payload, err := NewClient(cfg).GetArrivals(context.Background())
	require.NoError(t, err)

	require.Len(t, payload.Data, 1)
	assert.Equal(t, "2024-01-01T10:05:00Z", payload.Data[0].Attributes.ArrivalTime)
	require.NotNil(t, payload.Data[0].Relationships.Route.Data)
	assert.Equal(t, "R1", payload.Data[0].Relationships.Route.Data.ID)
	require.NotNil(t, payload.Data[0].Attributes.DirectionID)
	assert.Equal(t, 1, *payload.Data[0].Attributes.DirectionID)

	require.Len(t, payload.Included, 1)
	assert.Equal(t, "66", payload.Included[0].Attributes.ShortName)

	// the configured header map is never mutated by a request
	_, hasKey := cfg.TransportProvider.Headers["X-API-Key"]
	assert.False(t, hasKey)
}

func TestGetArrivalsNoAPIKey(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present := r.Header["X-Api-Key"]
		assert.False(t, present)
		w.Write([]byte(`{"data": [], "included": []}`))
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.TransportProvider.APIKey = ""
	_, err := NewClient(cfg).GetArrivals(context.Background())
	require.NoError(t, err)
}

func TestGetArrivalsNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).GetArrivals(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected status code: 403")
}

func TestGetArrivalsMalformedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	_, err := NewClient(testConfig(srv.URL)).GetArrivals(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding response")
}
