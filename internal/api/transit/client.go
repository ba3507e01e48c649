package transit

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/ptkelly/buswatch/internal/config"
)

// Client fetches arrival predictions for the configured stop.
type Client struct {
	httpClient *http.Client
	cfg        *config.Config
}

// NewClient creates a transit API client from the loaded config.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout()},
		cfg:        cfg,
	}
}

// ArrivalsURL builds the request URL: the arrivals endpoint template
// with the stop id substituted, plus the route include directive and
// the result cap.
func (c *Client) ArrivalsURL() string {
	endpoint := strings.ReplaceAll(c.cfg.TransportProvider.Endpoints.Arrivals, "{stop_id}", c.cfg.BusStop.ID)
	return fmt.Sprintf("%s%s&include=route&page[limit]=%d",
		c.cfg.TransportProvider.BaseURL, endpoint, c.cfg.RequestSettings.MaxArrivals)
}

// GetArrivals fetches the arrivals document for the configured stop.
func (c *Client) GetArrivals(ctx context.Context) (*Payload, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.ArrivalsURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	for k, v := range c.cfg.TransportProvider.Headers {
		req.Header.Set(k, v)
	}
	if c.cfg.TransportProvider.APIKey != "" {
		req.Header.Set("X-API-Key", c.cfg.TransportProvider.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var result Payload
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	return &result, nil
}
