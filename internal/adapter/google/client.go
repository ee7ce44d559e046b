// Package google resolves addresses with the Google Geocoding API.
package google

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/couchcryptid/health-facility-map/internal/domain"
	"github.com/couchcryptid/health-facility-map/internal/observability"
)

// DefaultBaseURL is the Google Geocoding API JSON endpoint.
const DefaultBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

const statusOK = "OK"

// Client implements domain.Geocoder using the Google Geocoding API.
type Client struct {
	apiKey     string
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a Google geocoding client. An empty baseURL uses
// DefaultBaseURL.
func NewClient(apiKey, baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		apiKey: apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// Geocode resolves a free-text address. A status other than "OK" is a
// non-match, not an error; transport, HTTP and decoding failures are errors,
// as is an "OK" response without results.
func (c *Client) Geocode(ctx context.Context, address string) (domain.GeocodingResult, error) {
	params := url.Values{
		"address": {address},
		"key":     {c.apiKey},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if c.metrics != nil {
		c.metrics.GeocodeAPIDuration.Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("geocode request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return domain.GeocodingResult{}, fmt.Errorf("google API error: status %d: %s", resp.StatusCode, body)
	}

	var gr response
	if err := json.NewDecoder(resp.Body).Decode(&gr); err != nil {
		return domain.GeocodingResult{}, fmt.Errorf("decode response: %w", err)
	}

	if gr.Status != statusOK {
		if gr.ErrorMessage != "" {
			c.logger.Debug("google geocoding declined", "status", gr.Status, "message", gr.ErrorMessage)
		}
		status := gr.Status
		if status == "" {
			status = "ZERO_RESULTS"
		}
		return domain.GeocodingResult{Status: status}, nil
	}
	if len(gr.Results) == 0 {
		return domain.GeocodingResult{}, errors.New("google API returned OK with no results")
	}

	r := gr.Results[0]
	return domain.GeocodingResult{
		Lat:              r.Geometry.Location.Lat,
		Lon:              r.Geometry.Location.Lng,
		FormattedAddress: r.FormattedAddress,
		Status:           gr.Status,
		Matched:          true,
	}, nil
}

// Google Geocoding API response types.

type response struct {
	Status       string   `json:"status"`
	ErrorMessage string   `json:"error_message,omitempty"`
	Results      []result `json:"results"`
}

type result struct {
	FormattedAddress string   `json:"formatted_address"`
	Geometry         geometry `json:"geometry"`
}

type geometry struct {
	Location     location `json:"location"`
	LocationType string   `json:"location_type,omitempty"`
}

type location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
