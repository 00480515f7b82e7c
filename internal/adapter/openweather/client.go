package openweather

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/weather-ingest-service/internal/config"
	"github.com/couchcryptid/weather-ingest-service/internal/domain"
	"github.com/couchcryptid/weather-ingest-service/internal/observability"
)

const (
	geocodePath = "/geo/1.0/zip"
	weatherPath = "/data/2.5/weather"
)

// Client calls the OpenWeatherMap geocoding and current-weather endpoints.
// Every call hits the network; there is no response caching.
type Client struct {
	apiKey     string
	units      string
	baseURL    string
	httpClient *http.Client
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates an OpenWeatherMap client with the configured timeout.
func NewClient(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		apiKey: cfg.APIKey,
		units:  cfg.Units,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
		baseURL: cfg.BaseURL,
		metrics: metrics,
		logger:  logger,
	}
}

// ResolveZip converts a postal/zip code to coordinates via geo/1.0/zip.
// Transport failures, non-2xx responses, and responses without coordinates
// all wrap domain.ErrLookupFailed.
func (c *Client) ResolveZip(ctx context.Context, zip string) (lat, lon float64, err error) {
	params := url.Values{
		"zip":   {zip},
		"appid": {c.apiKey},
	}

	body, err := c.doGet(ctx, c.baseURL+geocodePath+"?"+params.Encode(), "geocode")
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %v", domain.ErrLookupFailed, err)
	}

	// Pointers distinguish absent coordinates from a legitimate 0.0.
	var resp struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return 0, 0, fmt.Errorf("%w: decode response: %v", domain.ErrLookupFailed, err)
	}
	if resp.Lat == nil || resp.Lon == nil {
		return 0, 0, fmt.Errorf("%w: response missing lat/lon for zip %q", domain.ErrLookupFailed, zip)
	}

	c.logger.Debug("zip resolved", "zip", zip, "lat", *resp.Lat, "lon", *resp.Lon)
	return *resp.Lat, *resp.Lon, nil
}

// FetchCurrent retrieves the current observation for the coordinates via
// data/2.5/weather. Failures wrap domain.ErrFetchFailed.
func (c *Client) FetchCurrent(ctx context.Context, lat, lon float64) (domain.CurrentConditions, error) {
	params := url.Values{
		"lat":   {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":   {strconv.FormatFloat(lon, 'f', -1, 64)},
		"units": {c.units},
		"appid": {c.apiKey},
	}

	body, err := c.doGet(ctx, c.baseURL+weatherPath+"?"+params.Encode(), "weather")
	if err != nil {
		return domain.CurrentConditions{}, fmt.Errorf("%w: %v", domain.ErrFetchFailed, err)
	}

	var cond domain.CurrentConditions
	if err := json.Unmarshal(body, &cond); err != nil {
		return domain.CurrentConditions{}, fmt.Errorf("%w: decode response: %v", domain.ErrFetchFailed, err)
	}

	c.logger.Debug("current conditions fetched", "location_id", cond.ID, "location", cond.Name)
	return cond, nil
}

// doGet executes the request, enforcing the 2xx contract, and records
// request metrics per endpoint.
func (c *Client) doGet(ctx context.Context, fullURL, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.APIDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("%s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		c.metrics.APIRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("read %s response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.metrics.APIRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("openweathermap API error: status %d: %s", resp.StatusCode, body)
	}

	c.metrics.APIRequests.WithLabelValues(endpoint, "success").Inc()
	return body, nil
}
