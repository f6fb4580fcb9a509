// Package weatherserver implements the weather tools served over MCP:
// get_alerts (active alerts for a US state) and get_forecast (forecast for a
// latitude/longitude pair), both backed by the National Weather Service API.
package weatherserver

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/germanamz/weatherctl/pkg/toolbox"
)

const (
	defaultBaseURL  = "https://api.weather.gov"
	defaultTimeout  = 30 * time.Second
	userAgent       = "weatherctl/0.1 (github.com/germanamz/weatherctl)"
	forecastPeriods = 5
)

// Server fetches weather data from the NWS API and shapes it into tool
// results. Failures to reach or decode the upstream API are reported as
// displayable strings, not errors: "no weather data" is a normal outcome.
type Server struct {
	client  *http.Client
	baseURL string
}

// Option configures a Server.
type Option func(*Server)

// WithHTTPClient replaces the HTTP client used for NWS requests.
func WithHTTPClient(c *http.Client) Option {
	return func(s *Server) { s.client = c }
}

// WithBaseURL replaces the NWS API base URL. Used by tests to point at a
// stub server.
func WithBaseURL(u string) Option {
	return func(s *Server) { s.baseURL = strings.TrimRight(u, "/") }
}

// New creates a Server with a 30-second request timeout against the public
// NWS API.
func New(opts ...Option) *Server {
	s := &Server{
		client:  &http.Client{Timeout: defaultTimeout},
		baseURL: defaultBaseURL,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Tools returns the weather tool descriptors bound to this Server.
func (s *Server) Tools() []toolbox.Tool {
	return []toolbox.Tool{
		{
			Name:        "get_alerts",
			Description: "Get active weather alerts for a US state.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"state": {"type": "string", "description": "Two-letter US state code (e.g. CA, NY)"}
				},
				"required": ["state"]
			}`),
			Handler: s.getAlerts,
		},
		{
			Name:        "get_forecast",
			Description: "Get the weather forecast for a location.",
			InputSchema: json.RawMessage(`{
				"type": "object",
				"properties": {
					"latitude": {"type": "number", "description": "Latitude of the location"},
					"longitude": {"type": "number", "description": "Longitude of the location"}
				},
				"required": ["latitude", "longitude"]
			}`),
			Handler: s.getForecast,
		},
	}
}

type alertsInput struct {
	State string `json:"state"`
}

func (s *Server) getAlerts(ctx context.Context, input json.RawMessage) (string, error) {
	var in alertsInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", fmt.Errorf("weatherserver: get_alerts arguments: %w", err)
	}

	state := strings.ToUpper(strings.TrimSpace(in.State))
	if state == "" {
		return "", fmt.Errorf("weatherserver: get_alerts: state is required")
	}

	var alerts alertsResponse
	if err := s.fetchJSON(ctx, fmt.Sprintf("%s/alerts/active/area/%s", s.baseURL, state), &alerts); err != nil {
		return "Unable to fetch alerts or no alerts found.", nil
	}

	if len(alerts.Features) == 0 {
		return "No active alerts for this state.", nil
	}

	formatted := make([]string, 0, len(alerts.Features))
	for _, feature := range alerts.Features {
		formatted = append(formatted, formatAlert(feature.Properties))
	}

	return strings.Join(formatted, "\n---\n"), nil
}

type forecastInput struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

func (s *Server) getForecast(ctx context.Context, input json.RawMessage) (string, error) {
	var in forecastInput
	if err := json.Unmarshal(input, &in); err != nil {
		return "", fmt.Errorf("weatherserver: get_forecast arguments: %w", err)
	}

	// The points endpoint maps a coordinate to its forecast grid; the
	// forecast itself lives at the URL the response points to.
	var points pointsResponse
	pointsURL := fmt.Sprintf("%s/points/%.4f,%.4f", s.baseURL, in.Latitude, in.Longitude)
	if err := s.fetchJSON(ctx, pointsURL, &points); err != nil {
		return "Unable to fetch forecast data for this location.", nil
	}

	if points.Properties.Forecast == "" {
		return "Unable to fetch forecast data for this location.", nil
	}

	var forecast forecastResponse
	if err := s.fetchJSON(ctx, points.Properties.Forecast, &forecast); err != nil {
		return "Unable to fetch detailed forecast.", nil
	}

	periods := forecast.Properties.Periods
	if len(periods) > forecastPeriods {
		periods = periods[:forecastPeriods]
	}

	if len(periods) == 0 {
		return "Unable to fetch detailed forecast.", nil
	}

	formatted := make([]string, 0, len(periods))
	for _, period := range periods {
		formatted = append(formatted, formatPeriod(period))
	}

	return strings.Join(formatted, "\n---\n"), nil
}

// fetchJSON performs a GET against the NWS API and decodes the geo+json body
// into out.
func (s *Server) fetchJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("weatherserver: build request: %w", err)
	}

	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/geo+json")

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("weatherserver: fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("weatherserver: fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("weatherserver: decode %s: %w", url, err)
	}

	return nil
}
