package solcast

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/02loveslollipop/solcast-irradiance-loader/services/loader/internal/models"
)

// TimeLayout is the format the API expects for start and end.
const TimeLayout = "2006-01-02T15:04:05Z"

// DefaultWindow is the look-back span requested per coordinate.
const DefaultWindow = 14 * 24 * time.Hour

// OutputParameters lists the fields requested from the API, in request order.
var OutputParameters = []string{
	"air_temp",
	"gti",
	"precipitation_rate",
	"wind_direction_10m",
	"wind_speed_10m",
}

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %s", e.Status)
	}
	return fmt.Sprintf("unexpected status %s: %s", e.Status, e.Body)
}

// Client requests irradiance data for a single coordinate.
type Client struct {
	HTTP    *http.Client
	BaseURL string
	APIKey  string
	Window  time.Duration

	// Now is the clock used to compute request windows.
	Now func() time.Time
}

// NewClient returns a client using the default 14-day window.
func NewClient(httpClient *http.Client, baseURL, apiKey string) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		HTTP:    httpClient,
		BaseURL: baseURL,
		APIKey:  apiKey,
		Window:  DefaultWindow,
		Now:     time.Now,
	}
}

// WindowAt returns the window ending at now.
func (c *Client) WindowAt(now time.Time) models.Window {
	span := c.Window
	if span <= 0 {
		span = DefaultWindow
	}
	end := now.UTC().Truncate(time.Second)
	return models.Window{Start: end.Add(-span), End: end}
}

// BuildURL assembles the request URL for a coordinate and window.
func (c *Client) BuildURL(coord models.Coordinate, window models.Window) (string, error) {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("parse API_URL: %w", err)
	}

	q := u.Query()
	q.Set("latitude", strconv.FormatFloat(coord.Lat, 'f', -1, 64))
	q.Set("longitude", strconv.FormatFloat(coord.Lon, 'f', -1, 64))
	q.Set("start", window.Start.UTC().Format(TimeLayout))
	q.Set("end", window.End.UTC().Format(TimeLayout))
	q.Set("output_parameters", strings.Join(OutputParameters, ","))
	q.Set("format", "csv")
	q.Set("api_key", c.APIKey)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// Fetch performs one GET for the coordinate and decodes the CSV body.
func (c *Client) Fetch(ctx context.Context, coord models.Coordinate) ([]models.Observation, models.Window, error) {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	window := c.WindowAt(now())

	target, err := c.BuildURL(coord, window)
	if err != nil {
		return nil, window, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, window, err
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, window, fmt.Errorf("request irradiance %s: %w", coord, redactKey(err, c.APIKey))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, window, &StatusError{
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       strings.TrimSpace(string(snippet)),
		}
	}

	observations, err := DecodeCSV(resp.Body)
	if err != nil {
		return nil, window, fmt.Errorf("decode payload: %w", err)
	}

	return observations, window, nil
}

// redactKey strips the API key from transport errors, which embed the URL.
func redactKey(err error, key string) error {
	var urlErr *url.Error
	if key == "" || !errors.As(err, &urlErr) {
		return err
	}
	return &url.Error{
		Op:  urlErr.Op,
		URL: strings.ReplaceAll(urlErr.URL, url.QueryEscape(key), "REDACTED"),
		Err: urlErr.Err,
	}
}
