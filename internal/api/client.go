// Package api is a client for the Al Adhan prayer times API. Local results are
// cross-checked against it; nothing in the engine depends on it.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/smokyabdulrahman/miqat/internal/hijri"
)

const (
	defaultBaseURL = "https://api.aladhan.com/v1"
	requestTimeout = 10 * time.Second
	// maxErrorBody caps how much of a failed response ends up in the error.
	maxErrorBody = 512
)

// Client communicates with the Al Adhan prayer times API.
type Client struct {
	httpClient *http.Client
	log        zerolog.Logger
	// BaseURL is the API base URL. Exported for testing with httptest.
	BaseURL string
}

// NewClient returns a client for the public Al Adhan API.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		log:        zerolog.Nop(),
		BaseURL:    defaultBaseURL,
	}
}

// WithLogger sets the logger used for request tracing and returns c.
func (c *Client) WithLogger(l zerolog.Logger) *Client {
	c.log = l
	return c
}

// Query selects the location and conventions of a request.
type Query struct {
	Latitude  float64
	Longitude float64
	// Method is the Al Adhan method id.
	Method int
	// School is 0 for the standard Asr shadow and 1 for Hanafi.
	School int
	// Timezone is an optional IANA zone name; the API infers one otherwise.
	Timezone string
}

func (q Query) encode() string {
	v := url.Values{
		"latitude":  {strconv.FormatFloat(q.Latitude, 'f', 6, 64)},
		"longitude": {strconv.FormatFloat(q.Longitude, 'f', 6, 64)},
		"method":    {strconv.Itoa(q.Method)},
		"school":    {strconv.Itoa(q.School)},
	}
	if q.Timezone != "" {
		v.Set("timezonestring", q.Timezone)
	}
	return v.Encode()
}

// FetchTimings fetches one day's prayer times.
func (c *Client) FetchTimings(ctx context.Context, date hijri.GregorianDate, q Query) (*Response, error) {
	path := fmt.Sprintf("/timings/%02d-%02d-%04d", date.Day, date.Month, date.Year)
	return fetch[Data](ctx, c, path, q)
}

// FetchCalendar fetches prayer times for every day of a Gregorian month.
func (c *Client) FetchCalendar(ctx context.Context, year, month int, q Query) (*CalendarResponse, error) {
	path := fmt.Sprintf("/calendar/%d/%d", year, month)
	return fetch[[]Data](ctx, c, path, q)
}

// fetch GETs path and decodes its envelope. Both the HTTP status and the
// envelope code must be 200.
func fetch[T any](ctx context.Context, c *Client, path string, q Query) (*Envelope[T], error) {
	reqURL := c.BaseURL + path + "?" + q.encode()
	start := time.Now()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("url", reqURL).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("al adhan request")

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("API returned status %d: %s", resp.StatusCode, body)
	}

	// Error envelopes carry a message string in data, so the payload is
	// decoded only after the code is checked.
	var raw Envelope[json.RawMessage]
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}
	if raw.Code != http.StatusOK {
		return nil, fmt.Errorf("API error: code=%d status=%s", raw.Code, raw.Status)
	}
	env := Envelope[T]{Code: raw.Code, Status: raw.Status}
	if err := json.Unmarshal(raw.Data, &env.Data); err != nil {
		return nil, fmt.Errorf("failed to decode API response: %w", err)
	}
	return &env, nil
}
