// Package geo holds geographic coordinates and IP-based location detection.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Location is a detected position. The JSON tags match ip-api.com's field
// names, which is also how the location cache stores it.
type Location struct {
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	Timezone  string  `json:"timezone"`
}

// ipAPIResponse is an ip-api.com reply: a status envelope around a Location.
type ipAPIResponse struct {
	Status  string `json:"status"` // "success" or "fail"
	Message string `json:"message"`
	Location
}

const defaultDetectURL = "http://ip-api.com/json/?fields=status,message,lat,lon,city,country,timezone"

// Detector resolves the caller's location from their public IP address via
// ip-api.com, a free service that needs no API key.
type Detector struct {
	httpClient *http.Client
	// URL is the geolocation endpoint. Exported for testing with httptest.
	URL string
}

// NewDetector returns a Detector with a short request timeout.
func NewDetector() *Detector {
	return &Detector{
		httpClient: &http.Client{Timeout: 5 * time.Second},
		URL:        defaultDetectURL,
	}
}

// Detect looks up the current location. The returned coordinates are
// validated before use.
func (d *Detector) Detect(ctx context.Context) (*Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geolocation request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geolocation API returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode geolocation response: %w", err)
	}
	if result.Status != "success" {
		return nil, fmt.Errorf("geolocation failed: %s", result.Message)
	}
	if err := result.Coordinate().Validate(); err != nil {
		return nil, fmt.Errorf("geolocation returned bad coordinates: %w", err)
	}
	return &result.Location, nil
}
