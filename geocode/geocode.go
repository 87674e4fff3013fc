// Package geocode resolves free-text locations to coordinates through the
// Nominatim search API.
package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"civicvoice-be/apperr"
)

const nominatimBase = "https://nominatim.openstreetmap.org/search"

// Geocoder turns an address into a [longitude, latitude] pair.
type Geocoder interface {
	Coordinates(ctx context.Context, address string) (lng, lat float64, err error)
}

// Client is the Nominatim-backed Geocoder.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return &Client{
		baseURL:    nominatimBase,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithBase exists for tests pointing at a local server.
func NewClientWithBase(baseURL string) *Client {
	c := NewClient()
	c.baseURL = baseURL
	return c
}

type nominatimResult struct {
	Lon string `json:"lon"`
	Lat string `json:"lat"`
}

func (c *Client) Coordinates(ctx context.Context, address string) (float64, float64, error) {
	u := fmt.Sprintf("%s?q=%s&format=json&limit=1", c.baseURL, url.QueryEscape(address))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return 0, 0, err
	}
	req.Header.Set("User-Agent", "civicvoice-be")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, 0, apperr.Wrap(apperr.Upstream, "Geocoding request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, 0, apperr.Newf(apperr.Upstream, "Geocoding returned status %d", resp.StatusCode)
	}

	var results []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return 0, 0, apperr.Wrap(apperr.Upstream, "Geocoding response malformed", err)
	}
	if len(results) == 0 {
		return 0, 0, apperr.Newf(apperr.Upstream, "No coordinates found for %q", address)
	}

	lng, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return 0, 0, apperr.Wrap(apperr.Upstream, "Geocoding response malformed", err)
	}
	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return 0, 0, apperr.Wrap(apperr.Upstream, "Geocoding response malformed", err)
	}
	return lng, lat, nil
}
