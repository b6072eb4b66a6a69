package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const mapboxBaseURL = "https://api.mapbox.com/geocoding/v5/mapbox.places/"

const unknownLocation = "unknown"

type Point struct {
	Latitude  float64
	Longitude float64
}

type MapboxClient struct {
	apiKey     string
	httpClient *http.Client
}

func NewMapboxClient(apiKey string) *MapboxClient {
	return &MapboxClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *MapboxClient) Name() string {
	return "Mapbox"
}

// Geocode returns the first match for location. Unknown or blank locations
// resolve to the zero point without a request.
func (c *MapboxClient) Geocode(ctx context.Context, location string) (Point, error) {
	location = strings.TrimSpace(location)
	if location == "" || strings.EqualFold(location, unknownLocation) {
		return Point{}, nil
	}

	endpoint := fmt.Sprintf("%s%s.json?access_token=%s&limit=1",
		mapboxBaseURL, url.PathEscape(location), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Point{}, fmt.Errorf("mapbox request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Point{}, fmt.Errorf("mapbox fetch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Point{}, fmt.Errorf("mapbox status %d", resp.StatusCode)
	}

	var raw mapboxResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return Point{}, fmt.Errorf("mapbox decode: %w", err)
	}

	if len(raw.Features) == 0 || len(raw.Features[0].Center) < 2 {
		return Point{}, nil
	}

	// center is [longitude, latitude]
	center := raw.Features[0].Center
	return Point{Latitude: center[1], Longitude: center[0]}, nil
}

type mapboxResponse struct {
	Features []mapboxFeature `json:"features"`
}

type mapboxFeature struct {
	PlaceName string    `json:"place_name"`
	Center    []float64 `json:"center"`
}

// Resolve never fails: errors are logged and map to the zero point.
func Resolve(ctx context.Context, g Geocoder, location string) Point {
	p, err := g.Geocode(ctx, location)
	if err != nil {
		slog.Warn("geocoding failed", "location", location, "error", err)
		return Point{}
	}
	return p
}
