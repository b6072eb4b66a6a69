package geocode

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

type Geocoder interface {
	Geocode(ctx context.Context, location string) (Point, error)
}

// Cache stores resolved points as "lat,lng" strings.
type Cache interface {
	Get(ctx context.Context, location string) (string, bool, error)
	Set(ctx context.Context, location string, value string) error
}

type Enricher struct {
	geocoder Geocoder
	cache    Cache
}

// NewEnricher accepts a nil cache.
func NewEnricher(g Geocoder, cache Cache) *Enricher {
	return &Enricher{geocoder: g, cache: cache}
}

// Enrich geocodes each distinct location once and returns points keyed by the
// location exactly as given.
func (e *Enricher) Enrich(ctx context.Context, locations []string) map[string]Point {
	points := make(map[string]Point, len(locations))

	for _, loc := range locations {
		if _, done := points[loc]; done {
			continue
		}
		if ctx.Err() != nil {
			points[loc] = Point{}
			continue
		}
		points[loc] = e.lookup(ctx, loc)
	}

	return points
}

func (e *Enricher) lookup(ctx context.Context, location string) Point {
	key := strings.ToLower(strings.TrimSpace(location))
	if key == "" || key == unknownLocation {
		return Point{}
	}

	if e.cache != nil {
		value, ok, err := e.cache.Get(ctx, key)
		if err != nil {
			slog.Warn("geocode cache read failed", "location", location, "error", err)
		} else if ok {
			if p, err := decodePoint(value); err == nil {
				return p
			}
		}
	}

	p, err := e.geocoder.Geocode(ctx, location)
	if err != nil {
		slog.Warn("geocoding failed", "location", location, "error", err)
		return Point{}
	}

	if e.cache != nil {
		if err := e.cache.Set(ctx, key, encodePoint(p)); err != nil {
			slog.Warn("geocode cache write failed", "location", location, "error", err)
		}
	}

	return p
}

func encodePoint(p Point) string {
	return strconv.FormatFloat(p.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}

func decodePoint(value string) (Point, error) {
	latStr, lngStr, ok := strings.Cut(value, ",")
	if !ok {
		return Point{}, fmt.Errorf("malformed point %q", value)
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return Point{}, err
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return Point{}, err
	}
	return Point{Latitude: lat, Longitude: lng}, nil
}
