package geocode

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/assert/v2"
)

func TestMapboxGeocode(t *testing.T) {
	var gotPath, gotToken, gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.URL.Query().Get("access_token")
		gotLimit = r.URL.Query().Get("limit")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"features":[{"place_name":"Lagos, Nigeria","center":[3.3958,6.4531]}]}`))
	}))
	defer srv.Close()

	client := NewMapboxClient("test-token")
	client.httpClient.Transport = &rewriteTransport{base: srv.URL, inner: http.DefaultTransport}

	p, err := client.Geocode(context.Background(), "Lagos, Nigeria")

	assert.Equal(t, nil, err)
	assert.Equal(t, 6.4531, p.Latitude)
	assert.Equal(t, 3.3958, p.Longitude)
	assert.Equal(t, "/geocoding/v5/mapbox.places/Lagos, Nigeria.json", gotPath)
	assert.Equal(t, "test-token", gotToken)
	assert.Equal(t, "1", gotLimit)
}

func TestMapboxGeocode_NoFeatures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"features":[]}`))
	}))
	defer srv.Close()

	client := NewMapboxClient("k")
	client.httpClient.Transport = &rewriteTransport{base: srv.URL, inner: http.DefaultTransport}

	p, err := client.Geocode(context.Background(), "Atlantis")
	assert.Equal(t, nil, err)
	assert.Equal(t, Point{}, p)
}

func TestMapboxGeocode_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewMapboxClient("bad")
	client.httpClient.Transport = &rewriteTransport{base: srv.URL, inner: http.DefaultTransport}

	_, err := client.Geocode(context.Background(), "Paris")
	assert.NotEqual(t, nil, err)

	assert.Equal(t, Point{}, Resolve(context.Background(), client, "Paris"))
}

func TestMapboxGeocode_UnknownSkipsRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer srv.Close()

	client := NewMapboxClient("k")
	client.httpClient.Transport = &rewriteTransport{base: srv.URL, inner: http.DefaultTransport}

	p, err := client.Geocode(context.Background(), "Unknown")
	assert.Equal(t, nil, err)
	assert.Equal(t, Point{}, p)
	assert.Equal(t, 0, calls)
}

type fakeGeocoder struct {
	points map[string]Point
	calls  map[string]int
}

func (f *fakeGeocoder) Geocode(ctx context.Context, location string) (Point, error) {
	f.calls[location]++
	p, ok := f.points[location]
	if !ok {
		return Point{}, errors.New("not found")
	}
	return p, nil
}

type memoryCache map[string]string

func (m memoryCache) Get(ctx context.Context, location string) (string, bool, error) {
	v, ok := m[location]
	return v, ok, nil
}

func (m memoryCache) Set(ctx context.Context, location string, value string) error {
	m[location] = value
	return nil
}

func TestEnrich(t *testing.T) {
	g := &fakeGeocoder{
		points: map[string]Point{"Lagos": {Latitude: 6.45, Longitude: 3.39}},
		calls:  map[string]int{},
	}
	cache := memoryCache{"paris": "48.85,2.35"}

	points := NewEnricher(g, cache).Enrich(context.Background(),
		[]string{"Lagos", "Lagos", "Paris", "unknown", "Nowhere"})

	assert.Equal(t, 4, len(points))
	assert.Equal(t, Point{Latitude: 6.45, Longitude: 3.39}, points["Lagos"])
	assert.Equal(t, Point{Latitude: 48.85, Longitude: 2.35}, points["Paris"])
	assert.Equal(t, Point{}, points["unknown"])
	assert.Equal(t, Point{}, points["Nowhere"])

	assert.Equal(t, 1, g.calls["Lagos"])
	assert.Equal(t, 0, g.calls["Paris"])
	assert.Equal(t, 0, g.calls["unknown"])
	assert.Equal(t, "6.45,3.39", cache["lagos"])
}

func TestEnrich_NilCache(t *testing.T) {
	g := &fakeGeocoder{points: map[string]Point{"Rome": {Latitude: 41.9, Longitude: 12.5}}, calls: map[string]int{}}

	points := NewEnricher(g, nil).Enrich(context.Background(), []string{"Rome"})
	assert.Equal(t, Point{Latitude: 41.9, Longitude: 12.5}, points["Rome"])
}

func TestDecodePoint(t *testing.T) {
	p, err := decodePoint("-33.86,151.2")
	assert.Equal(t, nil, err)
	assert.Equal(t, Point{Latitude: -33.86, Longitude: 151.2}, p)

	_, err = decodePoint("garbage")
	assert.NotEqual(t, nil, err)
}

// rewriteTransport redirects all requests to a fixed base URL (test server).
type rewriteTransport struct {
	base  string
	inner http.RoundTripper
}

func (rt *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	parsed, _ := http.NewRequest("GET", rt.base, nil)
	req2.URL.Host = parsed.URL.Host
	req2.URL.Scheme = parsed.URL.Scheme
	return rt.inner.RoundTrip(req2)
}
