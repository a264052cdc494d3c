package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

// Geocoder resolves coordinates to a place name through a
// Nominatim-compatible reverse geocoding API.
type Geocoder struct {
	*Client
	userAgent string
	cache     *cache.Cache
}

func NewGeocoder(c *Client, userAgent string, ttl time.Duration) *Geocoder {
	return &Geocoder{
		Client:    c,
		userAgent: userAgent,
		cache:     cache.New(ttl, 2*ttl),
	}
}

type reverseResult struct {
	DisplayName string `json:"display_name"`
	Error       string `json:"error"`
}

func cacheKey(lat, lon float64) string {
	return strconv.FormatFloat(lat, 'f', 4, 64) + "," + strconv.FormatFloat(lon, 'f', 4, 64)
}

// Reverse returns the display name for the coordinates.
func (g *Geocoder) Reverse(ctx context.Context, lat, lon float64) (string, error) {
	key := cacheKey(lat, lon)
	if name, ok := g.cache.Get(key); ok {
		return name.(string), nil
	}

	q := url.Values{
		"format": {"jsonv2"},
		"lat":    {strconv.FormatFloat(lat, 'f', -1, 64)},
		"lon":    {strconv.FormatFloat(lon, 'f', -1, 64)},
	}
	var out reverseResult
	if err := g.do(withUserAgent(withoutToken(ctx), g.userAgent), http.MethodGet, "/reverse", q, nil, &out); err != nil {
		return "", err
	}
	if out.DisplayName == "" {
		return "", fmt.Errorf("reverse geocode %s: %s", key, out.Error)
	}

	g.cache.SetDefault(key, out.DisplayName)
	return out.DisplayName, nil
}

// Describe never fails: on any lookup error it returns the raw coordinates.
func (g *Geocoder) Describe(ctx context.Context, lat, lon float64) string {
	name, err := g.Reverse(ctx, lat, lon)
	if err != nil {
		g.logger.Debug("reverse geocoding failed", zap.Float64("lat", lat), zap.Float64("lon", lon), zap.Error(err))
		return FormatCoordinates(lat, lon)
	}
	return name
}

// FormatCoordinates renders a pair as "40.7128, -74.0060".
func FormatCoordinates(lat, lon float64) string {
	return fmt.Sprintf("%.4f, %.4f", lat, lon)
}
