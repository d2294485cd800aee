// Package geo acquires the caller's position for location-grounded requests.
// Acquisition is best effort: denial, an unavailable source and a timeout all
// come back as "no coordinates".
package geo

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"lumina-store/internal/models"

	"go.uber.org/zap"
)

var (
	ErrUnavailable = errors.New("geolocation unavailable")
	ErrDenied      = errors.New("geolocation denied")
)

// Locator returns the current position
type Locator interface {
	Locate(ctx context.Context) (*models.Coordinates, error)
}

// LocatorFunc adapts a function to Locator
type LocatorFunc func(ctx context.Context) (*models.Coordinates, error)

func (f LocatorFunc) Locate(ctx context.Context) (*models.Coordinates, error) {
	return f(ctx)
}

// Static always reports the same position, or ErrUnavailable when nil
type Static struct {
	Coordinates *models.Coordinates
}

func (s Static) Locate(context.Context) (*models.Coordinates, error) {
	if s.Coordinates == nil {
		return nil, ErrUnavailable
	}
	c := *s.Coordinates
	return &c, nil
}

// Acquire makes one attempt bounded by timeout. Any failure gives nil.
func Acquire(ctx context.Context, loc Locator, timeout time.Duration, logger *zap.Logger) *models.Coordinates {
	if loc == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		coords *models.Coordinates
		err    error
	}
	done := make(chan result, 1)

	go func() {
		coords, err := loc.Locate(ctx)
		done <- result{coords: coords, err: err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			logger.Debug("Geolocation not available", zap.Error(r.err))
			return nil
		}
		if r.coords != nil && !InRange(*r.coords) {
			logger.Debug("Geolocation out of range",
				zap.Float64("latitude", r.coords.Latitude),
				zap.Float64("longitude", r.coords.Longitude))
			return nil
		}
		return r.coords
	case <-ctx.Done():
		logger.Debug("Geolocation timed out", zap.Duration("timeout", timeout))
		return nil
	}
}

// ParsePair builds coordinates from a latitude/longitude string pair.
// A missing or unparsable half means no coordinates.
func ParsePair(lat, lng string) *models.Coordinates {
	lat, lng = strings.TrimSpace(lat), strings.TrimSpace(lng)
	if lat == "" || lng == "" {
		return nil
	}

	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return nil
	}
	lo, err := strconv.ParseFloat(lng, 64)
	if err != nil {
		return nil
	}

	c := models.Coordinates{Latitude: la, Longitude: lo}
	if !InRange(c) {
		return nil
	}
	return &c
}

// InRange reports whether c is a valid position on earth
func InRange(c models.Coordinates) bool {
	return c.Latitude >= -90 && c.Latitude <= 90 && c.Longitude >= -180 && c.Longitude <= 180
}
