package domain

import "context"

// Geocoding statuses recorded on a Facility.
const (
	GeoStatusOK    = "OK"
	GeoStatusError = "error"
)

// GeocodingResult contains location data returned by a geocoding provider.
type GeocodingResult struct {
	Lat              float64
	Lon              float64
	FormattedAddress string
	Status           string // provider status, e.g. "OK", "ZERO_RESULTS"
	Matched          bool
}

// Geocoder resolves a free-text postal address to coordinates.
type Geocoder interface {
	// Geocode returns Matched=false with the provider status when the address
	// could not be resolved, and an error only when the call itself failed.
	Geocode(ctx context.Context, address string) (GeocodingResult, error)
}
