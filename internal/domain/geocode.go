package domain

import (
	"context"
	"fmt"
	"io"
	"log/slog"
)

// GeocodeObserver receives the outcome of each geocoding attempt.
type GeocodeObserver interface {
	ObserveGeocode(outcome string)
}

// Geocode outcomes reported to a GeocodeObserver.
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeError    = "error"
)

// GeocodeFacility resolves one facility's composite address. Failures never
// propagate: the facility keeps nil coordinates and GeoStatus records why.
// index is the zero-based position used for the progress line.
func GeocodeFacility(ctx context.Context, f Facility, index, total int, geocoder Geocoder, progress io.Writer, logger *slog.Logger) (Facility, string) {
	fmt.Fprintf(progress, "Geocoding %d/%d: %s...", index+1, total, f.FullAddress)

	result, err := geocoder.Geocode(ctx, f.FullAddress)
	if err != nil {
		fmt.Fprintf(progress, " Failed with error: %v\n", err)
		logger.Warn("geocoding failed",
			"row", f.Row,
			"name", f.Name,
			"address", f.FullAddress,
			"error", err,
		)
		f.Coordinates = nil
		f.GeoStatus = GeoStatusError
		return f, OutcomeError
	}

	if !result.Matched {
		fmt.Fprintf(progress, " Failed (%s).\n", result.Status)
		logger.Debug("address not resolved",
			"row", f.Row,
			"address", f.FullAddress,
			"status", result.Status,
		)
		f.Coordinates = nil
		f.GeoStatus = result.Status
		return f, OutcomeNotFound
	}

	fmt.Fprintln(progress, " Success!")
	f.Coordinates = &Coordinates{Lat: result.Lat, Lon: result.Lon}
	f.GeoStatus = GeoStatusOK
	return f, OutcomeSuccess
}

// GeocodeTable geocodes every facility strictly in row order, one request per
// row, updating the table in place. It returns early only when ctx is done;
// per-row failures are recorded on the row and the loop continues.
func GeocodeTable(ctx context.Context, t *Table, geocoder Geocoder, progress io.Writer, observer GeocodeObserver, logger *slog.Logger) error {
	if progress == nil {
		progress = io.Discard
	}
	total := len(t.Facilities)
	for i := range t.Facilities {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("geocoding interrupted at row %d/%d: %w", i+1, total, err)
		}
		f, outcome := GeocodeFacility(ctx, t.Facilities[i], i, total, geocoder, progress, logger)
		t.Facilities[i] = f
		if observer != nil {
			observer.ObserveGeocode(outcome)
		}
	}
	t.GeocodedAt = clock.Now().UTC()
	return nil
}
