package domain

import (
	"net/url"
	"time"
)

// Source column names in the regional registry.
const (
	ColumnName         = "Nominativo"
	ColumnCategory     = "DescrizioneTipoStruttura"
	ColumnStreet       = "Indirizzo"
	ColumnMunicipality = "comune"
	ColumnProvince     = "prov_estesa"
	ColumnPostalCode   = "Cap"
	ColumnPhone        = "Telefono"
)

// RequiredColumns lists the columns every registry file must carry.
var RequiredColumns = []string{
	ColumnName,
	ColumnCategory,
	ColumnStreet,
	ColumnMunicipality,
	ColumnProvince,
	ColumnPostalCode,
	ColumnPhone,
}

// Coordinates is a WGS-84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Facility is one row of the registry.
type Facility struct {
	Row          int    `json:"row"` // 1-based data row, header excluded
	Name         string `json:"name"`
	Category     string `json:"category"`
	Street       string `json:"street"`
	Municipality string `json:"municipality"`
	Province     string `json:"province"`
	PostalCode   string `json:"postal_code"`
	Phone        string `json:"phone"`

	// FullAddress is derived by NormalizeTable and used as the geocoding query.
	FullAddress string `json:"full_address"`

	// Coordinates is nil until geocoding succeeds.
	Coordinates *Coordinates `json:"coordinates,omitempty"`

	// Geocoding outcome: "OK", a provider status such as "ZERO_RESULTS", or "error".
	GeoStatus string `json:"geo_status,omitempty"`

	Extra map[string]string `json:"extra,omitempty"`
}

const placesSearchURL = "https://www.google.com/maps/search/?api=1&query="

// PlacesLink builds the Google Maps search link for a facility name.
func PlacesLink(name string) string {
	return placesSearchURL + url.QueryEscape("Google Places for "+name)
}

// Geocoded reports whether the facility has a usable coordinate pair.
func (f Facility) Geocoded() bool {
	return f.Coordinates != nil
}

// Table is the in-memory registry: the header in source order and one
// Facility per data row, in source order.
type Table struct {
	Columns    []string
	Facilities []Facility

	// GeocodedAt is stamped when GeocodeTable finishes a full pass.
	GeocodedAt time.Time
}

// Len returns the number of facilities.
func (t *Table) Len() int {
	return len(t.Facilities)
}

// Geocoded returns the facilities that have coordinates, in row order.
func (t *Table) Geocoded() []Facility {
	out := make([]Facility, 0, len(t.Facilities))
	for _, f := range t.Facilities {
		if f.Geocoded() {
			out = append(out, f)
		}
	}
	return out
}
