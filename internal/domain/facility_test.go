package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPlacesLink(t *testing.T) {
	assert.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=Google+Places+for+Villa+Donatello",
		PlacesLink("Villa Donatello"))
	assert.Equal(t,
		"https://www.google.com/maps/search/?api=1&query=Google+Places+for+Societa%27+%26+Figli",
		PlacesLink("Societa' & Figli"))
}

func TestTable_Geocoded(t *testing.T) {
	table := &Table{Facilities: []Facility{
		{Row: 1, Coordinates: &Coordinates{Lat: 43.7, Lon: 11.2}},
		{Row: 2},
		{Row: 3, Coordinates: &Coordinates{Lat: 43.8, Lon: 11.3}},
	}}

	got := table.Geocoded()

	assert.Equal(t, 3, table.Len())
	if assert.Len(t, got, 2) {
		assert.Equal(t, 1, got[0].Row)
		assert.Equal(t, 3, got[1].Row)
	}
}
