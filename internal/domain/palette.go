package domain

import (
	"errors"
	"fmt"
	"strings"
)

// DefaultColor is the marker color for categories outside the palette.
const DefaultColor = "gray"

// OtherCategory names the catch-all layer for categories outside the palette.
const OtherCategory = "ALTRO"

// markerColors are the colors the Awesome Markers icon set can draw.
var markerColors = map[string]bool{
	"red": true, "darkred": true, "lightred": true, "orange": true, "beige": true,
	"green": true, "darkgreen": true, "lightgreen": true, "blue": true, "darkblue": true,
	"lightblue": true, "purple": true, "darkpurple": true, "pink": true, "cadetblue": true,
	"white": true, "gray": true, "lightgray": true, "black": true,
}

// CategoryColor binds one facility type to its marker color.
type CategoryColor struct {
	Category string `yaml:"category"`
	Color    string `yaml:"color"`
}

// Palette is the closed category→color enumeration. Order is significant:
// it is the order layers appear in the map's layer control.
type Palette struct {
	entries []CategoryColor
	index   map[string]string
	def     string
}

// NewPalette builds a palette from ordered entries. An empty defaultColor
// falls back to DefaultColor.
func NewPalette(entries []CategoryColor, defaultColor string) (*Palette, error) {
	if len(entries) == 0 {
		return nil, errors.New("palette has no categories")
	}
	if defaultColor == "" {
		defaultColor = DefaultColor
	}
	if !markerColors[defaultColor] {
		return nil, fmt.Errorf("palette default color %q is not a marker color", defaultColor)
	}

	p := &Palette{
		entries: make([]CategoryColor, 0, len(entries)),
		index:   make(map[string]string, len(entries)),
		def:     defaultColor,
	}
	for _, e := range entries {
		name := strings.TrimSpace(e.Category)
		if name == "" {
			return nil, errors.New("palette entry has an empty category")
		}
		if _, dup := p.index[name]; dup {
			return nil, fmt.Errorf("palette category %q listed twice", name)
		}
		if name == OtherCategory {
			return nil, fmt.Errorf("palette category %q is reserved for unlisted types", name)
		}
		if !markerColors[e.Color] {
			return nil, fmt.Errorf("palette category %q: %q is not a marker color", name, e.Color)
		}
		p.entries = append(p.entries, CategoryColor{Category: name, Color: e.Color})
		p.index[name] = e.Color
	}
	return p, nil
}

// DefaultPalette returns the facility types of the regional registry.
func DefaultPalette() *Palette {
	p, err := NewPalette([]CategoryColor{
		{Category: "CASA DI CURA", Color: "blue"},
		{Category: "CENTRO DIAGNOSTICO", Color: "green"},
		{Category: "CENTRO FISIOTERAPICO", Color: "purple"},
		{Category: "CENTRO POLISPECIALISTICO", Color: "orange"},
		{Category: "COOPERATIVA", Color: "darkblue"},
		{Category: "LABORATORIO ANALISI", Color: "red"},
		{Category: "PSICOLOGI", Color: "pink"},
		{Category: "SOCIETA' DI SERVIZI", Color: "darkgreen"},
		{Category: "STUDIO ODONTOIATRICO", Color: "lightblue"},
	}, DefaultColor)
	if err != nil {
		panic(err)
	}
	return p
}

// Entries returns the enumerated categories in layer order.
func (p *Palette) Entries() []CategoryColor {
	out := make([]CategoryColor, len(p.entries))
	copy(out, p.entries)
	return out
}

// Len returns the number of enumerated categories.
func (p *Palette) Len() int {
	return len(p.entries)
}

// Default returns the color used for unlisted categories.
func (p *Palette) Default() string {
	return p.def
}

// Color returns the marker color for a category, or the default color.
func (p *Palette) Color(category string) string {
	if c, ok := p.index[category]; ok {
		return c
	}
	return p.def
}

// Known reports whether the category is part of the enumeration.
func (p *Palette) Known(category string) bool {
	_, ok := p.index[category]
	return ok
}

// LayerFor returns the layer a category belongs to: itself when enumerated,
// OtherCategory otherwise.
func (p *Palette) LayerFor(category string) string {
	if p.Known(category) {
		return category
	}
	return OtherCategory
}
