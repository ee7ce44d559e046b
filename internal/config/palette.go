package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/couchcryptid/health-facility-map/internal/domain"
)

// paletteFile is the on-disk shape of PALETTE_FILE:
//
//	default: gray
//	categories:
//	  - category: CASA DI CURA
//	    color: blue
type paletteFile struct {
	Default    string                 `yaml:"default"`
	Categories []domain.CategoryColor `yaml:"categories"`
}

// LoadPalette returns the built-in palette when path is empty, otherwise the
// palette described by the YAML file at path.
func LoadPalette(path string) (*domain.Palette, error) {
	if path == "" {
		return domain.DefaultPalette(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read palette file: %w", err)
	}
	var pf paletteFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return nil, fmt.Errorf("parse palette file %s: %w", path, err)
	}
	p, err := domain.NewPalette(pf.Categories, pf.Default)
	if err != nil {
		return nil, fmt.Errorf("palette file %s: %w", path, err)
	}
	return p, nil
}
