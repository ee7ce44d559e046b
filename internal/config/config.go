package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Supported INPUT_ENCODING values.
const (
	EncodingUTF8        = "utf-8"
	EncodingLatin1      = "latin1"
	EncodingWindows1252 = "windows-1252"
)

// Config holds all settings for one pipeline run, populated from environment
// variables.
type Config struct {
	InputPath      string
	InputDelimiter rune
	InputEncoding  string

	OutputPath  string
	GeoJSONPath string
	PDFPath     string

	// Google geocoding configuration.
	GoogleAPIKey   string
	GeocodeBaseURL string
	GeocodeTimeout time.Duration

	MapCenterLat float64
	MapCenterLon float64
	MapZoom      int
	PaletteFile  string

	HTTPAddr        string
	ShutdownTimeout time.Duration
	LogLevel        string
	LogFormat       string

	// Optional Kafka sink for geocoded facilities.
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	geocodeTimeout, err := time.ParseDuration(sharedcfg.EnvOrDefault("GEOCODE_TIMEOUT", "10s"))
	if err != nil || geocodeTimeout <= 0 {
		return nil, errors.New("invalid GEOCODE_TIMEOUT")
	}

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	delimiter, err := ParseDelimiter(sharedcfg.EnvOrDefault("INPUT_DELIMITER", ","))
	if err != nil {
		return nil, err
	}

	lat, err := parseFloatEnv("MAP_CENTER_LAT", "43.7696")
	if err != nil {
		return nil, err
	}
	lon, err := parseFloatEnv("MAP_CENTER_LON", "11.2558")
	if err != nil {
		return nil, err
	}

	zoom, err := strconv.Atoi(sharedcfg.EnvOrDefault("MAP_ZOOM", "12"))
	if err != nil || zoom < 0 || zoom > 20 {
		return nil, errors.New("invalid MAP_ZOOM: must be an integer between 0 and 20")
	}

	cfg := &Config{
		InputPath:      sharedcfg.EnvOrDefault("INPUT_PATH", "STRUTTURE-TOSCANA.csv"),
		InputDelimiter: delimiter,
		InputEncoding:  strings.ToLower(sharedcfg.EnvOrDefault("INPUT_ENCODING", EncodingUTF8)),
		OutputPath:     sharedcfg.EnvOrDefault("OUTPUT_PATH", "index.html"),
		GeoJSONPath:    os.Getenv("GEOJSON_PATH"),
		PDFPath:        os.Getenv("PDF_PATH"),

		GoogleAPIKey:   sharedcfg.EnvOrDefault("GOOGLE_API_KEY", "myapikeyhere"),
		GeocodeBaseURL: sharedcfg.EnvOrDefault("GEOCODE_BASE_URL", "https://maps.googleapis.com/maps/api/geocode/json"),
		GeocodeTimeout: geocodeTimeout,

		MapCenterLat: lat,
		MapCenterLon: lon,
		MapZoom:      zoom,
		PaletteFile:  os.Getenv("PALETTE_FILE"),

		HTTPAddr:        os.Getenv("HTTP_ADDR"),
		ShutdownTimeout: shutdownTimeout,
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "text"),

		KafkaBrokers: sharedcfg.ParseBrokers(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   sharedcfg.EnvOrDefault("KAFKA_TOPIC", "geocoded-facilities"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks invariants that flag overrides can also break.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return errors.New("INPUT_PATH is required")
	}
	if c.OutputPath == "" {
		return errors.New("OUTPUT_PATH is required")
	}
	if c.GoogleAPIKey == "" {
		return errors.New("GOOGLE_API_KEY is required")
	}
	switch c.InputEncoding {
	case EncodingUTF8, EncodingLatin1, EncodingWindows1252:
	default:
		return fmt.Errorf("invalid INPUT_ENCODING %q: want %s, %s or %s", c.InputEncoding, EncodingUTF8, EncodingLatin1, EncodingWindows1252)
	}
	if c.MapCenterLat < -90 || c.MapCenterLat > 90 {
		return errors.New("invalid MAP_CENTER_LAT: out of range")
	}
	if c.MapCenterLon < -180 || c.MapCenterLon > 180 {
		return errors.New("invalid MAP_CENTER_LON: out of range")
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		return errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// PublishEnabled reports whether geocoded facilities should go to Kafka.
func (c *Config) PublishEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

// ParseDelimiter accepts a single character, or `\t` / "tab" for tabs.
func ParseDelimiter(s string) (rune, error) {
	if s == `\t` || s == "tab" {
		return '\t', nil
	}
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError || size != len(s) || r == '"' || r == '\n' || r == '\r' {
		return 0, fmt.Errorf("invalid INPUT_DELIMITER %q: must be a single character", s)
	}
	return r, nil
}

func parseFloatEnv(key, def string) (float64, error) {
	v, err := strconv.ParseFloat(sharedcfg.EnvOrDefault(key, def), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return v, nil
}
