package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/health-facility-map/internal/adapter/geojson"
	"github.com/couchcryptid/health-facility-map/internal/adapter/google"
	"github.com/couchcryptid/health-facility-map/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/health-facility-map/internal/adapter/kafka"
	"github.com/couchcryptid/health-facility-map/internal/adapter/pdfdir"
	"github.com/couchcryptid/health-facility-map/internal/adapter/registry"
	"github.com/couchcryptid/health-facility-map/internal/config"
	"github.com/couchcryptid/health-facility-map/internal/domain"
	"github.com/couchcryptid/health-facility-map/internal/observability"
	"github.com/couchcryptid/health-facility-map/internal/pipeline"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:          "facilitymap",
	Short:        "Geocode a healthcare facility registry and render it as a Leaflet map",
	Long:         "Loads the facility registry, geocodes each composite address with the Google Geocoding API, and writes a single HTML map with one toggleable layer per facility type.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		applyFlags(cmd, c)
		if err := c.Validate(); err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		logger = observability.NewLogger(cfg)
		return nil
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		return run(cmd.Context())
	},
}

func init() {
	f := rootCmd.Flags()
	f.StringP("input", "i", "", "registry file, overrides INPUT_PATH")
	f.StringP("output", "o", "", "HTML map path, overrides OUTPUT_PATH")
	f.String("geojson", "", "also write a GeoJSON FeatureCollection, overrides GEOJSON_PATH")
	f.String("pdf", "", "also write a PDF directory, overrides PDF_PATH")
	f.String("palette", "", "YAML category palette, overrides PALETTE_FILE")
}

// applyFlags copies explicitly set flags over the environment configuration.
func applyFlags(cmd *cobra.Command, c *config.Config) {
	set := func(name string, dst *string) {
		if cmd.Flags().Changed(name) {
			*dst, _ = cmd.Flags().GetString(name)
		}
	}
	set("input", &c.InputPath)
	set("output", &c.OutputPath)
	set("geojson", &c.GeoJSONPath)
	set("pdf", &c.PDFPath)
	set("palette", &c.PaletteFile)
}

func run(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	palette, err := config.LoadPalette(cfg.PaletteFile)
	if err != nil {
		logger.Error("failed to load palette", "error", err)
		return err
	}

	metrics := observability.NewMetrics()
	geocoder := google.NewClient(cfg.GoogleAPIKey, cfg.GeocodeBaseURL, cfg.GeocodeTimeout, metrics, logger)
	loader := pipeline.NewFileLoader(cfg.InputPath, registry.Options{
		Delimiter: cfg.InputDelimiter,
		Encoding:  cfg.InputEncoding,
	})

	var sinks []pipeline.Sink
	if cfg.GeoJSONPath != "" {
		sinks = append(sinks, geojson.NewExporter(cfg.GeoJSONPath, palette))
	}
	if cfg.PDFPath != "" {
		sinks = append(sinks, pdfdir.NewExporter(cfg.PDFPath, palette))
	}
	if cfg.PublishEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		defer func() {
			if err := writer.Close(); err != nil {
				logger.Error("kafka writer close error", "error", err)
			}
		}()
		sinks = append(sinks, writer)
	}

	p := pipeline.New(loader, geocoder, sinks, pipeline.Options{
		Center:     domain.Coordinates{Lat: cfg.MapCenterLat, Lon: cfg.MapCenterLon},
		Zoom:       cfg.MapZoom,
		Palette:    palette,
		OutputPath: cfg.OutputPath,
	}, os.Stdout, logger, metrics)

	if cfg.HTTPAddr != "" {
		srv := httpadapter.NewServer(cfg.HTTPAddr, p, nil, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				logger.Error("http server shutdown error", "error", err)
			}
		}()
	}

	logger.Info("run started",
		"input", cfg.InputPath,
		"output", cfg.OutputPath,
		"categories", palette.Len(),
		"geocode_timeout", cfg.GeocodeTimeout,
	)

	report, err := p.Run(ctx)
	if err != nil {
		logger.Error("run failed", "error", err)
		return err
	}

	logger.Info("run complete",
		"rows", report.Rows,
		"geocoded", report.Geocoded,
		"failed", report.Failed,
		"markers", report.Markers,
		"output", report.Output,
		"duration", report.Duration,
	)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
