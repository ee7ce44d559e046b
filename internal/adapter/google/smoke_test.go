//go:build google

package google

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/couchcryptid/health-facility-map/internal/observability"
)

// These tests hit the real Google Geocoding API and require a valid GOOGLE_API_KEY env var.
// Run with: go test -tags=google ./internal/adapter/google/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	key := os.Getenv("GOOGLE_API_KEY")
	if key == "" {
		t.Fatal("GOOGLE_API_KEY must be set to run smoke tests")
	}
	return NewClient(key, DefaultBaseURL, 10*time.Second,
		observability.NewMetricsForTesting(),
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_Geocode(t *testing.T) {
	c := smokeClient(t)

	result, err := c.Geocode(context.Background(), "Piazza della Signoria 1, Firenze, FIRENZE, 50122")
	require.NoError(t, err)

	assert.True(t, result.Matched)
	assert.InDelta(t, 43.769, result.Lat, 0.01, "lat should be near Florence")
	assert.InDelta(t, 11.255, result.Lon, 0.01, "lon should be near Florence")
	assert.Contains(t, result.FormattedAddress, "Firenze")
}

func TestSmoke_Geocode_Nonsense(t *testing.T) {
	c := smokeClient(t)

	// Google may still return a fuzzy match, so only require graceful handling.
	_, err := c.Geocode(context.Background(), "XYZNONEXISTENT99, ZZ")
	require.NoError(t, err)
}
