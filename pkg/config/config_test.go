package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dashmouse.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"track_width_mm: 98.5\nencoders:\n  invert_left: true\n"), 0666))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, 98.5, cfg.TrackWidthMM)
	require.True(t, cfg.Encoders.InvertLeft)
	// Untouched fields keep their defaults.
	require.Equal(t, Default().TickPeriodUs, cfg.TickPeriodUs)
	require.Equal(t, Default().Encoders.RightDevice, cfg.Encoders.RightDevice)
}

func TestSaveInUseRoundTrips(t *testing.T) {
	cfg := Default()
	cfg.TireDiameterMM = 31.2

	path := filepath.Join(t.TempDir(), "dashmouse-in-use.yaml")
	require.NoError(t, SaveInUse(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, loaded)
}
