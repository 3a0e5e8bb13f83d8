package poselog

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestAppendAndSamples(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poses.db")
	store, err := Open(path)
	require.NoError(t, err)
	defer store.Close()

	start := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	want := []Sample{
		{At: start, XMM: 0, YMM: 0, HeadingRad: 0, VelocityMMS: 0, OmegaRadS: 0},
		{At: start.Add(100 * time.Millisecond), XMM: 92.1, YMM: -0.5, HeadingRad: 0.01, VelocityMMS: 920.4, OmegaRadS: 0.2},
		{At: start.Add(200 * time.Millisecond), XMM: 184.0, YMM: -1.1, HeadingRad: 0.02, VelocityMMS: 918.8, OmegaRadS: 0.1},
	}
	for _, p := range want {
		require.NoError(t, store.Append(p))
	}

	got, err := store.Samples()
	require.NoError(t, err)
	require.Len(t, got, len(want))
	for i := range want {
		require.Equal(t, want[i].At.UnixMicro(), got[i].At.UnixMicro(), "sample %d time", i)
		require.Equal(t, want[i].XMM, got[i].XMM, "sample %d x", i)
		require.Equal(t, want[i].HeadingRad, got[i].HeadingRad, "sample %d heading", i)
	}
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "poses.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Append(Sample{At: time.Now(), XMM: 1}))
	require.NoError(t, store.Close())

	store, err = Open(path)
	require.NoError(t, err)
	defer store.Close()
	got, err := store.Samples()
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, 1.0, got[0].XMM)
}
