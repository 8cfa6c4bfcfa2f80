package bootstrap_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"bodysense/internal/bootstrap"
	"bodysense/internal/platform/config"
)

func TestNewWiresModulesOverFreshDataDir(t *testing.T) {
	ctx := context.Background()
	cfg, err := config.New(t.TempDir())
	require.NoError(t, err)

	app, err := bootstrap.New(ctx, cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, app.Close()) })

	catalog, err := app.CatalogCLI.List(ctx)
	require.NoError(t, err)
	require.Len(t, catalog.Exercises, 3)

	snap := app.SessionTUI.Snapshot(ctx)
	require.Equal(t, 0, snap.ExerciseIndex)
	require.Len(t, snap.Markers, 5)

	runs, err := app.HistoryCLI.List(ctx, 10)
	require.NoError(t, err)
	require.Empty(t, runs)

	// no override path configured
	require.NoError(t, app.WatchCatalog(ctx))
}
