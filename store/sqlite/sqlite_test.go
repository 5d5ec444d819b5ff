package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tribolab/sampling-cadence/analysis"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func testSamples() []analysis.Sample {
	mk := func(unit, asset, account, bottle, date, class string) analysis.Sample {
		d, _ := time.Parse("2006-01-02", date)
		return analysis.Sample{
			UnitID: unit, AssetID: asset, AccountName: account,
			BottleID: bottle, SampledAt: d, AssetClass: class, Year: d.Year(),
		}
	}
	return []analysis.Sample{
		mk("U1", "A1", "Acme", "B1", "2024-01-15", "Pump"),
		mk("U1", "A1", "Acme", "B2", "2024-04-15", "Pump"),
		mk("U2", "A9", "Globex", "B3", "2023-06-01", "Gearbox"),
	}
}

func TestSaveAndLoadDataset(t *testing.T) {
	// GIVEN a stored dataset with three samples
	store := newTestStore(t)
	ctx := context.Background()

	ds := Dataset{
		ID:          "ds-1",
		Name:        "export.csv",
		UploadedAt:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		DroppedRows: 2,
	}
	require.NoError(t, store.SaveDataset(ctx, ds, testSamples()))

	// WHEN the dataset is read back
	got, err := store.GetDataset(ctx, "ds-1")
	require.NoError(t, err)

	// THEN metadata and row accounting survive the round trip
	assert.Equal(t, "export.csv", got.Name)
	assert.Equal(t, 3, got.SampleCount)
	assert.Equal(t, 2, got.DroppedRows)
	assert.True(t, got.UploadedAt.Equal(ds.UploadedAt))

	// AND samples come back date-typed and ordered by equipment then date
	samples, err := store.LoadSamples(ctx, "ds-1", nil)
	require.NoError(t, err)
	require.Len(t, samples, 3)
	assert.Equal(t, "U1", samples[0].UnitID)
	assert.Equal(t, "B1", samples[0].BottleID)
	assert.Equal(t, 2024, samples[0].Year)
	assert.True(t, samples[0].SampledAt.Before(samples[1].SampledAt))
}

func TestLoadSamples_AccountFilter(t *testing.T) {
	// GIVEN a dataset spanning two accounts
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveDataset(ctx, Dataset{ID: "ds-1", Name: "x", UploadedAt: time.Now()}, testSamples()))

	// WHEN loading with an account filter
	samples, err := store.LoadSamples(ctx, "ds-1", []string{"Globex"})
	require.NoError(t, err)

	// THEN only that account's samples are returned
	require.Len(t, samples, 1)
	assert.Equal(t, "U2", samples[0].UnitID)

	// AND an empty filter means all samples
	all, err := store.LoadSamples(ctx, "ds-1", nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestListAccounts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveDataset(ctx, Dataset{ID: "ds-1", Name: "x", UploadedAt: time.Now()}, testSamples()))

	accounts, err := store.ListAccounts(ctx, "ds-1")
	require.NoError(t, err)

	// Distinct and sorted.
	assert.Equal(t, []string{"Acme", "Globex"}, accounts)
}

func TestListDatasets_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.SaveDataset(ctx, Dataset{ID: "ds-old", Name: "old", UploadedAt: old}, nil))
	require.NoError(t, store.SaveDataset(ctx, Dataset{ID: "ds-new", Name: "new", UploadedAt: recent}, nil))

	datasets, err := store.ListDatasets(ctx)
	require.NoError(t, err)
	require.Len(t, datasets, 2)
	assert.Equal(t, "ds-new", datasets[0].ID)
	assert.Equal(t, "ds-old", datasets[1].ID)
}

func TestDeleteDataset_CascadesToSamples(t *testing.T) {
	// GIVEN a stored dataset
	store := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, store.SaveDataset(ctx, Dataset{ID: "ds-1", Name: "x", UploadedAt: time.Now()}, testSamples()))

	// WHEN it is deleted
	require.NoError(t, store.DeleteDataset(ctx, "ds-1"))

	// THEN both the metadata and the samples are gone
	_, err := store.GetDataset(ctx, "ds-1")
	assert.ErrorIs(t, err, analysis.ErrDatasetNotFound)

	_, err = store.LoadSamples(ctx, "ds-1", nil)
	assert.ErrorIs(t, err, analysis.ErrDatasetNotFound)
}

func TestUnknownDataset(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.GetDataset(ctx, "missing")
	assert.ErrorIs(t, err, analysis.ErrDatasetNotFound)

	err = store.DeleteDataset(ctx, "missing")
	assert.ErrorIs(t, err, analysis.ErrDatasetNotFound)

	_, err = store.ListAccounts(ctx, "missing")
	assert.ErrorIs(t, err, analysis.ErrDatasetNotFound)

	_, err = store.LoadSamples(ctx, "missing", nil)
	assert.ErrorIs(t, err, analysis.ErrDatasetNotFound)
}
