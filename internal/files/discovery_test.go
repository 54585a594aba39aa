package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, dir, name string, mod time.Time) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))
	require.NoError(t, os.Chtimes(path, mod, mod))
	return path
}

func TestFindWorkbooks(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	touch(t, dir, "retail_2011.xlsx", base.Add(2*time.Hour))
	touch(t, dir, "retail_2010.xlsx", base)
	touch(t, dir, "legacy.XLS", base.Add(time.Hour))
	touch(t, dir, "notes.txt", base)
	touch(t, dir, "~$retail_2011.xlsx", base)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive.xlsx"), 0755))

	d := NewDiscovery(dir)
	found, err := d.FindWorkbooks(".")
	require.NoError(t, err)

	require.Len(t, found, 3)
	// Oldest first.
	assert.Equal(t, "retail_2010.xlsx", found[0].Name)
	assert.Equal(t, "legacy.XLS", found[1].Name)
	assert.Equal(t, "retail_2011.xlsx", found[2].Name)
}

func TestFindSnapshots(t *testing.T) {
	dir := t.TempDir()
	now := time.Now()
	touch(t, dir, "raw.csv", now)
	touch(t, dir, "cleaned.csv", now)
	touch(t, dir, "timeseries.parquet", now)

	d := NewDiscovery(dir)
	found, err := d.FindSnapshots(".")
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestLatestWorkbook(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	touch(t, dir, "old.xlsx", base)
	newest := touch(t, dir, "new.xlsx", base.Add(time.Hour))

	d := NewDiscovery(dir)
	latest, err := d.LatestWorkbook(".")
	require.NoError(t, err)
	assert.Equal(t, newest, latest.Path)
}

func TestLatestWorkbookEmpty(t *testing.T) {
	d := NewDiscovery(t.TempDir())
	_, err := d.LatestWorkbook(".")
	assert.Error(t, err)
}

func TestFindWorkbooksMissingDir(t *testing.T) {
	d := NewDiscovery(t.TempDir())
	_, err := d.FindWorkbooks("does-not-exist")
	assert.Error(t, err)
}
