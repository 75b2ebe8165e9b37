package catalog

import (
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opscart/cloud-waste-advisor/pkg/models"
)

func TestDefaultCatalog(t *testing.T) {
	cat := Default()
	require.NotNil(t, cat)
	assert.Greater(t, cat.Len(), 20)

	entry, ok := cat.Lookup("t3.large")
	require.True(t, ok)
	assert.Equal(t, 2, entry.Capacity.VCPU)
	assert.Equal(t, 8.0, entry.Capacity.MemoryGiB)
	assert.Equal(t, "x86_64", entry.Capacity.Architecture)
	assert.InDelta(t, 0.0832, entry.HourlyPrice, 1e-9)
	assert.InDelta(t, 59.904, entry.MonthlyPrice(), 1e-9)

	// Graviton shapes carry their architecture.
	entry, ok = cat.Lookup("t4g.large")
	require.True(t, ok)
	assert.Equal(t, "arm64", entry.Capacity.Architecture)
}

func TestLookupUnknownShape(t *testing.T) {
	_, ok := Default().Lookup("nonexistent.8xlarge")
	assert.False(t, ok)
}

func TestEntriesSorted(t *testing.T) {
	entries := Default().Entries()
	assert.True(t, sort.SliceIsSorted(entries, func(i, j int) bool {
		return entries[i].ShapeKey < entries[j].ShapeKey
	}))
}

func TestNewDeduplicates(t *testing.T) {
	cat := New([]models.CatalogEntry{
		{ShapeKey: "t3.small", HourlyPrice: 0.01},
		{ShapeKey: "t3.small", HourlyPrice: 0.02},
	})
	assert.Equal(t, 1, cat.Len())
	entry, _ := cat.Lookup("t3.small")
	assert.InDelta(t, 0.02, entry.HourlyPrice, 1e-9)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	content := `entries:
  - shapeKey: custom.large
    capacity: {vcpu: 4, memoryGiB: 16, architecture: x86_64}
    hourlyPrice: 0.2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cat, err := LoadFile(path)
	require.NoError(t, err)
	entry, ok := cat.Lookup("custom.large")
	require.True(t, ok)
	assert.Equal(t, 4, entry.Capacity.VCPU)
}

func TestLoadFileErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})

	t.Run("empty catalog", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "empty.yaml")
		require.NoError(t, os.WriteFile(path, []byte("entries: []"), 0o644))
		_, err := LoadFile(path)
		assert.ErrorContains(t, err, "no entries")
	})

	t.Run("negative price", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		content := `entries:
  - shapeKey: t3.small
    capacity: {vcpu: 2, memoryGiB: 2, architecture: x86_64}
    hourlyPrice: -1
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := LoadFile(path)
		assert.ErrorContains(t, err, "negative price")
	})

	t.Run("empty shape key", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "nokey.yaml")
		content := `entries:
  - capacity: {vcpu: 2, memoryGiB: 2}
    hourlyPrice: 0.1
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
		_, err := LoadFile(path)
		assert.ErrorContains(t, err, "empty shape key")
	})
}
