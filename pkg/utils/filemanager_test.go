package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsCatalogFile(t *testing.T) {
	assert.True(t, IsCatalogFile("supplier.csv"))
	assert.True(t, IsCatalogFile("SUPPLIER.XLSX"))
	assert.True(t, IsCatalogFile("data.tsv"))
	assert.False(t, IsCatalogFile("notes.pdf"))
	assert.False(t, IsCatalogFile("archive.zip"))
}

func TestDiscoverCatalogFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	for _, name := range []string{"a.csv", "b.xlsx", "ignore.pdf", "sub/c.tsv"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}

	files, err := DiscoverCatalogFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	for _, f := range files {
		assert.True(t, IsCatalogFile(f), "unexpected file %s", f)
	}
}

func TestUniqueExportName(t *testing.T) {
	a := UniqueExportName("scan_results", ".csv")
	b := UniqueExportName("scan_results", ".csv")

	assert.NotEqual(t, a, b)
	assert.Contains(t, a, "scan_results_")
	assert.Equal(t, ".csv", filepath.Ext(a))
}

func TestFileExists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.txt")
	assert.False(t, FileExists(path))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	assert.True(t, FileExists(path))
}
