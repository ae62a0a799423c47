package migration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"create batches table", "create_batches_table"},
		{"Add-Lot-Ledger", "add_lot_ledger"},
		{"ADD__FEE__INDEX", "add_fee_index"},
		{"   spaces   ", "spaces"},
		{"special!@#$chars", "specialchars"},
		{"_leading", "leading"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, sanitizeName(tt.input))
		})
	}
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)

	f, err := Create(dir, "add archive key", "Store the manifest key on releases", now)
	require.NoError(t, err)
	assert.Equal(t, "20250301093000", f.Version)
	assert.Equal(t, filepath.Join(dir, "20250301093000_add_archive_key.up.sql"), f.UpPath)

	up, err := os.ReadFile(f.UpPath)
	require.NoError(t, err)
	assert.Contains(t, string(up), "-- Migration: add_archive_key\n")
	assert.Contains(t, string(up), "-- Description: Store the manifest key on releases")
	down, err := os.ReadFile(f.DownPath)
	require.NoError(t, err)
	assert.Contains(t, string(down), "(Rollback)")

	_, err = Create(dir, "add archive key", "", now)
	assert.Error(t, err, "same version and name must not overwrite")

	_, err = Create(dir, "!!!", "", now)
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"20250302000000_second.up.sql",
		"20250302000000_second.down.sql",
		"20250301000000_first.up.sql",
		"20250301000000_first.down.sql",
		"README.md",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("--"), 0o644))
	}

	files, err := List(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "first", files[0].Name)
	assert.Equal(t, "second", files[1].Name)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "20250303000000_orphan.up.sql"), []byte("--"), 0o644))
	_, err = List(dir)
	assert.ErrorContains(t, err, "orphan")

	files, err = List(filepath.Join(dir, "missing"))
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestRepositoryMigrationsArePaired(t *testing.T) {
	files, err := List(filepath.Join("..", "..", "..", "migrations"))
	require.NoError(t, err)
	require.NotEmpty(t, files)
	for _, f := range files {
		assert.Len(t, f.Version, len(versionLayout), f.Name)
	}
}
