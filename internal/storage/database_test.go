package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/shamilbi/bookmarks-curses/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := config.DefaultConfig()
	cfg.Database.Path = filepath.Join(t.TempDir(), "test.db")
	return cfg
}

func TestNewDatabase(t *testing.T) {
	cfg := testConfig(t)

	db, err := NewDatabase(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, db)

	defer db.Close()

	// Verify database was created
	assert.FileExists(t, cfg.Database.Path)

	// Verify connection is working
	assert.True(t, db.IsConnected())

	// Verify file permissions
	info, err := os.Stat(cfg.Database.Path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestNewDatabase_WithOptions(t *testing.T) {
	cfg := testConfig(t)
	cfg.Database.SyncMode = "FULL"

	opts := &DatabaseOptions{
		CreateIfMissing: true,
		MigrateOnOpen:   true,
		ValidateSchema:  true,
	}

	db, err := NewDatabase(cfg, opts)
	require.NoError(t, err)
	require.NotNil(t, db)

	defer db.Close()

	assert.Equal(t, cfg.Database.Path, db.GetPath())
	assert.Equal(t, &cfg.Database, db.GetConfig())
}

func TestNewDatabase_ExistingDatabase(t *testing.T) {
	cfg := testConfig(t)

	// Create database first
	db1, err := NewDatabase(cfg, nil)
	require.NoError(t, err)
	db1.Close()

	// Open existing database
	db2, err := NewDatabase(cfg, nil)
	require.NoError(t, err)
	require.NotNil(t, db2)

	defer db2.Close()

	assert.True(t, db2.IsConnected())
}

func TestNewDatabase_CreateIfMissingFalse(t *testing.T) {
	cfg := testConfig(t)

	opts := &DatabaseOptions{
		Config:          &cfg.Database,
		CreateIfMissing: false,
	}

	db, err := NewDatabase(cfg, opts)
	assert.Error(t, err)
	assert.Nil(t, db)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestDatabase_SchemaCreated(t *testing.T) {
	cfg := testConfig(t)

	db, err := NewDatabase(cfg, nil)
	require.NoError(t, err)
	defer db.Close()

	for _, table := range []string{"bookmarks", "schema_version"} {
		var name string
		err := db.QueryRowContext(
			`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}

	version, err := db.GetMigrator().GetCurrentVersion()
	require.NoError(t, err)
	assert.Equal(t, CurrentSchemaVersion, version)
}

func TestDatabase_Close(t *testing.T) {
	cfg := testConfig(t)

	db, err := NewDatabase(cfg, nil)
	require.NoError(t, err)

	require.NoError(t, db.Close())

	// Closing again is a no-op
	assert.NoError(t, db.Close())
	assert.False(t, db.IsConnected())
}

func TestDatabase_Vacuum(t *testing.T) {
	cfg := testConfig(t)

	db, err := NewDatabase(cfg, nil)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.Vacuum())
}

func TestDatabase_CheckIntegrity(t *testing.T) {
	cfg := testConfig(t)

	db, err := NewDatabase(cfg, nil)
	require.NoError(t, err)
	defer db.Close()

	assert.NoError(t, db.CheckIntegrity())
}

func TestDatabase_GetSize(t *testing.T) {
	cfg := testConfig(t)

	db, err := NewDatabase(cfg, nil)
	require.NoError(t, err)
	defer db.Close()

	size, err := db.GetSize()
	require.NoError(t, err)
	assert.Greater(t, size, int64(0))
}

func TestMigrator_History(t *testing.T) {
	cfg := testConfig(t)

	db, err := NewDatabase(cfg, nil)
	require.NoError(t, err)
	defer db.Close()

	history, err := db.GetMigrator().GetMigrationHistory()
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, CurrentSchemaVersion, history[0].Version)
	assert.Greater(t, history[0].AppliedAt, int64(0))
}
