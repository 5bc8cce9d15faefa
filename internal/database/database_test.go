package database

import (
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/mastermind/assets"
)

func TestMigrate_Embedded(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(db, assets.Migrations()))
	// Second run is a no-op.
	require.NoError(t, Migrate(db, assets.Migrations()))

	for _, table := range []string{"users", "games", "daily_results"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		assert.NoError(t, err, "table %s", table)
	}

	var applied int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations`).Scan(&applied))
	assert.Equal(t, 1, applied)
}

func TestMigrate_OrderAndFailure(t *testing.T) {
	db, err := Open(":memory:")
	require.NoError(t, err)
	defer db.Close()

	fsys := fstest.MapFS{
		"002_b.sql": {Data: []byte(`INSERT INTO t(v) VALUES ('second');`)},
		"001_a.sql": {Data: []byte(`CREATE TABLE t (v TEXT);`)},
		"notes.txt": {Data: []byte(`ignored`)},
	}
	require.NoError(t, Migrate(db, fsys))

	var v string
	require.NoError(t, db.QueryRow(`SELECT v FROM t`).Scan(&v))
	assert.Equal(t, "second", v)

	bad := fstest.MapFS{"003_bad.sql": {Data: []byte(`CREATE TABLE;`)}}
	assert.Error(t, Migrate(db, bad))

	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(1) FROM _migrations WHERE name='003_bad.sql'`).Scan(&n))
	assert.Zero(t, n, "failed migration must not be recorded")
}

func TestOpen_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.db")
	db, err := Open(path)
	require.NoError(t, err)
	defer db.Close()
	assert.NoError(t, db.Ping())
	assert.FileExists(t, path)
}
