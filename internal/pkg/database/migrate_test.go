package database

import (
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gousers/internal/pkg/database/migrations"
)

func collect(t *testing.T, dir string) goose.Migrations {
	t.Helper()
	fsys, root := migrationSource(dir)
	goose.SetBaseFS(fsys)
	t.Cleanup(func() { goose.SetBaseFS(nil) })

	found, err := goose.CollectMigrations(root, 0, goose.MaxVersion)
	require.NoError(t, err)
	return found
}

func TestMigrationSource_EmbeddedByDefault(t *testing.T) {
	fsys, root := migrationSource("")
	assert.Equal(t, migrations.FS, fsys)
	assert.Equal(t, ".", root)

	found := collect(t, "")
	require.Len(t, found, 1)
	assert.Equal(t, int64(1), found[0].Version)
}

func TestMigrationSource_DiskDirectory(t *testing.T) {
	fsys, root := migrationSource("migrations")
	assert.Nil(t, fsys)
	assert.Equal(t, "migrations", root)

	// Mesmo conjunto lido do disco (relativo ao pacote durante o teste).
	found := collect(t, "migrations")
	require.Len(t, found, 1)
	assert.Equal(t, int64(1), found[0].Version)
}
