package testutil_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecocycle/recycle-api/migrations"
	"github.com/ecocycle/recycle-api/testutil"
)

var tables = []string{"reports", "audits"}

// TestMigrations applies every migration to an empty schema, checks the
// tables exist, rolls everything back and checks they are gone.
// Other packages may already have migrated the shared test database, so the
// test starts by resetting to version 0.
func TestMigrations(t *testing.T) {
	db := testutil.NewSQLDB(t)
	ctx := context.Background()

	provider, err := goose.NewProvider(goose.DialectPostgres, db, migrations.FS)
	require.NoError(t, err, "create goose provider")

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "initial reset")

	applied, err := migrations.Up(ctx, db)
	require.NoError(t, err, "migrations up")
	assert.Equal(t, 2, applied)
	for _, table := range tables {
		assert.True(t, tableExists(t, db, table), "expected table %q after up", table)
	}

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")
	for _, table := range tables {
		assert.False(t, tableExists(t, db, table), "expected table %q gone after down", table)
	}

	// Leave the schema migrated for the packages that run after this one.
	_, err = migrations.Up(ctx, db)
	require.NoError(t, err)
}

func tableExists(t *testing.T, db *sql.DB, table string) bool {
	t.Helper()
	const q = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`
	var exists bool
	require.NoError(t, db.QueryRowContext(context.Background(), q, table).Scan(&exists))
	return exists
}
