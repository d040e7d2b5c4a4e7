package postgres

import (
	"context"
	"io/fs"
	"testing"

	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmbeddedMigrations(t *testing.T) {
	ups, err := fs.Glob(migrations, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrations, "migrations/*.down.sql")
	require.NoError(t, err)
	assert.Len(t, downs, len(ups), "every migration is reversible")

	src, err := iofs.New(migrations, "migrations")
	require.NoError(t, err)
	defer src.Close()

	first, err := src.First()
	require.NoError(t, err)
	assert.Equal(t, uint(1), first)

	next, err := src.Next(first)
	require.NoError(t, err)
	assert.Equal(t, uint(2), next)

	body, err := migrations.ReadFile("migrations/002_audit.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(body), "audit_events")
}

func TestNewWithoutURL(t *testing.T) {
	db, err := New(context.Background(), Config{})
	assert.NoError(t, err)
	assert.Nil(t, db)
}
