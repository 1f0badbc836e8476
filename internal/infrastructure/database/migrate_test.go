package database

import (
	"io/fs"
	"testing"

	"doctor-discovery/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationURL(t *testing.T) {
	got := MigrationURL(config.DBConfig{
		Host:     "db",
		Port:     "5432",
		User:     "postgres",
		Password: "p@ss word",
		Name:     "doctor_discovery",
		SSLMode:  "disable",
	})

	assert.Equal(t, "pgx5://postgres:p%40ss%20word@db:5432/doctor_discovery?sslmode=disable", got)
}

func TestMigrationFilesArePaired(t *testing.T) {
	ups, err := fs.Glob(migrationFiles, "migrations/*.up.sql")
	require.NoError(t, err)
	downs, err := fs.Glob(migrationFiles, "migrations/*.down.sql")
	require.NoError(t, err)

	require.NotEmpty(t, ups)
	assert.Len(t, downs, len(ups))

	schema, err := fs.ReadFile(migrationFiles, "migrations/000001_init_schema.up.sql")
	require.NoError(t, err)
	assert.Contains(t, string(schema), "appointments_active_slot_key")
}
