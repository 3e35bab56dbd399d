package database_test

import (
	"testing"

	"akun/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SQLiteMigratesSchema(t *testing.T) {
	db, err := database.Open(database.DriverSQLite, "file:database_test?mode=memory&cache=shared")
	require.NoError(t, err)

	assert.True(t, db.Migrator().HasTable("users"))
	assert.True(t, db.Migrator().HasTable("products"))
	assert.True(t, db.Migrator().HasColumn("users", "email_verified_at"))
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := database.Open("oracle", "")
	assert.ErrorContains(t, err, "unsupported database driver")
}
