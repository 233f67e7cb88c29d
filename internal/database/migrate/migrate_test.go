//go:build unit

package migrate

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

const repoMigrations = "../../../migrations"

func TestGetMigrationsPath(t *testing.T) {
	t.Setenv("MIGRATIONS_PATH", "")
	assert.Equal(t, "migrations", GetMigrationsPath())

	t.Setenv("MIGRATIONS_PATH", "custom/migrations")
	assert.Equal(t, "custom/migrations", GetMigrationsPath())
}

// createTestDB creates a file-backed SQLite database; golang-migrate and
// gorm must observe the same schema, which :memory: does not guarantee across connections.
func createTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "migrate.db")+"?_foreign_keys=on"), &gorm.Config{})
	require.NoError(t, err)
	return db
}

// closeTestDB closes a test database connection.
func closeTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	if db == nil {
		return
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// writeMigration writes an up migration for the sqlite driver under dir.
func writeMigration(t *testing.T, dir, name, body string) {
	t.Helper()
	driverDir := filepath.Join(dir, "sqlite")
	require.NoError(t, os.MkdirAll(driverDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(driverDir, name), []byte(body), 0o600))
}

func TestMigrateWithNilDatabase(t *testing.T) {
	err := Migrate(nil, "sqlite")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "database connection is nil")
}

func TestMigrateWithNonExistentDirectory(t *testing.T) {
	t.Setenv("MIGRATIONS_PATH", "/non/existent/path")

	db := createTestDB(t)
	defer closeTestDB(t, db)

	err := Migrate(db, "sqlite")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "migrations directory does not exist")
}

func TestMigrateWithDBError(t *testing.T) {
	t.Setenv("MIGRATIONS_PATH", repoMigrations)

	db := createTestDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	err = Migrate(db, "sqlite")
	assert.Error(t, err)
}

func TestMigrateWithUnsupportedDriver(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(tmpDir, "mysql"), 0o755))
	t.Setenv("MIGRATIONS_PATH", tmpDir)

	db := createTestDB(t)
	defer closeTestDB(t, db)

	err := Migrate(db, "mysql")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported migration driver")
}

func TestMigrateWithPostgresDriverError(t *testing.T) {
	t.Setenv("MIGRATIONS_PATH", repoMigrations)

	db := createTestDB(t)
	defer closeTestDB(t, db)

	err := Migrate(db, "postgres")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create postgres driver")
}

func TestMigrateSQLite(t *testing.T) {
	t.Setenv("MIGRATIONS_PATH", repoMigrations)

	db := createTestDB(t)
	defer closeTestDB(t, db)

	require.NoError(t, Migrate(db, "sqlite"))
	assert.True(t, db.Migrator().HasTable("teams"))
	assert.True(t, db.Migrator().HasTable("members"))

	t.Run("second run is a no-op", func(t *testing.T) {
		assert.NoError(t, Migrate(db, "sqlite"))
	})

	t.Run("deleting a team detaches its members", func(t *testing.T) {
		require.NoError(t, db.Exec("INSERT INTO teams (team_id, name) VALUES (1, 'teamA')").Error)
		require.NoError(t, db.Exec("INSERT INTO members (username, age, team_id) VALUES ('member1', 10, 1)").Error)
		require.NoError(t, db.Exec("DELETE FROM teams WHERE team_id = 1").Error)

		var teamID *int64
		require.NoError(t, db.Raw("SELECT team_id FROM members WHERE username = 'member1'").Scan(&teamID).Error)
		assert.Nil(t, teamID)
	})

	t.Run("team names are unique", func(t *testing.T) {
		require.NoError(t, db.Exec("INSERT INTO teams (name) VALUES ('teamB')").Error)
		assert.Error(t, db.Exec("INSERT INTO teams (name) VALUES ('teamB')").Error)
	})
}

func TestMigrateWithBrokenScript(t *testing.T) {
	tmpDir := t.TempDir()
	writeMigration(t, tmpDir, "000001_broken.up.sql", "CREATE TABLE (")
	t.Setenv("MIGRATIONS_PATH", tmpDir)

	db := createTestDB(t)
	defer closeTestDB(t, db)

	err := Migrate(db, "sqlite")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "failed to apply migrations")
}
