package migrate

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/storefront-cart/pkg/enums"
)

func TestDialect(t *testing.T) {
	got, err := Dialect(enums.StorageDriverPostgres)
	require.NoError(t, err)
	require.Equal(t, "postgres", got)

	got, err = Dialect(enums.StorageDriverSQLite)
	require.NoError(t, err)
	require.Equal(t, "sqlite3", got)

	_, err = Dialect(enums.StorageDriverRedis)
	require.Error(t, err)
}

func TestShippedMigrationsAreValid(t *testing.T) {
	require.NoError(t, ValidateDir("migrations", CartTables...))

	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_cart_snapshots.sql"))
	require.NoError(t, err)
	require.Len(t, matches, 1)

	data, err := os.ReadFile(matches[0])
	require.NoError(t, err)
	content := string(data)
	for _, sub := range []string{
		"CREATE TABLE IF NOT EXISTS cart_snapshots",
		"state_key VARCHAR(255) PRIMARY KEY",
		"payload TEXT NOT NULL",
		"DROP TABLE IF EXISTS cart_snapshots",
	} {
		require.Contains(t, content, sub)
	}
}

func TestValidateDirRejectsBadFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad-name.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.ErrorContains(t, ValidateDir(dir), "invalid migration filename")

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_a.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_b.sql"), []byte("-- +goose Up\n-- +goose Down\n"), 0o644))
	require.ErrorContains(t, ValidateDir(dir), "duplicate migration version")

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_a.sql"), []byte("-- +goose Up\n"), 0o644))
	require.ErrorContains(t, ValidateDir(dir), "missing")

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "20260101000000_a.sql"), []byte("-- +goose Down\n-- +goose Up\n"), 0o644))
	require.ErrorContains(t, ValidateDir(dir), "Down section before Up")
}

func TestValidateDirChecksCartTables(t *testing.T) {
	write := func(dir, name, body string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644))
	}

	dir := t.TempDir()
	write(dir, "20260101000000_add_note.sql", "-- +goose Up\n-- nothing yet\n-- +goose Down\n")
	require.NoError(t, ValidateDir(dir))
	require.ErrorContains(t, ValidateDir(dir, CartTables...), "no migration creates required table cart_snapshots")

	dir = t.TempDir()
	write(dir, "20260101000000_create_cart_snapshots.sql",
		"-- +goose Up\nCREATE TABLE cart_snapshots (state_key TEXT);\n-- +goose Down\n-- DROP TABLE cart_snapshots;\n")
	require.ErrorContains(t, ValidateDir(dir, CartTables...), "Down does not drop it")

	dir = t.TempDir()
	write(dir, "20260101000000_create_cart_snapshots.sql",
		"-- +goose Up\nCREATE TABLE IF NOT EXISTS cart_snapshots (state_key TEXT);\n-- +goose Down\nDROP TABLE IF EXISTS cart_snapshots;\n")
	write(dir, "20260102000000_recreate_cart_snapshots.sql",
		"-- +goose Up\ncreate table \"cart_snapshots\" (state_key TEXT);\n-- +goose Down\ndrop table cart_snapshots;\n")
	require.ErrorContains(t, ValidateDir(dir, CartTables...), "created by both")
}

func TestCreateSQLMigration(t *testing.T) {
	dir := t.TempDir()
	path, err := CreateSQLMigration(dir, "Add Cart Index!")
	require.NoError(t, err)
	require.True(t, strings.HasSuffix(path, "_add_cart_index.sql"))
	require.NoError(t, ValidateDir(dir))

	_, err = CreateSQLMigration(dir, "!!!")
	require.Error(t, err)
	_, err = CreateSQLMigration("", "x")
	require.Error(t, err)
}

func TestRunAppliesMigrationsOnSQLite(t *testing.T) {
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	ctx := context.Background()
	require.NoError(t, Run(ctx, sqlDB, "sqlite3", "migrations", "up"))
	require.True(t, conn.Migrator().HasTable("cart_snapshots"))

	require.NoError(t, Run(ctx, sqlDB, "sqlite3", "migrations", "down"))
	require.False(t, conn.Migrator().HasTable("cart_snapshots"))

	require.Error(t, Run(ctx, nil, "sqlite3", "migrations", "up"))
}
