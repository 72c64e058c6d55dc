package db

import (
	"context"
	"errors"
	"testing"

	"github.com/angelmondragon/storefront-cart/pkg/config"
	"github.com/angelmondragon/storefront-cart/pkg/db/models"
	"github.com/angelmondragon/storefront-cart/pkg/enums"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	sqlDB, err := conn.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	// every pooled connection would otherwise get its own in-memory database
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := conn.AutoMigrate(&models.CartSnapshot{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return conn
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	db := newTestDB(t)
	client := NewFromGorm(db, enums.StorageDriverSQLite)

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&models.CartSnapshot{StateKey: "committed", Payload: "{}"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&models.CartSnapshot{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&models.CartSnapshot{StateKey: "rolled", Payload: "{}"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.Model(&models.CartSnapshot{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestPing(t *testing.T) {
	client := NewFromGorm(newTestDB(t), enums.StorageDriverSQLite)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
	if client.Driver() != enums.StorageDriverSQLite {
		t.Fatalf("unexpected driver %s", client.Driver())
	}
}

func TestNewSQLite(t *testing.T) {
	client, err := New(context.Background(), enums.StorageDriverSQLite, config.DBConfig{SQLitePath: "file::memory:"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}

func TestDialectorForRejectsBadInput(t *testing.T) {
	if _, err := dialectorFor(enums.StorageDriverRedis, config.DBConfig{}); err == nil {
		t.Fatal("expected non-sql driver to be rejected")
	}
	if _, err := dialectorFor(enums.StorageDriverPostgres, config.DBConfig{}); err == nil {
		t.Fatal("expected missing dsn to be rejected")
	}
	if _, err := dialectorFor(enums.StorageDriverSQLite, config.DBConfig{}); err == nil {
		t.Fatal("expected missing sqlite path to be rejected")
	}
}
