package db

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/agentops/licensetrack/pkg/config"
	"github.com/agentops/licensetrack/pkg/logger"
)

type testModel struct {
	ID   int
	Name string `gorm:"uniqueIndex"`
}

func newTestClient(t *testing.T) *Client {
	t.Helper()
	client, err := New(context.Background(), config.DBConfig{
		Driver: config.DriverSQLite,
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
	}, nil)
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	if err := client.DB().AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("failed to migrate sqlite: %v", err)
	}
	return client
}

func TestNewRequiresDSN(t *testing.T) {
	if _, err := New(context.Background(), config.DBConfig{}, nil); err == nil {
		t.Fatal("expected error for empty dsn")
	}
}

func TestWithTx_CommitsAndRollbacks(t *testing.T) {
	client := newTestClient(t)
	db := client.DB()

	ctx := context.Background()
	if err := client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}); err != nil {
		t.Fatalf("WithTx commit failed: %v", err)
	}

	var count int64
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 record, got %d", count)
	}

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected WithTx to return an error")
	}
	if err := db.Model(&testModel{}).Count(&count).Error; err != nil {
		t.Fatalf("count failed after rollback: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected rollback to leave 1 record, got %d", count)
	}
}

func TestIsUniqueViolationDetectsSQLite(t *testing.T) {
	client := newTestClient(t)
	db := client.DB()
	if err := db.Create(&testModel{Name: "dup"}).Error; err != nil {
		t.Fatalf("first insert: %v", err)
	}
	err := db.Create(&testModel{Name: "dup"}).Error
	if !IsUniqueViolation(err, "") {
		t.Fatalf("expected unique violation, got %v", err)
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error is not a violation")
	}
}

func TestIsUniqueViolationNarrowsByIndex(t *testing.T) {
	err := fmt.Errorf("create salesman: %w", &pgconn.PgError{Code: "23505", ConstraintName: "idx_salesmen_npn"})
	if !IsUniqueViolation(err, "idx_salesmen_npn") {
		t.Fatalf("expected violation on idx_salesmen_npn, got %v", err)
	}
	if IsUniqueViolation(err, "idx_salesmen_associate_oid") {
		t.Fatal("violation must not match a different index")
	}
	notUnique := &pgconn.PgError{Code: "23503", ConstraintName: "idx_salesmen_npn"}
	if IsUniqueViolation(notUnique, "") {
		t.Fatal("foreign key failure is not a unique violation")
	}
}

func TestPing(t *testing.T) {
	client := newTestClient(t)
	if err := client.Ping(context.Background()); err != nil {
		t.Fatalf("unexpected ping error: %v", err)
	}
}

func TestQueryLoggerReportsFailuresAndSlowQueries(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "db-test", Output: buf, Format: logger.FormatJSON})
	client, err := New(context.Background(), config.DBConfig{
		Driver:             config.DriverSQLite,
		DSN:                fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString()),
		SlowQueryThreshold: time.Hour,
	}, logg)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = client.Close() })
	if err := client.DB().AutoMigrate(&testModel{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	buf.Reset()

	var missing testModel
	if err := client.DB().First(&missing, "name = ?", "nobody").Error; !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("record not found must not be logged, got %s", buf.String())
	}

	if err := client.DB().Exec("SELECT * FROM no_such_table").Error; err == nil {
		t.Fatal("expected sql error")
	}
	if !bytes.Contains(buf.Bytes(), []byte("db.query_failed")) || !bytes.Contains(buf.Bytes(), []byte("no_such_table")) {
		t.Fatalf("expected failed query log, got %s", buf.String())
	}

	buf.Reset()
	slow := newQueryLogger(logg, time.Nanosecond)
	slow.Trace(context.Background(), time.Now().Add(-time.Second), func() (string, int64) { return "SELECT 1", 1 }, nil)
	if !bytes.Contains(buf.Bytes(), []byte("db.slow_query")) {
		t.Fatalf("expected slow query log, got %s", buf.String())
	}
}
