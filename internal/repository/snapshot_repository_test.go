package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
)

// snapshotConflictDriver rejects every write with a unique-constraint
// violation, the way Postgres rejects a snapshot-date move that would
// collide with rows already present on the target date.
type snapshotConflictDriver struct{}

type snapshotConflictConn struct{}

func (snapshotConflictDriver) Open(name string) (driver.Conn, error) {
	return &snapshotConflictConn{}, nil
}

func (c *snapshotConflictConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("not implemented")
}
func (c *snapshotConflictConn) Close() error { return nil }
func (c *snapshotConflictConn) Begin() (driver.Tx, error) {
	return nil, errors.New("not implemented")
}

func (c *snapshotConflictConn) ExecContext(ctx context.Context, query string, args []driver.NamedValue) (driver.Result, error) {
	return nil, &pq.Error{
		Code:    "23505",
		Message: `duplicate key value violates unique constraint "snapshots_post_id_snapshot_date_key"`,
	}
}

func init() {
	sql.Register("snapshotConflict", snapshotConflictDriver{})
}

func TestMoveDateConflict(t *testing.T) {
	db, err := sql.Open("snapshotConflict", "")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	repo := NewSnapshotRepository(db)

	oldDate := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	newDate := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

	moved, err := repo.MoveDate(context.Background(), oldDate, newDate, []string{"100001", "100002"})
	if err == nil {
		t.Fatal("expected unique violation error")
	}
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) || pqErr.Code != "23505" {
		t.Errorf("error = %v, want unique violation", err)
	}
	if moved != 0 {
		t.Errorf("moved = %d, want 0 when the rename is rejected", moved)
	}
}
