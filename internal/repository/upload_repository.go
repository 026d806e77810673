package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/creatorpulse/analytics-api/internal/models"
)

type UploadRepository interface {
	Create(ctx context.Context, tx *sql.Tx, batch *models.UploadBatch) error
	GetByID(ctx context.Context, id string) (*models.UploadBatch, error)
	List(ctx context.Context, limit int) ([]*models.UploadBatch, error)
	SetArchiveKey(ctx context.Context, id, key string) error
}

type uploadRepository struct {
	db *sql.DB
}

func NewUploadRepository(db *sql.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(ctx context.Context, tx *sql.Tx, batch *models.UploadBatch) error {
	query := `
		INSERT INTO upload_batches (id, file_name, snapshot_date, signature, row_count,
			posts_created, posts_updated, snapshots_created, snapshots_updated, error_count, archive_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, batch.ID, batch.FileName, batch.SnapshotDate,
			batch.Signature, batch.RowCount, batch.PostsCreated, batch.PostsUpdated,
			batch.SnapshotsCreated, batch.SnapshotsUpdated, batch.ErrorCount, batch.ArchiveKey)
	} else {
		_, err = r.db.ExecContext(ctx, query, batch.ID, batch.FileName, batch.SnapshotDate,
			batch.Signature, batch.RowCount, batch.PostsCreated, batch.PostsUpdated,
			batch.SnapshotsCreated, batch.SnapshotsUpdated, batch.ErrorCount, batch.ArchiveKey)
	}
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}

func (r *uploadRepository) GetByID(ctx context.Context, id string) (*models.UploadBatch, error) {
	query := `SELECT id, file_name, snapshot_date, signature, row_count, posts_created, posts_updated,
		snapshots_created, snapshots_updated, error_count, archive_key, created_at
		FROM upload_batches WHERE id = $1`

	var b models.UploadBatch
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.FileName, &b.SnapshotDate,
		&b.Signature, &b.RowCount, &b.PostsCreated, &b.PostsUpdated, &b.SnapshotsCreated,
		&b.SnapshotsUpdated, &b.ErrorCount, &b.ArchiveKey, &b.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &b, nil
}

func (r *uploadRepository) List(ctx context.Context, limit int) ([]*models.UploadBatch, error) {
	query := `SELECT id, file_name, snapshot_date, signature, row_count, posts_created, posts_updated,
		snapshots_created, snapshots_updated, error_count, archive_key, created_at
		FROM upload_batches ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var batches []*models.UploadBatch
	for rows.Next() {
		var b models.UploadBatch
		err := rows.Scan(&b.ID, &b.FileName, &b.SnapshotDate, &b.Signature, &b.RowCount,
			&b.PostsCreated, &b.PostsUpdated, &b.SnapshotsCreated, &b.SnapshotsUpdated,
			&b.ErrorCount, &b.ArchiveKey, &b.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		batches = append(batches, &b)
	}
	return batches, rows.Err()
}

func (r *uploadRepository) SetArchiveKey(ctx context.Context, id, key string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE upload_batches SET archive_key = $2 WHERE id = $1`, id, key)
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}
