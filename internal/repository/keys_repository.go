package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/creatorpulse/analytics-api/internal/models"
)

type ApiKeyRepository interface {
	Create(ctx context.Context, key *models.ApiKey) (int64, error)
	List(ctx context.Context) ([]*models.ApiKey, error)
	Exists(ctx context.Context, apiKey string) (bool, error)
	Delete(ctx context.Context, id int64) error
}

type apiKeyRepository struct {
	db *sql.DB
}

func NewApiKeyRepository(db *sql.DB) ApiKeyRepository {
	return &apiKeyRepository{db: db}
}

func (r *apiKeyRepository) Create(ctx context.Context, key *models.ApiKey) (int64, error) {
	query := `INSERT INTO api_keys (label, api_key) VALUES ($1, $2) RETURNING id`

	var id int64
	err := r.db.QueryRowContext(ctx, query, key.Label, key.ApiKey).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *apiKeyRepository) List(ctx context.Context) ([]*models.ApiKey, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, label, api_key, created_at FROM api_keys ORDER BY id`)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var keys []*models.ApiKey
	for rows.Next() {
		var k models.ApiKey
		if err := rows.Scan(&k.ID, &k.Label, &k.ApiKey, &k.CreatedAt); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (r *apiKeyRepository) Exists(ctx context.Context, apiKey string) (bool, error) {
	var result int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM api_keys WHERE api_key = $1`, apiKey).Scan(&result)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}
	return result == 1, nil
}

func (r *apiKeyRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM api_keys WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}
