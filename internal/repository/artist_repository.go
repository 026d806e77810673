package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/creatorpulse/analytics-api/internal/models"
)

type ArtistRepository interface {
	Create(ctx context.Context, artist *models.Artist) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Artist, error)
	List(ctx context.Context) ([]*models.Artist, error)
	ListIDs(ctx context.Context) ([]int64, error)
	Update(ctx context.Context, artist *models.Artist) error
	Delete(ctx context.Context, id int64) error
}

type artistRepository struct {
	db *sql.DB
}

func NewArtistRepository(db *sql.DB) ArtistRepository {
	return &artistRepository{db: db}
}

func (r *artistRepository) Create(ctx context.Context, artist *models.Artist) (int64, error) {
	query := `
		INSERT INTO artists (name, email, royalty_rate, notes, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	var id int64
	err := r.db.QueryRowContext(ctx, query, artist.Name, artist.Email, artist.RoyaltyRate,
		artist.Notes, artist.Status).Scan(&id)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return id, nil
}

func (r *artistRepository) GetByID(ctx context.Context, id int64) (*models.Artist, error) {
	query := `SELECT id, name, email, royalty_rate, notes, status, created_at, updated_at
		FROM artists WHERE id = $1`

	var a models.Artist
	err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Name, &a.Email, &a.RoyaltyRate,
		&a.Notes, &a.Status, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &a, nil
}

func (r *artistRepository) List(ctx context.Context) ([]*models.Artist, error) {
	query := `SELECT id, name, email, royalty_rate, notes, status, created_at, updated_at
		FROM artists ORDER BY name`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var artists []*models.Artist
	for rows.Next() {
		var a models.Artist
		err := rows.Scan(&a.ID, &a.Name, &a.Email, &a.RoyaltyRate, &a.Notes, &a.Status,
			&a.CreatedAt, &a.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		artists = append(artists, &a)
	}
	return artists, rows.Err()
}

func (r *artistRepository) ListIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM artists WHERE status = $1`, models.ArtistStatusActive)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *artistRepository) Update(ctx context.Context, artist *models.Artist) error {
	query := `
		UPDATE artists
		SET name = $2, email = $3, royalty_rate = $4, notes = $5, status = $6, updated_at = NOW()
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, artist.ID, artist.Name, artist.Email,
		artist.RoyaltyRate, artist.Notes, artist.Status)
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}

func (r *artistRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM artists WHERE id = $1`, id)
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}
