package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/creatorpulse/analytics-api/internal/models"
)

type EarningsRepository interface {
	Upsert(ctx context.Context, e *models.ArtistEarnings) error
	GetByArtistID(ctx context.Context, artistID int64) (*models.ArtistEarnings, error)
}

type earningsRepository struct {
	db *sql.DB
}

func NewEarningsRepository(db *sql.DB) EarningsRepository {
	return &earningsRepository{db: db}
}

func (r *earningsRepository) Upsert(ctx context.Context, e *models.ArtistEarnings) error {
	query := `
		INSERT INTO artist_earnings (artist_id, total_earnings_cents, artist_share_cents, platform_fee_cents, computed_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (artist_id) DO UPDATE
		SET total_earnings_cents = EXCLUDED.total_earnings_cents,
			artist_share_cents = EXCLUDED.artist_share_cents,
			platform_fee_cents = EXCLUDED.platform_fee_cents,
			computed_at = NOW()
	`

	_, err := r.db.ExecContext(ctx, query, e.ArtistID, e.TotalEarningsCents, e.ArtistShareCents, e.PlatformFeeCents)
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}

func (r *earningsRepository) GetByArtistID(ctx context.Context, artistID int64) (*models.ArtistEarnings, error) {
	query := `SELECT artist_id, total_earnings_cents, artist_share_cents, platform_fee_cents, computed_at
		FROM artist_earnings WHERE artist_id = $1`

	var e models.ArtistEarnings
	err := r.db.QueryRowContext(ctx, query, artistID).Scan(&e.ArtistID, &e.TotalEarningsCents,
		&e.ArtistShareCents, &e.PlatformFeeCents, &e.ComputedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &e, nil
}
