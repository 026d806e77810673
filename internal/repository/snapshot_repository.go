package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"github.com/creatorpulse/analytics-api/internal/models"
)

type SnapshotRepository interface {
	GetByPostAndDate(ctx context.Context, postID string, date time.Time) (*models.Snapshot, error)
	Create(ctx context.Context, tx *sql.Tx, s *models.Snapshot) error
	Update(ctx context.Context, tx *sql.Tx, s *models.Snapshot) error
	ListByPostID(ctx context.Context, postID string) ([]*models.Snapshot, error)
	CountByPostID(ctx context.Context, postID string) (int, error)
	PostIDsByDates(ctx context.Context, postIDs []string) (map[string][]string, error)
	CountByDate(ctx context.Context, date time.Time) (int, error)
	MoveDate(ctx context.Context, oldDate, newDate time.Time, postIDs []string) (int64, error)
	SumArtistEarningsAsOf(ctx context.Context, artistID int64, asOf time.Time) (int64, error)
	SumArtistEarnings(ctx context.Context, artistID int64) (int64, error)
}

type snapshotRepository struct {
	db *sql.DB
}

func NewSnapshotRepository(db *sql.DB) SnapshotRepository {
	return &snapshotRepository{db: db}
}

func (r *snapshotRepository) GetByPostAndDate(ctx context.Context, postID string, date time.Time) (*models.Snapshot, error) {
	query := `SELECT id, post_id, snapshot_date, lifetime_earnings_cents, lifetime_qualified_views,
		lifetime_views, reach, engagement, created_at, updated_at
		FROM snapshots WHERE post_id = $1 AND snapshot_date = $2`

	var s models.Snapshot
	err := r.db.QueryRowContext(ctx, query, postID, date).Scan(&s.ID, &s.PostID, &s.SnapshotDate,
		&s.LifetimeEarningsCents, &s.LifetimeQualifiedViews, &s.LifetimeViews, &s.Reach,
		&s.Engagement, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return &s, nil
}

func (r *snapshotRepository) Create(ctx context.Context, tx *sql.Tx, s *models.Snapshot) error {
	query := `
		INSERT INTO snapshots (post_id, snapshot_date, lifetime_earnings_cents,
			lifetime_qualified_views, lifetime_views, reach, engagement)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	var err error
	if tx != nil {
		err = tx.QueryRowContext(ctx, query, s.PostID, s.SnapshotDate, s.LifetimeEarningsCents,
			s.LifetimeQualifiedViews, s.LifetimeViews, s.Reach, s.Engagement).Scan(&s.ID)
	} else {
		err = r.db.QueryRowContext(ctx, query, s.PostID, s.SnapshotDate, s.LifetimeEarningsCents,
			s.LifetimeQualifiedViews, s.LifetimeViews, s.Reach, s.Engagement).Scan(&s.ID)
	}
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}

// Update rewrites the metric columns of an existing (post, date) row.
// Re-uploading the same date with corrected figures lands here.
func (r *snapshotRepository) Update(ctx context.Context, tx *sql.Tx, s *models.Snapshot) error {
	query := `
		UPDATE snapshots
		SET lifetime_earnings_cents = $3, lifetime_qualified_views = $4, lifetime_views = $5,
			reach = $6, engagement = $7, updated_at = NOW()
		WHERE post_id = $1 AND snapshot_date = $2
	`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, s.PostID, s.SnapshotDate, s.LifetimeEarningsCents,
			s.LifetimeQualifiedViews, s.LifetimeViews, s.Reach, s.Engagement)
	} else {
		_, err = r.db.ExecContext(ctx, query, s.PostID, s.SnapshotDate, s.LifetimeEarningsCents,
			s.LifetimeQualifiedViews, s.LifetimeViews, s.Reach, s.Engagement)
	}
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}

func (r *snapshotRepository) ListByPostID(ctx context.Context, postID string) ([]*models.Snapshot, error) {
	query := `SELECT id, post_id, snapshot_date, lifetime_earnings_cents, lifetime_qualified_views,
		lifetime_views, reach, engagement, created_at, updated_at
		FROM snapshots WHERE post_id = $1 ORDER BY snapshot_date`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var snapshots []*models.Snapshot
	for rows.Next() {
		var s models.Snapshot
		err := rows.Scan(&s.ID, &s.PostID, &s.SnapshotDate, &s.LifetimeEarningsCents,
			&s.LifetimeQualifiedViews, &s.LifetimeViews, &s.Reach, &s.Engagement,
			&s.CreatedAt, &s.UpdatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		snapshots = append(snapshots, &s)
	}
	return snapshots, rows.Err()
}

func (r *snapshotRepository) CountByPostID(ctx context.Context, postID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots WHERE post_id = $1`, postID).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

// PostIDsByDates returns, for every snapshot date that shares at least one
// of the given postIDs, the overlapping postIDs under that date. Dates are
// keyed in YYYY-MM-DD form.
func (r *snapshotRepository) PostIDsByDates(ctx context.Context, postIDs []string) (map[string][]string, error) {
	query := `SELECT snapshot_date, post_id FROM snapshots WHERE post_id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(postIDs))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	byDate := make(map[string][]string)
	for rows.Next() {
		var date time.Time
		var postID string
		if err := rows.Scan(&date, &postID); err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		key := date.Format("2006-01-02")
		byDate[key] = append(byDate[key], postID)
	}
	return byDate, rows.Err()
}

func (r *snapshotRepository) CountByDate(ctx context.Context, date time.Time) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM snapshots WHERE snapshot_date = $1`, date).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}

// MoveDate renames every snapshot for the given posts from oldDate to
// newDate in one statement. The unique (post_id, snapshot_date) index
// rejects the whole move if any target row already exists.
func (r *snapshotRepository) MoveDate(ctx context.Context, oldDate, newDate time.Time, postIDs []string) (int64, error) {
	query := `UPDATE snapshots SET snapshot_date = $2, updated_at = NOW()
		WHERE snapshot_date = $1 AND post_id = ANY($3)`

	res, err := r.db.ExecContext(ctx, query, oldDate, newDate, pq.Array(postIDs))
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return res.RowsAffected()
}

// SumArtistEarningsAsOf sums, over every post assigned to the artist, the
// latest lifetime earnings figure recorded on or before asOf.
func (r *snapshotRepository) SumArtistEarningsAsOf(ctx context.Context, artistID int64, asOf time.Time) (int64, error) {
	query := `
		SELECT COALESCE(SUM(lifetime_earnings_cents), 0) FROM (
			SELECT DISTINCT ON (s.post_id) s.lifetime_earnings_cents
			FROM snapshots s
			JOIN posts p ON p.post_id = s.post_id
			WHERE p.artist_id = $1 AND s.snapshot_date <= $2
			ORDER BY s.post_id, s.snapshot_date DESC
		) latest
	`

	var total int64
	if err := r.db.QueryRowContext(ctx, query, artistID, asOf).Scan(&total); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return total, nil
}

func (r *snapshotRepository) SumArtistEarnings(ctx context.Context, artistID int64) (int64, error) {
	query := `
		SELECT COALESCE(SUM(lifetime_earnings_cents), 0) FROM (
			SELECT DISTINCT ON (s.post_id) s.lifetime_earnings_cents
			FROM snapshots s
			JOIN posts p ON p.post_id = s.post_id
			WHERE p.artist_id = $1
			ORDER BY s.post_id, s.snapshot_date DESC
		) latest
	`

	var total int64
	if err := r.db.QueryRowContext(ctx, query, artistID).Scan(&total); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return total, nil
}
