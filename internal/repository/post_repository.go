package repository

import (
	"context"
	"database/sql"
	"log/slog"
	"strconv"
	"time"

	"github.com/creatorpulse/analytics-api/internal/models"
)

type PostFilter struct {
	Status   string
	ArtistID int64
	PostType string
	Limit    int
	Offset   int
}

type PostRepository interface {
	GetByPostID(ctx context.Context, postID string) (*models.Post, error)
	Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error)
	UpdateMetadata(ctx context.Context, tx *sql.Tx, post *models.Post) error
	List(ctx context.Context, f PostFilter) ([]*models.Post, error)
	ListByBatchID(ctx context.Context, batchID string) ([]*models.Post, error)
	ListRemovedCatalog(ctx context.Context) ([]*models.RemovedPost, error)
	ListChildren(ctx context.Context, parentPostID string) ([]*models.Post, error)
	ChainMaxIteration(ctx context.Context, postID string) (int, error)
	SetIterationLink(ctx context.Context, tx *sql.Tx, postID, parentPostID string, iteration int) error
	SetReelLink(ctx context.Context, tx *sql.Tx, postID, parentPostID string, inherit bool) error
	ClearParent(ctx context.Context, postID string) error
	DetachChildren(ctx context.Context, tx *sql.Tx, parentPostID string) error
	SetArtist(ctx context.Context, tx *sql.Tx, postID string, artistID sql.NullInt64) error
	SetStatus(ctx context.Context, tx *sql.Tx, postID, status, reason string) error
	CountByArtist(ctx context.Context, artistID int64) (int, error)
}

type postRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) PostRepository {
	return &postRepository{db: db}
}

const postColumns = `id, post_id, title, page_name, post_type, asset_tag, artist_id, status, duration,
	publish_time, removed_date, removed_reason, parent_post_id, inherit_metadata, iteration_number,
	created_batch_id, created_at, updated_at`

func scanPost(row interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.PostID, &p.Title, &p.PageName, &p.PostType, &p.AssetTag, &p.ArtistID,
		&p.Status, &p.Duration, &p.PublishTime, &p.RemovedDate, &p.RemovedReason, &p.ParentPostID,
		&p.InheritMetadata, &p.IterationNumber, &p.CreatedBatchID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) GetByPostID(ctx context.Context, postID string) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE post_id = $1`
	post, err := scanPost(r.db.QueryRowContext(ctx, query, postID))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		slog.Info(err.Error())
		return nil, err
	}
	return post, nil
}

func (r *postRepository) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	query := `
		INSERT INTO posts (post_id, title, page_name, post_type, asset_tag, artist_id, status,
			duration, publish_time, iteration_number, created_batch_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id
	`

	var id int64
	var err error

	if tx != nil {
		err = tx.QueryRowContext(ctx, query, post.PostID, post.Title, post.PageName, post.PostType,
			post.AssetTag, post.ArtistID, post.Status, post.Duration, post.PublishTime,
			post.IterationNumber, post.CreatedBatchID).Scan(&id)
	} else {
		err = r.db.QueryRowContext(ctx, query, post.PostID, post.Title, post.PageName, post.PostType,
			post.AssetTag, post.ArtistID, post.Status, post.Duration, post.PublishTime,
			post.IterationNumber, post.CreatedBatchID).Scan(&id)
	}
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}

	return id, nil
}

// UpdateMetadata refreshes the fields a CSV export owns. Status, removal
// bookkeeping, artist assignment and link fields are never touched here.
func (r *postRepository) UpdateMetadata(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	query := `
		UPDATE posts
		SET title = $2, page_name = $3, post_type = $4, asset_tag = COALESCE($5, asset_tag),
			duration = COALESCE($6, duration), publish_time = COALESCE($7, publish_time), updated_at = NOW()
		WHERE post_id = $1
	`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, post.PostID, post.Title, post.PageName, post.PostType,
			post.AssetTag, post.Duration, post.PublishTime)
	} else {
		_, err = r.db.ExecContext(ctx, query, post.PostID, post.Title, post.PageName, post.PostType,
			post.AssetTag, post.Duration, post.PublishTime)
	}
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}

func (r *postRepository) List(ctx context.Context, f PostFilter) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE 1=1`
	args := []any{}

	if f.Status != "" {
		args = append(args, f.Status)
		query += ` AND status = $` + strconv.Itoa(len(args))
	}
	if f.ArtistID != 0 {
		args = append(args, f.ArtistID)
		query += ` AND artist_id = $` + strconv.Itoa(len(args))
	}
	if f.PostType != "" {
		args = append(args, f.PostType)
		query += ` AND post_type = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY publish_time DESC NULLS LAST, id DESC`
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += ` LIMIT $` + strconv.Itoa(len(args))
	}
	if f.Offset > 0 {
		args = append(args, f.Offset)
		query += ` OFFSET $` + strconv.Itoa(len(args))
	}

	return r.queryPosts(ctx, query, args...)
}

func (r *postRepository) ListByBatchID(ctx context.Context, batchID string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE created_batch_id = $1`
	return r.queryPosts(ctx, query, batchID)
}

func (r *postRepository) ListChildren(ctx context.Context, parentPostID string) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE parent_post_id = $1 AND post_type = $2`
	return r.queryPosts(ctx, query, parentPostID, models.PostTypeReel)
}

func (r *postRepository) queryPosts(ctx context.Context, query string, args ...any) ([]*models.Post, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func (r *postRepository) ListRemovedCatalog(ctx context.Context) ([]*models.RemovedPost, error) {
	query := `
		SELECT p.post_id, p.title, p.post_type, p.asset_tag, p.duration, p.removed_date,
			p.iteration_number, p.artist_id, a.name,
			COUNT(s.id), COALESCE(MAX(s.lifetime_earnings_cents), 0)
		FROM posts p
		LEFT JOIN artists a ON a.id = p.artist_id
		LEFT JOIN snapshots s ON s.post_id = p.post_id
		WHERE p.status = $1
		GROUP BY p.post_id, p.title, p.post_type, p.asset_tag, p.duration, p.removed_date,
			p.iteration_number, p.artist_id, a.name
	`

	rows, err := r.db.QueryContext(ctx, query, models.PostStatusRemoved)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var catalog []*models.RemovedPost
	for rows.Next() {
		var rp models.RemovedPost
		err := rows.Scan(&rp.PostID, &rp.Title, &rp.PostType, &rp.AssetTag, &rp.Duration,
			&rp.RemovedDate, &rp.IterationNumber, &rp.ArtistID, &rp.ArtistName,
			&rp.SnapshotCount, &rp.EarningsCents)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		catalog = append(catalog, &rp)
	}
	return catalog, rows.Err()
}

// ChainMaxIteration walks the iteration chain containing postID in both
// directions and returns the highest iteration number seen.
func (r *postRepository) ChainMaxIteration(ctx context.Context, postID string) (int, error) {
	query := `
		WITH RECURSIVE chain AS (
			SELECT post_id, parent_post_id, iteration_number FROM posts WHERE post_id = $1
			UNION
			SELECT p.post_id, p.parent_post_id, p.iteration_number
			FROM posts p
			JOIN chain c ON p.post_id = c.parent_post_id OR p.parent_post_id = c.post_id
		)
		SELECT COALESCE(MAX(iteration_number), 1) FROM chain
	`

	var max int
	if err := r.db.QueryRowContext(ctx, query, postID).Scan(&max); err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return max, nil
}

func (r *postRepository) SetIterationLink(ctx context.Context, tx *sql.Tx, postID, parentPostID string, iteration int) error {
	query := `UPDATE posts SET parent_post_id = $2, iteration_number = $3, updated_at = NOW() WHERE post_id = $1`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, postID, parentPostID, iteration)
	} else {
		_, err = r.db.ExecContext(ctx, query, postID, parentPostID, iteration)
	}
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}

func (r *postRepository) SetReelLink(ctx context.Context, tx *sql.Tx, postID, parentPostID string, inherit bool) error {
	query := `UPDATE posts SET parent_post_id = $2, inherit_metadata = $3, updated_at = NOW() WHERE post_id = $1`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, postID, parentPostID, inherit)
	} else {
		_, err = r.db.ExecContext(ctx, query, postID, parentPostID, inherit)
	}
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}

func (r *postRepository) ClearParent(ctx context.Context, postID string) error {
	query := `UPDATE posts SET parent_post_id = NULL, inherit_metadata = FALSE, updated_at = NOW() WHERE post_id = $1`
	_, err := r.db.ExecContext(ctx, query, postID)
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}

func (r *postRepository) DetachChildren(ctx context.Context, tx *sql.Tx, parentPostID string) error {
	query := `UPDATE posts SET parent_post_id = NULL, inherit_metadata = FALSE, updated_at = NOW()
		WHERE parent_post_id = $1 AND post_type = $2`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, parentPostID, models.PostTypeReel)
	} else {
		_, err = r.db.ExecContext(ctx, query, parentPostID, models.PostTypeReel)
	}
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}

func (r *postRepository) SetArtist(ctx context.Context, tx *sql.Tx, postID string, artistID sql.NullInt64) error {
	query := `UPDATE posts SET artist_id = $2, updated_at = NOW() WHERE post_id = $1`

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, postID, artistID)
	} else {
		_, err = r.db.ExecContext(ctx, query, postID, artistID)
	}
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}

func (r *postRepository) SetStatus(ctx context.Context, tx *sql.Tx, postID, status, reason string) error {
	var query string
	var args []any
	if status == models.PostStatusRemoved {
		query = `UPDATE posts SET status = $2, removed_date = $3, removed_reason = $4, updated_at = NOW() WHERE post_id = $1`
		args = []any{postID, status, time.Now(), reason}
	} else {
		query = `UPDATE posts SET status = $2, removed_date = NULL, removed_reason = NULL, updated_at = NOW() WHERE post_id = $1`
		args = []any{postID, status}
	}

	var err error
	if tx != nil {
		_, err = tx.ExecContext(ctx, query, args...)
	} else {
		_, err = r.db.ExecContext(ctx, query, args...)
	}
	if err != nil {
		slog.Info(err.Error())
	}
	return err
}

func (r *postRepository) CountByArtist(ctx context.Context, artistID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts WHERE artist_id = $1`, artistID).Scan(&count)
	if err != nil {
		slog.Info(err.Error())
		return 0, err
	}
	return count, nil
}
