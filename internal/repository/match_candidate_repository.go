package repository

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/creatorpulse/analytics-api/internal/models"
)

type MatchCandidateRepository interface {
	Replace(ctx context.Context, batchID string, candidates []models.MatchCandidate) error
	ListByBatchID(ctx context.Context, batchID string) ([]*models.MatchCandidate, error)
}

type matchCandidateRepository struct {
	db *sql.DB
}

func NewMatchCandidateRepository(db *sql.DB) MatchCandidateRepository {
	return &matchCandidateRepository{db: db}
}

// Replace swaps the stored candidate set for a batch. Re-running a scan
// must not accumulate stale candidates.
func (r *matchCandidateRepository) Replace(ctx context.Context, batchID string, candidates []models.MatchCandidate) error {
	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM match_candidates WHERE batch_id = $1`, batchID); err != nil {
		slog.Info(err.Error())
		return err
	}

	query := `INSERT INTO match_candidates (batch_id, post_id, candidate_post_id, match_score)
		VALUES ($1, $2, $3, $4)`
	for _, c := range candidates {
		if _, err := tx.ExecContext(ctx, query, batchID, c.PostID, c.CandidatePostID, c.MatchScore); err != nil {
			slog.Info(err.Error())
			return err
		}
	}

	return tx.Commit()
}

func (r *matchCandidateRepository) ListByBatchID(ctx context.Context, batchID string) ([]*models.MatchCandidate, error) {
	query := `SELECT id, batch_id, post_id, candidate_post_id, match_score, created_at
		FROM match_candidates WHERE batch_id = $1 ORDER BY post_id, match_score DESC`

	rows, err := r.db.QueryContext(ctx, query, batchID)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	defer rows.Close()

	var candidates []*models.MatchCandidate
	for rows.Next() {
		var c models.MatchCandidate
		err := rows.Scan(&c.ID, &c.BatchID, &c.PostID, &c.CandidatePostID, &c.MatchScore, &c.CreatedAt)
		if err != nil {
			slog.Info(err.Error())
			return nil, err
		}
		candidates = append(candidates, &c)
	}
	return candidates, rows.Err()
}
