package service

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"mime/multipart"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/creatorpulse/analytics-api/internal/models"
	"github.com/creatorpulse/analytics-api/internal/repository"
	"github.com/creatorpulse/analytics-api/internal/transfer"
)

const signatureKeyPrefix = "upload:sig:"
const signatureTTL = 30 * 24 * time.Hour

type IngestService interface {
	Ingest(ctx context.Context, snapshotDate string, fh *multipart.FileHeader) (*transfer.UploadResult, error)
	ListBatches(ctx context.Context, limit int) ([]*models.UploadBatch, error)
}

type ingestService struct {
	db      *sql.DB
	pr      repository.PostRepository
	sr      repository.SnapshotRepository
	ur      repository.UploadRepository
	archive *ArchiveService
	rdb     *redis.Client

	// serializes the duplicate-bookkeeping + write critical section so
	// concurrent uploads cannot race each other's duplicate checks
	mu sync.Mutex
}

func NewIngestService(
	db *sql.DB,
	pr repository.PostRepository,
	sr repository.SnapshotRepository,
	ur repository.UploadRepository,
	archive *ArchiveService,
	rdb *redis.Client) IngestService {
	return &ingestService{
		db:      db,
		pr:      pr,
		sr:      sr,
		ur:      ur,
		archive: archive,
		rdb:     rdb,
	}
}

func (s *ingestService) Ingest(ctx context.Context, snapshotDate string, fh *multipart.FileHeader) (*transfer.UploadResult, error) {
	date, err := parseDate(snapshotDate)
	if err != nil {
		return nil, fmt.Errorf("invalid snapshot date: %w", err)
	}
	date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	parsed, err := parseCSVUpload(fh)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchID := uuid.NewString()
	result := &transfer.UploadResult{BatchID: batchID}
	result.Errors = parsed.RowErrors

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		}
	}()

	seen := make(map[string]struct{})
	for _, row := range parsed.Rows {
		if rowErr := s.ingestRow(ctx, tx, batchID, date, row, seen, result); rowErr != nil {
			result.Errors = append(result.Errors, transfer.RowError{
				Row:     row.Line,
				PostID:  row.PostID,
				Message: rowErr.Error(),
			})
		}
	}

	archiveKey := fmt.Sprintf("uploads/%s.csv", batchID)
	batch := &models.UploadBatch{
		ID:               batchID,
		FileName:         parsed.FileName,
		SnapshotDate:     date,
		Signature:        contentSignature(parsed.PostIDs, parsed.RowCount),
		RowCount:         parsed.RowCount,
		PostsCreated:     result.Results.Created.Posts,
		PostsUpdated:     result.Results.Updated.Posts,
		SnapshotsCreated: result.Results.Created.Snapshots,
		SnapshotsUpdated: result.Results.Updated.Snapshots,
		ErrorCount:       len(result.Errors),
		ArchiveKey:       archiveKey,
	}
	if err = s.ur.Create(ctx, tx, batch); err != nil {
		return nil, fmt.Errorf("error recording upload batch: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	// advisory bookkeeping from here on; the batch is committed
	if s.rdb != nil {
		key := signatureKeyPrefix + batch.Signature
		if err := s.rdb.Set(ctx, key, date.Format("2006-01-02"), signatureTTL).Err(); err != nil {
			slog.Info(err.Error())
		}
	}
	if s.archive != nil {
		if err := s.archive.UploadCSV(ctx, archiveKey, parsed.Raw); err != nil {
			slog.Info("archive upload failed: " + err.Error())
		}
	}

	return result, nil
}

// ingestRow upserts one post and its snapshot. A create never clobbers an
// existing post's status, removal bookkeeping, or artist assignment.
func (s *ingestService) ingestRow(ctx context.Context, tx *sql.Tx, batchID string, date time.Time, row csvRow, seen map[string]struct{}, result *transfer.UploadResult) error {
	// a repeated postID within the file was already written through tx
	// and is invisible to reads outside it
	_, repeat := seen[row.PostID]
	seen[row.PostID] = struct{}{}

	var existing *models.Post
	if !repeat {
		var err error
		existing, err = s.pr.GetByPostID(ctx, row.PostID)
		if err != nil {
			return fmt.Errorf("error loading post: %w", err)
		}
	}

	if existing == nil && !repeat {
		post := &models.Post{
			PostID:          row.PostID,
			Title:           row.Title,
			PageName:        row.PageName,
			PostType:        row.PostType,
			Status:          models.PostStatusLive,
			IterationNumber: 1,
			CreatedBatchID:  sql.NullString{String: batchID, Valid: true},
		}
		if row.AssetTag != "" {
			post.AssetTag = sql.NullString{String: row.AssetTag, Valid: true}
		}
		if row.Duration > 0 {
			post.Duration = sql.NullInt64{Int64: row.Duration, Valid: true}
		}
		if !row.PublishTime.IsZero() {
			post.PublishTime = sql.NullTime{Time: row.PublishTime, Valid: true}
		}

		if _, err := s.pr.Create(ctx, tx, post); err != nil {
			return fmt.Errorf("error creating post: %w", err)
		}
		result.Results.Created.Posts++
		result.Summary.NewPosts = append(result.Summary.NewPosts, row.PostID)
	} else {
		update := &models.Post{
			PostID:   row.PostID,
			Title:    row.Title,
			PageName: row.PageName,
			PostType: row.PostType,
		}
		if row.AssetTag != "" {
			update.AssetTag = sql.NullString{String: row.AssetTag, Valid: true}
		}
		if row.Duration > 0 {
			update.Duration = sql.NullInt64{Int64: row.Duration, Valid: true}
		}
		if !row.PublishTime.IsZero() {
			update.PublishTime = sql.NullTime{Time: row.PublishTime, Valid: true}
		}

		if err := s.pr.UpdateMetadata(ctx, tx, update); err != nil {
			return fmt.Errorf("error updating post: %w", err)
		}
		result.Results.Updated.Posts++
	}

	snapshot := &models.Snapshot{
		PostID:                 row.PostID,
		SnapshotDate:           date,
		LifetimeEarningsCents:  row.EarningsCents,
		LifetimeQualifiedViews: row.QualifiedViews,
		LifetimeViews:          row.Views,
		Reach:                  row.Reach,
		Engagement:             row.Engagement,
	}

	var prior *models.Snapshot
	if repeat {
		prior = snapshot // force update-in-place through tx
	} else {
		var err error
		prior, err = s.sr.GetByPostAndDate(ctx, row.PostID, date)
		if err != nil {
			return fmt.Errorf("error loading snapshot: %w", err)
		}
	}
	if prior == nil {
		if err := s.sr.Create(ctx, tx, snapshot); err != nil {
			return fmt.Errorf("error creating snapshot: %w", err)
		}
		result.Results.Created.Snapshots++
	} else {
		if err := s.sr.Update(ctx, tx, snapshot); err != nil {
			return fmt.Errorf("error updating snapshot: %w", err)
		}
		result.Results.Updated.Snapshots++
	}

	return nil
}

func (s *ingestService) ListBatches(ctx context.Context, limit int) ([]*models.UploadBatch, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	return s.ur.List(ctx, limit)
}
