package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"mime/multipart"

	"github.com/redis/go-redis/v9"

	"github.com/creatorpulse/analytics-api/internal/repository"
	"github.com/creatorpulse/analytics-api/internal/transfer"
)

type DuplicateService interface {
	Check(ctx context.Context, snapshotDate string, fh *multipart.FileHeader) (*transfer.DuplicateCheckResult, error)
	MoveSnapshotDate(ctx context.Context, req *transfer.SnapshotDateUpdate) error
}

type duplicateService struct {
	sr        repository.SnapshotRepository
	rdb       *redis.Client
	threshold float64 // postID-set overlap at or above which a file counts as duplicate
}

func NewDuplicateService(sr repository.SnapshotRepository, rdb *redis.Client, threshold float64) DuplicateService {
	if threshold <= 0 || threshold > 1 {
		threshold = 0.9
	}
	return &duplicateService{sr: sr, rdb: rdb, threshold: threshold}
}

// Check is advisory: any internal failure degrades to a negative result
// so ingestion is never blocked by the checker itself.
func (s *duplicateService) Check(ctx context.Context, snapshotDate string, fh *multipart.FileHeader) (*transfer.DuplicateCheckResult, error) {
	none := &transfer.DuplicateCheckResult{IsDuplicate: false}

	date, err := parseDate(snapshotDate)
	if err != nil {
		slog.Info(err.Error())
		return none, nil
	}
	proposed := date.Format("2006-01-02")

	parsed, err := parseCSVUpload(fh)
	if err != nil {
		slog.Info(err.Error())
		return none, nil
	}

	if s.rdb != nil {
		sig := contentSignature(parsed.PostIDs, parsed.RowCount)
		cached, err := s.rdb.Get(ctx, signatureKeyPrefix+sig).Result()
		if err == nil && cached != "" && cached != proposed {
			return &transfer.DuplicateCheckResult{
				IsDuplicate:  true,
				ExistingDate: cached,
				MatchScore:   100,
			}, nil
		}
	}

	byDate, err := s.sr.PostIDsByDates(ctx, parsed.PostIDs)
	if err != nil {
		slog.Info(err.Error())
		return none, nil
	}

	var bestDate string
	var bestOverlap float64
	for existing, overlapping := range byDate {
		if existing == proposed {
			// re-uploading the same date with corrected figures is
			// an in-place update, not a duplicate
			continue
		}

		existingDate, err := parseDate(existing)
		if err != nil {
			continue
		}
		total, err := s.sr.CountByDate(ctx, existingDate)
		if err != nil {
			slog.Info(err.Error())
			continue
		}

		overlap := len(overlapping)
		union := len(parsed.PostIDs) + total - overlap
		if union == 0 {
			continue
		}
		jaccard := float64(overlap) / float64(union)
		if jaccard > bestOverlap {
			bestOverlap = jaccard
			bestDate = existing
		}
	}

	if bestOverlap >= s.threshold {
		return &transfer.DuplicateCheckResult{
			IsDuplicate:  true,
			ExistingDate: bestDate,
			MatchScore:   int(math.Round(bestOverlap * 100)),
		}, nil
	}

	return none, nil
}

// MoveSnapshotDate renames all snapshots of the given posts from oldDate
// to newDate, as a single atomic operation.
func (s *duplicateService) MoveSnapshotDate(ctx context.Context, req *transfer.SnapshotDateUpdate) error {
	oldDate, err := parseDate(req.OldDate)
	if err != nil {
		return fmt.Errorf("invalid old date: %w", err)
	}
	newDate, err := parseDate(req.NewDate)
	if err != nil {
		return fmt.Errorf("invalid new date: %w", err)
	}

	moved, err := s.sr.MoveDate(ctx, oldDate, newDate, req.PostIDs)
	if err != nil {
		return fmt.Errorf("error moving snapshots: %w", err)
	}
	slog.Info(fmt.Sprintf("moved %d snapshots from %s to %s", moved, req.OldDate, req.NewDate))
	return nil
}
