package job

import (
	"context"
	"log/slog"

	"github.com/creatorpulse/analytics-api/internal/models"
	"github.com/creatorpulse/analytics-api/internal/repository"
	"github.com/creatorpulse/analytics-api/internal/service"
)

// EarningsRollupJob recomputes every active artist's lifetime royalty
// split into the artist_earnings cache.
type EarningsRollupJob struct {
	ar repository.ArtistRepository
	sr repository.SnapshotRepository
	er repository.EarningsRepository
}

func NewEarningsRollupJob(
	ar repository.ArtistRepository,
	sr repository.SnapshotRepository,
	er repository.EarningsRepository) *EarningsRollupJob {
	return &EarningsRollupJob{ar: ar, sr: sr, er: er}
}

func (j *EarningsRollupJob) Run() {
	ctx := context.Background()

	ids, err := j.ar.ListIDs(ctx)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	for _, id := range ids {
		artist, err := j.ar.GetByID(ctx, id)
		if err != nil || artist == nil {
			continue
		}

		total, err := j.sr.SumArtistEarnings(ctx, id)
		if err != nil {
			slog.Info(err.Error())
			continue
		}

		share, fee := service.SplitRoyalty(total, artist.RoyaltyRate)
		rollup := &models.ArtistEarnings{
			ArtistID:           id,
			TotalEarningsCents: total,
			ArtistShareCents:   share,
			PlatformFeeCents:   fee,
		}
		if err := j.er.Upsert(ctx, rollup); err != nil {
			slog.Info(err.Error())
		}
	}
}
