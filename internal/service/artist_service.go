package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/creatorpulse/analytics-api/internal/models"
	"github.com/creatorpulse/analytics-api/internal/repository"
	"github.com/creatorpulse/analytics-api/internal/transfer"
)

type ArtistService interface {
	Create(ctx context.Context, ac *transfer.ArtistCreation) (int64, error)
	List(ctx context.Context) ([]*models.Artist, error)
	Get(ctx context.Context, id int64) (*models.Artist, error)
	Update(ctx context.Context, id int64, au *transfer.ArtistUpdate) error
	Delete(ctx context.Context, id int64) (bool, error)
	Earnings(ctx context.Context, id int64, from, to string) (*transfer.ArtistEarningsResponse, error)
}

type artistService struct {
	ar repository.ArtistRepository
	pr repository.PostRepository
	sr repository.SnapshotRepository
	er repository.EarningsRepository
}

func NewArtistService(
	ar repository.ArtistRepository,
	pr repository.PostRepository,
	sr repository.SnapshotRepository,
	er repository.EarningsRepository) ArtistService {
	return &artistService{ar: ar, pr: pr, sr: sr, er: er}
}

func (s *artistService) Create(ctx context.Context, ac *transfer.ArtistCreation) (int64, error) {
	if ac.RoyaltyRate < 0 || ac.RoyaltyRate > 100 {
		return 0, errors.New("royalty rate must be between 0 and 100")
	}

	artist := &models.Artist{
		Name:        ac.Name,
		Email:       ac.Email,
		RoyaltyRate: ac.RoyaltyRate,
		Notes:       ac.Notes,
		Status:      models.ArtistStatusActive,
	}
	return s.ar.Create(ctx, artist)
}

func (s *artistService) List(ctx context.Context) ([]*models.Artist, error) {
	return s.ar.List(ctx)
}

func (s *artistService) Get(ctx context.Context, id int64) (*models.Artist, error) {
	artist, err := s.ar.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if artist == nil {
		return nil, fmt.Errorf("artist %d not found", id)
	}
	return artist, nil
}

func (s *artistService) Update(ctx context.Context, id int64, au *transfer.ArtistUpdate) error {
	artist, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if au.Name != nil {
		artist.Name = *au.Name
	}
	if au.Email != nil {
		artist.Email = *au.Email
	}
	if au.RoyaltyRate != nil {
		if *au.RoyaltyRate < 0 || *au.RoyaltyRate > 100 {
			return errors.New("royalty rate must be between 0 and 100")
		}
		artist.RoyaltyRate = *au.RoyaltyRate
	}
	if au.Notes != nil {
		artist.Notes = *au.Notes
	}
	if au.Status != nil {
		artist.Status = *au.Status
	}

	return s.ar.Update(ctx, artist)
}

// Delete removes an artist with no assigned posts; an artist with catalog
// history is archived instead so earnings attribution survives. Returns
// true when the artist was archived rather than deleted.
func (s *artistService) Delete(ctx context.Context, id int64) (bool, error) {
	artist, err := s.Get(ctx, id)
	if err != nil {
		return false, err
	}

	count, err := s.pr.CountByArtist(ctx, id)
	if err != nil {
		return false, err
	}
	if count > 0 {
		artist.Status = models.ArtistStatusArchived
		return true, s.ar.Update(ctx, artist)
	}

	return false, s.ar.Delete(ctx, id)
}

// Earnings reports the artist's royalty split. With a from/to range the
// total is the growth of lifetime earnings across the window; without one
// it is the current lifetime figure.
func (s *artistService) Earnings(ctx context.Context, id int64, from, to string) (*transfer.ArtistEarningsResponse, error) {
	artist, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var total int64
	switch {
	case from == "" && to == "":
		total, err = s.sr.SumArtistEarnings(ctx, id)
		if err != nil {
			return nil, err
		}
	default:
		var fromDate, toDate time.Time
		if from != "" {
			if fromDate, err = parseDate(from); err != nil {
				return nil, fmt.Errorf("invalid from date: %w", err)
			}
		}
		if to != "" {
			if toDate, err = parseDate(to); err != nil {
				return nil, fmt.Errorf("invalid to date: %w", err)
			}
		} else {
			toDate = time.Now()
		}

		upper, err := s.sr.SumArtistEarningsAsOf(ctx, id, toDate)
		if err != nil {
			return nil, err
		}
		var lower int64
		if from != "" {
			lower, err = s.sr.SumArtistEarningsAsOf(ctx, id, fromDate.AddDate(0, 0, -1))
			if err != nil {
				return nil, err
			}
		}
		total = upper - lower
	}

	share, fee := SplitRoyalty(total, artist.RoyaltyRate)
	return &transfer.ArtistEarningsResponse{
		ArtistID:           id,
		RoyaltyRate:        artist.RoyaltyRate,
		From:               from,
		To:                 to,
		TotalEarningsCents: total,
		ArtistShareCents:   share,
		PlatformFeeCents:   fee,
	}, nil
}
