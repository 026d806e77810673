package service

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/creatorpulse/analytics-api/internal/models"
	"github.com/creatorpulse/analytics-api/internal/repository"
)

// PostDetail is the full read model for one post: its snapshot history
// and any reels linked beneath it.
type PostDetail struct {
	Post      *models.Post       `json:"post"`
	Snapshots []*models.Snapshot `json:"snapshots"`
	Children  []*models.Post     `json:"children"`
}

type PostService interface {
	List(ctx context.Context, f repository.PostFilter) ([]*models.Post, error)
	Get(ctx context.Context, postID string) (*PostDetail, error)
	AssignArtist(ctx context.Context, postID string, artistID *int64) error
}

type postService struct {
	pr repository.PostRepository
	sr repository.SnapshotRepository
	ar repository.ArtistRepository
}

func NewPostService(pr repository.PostRepository, sr repository.SnapshotRepository, ar repository.ArtistRepository) PostService {
	return &postService{pr: pr, sr: sr, ar: ar}
}

func (s *postService) List(ctx context.Context, f repository.PostFilter) ([]*models.Post, error) {
	if f.Limit <= 0 || f.Limit > 500 {
		f.Limit = 100
	}
	return s.pr.List(ctx, f)
}

func (s *postService) Get(ctx context.Context, postID string) (*PostDetail, error) {
	post, err := s.pr.GetByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, fmt.Errorf("post %s not found", postID)
	}

	snapshots, err := s.sr.ListByPostID(ctx, postID)
	if err != nil {
		return nil, err
	}
	children, err := s.pr.ListChildren(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &PostDetail{Post: post, Snapshots: snapshots, Children: children}, nil
}

func (s *postService) AssignArtist(ctx context.Context, postID string, artistID *int64) error {
	post, err := s.pr.GetByPostID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return fmt.Errorf("post %s not found", postID)
	}

	assignment := sql.NullInt64{}
	if artistID != nil {
		artist, err := s.ar.GetByID(ctx, *artistID)
		if err != nil {
			return err
		}
		if artist == nil {
			return fmt.Errorf("artist %d not found", *artistID)
		}
		assignment = sql.NullInt64{Int64: *artistID, Valid: true}
	}

	return s.pr.SetArtist(ctx, nil, postID, assignment)
}
