package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/creatorpulse/analytics-api/internal/models"
	"github.com/creatorpulse/analytics-api/internal/repository"
	"github.com/creatorpulse/analytics-api/internal/transfer"
)

type LinkingService interface {
	LinkToPrevious(ctx context.Context, newPostID, previousPostID string) error
	LinkReelToVideo(ctx context.Context, reelPostID, parentVideoPostID string, inheritMetadata bool) error
	UnlinkReel(ctx context.Context, reelPostID string) error
	CheckChildren(ctx context.Context, videoPostID string) (*transfer.ChildrenCheck, error)
	SetStatus(ctx context.Context, postID, status, reason string) (string, error)
	BulkRemove(ctx context.Context, postIDs []string, reason string) error
}

type linkingService struct {
	db *sql.DB
	pr repository.PostRepository
}

func NewLinkingService(db *sql.DB, pr repository.PostRepository) LinkingService {
	return &linkingService{db: db, pr: pr}
}

// LinkToPrevious marks newPost as the next iteration of previousPost.
// Neither post's snapshots are touched; only link fields change.
func (s *linkingService) LinkToPrevious(ctx context.Context, newPostID, previousPostID string) error {
	if newPostID == previousPostID {
		return errors.New("a post cannot be linked to itself")
	}

	newPost, err := s.pr.GetByPostID(ctx, newPostID)
	if err != nil {
		return err
	}
	if newPost == nil {
		return fmt.Errorf("post %s not found", newPostID)
	}
	previous, err := s.pr.GetByPostID(ctx, previousPostID)
	if err != nil {
		return err
	}
	if previous == nil {
		return fmt.Errorf("post %s not found", previousPostID)
	}

	if previous.Status != models.PostStatusRemoved {
		return errors.New("previous post must be removed content")
	}
	if newPost.Status != models.PostStatusLive {
		return errors.New("new post must be live")
	}
	if newPost.ParentPostID.Valid {
		return errors.New("new post is already linked")
	}

	maxIteration, err := s.pr.ChainMaxIteration(ctx, previousPostID)
	if err != nil {
		return fmt.Errorf("error resolving iteration chain: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.pr.SetIterationLink(ctx, tx, newPostID, previousPostID, maxIteration+1); err != nil {
		return fmt.Errorf("error linking post: %w", err)
	}

	if !newPost.ArtistID.Valid && previous.ArtistID.Valid {
		if err := s.pr.SetArtist(ctx, tx, newPostID, previous.ArtistID); err != nil {
			return fmt.Errorf("error carrying artist forward: %w", err)
		}
	}

	return tx.Commit()
}

func (s *linkingService) LinkReelToVideo(ctx context.Context, reelPostID, parentVideoPostID string, inheritMetadata bool) error {
	reel, err := s.pr.GetByPostID(ctx, reelPostID)
	if err != nil {
		return err
	}
	if reel == nil {
		return fmt.Errorf("post %s not found", reelPostID)
	}
	if reel.PostType != models.PostTypeReel {
		return errors.New("post is not a reel")
	}

	parent, err := s.pr.GetByPostID(ctx, parentVideoPostID)
	if err != nil {
		return err
	}
	if parent == nil {
		return fmt.Errorf("post %s not found", parentVideoPostID)
	}
	if parent.PostType != models.PostTypeVideo && parent.PostType != models.PostTypeVideos {
		return errors.New("parent post is not a video")
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.pr.SetReelLink(ctx, tx, reelPostID, parentVideoPostID, inheritMetadata); err != nil {
		return fmt.Errorf("error linking reel: %w", err)
	}

	if inheritMetadata && parent.ArtistID.Valid {
		if err := s.pr.SetArtist(ctx, tx, reelPostID, parent.ArtistID); err != nil {
			return fmt.Errorf("error inheriting artist: %w", err)
		}
	}

	return tx.Commit()
}

// UnlinkReel clears the parent association. Metrics are untouched.
func (s *linkingService) UnlinkReel(ctx context.Context, reelPostID string) error {
	reel, err := s.pr.GetByPostID(ctx, reelPostID)
	if err != nil {
		return err
	}
	if reel == nil {
		return fmt.Errorf("post %s not found", reelPostID)
	}
	return s.pr.ClearParent(ctx, reelPostID)
}

func (s *linkingService) CheckChildren(ctx context.Context, videoPostID string) (*transfer.ChildrenCheck, error) {
	children, err := s.pr.ListChildren(ctx, videoPostID)
	if err != nil {
		return nil, err
	}

	check := &transfer.ChildrenCheck{Children: []transfer.Child{}}
	for _, child := range children {
		check.Children = append(check.Children, transfer.Child{
			PostID: child.PostID,
			Title:  child.Title,
			Status: child.Status,
		})
	}
	check.HasChildren = len(check.Children) > 0
	return check, nil
}

// SetStatus flips a post between live and removed. Removing a video with
// linked reels detaches the reels and reports a warning; it never
// cascades the removal.
func (s *linkingService) SetStatus(ctx context.Context, postID, status, reason string) (string, error) {
	post, err := s.pr.GetByPostID(ctx, postID)
	if err != nil {
		return "", err
	}
	if post == nil {
		return "", fmt.Errorf("post %s not found", postID)
	}

	if status != models.PostStatusRemoved {
		return "", s.pr.SetStatus(ctx, nil, postID, status, "")
	}

	var warning string
	children, err := s.pr.ListChildren(ctx, postID)
	if err != nil {
		return "", err
	}
	liveChildren := 0
	for _, child := range children {
		if child.Status == models.PostStatusLive {
			liveChildren++
		}
	}
	if liveChildren > 0 {
		warning = fmt.Sprintf("%d linked reels were detached and remain live; remove them explicitly if needed", liveChildren)
	}

	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.pr.SetStatus(ctx, tx, postID, status, reason); err != nil {
		return "", fmt.Errorf("error updating status: %w", err)
	}
	if len(children) > 0 {
		if err := s.pr.DetachChildren(ctx, tx, postID); err != nil {
			return "", fmt.Errorf("error detaching reels: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", err
	}
	return warning, nil
}

func (s *linkingService) BulkRemove(ctx context.Context, postIDs []string, reason string) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	for _, postID := range postIDs {
		post, err := s.pr.GetByPostID(ctx, postID)
		if err != nil {
			return err
		}
		if post == nil {
			return fmt.Errorf("post %s not found", postID)
		}
		if err := s.pr.SetStatus(ctx, tx, postID, models.PostStatusRemoved, reason); err != nil {
			return fmt.Errorf("error removing %s: %w", postID, err)
		}
		if err := s.pr.DetachChildren(ctx, tx, postID); err != nil {
			return fmt.Errorf("error detaching reels of %s: %w", postID, err)
		}
	}

	return tx.Commit()
}
