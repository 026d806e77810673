package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/creatorpulse/analytics-api/internal/models"
	"github.com/creatorpulse/analytics-api/internal/repository"
	"github.com/creatorpulse/analytics-api/internal/transfer"
)

// Scorer rates the similarity between a candidate query and one removed
// post on a 0-100 scale. Implementations must clamp their result.
type Scorer interface {
	Score(q *transfer.MatchQuery, candidate *models.RemovedPost) int
}

type MatchingService interface {
	FindMatches(ctx context.Context, q *transfer.MatchQuery) (*transfer.MatchResponse, error)
	ScanBatch(ctx context.Context, batchID string) error
	CandidatesForBatch(ctx context.Context, batchID string) ([]*models.MatchCandidate, error)
}

type matchingService struct {
	pr       repository.PostRepository
	mr       repository.MatchCandidateRepository
	scorer   Scorer
	minScore int
}

func NewMatchingService(pr repository.PostRepository, mr repository.MatchCandidateRepository, scorer Scorer, minScore int) MatchingService {
	if scorer == nil {
		scorer = NewWeightedScorer()
	}
	return &matchingService{pr: pr, mr: mr, scorer: scorer, minScore: minScore}
}

// FindMatches scores the query against the removed-post catalog only;
// live posts are never candidates.
func (s *matchingService) FindMatches(ctx context.Context, q *transfer.MatchQuery) (*transfer.MatchResponse, error) {
	catalog, err := s.pr.ListRemovedCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("error loading removed catalog: %w", err)
	}

	matches := []transfer.Match{}
	for _, candidate := range catalog {
		score := s.scorer.Score(q, candidate)
		if score < s.minScore {
			continue
		}

		m := transfer.Match{
			PostID:          candidate.PostID,
			Title:           candidate.Title,
			PostType:        candidate.PostType,
			MatchScore:      score,
			Band:            ScoreBand(score),
			IterationNumber: candidate.IterationNumber,
			SnapshotCount:   candidate.SnapshotCount,
			EarningsCents:   candidate.EarningsCents,
		}
		if candidate.RemovedDate.Valid {
			m.RemovedDate = candidate.RemovedDate.Time.Format("2006-01-02")
		}
		if candidate.ArtistName.Valid {
			m.ArtistName = candidate.ArtistName.String
		}
		matches = append(matches, m)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].MatchScore > matches[j].MatchScore })

	return &transfer.MatchResponse{Matches: matches}, nil
}

// ScanBatch precomputes candidates for every post created by an ingestion
// batch and stores them for the operator review screen. Purely advisory;
// nothing is ever linked automatically.
func (s *matchingService) ScanBatch(ctx context.Context, batchID string) error {
	posts, err := s.pr.ListByBatchID(ctx, batchID)
	if err != nil {
		return fmt.Errorf("error loading batch posts: %w", err)
	}
	if len(posts) == 0 {
		return nil
	}

	catalog, err := s.pr.ListRemovedCatalog(ctx)
	if err != nil {
		return fmt.Errorf("error loading removed catalog: %w", err)
	}

	var candidates []models.MatchCandidate
	for _, post := range posts {
		q := &transfer.MatchQuery{
			Title:    post.Title,
			PostType: post.PostType,
		}
		if post.Duration.Valid {
			q.Duration = post.Duration.Int64
		}
		if post.AssetTag.Valid {
			q.AssetTag = post.AssetTag.String
		}

		for _, candidate := range catalog {
			if candidate.PostID == post.PostID {
				continue
			}
			score := s.scorer.Score(q, candidate)
			if score < s.minScore {
				continue
			}
			candidates = append(candidates, models.MatchCandidate{
				BatchID:         batchID,
				PostID:          post.PostID,
				CandidatePostID: candidate.PostID,
				MatchScore:      score,
			})
		}
	}

	return s.mr.Replace(ctx, batchID, candidates)
}

func (s *matchingService) CandidatesForBatch(ctx context.Context, batchID string) ([]*models.MatchCandidate, error) {
	return s.mr.ListByBatchID(ctx, batchID)
}

// ScoreBand labels a score for presentation. The bands affect how a
// candidate is shown, never whether it is surfaced.
func ScoreBand(score int) string {
	switch {
	case score >= 90:
		return "high"
	case score >= 70:
		return "medium"
	default:
		return "low"
	}
}

// weightedScorer is the default scoring strategy: 50 points for title
// similarity, 20 for matching post type, 15 for duration proximity on
// video-like content, 15 for asset-tag equality. The asset-tag weight is
// dropped from the denominator when either side has no tag.
type weightedScorer struct {
	titleWeight    int
	typeWeight     int
	durationWeight int
	assetWeight    int
	durationSlack  float64
}

func NewWeightedScorer() Scorer {
	return &weightedScorer{
		titleWeight:    50,
		typeWeight:     20,
		durationWeight: 15,
		assetWeight:    15,
		durationSlack:  0.10,
	}
}

func (w *weightedScorer) Score(q *transfer.MatchQuery, candidate *models.RemovedPost) int {
	points := float64(w.titleWeight) * titleSimilarity(q.Title, candidate.Title)

	if q.PostType != "" && q.PostType == candidate.PostType {
		points += float64(w.typeWeight)
	}

	if models.VideoLike(q.PostType) && q.Duration > 0 && candidate.Duration.Valid && candidate.Duration.Int64 > 0 {
		longer := math.Max(float64(q.Duration), float64(candidate.Duration.Int64))
		diff := math.Abs(float64(q.Duration - candidate.Duration.Int64))
		if diff/longer <= w.durationSlack {
			points += float64(w.durationWeight)
		}
	}

	total := w.titleWeight + w.typeWeight + w.durationWeight + w.assetWeight
	if q.AssetTag == "" || !candidate.AssetTag.Valid || candidate.AssetTag.String == "" {
		total -= w.assetWeight
	} else if q.AssetTag == candidate.AssetTag.String {
		points += float64(w.assetWeight)
	}

	score := int(math.Round(points * 100 / float64(total)))
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return score
}

func titleSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" && b == "" {
		return 0
	}
	if a == b {
		return 1
	}

	distance := levenshtein.ComputeDistance(a, b)
	longer := len([]rune(a))
	if l := len([]rune(b)); l > longer {
		longer = l
	}
	if longer == 0 {
		return 0
	}
	sim := 1 - float64(distance)/float64(longer)
	if sim < 0 {
		sim = 0
	}
	return sim
}
