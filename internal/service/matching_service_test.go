package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/creatorpulse/analytics-api/internal/models"
	"github.com/creatorpulse/analytics-api/internal/transfer"
)

func removedCandidate(postID, title, postType string) *models.RemovedPost {
	return &models.RemovedPost{PostID: postID, Title: title, PostType: postType}
}

func TestWeightedScorerExactMatch(t *testing.T) {
	scorer := NewWeightedScorer()

	q := &transfer.MatchQuery{
		Title:    "Summer Highlights 2025",
		PostType: models.PostTypeVideo,
		Duration: 300,
		AssetTag: "track-88",
	}
	candidate := &models.RemovedPost{
		PostID:   "c1",
		Title:    "Summer Highlights 2025",
		PostType: models.PostTypeVideo,
		Duration: sql.NullInt64{Int64: 300, Valid: true},
		AssetTag: sql.NullString{String: "track-88", Valid: true},
	}

	if got := scorer.Score(q, candidate); got != 100 {
		t.Errorf("score = %d, want 100", got)
	}
}

func TestWeightedScorerAssetTagAbsent(t *testing.T) {
	scorer := NewWeightedScorer()

	// identical title, type and duration; neither side carries a tag, so
	// the asset weight drops out of the denominator entirely
	q := &transfer.MatchQuery{
		Title:    "Behind the Scenes",
		PostType: models.PostTypeVideo,
		Duration: 120,
	}
	candidate := &models.RemovedPost{
		PostID:   "c1",
		Title:    "Behind the Scenes",
		PostType: models.PostTypeVideo,
		Duration: sql.NullInt64{Int64: 120, Valid: true},
	}

	if got := scorer.Score(q, candidate); got != 100 {
		t.Errorf("score = %d, want 100 when no asset tag exists on either side", got)
	}
}

func TestWeightedScorerDurationSlack(t *testing.T) {
	scorer := NewWeightedScorer()

	q := &transfer.MatchQuery{Title: "Clip", PostType: models.PostTypeVideo, Duration: 100}

	within := &models.RemovedPost{
		PostID: "a", Title: "Clip", PostType: models.PostTypeVideo,
		Duration: sql.NullInt64{Int64: 109, Valid: true},
	}
	outside := &models.RemovedPost{
		PostID: "b", Title: "Clip", PostType: models.PostTypeVideo,
		Duration: sql.NullInt64{Int64: 150, Valid: true},
	}

	if got := scorer.Score(q, within); got != 100 {
		t.Errorf("within slack: score = %d, want 100", got)
	}
	want := 100 - 100*15/85 // duration points missed out of an 85-point total
	if got := scorer.Score(q, outside); got <= want-2 || got >= want+2 {
		t.Errorf("outside slack: score = %d, want about %d", got, want)
	}
}

func TestWeightedScorerDurationIgnoredForPhotos(t *testing.T) {
	scorer := NewWeightedScorer()

	q := &transfer.MatchQuery{Title: "Gallery", PostType: models.PostTypePhoto, Duration: 100}
	candidate := &models.RemovedPost{
		PostID: "a", Title: "Gallery", PostType: models.PostTypePhoto,
		Duration: sql.NullInt64{Int64: 500, Valid: true},
	}

	// photos never earn or lose duration points, so a wildly different
	// duration must not pull the score below a video's within-slack score
	photoScore := scorer.Score(q, candidate)
	if photoScore < 80 {
		t.Errorf("photo score = %d, duration should not matter for photos", photoScore)
	}
}

func TestScoreBand(t *testing.T) {
	cases := []struct {
		score int
		want  string
	}{
		{100, "high"}, {90, "high"}, {89, "medium"}, {70, "medium"}, {69, "low"}, {0, "low"},
	}
	for _, c := range cases {
		if got := ScoreBand(c.score); got != c.want {
			t.Errorf("ScoreBand(%d) = %q, want %q", c.score, got, c.want)
		}
	}
}

func TestTitleSimilarity(t *testing.T) {
	if got := titleSimilarity("Hello World", "hello world"); got != 1 {
		t.Errorf("case-insensitive identical titles: similarity = %v, want 1", got)
	}
	if got := titleSimilarity("", ""); got != 0 {
		t.Errorf("empty titles: similarity = %v, want 0", got)
	}
	if got := titleSimilarity("abcdefghij", "zyxwvutsrq"); got != 0 {
		t.Errorf("disjoint titles: similarity = %v, want 0", got)
	}
	partial := titleSimilarity("Summer Highlights 2025", "Summer Highlights 2024")
	if partial <= 0.9 || partial >= 1 {
		t.Errorf("near-identical titles: similarity = %v, want just under 1", partial)
	}
}

func TestFindMatchesFiltersAndSorts(t *testing.T) {
	pr := newFakePostRepo()
	pr.catalog = []*models.RemovedPost{
		removedCandidate("far", "Completely Different Topic Entirely", models.PostTypePhoto),
		removedCandidate("close", "Morning Routine Episode 4", models.PostTypeVideo),
		removedCandidate("exact", "Morning Routine Episode 5", models.PostTypeVideo),
	}
	pr.catalog[1].Duration = sql.NullInt64{Int64: 290, Valid: true}
	pr.catalog[2].Duration = sql.NullInt64{Int64: 300, Valid: true}

	ms := NewMatchingService(pr, newFakeMatchRepo(), nil, 40)

	resp, err := ms.FindMatches(context.Background(), &transfer.MatchQuery{
		Title:    "Morning Routine Episode 5",
		PostType: models.PostTypeVideo,
		Duration: 300,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(resp.Matches) != 2 {
		t.Fatalf("matches = %d, want 2 (the unrelated photo filtered out)", len(resp.Matches))
	}
	if resp.Matches[0].PostID != "exact" {
		t.Errorf("best match = %s, want exact", resp.Matches[0].PostID)
	}
	if resp.Matches[0].MatchScore < resp.Matches[1].MatchScore {
		t.Error("matches are not sorted by score descending")
	}
	if resp.Matches[0].Band != "high" {
		t.Errorf("best match band = %q, want high", resp.Matches[0].Band)
	}
}

func TestScanBatchStoresCandidates(t *testing.T) {
	pr := newFakePostRepo()
	pr.posts["new1"] = &models.Post{
		PostID:         "new1",
		Title:          "Morning Routine Episode 5",
		PostType:       models.PostTypeVideo,
		Status:         models.PostStatusLive,
		CreatedBatchID: sql.NullString{String: "batch-1", Valid: true},
	}
	pr.catalog = []*models.RemovedPost{
		removedCandidate("old1", "Morning Routine Episode 4", models.PostTypeVideo),
		removedCandidate("noise", "Unrelated Cooking Stream", models.PostTypeText),
	}
	mr := newFakeMatchRepo()

	ms := NewMatchingService(pr, mr, nil, 40)
	if err := ms.ScanBatch(context.Background(), "batch-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	stored := mr.stored["batch-1"]
	if len(stored) != 1 {
		t.Fatalf("stored candidates = %d, want 1", len(stored))
	}
	if stored[0].PostID != "new1" || stored[0].CandidatePostID != "old1" {
		t.Errorf("unexpected candidate: %+v", stored[0])
	}

	got, err := ms.CandidatesForBatch(context.Background(), "batch-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("CandidatesForBatch = %d rows, want 1", len(got))
	}
}
