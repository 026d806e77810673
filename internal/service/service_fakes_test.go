package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/creatorpulse/analytics-api/internal/models"
	"github.com/creatorpulse/analytics-api/internal/repository"
)

const dateKey = "2006-01-02"

// svcTestDriver is a minimal SQL driver so services that open transactions
// can run against in-memory repositories. Commit and Rollback are no-ops.
type svcTestDriver struct{}

type svcTestConn struct{}

type svcTestTx struct{}

func (svcTestDriver) Open(name string) (driver.Conn, error) { return &svcTestConn{}, nil }

func (c *svcTestConn) Prepare(query string) (driver.Stmt, error) {
	return nil, errors.New("not implemented")
}
func (c *svcTestConn) Close() error              { return nil }
func (c *svcTestConn) Begin() (driver.Tx, error) { return &svcTestTx{}, nil }

func (svcTestTx) Commit() error   { return nil }
func (svcTestTx) Rollback() error { return nil }

func init() {
	sql.Register("svcfake", svcTestDriver{})
}

func openFakeDB() *sql.DB {
	db, _ := sql.Open("svcfake", "")
	return db
}

func mustDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse(dateKey, value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return d
}

type fakePostRepo struct {
	posts   map[string]*models.Post
	catalog []*models.RemovedPost

	created       []string
	updated       []string
	detached      []string
	countByArtist map[int64]int

	reelLinkInTx bool
	artistInTx   bool
}

var _ repository.PostRepository = (*fakePostRepo)(nil)

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[string]*models.Post)}
}

func (r *fakePostRepo) GetByPostID(ctx context.Context, postID string) (*models.Post, error) {
	return r.posts[postID], nil
}

func (r *fakePostRepo) Create(ctx context.Context, tx *sql.Tx, post *models.Post) (int64, error) {
	p := *post
	p.ID = int64(len(r.posts) + 1)
	r.posts[post.PostID] = &p
	r.created = append(r.created, post.PostID)
	return p.ID, nil
}

func (r *fakePostRepo) UpdateMetadata(ctx context.Context, tx *sql.Tx, post *models.Post) error {
	if existing, ok := r.posts[post.PostID]; ok {
		existing.Title = post.Title
		existing.PageName = post.PageName
		existing.PostType = post.PostType
		if post.AssetTag.Valid {
			existing.AssetTag = post.AssetTag
		}
		if post.Duration.Valid {
			existing.Duration = post.Duration
		}
	}
	r.updated = append(r.updated, post.PostID)
	return nil
}

func (r *fakePostRepo) List(ctx context.Context, f repository.PostFilter) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range r.posts {
		out = append(out, p)
	}
	return out, nil
}

func (r *fakePostRepo) ListByBatchID(ctx context.Context, batchID string) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range r.posts {
		if p.CreatedBatchID.Valid && p.CreatedBatchID.String == batchID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) ListRemovedCatalog(ctx context.Context) ([]*models.RemovedPost, error) {
	return r.catalog, nil
}

func (r *fakePostRepo) ListChildren(ctx context.Context, parentPostID string) ([]*models.Post, error) {
	var out []*models.Post
	for _, p := range r.posts {
		if p.ParentPostID.Valid && p.ParentPostID.String == parentPostID && p.PostType == models.PostTypeReel {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakePostRepo) ChainMaxIteration(ctx context.Context, postID string) (int, error) {
	max := 0
	if p, ok := r.posts[postID]; ok {
		max = p.IterationNumber
	}
	for _, p := range r.posts {
		if p.ParentPostID.Valid && p.ParentPostID.String == postID && p.IterationNumber > max {
			max = p.IterationNumber
		}
	}
	return max, nil
}

func (r *fakePostRepo) SetIterationLink(ctx context.Context, tx *sql.Tx, postID, parentPostID string, iteration int) error {
	p, ok := r.posts[postID]
	if !ok {
		return errors.New("post not found")
	}
	p.ParentPostID = sql.NullString{String: parentPostID, Valid: true}
	p.IterationNumber = iteration
	return nil
}

func (r *fakePostRepo) SetReelLink(ctx context.Context, tx *sql.Tx, postID, parentPostID string, inherit bool) error {
	r.reelLinkInTx = tx != nil
	p, ok := r.posts[postID]
	if !ok {
		return errors.New("post not found")
	}
	p.ParentPostID = sql.NullString{String: parentPostID, Valid: true}
	p.InheritMetadata = inherit
	return nil
}

func (r *fakePostRepo) ClearParent(ctx context.Context, postID string) error {
	if p, ok := r.posts[postID]; ok {
		p.ParentPostID = sql.NullString{}
		p.InheritMetadata = false
	}
	return nil
}

func (r *fakePostRepo) DetachChildren(ctx context.Context, tx *sql.Tx, parentPostID string) error {
	for _, p := range r.posts {
		if p.ParentPostID.Valid && p.ParentPostID.String == parentPostID {
			p.ParentPostID = sql.NullString{}
			r.detached = append(r.detached, p.PostID)
		}
	}
	return nil
}

func (r *fakePostRepo) SetArtist(ctx context.Context, tx *sql.Tx, postID string, artistID sql.NullInt64) error {
	r.artistInTx = tx != nil
	if p, ok := r.posts[postID]; ok {
		p.ArtistID = artistID
	}
	return nil
}

func (r *fakePostRepo) SetStatus(ctx context.Context, tx *sql.Tx, postID, status, reason string) error {
	p, ok := r.posts[postID]
	if !ok {
		return errors.New("post not found")
	}
	p.Status = status
	if status == models.PostStatusRemoved {
		p.RemovedDate = sql.NullTime{Time: time.Now(), Valid: true}
		p.RemovedReason = sql.NullString{String: reason, Valid: reason != ""}
	} else {
		p.RemovedDate = sql.NullTime{}
		p.RemovedReason = sql.NullString{}
	}
	return nil
}

func (r *fakePostRepo) CountByArtist(ctx context.Context, artistID int64) (int, error) {
	return r.countByArtist[artistID], nil
}

type fakeSnapshotRepo struct {
	snapshots map[string]map[string]*models.Snapshot // postID -> date -> snapshot

	lifetimeEarnings map[int64]int64  // artistID -> cents
	earningsAsOf     map[string]int64 // "artistID|date" -> cents

	movedOld, movedNew string
	movedIDs           []string
	moveErr            error
}

var _ repository.SnapshotRepository = (*fakeSnapshotRepo)(nil)

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{snapshots: make(map[string]map[string]*models.Snapshot)}
}

func (r *fakeSnapshotRepo) GetByPostAndDate(ctx context.Context, postID string, date time.Time) (*models.Snapshot, error) {
	return r.snapshots[postID][date.Format(dateKey)], nil
}

func (r *fakeSnapshotRepo) Create(ctx context.Context, tx *sql.Tx, s *models.Snapshot) error {
	if r.snapshots[s.PostID] == nil {
		r.snapshots[s.PostID] = make(map[string]*models.Snapshot)
	}
	copied := *s
	r.snapshots[s.PostID][s.SnapshotDate.Format(dateKey)] = &copied
	return nil
}

func (r *fakeSnapshotRepo) Update(ctx context.Context, tx *sql.Tx, s *models.Snapshot) error {
	return r.Create(ctx, tx, s)
}

func (r *fakeSnapshotRepo) ListByPostID(ctx context.Context, postID string) ([]*models.Snapshot, error) {
	var out []*models.Snapshot
	for _, s := range r.snapshots[postID] {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeSnapshotRepo) CountByPostID(ctx context.Context, postID string) (int, error) {
	return len(r.snapshots[postID]), nil
}

func (r *fakeSnapshotRepo) PostIDsByDates(ctx context.Context, postIDs []string) (map[string][]string, error) {
	out := make(map[string][]string)
	for _, id := range postIDs {
		for date := range r.snapshots[id] {
			out[date] = append(out[date], id)
		}
	}
	return out, nil
}

func (r *fakeSnapshotRepo) CountByDate(ctx context.Context, date time.Time) (int, error) {
	key := date.Format(dateKey)
	count := 0
	for _, byDate := range r.snapshots {
		if _, ok := byDate[key]; ok {
			count++
		}
	}
	return count, nil
}

func (r *fakeSnapshotRepo) MoveDate(ctx context.Context, oldDate, newDate time.Time, postIDs []string) (int64, error) {
	if r.moveErr != nil {
		return 0, r.moveErr
	}
	r.movedOld = oldDate.Format(dateKey)
	r.movedNew = newDate.Format(dateKey)
	r.movedIDs = postIDs
	return int64(len(postIDs)), nil
}

func (r *fakeSnapshotRepo) SumArtistEarningsAsOf(ctx context.Context, artistID int64, asOf time.Time) (int64, error) {
	return r.earningsAsOf[asOfKey(artistID, asOf)], nil
}

func (r *fakeSnapshotRepo) SumArtistEarnings(ctx context.Context, artistID int64) (int64, error) {
	return r.lifetimeEarnings[artistID], nil
}

func asOfKey(artistID int64, asOf time.Time) string {
	return fmt.Sprintf("%d|%s", artistID, asOf.Format(dateKey))
}

type fakeUploadRepo struct {
	batches []*models.UploadBatch
}

var _ repository.UploadRepository = (*fakeUploadRepo)(nil)

func (r *fakeUploadRepo) Create(ctx context.Context, tx *sql.Tx, batch *models.UploadBatch) error {
	copied := *batch
	r.batches = append(r.batches, &copied)
	return nil
}

func (r *fakeUploadRepo) GetByID(ctx context.Context, id string) (*models.UploadBatch, error) {
	for _, b := range r.batches {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, nil
}

func (r *fakeUploadRepo) List(ctx context.Context, limit int) ([]*models.UploadBatch, error) {
	if limit > len(r.batches) {
		limit = len(r.batches)
	}
	return r.batches[:limit], nil
}

func (r *fakeUploadRepo) SetArchiveKey(ctx context.Context, id, key string) error {
	for _, b := range r.batches {
		if b.ID == id {
			b.ArchiveKey = key
		}
	}
	return nil
}

type fakeMatchRepo struct {
	stored map[string][]models.MatchCandidate
}

var _ repository.MatchCandidateRepository = (*fakeMatchRepo)(nil)

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{stored: make(map[string][]models.MatchCandidate)}
}

func (r *fakeMatchRepo) Replace(ctx context.Context, batchID string, candidates []models.MatchCandidate) error {
	r.stored[batchID] = candidates
	return nil
}

func (r *fakeMatchRepo) ListByBatchID(ctx context.Context, batchID string) ([]*models.MatchCandidate, error) {
	var out []*models.MatchCandidate
	for i := range r.stored[batchID] {
		out = append(out, &r.stored[batchID][i])
	}
	return out, nil
}

type fakeArtistRepo struct {
	artists map[int64]*models.Artist
	nextID  int64
	deleted []int64
}

var _ repository.ArtistRepository = (*fakeArtistRepo)(nil)

func newFakeArtistRepo() *fakeArtistRepo {
	return &fakeArtistRepo{artists: make(map[int64]*models.Artist)}
}

func (r *fakeArtistRepo) Create(ctx context.Context, artist *models.Artist) (int64, error) {
	r.nextID++
	copied := *artist
	copied.ID = r.nextID
	r.artists[r.nextID] = &copied
	return r.nextID, nil
}

func (r *fakeArtistRepo) GetByID(ctx context.Context, id int64) (*models.Artist, error) {
	return r.artists[id], nil
}

func (r *fakeArtistRepo) List(ctx context.Context) ([]*models.Artist, error) {
	var out []*models.Artist
	for _, a := range r.artists {
		out = append(out, a)
	}
	return out, nil
}

func (r *fakeArtistRepo) ListIDs(ctx context.Context) ([]int64, error) {
	var out []int64
	for id, a := range r.artists {
		if a.Status == models.ArtistStatusActive {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *fakeArtistRepo) Update(ctx context.Context, artist *models.Artist) error {
	copied := *artist
	r.artists[artist.ID] = &copied
	return nil
}

func (r *fakeArtistRepo) Delete(ctx context.Context, id int64) error {
	delete(r.artists, id)
	r.deleted = append(r.deleted, id)
	return nil
}

type fakeEarningsRepo struct {
	byArtist map[int64]*models.ArtistEarnings
}

var _ repository.EarningsRepository = (*fakeEarningsRepo)(nil)

func newFakeEarningsRepo() *fakeEarningsRepo {
	return &fakeEarningsRepo{byArtist: make(map[int64]*models.ArtistEarnings)}
}

func (r *fakeEarningsRepo) Upsert(ctx context.Context, e *models.ArtistEarnings) error {
	copied := *e
	r.byArtist[e.ArtistID] = &copied
	return nil
}

func (r *fakeEarningsRepo) GetByArtistID(ctx context.Context, artistID int64) (*models.ArtistEarnings, error) {
	return r.byArtist[artistID], nil
}
