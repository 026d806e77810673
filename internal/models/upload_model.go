package models

import "time"

// UploadBatch records one ingested CSV file: its content signature for
// duplicate detection and the counters reported back to the operator.
type UploadBatch struct {
	ID               string    `db:"id" json:"id"`
	FileName         string    `db:"file_name" json:"file_name"`
	SnapshotDate     time.Time `db:"snapshot_date" json:"snapshot_date"`
	Signature        string    `db:"signature" json:"signature"`
	RowCount         int       `db:"row_count" json:"row_count"`
	PostsCreated     int       `db:"posts_created" json:"posts_created"`
	PostsUpdated     int       `db:"posts_updated" json:"posts_updated"`
	SnapshotsCreated int       `db:"snapshots_created" json:"snapshots_created"`
	SnapshotsUpdated int       `db:"snapshots_updated" json:"snapshots_updated"`
	ErrorCount       int       `db:"error_count" json:"error_count"`
	ArchiveKey       string    `db:"archive_key" json:"archive_key"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// MatchCandidate is a stored scoring result from a post-ingest scan of
// the removed catalog. Candidates are advisory; linking is always an
// explicit operator action.
type MatchCandidate struct {
	ID              int64     `db:"id" json:"id"`
	BatchID         string    `db:"batch_id" json:"batch_id"`
	PostID          string    `db:"post_id" json:"post_id"`
	CandidatePostID string    `db:"candidate_post_id" json:"candidate_post_id"`
	MatchScore      int       `db:"match_score" json:"match_score"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
