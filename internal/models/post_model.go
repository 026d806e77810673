package models

import (
	"database/sql"
	"time"
)

type Post struct {
	ID              int64          `db:"id" json:"id"`
	PostID          string         `db:"post_id" json:"post_id"` // platform-assigned ID
	Title           string         `db:"title" json:"title"`
	PageName        string         `db:"page_name" json:"page_name"`
	PostType        string         `db:"post_type" json:"post_type"`
	AssetTag        sql.NullString `db:"asset_tag" json:"asset_tag,omitempty"`
	ArtistID        sql.NullInt64  `db:"artist_id" json:"artist_id,omitempty"`
	Status          string         `db:"status" json:"status"` // live, removed
	Duration        sql.NullInt64  `db:"duration" json:"duration,omitempty"`
	PublishTime     sql.NullTime   `db:"publish_time" json:"publish_time,omitempty"`
	RemovedDate     sql.NullTime   `db:"removed_date" json:"removed_date,omitempty"`
	RemovedReason   sql.NullString `db:"removed_reason" json:"removed_reason,omitempty"`
	ParentPostID    sql.NullString `db:"parent_post_id" json:"parent_post_id,omitempty"`
	InheritMetadata bool           `db:"inherit_metadata" json:"inherit_metadata"`
	IterationNumber int            `db:"iteration_number" json:"iteration_number"`
	CreatedBatchID  sql.NullString `db:"created_batch_id" json:"created_batch_id,omitempty"`
	CreatedAt       time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at" json:"updated_at"`
}

const (
	PostStatusLive    = "live"
	PostStatusRemoved = "removed"
)

const (
	PostTypeVideo  = "Video"
	PostTypeVideos = "Videos"
	PostTypeReel   = "Reel"
	PostTypePhoto  = "Photo"
	PostTypeText   = "Text"
	PostTypeLink   = "Link"
	PostTypeLinks  = "Links"
	PostTypeStatus = "Status"
)

// VideoLike reports whether a post type carries a duration worth comparing.
func VideoLike(postType string) bool {
	switch postType {
	case PostTypeVideo, PostTypeVideos, PostTypeReel:
		return true
	}
	return false
}

// RemovedPost is a removed-catalog row joined with its artist and
// snapshot aggregates, as consumed by the content matcher.
type RemovedPost struct {
	PostID          string         `db:"post_id" json:"post_id"`
	Title           string         `db:"title" json:"title"`
	PostType        string         `db:"post_type" json:"post_type"`
	AssetTag        sql.NullString `db:"asset_tag" json:"asset_tag,omitempty"`
	Duration        sql.NullInt64  `db:"duration" json:"duration,omitempty"`
	RemovedDate     sql.NullTime   `db:"removed_date" json:"removed_date,omitempty"`
	IterationNumber int            `db:"iteration_number" json:"iteration_number"`
	ArtistID        sql.NullInt64  `db:"artist_id" json:"-"`
	ArtistName      sql.NullString `db:"artist_name" json:"artist_name,omitempty"`
	SnapshotCount   int            `db:"snapshot_count" json:"snapshot_count"`
	EarningsCents   int64          `db:"earnings_cents" json:"lifetime_earnings_cents"`
}
