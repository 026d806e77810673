package models

import "time"

// Snapshot is a dated record of a post's cumulative performance metrics
// at the time of a Creator Studio export. At most one row exists per
// (post_id, snapshot_date) pair.
type Snapshot struct {
	ID                     int64     `db:"id" json:"id"`
	PostID                 string    `db:"post_id" json:"post_id"`
	SnapshotDate           time.Time `db:"snapshot_date" json:"snapshot_date"`
	LifetimeEarningsCents  int64     `db:"lifetime_earnings_cents" json:"lifetime_earnings_cents"`
	LifetimeQualifiedViews int64     `db:"lifetime_qualified_views" json:"lifetime_qualified_views"`
	LifetimeViews          int64     `db:"lifetime_views" json:"lifetime_views"`
	Reach                  int64     `db:"reach" json:"reach"`
	Engagement             int64     `db:"engagement" json:"engagement"`
	CreatedAt              time.Time `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time `db:"updated_at" json:"updated_at"`
}
