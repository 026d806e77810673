package models

import "time"

type Artist struct {
	ID          int64     `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Email       string    `db:"email" json:"email"`
	RoyaltyRate float64   `db:"royalty_rate" json:"royalty_rate"` // percent, 0-100
	Notes       string    `db:"notes" json:"notes"`
	Status      string    `db:"status" json:"status"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

const (
	ArtistStatusActive   = "active"
	ArtistStatusArchived = "archived"
)

// ArtistEarnings is the nightly rollup of an artist's lifetime earnings
// and royalty split.
type ArtistEarnings struct {
	ArtistID           int64     `db:"artist_id" json:"artist_id"`
	TotalEarningsCents int64     `db:"total_earnings_cents" json:"total_earnings_cents"`
	ArtistShareCents   int64     `db:"artist_share_cents" json:"artist_share_cents"`
	PlatformFeeCents   int64     `db:"platform_fee_cents" json:"platform_fee_cents"`
	ComputedAt         time.Time `db:"computed_at" json:"computed_at"`
}
