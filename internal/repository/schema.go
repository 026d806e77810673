package repository

import (
	"context"
	"database/sql"
	"fmt"
)

// Bootstrap creates the tables and indexes the service depends on.
// Safe to run on every start.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS artists (
			id BIGSERIAL PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) DEFAULT '',
			royalty_rate NUMERIC(5,2) NOT NULL DEFAULT 0,
			notes TEXT DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS posts (
			id BIGSERIAL PRIMARY KEY,
			post_id VARCHAR(64) NOT NULL UNIQUE,
			title TEXT NOT NULL DEFAULT '',
			page_name VARCHAR(255) NOT NULL DEFAULT '',
			post_type VARCHAR(20) NOT NULL DEFAULT 'Video',
			asset_tag VARCHAR(128),
			artist_id BIGINT REFERENCES artists(id) ON DELETE SET NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'live',
			duration BIGINT,
			publish_time TIMESTAMPTZ,
			removed_date TIMESTAMPTZ,
			removed_reason TEXT,
			parent_post_id VARCHAR(64),
			inherit_metadata BOOLEAN NOT NULL DEFAULT FALSE,
			iteration_number INT NOT NULL DEFAULT 1,
			created_batch_id UUID,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_posts_status ON posts(status);
		CREATE INDEX IF NOT EXISTS idx_posts_artist ON posts(artist_id);
		CREATE INDEX IF NOT EXISTS idx_posts_parent ON posts(parent_post_id);
		CREATE INDEX IF NOT EXISTS idx_posts_batch ON posts(created_batch_id)`,
		`CREATE TABLE IF NOT EXISTS snapshots (
			id BIGSERIAL PRIMARY KEY,
			post_id VARCHAR(64) NOT NULL REFERENCES posts(post_id) ON DELETE CASCADE,
			snapshot_date DATE NOT NULL,
			lifetime_earnings_cents BIGINT NOT NULL DEFAULT 0,
			lifetime_qualified_views BIGINT NOT NULL DEFAULT 0,
			lifetime_views BIGINT NOT NULL DEFAULT 0,
			reach BIGINT NOT NULL DEFAULT 0,
			engagement BIGINT NOT NULL DEFAULT 0,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (post_id, snapshot_date)
		);
		CREATE INDEX IF NOT EXISTS idx_snapshots_date ON snapshots(snapshot_date)`,
		`CREATE TABLE IF NOT EXISTS upload_batches (
			id UUID PRIMARY KEY,
			file_name VARCHAR(512) NOT NULL DEFAULT '',
			snapshot_date DATE NOT NULL,
			signature VARCHAR(64) NOT NULL,
			row_count INT NOT NULL DEFAULT 0,
			posts_created INT NOT NULL DEFAULT 0,
			posts_updated INT NOT NULL DEFAULT 0,
			snapshots_created INT NOT NULL DEFAULT 0,
			snapshots_updated INT NOT NULL DEFAULT 0,
			error_count INT NOT NULL DEFAULT 0,
			archive_key VARCHAR(512) NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_upload_batches_signature ON upload_batches(signature)`,
		`CREATE TABLE IF NOT EXISTS match_candidates (
			id BIGSERIAL PRIMARY KEY,
			batch_id UUID NOT NULL,
			post_id VARCHAR(64) NOT NULL,
			candidate_post_id VARCHAR(64) NOT NULL,
			match_score INT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_match_candidates_batch ON match_candidates(batch_id)`,
		`CREATE TABLE IF NOT EXISTS artist_earnings (
			artist_id BIGINT PRIMARY KEY REFERENCES artists(id) ON DELETE CASCADE,
			total_earnings_cents BIGINT NOT NULL DEFAULT 0,
			artist_share_cents BIGINT NOT NULL DEFAULT 0,
			platform_fee_cents BIGINT NOT NULL DEFAULT 0,
			computed_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS api_keys (
			id BIGSERIAL PRIMARY KEY,
			label VARCHAR(255) NOT NULL DEFAULT '',
			api_key VARCHAR(128) NOT NULL UNIQUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
	}

	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("schema bootstrap: %w", err)
		}
	}
	return nil
}
