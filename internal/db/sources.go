package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// BlockSource records a source/channel a user wants excluded from packs
func (db *DB) BlockSource(ctx context.Context, userID uuid.UUID, sourceID, reason string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO blocked_sources (user_id, source_id, reason)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, source_id) DO UPDATE SET reason = $3`,
		userID, sourceID, reason,
	)
	if err != nil {
		return fmt.Errorf("failed to block source: %w", err)
	}
	return nil
}

// UnblockSource removes a blocked source for a user
func (db *DB) UnblockSource(ctx context.Context, userID uuid.UUID, sourceID string) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM blocked_sources WHERE user_id = $1 AND source_id = $2`,
		userID, sourceID,
	)
	if err != nil {
		return fmt.Errorf("failed to unblock source: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("blocked source not found: %s", sourceID)
	}
	return nil
}

// ListBlockedSources returns a user's blocked sources
func (db *DB) ListBlockedSources(ctx context.Context, userID uuid.UUID) ([]BlockedSource, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, source_id, COALESCE(reason, ''), created_at
		 FROM blocked_sources WHERE user_id = $1
		 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked sources: %w", err)
	}
	defer rows.Close()

	var blocked []BlockedSource
	for rows.Next() {
		var b BlockedSource
		if err := rows.Scan(&b.ID, &b.UserID, &b.SourceID, &b.Reason, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan blocked source: %w", err)
		}
		blocked = append(blocked, b)
	}
	return blocked, rows.Err()
}

// BlockedSourceIDs returns just the source ids, for pack-build requests
func (db *DB) BlockedSourceIDs(ctx context.Context, userID uuid.UUID) ([]string, error) {
	blocked, err := db.ListBlockedSources(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(blocked))
	for _, b := range blocked {
		ids = append(ids, b.SourceID)
	}
	return ids, nil
}
