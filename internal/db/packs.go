package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// SavePack persists a built pack for a user and returns its ID
func (db *DB) SavePack(ctx context.Context, p *SavedPack) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO saved_packs (user_id, topic, level, items, total_duration_sec, under_filled)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id`,
		p.UserID, p.Topic, p.Level, p.Items, p.TotalDurationSec, p.UnderFilled,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to save pack: %w", err)
	}
	return id, nil
}

// GetPack retrieves a saved pack by ID. Returns nil if not found.
func (db *DB) GetPack(ctx context.Context, id uuid.UUID) (*SavedPack, error) {
	var p SavedPack
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, topic, COALESCE(level, ''), items, total_duration_sec, under_filled, created_at
		 FROM saved_packs WHERE id = $1`,
		id,
	).Scan(&p.ID, &p.UserID, &p.Topic, &p.Level, &p.Items, &p.TotalDurationSec, &p.UnderFilled, &p.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get pack: %w", err)
	}
	return &p, nil
}

// ListPacks returns a user's saved packs, newest first
func (db *DB) ListPacks(ctx context.Context, userID uuid.UUID, limit int) ([]SavedPack, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, topic, COALESCE(level, ''), items, total_duration_sec, under_filled, created_at
		 FROM saved_packs WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list packs: %w", err)
	}
	defer rows.Close()

	var packs []SavedPack
	for rows.Next() {
		var p SavedPack
		if err := rows.Scan(&p.ID, &p.UserID, &p.Topic, &p.Level, &p.Items, &p.TotalDurationSec, &p.UnderFilled, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan pack: %w", err)
		}
		packs = append(packs, p)
	}
	return packs, rows.Err()
}

// DeletePack removes a saved pack owned by the given user
func (db *DB) DeletePack(ctx context.Context, id, userID uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM saved_packs WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete pack: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("pack not found: %s", id)
	}
	return nil
}
