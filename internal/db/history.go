package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// MarkWatched records a watched video for a user. Re-watching the same video
// refreshes the timestamp instead of inserting a second row.
func (db *DB) MarkWatched(ctx context.Context, w *WatchedVideo) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO watch_history (user_id, video_id, topic, level, duration_sec)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (user_id, video_id) DO UPDATE
		 SET topic = $3, level = $4, duration_sec = $5, watched_at = NOW()`,
		w.UserID, w.VideoID, w.Topic, w.Level, w.DurationSec,
	)
	if err != nil {
		return fmt.Errorf("failed to mark watched: %w", err)
	}
	return nil
}

// ListWatched returns a user's watch history, newest first
func (db *DB) ListWatched(ctx context.Context, userID uuid.UUID, limit int) ([]WatchedVideo, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, video_id, topic, COALESCE(level, ''), duration_sec, watched_at
		 FROM watch_history WHERE user_id = $1
		 ORDER BY watched_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list watch history: %w", err)
	}
	defer rows.Close()

	var watched []WatchedVideo
	for rows.Next() {
		var w WatchedVideo
		if err := rows.Scan(&w.ID, &w.UserID, &w.VideoID, &w.Topic, &w.Level, &w.DurationSec, &w.WatchedAt); err != nil {
			return nil, fmt.Errorf("failed to scan watch history row: %w", err)
		}
		watched = append(watched, w)
	}
	return watched, rows.Err()
}

// WatchedIDs returns the set of video ids a user has watched, optionally
// scoped to a topic. This is the exclusion set for pack builds.
func (db *DB) WatchedIDs(ctx context.Context, userID uuid.UUID, topic string) ([]string, error) {
	query := `SELECT video_id FROM watch_history WHERE user_id = $1`
	args := []any{userID}
	if topic != "" {
		query += ` AND topic = $2`
		args = append(args, topic)
	}

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list watched ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan watched id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// MinutesByTopic aggregates a user's watch time per topic, most-watched first
func (db *DB) MinutesByTopic(ctx context.Context, userID uuid.UUID) ([]TopicMinutes, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT topic, SUM(duration_sec) / 60, COUNT(*)
		 FROM watch_history WHERE user_id = $1
		 GROUP BY topic ORDER BY 2 DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate watch minutes: %w", err)
	}
	defer rows.Close()

	var totals []TopicMinutes
	for rows.Next() {
		var t TopicMinutes
		if err := rows.Scan(&t.Topic, &t.Minutes, &t.Videos); err != nil {
			return nil, fmt.Errorf("failed to scan topic minutes: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// WatchDays returns the distinct UTC days on which a user watched anything,
// newest first. Feeds streak computation.
func (db *DB) WatchDays(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT DISTINCT TO_CHAR(watched_at AT TIME ZONE 'UTC', 'YYYY-MM-DD')
		 FROM watch_history WHERE user_id = $1
		 ORDER BY 1 DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list watch days: %w", err)
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan watch day: %w", err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}
