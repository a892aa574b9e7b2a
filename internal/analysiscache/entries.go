package analysiscache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"beatsync/internal/audio"
	"beatsync/internal/onset"
)

// Entry is a cached analysis.
type Entry struct {
	Key       string
	Path      string
	Size      int64
	Analysis  audio.Analysis
	CreatedAt time.Time
}

// Stats summarizes the cache contents.
type Stats struct {
	Path      string
	Entries   int
	Onsets    int
	SizeBytes int64
	Oldest    time.Time
	Newest    time.Time
}

// Key derives the cache key for audio content and an analysis fingerprint.
func Key(contentDigest, fingerprint string) string {
	sum := sha256.Sum256([]byte(contentDigest + "\x00" + fingerprint))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the entry stored under key. The boolean is false on a miss.
func (s *Store) Lookup(ctx context.Context, key string) (Entry, bool, error) {
	var (
		entry      Entry
		onsetsJSON string
		createdAt  string
	)
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, `
			SELECT key, path, size, duration, sample_rate, frames, onsets_json, created_at
			FROM analyses WHERE key = ?`, key,
		).Scan(&entry.Key, &entry.Path, &entry.Size, &entry.Analysis.Duration,
			&entry.Analysis.SampleRate, &entry.Analysis.Frames, &onsetsJSON, &createdAt)
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("lookup analysis: %w", err)
	}

	var onsets onset.Set
	if err := json.Unmarshal([]byte(onsetsJSON), &onsets); err != nil {
		return Entry{}, false, fmt.Errorf("decode cached onsets: %w", err)
	}
	if onsets == nil {
		onsets = onset.Set{}
	}
	entry.Analysis.Onsets = onsets
	if parsed, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		entry.CreatedAt = parsed
	}
	return entry, true, nil
}

// Save inserts or replaces the entry under its key. A zero CreatedAt is set
// to the current time.
func (s *Store) Save(ctx context.Context, entry Entry) error {
	if entry.Key == "" {
		return errors.New("save analysis: empty key")
	}
	onsets := entry.Analysis.Onsets
	if onsets == nil {
		onsets = onset.Set{}
	}
	payload, err := json.Marshal(onsets)
	if err != nil {
		return fmt.Errorf("encode onsets: %w", err)
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	_, err = s.exec(ctx, `
		INSERT OR REPLACE INTO analyses
			(key, path, size, duration, sample_rate, frames, onset_count, onsets_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Key, entry.Path, entry.Size, entry.Analysis.Duration, entry.Analysis.SampleRate,
		entry.Analysis.Frames, onsets.Len(), string(payload), entry.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

// Stats reports entry counts and the database size on disk.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Path: s.path}
	var oldest, newest sql.NullString
	err := retryOnBusy(ctx, func() error {
		return s.db.QueryRowContext(ctx, `
			SELECT COUNT(1), COALESCE(SUM(onset_count), 0), MIN(created_at), MAX(created_at)
			FROM analyses`,
		).Scan(&stats.Entries, &stats.Onsets, &oldest, &newest)
	})
	if err != nil {
		return Stats{}, fmt.Errorf("cache stats: %w", err)
	}
	if oldest.Valid {
		stats.Oldest, _ = time.Parse(time.RFC3339Nano, oldest.String)
	}
	if newest.Valid {
		stats.Newest, _ = time.Parse(time.RFC3339Nano, newest.String)
	}
	if info, err := os.Stat(s.path); err == nil {
		stats.SizeBytes = info.Size()
	}
	return stats, nil
}

// Clear removes every entry and returns how many were deleted.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.exec(ctx, "DELETE FROM analyses")
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	removed, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear cache: %w", err)
	}
	return removed, nil
}
