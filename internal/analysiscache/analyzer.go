package analysiscache

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	"beatsync/internal/audio"
	"beatsync/internal/fileutil"
	"beatsync/internal/logging"
)

const lockRetryDelay = 100 * time.Millisecond

// CachedAnalyzer serves analyses from a Store and falls back to an inner
// analyzer on a miss.
type CachedAnalyzer struct {
	inner       audio.Analyzer
	store       *Store
	fingerprint string
	lockDir     string
	logger      *slog.Logger
}

// NewCachedAnalyzer wraps inner. The params fingerprint becomes part of every key.
func NewCachedAnalyzer(inner audio.Analyzer, store *Store, params audio.Params, logger *slog.Logger) *CachedAnalyzer {
	return &CachedAnalyzer{
		inner:       inner,
		store:       store,
		fingerprint: params.Fingerprint(),
		lockDir:     filepath.Join(store.Dir(), "locks"),
		logger:      logging.NewComponentLogger(logger, "analysiscache"),
	}
}

// Analyze returns the cached analysis for path or computes and stores it.
// Only one process analyzes a given file at a time; others wait for the lock
// and then read the stored result.
func (c *CachedAnalyzer) Analyze(ctx context.Context, path string) (audio.Analysis, error) {
	logger := logging.WithContext(ctx, c.logger)

	digest, size, err := fileutil.HashFile(path)
	if err != nil {
		logger.Warn("cache key unavailable; analyzing without cache", logging.Error(err))
		return c.inner.Analyze(ctx, path)
	}
	key := Key(digest, c.fingerprint)

	if analysis, ok := c.lookup(ctx, logger, key); ok {
		return analysis, nil
	}

	unlock, err := c.lock(ctx, key)
	if err != nil {
		if ctx.Err() != nil {
			return audio.Analysis{}, ctx.Err()
		}
		logger.Warn("analysis lock unavailable; analyzing without lock", logging.Error(err))
	} else {
		defer unlock()
		if analysis, ok := c.lookup(ctx, logger, key); ok {
			return analysis, nil
		}
	}

	analysis, err := c.inner.Analyze(ctx, path)
	if err != nil {
		return audio.Analysis{}, err
	}
	entry := Entry{Key: key, Path: path, Size: size, Analysis: analysis}
	if err := c.store.Save(ctx, entry); err != nil {
		logger.Warn("failed to store analysis", logging.Error(err))
	} else {
		logger.Debug("analysis cached", logging.String("key", key[:12]), logging.Int("onsets", analysis.Onsets.Len()))
	}
	return analysis, nil
}

func (c *CachedAnalyzer) lookup(ctx context.Context, logger *slog.Logger, key string) (audio.Analysis, bool) {
	entry, ok, err := c.store.Lookup(ctx, key)
	if err != nil {
		logger.Warn("cache lookup failed", logging.Error(err))
		return audio.Analysis{}, false
	}
	if ok {
		logger.Debug("analysis cache hit",
			logging.String("key", key[:12]),
			logging.String("cached_at", entry.CreatedAt.Format(time.RFC3339)),
		)
	}
	return entry.Analysis, ok
}

func (c *CachedAnalyzer) lock(ctx context.Context, key string) (func(), error) {
	if err := os.MkdirAll(c.lockDir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	fl := flock.New(filepath.Join(c.lockDir, key+".lock"))
	locked, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire analysis lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("acquire analysis lock: %s busy", fl.Path())
	}
	return func() { _ = fl.Unlock() }, nil
}
