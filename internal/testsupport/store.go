package testsupport

import (
	"testing"

	"beatsync/internal/analysiscache"
	"beatsync/internal/config"
)

// MustOpenCache opens the analysis cache configured on cfg and registers cleanup.
func MustOpenCache(t testing.TB, cfg *config.Config) *analysiscache.Store {
	t.Helper()

	store, err := analysiscache.Open(cfg.Cache.Dir)
	if err != nil {
		t.Fatalf("analysiscache.Open: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store
}
