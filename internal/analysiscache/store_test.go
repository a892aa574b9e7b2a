package analysiscache

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"beatsync/internal/audio"
	"beatsync/internal/onset"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleAnalysis() audio.Analysis {
	return audio.Analysis{
		Onsets:     onset.Set{{Time: 0.5, Strength: 1.25}, {Time: 1.75, Strength: 3}},
		Duration:   12.5,
		SampleRate: 22050,
		Frames:     539,
	}
}

func TestSaveAndLookup(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	entry := Entry{Key: "abc", Path: "/music/song.mp3", Size: 42, Analysis: sampleAnalysis(), CreatedAt: created}
	if err := store.Save(ctx, entry); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	got, ok, err := store.Lookup(ctx, "abc")
	if err != nil || !ok {
		t.Fatalf("Lookup = ok %v, err %v", ok, err)
	}
	if !reflect.DeepEqual(got.Analysis, entry.Analysis) {
		t.Fatalf("analysis mismatch: got %+v, want %+v", got.Analysis, entry.Analysis)
	}
	if got.Path != entry.Path || got.Size != 42 || !got.CreatedAt.Equal(created) {
		t.Fatalf("metadata mismatch: %+v", got)
	}
}

func TestLookupMiss(t *testing.T) {
	store := openTestStore(t)
	_, ok, err := store.Lookup(context.Background(), "missing")
	if err != nil {
		t.Fatalf("Lookup returned error: %v", err)
	}
	if ok {
		t.Fatal("expected cache miss")
	}
}

func TestSaveEmptyOnsets(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	if err := store.Save(ctx, Entry{Key: "silent", Analysis: audio.Analysis{Duration: 3}}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	got, ok, err := store.Lookup(ctx, "silent")
	if err != nil || !ok {
		t.Fatalf("Lookup = ok %v, err %v", ok, err)
	}
	if got.Analysis.Onsets == nil || got.Analysis.Onsets.Len() != 0 {
		t.Fatalf("expected empty onset set, got %#v", got.Analysis.Onsets)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be filled in")
	}
	if err := store.Save(ctx, Entry{}); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestStatsAndClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	for _, key := range []string{"one", "two"} {
		if err := store.Save(ctx, Entry{Key: key, Analysis: sampleAnalysis()}); err != nil {
			t.Fatalf("Save returned error: %v", err)
		}
	}

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.Entries != 2 || stats.Onsets != 4 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.SizeBytes <= 0 || stats.Oldest.IsZero() || stats.Newest.IsZero() {
		t.Fatalf("expected size and timestamps, got %+v", stats)
	}

	removed, err := store.Clear(ctx)
	if err != nil {
		t.Fatalf("Clear returned error: %v", err)
	}
	if removed != 2 {
		t.Fatalf("expected 2 removed, got %d", removed)
	}
	stats, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats returned error: %v", err)
	}
	if stats.Entries != 0 || !stats.Oldest.IsZero() {
		t.Fatalf("expected empty cache, got %+v", stats)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	if err := store.Save(context.Background(), Entry{Key: "k", Analysis: sampleAnalysis()}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	_ = store.Close()

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()
	if _, ok, err := reopened.Lookup(context.Background(), "k"); err != nil || !ok {
		t.Fatalf("expected entry after reopen, ok=%v err=%v", ok, err)
	}
	if _, err := os.Stat(filepath.Join(dir, DBFileName)); err != nil {
		t.Fatalf("expected database file: %v", err)
	}
}

func TestSchemaVersionMismatchResets(t *testing.T) {
	dir := t.TempDir()
	store, err := Open(dir)
	if err != nil {
		t.Fatalf("Open returned error: %v", err)
	}
	ctx := context.Background()
	if err := store.Save(ctx, Entry{Key: "k", Analysis: sampleAnalysis()}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}
	if _, err := store.db.ExecContext(ctx, "UPDATE schema_version SET version = 99"); err != nil {
		t.Fatalf("bump version: %v", err)
	}
	_ = store.Close()

	reopened, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen returned error: %v", err)
	}
	defer reopened.Close()
	if _, ok, _ := reopened.Lookup(ctx, "k"); ok {
		t.Fatal("expected cache to be reset after version change")
	}
}

func TestOpenRejectsEmptyDir(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error for empty directory")
	}
}

func TestKeyDependsOnFingerprint(t *testing.T) {
	if Key("digest", "a") == Key("digest", "b") {
		t.Fatal("expected different keys for different fingerprints")
	}
	if Key("digest", "a") != Key("digest", "a") {
		t.Fatal("expected stable keys")
	}
}
