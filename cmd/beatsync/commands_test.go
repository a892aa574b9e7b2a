package main

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"beatsync/internal/services"
	"beatsync/internal/testsupport"
)

func TestInspectShowsSelection(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSilentAudioTools(3))
	audioPath := env.writeAudio(t)

	stdout, stderr, err := runCLI(t, []string{"inspect", audioPath, "--lines", "2"}, env.configPath)
	if err != nil {
		t.Fatalf("inspect returned error: %v\nstderr: %s", err, stderr)
	}
	requireContains(t, stdout, "Duration: 3.00s")
	requireContains(t, stdout, "Onsets:   0")
	requireContains(t, stdout, "Selection: uniform")
	requireContains(t, stdout, "fallback")
}

func TestInspectJSON(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSilentAudioTools(2))
	audioPath := env.writeAudio(t)

	stdout, _, err := runCLI(t, []string{"inspect", "--json", "-n", "3", audioPath}, env.configPath)
	if err != nil {
		t.Fatalf("inspect returned error: %v", err)
	}
	var report inspectReport
	if err := json.Unmarshal([]byte(stdout), &report); err != nil {
		t.Fatalf("decode report: %v\n%s", err, stdout)
	}
	if report.Analysis.Duration != 2 {
		t.Fatalf("unexpected duration %v", report.Analysis.Duration)
	}
	if report.Selection == nil || len(report.Selection.Times) != 3 {
		t.Fatalf("expected a 3-point selection, got %+v", report.Selection)
	}
}

func TestDepsCommand(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithSilentAudioTools(1))

	stdout, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err != nil {
		t.Fatalf("deps returned error: %v", err)
	}
	requireContains(t, stdout, "FFmpeg:")
	requireContains(t, stdout, "[OK]")

	env.cfg.Analysis.FFprobeBinary = filepath.Join(env.baseDir, "missing-ffprobe")
	writeTestConfig(t, env.configPath, env.cfg)
	stdout, _, err = runCLI(t, []string{"deps"}, env.configPath)
	if !errors.Is(err, services.ErrDependencyMissing) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	requireContains(t, stdout, "[ERROR]")
	requireContains(t, stdout, "Hint:")
}

func TestCacheStatsAndClear(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithCache(true), testsupport.WithSilentAudioTools(2))
	audioPath := env.writeAudio(t)
	linesPath := env.writeLines(t, "a", "b")

	if _, stderr, err := runCLI(t, []string{audioPath, linesPath}, env.configPath); err != nil {
		t.Fatalf("beatsync returned error: %v\nstderr: %s", err, stderr)
	}

	stdout, _, err := runCLI(t, []string{"cache", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("cache stats returned error: %v", err)
	}
	requireContains(t, stdout, "Entries")
	requireContains(t, stdout, env.cfg.Cache.Dir)

	stdout, _, err = runCLI(t, []string{"cache", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("cache clear returned error: %v", err)
	}
	requireContains(t, stdout, "Removed 1 cached analyses")
}

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")
	requireContains(t, out, env.configPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected error when config already exists")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, []string{"config", "validate"}, target)
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Configuration valid")
}

func TestFormatBytes(t *testing.T) {
	tests := map[int64]string{
		0:       "0 B",
		1023:    "1023 B",
		1024:    "1.0 KiB",
		1536000: "1.5 MiB",
	}
	for in, want := range tests {
		if got := formatBytes(in); got != want {
			t.Fatalf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
