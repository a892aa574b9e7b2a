package autosync

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/google/uuid"

	"beatsync/internal/audio"
	"beatsync/internal/onset"
	"beatsync/internal/services"
	"beatsync/internal/testsupport"
)

type fakeAnalyzer struct {
	analysis audio.Analysis
	err      error
	calls    int
}

func (f *fakeAnalyzer) Analyze(context.Context, string) (audio.Analysis, error) {
	f.calls++
	return f.analysis, f.err
}

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}

func TestRunPlacesLinesOnOnsets(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithSpeed(100))
	dir := testsupport.BaseDir(cfg)
	linesPath := testsupport.WriteLines(t, dir, "lines.txt", "first", "", "second", "third")
	analyzer := &fakeAnalyzer{analysis: audio.Analysis{
		Onsets:   onset.Set{{Time: 1, Strength: 2}, {Time: 5, Strength: 1}, {Time: 9, Strength: 3}},
		Duration: 10,
	}}

	result, err := Run(context.Background(), Request{
		AudioPath: "song.mp3",
		LinesPath: linesPath,
		Config:    cfg,
		Analyzer:  analyzer,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if got := result.Selection.Times; !reflect.DeepEqual(got, []float64{1, 5, 9}) {
		t.Fatalf("unexpected times %v", got)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(result.Entries))
	}
	for i, want := range []string{"first", "second", "third"} {
		if result.Entries[i].Text != want || result.Entries[i].Speed != 100 {
			t.Fatalf("entry %d = %+v", i, result.Entries[i])
		}
	}
	if _, err := uuid.Parse(result.RunID); err != nil {
		t.Fatalf("expected generated uuid run id, got %q", result.RunID)
	}
}

func TestRunWarnsOnUniformFallback(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	linesPath := testsupport.WriteLines(t, testsupport.BaseDir(cfg), "lines.txt", "a", "b", "c")
	logger, logs := captureLogger()
	ctx := services.WithRunID(context.Background(), "run-1")

	result, err := Run(ctx, Request{
		AudioPath: "song.mp3",
		LinesPath: linesPath,
		Config:    cfg,
		Analyzer:  &fakeAnalyzer{analysis: audio.Analysis{Onsets: onset.Set{}, Duration: 10}},
		Logger:    logger,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if result.RunID != "run-1" {
		t.Fatalf("expected run id from context, got %q", result.RunID)
	}
	if result.Selection.Strategy != onset.StrategyUniform {
		t.Fatalf("expected uniform strategy, got %s", result.Selection.Strategy)
	}
	times := []float64{result.Entries[0].Time, result.Entries[1].Time, result.Entries[2].Time}
	if !reflect.DeepEqual(times, []float64{0.5, 4.75, 9}) {
		t.Fatalf("unexpected times %v", times)
	}
	out := logs.String()
	for _, want := range []string{`"event_type":"degenerate_input"`, `"alert":"uniform_fallback"`, `"run_id":"run-1"`, `"onsets":0`, `"duration_seconds":10`} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %s:\n%s", want, out)
		}
	}
}

func TestRunWarnsOnShortTrack(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	linesPath := testsupport.WriteLines(t, testsupport.BaseDir(cfg), "lines.txt", "a", "b")
	logger, logs := captureLogger()

	result, err := Run(context.Background(), Request{
		AudioPath: "jingle.mp3",
		LinesPath: linesPath,
		Config:    cfg,
		Analyzer:  &fakeAnalyzer{analysis: audio.Analysis{Onsets: onset.Set{}, Duration: 1}},
		Logger:    logger,
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if !result.Selection.Clamped {
		t.Fatal("expected clamped selection for a one-second track")
	}
	if got := []float64{result.Entries[0].Time, result.Entries[1].Time}; !reflect.DeepEqual(got, []float64{0, 1}) {
		t.Fatalf("unexpected times %v", got)
	}
	if !strings.Contains(logs.String(), `"alert":"short_track"`) {
		t.Fatalf("expected short track alert in logs:\n%s", logs.String())
	}
}

func TestRunRejectsEmptyLines(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	linesPath := testsupport.WriteLines(t, testsupport.BaseDir(cfg), "lines.txt", "", "   ")
	analyzer := &fakeAnalyzer{}

	_, err := Run(context.Background(), Request{AudioPath: "song.mp3", LinesPath: linesPath, Config: cfg, Analyzer: analyzer})
	if !errors.Is(err, services.ErrEmptyInput) {
		t.Fatalf("expected empty input error, got %v", err)
	}
	if analyzer.calls != 0 {
		t.Fatal("analyzer should not run without lines")
	}
}

func TestRunRequiresPaths(t *testing.T) {
	_, err := Run(context.Background(), Request{AudioPath: "song.mp3"})
	if !errors.Is(err, services.ErrUsage) {
		t.Fatalf("expected usage error, got %v", err)
	}
}

func TestRunReportsMissingDependencies(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := testsupport.BaseDir(cfg)
	cfg.Analysis.FFmpegBinary = dir + "/missing-ffmpeg"
	cfg.Analysis.FFprobeBinary = dir + "/missing-ffprobe"
	linesPath := testsupport.WriteLines(t, dir, "lines.txt", "a")

	_, err := Run(context.Background(), Request{AudioPath: "song.mp3", LinesPath: linesPath, Config: cfg})
	if !errors.Is(err, services.ErrDependencyMissing) {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if services.ExitCode(err) != services.ExitDependencyMissing {
		t.Fatalf("unexpected exit code %d", services.ExitCode(err))
	}
	if !strings.Contains(err.Error(), "install ffmpeg") {
		t.Fatalf("expected install hint in %q", err.Error())
	}
}

func TestRunPropagatesAnalyzerError(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	linesPath := testsupport.WriteLines(t, testsupport.BaseDir(cfg), "lines.txt", "a")
	failure := services.Wrap(services.ErrExternalTool, "analyze", "ffmpeg", "decode audio", errors.New("boom"))

	_, err := Run(context.Background(), Request{
		AudioPath: "song.mp3",
		LinesPath: linesPath,
		Config:    cfg,
		Analyzer:  &fakeAnalyzer{err: failure},
	})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}

func TestRunWithStubbedToolsUsesCache(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithCache(true), testsupport.WithSilentAudioTools(3))
	dir := testsupport.BaseDir(cfg)
	linesPath := testsupport.WriteLines(t, dir, "lines.txt", "one", "two", "three")
	audioPath := dir + "/song.wav"
	testsupport.WriteFile(t, audioPath, 128)

	run := func(noCache bool) Result {
		t.Helper()
		result, err := Run(context.Background(), Request{
			AudioPath: audioPath,
			LinesPath: linesPath,
			Config:    cfg,
			NoCache:   noCache,
		})
		if err != nil {
			t.Fatalf("Run returned error: %v", err)
		}
		return result
	}

	first := run(false)
	if first.Analysis.Duration != 3 {
		t.Fatalf("expected 3s duration, got %v", first.Analysis.Duration)
	}
	times := []float64{first.Entries[0].Time, first.Entries[1].Time, first.Entries[2].Time}
	if !reflect.DeepEqual(times, []float64{0.5, 1.25, 2}) {
		t.Fatalf("unexpected times %v", times)
	}

	second := run(false)
	if !reflect.DeepEqual(second.Entries, first.Entries) {
		t.Fatalf("cached run differs: %+v vs %+v", second.Entries, first.Entries)
	}
	if calls := decodeCalls(t, testsupport.DecodeLog(cfg)); calls != 1 {
		t.Fatalf("expected a single decode with the cache, got %d", calls)
	}

	run(true)
	if calls := decodeCalls(t, testsupport.DecodeLog(cfg)); calls != 2 {
		t.Fatalf("expected --no-cache to decode again, got %d decodes", calls)
	}
}

func decodeCalls(t *testing.T, path string) int {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read decode log: %v", err)
	}
	return strings.Count(string(data), "decode")
}
