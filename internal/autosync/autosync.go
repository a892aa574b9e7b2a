package autosync

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"beatsync/internal/analysiscache"
	"beatsync/internal/audio"
	"beatsync/internal/config"
	"beatsync/internal/deps"
	"beatsync/internal/logging"
	"beatsync/internal/lyrics"
	"beatsync/internal/onset"
	"beatsync/internal/services"
	"beatsync/internal/timeline"
)

// Request describes a single timing run.
type Request struct {
	AudioPath string
	LinesPath string
	Config    *config.Config
	// NoCache bypasses the analysis cache for this run.
	NoCache bool
	// Analyzer replaces the ffmpeg analyzer. Dependency checks and the cache
	// are skipped when set.
	Analyzer audio.Analyzer
	Logger   *slog.Logger
}

// Result is the outcome of a successful run.
type Result struct {
	RunID     string
	Lines     []string
	Analysis  audio.Analysis
	Selection onset.Selection
	Entries   []timeline.Entry
}

// Run executes the pipeline. The context carries a run id for log
// correlation; one is generated when absent.
func Run(ctx context.Context, req Request) (Result, error) {
	if strings.TrimSpace(req.AudioPath) == "" || strings.TrimSpace(req.LinesPath) == "" {
		return Result{}, services.Wrap(services.ErrUsage, "autosync", "run", "audio and lines paths are required", nil)
	}
	cfg := req.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}
	runID, ok := services.RunIDFromContext(ctx)
	if !ok {
		runID = uuid.NewString()
		ctx = services.WithRunID(ctx, runID)
	}
	logger := logging.NewComponentLogger(req.Logger, "autosync")
	result := Result{RunID: runID}

	lines, err := lyrics.Load(req.LinesPath)
	if err != nil {
		return Result{}, err
	}
	result.Lines = lines
	logging.WithContext(services.WithStage(ctx, "lines"), logger).Debug("lines loaded",
		logging.String("path", req.LinesPath),
		logging.Int("count", len(lines)),
	)

	analyzer := req.Analyzer
	if analyzer == nil {
		if err := deps.Require(deps.CheckBinaries(deps.AnalysisRequirements(cfg))); err != nil {
			return Result{}, err
		}
		var closeCache func()
		analyzer, closeCache = NewAnalyzer(ctx, cfg, req.NoCache, req.Logger)
		defer closeCache()
	}

	analyzeCtx := services.WithStage(ctx, "analyze")
	analysis, err := analyzer.Analyze(analyzeCtx, req.AudioPath)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return Result{}, services.Wrap(services.ErrExternalTool, "analyze", "onsets", "analysis interrupted", err)
		}
		return Result{}, err
	}
	result.Analysis = analysis
	logging.WithContext(analyzeCtx, logger).Info("audio analyzed",
		logging.String("audio", req.AudioPath),
		logging.Float64("duration_seconds", timeline.Round(analysis.Duration)),
		logging.Int("onsets", analysis.Onsets.Len()),
	)

	selectCtx := services.WithStage(ctx, "select")
	policy := onset.Policy{LeadIn: cfg.Selection.LeadInSeconds, LeadOut: cfg.Selection.LeadOutSeconds}
	selection := onset.Select(analysis.Onsets, len(lines), analysis.Duration, policy)
	result.Selection = selection
	reportSelection(logging.WithContext(selectCtx, logger), selection, len(lines))

	result.Entries = timeline.Assemble(selection.Times, lines, cfg.Timeline.Speed)
	return result, nil
}

func reportSelection(logger *slog.Logger, selection onset.Selection, lineCount int) {
	switch selection.Strategy {
	case onset.StrategyUniform:
		logging.WarnWithContext(logger, "no onsets detected; spreading lines evenly",
			"degenerate_input",
			logging.Alert("uniform_fallback"),
			logging.String(logging.FieldErrorHint, "check that the audio has audible percussive content"),
			logging.String(logging.FieldImpact, "caption times follow an even spread instead of the music"),
		)
	case onset.StrategyPadded:
		logger.Info("fewer onsets than lines; filled gaps with evenly spaced points",
			logging.Int("lines", lineCount),
			logging.Int("synthesized", selection.Synthesized),
		)
	default:
		logger.Debug("onsets selected",
			logging.String("strategy", string(selection.Strategy)),
			logging.Int("lines", lineCount),
			logging.Int("midpoints", selection.Synthesized),
		)
	}
	if selection.Clamped {
		logging.WarnWithContext(logger, "track shorter than lead-in plus lead-out; spread over the full track",
			"degenerate_input",
			logging.Alert("short_track"),
			logging.String(logging.FieldImpact, "first or last caption may sit at the track edge"),
		)
	}
}

// NewAnalyzer returns the ffmpeg analyzer, wrapped with the cache when
// enabled and not bypassed. The returned func releases the cache. A cache
// that cannot be opened is logged and skipped.
func NewAnalyzer(ctx context.Context, cfg *config.Config, noCache bool, base *slog.Logger) (audio.Analyzer, func()) {
	ffmpeg := audio.NewFFmpegAnalyzer(cfg, base)
	if noCache || !cfg.Cache.Enabled || strings.TrimSpace(cfg.Cache.Dir) == "" {
		return ffmpeg, func() {}
	}
	store, err := analysiscache.Open(cfg.Cache.Dir)
	if err != nil {
		logging.WithContext(ctx, logging.NewComponentLogger(base, "autosync")).Warn(
			"analysis cache unavailable; continuing without cache", logging.Error(err))
		return ffmpeg, func() {}
	}
	return analysiscache.NewCachedAnalyzer(ffmpeg, store, ffmpeg.Params, base), func() { _ = store.Close() }
}
