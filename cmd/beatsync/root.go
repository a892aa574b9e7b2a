package main

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"beatsync/internal/autosync"
	"beatsync/internal/fileutil"
	"beatsync/internal/logging"
	"beatsync/internal/services"
	"beatsync/internal/timeline"
)

type syncOptions struct {
	format string
	output string
	speed  int
}

func newRootCommand() *cobra.Command {
	var configFlag string
	var noCache bool
	opts := &syncOptions{}

	ctx := newCommandContext(&configFlag, &noCache)

	rootCmd := &cobra.Command{
		Use:   "beatsync [flags] <audio> <lines>",
		Short: "Place caption lines on the strongest beats of an audio track",
		Long: `beatsync detects onsets in an audio file and assigns one time point to
each non-empty line of a text file, preferring the strongest onset in each
region of the track. The timeline is printed as JSON (or a subtitle format)
on stdout; diagnostics go to stderr.`,
		Example: `  beatsync song.mp3 lyrics.txt
  beatsync -f srt -o song.srt song.mp3 lyrics.txt`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          requireAudioAndLines,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := ctx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSync(cmd, ctx, opts, args[0], args[1])
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVar(&noCache, "no-cache", false, "Analyze audio without reading or writing the analysis cache")
	rootCmd.Flags().StringVarP(&opts.format, "format", "f", "", "Output format: json, srt, vtt, ssa, ass, ttml (default from config)")
	rootCmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write the timeline to this file instead of stdout")
	rootCmd.Flags().IntVar(&opts.speed, "speed", 0, "Per-character display speed in ms written to each entry (default from config)")

	rootCmd.AddCommand(newInspectCommand(ctx))
	rootCmd.AddCommand(newDepsCommand(ctx))
	rootCmd.AddCommand(newCacheCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))

	return rootCmd
}

func requireAudioAndLines(cmd *cobra.Command, args []string) error {
	if len(args) == 2 {
		return nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), cmd.UsageString())
	return services.Wrap(services.ErrUsage, "", "", fmt.Sprintf("expected <audio> <lines>, got %d argument(s)", len(args)), nil)
}

func runSync(cmd *cobra.Command, ctx *commandContext, opts *syncOptions, audioPath, linesPath string) error {
	cfg, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("speed") {
		if opts.speed <= 0 {
			return services.Wrap(services.ErrUsage, "", "", fmt.Sprintf("--speed must be positive (got %d)", opts.speed), nil)
		}
		cfg.Timeline.Speed = opts.speed
	}
	formatName := cfg.Timeline.Format
	if strings.TrimSpace(opts.format) != "" {
		formatName = opts.format
	}
	format, err := timeline.ParseFormat(formatName)
	if err != nil {
		return services.Wrap(services.ErrUsage, "", "", "", err)
	}

	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}
	runCtx := services.WithRunID(cmd.Context(), uuid.NewString())

	result, err := autosync.Run(runCtx, autosync.Request{
		AudioPath: audioPath,
		LinesPath: linesPath,
		Config:    cfg,
		NoCache:   ctx.cacheDisabled(),
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if format.IsSubtitle() {
		err = timeline.WriteSubtitles(&buf, result.Entries, format, timeline.SubtitleOptions{
			MinDisplay: cfg.MinDisplay(),
			Duration:   secondsDuration(result.Analysis.Duration),
			Title:      strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath)),
		})
	} else {
		err = timeline.WriteJSON(&buf, result.Entries)
	}
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "output", string(format), "render timeline", err)
	}

	if opts.output == "" {
		_, err = cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := fileutil.WriteFileAtomic(opts.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write timeline: %w", err)
	}
	logging.WithContext(runCtx, logger).Info("timeline written",
		logging.String("path", opts.output),
		logging.String("format", string(format)),
		logging.Int("entries", len(result.Entries)),
	)
	return nil
}
